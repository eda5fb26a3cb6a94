package mp3

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
)

func mpeg1LayerIIIFrameHeader(bitrateIdx, sampleRateIdx uint32) []byte {
	var h uint32
	h |= 0xFFE00000            // sync
	h |= 0x3 << 19              // MPEG1
	h |= 0x1 << 17              // Layer III
	h |= 0x1 << 16              // no CRC protection bit set (protection_bit=1 means no CRC)
	h |= bitrateIdx << 12
	h |= sampleRateIdx << 10
	h |= 0x0 << 6 // stereo
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, h)
	return b
}

func TestParse_XingVBR(t *testing.T) {
	var data []byte
	data = append(data, []byte("ID3")...)
	data = append(data, 3, 0, 0, 0, 0, 0, 0) // header with size 0

	frame := mpeg1LayerIIIFrameHeader(10, 0) // bitrateIdx=10 (160kbps), sampleRateIdx=0 (44100)
	frameOffset := len(data)
	data = append(data, frame...)
	data = append(data, make([]byte, 32)...) // stereo MPEG1 side info, skipped before Xing

	xing := make([]byte, 120)
	copy(xing[0:4], "Xing")
	binary.BigEndian.PutUint32(xing[4:8], 0x3) // frames + bytes present
	binary.BigEndian.PutUint32(xing[8:12], 1000)
	binary.BigEndian.PutUint32(xing[12:16], 200000)
	data = append(data, xing...)
	_ = frameOffset

	r := reader.New(source.NewMemory(data, "test.mp3"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", m.CoreInfo.SampleRate)
	}
	if m.CoreInfo.Length == nil || *m.CoreInfo.Length < 26.0 || *m.CoreInfo.Length > 26.3 {
		t.Errorf("expected length ~26.12, got %v", m.CoreInfo.Length)
	}
	if mode, ok := m.Extensions["bitrate_mode"]; !ok || mode.Text[0] != "VBR" {
		t.Errorf("expected VBR bitrate mode, got %+v", mode)
	}
}

func TestCanParse_AcceptsRawSync(t *testing.T) {
	p := New(tagparsers.Options{})
	if !p.CanParse([]byte{0xFF, 0xFB, 0x90, 0x00}, "") {
		t.Error("expected CanParse to accept raw MPEG sync")
	}
}

func TestCanParse_AcceptsID3FollowedByFrameSync(t *testing.T) {
	var header []byte
	header = append(header, []byte("ID3")...)
	header = append(header, 3, 0, 0, 0, 0, 0, 0) // 10-byte ID3v2 header, tag size 0
	header = append(header, mpeg1LayerIIIFrameHeader(10, 0)...)

	p := New(tagparsers.Options{})
	if !p.CanParse(header, "") {
		t.Error("expected CanParse to accept an ID3v2 tag followed by a real MPEG frame sync")
	}
}

func TestCanParse_RejectsID3WithoutFrameSync(t *testing.T) {
	var header []byte
	header = append(header, []byte("ID3")...)
	header = append(header, 3, 0, 0, 0, 0, 0, 0) // 10-byte ID3v2 header, tag size 0
	header = append(header, []byte("TTA1")...)   // not an MPEG frame sync
	header = append(header, make([]byte, 64)...)

	p := New(tagparsers.Options{})
	if p.CanParse(header, "") {
		t.Error("expected CanParse to reject an ID3v2 tag not followed by an MPEG frame sync")
	}
}
