package ogg

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

// buildOggPage constructs a single-segment-table Ogg page (no continuation,
// packets here are all individually < 255 bytes so one segment per packet).
func buildOggPage(serial uint32, sequence uint32, granule int64, headerType byte, packets [][]byte) []byte {
	var segTable []byte
	var payload []byte
	for _, pkt := range packets {
		n := len(pkt)
		for n >= 255 {
			segTable = append(segTable, 255)
			n -= 255
		}
		segTable = append(segTable, byte(n))
		payload = append(payload, pkt...)
	}

	var page []byte
	page = append(page, []byte("OggS")...)
	page = append(page, 0x00, headerType)
	granuleBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(granuleBytes, uint64(granule))
	page = append(page, granuleBytes...)
	page = append(page, le32(serial)...)
	page = append(page, le32(sequence)...)
	page = append(page, le32(0)...) // CRC, unchecked by this parser
	page = append(page, byte(len(segTable)))
	page = append(page, segTable...)
	page = append(page, payload...)
	return page
}

func TestParse_OggOpus(t *testing.T) {
	opusHead := make([]byte, 19)
	copy(opusHead[0:8], "OpusHead")
	opusHead[8] = 1 // version
	opusHead[9] = 2 // channels
	binary.LittleEndian.PutUint16(opusHead[10:12], 312) // pre-skip

	opusTags := append([]byte("OpusTags"), le32(6)...)
	opusTags = append(opusTags, []byte("vendor")...)
	opusTags = append(opusTags, le32(0)...)

	page1 := buildOggPage(1, 0, 0, 0x02, [][]byte{opusHead})
	page2 := buildOggPage(1, 1, 0, 0x00, [][]byte{opusTags})
	page3 := buildOggPage(1, 2, 1440312, 0x04, [][]byte{{0x00, 0x01, 0x02}})

	var data []byte
	data = append(data, page1...)
	data = append(data, page2...)
	data = append(data, page3...)

	r := reader.New(source.NewMemory(data, "test.opus"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatOggOpus {
		t.Errorf("expected FormatOggOpus, got %v", m.Format)
	}
	if m.CoreInfo.Length == nil || *m.CoreInfo.Length != 30.0 {
		t.Errorf("expected length 30.0, got %v", m.CoreInfo.Length)
	}
	if m.CoreInfo.Channels == nil || *m.CoreInfo.Channels != 2 {
		t.Errorf("expected 2 channels, got %v", m.CoreInfo.Channels)
	}
}

func TestSplitSegments_ReconstructsAcrossMaxLengthRun(t *testing.T) {
	segTable := []byte{255, 255, 10}
	payload := make([]byte, 255+255+10)
	for i := range payload {
		payload[i] = byte(i % 256)
	}
	packets, trailing := splitSegments(segTable, payload)
	if len(packets) != 1 {
		t.Fatalf("expected 1 reconstructed packet, got %d", len(packets))
	}
	if len(packets[0]) != len(payload) {
		t.Errorf("expected packet length %d, got %d", len(payload), len(packets[0]))
	}
	if trailing != nil {
		t.Errorf("expected no trailing data, got %d bytes", len(trailing))
	}
}
