package wave

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
)

func le16(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func TestParse_16BitPCM(t *testing.T) {
	var data []byte
	data = append(data, []byte("RIFF")...)
	data = append(data, le32(0)...) // RIFF size, unused by parser
	data = append(data, []byte("WAVE")...)

	var fmtChunk []byte
	fmtChunk = append(fmtChunk, le16(1)...)  // audio format PCM
	fmtChunk = append(fmtChunk, le16(1)...)  // channels = 1
	fmtChunk = append(fmtChunk, le32(16000)...) // sample rate
	fmtChunk = append(fmtChunk, le32(32000)...) // byte rate
	fmtChunk = append(fmtChunk, le16(2)...)  // block align
	fmtChunk = append(fmtChunk, le16(16)...) // bits per sample

	data = append(data, []byte("fmt ")...)
	data = append(data, le32(uint32(len(fmtChunk)))...)
	data = append(data, fmtChunk...)

	dataChunk := make([]byte, 32000)
	data = append(data, []byte("data")...)
	data = append(data, le32(uint32(len(dataChunk)))...)
	data = append(data, dataChunk...)

	r := reader.New(source.NewMemory(data, "test.wav"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.CoreInfo.BitsPerSample == nil || *m.CoreInfo.BitsPerSample != 16 {
		t.Errorf("expected bits per sample 16, got %v", m.CoreInfo.BitsPerSample)
	}
	if m.CoreInfo.Length == nil || *m.CoreInfo.Length != 1.0 {
		t.Errorf("expected length 1.0, got %v", m.CoreInfo.Length)
	}
	if m.CoreInfo.Bitrate == nil || *m.CoreInfo.Bitrate != 256000 {
		t.Errorf("expected bitrate 256000, got %v", m.CoreInfo.Bitrate)
	}
}
