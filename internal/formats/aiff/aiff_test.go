package aiff

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
)

func be16(v uint16) []byte { b := make([]byte, 2); binary.BigEndian.PutUint16(b, v); return b }
func be32(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }

func encodeExtended80(v float64) []byte {
	exponent := 0
	mantissa := v
	for mantissa >= 1 {
		mantissa /= 2
		exponent++
	}
	m := uint64(mantissa * (1 << 63) * 2)
	b := make([]byte, 10)
	binary.BigEndian.PutUint16(b[0:2], uint16(exponent+16383-1))
	binary.BigEndian.PutUint64(b[2:10], m)
	return b
}

func TestParse_CommChunk(t *testing.T) {
	var data []byte
	data = append(data, []byte("FORM")...)
	data = append(data, be32(0)...)
	data = append(data, []byte("AIFF")...)

	var comm []byte
	comm = append(comm, be16(2)...)     // channels
	comm = append(comm, be32(44100)...) // sample frames
	comm = append(comm, be16(16)...)    // bits per sample
	comm = append(comm, encodeExtended80(44100)...)

	data = append(data, []byte("COMM")...)
	data = append(data, be32(uint32(len(comm)))...)
	data = append(data, comm...)

	r := reader.New(source.NewMemory(data, "test.aiff"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.CoreInfo.Channels == nil || *m.CoreInfo.Channels != 2 {
		t.Errorf("expected 2 channels, got %v", m.CoreInfo.Channels)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", m.CoreInfo.SampleRate)
	}
	if m.CoreInfo.Length == nil || *m.CoreInfo.Length != 1.0 {
		t.Errorf("expected length 1.0, got %v", m.CoreInfo.Length)
	}
}
