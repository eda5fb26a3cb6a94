package dsdiff

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func be32(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }
func be64(v uint64) []byte { b := make([]byte, 8); binary.BigEndian.PutUint64(b, v); return b }
func be16(v uint16) []byte { b := make([]byte, 2); binary.BigEndian.PutUint16(b, v); return b }

func chunk(id string, body []byte) []byte {
	out := append([]byte(id), be64(uint64(len(body)))...)
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0x00)
	}
	return out
}

func TestParse_PropAndChannels(t *testing.T) {
	fsChunk := chunk("FS  ", be32(2822400))
	chnlBody := append(be16(2), []byte("SLFTSRGT")...)
	chnlChunk := chunk("CHNL", chnlBody)
	propBody := append([]byte("SND "), fsChunk...)
	propBody = append(propBody, chnlChunk...)
	propChunk := chunk("PROP", propBody)

	var body []byte
	body = append(body, []byte("DSD ")...)
	body = append(body, propChunk...)

	var data []byte
	data = append(data, []byte("FRM8")...)
	data = append(data, be64(uint64(len(body)))...)
	data = append(data, body...)

	r := reader.New(source.NewMemory(data, "test.dff"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatDSDIFF {
		t.Errorf("expected FormatDSDIFF, got %v", m.Format)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 2822400 {
		t.Errorf("expected sample rate 2822400, got %v", m.CoreInfo.SampleRate)
	}
	if m.CoreInfo.Channels == nil || *m.CoreInfo.Channels != 2 {
		t.Errorf("expected 2 channels, got %v", m.CoreInfo.Channels)
	}
}

func TestCanParse_RequiresFRM8AndDSD(t *testing.T) {
	p := New(tagparsers.Options{})
	if p.CanParse([]byte("RIFF000000000000"), "") {
		t.Error("expected CanParse to reject non-DSDIFF header")
	}
}
