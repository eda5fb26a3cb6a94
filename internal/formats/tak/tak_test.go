package tak

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func apeItem(key, value string) []byte {
	var out []byte
	out = append(out, le32(uint32(len(value)))...)
	out = append(out, le32(0)...)
	out = append(out, []byte(key)...)
	out = append(out, 0x00)
	out = append(out, []byte(value)...)
	return out
}

func apeFooter(itemsSize, itemCount int) []byte {
	footer := make([]byte, 32)
	copy(footer[0:8], "APETAGEX")
	binary.LittleEndian.PutUint32(footer[8:12], 2000)
	binary.LittleEndian.PutUint32(footer[12:16], uint32(itemsSize+32))
	binary.LittleEndian.PutUint32(footer[16:20], uint32(itemCount))
	return footer
}

func TestParse_HeaderAndAPEv2Footer(t *testing.T) {
	items := apeItem("Artist", "Test Artist")
	footer := apeFooter(len(items), 1)

	var data []byte
	data = append(data, []byte(magic)...)
	data = append(data, make([]byte, 16)...) // opaque TAK stream header
	data = append(data, items...)
	data = append(data, footer...)

	r := reader.New(source.NewMemory(data, "test.tak"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatTAK {
		t.Errorf("expected FormatTAK, got %v", m.Format)
	}
	if v, ok := m.Tags["Artist"]; !ok || v.Text[0] != "Test Artist" {
		t.Errorf("expected Artist tag from APEv2 footer, got %+v", v)
	}
}

func TestCanParse_RequiresSignature(t *testing.T) {
	p := New(tagparsers.Options{})
	if p.CanParse([]byte("RIFF"), "") {
		t.Error("expected CanParse to reject non-TAK signature")
	}
}
