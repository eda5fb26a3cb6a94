package mp4

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func be32(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }

func box(kind string, payload []byte) []byte {
	var out []byte
	out = append(out, be32(uint32(8+len(payload)))...)
	out = append(out, []byte(kind)...)
	out = append(out, payload...)
	return out
}

func dataAtom(typeCode uint32, value []byte) []byte {
	payload := append(be32(typeCode), 0, 0, 0, 0) // type code + locale
	payload = append(payload, value...)
	return box("data", payload)
}

func buildM4AWithCover(jpeg []byte) []byte {
	ftyp := box("ftyp", append([]byte("M4A "), 0, 0, 0, 0))

	covrItem := box("covr", dataAtom(13, jpeg))
	ilst := box("ilst", covrItem)
	meta := box("meta", append([]byte{0, 0, 0, 0}, ilst...))
	udta := box("udta", meta)
	moov := box("moov", udta)

	var out []byte
	out = append(out, ftyp...)
	out = append(out, moov...)
	return out
}

func TestParse_M4ACoverArt(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	data := buildM4AWithCover(jpeg)

	r := reader.New(source.NewMemory(data, "test.m4a"), 0, 0)
	p := NewM4A(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	v, ok := m.Tags["covr"]
	if !ok || v.Kind != types.TagBinary {
		t.Fatalf("expected binary covr tag, got %+v", v)
	}
	if v.Binary.Data != nil {
		t.Errorf("expected nil embedded data by default, got %d bytes", len(v.Binary.Data))
	}
	if v.Binary.Size != len(jpeg) {
		t.Errorf("expected size %d, got %d", len(jpeg), v.Binary.Size)
	}

	// With embedding enabled.
	r2 := reader.New(source.NewMemory(data, "test.m4a"), 0, 0)
	p2 := NewM4A(tagparsers.Options{IncludeBinaryData: true, MaxBinaryTagBytes: 4 << 20})
	m2, err := p2.Parse(r2)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	v2 := m2.Tags["covr"]
	if v2.Binary.Data == nil || len(v2.Binary.Data) != v2.Binary.Size {
		t.Errorf("expected embedded data matching size, got %+v", v2.Binary)
	}
}

func TestCanParse_RequiresFtyp(t *testing.T) {
	p := New(tagparsers.Options{})
	if p.CanParse([]byte("RIFFxxxxWAVE"), "") {
		t.Error("expected CanParse to reject non-ftyp header")
	}
}
