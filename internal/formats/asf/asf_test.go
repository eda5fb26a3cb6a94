package asf

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
)

func le16(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }
func le64(v uint64) []byte { b := make([]byte, 8); binary.LittleEndian.PutUint64(b, v); return b }

func buildContentDescriptionObject(title string) []byte {
	titleUTF16 := make([]byte, 0, len(title)*2+2)
	for _, r := range title {
		titleUTF16 = append(titleUTF16, byte(r), 0)
	}
	titleUTF16 = append(titleUTF16, 0, 0)

	payload := append(le16(uint16(len(titleUTF16))), le16(0)...)
	payload = append(payload, le16(0)...)
	payload = append(payload, le16(0)...)
	payload = append(payload, le16(0)...)
	payload = append(payload, titleUTF16...)

	var obj []byte
	obj = append(obj, contentDescriptionGUID...)
	obj = append(obj, le64(uint64(24+len(payload)))...)
	obj = append(obj, payload...)
	return obj
}

func TestParse_ContentDescription(t *testing.T) {
	contentDesc := buildContentDescriptionObject("Test Track")

	var objects []byte
	objects = append(objects, contentDesc...)

	preamble := append(append([]byte{}, headerGUID...), le64(uint64(30+len(objects)))...)
	preamble = append(preamble, le32(1)...)
	preamble = append(preamble, 0x01, 0x02)

	data := append(preamble, objects...)

	r := reader.New(source.NewMemory(data, "test.wma"), 0, 0)
	p := New()

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	v, ok := m.Tags["Title"]
	if !ok || len(v.Text) != 1 || v.Text[0] != "Test Track" {
		t.Errorf("expected Title=Test Track, got %+v", v)
	}
}

func TestCanParse_RequiresHeaderGUID(t *testing.T) {
	p := New()
	if p.CanParse(make([]byte, 16), "") {
		t.Error("expected CanParse to reject zeroed GUID")
	}
}
