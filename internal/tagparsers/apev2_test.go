package tagparsers

import (
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/types"
)

func le32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func apeItem(key, value string) []byte {
	var out []byte
	out = append(out, le32Bytes(uint32(len(value)))...)
	out = append(out, le32Bytes(0)...) // flags: type 0 = UTF8 text
	out = append(out, []byte(key)...)
	out = append(out, 0x00)
	out = append(out, []byte(value)...)
	return out
}

func apeFooter(itemsSize int, itemCount int) []byte {
	footer := make([]byte, 32)
	copy(footer[0:8], "APETAGEX")
	binary.LittleEndian.PutUint32(footer[8:12], 2000)
	binary.LittleEndian.PutUint32(footer[12:16], uint32(itemsSize+32))
	binary.LittleEndian.PutUint32(footer[16:20], uint32(itemCount))
	return footer
}

func TestParseAPEv2Footer_Basic(t *testing.T) {
	items := append(apeItem("Artist", "Some Band"), apeItem("Album", "Some Album")...)
	footer := apeFooter(len(items), 2)
	data := append(items, footer...)

	r := reader.New(source.NewMemory(data, "test.ape"), 0, 0)
	m := types.NewParsedAudioMetadata(types.FormatMonkeysAudio)

	found, err := ParseAPEv2Footer(r, int64(len(data)), m, Options{})
	if err != nil {
		t.Fatalf("ParseAPEv2Footer failed: %v", err)
	}
	if !found {
		t.Fatal("expected footer to be found")
	}

	if v, ok := m.Tags["Artist"]; !ok || v.Text[0] != "Some Band" {
		t.Errorf("unexpected Artist tag: %+v", v)
	}
	if v, ok := m.Tags["Album"]; !ok || v.Text[0] != "Some Album" {
		t.Errorf("unexpected Album tag: %+v", v)
	}
}

func TestParseAPEv2Footer_NoMagic(t *testing.T) {
	data := make([]byte, 64)
	r := reader.New(source.NewMemory(data, "test.ape"), 0, 0)
	m := types.NewParsedAudioMetadata(types.FormatMonkeysAudio)

	found, err := ParseAPEv2Footer(r, int64(len(data)), m, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected footer not found")
	}
}

func TestParseAPEv2Footer_TooShort(t *testing.T) {
	r := reader.New(source.NewMemory([]byte{1, 2, 3}, "test.ape"), 0, 0)
	m := types.NewParsedAudioMetadata(types.FormatMonkeysAudio)

	found, err := ParseAPEv2Footer(r, 3, m, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected footer not found for file shorter than 32 bytes")
	}
}
