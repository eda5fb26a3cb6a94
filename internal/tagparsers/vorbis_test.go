package tagparsers

import (
	"testing"

	"github.com/audiometa-go/audiometa/internal/types"
)

func vorbisPacket(vendor string, comments ...string) []byte {
	var out []byte
	out = append(out, le32Bytes(uint32(len(vendor)))...)
	out = append(out, []byte(vendor)...)
	out = append(out, le32Bytes(uint32(len(comments)))...)
	for _, c := range comments {
		out = append(out, le32Bytes(uint32(len(c)))...)
		out = append(out, []byte(c)...)
	}
	return out
}

func TestParseVorbisComment_Basic(t *testing.T) {
	data := vorbisPacket("reference libvorbis 1.3.7", "ARTIST=Some Band", "title=Some Title", "ARTIST=Feat. Artist")
	m := types.NewParsedAudioMetadata(types.FormatOggVorbis)

	if err := ParseVorbisComment(data, m); err != nil {
		t.Fatalf("ParseVorbisComment failed: %v", err)
	}

	if ext, ok := m.Extensions["vorbis.vendor"]; !ok || ext.Text[0] != "reference libvorbis 1.3.7" {
		t.Errorf("unexpected vendor extension: %+v", ext)
	}

	artist, ok := m.Tags["ARTIST"]
	if !ok {
		t.Fatal("expected ARTIST tag")
	}
	if len(artist.Text) != 2 || artist.Text[0] != "Some Band" || artist.Text[1] != "Feat. Artist" {
		t.Errorf("unexpected ARTIST value: %+v", artist)
	}

	title, ok := m.Tags["TITLE"]
	if !ok || len(title.Text) != 1 || title.Text[0] != "Some Title" {
		t.Errorf("expected lowercase key uppercased to TITLE, got %+v", title)
	}
}

func TestParseVorbisComment_Truncated(t *testing.T) {
	data := []byte{0x01, 0x00}
	m := types.NewParsedAudioMetadata(types.FormatOggVorbis)

	err := ParseVorbisComment(data, m)
	if err == nil {
		t.Fatal("expected error for truncated packet")
	}
	pe, ok := types.AsParseError(err)
	if !ok || pe.Kind != types.KindTruncatedData {
		t.Errorf("expected truncatedData error, got %v", err)
	}
}

func TestParseVorbisComment_EntryWithoutEquals(t *testing.T) {
	data := vorbisPacket("vendor", "malformed-entry-no-equals", "ARTIST=Valid")
	m := types.NewParsedAudioMetadata(types.FormatOggVorbis)

	if err := ParseVorbisComment(data, m); err != nil {
		t.Fatalf("ParseVorbisComment failed: %v", err)
	}
	if _, ok := m.Tags["ARTIST"]; !ok {
		t.Error("expected ARTIST tag to survive malformed sibling entry")
	}
}
