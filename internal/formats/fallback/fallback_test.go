package fallback

import (
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func TestParse_NoRecognizableTags(t *testing.T) {
	data := make([]byte, 64)
	r := reader.New(source.NewMemory(data, "test.bin"), 0, 0)
	p := New(tagparsers.Options{})

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatUnknown {
		t.Errorf("expected FormatUnknown, got %v", m.Format)
	}
	if len(m.Tags) != 0 {
		t.Errorf("expected no tags, got %+v", m.Tags)
	}
}

func TestCanParse_AlwaysAccepts(t *testing.T) {
	p := New(tagparsers.Options{})
	if !p.CanParse(nil, "") {
		t.Error("expected fallback CanParse to always accept")
	}
}
