package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/audiometa-go/audiometa/internal/types"
)

func TestMemorySource_ReadWithinBounds(t *testing.T) {
	s := NewMemory([]byte("hello world"), "greeting.txt")
	data, err := s.Read(6, 5)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "world" {
		t.Errorf("expected %q, got %q", "world", data)
	}
}

func TestMemorySource_ShortReadNearEOFIsNotAnError(t *testing.T) {
	s := NewMemory([]byte("hello"), "")
	data, err := s.Read(3, 10)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "lo" {
		t.Errorf("expected %q, got %q", "lo", data)
	}
}

func TestMemorySource_NegativeOffsetFailsWithIOFailure(t *testing.T) {
	s := NewMemory([]byte("hello"), "")
	_, err := s.Read(-1, 1)
	if err == nil {
		t.Fatal("expected an error for a negative offset")
	}
	if _, ok := err.(*types.IOFailureError); !ok {
		t.Errorf("expected *types.IOFailureError, got %T", err)
	}
}

func TestMemorySource_Length(t *testing.T) {
	s := NewMemory([]byte("hello"), "")
	n, known := s.Length()
	if !known || n != 5 {
		t.Errorf("expected (5, true), got (%d, %v)", n, known)
	}
}

func TestFileSource_ReadAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")
	if err := os.WriteFile(path, []byte("audio-data"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer s.Close()

	data, err := s.Read(0, 5)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "audio" {
		t.Errorf("expected %q, got %q", "audio", data)
	}
	if n, known := s.Length(); !known || n != 10 {
		t.Errorf("expected (10, true), got (%d, %v)", n, known)
	}
}

func TestFileSource_OpenMissingFileFails(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}

func TestNewStream_DrainsReaderIntoMemory(t *testing.T) {
	s, err := NewStream(bytes.NewReader([]byte("streamed")), "stream.bin")
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	data, err := s.Read(0, 8)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "streamed" {
		t.Errorf("expected %q, got %q", "streamed", data)
	}
}
