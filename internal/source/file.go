package source

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/audiometa-go/audiometa/internal/types"
)

// fileSource serves positional reads against an open file handle. It
// stays resilient to concurrent non-overlapping calls even though the
// engine's permit pool already serializes access to a single parse;
// os.File.ReadAt is itself safe for concurrent use, so no extra locking
// is needed here.
type fileSource struct {
	f        *os.File
	size     int64
	nameHint string
}

// OpenFile opens path and wraps it as a ByteSource. The caller owns the
// returned source and must Close it.
func OpenFile(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return &fileSource{f: f, size: stat.Size(), nameHint: path}, nil
}

func (s *fileSource) Length() (int64, bool) { return s.size, true }
func (s *fileSource) NameHint() string      { return s.nameHint }

func (s *fileSource) Read(offset int64, length int) ([]byte, error) {
	if err := checkOffset(offset); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	if offset >= s.size {
		return nil, nil
	}
	want := length
	if offset+int64(want) > s.size {
		want = int(s.size - offset)
	}
	buf := make([]byte, want)
	n, err := s.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, types.NewIOFailureError("file read failed", offset, errors.Wrap(err, s.nameHint))
	}
	return buf[:n], nil
}

func (s *fileSource) Close() error {
	return s.f.Close()
}
