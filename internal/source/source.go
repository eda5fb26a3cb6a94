// Package source implements the ByteSource contract: the boundary between
// the parsing core and external I/O. Three variants are provided — file,
// memory, and drained-stream backed — so the parsing core never depends
// on *os.File or io.Reader directly.
package source

import "github.com/audiometa-go/audiometa/internal/types"

// ByteSource is an abstract random-access byte provider. Implementations
// must tolerate zero-length reads and reject negative offsets with an
// ioFailure error; short reads near the end of the source are not errors,
// callers detect short reads themselves.
type ByteSource interface {
	// Length returns the source's total size and whether it is known.
	Length() (int64, bool)

	// NameHint returns a filename (or empty string) used for extension
	// heuristics in format probing.
	NameHint() string

	// Read returns at most length bytes starting at offset, or fewer if
	// the source ends first. Zero-length reads return (nil, nil) without
	// performing I/O. Negative offsets fail with an ioFailure error.
	Read(offset int64, length int) ([]byte, error)

	// Close releases any underlying resource (file handles). Variants
	// that hold nothing simply no-op.
	Close() error
}

func checkOffset(offset int64) error {
	if offset < 0 {
		return types.NewIOFailureError("negative offset", offset, nil)
	}
	return nil
}
