// Package reader implements WindowedReader, the single-window caching
// reader every format parser reads through. It wraps a source.ByteSource
// with bounds-checked reads, typed little/big-endian helpers, and a
// single-window cache so repeated nearby reads don't refetch from the
// underlying source; maxReadBytes caps the size of any single read
// request that the window does not already cover, keeping each
// allocation bounded regardless of where in the source a parser reads
// from.
package reader

import (
	"encoding/binary"
	"strconv"

	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/types"
)

const (
	// MinWindowSize is the floor enforced on a configured window size.
	MinWindowSize = 4096
	// DefaultWindowSize is used when the caller doesn't override it.
	DefaultWindowSize = 65536
	// MinMaxReadBytes is the floor enforced on a configured max read size.
	MinMaxReadBytes = 256 * 1024
	// DefaultMaxReadBytes is used when the caller doesn't override it.
	DefaultMaxReadBytes = 16 * 1024 * 1024
)

// window is the single cached byte region held by a WindowedReader.
type window struct {
	offset int64
	data   []byte
	valid  bool
}

func (w *window) contains(offset int64, length int) bool {
	if !w.valid || length == 0 {
		return false
	}
	end := offset + int64(length)
	return offset >= w.offset && end <= w.offset+int64(len(w.data))
}

// WindowedReader wraps a ByteSource with a single cached window of at
// least windowSize bytes. It is explicitly not a forward iterator:
// callers are free to jump backward (e.g. an APEv2 footer at end of file)
// and forward without penalty within the window, per the design notes.
type WindowedReader struct {
	src          source.ByteSource
	windowSize   int
	maxReadBytes int
	win          window
	bytesRead    int64
}

// New creates a WindowedReader. windowSize is clamped to MinWindowSize and
// maxReadBytes to MinMaxReadBytes; zero values fall back to the defaults.
func New(src source.ByteSource, windowSize, maxReadBytes int) *WindowedReader {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if windowSize < MinWindowSize {
		windowSize = MinWindowSize
	}
	if maxReadBytes <= 0 {
		maxReadBytes = DefaultMaxReadBytes
	}
	if maxReadBytes < MinMaxReadBytes {
		maxReadBytes = MinMaxReadBytes
	}
	return &WindowedReader{src: src, windowSize: windowSize, maxReadBytes: maxReadBytes}
}

// BytesRead returns the cumulative bytes fetched from the underlying
// source over the life of this reader. It does not count bytes served
// from the cached window.
func (r *WindowedReader) BytesRead() int64 { return r.bytesRead }

// Size returns the source's length, if known.
func (r *WindowedReader) Size() (int64, bool) { return r.src.Length() }

// NameHint returns the source's filename hint.
func (r *WindowedReader) NameHint() string { return r.src.NameHint() }

// Read returns up to length bytes starting at offset. If the source
// short-returns fewer than length bytes, the shorter slice is returned;
// callers must detect short reads themselves and raise truncatedData
// wherever an exact-length read is required.
func (r *WindowedReader) Read(offset int64, length int) ([]byte, error) {
	if offset < 0 {
		return nil, types.NewIOFailureError("negative offset", offset, nil)
	}
	if length == 0 {
		return nil, nil
	}

	if r.win.contains(offset, length) {
		start := offset - r.win.offset
		return r.win.data[start : start+int64(length)], nil
	}

	if length > r.maxReadBytes {
		return nil, types.NewIOFailureErrorWithContext(
			"read exceeds maxReadBytes",
			offset,
			map[string]string{
				"requested":    strconv.Itoa(length),
				"maxReadBytes": strconv.Itoa(r.maxReadBytes),
			},
		)
	}

	fetchLen := r.windowSize
	if length > fetchLen {
		fetchLen = length
	}

	data, err := r.src.Read(offset, fetchLen)
	if err != nil {
		return nil, err
	}
	r.bytesRead += int64(len(data))

	r.win = window{offset: offset, data: data, valid: true}

	if len(data) < length {
		return data, nil
	}
	return data[:length], nil
}

// ReadExact is like Read but fails with truncatedData if fewer than
// length bytes were available.
func (r *WindowedReader) ReadExact(offset int64, length int) ([]byte, error) {
	data, err := r.Read(offset, length)
	if err != nil {
		return nil, err
	}
	if len(data) < length {
		return nil, types.NewTruncatedDataError("short read", offset, length, len(data))
	}
	return data, nil
}

// ReadASCII requires an exact-length read and returns it as a string.
func (r *WindowedReader) ReadASCII(offset int64, length int) (string, error) {
	data, err := r.ReadExact(offset, length)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Typed integer helpers. Each fetches exactly the required number of
// bytes and fails with truncatedData if the reader returned fewer.

func (r *WindowedReader) ReadUint8(offset int64) (uint8, error) {
	b, err := r.ReadExact(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *WindowedReader) ReadUint16LE(offset int64) (uint16, error) {
	b, err := r.ReadExact(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *WindowedReader) ReadUint16BE(offset int64) (uint16, error) {
	b, err := r.ReadExact(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *WindowedReader) ReadUint24BE(offset int64) (uint32, error) {
	b, err := r.ReadExact(offset, 3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (r *WindowedReader) ReadUint32LE(offset int64) (uint32, error) {
	b, err := r.ReadExact(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *WindowedReader) ReadUint32BE(offset int64) (uint32, error) {
	b, err := r.ReadExact(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *WindowedReader) ReadUint64LE(offset int64) (uint64, error) {
	b, err := r.ReadExact(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *WindowedReader) ReadUint64BE(offset int64) (uint64, error) {
	b, err := r.ReadExact(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
