package audiometa

import (
	"io"

	"github.com/audiometa-go/audiometa/internal/source"
)

// ByteSource is the abstract random-access byte provider every Engine.Parse
// call reads through. FileSource, MemorySource, and StreamSource are the
// three constructors the library ships; implementing a custom one is
// supported but uncommon.
type ByteSource = source.ByteSource

// FileSource opens path and wraps it as a ByteSource. The caller owns the
// returned source; Engine.Parse closes it automatically once a parse
// finishes.
func FileSource(path string) (ByteSource, error) {
	return source.OpenFile(path)
}

// MemorySource wraps an in-memory buffer as a ByteSource. nameHint, if
// non-empty, is used for extension-based format probing.
func MemorySource(data []byte, nameHint string) ByteSource {
	return source.NewMemory(data, nameHint)
}

// StreamSource drains r into memory and wraps the result as a
// ByteSource. Random access is required for trailing tag footers and
// atom seeking, so a forward-only reader cannot be parsed without first
// buffering it.
func StreamSource(r io.Reader, nameHint string) (ByteSource, error) {
	return source.NewStream(r, nameHint)
}
