package source

import (
	"io"

	"github.com/pkg/errors"

	"github.com/audiometa-go/audiometa/internal/types"
)

// NewStream eagerly drains a forward-only reader into memory at
// construction, reducing stream parsing to buffered parsing so the rest
// of the pipeline never has to special-case a non-seekable source.
// Fails with ioFailure if the underlying read errors.
func NewStream(r io.Reader, nameHint string) (ByteSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, types.NewIOFailureError("stream drain failed", 0, errors.Wrap(err, nameHint))
	}
	return NewMemory(data, nameHint), nil
}
