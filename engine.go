package audiometa

import (
	"context"
	"io"

	"github.com/audiometa-go/audiometa/internal/engine"
	"github.com/audiometa-go/audiometa/internal/enginelog"
	"github.com/audiometa-go/audiometa/internal/source"
)

// Engine resolves and runs a format parser against a source, bounding
// concurrent parses with an internal permit pool sized at construction.
// Safe for concurrent use; construct once and reuse across many Parse
// calls rather than building one per input.
type Engine struct {
	inner *engine.Engine
}

// NewEngine builds an Engine. Options passed here become the defaults
// every Parse call on it inherits unless overridden per call; see the
// With* functions in options.go for the full set and their defaults.
func NewEngine(opts ...Option) *Engine {
	return &Engine{inner: engine.New(opts...)}
}

// SetLogger installs a diagnostic logger for this Engine. A nil logger
// disables logging. Diagnostic logging never affects a parsed result.
func (e *Engine) SetLogger(l *enginelog.Logger) {
	e.inner.SetLogger(l)
}

// Parse resolves a parser for src and runs it, honoring ctx cancellation
// while waiting for a permit. src is closed before Parse returns
// regardless of outcome. This is the single entry point ParseFile,
// ParseBytes, and ParseStream all desugar to.
func (e *Engine) Parse(ctx context.Context, src source.ByteSource, opts ...Option) (*ParsedAudioMetadata, error) {
	return e.inner.Parse(ctx, src, opts...)
}

// defaultEngine backs the package-level ParseFile/ParseBytes/ParseStream
// convenience functions, built with every option at its default. Callers
// who need custom options, a shared permit pool across many parses, or a
// logger should construct their own Engine with NewEngine instead.
var defaultEngine = NewEngine()

// ParseFile opens path and parses it, using the shared default Engine.
func ParseFile(ctx context.Context, path string, opts ...Option) (*ParsedAudioMetadata, error) {
	src, err := FileSource(path)
	if err != nil {
		return nil, err
	}
	return defaultEngine.Parse(ctx, src, opts...)
}

// ParseBytes parses an in-memory buffer, using the shared default
// Engine. nameHint, if non-empty, is used for extension-based format
// probing when magic bytes alone are ambiguous.
func ParseBytes(ctx context.Context, data []byte, nameHint string, opts ...Option) (*ParsedAudioMetadata, error) {
	return defaultEngine.Parse(ctx, MemorySource(data, nameHint), opts...)
}

// ParseStream parses an io.Reader by buffering it first (random access
// is required for trailing tag footers and atom seeking), using the
// shared default Engine.
func ParseStream(ctx context.Context, r io.Reader, nameHint string, opts ...Option) (*ParsedAudioMetadata, error) {
	src, err := StreamSource(r, nameHint)
	if err != nil {
		return nil, err
	}
	return defaultEngine.Parse(ctx, src, opts...)
}
