package audiometa

import "github.com/audiometa-go/audiometa/internal/engine"

// Option configures a Parse call or an Engine's defaults. See the With*
// functions below for the full set.
type Option = engine.Option

// WithWindowSize sets the reader's single cached window size.
// Default: 64 KiB, floor 4 KiB.
func WithWindowSize(n int) Option { return engine.WithWindowSize(n) }

// WithParseTags toggles tag-vocabulary decoding. Reserved.
// Default: true.
func WithParseTags(b bool) Option { return engine.WithParseTags(b) }

// WithStrictMode escalates recoverable warnings to fatal errors.
// Reserved. Default: false.
func WithStrictMode(b bool) Option { return engine.WithStrictMode(b) }

// WithMaxReadBytes caps the length of a single read request; it does not
// limit the total bytes read over one parse. Default: 16 MiB, floor 256 KiB.
func WithMaxReadBytes(n int) Option { return engine.WithMaxReadBytes(n) }

// WithIncludeBinaryData controls whether binary tag payloads are
// embedded in the result or reported as a digest only.
// Default: false.
func WithIncludeBinaryData(b bool) Option { return engine.WithIncludeBinaryData(b) }

// WithMaxBinaryTagBytes sets the ceiling below which a binary tag
// payload is eligible for embedding when WithIncludeBinaryData is set.
// Default: 8 MiB.
func WithMaxBinaryTagBytes(n int64) Option { return engine.WithMaxBinaryTagBytes(n) }

// WithAllowHeuristicFallback permits the signature fallback parser to
// run ID3v2/APEv2 recovery when no format-specific parser claims an
// input. Default: true.
func WithAllowHeuristicFallback(b bool) Option { return engine.WithAllowHeuristicFallback(b) }

// WithMaxConcurrentTasks sizes an Engine's permit pool. Only meaningful
// when passed to NewEngine; a per-call Parse option has no effect since
// the pool is already sized by then.
// Default: min(4, runtime.NumCPU()), floor 1.
func WithMaxConcurrentTasks(n int) Option { return engine.WithMaxConcurrentTasks(n) }
