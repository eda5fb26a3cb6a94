package engine

import "github.com/audiometa-go/audiometa/internal/reader"

// Option configures a parse, following the functional options pattern:
// an Option closes over a single field and is applied in order over a
// config seeded from defaultConfig.
type Option func(*config)

// config holds every knob a parse can be tuned with. Fields are
// unexported; callers only ever see the With* constructors below.
type config struct {
	windowSize             int
	maxReadBytes           int
	parseTags              bool
	strictMode             bool
	includeBinaryData      bool
	maxBinaryTagBytes      int64
	allowHeuristicFallback bool
	maxConcurrentTasks     int
}

func defaultConfig() config {
	return config{
		windowSize:             reader.DefaultWindowSize,
		maxReadBytes:           reader.DefaultMaxReadBytes,
		parseTags:              true,
		strictMode:             false,
		includeBinaryData:      false,
		maxBinaryTagBytes:      8 * 1024 * 1024,
		allowHeuristicFallback: true,
		maxConcurrentTasks:     defaultMaxConcurrentTasks(),
	}
}

// WithWindowSize sets the single cached window size the reader keeps over
// the source. Clamped to reader.MinWindowSize by the reader itself.
//
// Default: 64 KiB.
func WithWindowSize(n int) Option {
	return func(c *config) { c.windowSize = n }
}

// WithParseTags toggles tag-vocabulary decoding. Reserved: a parser may
// still read just enough of a container to report CoreInfo when this is
// false, but tag extraction is skipped.
//
// Default: true.
func WithParseTags(b bool) Option {
	return func(c *config) { c.parseTags = b }
}

// WithStrictMode escalates certain warnings (malformed-but-recoverable
// tag frames, inconsistent container sizes) to fatal errors instead of
// diagnostics. Reserved for parsers that currently only warn.
//
// Default: false.
func WithStrictMode(b bool) Option {
	return func(c *config) { c.strictMode = b }
}

// WithMaxReadBytes caps the length of a single read request made through
// the reader; it does not limit the total bytes read over one parse.
// Clamped to reader.MinMaxReadBytes by the reader itself.
//
// Default: 16 MiB.
func WithMaxReadBytes(n int) Option {
	return func(c *config) { c.maxReadBytes = n }
}

// WithIncludeBinaryData controls whether binary tag payloads (cover art,
// etc.) are embedded in the result or reported as a digest only.
//
// Default: false.
func WithIncludeBinaryData(b bool) Option {
	return func(c *config) { c.includeBinaryData = b }
}

// WithMaxBinaryTagBytes sets the ceiling below which a binary tag payload
// is eligible for embedding when WithIncludeBinaryData is set. Payloads
// over the ceiling still produce a digest, just without embedded bytes.
//
// Default: 8 MiB.
func WithMaxBinaryTagBytes(n int64) Option {
	return func(c *config) { c.maxBinaryTagBytes = n }
}

// WithAllowHeuristicFallback permits the signature fallback parser to run
// its ID3v2/APEv2 recovery pass when no format-specific parser claims an
// input. Disabling it makes an unrecognized input report FormatUnknown
// with no recovered tags instead.
//
// Default: true.
func WithAllowHeuristicFallback(b bool) Option {
	return func(c *config) { c.allowHeuristicFallback = b }
}

// WithMaxConcurrentTasks sizes the permit pool an Engine holds for the
// lifetime of its construction. Only meaningful at Engine construction
// time (engine.New); passing it to a per-call Parse has no effect, since
// the pool is already sized by then.
//
// Default: min(4, runtime.NumCPU()), floor 1.
func WithMaxConcurrentTasks(n int) Option {
	return func(c *config) { c.maxConcurrentTasks = n }
}
