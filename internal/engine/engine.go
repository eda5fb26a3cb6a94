// Package engine ties the reader, probe, and registry packages together
// into the single orchestration point every public entry point funnels
// through: acquire a permit, resolve a parser, run it, release the
// permit. State lives on an explicit Engine value rather than at package
// scope, and a golang.org/x/sync/semaphore.Weighted permit pool bounds
// how many parses run concurrently.
package engine

import (
	"context"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/audiometa-go/audiometa/internal/enginelog"
	"github.com/audiometa-go/audiometa/internal/formats/aac"
	"github.com/audiometa-go/audiometa/internal/formats/ac3"
	"github.com/audiometa-go/audiometa/internal/formats/aiff"
	"github.com/audiometa-go/audiometa/internal/formats/apev2"
	"github.com/audiometa-go/audiometa/internal/formats/asf"
	"github.com/audiometa-go/audiometa/internal/formats/dsdiff"
	"github.com/audiometa-go/audiometa/internal/formats/dsf"
	"github.com/audiometa-go/audiometa/internal/formats/fallback"
	"github.com/audiometa-go/audiometa/internal/formats/flac"
	"github.com/audiometa-go/audiometa/internal/formats/monkeysaudio"
	"github.com/audiometa-go/audiometa/internal/formats/mp3"
	"github.com/audiometa-go/audiometa/internal/formats/mp4"
	"github.com/audiometa-go/audiometa/internal/formats/musepack"
	"github.com/audiometa-go/audiometa/internal/formats/ogg"
	"github.com/audiometa-go/audiometa/internal/formats/optimfrog"
	"github.com/audiometa-go/audiometa/internal/formats/smf"
	"github.com/audiometa-go/audiometa/internal/formats/tak"
	"github.com/audiometa-go/audiometa/internal/formats/trueaudio"
	"github.com/audiometa-go/audiometa/internal/formats/wave"
	"github.com/audiometa-go/audiometa/internal/formats/wavpack"
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/registry"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

func defaultMaxConcurrentTasks() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Engine holds a fixed registry and a permit pool sized at construction.
// It is safe for concurrent use: Parse may be called from many
// goroutines, each blocking on the shared semaphore until a permit frees
// up. An Engine holds no other mutable state and may be reused for the
// life of a process.
type Engine struct {
	cfg      config
	registry *registry.Registry
	sem      *semaphore.Weighted
	log      *enginelog.Logger
}

// New builds an Engine. Options supplied here become the defaults for
// every Parse call that doesn't override them; maxConcurrentTasks is
// fixed for the engine's lifetime regardless of what a later Parse call
// passes.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxConcurrentTasks < 1 {
		cfg.maxConcurrentTasks = 1
	}

	tagOpts := tagparsers.Options{
		IncludeBinaryData: cfg.includeBinaryData,
		MaxBinaryTagBytes: cfg.maxBinaryTagBytes,
	}

	reg := registry.New()
	reg.Register(flac.New(tagOpts))
	reg.Register(mp3.New(tagOpts))
	reg.Register(mp4.New(tagOpts))
	reg.Register(mp4.NewM4A(tagOpts))
	reg.Register(wave.New(tagOpts))
	reg.Register(aiff.New(tagOpts))
	reg.Register(asf.New())
	reg.Register(ogg.New(tagOpts))
	reg.Register(apev2.New(tagOpts))
	reg.Register(musepack.New())
	reg.Register(wavpack.New())
	reg.Register(tak.New(tagOpts))
	reg.Register(dsf.New(tagOpts))
	reg.Register(dsdiff.New(tagOpts))
	reg.Register(aac.New())
	reg.Register(ac3.New())
	reg.Register(trueaudio.New(tagOpts))
	reg.Register(optimfrog.New())
	reg.Register(smf.New())
	reg.Register(monkeysaudio.New())
	reg.RegisterFallback(fallback.New(tagOpts))

	return &Engine{
		cfg:      cfg,
		registry: reg,
		sem:      semaphore.NewWeighted(int64(cfg.maxConcurrentTasks)),
		log:      enginelog.New(),
	}
}

// MaxConcurrentTasks returns the permit pool size this Engine was built
// with, for callers (e.g. ParseMany) that want to match their own
// concurrency limiter to it.
func (e *Engine) MaxConcurrentTasks() int {
	return e.cfg.maxConcurrentTasks
}

// SetLogger installs a diagnostic logger. Passing nil disables logging;
// logging is otherwise entirely optional and never affects the parsed
// result.
func (e *Engine) SetLogger(l *enginelog.Logger) {
	if l == nil {
		l = enginelog.Disabled()
	}
	e.log = l
}

// probeWindow is how much of the source Resolve sees; large enough to
// cover every format's fixed header plus a leading ID3v2 tag frame or
// two, small enough to stay a cheap single read.
const probeWindow = 4096

// Parse acquires a permit, resolves a parser for src, runs it, and
// releases the permit before returning. Per-call opts override the
// engine's defaults for every field except maxConcurrentTasks, which is
// fixed at construction. src is closed before Parse returns, regardless
// of outcome.
func (e *Engine) Parse(ctx context.Context, src source.ByteSource, opts ...Option) (result *types.ParsedAudioMetadata, resultErr error) {
	cfg := e.cfg
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		src.Close()
		return nil, types.NewIOFailureError("parse canceled waiting for a permit", 0, err)
	}
	defer e.sem.Release(1)
	defer func() {
		// src.Close is reported alongside whatever Parse itself
		// returned rather than silently dropped, since a failed
		// Close on a file-backed source can indicate a real problem
		// (e.g. a handle exhausted mid-read) even when parsing
		// otherwise succeeded.
		resultErr = multierr.Append(resultErr, src.Close())
	}()

	e.log.Debug("acquired permit", "source", src.NameHint())

	r := reader.New(src, cfg.windowSize, cfg.maxReadBytes)

	header, err := r.Read(0, probeWindow)
	if err != nil {
		return nil, err
	}

	reg := e.registry
	if cfg.includeBinaryData != e.cfg.includeBinaryData || cfg.maxBinaryTagBytes != e.cfg.maxBinaryTagBytes {
		// Parsers capture the binary-embedding options when registered,
		// so a per-call override of either needs its own registry.
		reg = New(func(c *config) { *c = cfg }).registry
	}
	parser := reg.Resolve(header, src.NameHint())
	if parser == nil {
		return nil, types.NewUnsupportedFormatError("no parser recognized this input", src.NameHint())
	}

	if !cfg.allowHeuristicFallback && parser.Format() == types.FormatUnknown {
		m := types.NewParsedAudioMetadata(types.FormatUnknown)
		m.Diagnostics.ParserName = "fallback"
		m.Diagnostics.AddWarning("heuristic fallback recovery disabled")
		return m, nil
	}

	e.log.Debug("resolved parser", "source", src.NameHint(), "format", parser.Format().String())

	m, err := parser.Parse(r)
	if err != nil {
		e.log.Warn("parse failed", "source", src.NameHint(), "format", parser.Format().String(), "error", err)
		return m, err
	}

	m.Diagnostics.ParserName = parser.Format().String()
	m.Diagnostics.BytesRead = r.BytesRead()
	return m, nil
}
