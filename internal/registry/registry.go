// Package registry holds the fixed, ordered list of format parsers and
// resolves which one should handle a given input: probe-ranked
// candidates are tried first, then every registered parser in
// registration order, with the fallback parser tried last of all. Order
// matters only for that fallback path, so parsers are held in a slice
// rather than a map.
package registry

import (
	"github.com/audiometa-go/audiometa/internal/probe"
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

// FormatParser is the capability every container/codec parser implements.
// CanParse must be cheap and side-effect free over the header prefix; it
// may also consult nameHint. Parse may read anywhere in the stream but
// must respect the reader's maxReadBytes per request.
type FormatParser interface {
	Format() types.AudioFormat
	CanParse(header []byte, nameHint string) bool
	Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error)
}

// Registry holds parsers in registration order. It is constructed per
// engine instance — small, immutable, no global state, per design note.
type Registry struct {
	parsers  []FormatParser
	fallback FormatParser
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register appends a parser. The last parser registered whose CanParse
// always returns true (the signature fallback) should be registered last;
// Resolve treats it as the parser of last resort regardless of position,
// but registration order still governs the non-probed fallback walk.
func (reg *Registry) Register(p FormatParser) {
	reg.parsers = append(reg.parsers, p)
}

// RegisterFallback designates the catch-all parser used when nothing
// else, probed or not, claims the input.
func (reg *Registry) RegisterFallback(p FormatParser) {
	reg.fallback = p
	reg.Register(p)
}

// Resolve probes first, in score order, returning the first parser whose
// format matches a candidate and whose CanParse accepts; if nothing
// probed matches, it falls back to the first parser in registration
// order whose CanParse accepts; otherwise nil.
func (reg *Registry) Resolve(header []byte, nameHint string) FormatParser {
	candidates := probe.Probe(header, nameHint)
	for _, c := range candidates {
		for _, p := range reg.parsers {
			if p.Format() == c.Format && p.CanParse(header, nameHint) {
				return p
			}
		}
	}
	for _, p := range reg.parsers {
		if p != reg.fallback && p.CanParse(header, nameHint) {
			return p
		}
	}
	if reg.fallback != nil && reg.fallback.CanParse(header, nameHint) {
		return reg.fallback
	}
	return nil
}
