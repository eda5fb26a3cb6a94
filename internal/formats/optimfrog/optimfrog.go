// Package optimfrog implements bare OptimFROG signature detection.
// OptimFROG's compressed-audio header format is proprietary and
// undocumented beyond its magic, so this parser only confirms the
// container and reports the format; no technical fields are extracted.
package optimfrog

import (
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

const magic = "OFR "

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatOptimFROG }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == magic
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 4)
	if err != nil {
		return nil, err
	}
	if string(hdr) != magic {
		return nil, types.NewInvalidHeaderError("missing OptimFROG signature", 0)
	}
	return types.NewParsedAudioMetadata(types.FormatOptimFROG), nil
}
