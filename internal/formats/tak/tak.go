// Package tak implements bare TAK container detection; TAK carries no
// native tag block of its own so all metadata comes from a trailing
// APEv2 footer, the same recovery path the mp3 and fallback packages use.
package tak

import (
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const magic = "tBaK"

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatTAK }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == magic
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 4)
	if err != nil {
		return nil, err
	}
	if string(hdr) != magic {
		return nil, types.NewInvalidHeaderError("missing TAK signature", 0)
	}

	m := types.NewParsedAudioMetadata(types.FormatTAK)

	if fileLength, known := r.Size(); known {
		if found, err := tagparsers.ParseAPEv2Footer(r, fileLength, m, p.Options); err != nil && found {
			m.Diagnostics.AddWarning("malformed APEv2 footer: " + err.Error())
		}
	}

	return m, nil
}
