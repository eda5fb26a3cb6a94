// Package fallback implements the last-resort parser the registry invokes
// when no format-specific parser claims a source: it extracts whatever
// ID3v2 header or APEv2 footer tags it can find and reports no technical
// fields, grounded in shape on the mp3 package's leading-ID3v2 /
// trailing-APEv2 recovery pair.
package fallback

import (
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatUnknown }

// CanParse always accepts. Registered last via RegisterFallback, it is
// only ever reached once every other parser has declined.
func (p *Parser) CanParse(header []byte, nameHint string) bool { return true }

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	m := types.NewParsedAudioMetadata(types.FormatUnknown)

	if lead, err := r.Read(0, 3); err == nil && len(lead) == 3 && string(lead) == "ID3" {
		if _, err := tagparsers.ParseID3v2(r, 0, m, p.Options); err != nil {
			m.Diagnostics.AddWarning("malformed ID3v2 header: " + err.Error())
		}
	}

	if fileLength, known := r.Size(); known {
		if found, err := tagparsers.ParseAPEv2Footer(r, fileLength, m, p.Options); err != nil && found {
			m.Diagnostics.AddWarning("malformed APEv2 footer: " + err.Error())
		}
	}

	return m, nil
}
