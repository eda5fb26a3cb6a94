// Package musepack implements Musepack stream-version detection (SV7's
// "MP+" magic vs SV8's "MPCK" magic), grounded in shape on the other
// magic-dispatched container parsers in this module.
package musepack

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

var sv7SampleRates = []int{44100, 48000, 37800, 32000}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatMusepack }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	if len(header) >= 4 && string(header[0:4]) == "MPCK" {
		return true
	}
	return len(header) >= 3 && string(header[0:3]) == "MP+"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 8)
	if err != nil {
		return nil, err
	}

	m := types.NewParsedAudioMetadata(types.FormatMusepack)

	switch {
	case string(hdr[0:4]) == "MPCK":
		m.SetExtension("musepack.stream_version", types.NewTextValue("SV8"))
	case string(hdr[0:3]) == "MP+":
		m.SetExtension("musepack.stream_version", types.NewTextValue("SV7"))
		flags := binary.LittleEndian.Uint32(hdr[4:8])
		sampleRateIdx := (flags >> 17) & 0x3
		if int(sampleRateIdx) < len(sv7SampleRates) {
			m.CoreInfo.SetSampleRate(sv7SampleRates[sampleRateIdx])
		}
		m.CoreInfo.SetChannels(2)
	default:
		return nil, types.NewInvalidHeaderError("missing Musepack SV7/SV8 marker", 0)
	}

	return m, nil
}
