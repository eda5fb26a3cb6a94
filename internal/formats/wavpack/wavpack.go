// Package wavpack implements the WavPack block header parser, grounded in
// shape on the mp3 package's fixed-table field decoding.
package wavpack

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

var sampleRateTable = []int{
	6000, 8000, 9600, 11025, 12000, 16000, 22050, 24000,
	32000, 44100, 48000, 64000, 88200, 96000, 192000, 0,
}

const (
	flagMono = 1 << 2
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatWavPack }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == "wvpk"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 32)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "wvpk" {
		return nil, types.NewInvalidHeaderError("missing WavPack block signature", 0)
	}

	totalSamples := binary.LittleEndian.Uint32(hdr[12:16])
	flags := binary.LittleEndian.Uint32(hdr[24:28])

	m := types.NewParsedAudioMetadata(types.FormatWavPack)

	sampleRateIdx := (flags >> 23) & 0xF
	sampleRate := 0
	if int(sampleRateIdx) < len(sampleRateTable) {
		sampleRate = sampleRateTable[sampleRateIdx]
	}
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(sampleRate)
		if totalSamples > 0 {
			m.CoreInfo.SetLength(float64(totalSamples) / float64(sampleRate))
		}
	}

	channels := 2
	if flags&flagMono != 0 {
		channels = 1
	}
	m.CoreInfo.SetChannels(channels)

	bitsPerSample := int(flags&0x3)*8 + 8
	m.CoreInfo.SetBitsPerSample(bitsPerSample)

	return m, nil
}
