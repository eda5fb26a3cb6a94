// Package trueaudio implements the True Audio (TTA) header parser,
// grounded in shape on the mp3 package's leading-ID3v2-then-frame-header
// pattern.
package trueaudio

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatTrueAudio }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	if len(header) >= 3 && string(header[0:3]) == "ID3" {
		return true
	}
	return len(header) >= 4 && string(header[0:4]) == "TTA1"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	m := types.NewParsedAudioMetadata(types.FormatTrueAudio)

	var offset int64
	if lead, err := r.Read(0, 3); err == nil && len(lead) == 3 && string(lead) == "ID3" {
		size, err := tagparsers.ParseID3v2(r, 0, m, p.Options)
		if err != nil {
			m.Diagnostics.AddWarning("malformed ID3v2 header: " + err.Error())
		} else {
			offset = size
		}
	}

	hdr, err := r.ReadExact(offset, 18)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "TTA1" {
		return nil, types.NewInvalidHeaderError("missing TTA1 signature", offset)
	}

	channels := binary.LittleEndian.Uint16(hdr[6:8])
	bitsPerSample := binary.LittleEndian.Uint16(hdr[8:10])
	sampleRate := binary.LittleEndian.Uint32(hdr[10:14])
	dataLength := binary.LittleEndian.Uint32(hdr[14:18])

	m.CoreInfo.SetChannels(int(channels))
	m.CoreInfo.SetBitsPerSample(int(bitsPerSample))
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(int(sampleRate))
		m.CoreInfo.SetLength(float64(dataLength) / float64(sampleRate))
	}

	return m, nil
}
