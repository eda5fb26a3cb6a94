// Package wave implements the RIFF/WAVE chunk walker: sequential
// little-endian chunk iteration that decodes the fmt and data chunks and
// an embedded "id3 "/"ID3 " tag chunk. Other chunks (fact, LIST/INFO and
// the rest) are skipped, and no APEv2 footer is read.
package wave

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const maxChunks = 4096

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatWave }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 12)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, types.NewInvalidHeaderError("missing RIFF/WAVE magic", 0)
	}

	m := types.NewParsedAudioMetadata(types.FormatWave)
	offset := int64(12)
	var dataSize int64
	haveDataSize := false

	for i := 0; i < maxChunks; i++ {
		chunkHdr, err := r.Read(offset, 8)
		if err != nil || len(chunkHdr) < 8 {
			break
		}
		chunkID := string(chunkHdr[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHdr[4:8]))
		payloadOffset := offset + 8

		switch chunkID {
		case "fmt ":
			body, err := r.Read(payloadOffset, int(chunkSize))
			if err == nil && len(body) >= 16 {
				channels := int(binary.LittleEndian.Uint16(body[2:4]))
				sampleRate := int(binary.LittleEndian.Uint32(body[4:8]))
				bitsPerSample := int(binary.LittleEndian.Uint16(body[14:16]))
				m.CoreInfo.SetChannels(channels)
				m.CoreInfo.SetSampleRate(sampleRate)
				m.CoreInfo.SetBitsPerSample(bitsPerSample)
			}
		case "data":
			dataSize = chunkSize
			haveDataSize = true
		case "id3 ", "ID3 ":
			body, err := r.Read(payloadOffset, int(chunkSize))
			if err == nil {
				sub := reader.New(source.NewMemory(body, r.NameHint()), 0, 0)
				if _, err := tagparsers.ParseID3v2(sub, 0, m, p.Options); err != nil {
					m.Diagnostics.AddWarning("malformed embedded ID3v2 chunk: " + err.Error())
				}
			}
		}

		offset = payloadOffset + chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}

	if haveDataSize && m.CoreInfo.SampleRate != nil && m.CoreInfo.Channels != nil && m.CoreInfo.BitsPerSample != nil {
		sr, ch, bps := *m.CoreInfo.SampleRate, *m.CoreInfo.Channels, *m.CoreInfo.BitsPerSample
		bytesPerSecond := sr * ch * bps / 8
		if bytesPerSecond > 0 {
			m.CoreInfo.SetLength(float64(dataSize) / float64(bytesPerSecond))
			m.CoreInfo.SetBitrate(bytesPerSecond * 8)
		}
	}

	return m, nil
}
