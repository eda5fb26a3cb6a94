// Package aiff implements the AIFF/AIFC chunk walker: big-endian chunk
// layout, COMM technical fields, and the 80-bit IEEE extended sample-rate
// encoding, mirroring wave's chunk-iteration shape with AIFF's
// big-endian layout and extended-float sample rate field.
package aiff

import (
	"encoding/binary"
	"math"

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

func (p *Parser) Format() types.AudioFormat { return types.FormatAIFF }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	if len(header) < 12 || string(header[0:4]) != "FORM" {
		return false
	}
	tag := string(header[8:12])
	return tag == "AIFF" || tag == "AIFC"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 12)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "FORM" {
		return nil, types.NewInvalidHeaderError("missing FORM magic", 0)
	}
	formTag := string(hdr[8:12])
	if formTag != "AIFF" && formTag != "AIFC" {
		return nil, types.NewInvalidHeaderError("not an AIFF/AIFC FORM", 0)
	}

	m := types.NewParsedAudioMetadata(types.FormatAIFF)
	offset := int64(12)
	var sampleFrames int64
	var bytesPerSample int

	for i := 0; i < maxChunks; i++ {
		chunkHdr, err := r.Read(offset, 8)
		if err != nil || len(chunkHdr) < 8 {
			break
		}
		chunkID := string(chunkHdr[0:4])
		chunkSize := int64(binary.BigEndian.Uint32(chunkHdr[4:8]))
		payloadOffset := offset + 8

		switch chunkID {
		case "COMM":
			body, err := r.Read(payloadOffset, int(chunkSize))
			if err == nil && len(body) >= 18 {
				channels := int(binary.BigEndian.Uint16(body[0:2]))
				frames := int64(binary.BigEndian.Uint32(body[2:6]))
				bitsPerSample := int(binary.BigEndian.Uint16(body[6:8]))
				sampleRate := int(math.Round(decodeExtended80(body[8:18])))

				m.CoreInfo.SetChannels(channels)
				m.CoreInfo.SetBitsPerSample(bitsPerSample)
				m.CoreInfo.SetSampleRate(sampleRate)
				sampleFrames = frames
				bytesPerSample = (bitsPerSample + 7) / 8
			}
		case "ID3 ":
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

	if sampleFrames > 0 && m.CoreInfo.SampleRate != nil && *m.CoreInfo.SampleRate > 0 {
		m.CoreInfo.SetLength(float64(sampleFrames) / float64(*m.CoreInfo.SampleRate))
		if m.CoreInfo.Channels != nil && bytesPerSample > 0 {
			m.CoreInfo.SetBitrate(*m.CoreInfo.SampleRate * *m.CoreInfo.Channels * bytesPerSample * 8)
		}
	}

	return m, nil
}

// decodeExtended80 decodes a 10-byte (80-bit) IEEE 754 extended-precision
// float as used by AIFF's COMM sample-rate field: 1 sign bit, 15-bit
// biased exponent (bias 16383), 64-bit unsigned mantissa normalized as
// mantissa/2^63.
func decodeExtended80(b []byte) float64 {
	sign := 1.0
	if b[0]&0x80 != 0 {
		sign = -1.0
	}
	exponent := int(binary.BigEndian.Uint16(b[0:2])&0x7FFF) - 16383
	mantissa := binary.BigEndian.Uint64(b[2:10])
	return sign * float64(mantissa) * math.Pow(2, float64(exponent-63))
}
