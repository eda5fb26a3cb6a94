// Package dsf implements the DSF (DSD Stream File) container parser: the
// "DSD " preamble's metadata pointer, the "fmt " chunk's technical fields,
// and the ID3v2 block the pointer leads to, read through a synthetic
// in-memory reader the way wave.go reads its embedded "id3 " chunk.
package dsf

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatDSF }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == "DSD "
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	preamble, err := r.ReadExact(0, 28)
	if err != nil {
		return nil, err
	}
	if string(preamble[0:4]) != "DSD " {
		return nil, types.NewInvalidHeaderError("missing DSD preamble", 0)
	}
	metadataPointer := int64(binary.LittleEndian.Uint64(preamble[20:28]))

	fmtHdr, err := r.Read(28, 12)
	if err != nil || len(fmtHdr) < 12 || string(fmtHdr[0:4]) != "fmt " {
		return nil, types.NewInvalidHeaderError("missing DSF fmt chunk", 28)
	}

	m := types.NewParsedAudioMetadata(types.FormatDSF)

	fmtBody, err := r.Read(40, 40)
	if err == nil && len(fmtBody) >= 32 {
		channelNum := binary.LittleEndian.Uint32(fmtBody[8:12])
		samplingFrequency := binary.LittleEndian.Uint32(fmtBody[12:16])
		bitsPerSample := binary.LittleEndian.Uint32(fmtBody[16:20])
		sampleCount := binary.LittleEndian.Uint64(fmtBody[20:28])

		m.CoreInfo.SetChannels(int(channelNum))
		m.CoreInfo.SetSampleRate(int(samplingFrequency))
		m.CoreInfo.SetBitsPerSample(int(bitsPerSample))
		if samplingFrequency > 0 {
			m.CoreInfo.SetLength(float64(sampleCount) / float64(samplingFrequency))
		}
	}

	if metadataPointer > 0 {
		if fileLength, known := r.Size(); known && metadataPointer < fileLength {
			tail, err := r.Read(metadataPointer, int(fileLength-metadataPointer))
			if err == nil && len(tail) >= 3 && string(tail[0:3]) == "ID3" {
				sub := reader.New(source.NewMemory(tail, r.NameHint()), 0, 0)
				if _, err := tagparsers.ParseID3v2(sub, 0, m, p.Options); err != nil {
					m.Diagnostics.AddWarning("malformed DSF ID3v2 block: " + err.Error())
				}
			}
		}
	}

	return m, nil
}
