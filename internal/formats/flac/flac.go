// Package flac implements the FLAC container parser: metadata block
// walker over the shared reader.WindowedReader, built against the
// registry.FormatParser interface.
package flac

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const (
	blockStreamInfo    = 0
	blockVorbisComment = 4
	blockPicture       = 6
	maxBlocks          = 4096
)

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatFLAC }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[:4]) == "fLaC"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 4)
	if err != nil {
		return nil, err
	}
	if string(hdr) != "fLaC" {
		return nil, types.NewInvalidHeaderError("missing fLaC magic", 0)
	}

	m := types.NewParsedAudioMetadata(types.FormatFLAC)
	offset := int64(4)

	for i := 0; i < maxBlocks; i++ {
		blockHdr, err := r.Read(offset, 4)
		if err != nil || len(blockHdr) < 4 {
			if i == 0 {
				return nil, types.NewTruncatedDataError("truncated STREAMINFO header", offset, 4, len(blockHdr))
			}
			break
		}
		last := blockHdr[0]&0x80 != 0
		blockType := blockHdr[0] & 0x7F
		length := int(blockHdr[1])<<16 | int(blockHdr[2])<<8 | int(blockHdr[3])
		payloadOffset := offset + 4

		payload, err := r.Read(payloadOffset, length)
		if err != nil || len(payload) < length {
			if blockType == blockStreamInfo {
				return nil, types.NewTruncatedDataError("truncated STREAMINFO block", payloadOffset, length, len(payload))
			}
			m.SetExtension("flac_metadata_truncated", types.NewBoolValue(true))
			break
		}

		switch blockType {
		case blockStreamInfo:
			if err := parseStreamInfo(payload, m); err != nil {
				return nil, err
			}
		case blockVorbisComment:
			if err := tagparsers.ParseVorbisComment(payload, m); err != nil {
				m.Diagnostics.AddWarning("malformed VORBIS_COMMENT block: " + err.Error())
			}
		case blockPicture:
			parsePicture(payload, m, p.Options)
		}

		offset = payloadOffset + int64(length)
		if last {
			break
		}
	}

	return m, nil
}

func parseStreamInfo(block []byte, m *types.ParsedAudioMetadata) error {
	if len(block) < 18 {
		return types.NewTruncatedDataError("STREAMINFO shorter than 18 bytes", 0, 18, len(block))
	}
	packed := binary.BigEndian.Uint64(block[10:18])
	sampleRate := uint32(packed >> 44)
	channels := uint8((packed>>41)&0x7) + 1
	bitsPerSample := uint8((packed>>36)&0x1F) + 1
	totalSamples := packed & 0xFFFFFFFFF

	m.CoreInfo.SetSampleRate(int(sampleRate))
	m.CoreInfo.SetChannels(int(channels))
	m.CoreInfo.SetBitsPerSample(int(bitsPerSample))
	if sampleRate > 0 && totalSamples > 0 {
		m.CoreInfo.SetLength(float64(totalSamples) / float64(sampleRate))
	}
	return nil
}

func parsePicture(block []byte, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	if len(block) < 8 {
		return
	}
	off := 4 // skip picture type
	mimeLen := int(binary.BigEndian.Uint32(block[off : off+4]))
	off += 4
	if off+mimeLen > len(block) {
		return
	}
	mime := string(block[off : off+mimeLen])
	off += mimeLen

	if off+4 > len(block) {
		return
	}
	descLen := int(binary.BigEndian.Uint32(block[off : off+4]))
	off += 4 + descLen
	off += 16 // width, height, colorDepth, numColors (4 BE each)
	if off+4 > len(block) {
		return
	}
	dataLen := int(binary.BigEndian.Uint32(block[off : off+4]))
	off += 4
	if off+dataLen > len(block) {
		return
	}
	data := block[off : off+dataLen]
	m.SetTag("PICTURE", types.NewBinaryValue(tagparsers.Digest(data, mime, opts)))
}
