// Package monkeysaudio implements the Monkey's Audio (APE) header parser.
// Format version 3980 replaced the single combined header with a
// descriptor block plus a separate, leaner header; this parser gates on
// that version the way the container walkers elsewhere in this module
// gate behavior on a format-revision field.
package monkeysaudio

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

const modernVersionGate = 3980

const legacyBlocksPerFrame = 73728

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatMonkeysAudio }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == "MAC "
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	lead, err := r.ReadExact(0, 6)
	if err != nil {
		return nil, err
	}
	if string(lead[0:4]) != "MAC " {
		return nil, types.NewInvalidHeaderError("missing MAC signature", 0)
	}
	version := binary.LittleEndian.Uint16(lead[4:6])

	m := types.NewParsedAudioMetadata(types.FormatMonkeysAudio)
	m.SetExtension("monkeysaudio.format_version", types.NewIntValue(int64(version)))

	if version >= modernVersionGate {
		return p.parseModern(r, m)
	}
	return p.parseLegacy(r, m)
}

func (p *Parser) parseModern(r *reader.WindowedReader, m *types.ParsedAudioMetadata) (*types.ParsedAudioMetadata, error) {
	descriptor, err := r.ReadExact(0, 52)
	if err != nil {
		return nil, err
	}
	headerBytesLength := binary.LittleEndian.Uint32(descriptor[8:12])
	if headerBytesLength < 24 {
		headerBytesLength = 24
	}

	hdr, err := r.Read(52, int(headerBytesLength))
	if err != nil || len(hdr) < 24 {
		return m, nil
	}

	blocksPerFrame := binary.LittleEndian.Uint32(hdr[4:8])
	finalFrameBlocks := binary.LittleEndian.Uint32(hdr[8:12])
	totalFrames := binary.LittleEndian.Uint32(hdr[12:16])
	bitsPerSample := binary.LittleEndian.Uint16(hdr[16:18])
	channels := binary.LittleEndian.Uint16(hdr[18:20])
	sampleRate := binary.LittleEndian.Uint32(hdr[20:24])

	m.CoreInfo.SetChannels(int(channels))
	m.CoreInfo.SetBitsPerSample(int(bitsPerSample))
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(int(sampleRate))
		totalBlocks := totalSamples(totalFrames, blocksPerFrame, finalFrameBlocks)
		m.CoreInfo.SetLength(float64(totalBlocks) / float64(sampleRate))
	}

	return m, nil
}

func (p *Parser) parseLegacy(r *reader.WindowedReader, m *types.ParsedAudioMetadata) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.Read(6, 26)
	if err != nil || len(hdr) < 26 {
		return m, nil
	}

	formatFlags := binary.LittleEndian.Uint16(hdr[2:4])
	channels := binary.LittleEndian.Uint16(hdr[4:6])
	sampleRate := binary.LittleEndian.Uint32(hdr[6:10])
	totalFrames := binary.LittleEndian.Uint32(hdr[18:22])
	finalFrameBlocks := binary.LittleEndian.Uint32(hdr[22:26])

	m.CoreInfo.SetChannels(int(channels))
	m.CoreInfo.SetBitsPerSample(legacyBitsPerSample(formatFlags))
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(int(sampleRate))
		totalBlocks := totalSamples(totalFrames, legacyBlocksPerFrame, finalFrameBlocks)
		m.CoreInfo.SetLength(float64(totalBlocks) / float64(sampleRate))
	}

	return m, nil
}

func legacyBitsPerSample(formatFlags uint16) int {
	switch {
	case formatFlags&0x1 != 0:
		return 8
	case formatFlags&0x8 != 0:
		return 24
	default:
		return 16
	}
}

func totalSamples(totalFrames, blocksPerFrame, finalFrameBlocks uint32) int64 {
	if totalFrames == 0 {
		return 0
	}
	return int64(totalFrames-1)*int64(blocksPerFrame) + int64(finalFrameBlocks)
}
