// Package ac3 implements the AC-3/E-AC-3 bitstream header parser, grounded
// in shape on the other short header-driven codec parsers in this module.
package ac3

import (
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

var fscodTable = []int{48000, 44100, 32000, 0}

var bitrateKbpsTable = []int{
	32, 32, 40, 40, 48, 48, 56, 56, 64, 64,
	80, 80, 96, 96, 112, 112, 128, 128, 160, 160,
	192, 192, 224, 224, 256, 256, 320, 320, 384, 384,
	448, 448, 512, 512, 576, 576, 640, 640,
}

var acmodChannels = []int{2, 1, 2, 3, 3, 4, 4, 5}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatAC3 }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 2 && header[0] == 0x0B && header[1] == 0x77
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 8)
	if err != nil {
		return nil, err
	}
	if hdr[0] != 0x0B || hdr[1] != 0x77 {
		return nil, types.NewInvalidHeaderError("missing AC-3 sync word", 0)
	}

	br := newBitReader(hdr)
	br.skip(32) // syncword + crc1

	fscod := br.read(2)
	frmsizecod := br.read(6)
	bsid := br.read(5)
	br.skip(3) // bsmod
	acmod := br.read(3)

	if acmod&0x1 != 0 && acmod != 1 {
		br.skip(2) // cmixlev
	}
	if acmod&0x4 != 0 {
		br.skip(2) // surmixlev
	}
	if acmod == 2 {
		br.skip(2) // dsurmod
	}
	lfeon := br.read(1)

	if br.err {
		return nil, types.NewTruncatedDataError("AC-3 header truncated before lfeon bit", 0, 8, len(hdr))
	}

	format := types.FormatAC3
	if bsid > 10 {
		format = types.FormatEAC3
	}

	m := types.NewParsedAudioMetadata(format)

	sampleRate := fscodTable[fscod]
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(sampleRate)
	}
	if int(frmsizecod) < len(bitrateKbpsTable) {
		m.CoreInfo.SetBitrate(bitrateKbpsTable[frmsizecod] * 1000)
	}

	channels := acmodChannels[acmod]
	if lfeon != 0 {
		channels++
	}
	m.CoreInfo.SetChannels(channels)

	return m, nil
}

// bitReader reads big-endian bitstream fields MSB-first, the layout AC-3
// frame headers use throughout.
type bitReader struct {
	data   []byte
	bitPos int
	err    bool
}

func newBitReader(data []byte) *bitReader { return &bitReader{data: data} }

func (b *bitReader) read(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		bytePos := b.bitPos / 8
		if bytePos >= len(b.data) {
			b.err = true
			b.bitPos++
			continue
		}
		bitInByte := 7 - (b.bitPos % 8)
		bit := (b.data[bytePos] >> uint(bitInByte)) & 0x1
		v = v<<1 | uint32(bit)
		b.bitPos++
	}
	return v
}

func (b *bitReader) skip(n int) { b.read(n) }
