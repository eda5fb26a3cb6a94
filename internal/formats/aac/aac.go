// Package aac implements the ADTS (Audio Data Transport Stream) header
// parser for raw AAC streams, grounded in shape on the ac3 package's
// bit-level frame header reader.
package aac

import (
	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

var samplingFreqTable = []int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350, 0, 0, 0,
}

// channelConfigTable maps the 3-bit channel_configuration field to a
// channel count; index 0 means "defined in the program config element"
// and is left as unknown.
var channelConfigTable = []int{0, 1, 2, 3, 4, 5, 6, 8}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatAAC }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xF6 == 0xF0
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 7)
	if err != nil {
		return nil, err
	}
	if hdr[0] != 0xFF || hdr[1]&0xF6 != 0xF0 {
		return nil, types.NewInvalidHeaderError("missing ADTS sync word", 0)
	}

	br := newBitReader(hdr)
	br.skip(12) // syncword
	br.skip(1)  // ID
	br.skip(2)  // layer
	br.skip(1)  // protection_absent
	br.skip(2)  // profile
	samplingIdx := br.read(4)
	br.skip(1) // private_bit
	channelConfig := br.read(3)
	br.skip(1) // original_copy
	br.skip(1) // home
	br.skip(1) // copyright_id_bit
	br.skip(1) // copyright_id_start
	frameLen := br.read(13)
	br.skip(11) // adts_buffer_fullness
	br.skip(2)  // number_of_raw_data_blocks_in_frame

	if br.err {
		return nil, types.NewTruncatedDataError("ADTS header truncated", 0, 7, len(hdr))
	}

	m := types.NewParsedAudioMetadata(types.FormatAAC)

	var sampleRate int
	if int(samplingIdx) < len(samplingFreqTable) {
		sampleRate = samplingFreqTable[samplingIdx]
	}
	if sampleRate > 0 {
		m.CoreInfo.SetSampleRate(sampleRate)
		if frameLen > 0 {
			bitrate := int(frameLen) * 8 * sampleRate / 1024
			m.CoreInfo.SetBitrate(bitrate)
		}
	}
	if int(channelConfig) < len(channelConfigTable) {
		if ch := channelConfigTable[channelConfig]; ch > 0 {
			m.CoreInfo.SetChannels(ch)
		}
	}

	return m, nil
}

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
