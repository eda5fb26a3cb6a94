// Package mp3 implements the MPEG audio frame parser: ID3v2 header,
// frame header decode across every MPEG version/layer combination,
// Xing/VBRI VBR detection, and an APEv2 trailer.
package mp3

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

type mpegVersion int

const (
	versionMPEG2_5 mpegVersion = iota
	versionReserved
	versionMPEG2
	versionMPEG1
)

type layer int

const (
	layerReserved layer = iota
	layerIII
	layerII
	layerI
)

var bitrateTableKbps = map[mpegVersion]map[layer][]int{
	versionMPEG1: {
		layerI:   {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
		layerII:  {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		layerIII: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	},
	versionMPEG2: {
		layerI:   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
		layerII:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		layerIII: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	},
}

var sampleRateTable = map[mpegVersion][]int{
	versionMPEG1:   {44100, 48000, 32000, 0},
	versionMPEG2:   {22050, 24000, 16000, 0},
	versionMPEG2_5: {11025, 12000, 8000, 0},
}

var samplesPerFrameTable = map[mpegVersion]map[layer]int{
	versionMPEG1: {layerI: 384, layerII: 1152, layerIII: 1152},
	versionMPEG2: {layerI: 384, layerII: 1152, layerIII: 576},
}

const maxSyncSearch = 128 * 1024

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatMP3 }

// CanParse accepts a bare MPEG frame sync outright, but an ID3-prefixed
// header only once an actual frame sync is found past the tag. TrueAudio
// also leads with an ID3v2 tag, so the ID3 prefix alone can't disambiguate
// the two formats.
func (p *Parser) CanParse(header []byte, nameHint string) bool {
	if len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 {
		return true
	}
	if len(header) < 10 || string(header[:3]) != "ID3" {
		return false
	}
	tagSize := tagparsers.DecodeSynchsafeInt(header[6:10])
	offset := int64(10) + int64(tagSize)
	if offset >= int64(len(header)) {
		// The tag runs past the probed window; assume MP3 rather than
		// falsely reject a real file whose ID3v2 tag (e.g. embedded
		// cover art) is larger than the probe window.
		return true
	}
	_, _, ok := findFrameSync(header[offset:], 0)
	return ok
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	m := types.NewParsedAudioMetadata(types.FormatMP3)

	var offset int64
	if hdr, err := r.Read(0, 3); err == nil && len(hdr) == 3 && string(hdr) == "ID3" {
		size, err := tagparsers.ParseID3v2(r, 0, m, p.Options)
		if err != nil {
			m.Diagnostics.AddWarning("malformed ID3v2 header: " + err.Error())
		} else {
			offset = size
		}
	}

	window, err := r.Read(offset, maxSyncSearch)
	if err != nil {
		return nil, err
	}

	frameOffset, hdrBytes, ok := findFrameSync(window, offset)
	if !ok {
		return m, types.NewInvalidHeaderError("no MPEG frame sync found", offset)
	}

	version, lyr, bitrate, sampleRate, channels, ok := decodeFrameHeader(hdrBytes)
	if !ok {
		return m, types.NewInvalidHeaderError("invalid MPEG frame header", frameOffset)
	}

	m.CoreInfo.SetSampleRate(sampleRate)
	m.CoreInfo.SetChannels(channels)

	mono := channels == 1
	xingOffset := frameOffset + 4 + int64(sideInfoSize(version, mono))

	if length, derivedBitrate, mode, info, ok := p.parseVBRHeader(r, xingOffset, version, lyr, sampleRate); ok {
		m.CoreInfo.SetLength(length)
		m.CoreInfo.SetBitrate(derivedBitrate)
		m.SetExtension("bitrate_mode", types.NewTextValue(mode))
		if info != "" {
			m.SetExtension("encoder_info", types.NewTextValue(info))
		}
	} else {
		m.CoreInfo.SetBitrate(bitrate)
		m.SetExtension("bitrate_mode", types.NewTextValue("CBR"))
		if fileLength, known := r.Size(); known && bitrate > 0 {
			audioBytes := fileLength - frameOffset
			m.CoreInfo.SetLength(float64(audioBytes*8) / float64(bitrate))
		}
	}

	if fileLength, known := r.Size(); known {
		if found, err := tagparsers.ParseAPEv2Footer(r, fileLength, m, p.Options); err != nil && found {
			m.Diagnostics.AddWarning("malformed APEv2 footer: " + err.Error())
		}
	}

	return m, nil
}

func findFrameSync(window []byte, base int64) (int64, []byte, bool) {
	for i := 0; i+4 <= len(window); i++ {
		if window[i] == 0xFF && window[i+1]&0xE0 == 0xE0 {
			return base + int64(i), window[i : i+4], true
		}
	}
	return 0, nil, false
}

func decodeFrameHeader(b []byte) (version mpegVersion, lyr layer, bitrate, sampleRate, channels int, ok bool) {
	if len(b) < 4 {
		return 0, 0, 0, 0, 0, false
	}
	header := binary.BigEndian.Uint32(b)

	versionBits := mpegVersion((header >> 19) & 0x3)
	if versionBits == versionReserved {
		return 0, 0, 0, 0, 0, false
	}
	layerBits := layer((header >> 17) & 0x3)
	if layerBits == layerReserved {
		return 0, 0, 0, 0, 0, false
	}

	lookupVersion := versionBits
	if lookupVersion == versionMPEG2_5 {
		lookupVersion = versionMPEG2
	}

	bitrateIdx := (header >> 12) & 0xF
	sampleRateIdx := (header >> 10) & 0x3
	channelMode := (header >> 6) & 0x3

	rates, ok1 := sampleRateTable[versionBits]
	if !ok1 || int(sampleRateIdx) >= len(rates) || rates[sampleRateIdx] == 0 {
		return 0, 0, 0, 0, 0, false
	}
	table, ok2 := bitrateTableKbps[lookupVersion][layerBits]
	if !ok2 || int(bitrateIdx) >= len(table) {
		return 0, 0, 0, 0, 0, false
	}

	ch := 2
	if channelMode == 3 {
		ch = 1
	}

	return versionBits, layerBits, table[bitrateIdx] * 1000, rates[sampleRateIdx], ch, true
}

func sideInfoSize(version mpegVersion, mono bool) int {
	if version == versionMPEG1 {
		if mono {
			return 17
		}
		return 32
	}
	if mono {
		return 9
	}
	return 17
}

// parseVBRHeader looks for a Xing/Info header at xingOffset, or a VBRI
// header at the same fixed offset. Xing/Info exposes frame and byte
// counts via independent flag bits; VBRI always carries a frame count.
func (p *Parser) parseVBRHeader(r *reader.WindowedReader, xingOffset int64, version mpegVersion, lyr layer, sampleRate int) (length float64, bitrate int, mode string, encoderInfo string, ok bool) {
	buf, err := r.Read(xingOffset, 136)
	if err != nil || len(buf) < 8 {
		return 0, 0, "", "", false
	}

	tag := string(buf[0:4])
	if tag == "Xing" || tag == "Info" {
		flags := binary.BigEndian.Uint32(buf[4:8])
		off := 8
		var numFrames, numBytes uint32
		haveFrames, haveBytes := false, false
		if flags&0x1 != 0 && off+4 <= len(buf) {
			numFrames = binary.BigEndian.Uint32(buf[off : off+4])
			haveFrames = true
			off += 4
		}
		if flags&0x2 != 0 && off+4 <= len(buf) {
			numBytes = binary.BigEndian.Uint32(buf[off : off+4])
			haveBytes = true
			off += 4
		}

		samplesPerFrame := samplesPerFrameTable[normalizeVersion(version)][lyr]
		if samplesPerFrame == 0 {
			samplesPerFrame = 1152
		}
		if haveFrames && sampleRate > 0 {
			length = float64(numFrames) * float64(samplesPerFrame) / float64(sampleRate)
		}
		if haveBytes && length > 0 {
			bitrate = int(float64(numBytes) * 8 / length)
		}

		if idx := findLAME(buf); idx >= 0 && idx+16 <= len(buf) {
			encoderInfo = string(buf[idx : idx+16])
		}

		if tag == "Info" {
			mode = "CBR"
		} else {
			mode = "VBR"
		}
		return length, bitrate, mode, encoderInfo, haveFrames
	}

	if tag == "VBRI" && len(buf) >= 18 {
		numFrames := binary.BigEndian.Uint32(buf[14:18])
		samplesPerFrame := samplesPerFrameTable[normalizeVersion(version)][lyr]
		if samplesPerFrame == 0 {
			samplesPerFrame = 1152
		}
		if sampleRate > 0 {
			length = float64(numFrames) * float64(samplesPerFrame) / float64(sampleRate)
		}
		return length, 0, "VBR", "", true
	}

	return 0, 0, "", "", false
}

func normalizeVersion(v mpegVersion) mpegVersion {
	if v == versionMPEG2_5 {
		return versionMPEG2
	}
	return v
}

func findLAME(buf []byte) int {
	for i := 0; i+4 <= len(buf); i++ {
		if string(buf[i:i+4]) == "LAME" {
			return i
		}
	}
	return -1
}
