package tagparsers

import (
	"fmt"

	"github.com/audiometa-go/audiometa/internal/types"
)

// MP4 'data' atom well-known type codes (24-bit, stored big-endian in the
// atom's version+flags field). Any code not listed here (including the
// rarely-used UTF-16 code 2) falls through to a raw binary digest rather
// than being guessed at.
const (
	mp4TypeImplicit = 0
	mp4TypeUTF8     = 1
	mp4TypeJPEG     = 13
	mp4TypePNG      = 14
	mp4TypeBEInt    = 21
)

// ParseMP4Data decodes the payload of an MP4 'data' atom (the 8 bytes of
// version/flags/reserved already stripped by the caller) for iTunes-style
// metadata keys under moov/udta/meta/ilst. key is the parent atom's
// four-character code (e.g. "\xa9nam", "trkn", "disk", "cpil", "covr");
// trkn/disk/cpil get dedicated numeric handling regardless of the
// declared type code, mirroring how iTunes actually writes them.
func ParseMP4Data(key string, typeCode uint32, payload []byte, m *types.ParsedAudioMetadata, opts Options) {
	switch key {
	case "trkn", "disk":
		parseMP4PairAtom(key, payload, m)
		return
	case "cpil", "pgap", "pcst":
		if len(payload) >= 1 {
			m.SetTag(key, types.NewBoolValue(payload[0] != 0))
		}
		return
	}

	switch typeCode {
	case mp4TypeUTF8, mp4TypeImplicit:
		m.AppendTagText(key, string(payload))
	case mp4TypeJPEG:
		m.SetTag(key, types.NewBinaryValue(Digest(payload, "image/jpeg", opts)))
	case mp4TypePNG:
		m.SetTag(key, types.NewBinaryValue(Digest(payload, "image/png", opts)))
	case mp4TypeBEInt:
		m.SetTag(key, types.NewIntValue(decodeMP4BEInt(payload)))
	default:
		m.SetTag(key, types.NewBinaryValue(Digest(payload, "", opts)))
	}
}

// parseMP4PairAtom decodes the trkn/disk "index/total" 8-byte payload
// (2 reserved, index BE16, total BE16, 2 reserved) into "n/total" text,
// matching what mutagen and every other MP4 tag reader surfaces for it.
func parseMP4PairAtom(key string, payload []byte, m *types.ParsedAudioMetadata) {
	if len(payload) < 6 {
		return
	}
	index := int(payload[2])<<8 | int(payload[3])
	total := int(payload[4])<<8 | int(payload[5])
	if total > 0 {
		m.AppendTagText(key, fmt.Sprintf("%d/%d", index, total))
	} else {
		m.AppendTagText(key, fmt.Sprintf("%d", index))
	}
}

func decodeMP4BEInt(b []byte) int64 {
	var v int64
	switch len(b) {
	case 1:
		v = int64(int8(b[0]))
	case 2:
		v = int64(int16(uint16(b[0])<<8 | uint16(b[1])))
	case 4:
		v = int64(int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])))
	default:
		for _, by := range b {
			v = v<<8 | int64(by)
		}
	}
	return v
}
