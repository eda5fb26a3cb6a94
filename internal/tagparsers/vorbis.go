package tagparsers

import (
	"strings"

	"github.com/audiometa-go/audiometa/internal/types"
)

const vorbisMaxComments = 1 << 16

// ParseVorbisComment decodes a Vorbis comment packet body (the vendor
// string, comment count, and KEY=VALUE entries) as carried inside Ogg
// Vorbis/Opus/Speex packets, FLAC VORBIS_COMMENT blocks, and OggFLAC
// streams. data must already exclude any packet-type/magic prefix the
// caller stripped (e.g. the 7-byte "\x03vorbis" header, or FLAC's
// 4-byte block header).
func ParseVorbisComment(data []byte, m *types.ParsedAudioMetadata) error {
	if len(data) < 4 {
		return types.NewTruncatedDataError("vorbis comment packet too short for vendor length", 0, 4, len(data))
	}
	vendorLen := le32(data[0:4])
	off := int64(4) + int64(vendorLen)
	if off+4 > int64(len(data)) {
		return types.NewTruncatedDataError("vorbis comment packet too short for comment count", off, 4, len(data)-int(off))
	}
	m.SetExtension("vorbis.vendor", types.NewTextValue(string(data[4:off])))

	count := le32(data[off : off+4])
	off += 4
	if count > vorbisMaxComments {
		count = vorbisMaxComments
	}

	for i := uint32(0); i < count; i++ {
		if off+4 > int64(len(data)) {
			break
		}
		entryLen := le32(data[off : off+4])
		off += 4
		if off+int64(entryLen) > int64(len(data)) {
			break
		}
		entry := string(data[off : off+int64(entryLen)])
		off += int64(entryLen)

		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToUpper(entry[:eq])
		value := entry[eq+1:]
		m.AppendTagText(key, value)
	}

	return nil
}
