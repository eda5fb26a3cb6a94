// Package asf implements the ASF (Windows Media Audio/Video) object-tree
// walker: header GUID, file-properties duration/bitrate, audio
// stream-properties technical fields, and the content-description tag
// block. Grounded in shape on the other container walkers in this module
// (chunk/object iteration with a bounded loop count), since no example
// repo in the retrieval pack implements ASF itself.
package asf

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

const maxObjects = 1024

var (
	headerGUID             = guid(0x75B22630, 0x668E, 0x11CF, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C)
	filePropertiesGUID     = guid(0x8CABDCA1, 0xA947, 0x11CF, 0x8E, 0xE4, 0x00, 0xC0, 0x0C, 0x20, 0x53, 0x65)
	streamPropertiesGUID   = guid(0xB7DC0791, 0xA9B7, 0x11CF, 0x8E, 0xE6, 0x00, 0xC0, 0x0C, 0x20, 0x53, 0x65)
	contentDescriptionGUID = guid(0x75B22633, 0x668E, 0x11CF, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C)
	audioMediaGUID         = guid(0xF8699E40, 0x5B4D, 0x11CF, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0x44, 0x2B)
)

// guid builds the 16-byte little-endian-encoded GUID representation ASF
// uses on the wire from its canonical {data1-data2-data3-data4} form.
func guid(d1 uint32, d2, d3 uint16, d4 ...byte) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:4], d1)
	binary.LittleEndian.PutUint16(b[4:6], d2)
	binary.LittleEndian.PutUint16(b[6:8], d3)
	copy(b[8:16], d4)
	return b
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatASF }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 16 && bytes.Equal(header[:16], headerGUID)
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	preamble, err := r.ReadExact(0, 30)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(preamble[0:16], headerGUID) {
		return nil, types.NewInvalidHeaderError("missing ASF header GUID", 0)
	}
	headerSize := int64(binary.LittleEndian.Uint64(preamble[16:24]))

	m := types.NewParsedAudioMetadata(types.FormatASF)

	var playDuration100ns, prerollMS uint64
	var havePlayDuration, havePreroll bool

	offset := int64(30)
	for i := 0; i < maxObjects && offset+24 <= headerSize; i++ {
		objHdr, err := r.Read(offset, 24)
		if err != nil || len(objHdr) < 24 {
			break
		}
		objGUID := objHdr[0:16]
		objSize := int64(binary.LittleEndian.Uint64(objHdr[16:24]))
		payloadStart := offset + 24
		payloadEnd := offset + objSize
		if objSize < 24 {
			break
		}

		switch {
		case bytes.Equal(objGUID, filePropertiesGUID):
			body, err := r.Read(payloadStart, 104)
			if err == nil && len(body) >= 84 {
				playDuration100ns = binary.LittleEndian.Uint64(body[40:48])
				prerollMS = binary.LittleEndian.Uint64(body[56:64])
				havePlayDuration, havePreroll = true, true
				if len(body) >= 80 {
					bitrate := binary.LittleEndian.Uint32(body[76:80])
					if bitrate > 0 {
						m.CoreInfo.SetBitrate(int(bitrate))
					}
				}
			}
		case bytes.Equal(objGUID, streamPropertiesGUID):
			body, err := r.Read(payloadStart, 70)
			if err == nil && len(body) >= 70 && bytes.Equal(body[0:16], audioMediaGUID) {
				const formatOffset = 54
				channels := binary.LittleEndian.Uint16(body[formatOffset+2 : formatOffset+4])
				sampleRate := binary.LittleEndian.Uint32(body[formatOffset+4 : formatOffset+8])
				bytesPerSec := binary.LittleEndian.Uint32(body[formatOffset+8 : formatOffset+12])
				bitsPerSample := binary.LittleEndian.Uint16(body[formatOffset+14 : formatOffset+16])

				m.CoreInfo.SetChannels(int(channels))
				m.CoreInfo.SetSampleRate(int(sampleRate))
				m.CoreInfo.SetBitsPerSample(int(bitsPerSample))
				if bytesPerSec > 0 {
					m.CoreInfo.SetBitrate(int(bytesPerSec) * 8)
				}
			}
		case bytes.Equal(objGUID, contentDescriptionGUID):
			parseContentDescription(r, payloadStart, payloadEnd, m)
		}

		offset = payloadEnd
	}

	if havePlayDuration && havePreroll {
		length := (float64(playDuration100ns) - float64(prerollMS)*10000) / 1e7
		if length > 0 {
			m.CoreInfo.SetLength(length)
		}
	}

	return m, nil
}

func parseContentDescription(r *reader.WindowedReader, start, end int64, m *types.ParsedAudioMetadata) {
	lenHdr, err := r.Read(start, 10)
	if err != nil || len(lenHdr) < 10 {
		return
	}
	lengths := [5]uint16{
		binary.LittleEndian.Uint16(lenHdr[0:2]),
		binary.LittleEndian.Uint16(lenHdr[2:4]),
		binary.LittleEndian.Uint16(lenHdr[4:6]),
		binary.LittleEndian.Uint16(lenHdr[6:8]),
		binary.LittleEndian.Uint16(lenHdr[8:10]),
	}
	keys := [5]string{"Title", "Author", "Copyright", "Description", "Rating"}

	offset := start + 10
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		if offset+int64(l) > end {
			break
		}
		raw, err := r.Read(offset, int(l))
		if err != nil {
			break
		}
		m.SetTag(keys[i], types.NewTextValue(decodeUTF16LE(raw)))
		offset += int64(l)
	}
}

// decodeUTF16LE decodes a NUL-terminated UTF-16LE byte string (ASF content
// description fields are fixed-length and NUL-padded/terminated).
func decodeUTF16LE(b []byte) string {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			b = b[:i]
			break
		}
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
