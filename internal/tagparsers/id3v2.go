package tagparsers

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

// ParseID3v2 parses an ID3v2 tag at offset (almost always 0, but format
// parsers may point it at a chunk-embedded tag via a sub-reader) and
// populates m.Tags. It returns the total tag size (header + declared
// size) so the caller can skip past it to find audio frame data.
func ParseID3v2(r *reader.WindowedReader, offset int64, m *types.ParsedAudioMetadata, opts Options) (int64, error) {
	hdr, err := r.ReadExact(offset, 10)
	if err != nil {
		return 0, err
	}
	if string(hdr[0:3]) != "ID3" {
		return 0, types.NewInvalidHeaderError("missing ID3 magic", offset)
	}

	major := hdr[3]
	flags := hdr[5]
	size := decodeSynchsafe(hdr[6:10])
	tagSize := int64(10) + int64(size)

	if major != 2 && major != 3 && major != 4 {
		return tagSize, types.NewInvalidHeaderError("unsupported ID3v2 version", offset)
	}

	frameOffset := offset + 10
	tagEnd := offset + tagSize

	if flags&0x40 != 0 && major >= 3 {
		extBuf, err := r.Read(frameOffset, 4)
		if err == nil && len(extBuf) == 4 {
			if major == 4 {
				frameOffset += int64(decodeSynchsafe(extBuf))
			} else {
				frameOffset += int64(beUint32(extBuf)) + 4
			}
		}
	}

	for frameOffset+10 <= tagEnd {
		fh, err := r.Read(frameOffset, 10)
		if err != nil || len(fh) < 10 {
			break
		}
		if fh[0] == 0 && fh[1] == 0 && fh[2] == 0 && fh[3] == 0 {
			break
		}
		frameID := string(fh[0:4])
		if !isValidFrameID(frameID) {
			break
		}

		var frameSize uint32
		if major == 4 {
			frameSize = decodeSynchsafe(fh[4:8])
		} else {
			frameSize = beUint32(fh[4:8])
		}

		bodyOffset := frameOffset + 10
		if bodyOffset+int64(frameSize) > tagEnd {
			break
		}

		body, err := r.Read(bodyOffset, int(frameSize))
		if err != nil {
			break
		}

		parseFrame(frameID, body, m, opts)

		frameOffset = bodyOffset + int64(frameSize)
	}

	return tagSize, nil
}

// DecodeSynchsafeInt decodes a 28-bit synchsafe integer packed across four
// bytes (high bit of each byte always zero), exported for round-trip
// property tests.
func DecodeSynchsafeInt(b []byte) uint32 { return decodeSynchsafe(b) }

// EncodeSynchsafeInt is the inverse of DecodeSynchsafeInt, used only by
// tests exercising the round-trip property.
func EncodeSynchsafeInt(v uint32) []byte {
	return []byte{
		byte((v >> 21) & 0x7F),
		byte((v >> 14) & 0x7F),
		byte((v >> 7) & 0x7F),
		byte(v & 0x7F),
	}
}

func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func isValidFrameID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for _, c := range id {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func parseFrame(frameID string, body []byte, m *types.ParsedAudioMetadata, opts Options) {
	switch {
	case frameID == "TXXX":
		parseTXXX(body, m)
	case frameID == "COMM":
		parseCOMM(body, m)
	case frameID == "APIC":
		parseAPIC(body, m, opts)
	case strings.HasPrefix(frameID, "T"):
		parseTextFrame(frameID, body, m)
	}
}

func parseTextFrame(frameID string, body []byte, m *types.ParsedAudioMetadata) {
	if len(body) < 1 {
		return
	}
	values := decodeMultiValue(body[1:], body[0])
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		m.AppendTagText(frameID, v)
	}
}

func parseTXXX(body []byte, m *types.ParsedAudioMetadata) {
	if len(body) < 2 {
		return
	}
	encoding := body[0]
	data := body[1:]
	idx := findTerminator(data, encoding)
	if idx < 0 {
		return
	}
	desc := decodeText(data[:idx], encoding)
	value := data[idx+terminatorLen(encoding):]
	key := "TXXX:" + desc
	for _, v := range decodeMultiValue(value, encoding) {
		m.AppendTagText(key, v)
	}
}

func parseCOMM(body []byte, m *types.ParsedAudioMetadata) {
	if len(body) < 4 {
		return
	}
	encoding := body[0]
	data := body[4:] // skip 3-byte language
	idx := findTerminator(data, encoding)
	key := "COMM:"
	var value []byte
	if idx < 0 {
		value = data
	} else {
		key += decodeText(data[:idx], encoding)
		value = data[idx+terminatorLen(encoding):]
	}
	for _, v := range decodeMultiValue(value, encoding) {
		m.AppendTagText(key, v)
	}
}

func parseAPIC(body []byte, m *types.ParsedAudioMetadata, opts Options) {
	if len(body) < 2 {
		return
	}
	encoding := body[0]
	rest := body[1:]
	mimeEnd := bytes.IndexByte(rest, 0)
	if mimeEnd < 0 {
		return
	}
	mime := string(rest[:mimeEnd])
	rest = rest[mimeEnd+1:]
	if len(rest) < 1 {
		return
	}
	rest = rest[1:] // picture type byte
	descEnd := findTerminator(rest, encoding)
	if descEnd < 0 {
		return
	}
	payload := rest[descEnd+terminatorLen(encoding):]
	m.SetTag("APIC", types.NewBinaryValue(Digest(payload, mime, opts)))
}

func findTerminator(data []byte, encoding byte) int {
	switch encoding {
	case 1, 2:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

func terminatorLen(encoding byte) int {
	switch encoding {
	case 1, 2:
		return 2
	default:
		return 1
	}
}

// decodeMultiValue splits text-frame content on NUL boundaries for UTF-8
// and UTF-16 encodings, dropping empty values produced by a trailing
// terminator; Latin-1 frames are returned as a single trimmed value.
func decodeMultiValue(data []byte, encoding byte) []string {
	switch encoding {
	case 0:
		s := strings.TrimFunc(decodeLatin1(data), isControl)
		if s == "" {
			return nil
		}
		return []string{s}
	case 3:
		var out []string
		for _, part := range bytes.Split(data, []byte{0}) {
			if len(part) == 0 {
				continue
			}
			out = append(out, string(part))
		}
		return out
	case 1, 2:
		var out []string
		for _, part := range splitUTF16(data) {
			if len(part) == 0 {
				continue
			}
			s := decodeUTF16(part, encoding)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{decodeLatin1(data)}
	}
}

func splitUTF16(data []byte) [][]byte {
	var parts [][]byte
	start := 0
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			parts = append(parts, data[start:i])
			start = i + 2
		}
	}
	parts = append(parts, data[start:])
	return parts
}

func decodeText(data []byte, encoding byte) string {
	switch encoding {
	case 0:
		return decodeLatin1(data)
	case 3:
		return string(data)
	case 1, 2:
		return decodeUTF16(data, encoding)
	default:
		return decodeLatin1(data)
	}
}

func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7F }

// decodeUTF16 decodes ID3v2 encoding bytes 1 (UTF-16 with BOM) and 2
// (UTF-16BE) using golang.org/x/text/encoding/unicode, attempting
// BOM-aware decoding first and falling back to big-endian when no BOM
// is present.
func decodeUTF16(data []byte, encoding byte) string {
	if len(data) < 2 {
		return ""
	}
	order := unicode.BigEndian
	bomPolicy := unicode.IgnoreBOM
	if encoding == 1 {
		bomPolicy = unicode.ExpectBOM
	}
	dec := unicode.UTF16(order, bomPolicy).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil || len(out) == 0 {
		// Fall back to a plain big-endian decode without BOM detection.
		out, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
		if err != nil {
			return ""
		}
	}
	return string(out)
}
