package tagparsers

import (
	"bytes"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

const apeMaxItems = 512

// ParseAPEv2Footer walks an APEv2 footer at the end of a source of known
// fileLength. It returns found=false (no error) when the last 32 bytes
// don't carry the APETAGEX magic — an APEv2 footer is an optional
// sub-block on most formats that invoke it. A present-but-malformed footer
// returns found=true and an error; callers should downgrade that to a
// diagnostics warning rather than treat it as fatal.
func ParseAPEv2Footer(r *reader.WindowedReader, fileLength int64, m *types.ParsedAudioMetadata, opts Options) (found bool, err error) {
	if fileLength < 32 {
		return false, nil
	}
	footerOffset := fileLength - 32
	footer, err := r.ReadExact(footerOffset, 32)
	if err != nil {
		return false, nil
	}
	if string(footer[0:8]) != "APETAGEX" {
		return false, nil
	}
	found = true

	size := le32(footer[12:16])
	itemCount := le32(footer[16:20])
	if itemCount > apeMaxItems {
		itemCount = apeMaxItems
	}

	bodyStart := fileLength - int64(size)
	if bodyStart < 0 {
		return true, types.NewInvalidTagPayloadError("APEv2 size exceeds file length", "APETAGEX")
	}

	offset := bodyStart
	for i := uint32(0); i < itemCount; i++ {
		peek, perr := r.Read(offset, 8)
		if perr == nil && len(peek) == 8 && string(peek) == "APETAGEX" {
			break
		}

		head, herr := r.ReadExact(offset, 8)
		if herr != nil {
			break
		}
		valueSize := le32(head[0:4])
		flags := le32(head[4:8])
		offset += 8

		key, keyLen, kerr := readNulKey(r, offset)
		if kerr != nil {
			break
		}
		offset += int64(keyLen)

		value, verr := r.ReadExact(offset, int(valueSize))
		if verr != nil {
			break
		}
		offset += int64(valueSize)

		valueType := (flags >> 1) & 0x3
		if valueType == 0 {
			for _, part := range bytes.Split(value, []byte{0}) {
				m.AppendTagText(key, string(part))
			}
		} else {
			m.SetTag(key, types.NewBinaryValue(Digest(value, "", opts)))
		}
	}

	return true, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readNulKey(r *reader.WindowedReader, offset int64) (string, int, error) {
	const chunk = 256
	var buf []byte
	for {
		b, err := r.Read(offset+int64(len(buf)), chunk)
		if err != nil {
			return "", 0, err
		}
		if len(b) == 0 {
			return "", 0, types.NewInvalidTagPayloadError("unterminated APEv2 key", "APETAGEX")
		}
		buf = append(buf, b...)
		if idx := bytes.IndexByte(buf, 0); idx >= 0 {
			return string(buf[:idx]), idx + 1, nil
		}
		if len(b) < chunk {
			return "", 0, types.NewInvalidTagPayloadError("unterminated APEv2 key", "APETAGEX")
		}
	}
}
