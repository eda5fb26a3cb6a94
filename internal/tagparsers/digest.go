// Package tagparsers implements the shared tag-block decoders (ID3v2,
// APEv2, Vorbis comments, MP4 data atoms) invoked by multiple format
// parsers. They are free functions over a *reader.WindowedReader plus
// byte slices, deliberately avoiding any parser inheritance hierarchy,
// and write into the same MetadataTagValue map regardless of which tag
// format produced the value.
package tagparsers

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/audiometa-go/audiometa/internal/types"
)

// Options configures behavior shared by every tag parser: whether to
// embed binary payload bytes alongside their digest, and the size ceiling
// for doing so.
type Options struct {
	IncludeBinaryData bool
	MaxBinaryTagBytes int64
}

// Digest always computes the SHA-256 of payload; it embeds the payload
// bytes only when opts permits and payload.size is within the configured
// ceiling, satisfying the embedding-gate property independent of which
// tag carried the payload.
func Digest(payload []byte, mime string, opts Options) types.BinaryDigest {
	sum := sha256.Sum256(payload)
	d := types.BinaryDigest{
		Size:   len(payload),
		MIME:   mime,
		SHA256: hex.EncodeToString(sum[:]),
	}
	if opts.IncludeBinaryData && int64(len(payload)) <= opts.MaxBinaryTagBytes {
		d.Data = append([]byte(nil), payload...)
	}
	return d
}
