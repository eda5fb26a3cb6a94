package audiometa

import "github.com/audiometa-go/audiometa/internal/types"

// ParsedAudioMetadata is the normalized result of a parse: the detected
// format, the core audio parameters a container exposes, every decoded
// tag and format-specific extension field, and non-fatal diagnostics
// about how the parse went.
type ParsedAudioMetadata = types.ParsedAudioMetadata

// AudioCoreInfo holds the core audio parameters a container may expose.
// Every field is independently optional.
type AudioCoreInfo = types.AudioCoreInfo

// MetadataTagValue is a tagged variant over the value shapes a tag
// vocabulary can carry: text, int, double, bool, or binary.
type MetadataTagValue = types.MetadataTagValue

// TagValueKind discriminates the MetadataTagValue variant.
type TagValueKind = types.TagValueKind

const (
	TagText   = types.TagText
	TagInt    = types.TagInt
	TagDouble = types.TagDouble
	TagBool   = types.TagBool
	TagBinary = types.TagBinary
)

// BinaryDigest is the canonical representation of an embedded binary
// payload: always a SHA-256 digest, optionally the raw bytes alongside
// it when embedding was requested and the payload fit within the
// configured ceiling.
type BinaryDigest = types.BinaryDigest

// ParserDiagnostics carries non-fatal information about how a parse
// went: which parser ran, how many bytes it pulled through the reader,
// and any warnings it chose not to escalate to a fatal error.
type ParserDiagnostics = types.ParserDiagnostics
