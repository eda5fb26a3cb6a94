package types

// TagValueKind discriminates the MetadataTagValue variant.
type TagValueKind int

const (
	TagText TagValueKind = iota
	TagInt
	TagDouble
	TagBool
	TagBinary
)

// MetadataTagValue is a tagged variant over the value shapes a tag
// vocabulary can carry. Text values are always a list (possibly
// one-element) to express multi-value tags like Vorbis comments or
// ID3v2.4 repeated frames.
type MetadataTagValue struct {
	Kind   TagValueKind
	Text   []string
	Int    int64
	Double float64
	Bool   bool
	Binary *BinaryDigest
}

// NewTextValue builds a text MetadataTagValue. Empty strings are kept
// verbatim; callers decide whether to drop them before constructing.
func NewTextValue(values ...string) MetadataTagValue {
	return MetadataTagValue{Kind: TagText, Text: values}
}

// NewIntValue builds an int MetadataTagValue.
func NewIntValue(v int64) MetadataTagValue {
	return MetadataTagValue{Kind: TagInt, Int: v}
}

// NewDoubleValue builds a double MetadataTagValue.
func NewDoubleValue(v float64) MetadataTagValue {
	return MetadataTagValue{Kind: TagDouble, Double: v}
}

// NewBoolValue builds a bool MetadataTagValue.
func NewBoolValue(v bool) MetadataTagValue {
	return MetadataTagValue{Kind: TagBool, Bool: v}
}

// NewBinaryValue builds a binary MetadataTagValue.
func NewBinaryValue(d BinaryDigest) MetadataTagValue {
	return MetadataTagValue{Kind: TagBinary, Binary: &d}
}

// BinaryDigest is the canonical representation of any embedded binary
// payload encountered while parsing: always a SHA-256 digest, optionally
// the raw bytes alongside it.
type BinaryDigest struct {
	Size   int
	MIME   string
	SHA256 string
	Data   []byte // nil unless embedding was requested and permitted
}
