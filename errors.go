package audiometa

import "github.com/audiometa-go/audiometa/internal/types"

// ErrorKind tags a ParseError with the error taxonomy every parser
// normalizes to: unsupportedFormat, invalidHeader, truncatedData,
// inconsistentContainer, invalidTagPayload, ioFailure, or
// internalInvariant.
type ErrorKind = types.ErrorKind

const (
	KindUnsupportedFormat     = types.KindUnsupportedFormat
	KindInvalidHeader         = types.KindInvalidHeader
	KindTruncatedData         = types.KindTruncatedData
	KindInconsistentContainer = types.KindInconsistentContainer
	KindInvalidTagPayload     = types.KindInvalidTagPayload
	KindIOFailure             = types.KindIOFailure
	KindInternalInvariant     = types.KindInternalInvariant
)

// ParseError is the common shape every typed error below normalizes to
// via AsParseError.
type ParseError = types.ParseError

// AsParseError normalizes any error returned by Parse into a single
// *ParseError, returning ok=false for anything else (e.g. a context
// cancellation surfaced without going through the typed error family).
func AsParseError(err error) (*ParseError, bool) {
	return types.AsParseError(err)
}

// UnsupportedFormatError: no parser, probed or fallback, claimed the
// input.
type UnsupportedFormatError = types.UnsupportedFormatError

// InvalidHeaderError: a required magic/shape check failed at a known
// offset.
type InvalidHeaderError = types.InvalidHeaderError

// TruncatedDataError: a read requested more bytes than the source had,
// or a declared size extends past it.
type TruncatedDataError = types.TruncatedDataError

// InconsistentContainerError: internal offsets or sizes contradict the
// container's own framing.
type InconsistentContainerError = types.InconsistentContainerError

// InvalidTagPayloadError: tag-vocabulary decode failed where the outer
// container was otherwise valid.
type InvalidTagPayloadError = types.InvalidTagPayloadError

// IOFailureError: the underlying source raised, a request violated
// reader bounds, or a permit wait was canceled.
type IOFailureError = types.IOFailureError

// InternalInvariantError: a condition that should never occur at
// runtime.
type InternalInvariantError = types.InternalInvariantError
