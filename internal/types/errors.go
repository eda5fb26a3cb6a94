package types

import "fmt"

// ErrorKind tags a ParseError with the taxonomy from the error handling
// design: each kind carries a distinct Go type but all satisfy Kind().
type ErrorKind string

const (
	KindUnsupportedFormat     ErrorKind = "unsupportedFormat"
	KindInvalidHeader         ErrorKind = "invalidHeader"
	KindTruncatedData         ErrorKind = "truncatedData"
	KindInconsistentContainer ErrorKind = "inconsistentContainer"
	KindInvalidTagPayload     ErrorKind = "invalidTagPayload"
	KindIOFailure             ErrorKind = "ioFailure"
	KindInternalInvariant     ErrorKind = "internalInvariant"
)

// ParseError is the common shape every error kind below normalizes to.
// It is returned by AsParseError so callers who don't care which concrete
// type occurred can still inspect Kind, Offset, and Context uniformly.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Offset  int64
	HasOff  bool
	Context map[string]string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.HasOff {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// kindedError is implemented by every concrete error type so AsParseError
// can normalize without a type switch per kind.
type kindedError interface {
	error
	Kind() ErrorKind
	offset() (int64, bool)
	context() map[string]string
}

func newParseError(e kindedError, msg string) *ParseError {
	off, has := e.offset()
	return &ParseError{
		Kind:    e.Kind(),
		Message: msg,
		Offset:  off,
		HasOff:  has,
		Context: e.context(),
		Cause:   e,
	}
}

// AsParseError normalizes any of the typed errors below (or a *ParseError
// already) into a single *ParseError, returning ok=false for anything else.
func AsParseError(err error) (*ParseError, bool) {
	if err == nil {
		return nil, false
	}
	if pe, ok := err.(*ParseError); ok {
		return pe, true
	}
	if ke, ok := err.(kindedError); ok {
		return newParseError(ke, ke.Error()), true
	}
	return nil, false
}

type baseError struct {
	Message string
	Offset  int64
	HasOff  bool
	Ctx     map[string]string
	Cause   error
}

func (e *baseError) offset() (int64, bool)      { return e.Offset, e.HasOff }
func (e *baseError) context() map[string]string { return e.Ctx }
func (e *baseError) withOffset(off int64) *baseError {
	e.Offset = off
	e.HasOff = true
	return e
}

// UnsupportedFormatError: the registry found no parser willing to handle
// the input.
type UnsupportedFormatError struct {
	baseError
	NameHint string
}

func NewUnsupportedFormatError(msg, nameHint string) *UnsupportedFormatError {
	return &UnsupportedFormatError{baseError: baseError{Message: msg}, NameHint: nameHint}
}
func (e *UnsupportedFormatError) Error() string  { return fmt.Sprintf("unsupportedFormat: %s", e.Message) }
func (e *UnsupportedFormatError) Kind() ErrorKind { return KindUnsupportedFormat }

// InvalidHeaderError: a required magic/shape check failed at a known offset.
type InvalidHeaderError struct {
	baseError
}

func NewInvalidHeaderError(msg string, offset int64) *InvalidHeaderError {
	e := &InvalidHeaderError{baseError: baseError{Message: msg}}
	e.withOffset(offset)
	return e
}
func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalidHeader: %s (offset %d)", e.Message, e.Offset)
}
func (e *InvalidHeaderError) Kind() ErrorKind { return KindInvalidHeader }

// TruncatedDataError: a read requested N bytes but fewer were available, or
// a declared size extends past the source.
type TruncatedDataError struct {
	baseError
	Requested int
	Available int
}

func NewTruncatedDataError(msg string, offset int64, requested, available int) *TruncatedDataError {
	e := &TruncatedDataError{baseError: baseError{Message: msg}, Requested: requested, Available: available}
	e.withOffset(offset)
	e.Ctx = map[string]string{
		"requested": fmt.Sprint(requested),
		"available": fmt.Sprint(available),
	}
	return e
}
func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncatedData: %s (wanted %d, got %d, offset %d)", e.Message, e.Requested, e.Available, e.Offset)
}
func (e *TruncatedDataError) Kind() ErrorKind { return KindTruncatedData }

// InconsistentContainerError: internal offsets or sizes contradict the
// container spec. Reserved for strict mode escalation.
type InconsistentContainerError struct {
	baseError
}

func NewInconsistentContainerError(msg string, offset int64) *InconsistentContainerError {
	e := &InconsistentContainerError{baseError: baseError{Message: msg}}
	e.withOffset(offset)
	return e
}
func (e *InconsistentContainerError) Error() string {
	return fmt.Sprintf("inconsistentContainer: %s (offset %d)", e.Message, e.Offset)
}
func (e *InconsistentContainerError) Kind() ErrorKind { return KindInconsistentContainer }

// InvalidTagPayloadError: tag-vocabulary decode failed where the outer
// format is valid.
type InvalidTagPayloadError struct {
	baseError
	TagKey string
}

func NewInvalidTagPayloadError(msg, tagKey string) *InvalidTagPayloadError {
	return &InvalidTagPayloadError{baseError: baseError{Message: msg}, TagKey: tagKey}
}
func (e *InvalidTagPayloadError) Error() string {
	return fmt.Sprintf("invalidTagPayload: %s (tag %s)", e.Message, e.TagKey)
}
func (e *InvalidTagPayloadError) Kind() ErrorKind { return KindInvalidTagPayload }

// IOFailureError: underlying source raised, or a request violated reader
// bounds.
type IOFailureError struct {
	baseError
}

func NewIOFailureError(msg string, offset int64, cause error) *IOFailureError {
	e := &IOFailureError{baseError: baseError{Message: msg, Cause: cause}}
	e.withOffset(offset)
	return e
}

// NewIOFailureErrorWithContext attaches arbitrary context (e.g. requested
// vs. configured read sizes) to an ioFailure error.
func NewIOFailureErrorWithContext(msg string, offset int64, ctx map[string]string) *IOFailureError {
	e := &IOFailureError{baseError: baseError{Message: msg, Ctx: ctx}}
	e.withOffset(offset)
	return e
}

func (e *IOFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ioFailure: %s (offset %d): %v", e.Message, e.Offset, e.Cause)
	}
	return fmt.Sprintf("ioFailure: %s (offset %d)", e.Message, e.Offset)
}
func (e *IOFailureError) Unwrap() error  { return e.Cause }
func (e *IOFailureError) Kind() ErrorKind { return KindIOFailure }

// InternalInvariantError: a condition that should never occur at runtime.
type InternalInvariantError struct {
	baseError
}

func NewInternalInvariantError(msg string) *InternalInvariantError {
	return &InternalInvariantError{baseError: baseError{Message: msg}}
}
func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internalInvariant: %s", e.Message)
}
func (e *InternalInvariantError) Kind() ErrorKind { return KindInternalInvariant }
