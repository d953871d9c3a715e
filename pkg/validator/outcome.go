package validator

import (
	"errors"
	"fmt"

	"github.com/Amr-9/KeyRescue/pkg/codec"
)

// Kind identifies which structural rule an input satisfied or failed.
type Kind uint8

const (
	Valid Kind = iota
	InvalidChecksum
	InvalidLength
	InvalidPrefix
	InvalidRange
	InvalidCharacterSet
	InvalidPlaceholder
)

// String returns the outcome kind name.
func (k Kind) String() string {
	switch k {
	case Valid:
		return "valid"
	case InvalidChecksum:
		return "invalid checksum"
	case InvalidLength:
		return "invalid length"
	case InvalidPrefix:
		return "invalid prefix"
	case InvalidRange:
		return "invalid range"
	case InvalidCharacterSet:
		return "invalid character set"
	case InvalidPlaceholder:
		return "invalid placeholder"
	default:
		return "unknown"
	}
}

var (
	// ErrCharset is the sentinel for InvalidCharacterSet outcomes.
	ErrCharset = codec.ErrCharset

	// ErrChecksum is the sentinel for InvalidChecksum outcomes.
	ErrChecksum = codec.ErrChecksum

	// ErrLength is the sentinel for InvalidLength outcomes.
	ErrLength = errors.New("invalid length")

	// ErrPrefix is the sentinel for InvalidPrefix outcomes.
	ErrPrefix = errors.New("invalid prefix")

	// ErrRange is the sentinel for InvalidRange outcomes.
	ErrRange = errors.New("scalar out of range")

	// ErrPlaceholder is the sentinel for InvalidPlaceholder outcomes.
	ErrPlaceholder = errors.New("invalid placeholder")
)

func (k Kind) sentinel() error {
	switch k {
	case InvalidChecksum:
		return ErrChecksum
	case InvalidLength:
		return ErrLength
	case InvalidPrefix:
		return ErrPrefix
	case InvalidRange:
		return ErrRange
	case InvalidCharacterSet:
		return ErrCharset
	case InvalidPlaceholder:
		return ErrPlaceholder
	default:
		return nil
	}
}

// Outcome is the result of a validation. Detail always carries a human
// readable explanation of the concrete reason.
type Outcome struct {
	Kind   Kind
	Detail string
}

// IsValid reports whether the outcome is a success.
func (o Outcome) IsValid() bool {
	return o.Kind == Valid
}

// String returns the kind followed by the explanation.
func (o Outcome) String() string {
	if o.Detail == "" {
		return o.Kind.String()
	}
	return o.Kind.String() + ": " + o.Detail
}

// Err returns nil for valid outcomes and an *Error otherwise.
func (o Outcome) Err() error {
	if o.IsValid() {
		return nil
	}
	return &Error{Kind: o.Kind, Detail: o.Detail}
}

// Error is the error form of a failed Outcome. It unwraps to the sentinel
// of its kind so callers can use errors.Is.
type Error struct {
	Kind   Kind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return Outcome{Kind: e.Kind, Detail: e.Detail}.String()
}

// Unwrap returns the sentinel error for the kind.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// Outcome converts the error back into an Outcome.
func (e *Error) Outcome() Outcome {
	return Outcome{Kind: e.Kind, Detail: e.Detail}
}

func valid(format string, args ...interface{}) Outcome {
	return Outcome{Kind: Valid, Detail: fmt.Sprintf(format, args...)}
}

func invalid(kind Kind, format string, args ...interface{}) Outcome {
	return Outcome{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// OutcomeFromError maps codec and validator errors onto an Outcome. A nil
// error maps to Valid.
func OutcomeFromError(err error) Outcome {
	var verr *Error
	switch {
	case err == nil:
		return Outcome{Kind: Valid}
	case errors.As(err, &verr):
		return verr.Outcome()
	case errors.Is(err, codec.ErrCharset):
		return Outcome{Kind: InvalidCharacterSet, Detail: err.Error()}
	case errors.Is(err, codec.ErrChecksum):
		return Outcome{Kind: InvalidChecksum, Detail: err.Error()}
	default:
		return Outcome{Kind: InvalidLength, Detail: err.Error()}
	}
}
