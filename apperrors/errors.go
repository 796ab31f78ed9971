// Package apperrors defines the closed error taxonomy shared by the store,
// generation and service layers. Every caller-facing failure maps to one of
// these kinds and its stable code. Cache degradation has no kind here; it
// never escapes the cache boundary.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and retry semantics.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: entity or parent missing, or not owned by the caller.
	KindNotFound
	// KindValidation: malformed input to a mutation. Safe to retry after fixing input.
	KindValidation
	// KindGenerationInvalid: AI output failed structural validation, or the
	// provider call itself failed before any persistence. Safe to retry.
	KindGenerationInvalid
	// KindGenerationTimeout: the AI provider exceeded its call budget. Safe to retry.
	KindGenerationTimeout
	// KindStore: transactional store failure, surfaced verbatim, never retried here.
	KindStore
)

// Code returns the stable wire code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindGenerationInvalid:
		return "GENERATION_INVALID"
	case KindGenerationTimeout:
		return "GENERATION_TIMEOUT"
	case KindStore:
		return "STORE_ERROR"
	}
	return "UNKNOWN"
}

// Error carries a kind, a human message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundf reports a missing or unowned entity.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Validation wraps an input-validation failure.
func Validation(err error) error {
	return &Error{Kind: KindValidation, Msg: "invalid input", Err: err}
}

// GenerationInvalid wraps a provider response that failed parsing or
// structural validation, or a pre-persist provider failure.
func GenerationInvalid(msg string, err error) error {
	return &Error{Kind: KindGenerationInvalid, Msg: msg, Err: err}
}

// GenerationTimeout wraps an AI provider call that exceeded its budget.
func GenerationTimeout(err error) error {
	return &Error{Kind: KindGenerationTimeout, Msg: "ai provider call timed out", Err: err}
}

// Store wraps a transactional store failure.
func Store(err error) error {
	return &Error{Kind: KindStore, Msg: "store operation failed", Err: err}
}

// Storef wraps a transactional store failure with context about the operation.
func Storef(err error, format string, args ...any) error {
	return &Error{Kind: KindStore, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsStore(err error) bool      { return KindOf(err) == KindStore }
