// Package outcome carries the result of an operation whose expected failures
// (bad input, broken business rules, missing records) are data rather than
// errors. Infrastructure failures are still returned as plain errors next to
// the Result.
package outcome

import (
	"errors"

	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

// Kind classifies a failed Result.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindBusiness   Kind = "business"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
)

type Result[T any] struct {
	Status  bool
	Message string
	Data    T
	Kind    Kind

	// Reason is the domain sentinel behind a failure, for errors.Is checks.
	Reason error
	// Details holds field -> message pairs for validation failures.
	Details map[string]string
	// Extra holds auxiliary data for a failure, e.g. a balance deficit.
	Extra map[string]interface{}
}

func OK[T any](message string, data T) Result[T] {
	return Result[T]{Status: true, Message: message, Data: data}
}

// Fail builds a failed Result whose message is reason's text.
func Fail[T any](kind Kind, reason error) Result[T] {
	return Result[T]{Kind: kind, Message: reason.Error(), Reason: reason}
}

func Business[T any](reason error) Result[T] {
	return Fail[T](KindBusiness, reason)
}

func NotFound[T any](reason error) Result[T] {
	return Fail[T](KindNotFound, reason)
}

func Conflict[T any](reason error) Result[T] {
	return Fail[T](KindConflict, reason)
}

func Forbidden[T any](reason error) Result[T] {
	return Fail[T](KindForbidden, reason)
}

// Invalid turns a validation error into a failed Result. Field details are
// kept when err is a validator.ValidationErrors.
func Invalid[T any](err error) Result[T] {
	r := Fail[T](KindValidation, err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		r.Message = "Validation failed"
		r.Details = verrs.ToMap()
	}
	return r
}

// WithExtra attaches auxiliary data to r.
func (r Result[T]) WithExtra(key string, value interface{}) Result[T] {
	if r.Extra == nil {
		r.Extra = make(map[string]interface{})
	}
	r.Extra[key] = value
	return r
}

// Is reports whether the failure was caused by target.
func (r Result[T]) Is(target error) bool {
	return r.Reason != nil && errors.Is(r.Reason, target)
}

// Cast re-types a failed Result so it can be propagated from an operation
// with a different payload.
func Cast[U, T any](r Result[T]) Result[U] {
	return Result[U]{
		Status:  r.Status,
		Message: r.Message,
		Kind:    r.Kind,
		Reason:  r.Reason,
		Details: r.Details,
		Extra:   r.Extra,
	}
}
