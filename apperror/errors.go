package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NotFound        Kind = "NOT_FOUND"
	Forbidden       Kind = "FORBIDDEN"
	InvalidState    Kind = "INVALID_STATE"
	InvalidFormat   Kind = "INVALID_FORMAT"
	Expired         Kind = "EXPIRED"
	Invalidated     Kind = "INVALIDATED"
	UpstreamFailure Kind = "UPSTREAM_FAILURE"
)

// Error is a classified failure returned by the service layer.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is not classified.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
