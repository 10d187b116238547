// Package httperr classifies request failures into the kinds the API
// distinguishes, each with a fixed HTTP status.
package httperr

import "net/http"

type Kind int

const (
	KindValidation Kind = iota // missing or invalid input
	KindAuth                   // bad credentials or missing session
	KindConflict               // duplicate email
	KindNotFound               // unknown application identifier
	KindInternal               // everything else
)

// Error is a request failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Internal(msg string) *Error   { return &Error{Kind: KindInternal, Message: msg} }
