package domain

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind tags the closed set of failure variants the service produces.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindUpstream   ErrorKind = "upstream"
)

// Error is the single error shape propagated from the core to the transport
// layer. Upstream failures carry the name of the service that produced them
// in Source; business-rule failures leave it empty.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Details    []string
	MoreInfo   string
	Source     string
}

func (e *Error) Error() string {
	msg := e.MoreInfo
	if msg == "" && len(e.Details) > 0 {
		msg = strings.Join(e.Details, "; ")
	}
	if e.Source != "" {
		return fmt.Sprintf("%s (%d) from %s: %s", e.Kind, e.StatusCode, e.Source, msg)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, msg)
}

func NewValidationError(moreInfo string, details ...string) *Error {
	return &Error{
		Kind:       KindValidation,
		StatusCode: http.StatusBadRequest,
		Details:    details,
		MoreInfo:   moreInfo,
	}
}

func NewConflictError(moreInfo string, details ...string) *Error {
	return &Error{
		Kind:       KindConflict,
		StatusCode: http.StatusConflict,
		Details:    details,
		MoreInfo:   moreInfo,
	}
}

func NewNotFoundError(moreInfo string, details ...string) *Error {
	return &Error{
		Kind:       KindNotFound,
		StatusCode: http.StatusNotFound,
		Details:    details,
		MoreInfo:   moreInfo,
	}
}

func NewUpstreamError(source string, statusCode int, moreInfo string, details ...string) *Error {
	return &Error{
		Kind:       KindUpstream,
		StatusCode: statusCode,
		Details:    details,
		MoreInfo:   moreInfo,
		Source:     source,
	}
}
