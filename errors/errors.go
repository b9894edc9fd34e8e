package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies which pipeline stage an error came from. Handlers map a
// Kind to one HTTP status and one user-visible message; tests assert on the
// Kind rather than on message text.
type Kind string

const (
	KindInvalidURL        Kind = "invalid_url"
	KindNoTranscript      Kind = "no_transcript"
	KindMissingCredential Kind = "missing_credential"
	KindUpstream          Kind = "upstream"
	KindParse             Kind = "parse"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInternal          Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func E(kind Kind, code int, op string, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidURL(op string, err error, message string) *AppError {
	return E(KindInvalidURL, http.StatusBadRequest, op, err, message)
}

func NoTranscript(op string, err error, message string) *AppError {
	return E(KindNoTranscript, http.StatusUnprocessableEntity, op, err, message)
}

func MissingCredential(op string, message string) *AppError {
	return E(KindMissingCredential, http.StatusInternalServerError, op, nil, message)
}

func Upstream(op string, err error, message string) *AppError {
	return E(KindUpstream, http.StatusBadGateway, op, err, message)
}

func Parse(op string, err error, message string) *AppError {
	return E(KindParse, http.StatusBadGateway, op, err, message)
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(KindInvalidInput, http.StatusBadRequest, op, err, message)
}

func NotFound(op string, err error, message string) *AppError {
	return E(KindNotFound, http.StatusNotFound, op, err, message)
}

func Internal(op string, err error, message string) *AppError {
	return E(KindInternal, http.StatusInternalServerError, op, err, message)
}

// KindOf extracts the Kind from an error chain, or KindInternal for
// untyped errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
