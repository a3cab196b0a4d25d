// Package apierror defines the error kinds surfaced by the HTTP API and the
// echo error handler that renders them as {"error": message}.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind classifies an API error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInternal
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a client-facing failure. Message is returned verbatim to the
// caller; Err, when set, is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict wraps the storage error that caused the conflict, if any.
func Conflict(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

// Internal reports a server-side failure with a fixed client message; cause
// is only logged.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// Validationf formats a validation message.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// InvalidField reports a malformed value, e.g. "Invalid patient_id".
func InvalidField(field string) *Error {
	return Validation("Invalid " + field)
}

// InvalidEnum builds the message used for every enumerated field, e.g.
// "Invalid status. Must be one of: booked, confirmed".
func InvalidEnum(field string, values []string) *Error {
	return Validationf("Invalid %s. Must be one of: %s", field, strings.Join(values, ", "))
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

const redactedMessage = "internal server error"

// Resolve returns the status code and client message for err. Anything that
// is neither an *Error nor an *echo.HTTPError is treated as a storage failure.
func Resolve(err error, redact bool) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind.Status(), apiErr.Message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
		default:
			msg = fmt.Sprint(m)
		}
		if he.Code >= http.StatusInternalServerError && redact {
			msg = redactedMessage
		}
		return he.Code, msg
	}

	if redact {
		return http.StatusInternalServerError, redactedMessage
	}
	return http.StatusInternalServerError, err.Error()
}

// Handler returns the echo.HTTPErrorHandler used by the server. Server-side
// failures are logged with the request id.
func Handler(logger zerolog.Logger, redact bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := Resolve(err, redact)
		if status >= http.StatusInternalServerError {
			reqID, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, map[string]string{"error": msg})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
