package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid response from server")
)

var errNoToken = errors.New("no authentication token found, please log in again")

// APIError is a failed call to the content API, normalized.
//
// Status is 0 when no HTTP response was received. Msg and ServerMessage
// carry the body's "msg" and "message" fields. Kind is one of the sentinel
// errors above (or nil) so callers can branch with errors.Is; Cause is the
// transport error, if any.
type APIError struct {
	Status        int
	Msg           string
	ServerMessage string
	Kind          error
	Cause         error
}

func (e *APIError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.ServerMessage != "":
		return e.ServerMessage
	case e.Cause != nil:
		return e.Cause.Error()
	case e.Status != 0:
		return fmt.Sprintf("request failed with status %d", e.Status)
	default:
		return "request failed"
	}
}

func (e *APIError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// kindForStatus maps an HTTP status to a sentinel.
func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

// Message turns any error into the single line shown to the user.
// Precedence: server "msg", server "message", transport error text, then
// fallback. Errors that are not API errors contribute their own text.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Msg != "":
			return apiErr.Msg
		case apiErr.ServerMessage != "":
			return apiErr.ServerMessage
		case apiErr.Cause != nil && apiErr.Cause.Error() != "":
			return apiErr.Cause.Error()
		default:
			return fallback
		}
	}

	if text := err.Error(); text != "" {
		return text
	}
	return fallback
}

// StatusCode reports the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
