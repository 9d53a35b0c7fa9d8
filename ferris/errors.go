package ferris

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ferrischat/ferrisgo/rest"
)

// APIError is an error response from the FerrisChat API. Terminal
// status codes reach callers as these typed errors; transport failures
// stay rest.ClientError values.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.Status)
}

// StatusCode returns the HTTP status the API answered with.
func (e *APIError) StatusCode() int {
	return e.Status
}

// BadRequestError is a 400 response, carrying the reason and, when the
// API reports one, the offending location in the request payload.
type BadRequestError struct {
	APIError
	Reason    string
	Line      int
	Character int
}

func (e *BadRequestError) Error() string {
	if e.Line > 0 || e.Character > 0 {
		return fmt.Sprintf("bad request: %s (line %d, character %d)", e.Reason, e.Line, e.Character)
	}
	return fmt.Sprintf("bad request: %s", e.Reason)
}

// UnauthorizedError is a 401 response.
type UnauthorizedError struct {
	APIError
}

// ForbiddenError is a 403 response.
type ForbiddenError struct {
	APIError
}

// NotFoundError is a 404 response.
type NotFoundError struct {
	APIError
}

// UnavailableError is a terminal 5xx response: FerrisChat stayed
// unavailable past the retry budget.
type UnavailableError struct {
	APIError
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("FerrisChat unavailable: %s (status: %d)", e.Reason, e.Status)
}

// apiErrorFromResponse maps a terminal non-success response to the
// typed error for its status.
func apiErrorFromResponse(resp *rest.Response) error {
	body := string(resp.Body)
	base := APIError{Status: resp.StatusCode, Message: body}

	switch {
	case resp.StatusCode == 400:
		var payload struct {
			Reason   string `json:"reason"`
			Location struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"location"`
		}
		reason := body
		line, character := 0, 0
		if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.Reason != "" {
			reason = payload.Reason
			line = payload.Location.Line
			character = payload.Location.Character
		}
		return &BadRequestError{APIError: base, Reason: reason, Line: line, Character: character}
	case resp.StatusCode == 401:
		return &UnauthorizedError{APIError: base}
	case resp.StatusCode == 403:
		return &ForbiddenError{APIError: base}
	case resp.StatusCode == 404:
		return &NotFoundError{APIError: base}
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		var payload struct {
			Reason string `json:"reason"`
		}
		reason := body
		if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.Reason != "" {
			reason = payload.Reason
		}
		return &UnavailableError{APIError: base, Reason: reason}
	default:
		return &base
	}
}

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// IsForbidden reports whether err is a 403 API error.
func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

// IsUnavailable reports whether err is a terminal 5xx API error.
func IsUnavailable(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}
