package jira

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx answer from the ticketing API. The status class
// matters to callers: it drives the guidance shown for failed submissions.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ticketing api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("ticketing api: status %d: %s", e.Code, e.Body)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsUnauthorized(err error) bool {
	c := statusCode(err)
	return c == http.StatusUnauthorized || c == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

func IsBadRequest(err error) bool {
	return statusCode(err) == http.StatusBadRequest
}
