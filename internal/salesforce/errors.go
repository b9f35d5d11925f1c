package salesforce

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Salesforce REST or Tooling API.
// Salesforce returns error bodies as a JSON array of {message, errorCode}
// objects; the first entry is carried here.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("salesforce: %s: %s (HTTP %d)", e.ErrorCode, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("salesforce: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err indicates that the requested SObject does
// not exist in the org. Salesforce signals this as NOT_FOUND or
// INVALID_TYPE depending on the endpoint; a bare 404 counts too.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode {
	case "NOT_FOUND", "INVALID_TYPE":
		return true
	}
	return apiErr.StatusCode == http.StatusNotFound
}
