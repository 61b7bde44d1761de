package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from an API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

// NewAPIError captures the status and body of a failed response.
func NewAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API error: %s - %s", e.Status, e.Body)
	}
	return fmt.Sprintf("API error: %s", e.Status)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
