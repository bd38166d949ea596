package items

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidDateMessage is the error text returned for malformed item dates.
const InvalidDateMessage = "Date must be in dd-mm-yyyy format"

var (
	// ErrNotFound matches any *APIError carrying a 404 status.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidDate is returned by Draft.Validate.
	ErrInvalidDate = errors.New(InvalidDateMessage)
)

// APIError is a non-2xx response from the item API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // the body's "error" field, possibly empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
