package models

import "fmt"

// Error codes used for internal error handling and status mapping.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeMalformedInput = "MALFORMED_INPUT"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// MsgFieldsRequired is returned when url or fields is missing.
const MsgFieldsRequired = "URL and fields are required"

// ErrorResponse is the body of every failed API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ErrInvalidInput reports a missing url or fields parameter.
func ErrInvalidInput() *ScrapeError {
	return NewScrapeError(ErrCodeInvalidInput, MsgFieldsRequired, nil)
}

// ErrMalformedInput reports a fields parameter that is not a valid field map.
func ErrMalformedInput(err error) *ScrapeError {
	return NewScrapeError(ErrCodeMalformedInput, "Invalid JSON: "+err.Error(), err)
}

// ErrFetchFailed reports a non-success response from the target URL.
func ErrFetchFailed(url string, statusCode int) *ScrapeError {
	return NewScrapeError(ErrCodeFetchFailed, "Failed to fetch URL: "+url, fmt.Errorf("status %d", statusCode))
}

// ToResponse converts an internal error to the API-facing body.
func (e *ScrapeError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}
