package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNoProject     = errors.New("no project loaded")
	ErrLayerNotFound = errors.New("layer not found")
	ErrNoSession     = errors.New("no active session")
)

// Machine codes carried in APIError.Code.
const (
	CodeNetworkError    = "NETWORK_ERROR"
	CodeUnknownError    = "UNKNOWN_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// ValidationError is raised locally before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// APIError is the normalized failure of a remote call. Status 0 means the
// request never got an HTTP response.
type APIError struct {
	Message   string
	Code      string
	Status    int
	Timestamp time.Time
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func NewNetworkError(err error) *APIError {
	return &APIError{
		Message:   fmt.Sprintf("network error: %v", err),
		Code:      CodeNetworkError,
		Status:    0,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidResponseError reports a success response the client could not
// use. It carries 502 because the upstream answered but not usefully.
func NewInvalidResponseError(format string, args ...interface{}) *APIError {
	return &APIError{
		Message:   fmt.Sprintf(format, args...),
		Code:      CodeInvalidResponse,
		Status:    http.StatusBadGateway,
		Timestamp: time.Now().UTC(),
	}
}

func (e *APIError) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func (e *APIError) IsValidationError() bool { return e.Status == http.StatusBadRequest }
func (e *APIError) IsNotFoundError() bool   { return e.Status == http.StatusNotFound }
func (e *APIError) IsServerError() bool     { return e.Status >= http.StatusInternalServerError }
func (e *APIError) IsNetworkError() bool    { return e.Status == 0 }

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNetwork
	KindAuth
	KindNotFound
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Classify sorts any error returned by the editor into the error taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	if errors.Is(err, ErrLayerNotFound) || errors.Is(err, ErrNoProject) {
		return KindNotFound
	}
	if errors.Is(err, ErrNoSession) {
		return KindAuth
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNetworkError():
			return KindNetwork
		case apiErr.IsAuthError():
			return KindAuth
		case apiErr.IsValidationError():
			return KindValidation
		case apiErr.IsNotFoundError():
			return KindNotFound
		case apiErr.IsServerError():
			return KindServer
		}
	}
	return KindUnknown
}

// HTTPStatus picks the status code used when an editor error is returned
// through the HTTP surface.
func HTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	switch Classify(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
