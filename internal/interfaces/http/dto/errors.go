package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/popstats/backend/internal/domain/shared"
)

// API error codes. Domain codes are prefixed with ERR_ on the wire.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeUnavailable  = "ERR_UNAVAILABLE"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeTimeout      = "ERR_TIMEOUT"
)

type apiCode struct {
	code   string
	status int
}

var domainCodes = map[string]apiCode{
	"NOT_FOUND":      {ErrCodeNotFound, http.StatusNotFound},
	"INVALID_INPUT":  {ErrCodeInvalidInput, http.StatusBadRequest},
	"UNAVAILABLE":    {ErrCodeUnavailable, http.StatusServiceUnavailable},
	"INTERNAL_ERROR": {ErrCodeInternal, http.StatusInternalServerError},
}

var apiStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeUnavailable:  http.StatusServiceUnavailable,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeTimeout:      http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the status for an API or domain code, 500 when unknown
func GetHTTPStatus(code string) int {
	if c, ok := domainCodes[code]; ok {
		return c.status
	}
	if status, ok := apiStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode maps a domain code to its API code. Other codes pass through.
func NormalizeErrorCode(code string) string {
	if c, ok := domainCodes[code]; ok {
		return c.code
	}
	return code
}

// Classify turns an aggregation error into a status and an error body.
// A domain error keeps its code and message, an expired deadline is a 504 and
// any other failure means the location store or a source could not be read.
func Classify(err error) (int, ErrorInfo) {
	var de *shared.DomainError
	switch {
	case errors.As(err, &de):
		code := NormalizeErrorCode(de.Code)
		return GetHTTPStatus(code), ErrorInfo{Code: code, Message: de.Message}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorInfo{Code: ErrCodeTimeout, Message: "Request timed out"}
	default:
		return http.StatusServiceUnavailable, ErrorInfo{Code: ErrCodeUnavailable, Message: shared.ErrUnavailable.Message}
	}
}
