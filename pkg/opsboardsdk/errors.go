package opsboardsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrorCodeInvalidRequest           = "invalid_request"
	ErrorCodeInvalidEmail             = "invalid_email"
	ErrorCodeInvalidPassword          = "invalid_password"
	ErrorCodeUnknownRole              = "unknown_role"
	ErrorCodeInvalidToken             = "invalid_token"
	ErrorCodeInvalidCredentials       = "invalid_credentials"
	ErrorCodeForbidden                = "forbidden"
	ErrorCodeNotFound                 = "not_found"
	ErrorCodeExpired                  = "expired"
	ErrorCodeAlreadyAccepted          = "already_accepted"
	ErrorCodeConflict                 = "conflict"
	ErrorCodeInvalidState             = "invalid_state"
	ErrorCodeAccountExists            = "account_exists"
	ErrorCodeTokenGenerationExhausted = "token_generation_exhausted"
	ErrorCodeProvisioningFailed       = "provisioning_failed"
	ErrorCodeProvisioningInconsistent = "provisioning_inconsistent"
	ErrorCodePartialFailure           = "partial_failure"
	ErrorCodeTimeout                  = "timeout"
	ErrorCodeRateLimited              = "rate_limit_exceeded"
	ErrorCodeAlreadyBootstrapped      = "already_bootstrapped"
	ErrorCodeServerError              = "server_error"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.Code == ErrorCodeTimeout || e.Code == ErrorCodeRateLimited || e.StatusCode == http.StatusServiceUnavailable
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: http.StatusText(resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        er.Error,
		Description: er.ErrorDescription,
	}
}
