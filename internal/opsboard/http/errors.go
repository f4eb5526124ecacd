package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
)

// writeServiceError maps a service error to its HTTP status and error code.
// Unrecognised errors are logged and reported as server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrTimeout):
		w.Header().Set("Retry-After", "1")
		httpx.WriteError(w, http.StatusServiceUnavailable, opsboardsdk.ErrorCodeTimeout, "Upstream store timed out, retry the request")
	case errors.Is(err, service.ErrProvisioningInconsistent):
		log.Error(op+" left inconsistent account state", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, opsboardsdk.ErrorCodeProvisioningInconsistent, "Account provisioning failed and needs operator attention")
	case errors.Is(err, service.ErrProvisioningFailure) && errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, opsboardsdk.ErrorCodeAccountExists, "An account already exists for this email")
	case errors.Is(err, service.ErrProvisioningFailure):
		log.Error(op+" failed to provision account", slog.Any("error", err))
		httpx.WriteError(w, http.StatusBadGateway, opsboardsdk.ErrorCodeProvisioningFailed, "Account provisioning failed")
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidEmail, "Invalid email address")
	case errors.Is(err, service.ErrInvalidPassword):
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidPassword, "Password is too short")
	case errors.Is(err, service.ErrUnknownRole):
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeUnknownRole, "Unknown role")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, opsboardsdk.ErrorCodeForbidden, "Not permitted to perform this action")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, opsboardsdk.ErrorCodeNotFound, "Invitation not found")
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusGone, opsboardsdk.ErrorCodeExpired, "Invitation has expired")
	case errors.Is(err, service.ErrAlreadyAccepted):
		httpx.WriteError(w, http.StatusConflict, opsboardsdk.ErrorCodeAlreadyAccepted, "Invitation has already been accepted")
	case errors.Is(err, service.ErrInvalidState):
		httpx.WriteError(w, http.StatusConflict, opsboardsdk.ErrorCodeInvalidState, "Invitation is no longer pending")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, opsboardsdk.ErrorCodeConflict, "Invitation was modified concurrently")
	case errors.Is(err, service.ErrTokenGenerationExhausted):
		httpx.WriteError(w, http.StatusServiceUnavailable, opsboardsdk.ErrorCodeTokenGenerationExhausted, "Could not generate a unique invitation token")
	default:
		log.Error(op+" failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, opsboardsdk.ErrorCodeServerError, "Internal server error")
	}
}

// errorCode returns the error code writeServiceError would use, for
// per-item results.
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return opsboardsdk.ErrorCodeNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return opsboardsdk.ErrorCodeForbidden
	case errors.Is(err, service.ErrTimeout):
		return opsboardsdk.ErrorCodeTimeout
	default:
		return opsboardsdk.ErrorCodeServerError
	}
}
