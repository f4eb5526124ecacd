package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP godoc
//
//	@Summary		Bootstrap
//	@Description	Create the first super admin account. Requires the configured X-Bootstrap-Token and only works while no account exists.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		opsboardsdk.BootstrapRequest	true	"Super admin account"
//	@Success		201					{object}	opsboardsdk.BootstrapResponse	"account_id, role"
//	@Failure		400					{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Failure		401					{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Failure		409					{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req opsboardsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	account, err := h.BootstrapService.Bootstrap(r.Context(), r.Header.Get("X-Bootstrap-Token"), service.BootstrapData{
		Email:    req.Email,
		Password: req.Password,
		Profile:  domain.ProfileFields{FullName: req.FullName},
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			httpx.WriteError(w, http.StatusNotFound, opsboardsdk.ErrorCodeNotFound, "Bootstrap is disabled")
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteError(w, http.StatusUnauthorized, opsboardsdk.ErrorCodeInvalidToken, "Invalid bootstrap token")
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteError(w, http.StatusConflict, opsboardsdk.ErrorCodeAlreadyBootstrapped, "System already bootstrapped")
		default:
			writeServiceError(w, r, err, "bootstrap")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, opsboardsdk.BootstrapResponse{
		AccountID: account.ID,
		Role:      account.Role,
	})
}
