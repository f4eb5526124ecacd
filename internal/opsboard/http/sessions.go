package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
)

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log In
//	@Description	Exchange an email and password for an EdDSA-signed access token carrying the account's role.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		opsboardsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	opsboardsdk.LoginResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req opsboardsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	session, err := h.SessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, opsboardsdk.ErrorCodeInvalidCredentials, "Invalid email or password")
			return
		}
		writeServiceError(w, r, err, "login")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, opsboardsdk.LoginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(session.ExpiresAt).Seconds()),
		AccountID:   session.AccountID,
		Role:        session.Role,
	})
}
