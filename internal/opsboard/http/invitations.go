package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

func principal(r *http.Request) domain.Principal {
	return domain.Principal{
		ID:   httpx.UserIDFromContext(r.Context()),
		Role: httpx.RoleFromContext(r.Context()),
	}
}

// HandleIssue godoc
//
//	@Summary		Issue Invitation
//	@Description	Issue a single-use invitation for a new account at the given role. The raw token is only returned here.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		opsboardsdk.IssueInvitationRequest	true	"Invitation request"
//	@Success		201		{object}	opsboardsdk.IssueInvitationResponse	"id, token, expires_at"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Failure		503		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req opsboardsdk.IssueInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Role == "" {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "email and role are required")
		return
	}

	issued, err := h.InvitationService.Issue(r.Context(), service.IssueRequest{
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	}, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "issue invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, opsboardsdk.IssueInvitationResponse{
		ID:        issued.Invitation.ID,
		Token:     issued.Token,
		ExpiresAt: issued.Invitation.ExpiresAt.Unix(),
	})
}

// HandleGetByToken godoc
//
//	@Summary		View Invitation
//	@Description	Public view of a pending invitation for the acceptance form. Unknown and expired tokens both return 404.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string						true	"Invitation token"
//	@Success		200		{object}	opsboardsdk.InvitationView	"email, role, department, expires_at"
//	@Failure		404		{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/{token} [get].
func (h *InvitationsHandler) HandleGetByToken(w http.ResponseWriter, r *http.Request) {
	view, err := h.InvitationService.GetByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, service.ErrExpired) {
			httpx.WriteError(w, http.StatusNotFound, opsboardsdk.ErrorCodeExpired, "Invitation has expired")
			return
		}
		writeServiceError(w, r, err, "get invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, opsboardsdk.InvitationView{
		Email:      view.Email,
		Role:       view.Role,
		Department: view.Department,
		ExpiresAt:  view.ExpiresAt.Unix(),
	})
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation
//	@Description	Accept an invitation and provision the account. Exactly one of any concurrent accepts for a token succeeds.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		opsboardsdk.AcceptInvitationRequest		true	"Acceptance"
//	@Success		201		{object}	opsboardsdk.AcceptInvitationResponse	"account_id"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	opsboardsdk.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	opsboardsdk.ErrorResponse				"error, error_description"
//	@Failure		410		{object}	opsboardsdk.ErrorResponse				"error, error_description"
//	@Failure		503		{object}	opsboardsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req opsboardsdk.AcceptInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "token is required")
		return
	}

	account, err := h.InvitationService.Accept(r.Context(), service.AcceptRequest{
		Token:    req.Token,
		Password: req.Password,
		Profile: domain.ProfileFields{
			FullName: req.FullName,
			Phone:    req.Phone,
			Location: req.Location,
		},
	})
	if err != nil {
		writeServiceError(w, r, err, "accept invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, opsboardsdk.AcceptInvitationResponse{AccountID: account.ID})
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List invitations. Administrators see all invitations, managers only those they issued.
//	@Tags			Invitations
//	@Produce		json
//	@Param			status	query		string								false	"pending, accepted, expired or revoked"
//	@Success		200		{object}	opsboardsdk.ListInvitationsResponse	"invitations"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := domain.InvitationStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	invs, err := h.InvitationService.List(r.Context(), status, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list invitations")
		return
	}

	out := opsboardsdk.ListInvitationsResponse{Invitations: make([]opsboardsdk.Invitation, 0, len(invs))}
	for _, inv := range invs {
		item := opsboardsdk.Invitation{
			ID:         inv.ID,
			Email:      inv.Email,
			Role:       inv.Role,
			Department: inv.Department,
			Status:     string(inv.Status),
			IssuedAt:   inv.IssuedAt.Unix(),
			ExpiresAt:  inv.ExpiresAt.Unix(),
			InvitedBy:  inv.InvitedBy,
			AccountID:  inv.AccountID,
		}
		if inv.AcceptedAt != nil {
			item.AcceptedAt = inv.AcceptedAt.Unix()
		}
		out.Invitations = append(out.Invitations, item)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invitation
//	@Description	Revoke a pending invitation. Only the inviter or an administrator may revoke.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204
//	@Failure		403	{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.InvitationService.Revoke(r.Context(), r.PathValue("id"), principal(r)); err != nil {
		writeServiceError(w, r, err, "revoke invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkDelete godoc
//
//	@Summary		Bulk Delete Invitations
//	@Description	Delete each listed invitation independently. Results are returned per id in request order; failed counts the ids that were not deleted.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		opsboardsdk.BulkDeleteRequest	true	"Invitation IDs"
//	@Success		200		{object}	opsboardsdk.BulkDeleteResponse	"results, failed"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/bulk-delete [post].
func (h *InvitationsHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req opsboardsdk.BulkDeleteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "ids is required")
		return
	}

	result := h.InvitationService.BulkDelete(r.Context(), req.IDs, principal(r))

	out := opsboardsdk.BulkDeleteResponse{
		Results: make([]opsboardsdk.BulkDeleteResult, 0, len(result.Items)),
		Failed:  result.Failed(),
	}
	for _, item := range result.Items {
		res := opsboardsdk.BulkDeleteResult{ID: item.ID, OK: item.OK}
		if item.Err != nil {
			res.Error = errorCode(item.Err)
			if res.Error == opsboardsdk.ErrorCodeServerError {
				log.Error("bulk delete item failed", "id", item.ID, "error", item.Err)
			}
		}
		out.Results = append(out.Results, res)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCleanup godoc
//
//	@Summary		Clean Up Expired Invitations
//	@Description	Delete pending invitations past their expiry. Accepted and revoked invitations are kept.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	opsboardsdk.CleanupResponse	"deleted_count"
//	@Failure		403	{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/cleanup [post].
func (h *InvitationsHandler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := h.InvitationService.CleanupExpired(r.Context(), h.now())
	if err != nil {
		writeServiceError(w, r, err, "cleanup invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, opsboardsdk.CleanupResponse{DeletedCount: n})
}

func (h *InvitationsHandler) now() time.Time {
	if h.InvitationService.Now != nil {
		return h.InvitationService.Now()
	}
	return time.Now().UTC()
}
