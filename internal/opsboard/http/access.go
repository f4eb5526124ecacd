package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/routeguard"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
)

// AccessHandler serves role, navigation and route decisions.
type AccessHandler struct {
	Access    *access.Resolver
	LoginPath string

	// AdminLevel is the role level that may query on behalf of other roles.
	AdminLevel int
}

// targetRole returns the role named by ?role=, defaulting to the caller's.
// Only administrative roles may ask about a role other than their own.
func (h *AccessHandler) targetRole(w http.ResponseWriter, r *http.Request) (string, bool) {
	own := httpx.RoleFromContext(r.Context())
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	if role == "" || role == own {
		return own, true
	}
	if !h.Access.HasRoleLevel(own, h.adminLevel()) {
		httpx.WriteError(w, http.StatusForbidden, opsboardsdk.ErrorCodeForbidden, "Not permitted to query other roles")
		return "", false
	}
	return role, true
}

func (h *AccessHandler) adminLevel() int {
	if h.AdminLevel > 0 {
		return h.AdminLevel
	}
	return 2
}

// HandleRoles godoc
//
//	@Summary		List Roles
//	@Description	The role catalog, most privileged first.
//	@Tags			Access
//	@Produce		json
//	@Success		200	{object}	opsboardsdk.RolesResponse	"roles"
//	@Failure		401	{object}	opsboardsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/roles [get].
func (h *AccessHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.Access.Catalog().Roles()
	out := opsboardsdk.RolesResponse{Roles: make([]opsboardsdk.Role, 0, len(roles))}
	for _, role := range roles {
		out.Roles = append(out.Roles, opsboardsdk.Role{
			Name:        string(role.Name),
			Level:       role.Level,
			Description: role.Description,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleNavigation godoc
//
//	@Summary		Navigation
//	@Description	Navigation items visible to a role, in display order. Defaults to the caller's role.
//	@Tags			Access
//	@Produce		json
//	@Param			role	query		string							false	"Role name"
//	@Success		200		{object}	opsboardsdk.NavigationResponse	"role, landing_path, items"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/navigation [get].
func (h *AccessHandler) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	role, ok := h.targetRole(w, r)
	if !ok {
		return
	}
	if _, known := h.Access.Catalog().GetRole(role); !known {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeUnknownRole, "Unknown role")
		return
	}

	items := h.Access.VisibleNavigation(role)
	out := opsboardsdk.NavigationResponse{
		Role:        role,
		LandingPath: h.Access.LandingPath(role),
		Items:       make([]opsboardsdk.NavigationItem, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, opsboardsdk.NavigationItem{
			Key:      string(item.Key),
			Path:     item.Path,
			Label:    item.Label,
			Feature:  string(item.Feature),
			Role:     string(item.Role),
			MinLevel: item.MinLevel,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleFeatureAccess godoc
//
//	@Summary		Feature Access
//	@Description	Whether a role may use a feature. Unknown roles and features are denied.
//	@Tags			Access
//	@Produce		json
//	@Param			role	query		string								false	"Role name"
//	@Param			feature	query		string								true	"Feature key"
//	@Success		200		{object}	opsboardsdk.FeatureAccessResponse	"role, feature, allowed"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	opsboardsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/feature-access [get].
func (h *AccessHandler) HandleFeatureAccess(w http.ResponseWriter, r *http.Request) {
	feature := strings.TrimSpace(r.URL.Query().Get("feature"))
	if feature == "" {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "feature is required")
		return
	}
	role, ok := h.targetRole(w, r)
	if !ok {
		return
	}

	httpx.WriteJSON(w, http.StatusOK, opsboardsdk.FeatureAccessResponse{
		Role:    role,
		Feature: feature,
		Allowed: h.Access.HasFeatureAccess(role, access.Feature(feature)),
	})
}

// HandleQuickActions godoc
//
//	@Summary		Quick Actions
//	@Description	Dashboard shortcuts for the caller's role.
//	@Tags			Access
//	@Produce		json
//	@Success		200	{object}	opsboardsdk.QuickActionsResponse	"role, actions"
//	@Security		BearerAuth
//	@Router			/v1/quick-actions [get].
func (h *AccessHandler) HandleQuickActions(w http.ResponseWriter, r *http.Request) {
	role := httpx.RoleFromContext(r.Context())
	actions := h.Access.QuickActions(role)

	out := opsboardsdk.QuickActionsResponse{Role: role, Actions: make([]opsboardsdk.QuickAction, 0, len(actions))}
	for _, a := range actions {
		out.Actions = append(out.Actions, opsboardsdk.QuickAction{Key: a.Key, Label: a.Label, Path: a.Path})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRouteCheck godoc
//
//	@Summary		Route Check
//	@Description	Run the route guard for a navigation to path. Works without a token, in which case the caller is treated as signed out.
//	@Tags			Access
//	@Accept			json
//	@Produce		json
//	@Param			request	body		opsboardsdk.RouteCheckRequest	true	"Target path"
//	@Success		200		{object}	opsboardsdk.RouteCheckResponse	"path, state, redirect_to"
//	@Failure		400		{object}	opsboardsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/route-check [post].
func (h *AccessHandler) HandleRouteCheck(w http.ResponseWriter, r *http.Request) {
	var req opsboardsdk.RouteCheckRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if !strings.HasPrefix(req.Path, "/") {
		httpx.WriteError(w, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest, "path must start with /")
		return
	}

	guard := &routeguard.Guard{
		Access:     h.Access,
		Principals: routeguard.Static(principal(r)),
		LoginPath:  h.LoginPath,
	}
	defer guard.Close()

	decision, err := guard.Navigate(r.Context(), req.Path)
	if err != nil {
		writeServiceError(w, r, err, "route check")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, opsboardsdk.RouteCheckResponse{
		Path:       req.Path,
		State:      string(decision.State),
		RedirectTo: decision.RedirectTo,
	})
}
