package opsboardsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated handle. Session tokens are not refreshed;
// log in again once the token expires.
type Session struct {
	client      *Client
	accessToken string
}

// AccessToken returns the bearer token.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) do(ctx context.Context, method, path string, body, out any, expected int) error {
	return s.client.do(ctx, method, path, s.accessToken, nil, body, out, expected)
}

// IssueInvitation invites someone at a role no more privileged than the
// caller's.
func (s *Session) IssueInvitation(ctx context.Context, req IssueInvitationRequest) (*IssueInvitationResponse, error) {
	var out IssueInvitationResponse
	if err := s.do(ctx, http.MethodPost, "/v1/invitations", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvitations lists invitations, optionally filtered by status.
func (s *Session) ListInvitations(ctx context.Context, status string) ([]Invitation, error) {
	path := "/v1/invitations"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var out ListInvitationsResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Invitations, nil
}

func (s *Session) RevokeInvitation(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodPost, "/v1/invitations/"+url.PathEscape(id)+"/revoke", nil, nil, http.StatusNoContent)
}

// BulkDeleteInvitations deletes each id independently. A partial failure
// still returns the per-id results, with an *APIError of code
// partial_failure.
func (s *Session) BulkDeleteInvitations(ctx context.Context, ids []string) (*BulkDeleteResponse, error) {
	var out BulkDeleteResponse
	if err := s.do(ctx, http.MethodPost, "/v1/invitations/bulk-delete", BulkDeleteRequest{IDs: ids}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if out.Failed > 0 {
		return &out, &APIError{StatusCode: http.StatusOK, Code: ErrorCodePartialFailure}
	}
	return &out, nil
}

// CleanupInvitations deletes expired pending invitations.
func (s *Session) CleanupInvitations(ctx context.Context) (int64, error) {
	var out CleanupResponse
	if err := s.do(ctx, http.MethodPost, "/v1/invitations/cleanup", nil, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

func (s *Session) Roles(ctx context.Context) ([]Role, error) {
	var out RolesResponse
	if err := s.do(ctx, http.MethodGet, "/v1/roles", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

// Navigation returns the items visible to role, or to the caller's own
// role when role is empty.
func (s *Session) Navigation(ctx context.Context, role string) (*NavigationResponse, error) {
	path := "/v1/navigation"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}

	var out NavigationResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) FeatureAccess(ctx context.Context, role, feature string) (bool, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	q.Set("feature", feature)

	var out FeatureAccessResponse
	if err := s.do(ctx, http.MethodGet, "/v1/feature-access?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Allowed, nil
}

func (s *Session) QuickActions(ctx context.Context) (*QuickActionsResponse, error) {
	var out QuickActionsResponse
	if err := s.do(ctx, http.MethodGet, "/v1/quick-actions", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RouteCheck asks whether the caller may navigate to path.
func (s *Session) RouteCheck(ctx context.Context, path string) (*RouteCheckResponse, error) {
	var out RouteCheckResponse
	if err := s.do(ctx, http.MethodPost, "/v1/route-check", RouteCheckRequest{Path: path}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
