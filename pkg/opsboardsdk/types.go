package opsboardsdk

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a machine readable code, see the ErrorCode constants.
	Error string `json:"error"`

	// ErrorDescription is a human readable description of the error.
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Bootstrap and sessions
// ============================================================================

// BootstrapRequest creates the first super admin account.
type BootstrapRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type BootstrapResponse struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries a bearer token for the authenticated routes.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	AccountID   string `json:"account_id"`
	Role        string `json:"role"`
}

// ============================================================================
// Invitations
// ============================================================================

type IssueInvitationRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// IssueInvitationResponse holds the raw invitation token. It is only ever
// returned here; the server keeps a fingerprint.
type IssueInvitationResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// InvitationView is what the holder of a token may see before accepting.
type InvitationView struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	ExpiresAt  int64  `json:"expires_at"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type AcceptInvitationResponse struct {
	AccountID string `json:"account_id"`
}

// Invitation is a listed invitation. Status is one of pending, accepted,
// expired or revoked.
type Invitation struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status"`
	IssuedAt   int64  `json:"issued_at"`
	ExpiresAt  int64  `json:"expires_at"`
	InvitedBy  string `json:"invited_by"`
	AcceptedAt int64  `json:"accepted_at,omitempty"`
	AccountID  string `json:"account_id,omitempty"`
}

type ListInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResult is the outcome for one id, in request order.
type BulkDeleteResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type BulkDeleteResponse struct {
	Results []BulkDeleteResult `json:"results"`
	Failed  int                `json:"failed"`
}

type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ============================================================================
// Access
// ============================================================================

type Role struct {
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Description string `json:"description,omitempty"`
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

type NavigationItem struct {
	Key      string `json:"key"`
	Path     string `json:"path"`
	Label    string `json:"label"`
	Feature  string `json:"feature,omitempty"`
	Role     string `json:"role,omitempty"`
	MinLevel int    `json:"min_level,omitempty"`
}

type NavigationResponse struct {
	Role        string           `json:"role"`
	LandingPath string           `json:"landing_path"`
	Items       []NavigationItem `json:"items"`
}

type FeatureAccessResponse struct {
	Role    string `json:"role"`
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
}

type QuickAction struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

type QuickActionsResponse struct {
	Role    string        `json:"role"`
	Actions []QuickAction `json:"actions"`
}

type RouteCheckRequest struct {
	Path string `json:"path"`
}

// RouteCheckResponse is the final guard state for a navigation: authorized,
// denied or redirecting.
type RouteCheckResponse struct {
	Path       string `json:"path"`
	State      string `json:"state"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
