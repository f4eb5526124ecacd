package http_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	httpapi "github.com/aussiebroadwan/opsboard/internal/opsboard/http"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/jwtx"
	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "opsboard-test"
	testAudience = "opsboard"
)

var generous = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

type testServer struct {
	t       *testing.T
	handler http.Handler
	store   store.Store
	signer  jwtx.Signer
	now     time.Time
	svc     *service.InvitationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-kid", priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, testIssuer, []string{testAudience})

	ts := &testServer{t: t, store: st, signer: signer, now: time.Now().UTC()}

	resolver := access.NewResolver(access.DefaultMatrix())
	provisioner := &service.Provisioner{Identities: st.Identities(), Profiles: st.Profiles()}
	ts.svc = &service.InvitationService{
		Store:       st,
		Access:      resolver,
		Provisioner: provisioner,
		Now:         func() time.Time { return ts.now },
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter(keys, verifier, "test", st, logger)
	router.Access = resolver
	router.InvitationService = ts.svc
	router.SessionService = &service.SessionService{
		Store:    st,
		Signer:   signer,
		Issuer:   testIssuer,
		Audience: []string{testAudience},
	}
	router.BootstrapService = &service.BootstrapService{
		Store:       st,
		Provisioner: provisioner,
		Token:       "bootstrap-secret",
	}
	router.StrictLimit = generous
	router.ModerateLimit = generous
	router.LenientLimit = generous
	router.ApplyRoutes()

	ts.handler = router
	return ts
}

// token mints a session token without going through login.
func (ts *testServer) token(subject, role string) string {
	ts.t.Helper()
	claims := jwtx.NewSessionClaims(subject, role, subject+"@example.com", "", time.Hour, testIssuer, []string{testAudience}, time.Now())
	tok, err := ts.signer.Sign(claims)
	require.NoError(ts.t, err)
	return tok
}

func (ts *testServer) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Equal(t, code, decode[opsboardsdk.ErrorResponse](t, rec).Error)
}

func (ts *testServer) issue(bearer, email, role string) opsboardsdk.IssueInvitationResponse {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/v1/invitations", bearer, opsboardsdk.IssueInvitationRequest{Email: email, Role: role})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[opsboardsdk.IssueInvitationResponse](ts.t, rec)
}

func acceptBody(token string) opsboardsdk.AcceptInvitationRequest {
	return opsboardsdk.AcceptInvitationRequest{Token: token, Password: "correct-horse", FullName: "Jo Bloggs"}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = ts.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[opsboardsdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
}

func TestInvitationFlow(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token("admin-1", "admin")

	issued := ts.issue(admin, "casey@example.com", "accountant")
	require.NotEmpty(t, issued.Token)

	rec := ts.do(http.MethodGet, "/v1/invitations/"+issued.Token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[opsboardsdk.InvitationView](t, rec)
	require.Equal(t, "casey@example.com", view.Email)
	require.Equal(t, "accountant", view.Role)
	require.Equal(t, issued.ExpiresAt, view.ExpiresAt)

	rec = ts.do(http.MethodPost, "/v1/invitations/accept", "", acceptBody(issued.Token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	accepted := decode[opsboardsdk.AcceptInvitationResponse](t, rec)
	require.NotEmpty(t, accepted.AccountID)

	rec = ts.do(http.MethodPost, "/v1/invitations/accept", "", acceptBody(issued.Token))
	requireError(t, rec, http.StatusConflict, opsboardsdk.ErrorCodeAlreadyAccepted)

	// The new account can log in with its invited role.
	rec = ts.do(http.MethodPost, "/v1/sessions", "", opsboardsdk.LoginRequest{Email: "casey@example.com", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[opsboardsdk.LoginResponse](t, rec)
	require.Equal(t, "accountant", login.Role)
	require.Equal(t, "Bearer", login.TokenType)

	rec = ts.do(http.MethodGet, "/v1/quick-actions", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "accountant", decode[opsboardsdk.QuickActionsResponse](t, rec).Role)
}

func TestIssueErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/v1/invitations", "", opsboardsdk.IssueInvitationRequest{Email: "a@example.com", Role: "employee"})
	requireError(t, rec, http.StatusUnauthorized, "invalid_token")

	employee := ts.token("emp-1", "employee")
	rec = ts.do(http.MethodPost, "/v1/invitations", employee, opsboardsdk.IssueInvitationRequest{Email: "a@example.com", Role: "employee"})
	requireError(t, rec, http.StatusForbidden, opsboardsdk.ErrorCodeForbidden)

	admin := ts.token("admin-1", "admin")
	rec = ts.do(http.MethodPost, "/v1/invitations", admin, opsboardsdk.IssueInvitationRequest{Email: "a@example.com", Role: "janitor"})
	requireError(t, rec, http.StatusBadRequest, opsboardsdk.ErrorCodeUnknownRole)

	rec = ts.do(http.MethodPost, "/v1/invitations", admin, opsboardsdk.IssueInvitationRequest{Email: "nope", Role: "employee"})
	requireError(t, rec, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidEmail)

	rec = ts.do(http.MethodPost, "/v1/invitations", admin, map[string]string{"email": "a@example.com", "role": "employee", "extra": "x"})
	requireError(t, rec, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)
}

func TestGetByTokenExpiredIs404(t *testing.T) {
	ts := newTestServer(t)
	issued := ts.issue(ts.token("admin-1", "admin"), "late@example.com", "employee")

	ts.now = ts.now.Add(8 * 24 * time.Hour)

	rec := ts.do(http.MethodGet, "/v1/invitations/"+issued.Token, "", nil)
	requireError(t, rec, http.StatusNotFound, opsboardsdk.ErrorCodeExpired)

	rec = ts.do(http.MethodGet, "/v1/invitations/does-not-exist", "", nil)
	requireError(t, rec, http.StatusNotFound, opsboardsdk.ErrorCodeNotFound)

	rec = ts.do(http.MethodPost, "/v1/invitations/accept", "", acceptBody(issued.Token))
	requireError(t, rec, http.StatusGone, opsboardsdk.ErrorCodeExpired)
}

func TestAcceptValidation(t *testing.T) {
	ts := newTestServer(t)
	issued := ts.issue(ts.token("admin-1", "admin"), "jo@example.com", "employee")

	body := acceptBody(issued.Token)
	body.Password = "short"
	requireError(t, ts.do(http.MethodPost, "/v1/invitations/accept", "", body), http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidPassword)

	body = acceptBody(issued.Token)
	body.FullName = ""
	requireError(t, ts.do(http.MethodPost, "/v1/invitations/accept", "", body), http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)

	requireError(t, ts.do(http.MethodPost, "/v1/invitations/accept", "", acceptBody("")), http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)
}

func TestRevokeAndList(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token("mgr-1", "manager")
	other := ts.token("mgr-2", "manager")
	admin := ts.token("admin-1", "admin")

	a := ts.issue(mgr, "a@example.com", "employee")
	ts.issue(other, "b@example.com", "employee")

	rec := ts.do(http.MethodPost, "/v1/invitations/"+a.ID+"/revoke", other, nil)
	requireError(t, rec, http.StatusForbidden, opsboardsdk.ErrorCodeForbidden)

	rec = ts.do(http.MethodPost, "/v1/invitations/"+a.ID+"/revoke", mgr, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodPost, "/v1/invitations/"+a.ID+"/revoke", mgr, nil)
	requireError(t, rec, http.StatusConflict, opsboardsdk.ErrorCodeInvalidState)

	rec = ts.do(http.MethodGet, "/v1/invitations", mgr, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	own := decode[opsboardsdk.ListInvitationsResponse](t, rec)
	require.Len(t, own.Invitations, 1)
	require.Equal(t, "revoked", own.Invitations[0].Status)

	rec = ts.do(http.MethodGet, "/v1/invitations?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[opsboardsdk.ListInvitationsResponse](t, rec)
	require.Len(t, pending.Invitations, 1)
	require.Equal(t, "b@example.com", pending.Invitations[0].Email)

	rec = ts.do(http.MethodGet, "/v1/invitations?status=bogus", admin, nil)
	requireError(t, rec, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)
}

func TestBulkDeleteAndCleanup(t *testing.T) {
	ts := newTestServer(t)
	mgr := ts.token("mgr-1", "manager")
	other := ts.token("mgr-2", "manager")
	admin := ts.token("admin-1", "admin")

	a := ts.issue(mgr, "a@example.com", "employee")
	b := ts.issue(other, "b@example.com", "employee")
	c := ts.issue(mgr, "c@example.com", "employee")

	rec := ts.do(http.MethodPost, "/v1/invitations/bulk-delete", mgr, opsboardsdk.BulkDeleteRequest{IDs: []string{a.ID, b.ID, c.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[opsboardsdk.BulkDeleteResponse](t, rec)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, []opsboardsdk.BulkDeleteResult{
		{ID: a.ID, OK: true},
		{ID: b.ID, OK: false, Error: opsboardsdk.ErrorCodeForbidden},
		{ID: c.ID, OK: true},
	}, res.Results)

	rec = ts.do(http.MethodPost, "/v1/invitations/bulk-delete", mgr, opsboardsdk.BulkDeleteRequest{})
	requireError(t, rec, http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)

	// Cleanup is admin only.
	requireError(t, ts.do(http.MethodPost, "/v1/invitations/cleanup", mgr, nil), http.StatusForbidden, "forbidden")

	ts.now = ts.now.Add(8 * 24 * time.Hour)
	rec = ts.do(http.MethodPost, "/v1/invitations/cleanup", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, decode[opsboardsdk.CleanupResponse](t, rec).DeletedCount)

	rec = ts.do(http.MethodPost, "/v1/invitations/cleanup", admin, nil)
	require.Zero(t, decode[opsboardsdk.CleanupResponse](t, rec).DeletedCount)
}

func TestAccessEndpoints(t *testing.T) {
	ts := newTestServer(t)
	employee := ts.token("emp-1", "employee")
	admin := ts.token("admin-1", "admin")

	rec := ts.do(http.MethodGet, "/v1/navigation", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	nav := decode[opsboardsdk.NavigationResponse](t, rec)
	require.Equal(t, "employee", nav.Role)
	require.Equal(t, "/", nav.LandingPath)
	for _, item := range nav.Items {
		require.NotEqual(t, "admin", item.Key)
	}

	requireError(t, ts.do(http.MethodGet, "/v1/navigation?role=admin", employee, nil), http.StatusForbidden, opsboardsdk.ErrorCodeForbidden)
	requireError(t, ts.do(http.MethodGet, "/v1/navigation?role=janitor", admin, nil), http.StatusBadRequest, opsboardsdk.ErrorCodeUnknownRole)

	rec = ts.do(http.MethodGet, "/v1/navigation?role=super_admin", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/feature-access?feature=admin_dashboard", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[opsboardsdk.FeatureAccessResponse](t, rec).Allowed)

	rec = ts.do(http.MethodGet, "/v1/feature-access?feature=admin_dashboard", admin, nil)
	require.True(t, decode[opsboardsdk.FeatureAccessResponse](t, rec).Allowed)

	rec = ts.do(http.MethodGet, "/v1/feature-access?feature=time_travel", admin, nil)
	require.False(t, decode[opsboardsdk.FeatureAccessResponse](t, rec).Allowed)

	requireError(t, ts.do(http.MethodGet, "/v1/feature-access", admin, nil), http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)

	rec = ts.do(http.MethodGet, "/v1/roles", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roles := decode[opsboardsdk.RolesResponse](t, rec).Roles
	require.Len(t, roles, 5)
	require.Equal(t, "super_admin", roles[0].Name)
}

func TestRouteCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/v1/route-check", ts.token("emp-1", "employee"), opsboardsdk.RouteCheckRequest{Path: "/admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, opsboardsdk.RouteCheckResponse{Path: "/admin", State: "redirecting", RedirectTo: "/"}, decode[opsboardsdk.RouteCheckResponse](t, rec))

	rec = ts.do(http.MethodPost, "/v1/route-check", ts.token("admin-1", "admin"), opsboardsdk.RouteCheckRequest{Path: "/admin"})
	require.Equal(t, "authorized", decode[opsboardsdk.RouteCheckResponse](t, rec).State)

	rec = ts.do(http.MethodPost, "/v1/route-check", "", opsboardsdk.RouteCheckRequest{Path: "/reports"})
	require.Equal(t, opsboardsdk.RouteCheckResponse{Path: "/reports", State: "redirecting", RedirectTo: "/login"}, decode[opsboardsdk.RouteCheckResponse](t, rec))

	requireError(t, ts.do(http.MethodPost, "/v1/route-check", "", opsboardsdk.RouteCheckRequest{Path: "reports"}), http.StatusBadRequest, opsboardsdk.ErrorCodeInvalidRequest)
}

func TestBootstrapAndLogin(t *testing.T) {
	ts := newTestServer(t)
	body := opsboardsdk.BootstrapRequest{Email: "root@example.com", Password: "correct-horse"}

	post := func(token string) *httptest.ResponseRecorder {
		buf, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/v1/bootstrap", bytes.NewReader(buf))
		req.Header.Set("X-Bootstrap-Token", token)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec
	}

	requireError(t, post("wrong"), http.StatusUnauthorized, opsboardsdk.ErrorCodeInvalidToken)

	rec := post("bootstrap-secret")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "super_admin", decode[opsboardsdk.BootstrapResponse](t, rec).Role)

	requireError(t, post("bootstrap-secret"), http.StatusConflict, opsboardsdk.ErrorCodeAlreadyBootstrapped)

	rec = ts.do(http.MethodPost, "/v1/sessions", "", opsboardsdk.LoginRequest{Email: "root@example.com", Password: "nope"})
	requireError(t, rec, http.StatusUnauthorized, opsboardsdk.ErrorCodeInvalidCredentials)

	rec = ts.do(http.MethodPost, "/v1/sessions", "", opsboardsdk.LoginRequest{Email: "root@example.com", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[opsboardsdk.LoginResponse](t, rec)

	// The super admin can invite an admin.
	ts.issue(login.AccessToken, "second@example.com", "admin")
}
