package httpx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTokenPair(t *testing.T, role string) (jwtx.Verifier, string) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", priv)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	token, err := signer.Sign(jwtx.NewSessionClaims("user-1", role, "", "", time.Hour, "iss", nil, time.Now()))
	require.NoError(t, err)
	return jwtx.NewVerifierEdDSA(keys, "iss", nil), token
}

func TestAuthnMiddleware(t *testing.T) {
	verifier, token := newTokenPair(t, "manager")

	var gotRole, gotUser string
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = httpx.RoleFromContext(r.Context())
		gotUser = httpx.UserIDFromContext(r.Context())
	}), httpx.AuthnMiddleware(verifier))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "manager", gotRole)
		require.Equal(t, "user-1", gotUser)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		var body httpx.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "invalid_token", body.Error)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuthn(t *testing.T) {
	verifier, token := newTokenPair(t, "employee")

	var authed bool
	h := httpx.OptionalAuthn(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = httpx.ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, authed)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.False(t, authed)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	verifier, token := newTokenPair(t, "employee")

	h := httpx.Chain(okHandler,
		httpx.AuthnMiddleware(verifier),
		httpx.RequireRole(func(role string) bool { return role == "admin" }),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	decode := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &dst)
	}

	require.NoError(t, decode(`{"email":"a@b.c"}`))
	require.Equal(t, "a@b.c", dst.Email)
	require.Error(t, decode(`{"email":"a@b.c","extra":1}`))
	require.Error(t, decode(`{"email":"a@b.c"}{}`))
	require.Error(t, decode(`not json`))
}
