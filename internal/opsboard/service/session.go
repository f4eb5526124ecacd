package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/jwtx"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// unknownEmailHash is verified against when the email has no identity, so
// an unknown email costs the same argon2 work as a wrong password.
var unknownEmailHash = sync.OnceValue(func() string {
	hash, err := cryptox.HashPassword("opsboard-unknown-email")
	if err != nil {
		panic(err)
	}
	return hash
})

// Session is a signed access token for one principal.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	AccountID   string
	Role        string
}

type SessionService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      func() time.Time

	// VerifyPassword defaults to cryptox.VerifyPassword.
	VerifyPassword func(password, encodedHash string) error
}

// Login verifies the password for email and issues a session token whose
// role claim comes from the profile.
func (s *SessionService) Login(ctx context.Context, email, password string) (Session, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	// 1. Find the identity
	identity, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.verifyPassword(password, unknownEmailHash())
			l.Info("login for unknown email")
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	// 2. Check the password
	if err := s.verifyPassword(password, identity.PasswordHash); err != nil {
		l.Info("login password mismatch", slog.String("identity_id", identity.ID))
		return Session{}, ErrInvalidCredentials
	}

	// 3. Resolve the role from the profile. An identity without a profile
	// is a half-provisioned account and may not log in.
	profile, err := s.Store.Profiles().GetProfileByIdentityID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("login for identity without profile", slog.String("identity_id", identity.ID))
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	// 4. Sign
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(identity.ID, profile.Role, identity.Email, profile.ID, ttl, s.Issuer, s.Audience, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign session token", slog.Any("error", err))
		return Session{}, err
	}

	l.Info("session issued",
		slog.String("identity_id", identity.ID),
		slog.String("role", profile.Role),
	)
	return Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		AccountID:   identity.ID,
		Role:        profile.Role,
	}, nil
}

func (s *SessionService) verifyPassword(password, encodedHash string) error {
	if s.VerifyPassword != nil {
		return s.VerifyPassword(password, encodedHash)
	}
	return cryptox.VerifyPassword(password, encodedHash)
}
