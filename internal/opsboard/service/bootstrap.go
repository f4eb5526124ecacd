package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
)

// BootstrapData describes the first super admin account.
type BootstrapData struct {
	Email    string
	Password string
	Profile  domain.ProfileFields
}

type BootstrapService struct {
	Store       store.Store
	Provisioner AccountProvisioner
	Token       string // Pre-configured bootstrap token
	Role        string // Defaults to super_admin

	MinPasswordLength int
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap provisions the first super_admin. It only works while no
// identity exists and the caller presents the configured token.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req BootstrapData) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	// 1. Bootstrap is off without a configured token
	if s.Token == "" {
		return domain.Account{}, ErrBootstrapDisabled
	}

	// 2. Validate provided token
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Account{}, ErrBootstrapUnauthorized
	}

	// 3. Check if already bootstrapped
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Account{}, ErrBootstrapAlready
	}

	// 4. Validate input
	if _, err := normalizeEmail(req.Email); err != nil {
		return domain.Account{}, err
	}
	minLen := s.MinPasswordLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}
	if len([]rune(req.Password)) < minLen {
		return domain.Account{}, ErrInvalidPassword
	}
	if req.Profile.FullName == "" {
		req.Profile.FullName = "Administrator"
	}

	// 5. Provision
	account, err := s.Provisioner.Provision(ctx, ProvisionRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     s.role(),
		Profile:  req.Profile,
	})
	if err != nil {
		l.Error("failed to provision bootstrap account", slog.Any("error", err))
		return domain.Account{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("account_id", account.ID))
	return account, nil
}

func (s *BootstrapService) role() string {
	if s.Role != "" {
		return s.Role
	}
	return string(access.SuperAdmin)
}
