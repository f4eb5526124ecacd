package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/idx"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
	"github.com/aussiebroadwan/opsboard/pkg/tracex"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultCallTimeout bounds each identity/profile store call.
const DefaultCallTimeout = 5 * time.Second

var tracer = tracex.Tracer("github.com/aussiebroadwan/opsboard/internal/opsboard/service")

// AccountProvisioner creates a linked identity and profile pair.
type AccountProvisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) (domain.Account, error)
}

type ProvisionRequest struct {
	Email      string
	Password   string
	Role       string
	Department string
	Profile    domain.ProfileFields
}

// Provisioner runs account creation as a two step saga: identity first,
// then profile, deleting the identity again if the profile cannot be
// created.
type Provisioner struct {
	Identities  store.Identities
	Profiles    store.Profiles
	CallTimeout time.Duration
	Now         func() time.Time
}

func (p *Provisioner) Provision(ctx context.Context, req ProvisionRequest) (domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Provisioner.Provision")
	defer span.End()
	log := slogx.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 1. Hash the password before touching either store.
	passwordHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		tracex.RecordError(span, err)
		return domain.Account{}, fmt.Errorf("%w: %w", ErrProvisioningFailure, err)
	}

	now := p.now()
	identity := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	span.SetAttributes(attribute.String("identity.id", identity.ID))

	// 2. Create the identity. Nothing exists yet if this fails.
	err = p.call(ctx, func(ctx context.Context) error {
		return p.Identities.CreateIdentity(ctx, identity)
	})
	if err != nil {
		log.Warn("failed to create identity",
			slog.String("email", email),
			slog.Any("error", err),
		)
		tracex.RecordError(span, err)
		return domain.Account{}, fmt.Errorf("%w: create identity: %w", ErrProvisioningFailure, err)
	}

	profile := domain.Profile{
		ID:         idx.New().String(),
		IdentityID: identity.ID,
		Email:      email,
		FullName:   strings.TrimSpace(req.Profile.FullName),
		Phone:      strings.TrimSpace(req.Profile.Phone),
		Location:   strings.TrimSpace(req.Profile.Location),
		Role:       req.Role,
		Department: req.Department,
		CreatedAt:  now,
	}

	// 3. Create the profile linked to the identity.
	err = p.call(ctx, func(ctx context.Context) error {
		return p.Profiles.CreateProfile(ctx, profile)
	})
	if err != nil {
		log.Warn("failed to create profile, removing identity",
			slog.String("identity_id", identity.ID),
			slog.Any("error", err),
		)
		tracex.RecordError(span, err)

		// 4. Compensate. The caller's context may already be done, so the
		// delete gets its own deadline.
		compCtx := context.WithoutCancel(ctx)
		compErr := p.call(compCtx, func(ctx context.Context) error {
			return p.Identities.DeleteIdentity(ctx, identity.ID)
		})
		if compErr != nil && !errors.Is(compErr, store.ErrNotFound) {
			inconsistent := &ProvisioningInconsistentError{
				IdentityID:      identity.ID,
				Cause:           err,
				CompensationErr: compErr,
			}
			slogx.Alert(ctx, "account provisioning left an identity without a profile",
				slog.String("identity_id", identity.ID),
				slog.String("email", email),
				slog.Any("cause", err),
				slog.Any("compensation_error", compErr),
			)
			tracex.RecordError(span, inconsistent)
			return domain.Account{}, inconsistent
		}

		return domain.Account{}, fmt.Errorf("%w: create profile: %w", ErrProvisioningFailure, err)
	}

	log.Info("account provisioned",
		slog.String("identity_id", identity.ID),
		slog.String("profile_id", profile.ID),
		slog.String("role", req.Role),
	)

	return domain.Account{
		ID:         identity.ID,
		IdentityID: identity.ID,
		ProfileID:  profile.ID,
		Email:      email,
		Role:       req.Role,
	}, nil
}

// call runs fn under the per-call timeout, tagging deadline overruns with
// ErrTimeout.
func (p *Provisioner) call(ctx context.Context, fn func(context.Context) error) error {
	timeout := p.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func (p *Provisioner) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
