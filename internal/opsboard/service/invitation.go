package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/idx"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
	"github.com/aussiebroadwan/opsboard/pkg/tracex"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultInvitationTTL     = 7 * 24 * time.Hour
	DefaultMaxTokenAttempts  = 3
	DefaultMinPasswordLength = 8
	DefaultBulkConcurrency   = 4

	// DefaultClaimTimeout bounds how long an accept may hold an invitation
	// while provisioning. Older claims are treated as abandoned.
	DefaultClaimTimeout = time.Minute

	// DefaultAdminLevel is the role level treated as administrative when
	// revoking or deleting other people's invitations.
	DefaultAdminLevel = 2
)

type InvitationService struct {
	Store       store.Store
	Access      *access.Resolver
	Provisioner AccountProvisioner

	TTL               time.Duration
	MaxTokenAttempts  int
	MinPasswordLength int
	BulkConcurrency   int
	AdminLevel        int
	ClaimTimeout      time.Duration

	// Now and NewToken default to time.Now and a 256-bit random token.
	Now      func() time.Time
	NewToken func() (string, error)
}

type IssueRequest struct {
	Email      string
	Role       string
	Department string
}

// IssuedInvitation carries the raw token. It is only ever returned here.
type IssuedInvitation struct {
	Invitation domain.Invitation
	Token      string
}

// InvitationView is what an unauthenticated holder of a token may see.
type InvitationView struct {
	Email      string
	Role       string
	Department string
	ExpiresAt  time.Time
}

type AcceptRequest struct {
	Token    string
	Password string
	Profile  domain.ProfileFields
}

// Issue creates a pending invitation on behalf of inviter.
func (s *InvitationService) Issue(ctx context.Context, req IssueRequest, inviter domain.Principal) (IssuedInvitation, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Issue")
	defer span.End()
	log := slogx.FromContext(ctx)

	// 1. Validate role exists
	role, ok := s.Access.Catalog().GetRole(req.Role)
	if !ok {
		log.Warn("attempted to issue invitation with unknown role", slog.String("role", req.Role))
		return IssuedInvitation{}, ErrUnknownRole
	}

	// 2. Validate email
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return IssuedInvitation{}, err
	}

	// 3. The inviter must manage invitations and may not hand out a role
	// more privileged than their own.
	if !s.Access.HasFeatureAccess(inviter.Role, access.FeatureManageInvitations) ||
		!s.Access.HasRoleLevel(inviter.Role, role.Level) {
		log.Warn("unauthorized invitation attempt",
			slog.String("inviter_id", inviter.ID),
			slog.String("inviter_role", inviter.Role),
			slog.String("target_role", req.Role),
		)
		return IssuedInvitation{}, ErrUnauthorized
	}

	now := s.now()
	inv := domain.Invitation{
		Email:      email,
		Role:       string(role.Name),
		Department: strings.TrimSpace(req.Department),
		Status:     domain.InvitationPending,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl()),
		InvitedBy:  inviter.ID,
	}

	// 4. Generate a token and persist, retrying on fingerprint collision.
	attempts := s.MaxTokenAttempts
	if attempts <= 0 {
		attempts = DefaultMaxTokenAttempts
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			log.Error("failed to generate invitation token", slog.Any("error", err))
			tracex.RecordError(span, err)
			return IssuedInvitation{}, err
		}

		inv.ID = idx.NewAt(now).String()
		inv.TokenHash = cryptox.FingerprintToken(token)

		err = s.Store.Invitations().CreateInvitation(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invitation token collision, retrying", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			log.Error("failed to create invitation", slog.Any("error", err))
			tracex.RecordError(span, err)
			return IssuedInvitation{}, err
		}

		span.SetAttributes(attribute.String("invitation.id", inv.ID))
		log.Info("invitation issued",
			slog.String("invitation_id", inv.ID),
			slog.String("role", inv.Role),
			slog.String("invited_by", inviter.ID),
			slog.Time("expires_at", inv.ExpiresAt),
		)
		return IssuedInvitation{Invitation: inv, Token: token}, nil
	}

	log.Error("exhausted invitation token attempts", slog.Int("attempts", attempts))
	tracex.RecordError(span, ErrTokenGenerationExhausted)
	return IssuedInvitation{}, ErrTokenGenerationExhausted
}

// GetByToken returns the public view of a pending invitation.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (InvitationView, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return InvitationView{}, err
	}
	if err := s.checkAcceptable(inv); err != nil {
		return InvitationView{}, err
	}

	return InvitationView{
		Email:      inv.Email,
		Role:       inv.Role,
		Department: inv.Department,
		ExpiresAt:  inv.ExpiresAt,
	}, nil
}

// Accept claims the invitation and provisions its account. The claim is a
// single conditional update that leaves the invitation pending, so of any
// number of concurrent calls for one token at most one reaches the
// provisioner. The invitation only becomes accepted in the update that
// records the provisioned account.
func (s *InvitationService) Accept(ctx context.Context, req AcceptRequest) (domain.Account, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.Accept")
	defer span.End()
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if strings.TrimSpace(req.Profile.FullName) == "" {
		return domain.Account{}, fmt.Errorf("%w: full name is required", ErrInvalidRequest)
	}
	if len([]rune(req.Password)) < s.minPasswordLength() {
		return domain.Account{}, ErrInvalidPassword
	}

	// 2. Look up by fingerprint and check the stored state
	inv, err := s.lookup(ctx, req.Token)
	if err != nil {
		return domain.Account{}, err
	}
	span.SetAttributes(attribute.String("invitation.id", inv.ID))
	if err := s.checkAcceptable(inv); err != nil {
		log.Warn("invitation not acceptable",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	// 3. Claim it. Losing the race re-reads to report why; a claim held by
	// another caller is a conflict, not a terminal state.
	claimedAt := s.now()
	if err := s.Store.Invitations().ClaimInvitation(ctx, inv.ID, claimedAt, s.staleBefore(claimedAt)); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			log.Error("failed to claim invitation", slog.Any("error", err))
			tracex.RecordError(span, err)
			return domain.Account{}, err
		}
		if stateErr := s.stateAfterConflict(ctx, inv.ID); stateErr != nil {
			return domain.Account{}, stateErr
		}
		return domain.Account{}, ErrConflict
	}

	// 4. Provision the account within the claim window; give the claim back
	// on failure.
	provisionCtx, cancel := context.WithTimeout(ctx, s.claimTimeout())
	account, err := s.Provisioner.Provision(provisionCtx, ProvisionRequest{
		Email:      inv.Email,
		Password:   req.Password,
		Role:       inv.Role,
		Department: inv.Department,
		Profile:    req.Profile,
	})
	cancel()
	if err != nil {
		tracex.RecordError(span, err)
		if relErr := s.Store.Invitations().ReleaseInvitationClaim(context.WithoutCancel(ctx), inv.ID, claimedAt); relErr != nil {
			log.Warn("failed to release invitation claim",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", relErr),
			)
		}
		return domain.Account{}, err
	}

	// 5. Mark it accepted and link the account in one update. The account
	// already exists, so a failure here needs manual repair.
	err = s.Store.Invitations().CompleteInvitation(context.WithoutCancel(ctx), inv.ID, account.ID, claimedAt, s.now())
	if err != nil {
		slogx.Alert(ctx, "account provisioned but invitation could not be completed",
			slog.String("invitation_id", inv.ID),
			slog.String("account_id", account.ID),
			slog.String("email", inv.Email),
			slog.Any("error", err),
		)
		err = fmt.Errorf("%w: account %s provisioned but invitation %s not completed: %w",
			ErrProvisioningInconsistent, account.ID, inv.ID, err)
		tracex.RecordError(span, err)
		return domain.Account{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("account_id", account.ID),
		slog.String("role", account.Role),
	)
	return account, nil
}

// Revoke moves a pending invitation to revoked. Only the inviter or an
// administrative role may revoke.
func (s *InvitationService) Revoke(ctx context.Context, id string, requester domain.Principal) error {
	log := slogx.FromContext(ctx)

	inv, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !s.mayModify(inv, requester) {
		log.Warn("unauthorized revoke attempt",
			slog.String("invitation_id", id),
			slog.String("requester_id", requester.ID),
		)
		return ErrUnauthorized
	}
	now := s.now()
	if inv.EffectiveStatus(now) != domain.InvitationPending {
		return ErrInvalidState
	}

	if err := s.Store.Invitations().RevokeInvitation(ctx, id, now, s.staleBefore(now)); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Still pending means an accept holds the claim.
			if s.stateAfterConflict(ctx, id) == nil {
				return ErrConflict
			}
			return ErrInvalidState
		}
		log.Error("failed to revoke invitation", slog.Any("error", err))
		return err
	}

	log.Info("invitation revoked",
		slog.String("invitation_id", id),
		slog.String("revoked_by", requester.ID),
	)
	return nil
}

// BulkItemResult is the outcome of one id in a bulk operation.
type BulkItemResult struct {
	ID  string
	OK  bool
	Err error
}

type BulkResult struct {
	Items []BulkItemResult
}

// Failed counts the items that did not succeed.
func (r BulkResult) Failed() int {
	n := 0
	for _, item := range r.Items {
		if !item.OK {
			n++
		}
	}
	return n
}

// Err returns ErrPartialFailure when any item failed.
func (r BulkResult) Err() error {
	if failed := r.Failed(); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrPartialFailure, failed, len(r.Items))
	}
	return nil
}

// BulkDelete deletes each id independently. Results keep the input order.
func (s *InvitationService) BulkDelete(ctx context.Context, ids []string, requester domain.Principal) BulkResult {
	ctx, span := tracer.Start(ctx, "InvitationService.BulkDelete")
	defer span.End()
	log := slogx.FromContext(ctx)

	limit := s.BulkConcurrency
	if limit <= 0 {
		limit = DefaultBulkConcurrency
	}

	result := BulkResult{Items: make([]BulkItemResult, len(ids))}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			err := s.deleteOne(ctx, id, requester)
			result.Items[i] = BulkItemResult{ID: id, OK: err == nil, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := result.Err(); err != nil {
		span.SetAttributes(attribute.Int("bulk.failed", result.Failed()))
		log.Warn("bulk delete partially failed",
			slog.Int("total", len(ids)),
			slog.Int("failed", result.Failed()),
		)
	} else {
		log.Info("bulk delete completed", slog.Int("total", len(ids)))
	}
	return result
}

func (s *InvitationService) deleteOne(ctx context.Context, id string, requester domain.Principal) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().GetInvitationByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !s.mayModify(inv, requester) {
			return ErrUnauthorized
		}
		if s.claimHeld(inv, s.now()) {
			return ErrConflict
		}
		if err := tx.Invitations().DeleteInvitation(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
}

// CleanupExpired deletes pending invitations that expired before now.
// Accepted and revoked invitations are never touched, nor are invitations
// an accept is still provisioning.
func (s *InvitationService) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	log := slogx.FromContext(ctx)

	n, err := s.Store.Invitations().DeleteExpiredInvitations(ctx, now, s.staleBefore(now))
	if err != nil {
		log.Error("failed to delete expired invitations", slog.Any("error", err))
		return 0, err
	}

	log.Debug("deleted expired invitations", slog.Int64("deleted", n))
	return n, nil
}

// List returns invitations visible to requester. Administrative roles see
// all invitations, others only those they issued. Statuses are effective:
// pending invitations past expiry are reported as expired.
func (s *InvitationService) List(ctx context.Context, status domain.InvitationStatus, requester domain.Principal) ([]domain.Invitation, error) {
	if !s.Access.HasFeatureAccess(requester.Role, access.FeatureManageInvitations) {
		return nil, ErrUnauthorized
	}

	filter := domain.InvitationFilter{Status: status}
	switch status {
	case "", domain.InvitationPending, domain.InvitationAccepted, domain.InvitationRevoked:
	case domain.InvitationExpired:
		filter.Status = domain.InvitationPending
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	if !s.Access.HasRoleLevel(requester.Role, s.adminLevel()) {
		filter.InvitedBy = requester.ID
	}

	invs, err := s.Store.Invitations().ListInvitations(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]domain.Invitation, 0, len(invs))
	for _, inv := range invs {
		inv.Status = inv.EffectiveStatus(now)
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *InvitationService) lookup(ctx context.Context, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, ErrNotFound
	}
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, ErrNotFound
	}
	return inv, err
}

func (s *InvitationService) get(ctx context.Context, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, ErrNotFound
	}
	return inv, err
}

// stateAfterConflict re-reads an invitation after a conditional update
// missed. It returns nil when the invitation is still pending.
func (s *InvitationService) stateAfterConflict(ctx context.Context, id string) error {
	current, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		return nil
	}
	return s.checkAcceptable(current)
}

// checkAcceptable maps a stored invitation to the error Accept would
// report. Acceptance freezes an invitation's fate, so accepted invitations
// are never reported as expired.
func (s *InvitationService) checkAcceptable(inv domain.Invitation) error {
	switch inv.EffectiveStatus(s.now()) {
	case domain.InvitationPending:
		return nil
	case domain.InvitationAccepted:
		return ErrAlreadyAccepted
	case domain.InvitationExpired:
		return ErrExpired
	default:
		return ErrInvalidState
	}
}

func (s *InvitationService) mayModify(inv domain.Invitation, requester domain.Principal) bool {
	if requester.ID != "" && requester.ID == inv.InvitedBy {
		return true
	}
	return s.Access.HasRoleLevel(requester.Role, s.adminLevel())
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

func (s *InvitationService) claimTimeout() time.Duration {
	if s.ClaimTimeout > 0 {
		return s.ClaimTimeout
	}
	return DefaultClaimTimeout
}

func (s *InvitationService) staleBefore(now time.Time) time.Time {
	return now.Add(-s.claimTimeout())
}

// claimHeld reports whether an accept is still provisioning inv.
func (s *InvitationService) claimHeld(inv domain.Invitation, now time.Time) bool {
	return inv.Status == domain.InvitationPending &&
		inv.ClaimedAt != nil &&
		!inv.ClaimedAt.Before(s.staleBefore(now))
}

func (s *InvitationService) minPasswordLength() int {
	if s.MinPasswordLength > 0 {
		return s.MinPasswordLength
	}
	return DefaultMinPasswordLength
}

func (s *InvitationService) adminLevel() int {
	if s.AdminLevel > 0 {
		return s.AdminLevel
	}
	return DefaultAdminLevel
}

func (s *InvitationService) newToken() (string, error) {
	if s.NewToken != nil {
		return s.NewToken()
	}
	return cryptox.GenerateToken(cryptox.TokenSize256)
}
