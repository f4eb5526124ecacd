package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/cryptox"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.svc.Issue(ctx, service.IssueRequest{
		Email:      " New.Hire@Example.com ",
		Role:       "accountant",
		Department: "Finance",
	}, admin)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	inv := issued.Invitation
	require.Equal(t, "new.hire@example.com", inv.Email)
	require.Equal(t, "accountant", inv.Role)
	require.Equal(t, "Finance", inv.Department)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Equal(t, admin.ID, inv.InvitedBy)
	require.True(t, inv.ExpiresAt.Equal(t0.Add(7*24*time.Hour)))

	// Only the fingerprint is persisted.
	stored, err := f.store.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(issued.Token), stored.TokenHash)
	require.NotEqual(t, issued.Token, stored.TokenHash)
}

func TestIssueRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     service.IssueRequest
		inviter domain.Principal
		want    error
	}{
		{"unknown role", service.IssueRequest{Email: "a@example.com", Role: "janitor"}, admin, service.ErrUnknownRole},
		{"empty email", service.IssueRequest{Email: "", Role: "employee"}, admin, service.ErrInvalidEmail},
		{"malformed email", service.IssueRequest{Email: "not-an-email", Role: "employee"}, admin, service.ErrInvalidEmail},
		{"display name", service.IssueRequest{Email: "Jo <jo@example.com>", Role: "employee"}, admin, service.ErrInvalidEmail},
		{"no domain dot", service.IssueRequest{Email: "jo@localhost", Role: "employee"}, admin, service.ErrInvalidEmail},
		{"employee cannot invite", service.IssueRequest{Email: "a@example.com", Role: "employee"}, employee, service.ErrUnauthorized},
		{"manager cannot invite admin", service.IssueRequest{Email: "a@example.com", Role: "admin"}, manager, service.ErrUnauthorized},
		{"admin cannot invite super admin", service.IssueRequest{Email: "a@example.com", Role: "super_admin"}, admin, service.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Issue(ctx, tt.req, tt.inviter)
			require.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.store.Invitations().ListInvitations(ctx, domain.InvitationFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	f := newFixture(t)

	const n = 1000
	tokens := make(map[string]struct{}, n)
	hashes := make(map[string]struct{}, n)
	for range n {
		issued := f.issue(t, "bulk@example.com", "employee", admin)
		tokens[issued.Token] = struct{}{}
		hashes[issued.Invitation.TokenHash] = struct{}{}
	}
	require.Len(t, tokens, n)
	require.Len(t, hashes, n)
}

func TestIssueRetriesOnTokenCollision(t *testing.T) {
	f := newFixture(t)
	first := f.issue(t, "a@example.com", "employee", admin)

	seq := []string{first.Token, first.Token, "fresh-token"}
	calls := 0
	f.svc.NewToken = func() (string, error) {
		tok := seq[calls]
		calls++
		return tok, nil
	}

	issued := f.issue(t, "b@example.com", "employee", admin)
	require.Equal(t, "fresh-token", issued.Token)
	require.Equal(t, 3, calls)
}

func TestIssueTokenAttemptsExhausted(t *testing.T) {
	f := newFixture(t)
	first := f.issue(t, "a@example.com", "employee", admin)

	calls := 0
	f.svc.NewToken = func() (string, error) {
		calls++
		return first.Token, nil
	}

	_, err := f.svc.Issue(context.Background(), service.IssueRequest{Email: "b@example.com", Role: "employee"}, admin)
	require.ErrorIs(t, err, service.ErrTokenGenerationExhausted)
	require.Equal(t, service.DefaultMaxTokenAttempts, calls)
}

func TestGetByToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.svc.Issue(ctx, service.IssueRequest{Email: "jo@example.com", Role: "manager", Department: "Ops"}, admin)
	require.NoError(t, err)

	view, err := f.svc.GetByToken(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, service.InvitationView{
		Email:      "jo@example.com",
		Role:       "manager",
		Department: "Ops",
		ExpiresAt:  issued.Invitation.ExpiresAt,
	}, view)

	_, err = f.svc.GetByToken(ctx, "unknown")
	require.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetByToken(ctx, "")
	require.ErrorIs(t, err, service.ErrNotFound)

	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.svc.GetByToken(ctx, issued.Token)
	require.ErrorIs(t, err, service.ErrExpired)
}

func TestAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "accountant", admin)

	account, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", account.Email)
	require.Equal(t, "accountant", account.Role)

	profile, err := f.store.Profiles().GetProfileByIdentityID(ctx, account.IdentityID)
	require.NoError(t, err)
	require.Equal(t, "Jo Bloggs", profile.FullName)
	require.Equal(t, "accountant", profile.Role)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, issued.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
	require.Equal(t, account.ID, inv.AccountID)
	require.NotNil(t, inv.AcceptedAt)

	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrAlreadyAccepted)

	// Accepted invitations are never reported as expired.
	f.clock.Advance(30 * 24 * time.Hour)
	_, err = f.svc.GetByToken(ctx, issued.Token)
	require.ErrorIs(t, err, service.ErrAlreadyAccepted)
}

func TestAcceptValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "employee", admin)

	req := acceptReq(issued.Token)
	req.Password = "short"
	_, err := f.svc.Accept(ctx, req)
	require.ErrorIs(t, err, service.ErrInvalidPassword)

	req = acceptReq(issued.Token)
	req.Profile.FullName = "  "
	_, err = f.svc.Accept(ctx, req)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = f.svc.Accept(ctx, acceptReq("nope"))
	require.ErrorIs(t, err, service.ErrNotFound)

	// Nothing was consumed by the failed attempts.
	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)
}

func TestAcceptExpiredAndRevoked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired := f.issue(t, "old@example.com", "employee", admin)
	f.clock.Advance(8 * 24 * time.Hour)
	revoked := f.issue(t, "gone@example.com", "employee", admin)
	require.NoError(t, f.svc.Revoke(ctx, revoked.Invitation.ID, admin))

	_, err := f.svc.Accept(ctx, acceptReq(expired.Token))
	require.ErrorIs(t, err, service.ErrExpired)

	_, err = f.svc.Accept(ctx, acceptReq(revoked.Token))
	require.ErrorIs(t, err, service.ErrInvalidState)

	_, err = f.store.Identities().GetIdentityByEmail(ctx, "old@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

// countingProvisioner records every account the wrapped provisioner creates.
type countingProvisioner struct {
	next service.AccountProvisioner

	mu       sync.Mutex
	accounts []domain.Account
}

func (p *countingProvisioner) Provision(ctx context.Context, req service.ProvisionRequest) (domain.Account, error) {
	account, err := p.next.Provision(ctx, req)
	if err == nil {
		p.mu.Lock()
		p.accounts = append(p.accounts, account)
		p.mu.Unlock()
	}
	return account, err
}

func TestAcceptConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "race@example.com", "employee", admin)

	counting := &countingProvisioner{next: f.svc.Provisioner}
	f.svc.Provisioner = counting

	const n = 8
	var (
		wg       sync.WaitGroup
		errs     = make([]error, n)
		accounts = make([]domain.Account, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accounts[i], errs[i] = f.svc.Accept(ctx, acceptReq(issued.Token))
		}()
	}
	wg.Wait()

	var winner domain.Account
	for i, err := range errs {
		if err == nil {
			require.Empty(t, winner.ID, "more than one accept succeeded")
			winner = accounts[i]
			continue
		}
		require.True(t, errors.Is(err, service.ErrAlreadyAccepted) || errors.Is(err, service.ErrConflict), "unexpected error: %v", err)
	}
	require.NotEmpty(t, winner.ID)

	// Exactly one account was created, and it is the one linked.
	require.Len(t, counting.accounts, 1)
	require.Equal(t, winner.ID, counting.accounts[0].ID)

	identity, err := f.store.Identities().GetIdentityByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	require.Equal(t, winner.IdentityID, identity.ID)
	profile, err := f.store.Profiles().GetProfileByIdentityID(ctx, identity.ID)
	require.NoError(t, err)
	require.Equal(t, winner.ProfileID, profile.ID)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, issued.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
	require.Equal(t, winner.ID, inv.AccountID)
}

type failingProvisioner struct {
	err   error
	calls int
}

func (p *failingProvisioner) Provision(context.Context, service.ProvisionRequest) (domain.Account, error) {
	p.calls++
	return domain.Account{}, p.err
}

// blockingProvisioner parks a single Provision call until the test
// sends its outcome.
type blockingProvisioner struct {
	started chan struct{}
	result  chan error
}

func newBlockingProvisioner() *blockingProvisioner {
	return &blockingProvisioner{started: make(chan struct{}), result: make(chan error)}
}

func (p *blockingProvisioner) Provision(context.Context, service.ProvisionRequest) (domain.Account, error) {
	close(p.started)
	return domain.Account{}, <-p.result
}

func TestAcceptReleasesClaimWhenProvisioningFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "employee", admin)

	orig := f.svc.Provisioner
	failing := &failingProvisioner{err: service.ErrProvisioningFailure}
	f.svc.Provisioner = failing

	_, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrProvisioningFailure)
	require.Equal(t, 1, failing.calls)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, issued.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Nil(t, inv.AcceptedAt)
	require.Nil(t, inv.ClaimedAt)

	f.svc.Provisioner = orig
	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)
}

func TestAcceptKeepsInvitationPendingWhileProvisioning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "employee", admin)
	id := issued.Invitation.ID

	orig := f.svc.Provisioner
	blocking := newBlockingProvisioner()
	f.svc.Provisioner = blocking

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Accept(ctx, acceptReq(issued.Token))
		done <- err
	}()
	<-blocking.started

	inv, err := f.store.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Nil(t, inv.AcceptedAt)
	require.NotNil(t, inv.ClaimedAt)

	// Others see a pending invitation they cannot act on yet.
	_, err = f.svc.GetByToken(ctx, issued.Token)
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrConflict)
	require.ErrorIs(t, f.svc.Revoke(ctx, id, admin), service.ErrConflict)
	result := f.svc.BulkDelete(ctx, []string{id}, admin)
	require.ErrorIs(t, result.Items[0].Err, service.ErrConflict)

	blocking.result <- service.ErrProvisioningFailure
	require.ErrorIs(t, <-done, service.ErrProvisioningFailure)

	inv, err = f.store.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Nil(t, inv.ClaimedAt)

	f.svc.Provisioner = orig
	account, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)

	inv, err = f.store.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
	require.Equal(t, account.ID, inv.AccountID)
}

func TestAcceptTakesOverAbandonedClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "employee", admin)
	id := issued.Invitation.ID

	// A claim whose holder never came back.
	require.NoError(t, f.store.Invitations().ClaimInvitation(ctx, id, t0, t0.Add(-time.Minute)))

	_, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrConflict)

	f.clock.Advance(service.DefaultClaimTimeout + time.Second)
	account, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
	require.Equal(t, account.ID, inv.AccountID)
}

func TestAcceptedInvitationIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued := f.issue(t, "jo@example.com", "employee", admin)
	id := issued.Invitation.ID

	account, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrAlreadyAccepted)
	require.ErrorIs(t, f.svc.Revoke(ctx, id, admin), service.ErrInvalidState)

	f.clock.Advance(30 * 24 * time.Hour)
	n, err := f.svc.CleanupExpired(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Zero(t, n)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
	require.Equal(t, account.ID, inv.AccountID)
	require.True(t, inv.AcceptedAt.Equal(t0))
}

// incompleteStore fails to mark invitations accepted.
type incompleteStore struct {
	store.Store
}

func (s incompleteStore) Invitations() store.Invitations {
	return incompleteInvitations{s.Store.Invitations()}
}

type incompleteInvitations struct {
	store.Invitations
}

func (incompleteInvitations) CompleteInvitation(context.Context, string, string, time.Time, time.Time) error {
	return errors.New("disk I/O error")
}

func TestAcceptAlertsWhenInvitationCannotBeCompleted(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "jo@example.com", "employee", admin)
	f.svc.Store = incompleteStore{f.store}

	var logs bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))

	_, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrProvisioningInconsistent)
	require.Contains(t, logs.String(), `"alert":true`)
	require.Contains(t, logs.String(), issued.Invitation.ID)

	// The invitation is never reported accepted without its account.
	inv, err := f.store.Invitations().GetInvitationByID(ctx, issued.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Empty(t, inv.AccountID)
}

func TestAcceptSecondInvitationForExistingEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.issue(t, "dup@example.com", "employee", admin)
	second := f.issue(t, "dup@example.com", "manager", admin)

	_, err := f.svc.Accept(ctx, acceptReq(first.Token))
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, acceptReq(second.Token))
	require.ErrorIs(t, err, service.ErrProvisioningFailure)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	inv, err := f.store.Invitations().GetInvitationByID(ctx, second.Invitation.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own := f.issue(t, "a@example.com", "employee", manager)
	other := f.issue(t, "b@example.com", "employee", manager)

	require.ErrorIs(t, f.svc.Revoke(ctx, own.Invitation.ID, manager2), service.ErrUnauthorized)
	require.NoError(t, f.svc.Revoke(ctx, own.Invitation.ID, manager))
	require.ErrorIs(t, f.svc.Revoke(ctx, own.Invitation.ID, manager), service.ErrInvalidState)

	// Admins may revoke anyone's invitation.
	require.NoError(t, f.svc.Revoke(ctx, other.Invitation.ID, admin))

	require.ErrorIs(t, f.svc.Revoke(ctx, "missing", admin), service.ErrNotFound)

	accepted := f.issue(t, "c@example.com", "employee", admin)
	_, err := f.svc.Accept(ctx, acceptReq(accepted.Token))
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.Revoke(ctx, accepted.Invitation.ID, admin), service.ErrInvalidState)

	expired := f.issue(t, "d@example.com", "employee", admin)
	f.clock.Advance(8 * 24 * time.Hour)
	require.ErrorIs(t, f.svc.Revoke(ctx, expired.Invitation.ID, admin), service.ErrInvalidState)
}

func TestBulkDeletePartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.issue(t, "a@example.com", "employee", manager)
	b := f.issue(t, "b@example.com", "employee", manager2)
	c := f.issue(t, "c@example.com", "employee", manager)

	ids := []string{a.Invitation.ID, b.Invitation.ID, c.Invitation.ID}
	result := f.svc.BulkDelete(ctx, ids, manager)

	require.Len(t, result.Items, 3)
	require.Equal(t, 1, result.Failed())
	require.ErrorIs(t, result.Err(), service.ErrPartialFailure)

	for i, item := range result.Items {
		require.Equal(t, ids[i], item.ID)
	}
	require.True(t, result.Items[0].OK)
	require.False(t, result.Items[1].OK)
	require.ErrorIs(t, result.Items[1].Err, service.ErrUnauthorized)
	require.True(t, result.Items[2].OK)

	_, err := f.store.Invitations().GetInvitationByID(ctx, a.Invitation.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.store.Invitations().GetInvitationByID(ctx, b.Invitation.ID)
	require.NoError(t, err)
	_, err = f.store.Invitations().GetInvitationByID(ctx, c.Invitation.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBulkDeleteAsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.issue(t, "a@example.com", "employee", manager)
	b := f.issue(t, "b@example.com", "employee", manager2)

	result := f.svc.BulkDelete(ctx, []string{a.Invitation.ID, "missing", b.Invitation.ID}, admin)
	require.Len(t, result.Items, 3)
	require.True(t, result.Items[0].OK)
	require.ErrorIs(t, result.Items[1].Err, service.ErrNotFound)
	require.True(t, result.Items[2].OK)

	require.NoError(t, f.svc.BulkDelete(ctx, nil, admin).Err())
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accepted := f.issue(t, "a@example.com", "employee", admin)
	_, err := f.svc.Accept(ctx, acceptReq(accepted.Token))
	require.NoError(t, err)
	revoked := f.issue(t, "b@example.com", "employee", admin)
	require.NoError(t, f.svc.Revoke(ctx, revoked.Invitation.ID, admin))
	f.issue(t, "c@example.com", "employee", admin)
	f.issue(t, "d@example.com", "employee", admin)

	f.clock.Advance(6 * 24 * time.Hour)
	fresh := f.issue(t, "e@example.com", "employee", admin)

	now := t0.Add(8 * 24 * time.Hour)
	n, err := f.svc.CleanupExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = f.svc.CleanupExpired(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	for _, id := range []string{accepted.Invitation.ID, revoked.Invitation.ID, fresh.Invitation.ID} {
		_, err := f.store.Invitations().GetInvitationByID(ctx, id)
		require.NoError(t, err)
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.issue(t, "a@example.com", "employee", manager)
	f.issue(t, "b@example.com", "employee", manager2)
	f.clock.Advance(8 * 24 * time.Hour)
	fresh := f.issue(t, "c@example.com", "employee", manager)

	all, err := f.svc.List(ctx, "", admin)
	require.NoError(t, err)
	require.Len(t, all, 3)

	own, err := f.svc.List(ctx, "", manager)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, inv := range own {
		require.Equal(t, manager.ID, inv.InvitedBy)
	}

	expired, err := f.svc.List(ctx, domain.InvitationExpired, admin)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	for _, inv := range expired {
		require.Equal(t, domain.InvitationExpired, inv.Status)
	}

	pending, err := f.svc.List(ctx, domain.InvitationPending, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, fresh.Invitation.ID, pending[0].ID)

	_, err = f.svc.List(ctx, "bogus", admin)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = f.svc.List(ctx, "", employee)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

// TestInvitationLifecycle walks an invitation from issue to cleanup.
func TestInvitationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An admin invites an accountant.
	issued, err := f.svc.Issue(ctx, service.IssueRequest{
		Email:      "casey@example.com",
		Role:       string(access.Accountant),
		Department: "Finance",
	}, admin)
	require.NoError(t, err)

	view, err := f.svc.GetByToken(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, "casey@example.com", view.Email)

	// The invitee accepts, then tries again.
	account, err := f.svc.Accept(ctx, acceptReq(issued.Token))
	require.NoError(t, err)
	require.Equal(t, string(access.Accountant), account.Role)

	_, err = f.svc.Accept(ctx, acceptReq(issued.Token))
	require.ErrorIs(t, err, service.ErrAlreadyAccepted)

	// A second invitation is left to expire.
	stale, err := f.svc.Issue(ctx, service.IssueRequest{Email: "late@example.com", Role: "employee"}, admin)
	require.NoError(t, err)
	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.svc.Accept(ctx, acceptReq(stale.Token))
	require.ErrorIs(t, err, service.ErrExpired)

	n, err := f.svc.CleanupExpired(ctx, f.clock.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = f.svc.GetByToken(ctx, stale.Token)
	require.ErrorIs(t, err, service.ErrNotFound)

	// The accepted invitation survives cleanup.
	_, err = f.svc.GetByToken(ctx, issued.Token)
	require.ErrorIs(t, err, service.ErrAlreadyAccepted)
}
