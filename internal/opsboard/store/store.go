package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned when a conditional update matched no row
	// because the record is no longer in the expected state.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose one sub-repository per record type. Identities and profiles are
// modelled as separate stores: callers must not assume a write to one is
// atomic with a write to the other.
type Store interface {
	Invitations() Invitations
	Identities() Identities
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	// Only the Tx handed to fn may be used inside fn.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// CreateInvitation inserts a pending invitation. Returns ErrAlreadyExists
	// when the id or token fingerprint is already taken.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// ListInvitations returns invitations matching filter, newest first.
	ListInvitations(ctx context.Context, filter domain.InvitationFilter) ([]domain.Invitation, error)

	// ClaimInvitation marks a pending, unexpired invitation as being
	// accepted by setting its claim time to now. The status stays pending.
	// A claim taken before staleBefore is treated as abandoned and may be
	// taken over. Returns ErrConflict if nothing matched.
	ClaimInvitation(ctx context.Context, id string, now, staleBefore time.Time) error

	// ReleaseInvitationClaim clears the claim taken at claimedAt. Used when
	// provisioning fails after the claim. Returns ErrConflict if the claim
	// is no longer held.
	ReleaseInvitationClaim(ctx context.Context, id string, claimedAt time.Time) error

	// CompleteInvitation moves a claimed invitation to accepted and records
	// the provisioned account in one update. It only matches while the
	// claim taken at claimedAt is still held. Returns ErrConflict otherwise.
	CompleteInvitation(ctx context.Context, id, accountID string, claimedAt, now time.Time) error

	// RevokeInvitation moves a pending, unexpired, unclaimed invitation to
	// revoked. Claims taken before staleBefore are ignored. Returns
	// ErrConflict if nothing matched.
	RevokeInvitation(ctx context.Context, id string, now, staleBefore time.Time) error

	// DeleteInvitation removes an invitation regardless of status.
	DeleteInvitation(ctx context.Context, id string) error

	// DeleteExpiredInvitations removes pending invitations whose expiry is
	// before now and returns how many were removed. Invitations holding a
	// claim taken at or after staleBefore are left alone.
	DeleteExpiredInvitations(ctx context.Context, now, staleBefore time.Time) (int64, error)
}

type Identities interface {
	// CreateIdentity returns ErrAlreadyExists when the email is taken.
	CreateIdentity(ctx context.Context, id domain.Identity) error
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error

	// IsEmpty returns true if there are no identities.
	IsEmpty(ctx context.Context) (bool, error)
}

type Profiles interface {
	// CreateProfile returns ErrAlreadyExists when the identity already has
	// a profile.
	CreateProfile(ctx context.Context, p domain.Profile) error
	GetProfileByIdentityID(ctx context.Context, identityID string) (domain.Profile, error)
}
