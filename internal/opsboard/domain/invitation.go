package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation is a time-boxed, single-use grant to provision one account at
// a pre-assigned role. Only the SHA-256 fingerprint of the token is stored.
type Invitation struct {
	ID         string
	Email      string
	Role       string
	Department string // Can be empty
	TokenHash  string
	Status     InvitationStatus // Stored status; expired is derived, see EffectiveStatus
	IssuedAt   time.Time
	ExpiresAt  time.Time
	InvitedBy  string     // Principal ID of the issuer
	AcceptedAt *time.Time // Set when status becomes accepted
	AccountID  string     // Set together with accepted
	ClaimedAt  *time.Time // Set while an accept is provisioning; status stays pending
}

// EffectiveStatus reports expired for pending invitations past their expiry.
// Accepted and revoked invitations keep their status forever.
func (i Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationPending && now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return i.Status
}

// InvitationFilter narrows ListInvitations. Zero values match everything.
type InvitationFilter struct {
	Status    InvitationStatus // pending, accepted or revoked
	InvitedBy string
	Email     string
	Limit     int
}
