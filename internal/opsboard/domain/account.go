package domain

import "time"

// Identity is the credential record owned by the identity store.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
}

// Profile is the application record owned by the profile store. IdentityID
// links it to exactly one Identity.
type Profile struct {
	ID         string
	IdentityID string
	Email      string
	FullName   string
	Phone      string
	Location   string
	Role       string
	Department string
	CreatedAt  time.Time
}

// ProfileFields are the user-supplied fields collected on acceptance.
type ProfileFields struct {
	FullName string
	Phone    string
	Location string
}

// Account is a provisioned identity and profile pair. ID equals the
// identity ID.
type Account struct {
	ID         string
	IdentityID string
	ProfileID  string
	Email      string
	Role       string
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   string
	Role string
}
