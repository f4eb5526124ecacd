package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest           = errors.New("invalid request")
	ErrUnknownRole              = errors.New("unknown role")
	ErrInvalidEmail             = errors.New("invalid email address")
	ErrInvalidPassword          = errors.New("password does not meet the minimum length")
	ErrNotFound                 = errors.New("invitation not found")
	ErrExpired                  = errors.New("invitation has expired")
	ErrAlreadyAccepted          = errors.New("invitation has already been accepted")
	ErrConflict                 = errors.New("conflicting concurrent update")
	ErrTokenGenerationExhausted = errors.New("could not generate a unique invitation token")
	ErrUnauthorized             = errors.New("requester is not permitted to perform this action")
	ErrInvalidState             = errors.New("invitation is not in a state that allows this action")
	ErrProvisioningFailure      = errors.New("account provisioning failed")
	ErrProvisioningInconsistent = errors.New("account provisioning left inconsistent state")
	ErrPartialFailure           = errors.New("some items failed")
	ErrTimeout                  = errors.New("store call timed out")
)

// ProvisioningInconsistentError reports an identity record that could not be
// removed after its profile failed to be created. It needs manual repair.
type ProvisioningInconsistentError struct {
	IdentityID      string
	Cause           error // why the profile step failed
	CompensationErr error // why the identity could not be removed
}

func (e *ProvisioningInconsistentError) Error() string {
	return fmt.Sprintf("account provisioning left identity %s without a profile: %v (compensation failed: %v)",
		e.IdentityID, e.Cause, e.CompensationErr)
}

func (e *ProvisioningInconsistentError) Is(target error) bool {
	return target == ErrProvisioningInconsistent
}

func (e *ProvisioningInconsistentError) Unwrap() []error {
	return []error{e.Cause, e.CompensationErr}
}

// IsRetryable reports whether err is transient and the operation may be
// retried as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout)
}
