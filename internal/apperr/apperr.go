// Package apperr defines the business-rule error kinds shared by the
// account, catalog, order, and payment services. Callers classify failures
// with errors.Is against these sentinels; the HTTP layer translates them to
// status codes. Anything not wrapping one of these is an internal fault.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict signals the resource already exists (duplicate email).
	ErrConflict = errors.New("already exists")

	// ErrNotFound signals the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOtp signals a missing, mismatched, or expired OTP.
	ErrInvalidOtp = errors.New("invalid otp")

	// ErrAlreadyVerified signals the account already passed verification.
	ErrAlreadyVerified = errors.New("already verified")

	// ErrAuthentication signals a credential mismatch.
	ErrAuthentication = errors.New("authentication failed")

	// ErrForbidden signals an authenticated but ineligible caller
	// (inactive account, unverified email, missing privilege).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidVariant signals an order referencing a variant that does
	// not resolve.
	ErrInvalidVariant = errors.New("invalid product variant")

	// ErrBadRequest signals malformed input rejected before any state
	// change.
	ErrBadRequest = errors.New("bad request")

	// ErrDelivery signals an outbound notification failure.
	ErrDelivery = errors.New("delivery failed")
)

// Wrap annotates a sentinel with context while keeping errors.Is working.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
