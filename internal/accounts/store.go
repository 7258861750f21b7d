package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopd/internal/models"
)

// Store is the persistence gateway for users and their token state. The
// compound mutations (ActivateUser, ResetPassword, CompleteEmailChange)
// validate and consume the pending OTP in the same transaction that applies
// the state change, so a replayed OTP can never succeed twice.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// CreateUser persists a new user together with its empty token row.
	// Returns ErrConflict when the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	TokenByUserID(ctx context.Context, userID uuid.UUID) (*models.UserToken, error)

	// SetOTP overwrites the pending purpose, code, expiry, and (for the
	// change-email flow) the pending new address.
	SetOTP(ctx context.Context, userID uuid.UUID, tokenType, otp string, expiresAt time.Time, newEmail *string) error

	// ActivateUser consumes a registration OTP and, atomically with it,
	// marks the user verified and active, stamps last_login, and records
	// the freshly issued access token id.
	ActivateUser(ctx context.Context, userID uuid.UUID, otp string, accessTokenID uuid.UUID, now time.Time) error

	// ResetPassword consumes a reset-password OTP and installs the new
	// password hash.
	ResetPassword(ctx context.Context, userID uuid.UUID, otp, newHash string) error

	// CompleteEmailChange consumes a change-email OTP and swaps the
	// account email to newEmail. Returns ErrConflict if newEmail was
	// taken in the meantime.
	CompleteEmailChange(ctx context.Context, userID uuid.UUID, otp, newEmail string) error

	// RecordLogin stamps last_login and stores the new access token id.
	RecordLogin(ctx context.Context, userID uuid.UUID, accessTokenID uuid.UUID, now time.Time) error

	// ClearAccessToken revokes the current access token. Idempotent.
	ClearAccessToken(ctx context.Context, userID uuid.UUID) error

	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}
