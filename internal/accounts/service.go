// Package accounts implements the account lifecycle state machine:
// registration, OTP verification, login, logout, resend, password reset,
// and email change. The state lives in the Store; this package holds the
// transition rules and the notification side effects.
package accounts

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"shopd/internal/apperr"
	"shopd/internal/config"
	"shopd/internal/events"
	"shopd/internal/models"
	"shopd/internal/notify"
)

// Resend purposes accepted by ResendOTP.
const (
	PurposeRegister    = "register"
	PurposeResetPass   = "reset-password"
	PurposeChangeEmail = "change-email"
)

const minPasswordLength = 8

// Auth is the result of a successful login or verification.
type Auth struct {
	AccessToken string
	IsSuperuser bool
}

// Service orchestrates account state transitions.
type Service struct {
	store     Store
	mailer    notify.Mailer
	templates *notify.Templates
	bus       *events.Publisher
	jwtSecret []byte
	accessTTL time.Duration
	otpTTL    time.Duration
	now       func() time.Time
}

// NewService wires the account lifecycle machine.
func NewService(store Store, mailer notify.Mailer, templates *notify.Templates, bus *events.Publisher, cfg config.Config) *Service {
	return &Service{
		store:     store,
		mailer:    mailer,
		templates: templates,
		bus:       bus,
		jwtSecret: []byte(cfg.JWTSigningKey),
		accessTTL: cfg.AccessTokenTTL,
		otpTTL:    cfg.OTPExpiry,
		now:       time.Now,
	}
}

// Register creates an unverified, inactive user and mails a registration
// OTP. It never returns a session token.
func (s *Service) Register(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Wrap(apperr.ErrBadRequest, "invalid email address")
	}
	if len(password) < minPasswordLength {
		return apperr.Wrap(apperr.ErrBadRequest, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return err
	}

	otp, err := s.issueOTP(ctx, user.ID, models.TokenTypeRegister, nil)
	if err != nil {
		return err
	}
	s.sendRegistrationEmail(ctx, email, otp)

	s.audit(ctx, &user.ID, "user.registered", "user", user.ID.String(), nil)
	s.bus.Publish(events.SubjectUserRegistered, map[string]any{
		"user_id": user.ID,
		"email":   email,
	})
	return nil
}

// VerifyRegistration confirms a registration OTP, activates the account,
// and returns a fresh access token. The OTP is consumed atomically with
// the activation, so a second attempt with the same code fails.
func (s *Service) VerifyRegistration(ctx context.Context, email, otp string) (Auth, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return Auth{}, err
	}
	if user.IsVerifiedEmail {
		return Auth{}, apperr.Wrap(apperr.ErrAlreadyVerified, "user %s", user.ID)
	}

	token, err := s.store.TokenByUserID(ctx, user.ID)
	if err != nil {
		return Auth{}, err
	}
	if err := s.validateOTP(token, models.TokenTypeRegister, otp); err != nil {
		return Auth{}, err
	}

	tokenID := uuid.New()
	if err := s.store.ActivateUser(ctx, user.ID, otp, tokenID, s.now()); err != nil {
		return Auth{}, err
	}

	access, err := generateAccessToken(user.ID, tokenID, s.jwtSecret, s.accessTTL)
	if err != nil {
		return Auth{}, err
	}

	// Welcome email is best effort: verification already committed.
	if subject, html, terr := s.templates.Welcome(user.FirstName); terr == nil {
		if merr := s.mailer.Send(ctx, subject, html, user.Email); merr != nil {
			log.Warn().Err(merr).Str("email", user.Email).Msg("send welcome email")
		}
	}

	s.audit(ctx, &user.ID, "user.verified", "user", user.ID.String(), nil)
	s.bus.Publish(events.SubjectUserVerified, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return Auth{AccessToken: access, IsSuperuser: user.IsSuperuser}, nil
}

// Login checks credentials and eligibility and mints a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (Auth, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// A missing user and a bad password are indistinguishable to the
		// caller.
		return Auth{}, apperr.Wrap(apperr.ErrAuthentication, "incorrect email or password")
	}
	if !checkPassword(user.PasswordHash, password) {
		return Auth{}, apperr.Wrap(apperr.ErrAuthentication, "incorrect email or password")
	}
	if !user.IsActive {
		return Auth{}, apperr.Wrap(apperr.ErrForbidden, "inactive account")
	}
	if !user.IsVerifiedEmail {
		return Auth{}, apperr.Wrap(apperr.ErrForbidden, "unverified email address")
	}

	tokenID := uuid.New()
	if err := s.store.RecordLogin(ctx, user.ID, tokenID, s.now()); err != nil {
		return Auth{}, err
	}

	access, err := generateAccessToken(user.ID, tokenID, s.jwtSecret, s.accessTTL)
	if err != nil {
		return Auth{}, err
	}

	s.audit(ctx, &user.ID, "user.login", "user", user.ID.String(), nil)
	return Auth{AccessToken: access, IsSuperuser: user.IsSuperuser}, nil
}

// Logout revokes the user's current access token. Logging out twice is not
// an error.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.ClearAccessToken(ctx, userID); err != nil {
		return err
	}
	s.audit(ctx, &userID, "user.logout", "user", userID.String(), nil)
	return nil
}

// ResendOTP reissues the OTP for the given purpose and re-sends the
// matching email.
func (s *Service) ResendOTP(ctx context.Context, email, purpose string) error {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	switch purpose {
	case PurposeRegister:
		if user.IsVerifiedEmail {
			return apperr.Wrap(apperr.ErrAlreadyVerified, "user %s", user.ID)
		}
		otp, err := s.issueOTP(ctx, user.ID, models.TokenTypeRegister, nil)
		if err != nil {
			return err
		}
		s.sendRegistrationEmail(ctx, user.Email, otp)
		return nil

	case PurposeResetPass:
		otp, err := s.issueOTP(ctx, user.ID, models.TokenTypeResetPass, nil)
		if err != nil {
			return err
		}
		if subject, html, terr := s.templates.ResetPassword(otp); terr == nil {
			s.send(ctx, subject, html, user.Email)
		}
		return nil

	case PurposeChangeEmail:
		token, err := s.store.TokenByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if token.TokenType != models.TokenTypeChangeEmail || token.NewEmail == nil {
			return apperr.Wrap(apperr.ErrBadRequest, "no pending email change request")
		}
		otp, err := s.issueOTP(ctx, user.ID, models.TokenTypeChangeEmail, token.NewEmail)
		if err != nil {
			return err
		}
		// Re-verification goes to the address currently on file.
		if subject, html, terr := s.templates.ChangeEmail(otp); terr == nil {
			s.send(ctx, subject, html, user.Email)
		}
		return nil

	default:
		return apperr.Wrap(apperr.ErrBadRequest, "invalid purpose %q", purpose)
	}
}

// ResetPassword consumes a reset OTP and installs the new password.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperr.Wrap(apperr.ErrBadRequest, "password must be at least %d characters", minPasswordLength)
	}

	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	token, err := s.store.TokenByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.validateOTP(token, models.TokenTypeResetPass, otp); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.ResetPassword(ctx, user.ID, otp, hash); err != nil {
		return err
	}

	s.audit(ctx, &user.ID, "user.password_reset", "user", user.ID.String(), nil)
	return nil
}

// ChangeEmailRequest records a pending email change and mails an OTP to
// the new address to prove control of it.
func (s *Service) ChangeEmailRequest(ctx context.Context, userID uuid.UUID, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return apperr.Wrap(apperr.ErrBadRequest, "invalid email address")
	}
	if _, err := s.store.UserByEmail(ctx, newEmail); err == nil {
		return apperr.Wrap(apperr.ErrConflict, "email %s", newEmail)
	}

	otp, err := s.issueOTP(ctx, userID, models.TokenTypeChangeEmail, &newEmail)
	if err != nil {
		return err
	}
	if subject, html, terr := s.templates.ChangeEmail(otp); terr == nil {
		s.send(ctx, subject, html, newEmail)
	}
	return nil
}

// VerifyChangeEmail consumes the change-email OTP and swaps the account
// email to the pending address.
func (s *Service) VerifyChangeEmail(ctx context.Context, userID uuid.UUID, otp string) error {
	token, err := s.store.TokenByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if token.NewEmail == nil {
		return apperr.Wrap(apperr.ErrBadRequest, "no pending email change request")
	}
	if err := s.validateOTP(token, models.TokenTypeChangeEmail, otp); err != nil {
		return err
	}

	if err := s.store.CompleteEmailChange(ctx, userID, otp, *token.NewEmail); err != nil {
		return err
	}
	s.audit(ctx, &userID, "user.email_changed", "user", userID.String(), nil)
	return nil
}

// CurrentUser resolves an access token to its active user, rejecting
// tokens revoked by logout.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	userID, tokenID, err := parseAccessToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	token, err := s.store.TokenByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrAuthentication, "unknown token subject")
	}
	if token.AccessTokenID == nil || *token.AccessTokenID != tokenID {
		return nil, apperr.Wrap(apperr.ErrAuthentication, "token revoked")
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrAuthentication, "unknown token subject")
	}
	if !user.IsActive {
		return nil, apperr.Wrap(apperr.ErrForbidden, "inactive account")
	}
	return user, nil
}

// issueOTP generates a fresh code and persists it, overwriting any pending
// purpose.
func (s *Service) issueOTP(ctx context.Context, userID uuid.UUID, tokenType string, newEmail *string) (string, error) {
	otp, err := generateOTP()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(s.otpTTL)
	if err := s.store.SetOTP(ctx, userID, tokenType, otp, expires, newEmail); err != nil {
		return "", err
	}
	return otp, nil
}

// validateOTP checks purpose, presence, expiry, and value in constant time.
func (s *Service) validateOTP(token *models.UserToken, tokenType, otp string) error {
	if token.TokenType != tokenType || token.OTP == "" || otp == "" {
		return apperr.Wrap(apperr.ErrInvalidOtp, "no pending %s otp", tokenType)
	}
	if token.OTPExpiresAt == nil || s.now().After(*token.OTPExpiresAt) {
		return apperr.Wrap(apperr.ErrInvalidOtp, "otp expired")
	}
	if !otpEqual(token.OTP, otp) {
		return apperr.Wrap(apperr.ErrInvalidOtp, "otp mismatch")
	}
	return nil
}

func (s *Service) sendRegistrationEmail(ctx context.Context, email, otp string) {
	minutes := int(s.otpTTL.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	if subject, html, err := s.templates.VerifyRegistration(otp, minutes); err == nil {
		s.send(ctx, subject, html, email)
	}
}

// send delivers mail on the registration/reset/change paths. Failures are
// logged, never propagated: account state changes are already committed.
func (s *Service) send(ctx context.Context, subject, html, to string) {
	if err := s.mailer.Send(ctx, subject, html, to); err != nil {
		log.Warn().Err(err).Str("email", to).Str("subject", subject).Msg("send email")
	}
}

func (s *Service) audit(ctx context.Context, actorID *uuid.UUID, action, targetType, targetID string, meta map[string]any) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   &targetID,
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.store.RecordAudit(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("record audit entry")
	}
}
