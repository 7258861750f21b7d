package accounts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopd/internal/apperr"
	"shopd/internal/config"
	"shopd/internal/models"
	"shopd/internal/notify"
)

// --- fakes ---

type memStore struct {
	users  map[uuid.UUID]*models.User
	emails map[string]uuid.UUID
	tokens map[uuid.UUID]*models.UserToken
	audits []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[uuid.UUID]*models.User{},
		emails: map[string]uuid.UUID{},
		tokens: map[uuid.UUID]*models.UserToken{},
	}
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	id, ok := m.emails[email]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "user %s", email)
	}
	u := *m.users[id]
	return &u, nil
}

func (m *memStore) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "user %s", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.emails[user.Email]; ok {
		return apperr.Wrap(apperr.ErrConflict, "email %s", user.Email)
	}
	user.ID = uuid.New()
	user.DateJoined = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	m.emails[user.Email] = user.ID
	m.tokens[user.ID] = &models.UserToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenType: models.TokenTypeNone,
	}
	return nil
}

func (m *memStore) TokenByUserID(_ context.Context, userID uuid.UUID) (*models.UserToken, error) {
	tok, ok := m.tokens[userID]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "token state for user %s", userID)
	}
	cp := *tok
	return &cp, nil
}

func (m *memStore) SetOTP(_ context.Context, userID uuid.UUID, tokenType, otp string, expiresAt time.Time, newEmail *string) error {
	tok, ok := m.tokens[userID]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "token state for user %s", userID)
	}
	tok.TokenType = tokenType
	tok.OTP = otp
	tok.OTPExpiresAt = &expiresAt
	tok.NewEmail = newEmail
	return nil
}

func (m *memStore) consume(userID uuid.UUID, tokenType, otp string, accessTokenID *uuid.UUID) error {
	tok, ok := m.tokens[userID]
	if !ok || tok.TokenType != tokenType || tok.OTP != otp {
		return apperr.Wrap(apperr.ErrInvalidOtp, "otp already consumed for user %s", userID)
	}
	tok.TokenType = models.TokenTypeNone
	tok.OTP = ""
	tok.OTPExpiresAt = nil
	tok.NewEmail = nil
	if accessTokenID != nil {
		tok.AccessTokenID = accessTokenID
	}
	return nil
}

func (m *memStore) ActivateUser(_ context.Context, userID uuid.UUID, otp string, accessTokenID uuid.UUID, now time.Time) error {
	if err := m.consume(userID, models.TokenTypeRegister, otp, &accessTokenID); err != nil {
		return err
	}
	u := m.users[userID]
	u.IsVerifiedEmail = true
	u.IsActive = true
	u.LastLogin = &now
	return nil
}

func (m *memStore) ResetPassword(_ context.Context, userID uuid.UUID, otp, newHash string) error {
	if err := m.consume(userID, models.TokenTypeResetPass, otp, nil); err != nil {
		return err
	}
	m.users[userID].PasswordHash = newHash
	return nil
}

func (m *memStore) CompleteEmailChange(_ context.Context, userID uuid.UUID, otp, newEmail string) error {
	if _, taken := m.emails[newEmail]; taken {
		return apperr.Wrap(apperr.ErrConflict, "email %s", newEmail)
	}
	if err := m.consume(userID, models.TokenTypeChangeEmail, otp, nil); err != nil {
		return err
	}
	u := m.users[userID]
	delete(m.emails, u.Email)
	u.Email = newEmail
	m.emails[newEmail] = userID
	return nil
}

func (m *memStore) RecordLogin(_ context.Context, userID uuid.UUID, accessTokenID uuid.UUID, now time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "user %s", userID)
	}
	u.LastLogin = &now
	m.tokens[userID].AccessTokenID = &accessTokenID
	return nil
}

func (m *memStore) ClearAccessToken(_ context.Context, userID uuid.UUID) error {
	if tok, ok := m.tokens[userID]; ok {
		tok.AccessTokenID = nil
	}
	return nil
}

func (m *memStore) RecordAudit(_ context.Context, entry *models.AuditLog) error {
	m.audits = append(m.audits, *entry)
	return nil
}

type sentMail struct {
	Subject string
	HTML    string
	To      string
}

type memMailer struct {
	sent []sentMail
	err  error
}

func (m *memMailer) Send(_ context.Context, subject, html, to string, _ ...notify.Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Subject: subject, HTML: html, To: to})
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, *memMailer) {
	t.Helper()

	templates, err := notify.NewTemplates("shopd")
	require.NoError(t, err)

	store := newMemStore()
	mailer := &memMailer{}
	svc := NewService(store, mailer, templates, nil, config.Config{
		JWTSigningKey:  "test-signing-key",
		AccessTokenTTL: time.Hour,
		OTPExpiry:      6 * time.Minute,
	})
	return svc, store, mailer
}

func register(t *testing.T, svc *Service, store *memStore, email string) (*models.User, string) {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), email, "pw123456"))
	user, err := store.UserByEmail(context.Background(), email)
	require.NoError(t, err)
	return user, store.tokens[user.ID].OTP
}

// --- tests ---

func TestRegister(t *testing.T) {
	svc, store, mailer := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")

	assert.False(t, user.IsVerifiedEmail)
	assert.False(t, user.IsActive)
	assert.Len(t, otp, 6)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].HTML, otp)

	err := svc.Register(ctx, "a@x.com", "pw123456")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Register(ctx, "not-an-email", "pw123456"), apperr.ErrBadRequest)
	assert.ErrorIs(t, svc.Register(ctx, "a@x.com", "short"), apperr.ErrBadRequest)
}

func TestLoginBeforeVerificationForbidden(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, store, "a@x.com")

	_, err := svc.Login(ctx, "a@x.com", "pw123456")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestVerifyRegistration(t *testing.T) {
	svc, store, mailer := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")

	auth, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)
	require.NotEmpty(t, auth.AccessToken)

	verified := store.users[user.ID]
	assert.True(t, verified.IsVerifiedEmail)
	assert.True(t, verified.IsActive)
	assert.NotNil(t, verified.LastLogin)

	// Returned token resolves to the active user.
	current, err := svc.CurrentUser(ctx, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	// Welcome email followed the verification one.
	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[1].Subject, "Welcome")

	// Subsequent login with the original credentials succeeds.
	login, err := svc.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestVerifyRegistrationWrongOTP(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")

	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	_, err := svc.VerifyRegistration(ctx, "a@x.com", wrong)
	assert.ErrorIs(t, err, apperr.ErrInvalidOtp)

	// Account state unchanged.
	assert.False(t, store.users[user.ID].IsVerifiedEmail)
	assert.False(t, store.users[user.ID].IsActive)
}

func TestVerifyRegistrationExpiredOTP(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")
	past := time.Now().Add(-time.Minute)
	store.tokens[user.ID].OTPExpiresAt = &past

	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	assert.ErrorIs(t, err, apperr.ErrInvalidOtp)
	assert.False(t, store.users[user.ID].IsVerifiedEmail)
}

func TestVerifyRegistrationOTPSingleUse(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, otp := register(t, svc, store, "a@x.com")

	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	_, err = svc.VerifyRegistration(ctx, "a@x.com", otp)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVerified)
}

func TestVerifyRegistrationUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.VerifyRegistration(context.Background(), "nobody@x.com", "123456")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogin(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, otp := register(t, svc, store, "a@x.com")
	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	auth, err := svc.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.False(t, auth.IsSuperuser)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	_, err = svc.Login(ctx, "nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, otp := register(t, svc, store, "a@x.com")
	auth, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, auth.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err = svc.CurrentUser(ctx, auth.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	// Logging out again is not an error.
	assert.NoError(t, svc.Logout(ctx, user.ID))
}

func TestResendOTP(t *testing.T) {
	svc, store, mailer := newTestService(t)
	ctx := context.Background()

	user, first := register(t, svc, store, "a@x.com")

	t.Run("register reissues", func(t *testing.T) {
		require.NoError(t, svc.ResendOTP(ctx, "a@x.com", PurposeRegister))
		second := store.tokens[user.ID].OTP
		assert.Len(t, second, 6)
		assert.Equal(t, models.TokenTypeRegister, store.tokens[user.ID].TokenType)
		_ = first // codes may collide; the reissue itself is what matters
	})

	t.Run("reset-password always reissues", func(t *testing.T) {
		require.NoError(t, svc.ResendOTP(ctx, "a@x.com", PurposeResetPass))
		assert.Equal(t, models.TokenTypeResetPass, store.tokens[user.ID].TokenType)
		assert.Contains(t, mailer.sent[len(mailer.sent)-1].Subject, "Password Reset")
	})

	t.Run("change-email without pending request", func(t *testing.T) {
		err := svc.ResendOTP(ctx, "a@x.com", PurposeChangeEmail)
		assert.ErrorIs(t, err, apperr.ErrBadRequest)
	})

	t.Run("unknown purpose", func(t *testing.T) {
		err := svc.ResendOTP(ctx, "a@x.com", "frobnicate")
		assert.ErrorIs(t, err, apperr.ErrBadRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ResendOTP(ctx, "nobody@x.com", PurposeRegister)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestResendOTPAlreadyVerified(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")
	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	err = svc.ResendOTP(ctx, "a@x.com", PurposeRegister)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVerified)

	// No new OTP was issued.
	assert.Equal(t, models.TokenTypeNone, store.tokens[user.ID].TokenType)
	assert.Empty(t, store.tokens[user.ID].OTP)
}

func TestResetPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")
	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	require.NoError(t, svc.ResendOTP(ctx, "a@x.com", PurposeResetPass))
	resetOTP := store.tokens[user.ID].OTP

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", resetOTP, "newpw12345"))

	_, err = svc.Login(ctx, "a@x.com", "pw123456")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	auth, err := svc.Login(ctx, "a@x.com", "newpw12345")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)

	// The reset OTP was consumed.
	err = svc.ResetPassword(ctx, "a@x.com", resetOTP, "anotherpw1")
	assert.ErrorIs(t, err, apperr.ErrInvalidOtp)
}

func TestChangeEmailFlow(t *testing.T) {
	svc, store, mailer := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")
	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)

	require.NoError(t, svc.ChangeEmailRequest(ctx, user.ID, "b@x.com"))
	require.NotNil(t, store.tokens[user.ID].NewEmail)
	assert.Equal(t, "b@x.com", *store.tokens[user.ID].NewEmail)
	// Initial OTP goes to the new address.
	assert.Equal(t, "b@x.com", mailer.sent[len(mailer.sent)-1].To)

	// Resend goes to the old address.
	require.NoError(t, svc.ResendOTP(ctx, "a@x.com", PurposeChangeEmail))
	assert.Equal(t, "a@x.com", mailer.sent[len(mailer.sent)-1].To)

	changeOTP := store.tokens[user.ID].OTP
	require.NoError(t, svc.VerifyChangeEmail(ctx, user.ID, changeOTP))

	_, err = store.UserByEmail(ctx, "b@x.com")
	assert.NoError(t, err)
	_, err = store.UserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestChangeEmailRequestConflict(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, otp := register(t, svc, store, "a@x.com")
	_, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)
	register(t, svc, store, "b@x.com")

	err = svc.ChangeEmailRequest(ctx, user.ID, "b@x.com")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestWelcomeEmailFailureDoesNotFailVerification(t *testing.T) {
	svc, store, mailer := newTestService(t)
	ctx := context.Background()

	_, otp := register(t, svc, store, "a@x.com")
	mailer.err = apperr.Wrap(apperr.ErrDelivery, "smtp down")

	auth, err := svc.VerifyRegistration(ctx, "a@x.com", otp)
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
}

func TestCurrentUserRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CurrentUser(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	_, err = svc.CurrentUser(context.Background(), strings.Repeat("x", 200))
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}
