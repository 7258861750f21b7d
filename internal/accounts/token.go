package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shopd/internal/apperr"
)

// claims carries the user id plus the token id used for server-side
// revocation on logout.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// generateAccessToken mints a signed JWT whose ID matches the token id
// stored on the user's token row.
func generateAccessToken(userID, tokenID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID.String(),
	})
	return token.SignedString(secret)
}

// parseAccessToken validates the signature and expiry and returns the user
// and token ids.
func parseAccessToken(tokenString string, secret []byte) (userID, tokenID uuid.UUID, err error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, uuid.Nil, apperr.Wrap(apperr.ErrAuthentication, "invalid access token")
	}

	userID, err = uuid.Parse(parsed.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Wrap(apperr.ErrAuthentication, "invalid token subject")
	}
	tokenID, err = uuid.Parse(parsed.ID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Wrap(apperr.ErrAuthentication, "invalid token id")
	}
	return userID, tokenID, nil
}
