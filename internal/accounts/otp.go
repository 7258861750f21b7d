package accounts

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const otpDigits = 6

// generateOTP draws a zero-padded 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// otpEqual compares codes without leaking the mismatch position.
func otpEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
