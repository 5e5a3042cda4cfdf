package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// OTPTTL is how long a one-time code stays valid.
const OTPTTL = 2 * time.Minute

var ErrOTPMismatch = errors.New("invalid or expired OTP")

// OTPStore keeps short-lived one-time codes in the shared cache so multiple
// server instances agree on them. Codes are consumed on first successful
// verification.
type OTPStore struct {
	cache Cache
	ttl   time.Duration
}

func NewOTPStore(cache Cache) *OTPStore {
	return &OTPStore{cache: cache, ttl: OTPTTL}
}

// Generate creates a 4-digit code for the email and stores it with a TTL.
// A new code replaces any previous one for the same email.
func (s *OTPStore) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	code := fmt.Sprintf("%d", n.Int64()+1000)

	if err := s.cache.Set(ctx, otpKey(email), code, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}
	return code, nil
}

// Verify checks the code for the email and consumes it on success. A wrong
// code does not consume the stored one, so the user may retry until expiry.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	var stored string
	if err := s.cache.Get(ctx, otpKey(email), &stored); err != nil {
		return ErrOTPMismatch
	}
	if stored != code {
		return ErrOTPMismatch
	}

	var consumed string
	if err := s.cache.GetDel(ctx, otpKey(email), &consumed); err != nil || consumed != code {
		return ErrOTPMismatch
	}
	return nil
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}
