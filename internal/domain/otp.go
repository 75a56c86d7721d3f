package domain

import (
	"errors"
	"time"
)

var (
	ErrOTPInvalid       = errors.New("otp is invalid or expired")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrEmailDelivery    = errors.New("failed to deliver otp email")
)

// OTPTTL is how long a code stays usable. Lookups ignore older rows and
// the purger deletes them, so an expired code is indistinguishable from
// one that was never sent.
const OTPTTL = 5 * time.Minute

type OTP struct {
	ID         string
	Email      string
	Code       string
	IsVerified bool
	CreatedAt  time.Time
}
