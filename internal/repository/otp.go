package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
)

type OTPRepository interface {
	// Upsert stores a fresh code for the email, resetting the
	// verification flag and the expiry clock.
	Upsert(ctx context.Context, email, code string) error
	// Verify atomically marks the record verified when email and code
	// match an unexpired row. Returns domain.ErrOTPInvalid otherwise.
	Verify(ctx context.Context, email, code string) error
	// FindVerified returns the unexpired, verified record for the email,
	// or domain.ErrOTPInvalid if there is none.
	FindVerified(ctx context.Context, email string) (*domain.OTP, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
