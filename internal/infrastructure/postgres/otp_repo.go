package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

func (r *OTPRepository) Upsert(ctx context.Context, email, code string) error {
	query := `
		INSERT INTO otp_codes (email, code, is_verified, created_at)
		VALUES ($1, $2, FALSE, NOW())
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, is_verified = FALSE, created_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, email, code); err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) Verify(ctx context.Context, email, code string) error {
	// Single statement so a matching code can only be flipped in one place.
	query := `
		UPDATE otp_codes
		SET    is_verified = TRUE
		WHERE  email = $1
		  AND  code  = $2
		  AND  created_at > $3`

	tag, err := r.pool.Exec(ctx, query, email, code, freshCutoff())
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}

func (r *OTPRepository) FindVerified(ctx context.Context, email string) (*domain.OTP, error) {
	query := `
		SELECT id, email, code, is_verified, created_at
		FROM otp_codes
		WHERE email = $1
		  AND is_verified = TRUE
		  AND created_at > $2`

	var o domain.OTP
	row := r.pool.QueryRow(ctx, query, email, freshCutoff())
	err := row.Scan(&o.ID, &o.Email, &o.Code, &o.IsVerified, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, fmt.Errorf("scan otp: %w", err)
	}
	return &o, nil
}

func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otp_codes WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}

// freshCutoff is the oldest created_at an OTP row may have and still count
// as alive. Rows past it are dead even if the purger has not swept yet.
func freshCutoff() time.Time {
	return time.Now().Add(-domain.OTPTTL)
}
