package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/email"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	users  repository.UserRepository
	otps   repository.OTPRepository
	email  email.Sender
	jwtKey []byte
}

func NewAuthUsecase(users repository.UserRepository, otps repository.OTPRepository, emailSender email.Sender, jwtKey []byte) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		otps:   otps,
		email:  emailSender,
		jwtKey: jwtKey,
	}
}

// SendOTP stores a fresh 6-digit code for the email and dispatches it.
// Re-sending overwrites the previous code and resets its expiry clock.
func (u *AuthUsecase) SendOTP(ctx context.Context, emailAddr string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := u.otps.Upsert(ctx, emailAddr, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	subject := "Your Notes API verification code"
	body := fmt.Sprintf(
		`<p>Your verification code is <strong>%s</strong>. It expires in 5 minutes.</p>`,
		code,
	)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}

	metrics.OTPSentTotal.Inc()
	return nil
}

// VerifyOTP flips the record to verified when the code matches an unexpired
// row. Expired rows are purged, so a stale code fails the same way as a
// wrong one.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, emailAddr, code string) error {
	if err := u.otps.Verify(ctx, emailAddr, code); err != nil {
		if errors.Is(err, domain.ErrOTPInvalid) {
			metrics.OTPVerifyTotal.WithLabelValues("invalid").Inc()
			return err
		}
		return fmt.Errorf("verify otp: %w", err)
	}

	metrics.OTPVerifyTotal.WithLabelValues("ok").Inc()
	return nil
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Age      int
}

// Signup registers a user whose email holds a verified OTP, consumes the
// OTP record, and issues a session token.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	if _, err := u.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}

	if _, err := u.otps.FindVerified(ctx, input.Email); err != nil {
		if errors.Is(err, domain.ErrOTPInvalid) {
			return nil, "", domain.ErrEmailNotVerified
		}
		return nil, "", fmt.Errorf("check otp: %w", err)
	}

	user, token, err := u.createUser(ctx, input)
	if err != nil {
		return nil, "", err
	}

	if err := u.otps.Delete(ctx, input.Email); err != nil {
		return nil, "", fmt.Errorf("consume otp: %w", err)
	}

	metrics.SignupTotal.WithLabelValues("signup").Inc()
	return user, token, nil
}

// CreateUser registers a user without any OTP check. It predates the
// verified signup flow and is kept until the frontend stops calling it.
func (u *AuthUsecase) CreateUser(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	user, token, err := u.createUser(ctx, input)
	if err != nil {
		return nil, "", err
	}

	metrics.SignupTotal.WithLabelValues("createUser").Inc()
	return user, token, nil
}

func (u *AuthUsecase) createUser(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Age:          input.Age,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := u.sessionToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the password against the stored hash and issues a session token.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.User, string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginTotal.WithLabelValues("not_found").Inc()
			return nil, "", err
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginTotal.WithLabelValues("wrong_password").Inc()
		return nil, "", domain.ErrWrongPassword
	}

	token, err := u.sessionToken(user)
	if err != nil {
		return nil, "", err
	}

	metrics.LoginTotal.WithLabelValues("ok").Inc()
	return user, token, nil
}

// Me returns the profile of the authenticated user.
func (u *AuthUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
