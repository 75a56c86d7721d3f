package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

type fakeOTPRepo struct {
	upsert        func(ctx context.Context, email, code string) error
	verify        func(ctx context.Context, email, code string) error
	findVerified  func(ctx context.Context, email string) (*domain.OTP, error)
	delete        func(ctx context.Context, email string) error
	deleteExpired func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeOTPRepo) Upsert(ctx context.Context, email, code string) error {
	return r.upsert(ctx, email, code)
}

func (r *fakeOTPRepo) Verify(ctx context.Context, email, code string) error {
	return r.verify(ctx, email, code)
}

func (r *fakeOTPRepo) FindVerified(ctx context.Context, email string) (*domain.OTP, error) {
	return r.findVerified(ctx, email)
}

func (r *fakeOTPRepo) Delete(ctx context.Context, email string) error {
	return r.delete(ctx, email)
}

func (r *fakeOTPRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpired(ctx, cutoff)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newUsecase(users *fakeUserRepo, otps *fakeOTPRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(users, otps, sender, []byte(testJWTKey))
}

const testEmail = "test@example.com"

func userNotFoundRepo() *fakeUserRepo {
	return &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
}

func parseClaims(t *testing.T, signed string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method")
		}
		return []byte(testJWTKey), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("returned JWT is invalid: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("could not cast claims")
	}
	return claims
}

// ---- SendOTP ----

func TestSendOTP_EmailsTheStoredCode(t *testing.T) {
	var storedCode, mailedBody string

	otps := &fakeOTPRepo{
		upsert: func(_ context.Context, _, code string) error {
			storedCode = code
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, body string) error {
			mailedBody = body
			return nil
		},
	}

	if err := newUsecase(&fakeUserRepo{}, otps, sender).SendOTP(context.Background(), testEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(storedCode) != 6 {
		t.Fatalf("code %q is not 6 digits", storedCode)
	}
	for _, ch := range storedCode {
		if ch < '0' || ch > '9' {
			t.Fatalf("code %q contains non-digit %q", storedCode, ch)
		}
	}
	if !strings.Contains(mailedBody, storedCode) {
		t.Errorf("email body %q does not contain stored code %q", mailedBody, storedCode)
	}
}

func TestSendOTP_StoreError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	otps := &fakeOTPRepo{
		upsert: func(_ context.Context, _, _ string) error { return repoErr },
	}
	sender := &fakeEmailSender{}

	err := newUsecase(&fakeUserRepo{}, otps, sender).SendOTP(context.Background(), testEmail)
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

func TestSendOTP_SendFailure_IsDeliveryError(t *testing.T) {
	otps := &fakeOTPRepo{
		upsert: func(_ context.Context, _, _ string) error { return nil },
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return errors.New("smtp unavailable") },
	}

	err := newUsecase(&fakeUserRepo{}, otps, sender).SendOTP(context.Background(), testEmail)
	if !errors.Is(err, domain.ErrEmailDelivery) {
		t.Errorf("want ErrEmailDelivery, got %v", err)
	}
}

// ---- VerifyOTP ----

func TestVerifyOTP_InvalidCode_ReturnsErrOTPInvalid(t *testing.T) {
	otps := &fakeOTPRepo{
		verify: func(_ context.Context, _, _ string) error { return domain.ErrOTPInvalid },
	}

	err := newUsecase(&fakeUserRepo{}, otps, &fakeEmailSender{}).VerifyOTP(context.Background(), testEmail, "000000")
	if !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("want ErrOTPInvalid, got %v", err)
	}
}

func TestVerifyOTP_MatchingCode_Succeeds(t *testing.T) {
	var gotEmail, gotCode string
	otps := &fakeOTPRepo{
		verify: func(_ context.Context, email, code string) error {
			gotEmail, gotCode = email, code
			return nil
		},
	}

	if err := newUsecase(&fakeUserRepo{}, otps, &fakeEmailSender{}).VerifyOTP(context.Background(), testEmail, "123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmail != testEmail || gotCode != "123456" {
		t.Errorf("verify called with (%q, %q)", gotEmail, gotCode)
	}
}

// ---- Signup ----

func TestSignup_WithoutVerifiedOTP_Fails(t *testing.T) {
	otps := &fakeOTPRepo{
		findVerified: func(_ context.Context, _ string) (*domain.OTP, error) {
			return nil, domain.ErrOTPInvalid
		},
	}

	_, _, err := newUsecase(userNotFoundRepo(), otps, &fakeEmailSender{}).Signup(context.Background(), usecase.SignupInput{
		Username: "test", Email: testEmail, Password: "secret", Age: 20,
	})
	if !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Errorf("want ErrEmailNotVerified, got %v", err)
	}
}

func TestSignup_ExistingEmail_FailsRegardlessOfOTPState(t *testing.T) {
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: testEmail}, nil
		},
	}
	// No OTP record at all; the user check must win anyway.
	otps := &fakeOTPRepo{
		findVerified: func(_ context.Context, _ string) (*domain.OTP, error) {
			return nil, domain.ErrOTPInvalid
		},
	}

	_, _, err := newUsecase(users, otps, &fakeEmailSender{}).Signup(context.Background(), usecase.SignupInput{
		Username: "test", Email: testEmail, Password: "secret", Age: 20,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("want ErrUserExists, got %v", err)
	}
}

func TestSignup_Success_HashesPasswordAndConsumesOTP(t *testing.T) {
	var createdUser *domain.User
	var deletedEmail string

	users := userNotFoundRepo()
	users.create = func(_ context.Context, user *domain.User) (*domain.User, error) {
		createdUser = user
		out := *user
		out.ID = "user-1"
		return &out, nil
	}
	otps := &fakeOTPRepo{
		findVerified: func(_ context.Context, email string) (*domain.OTP, error) {
			return &domain.OTP{Email: email, IsVerified: true}, nil
		},
		delete: func(_ context.Context, email string) error {
			deletedEmail = email
			return nil
		},
	}

	user, token, err := newUsecase(users, otps, &fakeEmailSender{}).Signup(context.Background(), usecase.SignupInput{
		Username: "test", Email: testEmail, Password: "secret", Age: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != "user-1" {
		t.Errorf("user.ID = %q", user.ID)
	}
	if createdUser.PasswordHash == "secret" {
		t.Error("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte("secret")) != nil {
		t.Error("stored hash does not match the password")
	}
	if deletedEmail != testEmail {
		t.Errorf("otp consumed for %q, want %q", deletedEmail, testEmail)
	}

	claims := parseClaims(t, token)
	if claims["sub"] != "user-1" {
		t.Errorf("sub = %v", claims["sub"])
	}
	if claims["email"] != testEmail {
		t.Errorf("email = %v", claims["email"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("missing exp claim")
	}
	if until := time.Until(time.Unix(int64(exp), 0)); until <= 0 || until > usecase.SessionTTL+time.Minute {
		t.Errorf("exp %v not within the session TTL", until)
	}
}

// ---- CreateUser ----

func TestCreateUser_SkipsOTPCheck(t *testing.T) {
	users := &fakeUserRepo{
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			out := *user
			out.ID = "user-2"
			return &out, nil
		},
	}
	otps := &fakeOTPRepo{
		findVerified: func(_ context.Context, _ string) (*domain.OTP, error) {
			t.Fatal("createUser must not consult the otp store")
			return nil, nil
		},
	}

	user, token, err := newUsecase(users, otps, &fakeEmailSender{}).CreateUser(context.Background(), usecase.SignupInput{
		Username: "test", Email: testEmail, Password: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-2" || token == "" {
		t.Errorf("user = %+v, token = %q", user, token)
	}
}

func TestCreateUser_DuplicateEmail_ReturnsUserExists(t *testing.T) {
	users := &fakeUserRepo{
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}

	_, _, err := newUsecase(users, &fakeOTPRepo{}, &fakeEmailSender{}).CreateUser(context.Background(), usecase.SignupInput{
		Username: "test", Email: testEmail, Password: "secret",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("want ErrUserExists, got %v", err)
	}
}

// ---- Login ----

func loginUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{ID: "user-1", Email: testEmail, PasswordHash: string(hash)}
}

func TestLogin_UnknownEmail_ReturnsUserNotFound(t *testing.T) {
	_, _, err := newUsecase(userNotFoundRepo(), &fakeOTPRepo{}, &fakeEmailSender{}).Login(context.Background(), testEmail, "secret")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestLogin_WrongPassword_Fails(t *testing.T) {
	stored := loginUser(t, "right-password")
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}

	_, _, err := newUsecase(users, &fakeOTPRepo{}, &fakeEmailSender{}).Login(context.Background(), testEmail, "wrong-password")
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Errorf("want ErrWrongPassword, got %v", err)
	}
}

func TestLogin_Success_IssuesSessionToken(t *testing.T) {
	stored := loginUser(t, "secret")
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}

	user, token, err := newUsecase(users, &fakeOTPRepo{}, &fakeEmailSender{}).Login(context.Background(), testEmail, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != stored.ID {
		t.Errorf("user.ID = %q", user.ID)
	}

	claims := parseClaims(t, token)
	if claims["sub"] != stored.ID || claims["email"] != stored.Email {
		t.Errorf("claims = %v", claims)
	}
}
