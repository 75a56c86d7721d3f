package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, string, error)
	CreateUser(ctx context.Context, input usecase.SignupInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

// The session cookie is cross-site (the frontend is served from another
// origin), so it must be Secure with SameSite=None.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, token, int(usecase.SessionTTL.Seconds()), "/", "", true, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", true, true)
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /user/sendOTP
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errEmailRequired)
		return
	}

	if err := h.authUsecase.SendOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrEmailDelivery) {
			h.logger.ErrorContext(c.Request.Context(), "send otp email", "error", err)
			fail(c, http.StatusInternalServerError, errOTPSendFailed)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "send otp", "error", err)
		failInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to email"})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp"   binding:"required"`
}

// POST /user/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errEmailOTPRequired)
		return
	}

	if err := h.authUsecase.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, domain.ErrOTPInvalid) {
			fail(c, http.StatusBadRequest, errOTPInvalid)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "verify otp", "error", err)
		failInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP verified successfully. You can now proceed to signup.",
	})
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Age      int    `json:"age"      binding:"omitempty,min=0"`
}

// POST /user/signup — registration gated on a verified OTP.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errFieldsRequired)
		return
	}

	user, token, err := h.authUsecase.Signup(c.Request.Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotVerified):
			fail(c, http.StatusBadRequest, errNotVerified)
		case errors.Is(err, domain.ErrUserExists):
			fail(c, http.StatusBadRequest, errUserExists)
		default:
			h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
			failInternal(c, err)
		}
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// POST /user/createUser — registration without the OTP gate.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errFieldsRequired)
		return
	}

	user, token, err := h.authUsecase.CreateUser(c.Request.Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			fail(c, http.StatusBadRequest, errUserExists)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create user", "error", err)
		failInternal(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "New User Created",
		"userId":  user.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, errFieldsRequired)
		return
	}

	_, token, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, domain.ErrWrongPassword):
			fail(c, http.StatusUnauthorized, errWrongPassword)
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			failInternal(c, err)
		}
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged in successfully"})
}

// POST /user/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// GET /user/loggedIn
func (h *AuthHandler) LoggedIn(c *gin.Context) {
	user, err := h.authUsecase.Me(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "logged in lookup", "error", err)
		failInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"username": user.Username,
			"email":    user.Email,
			"age":      user.Age,
		},
	})
}
