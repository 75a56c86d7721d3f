package usecase

import (
	"fmt"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL bounds every session token and the cookie that carries it.
const SessionTTL = time.Hour

// sessionToken is the only place session JWTs are built. Signup, createUser
// and login all issue the same claim set with the same expiry.
func (u *AuthUsecase) sessionToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(SessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
