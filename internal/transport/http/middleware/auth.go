package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the session JWT.
const SessionCookie = "token"

const errUnauthorized = "Unauthorized"

// Auth validates the session JWT from the cookie and sets "userID" and
// "email" in the gin context. Expired tokens fail here; there is no refresh.
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, err := c.Cookie(SessionCookie)
		if err != nil || rawToken == "" {
			abortUnauthorized(c)
			return
		}

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			abortUnauthorized(c)
			return
		}
		email, ok := claims["email"].(string)
		if !ok || email == "" {
			abortUnauthorized(c)
			return
		}

		c.Set("userID", userID)
		c.Set("email", email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": errUnauthorized,
	})
}
