package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrWrongPassword = errors.New("wrong password")
	ErrTokenInvalid  = errors.New("token is invalid or expired")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Age          int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
