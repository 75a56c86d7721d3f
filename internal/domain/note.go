package domain

import (
	"errors"
	"time"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNotNoteOwner = errors.New("note belongs to another user")
)

// DefaultNoteContent is used when a note is created without content.
const DefaultNoteContent = "hello this is my first Note"

type Note struct {
	ID      string
	Title   string
	Content string

	// UserID is the owner reference used for every access check.
	// UserEmail is denormalized alongside it because API responses
	// expose the owner by email.
	UserID    string
	UserEmail string

	CreatedAt    time.Time
	LastModified time.Time
}
