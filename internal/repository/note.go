package repository

import (
	"context"

	"github.com/ErlanBelekov/notes-api/internal/domain"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Note, error)
	UpdateContent(ctx context.Context, id, content string) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
}
