package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/repository"
)

type NoteUsecase struct {
	repo repository.NoteRepository
}

func NewNoteUsecase(repo repository.NoteRepository) *NoteUsecase {
	return &NoteUsecase{repo: repo}
}

type CreateNoteInput struct {
	UserID    string
	UserEmail string
	Title     string
	Content   string
}

func (u *NoteUsecase) Create(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	content := input.Content
	if content == "" {
		content = domain.DefaultNoteContent
	}

	note, err := u.repo.Create(ctx, &domain.Note{
		Title:     input.Title,
		Content:   content,
		UserID:    input.UserID,
		UserEmail: input.UserEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (u *NoteUsecase) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	notes, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Get fetches a note by id and enforces ownership. A missing note and a
// foreign note fail differently so the handler can answer 404 vs 403.
func (u *NoteUsecase) Get(ctx context.Context, id, userID string) (*domain.Note, error) {
	return u.ownedNote(ctx, id, userID)
}

// Update replaces the note's content and bumps last_modified. An empty
// content keeps the existing text.
func (u *NoteUsecase) Update(ctx context.Context, id, userID, content string) (*domain.Note, error) {
	note, err := u.ownedNote(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if content == "" {
		content = note.Content
	}

	updated, err := u.repo.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

func (u *NoteUsecase) Delete(ctx context.Context, id, userID string) error {
	if _, err := u.ownedNote(ctx, id, userID); err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return err
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (u *NoteUsecase) ownedNote(ctx context.Context, id, userID string) (*domain.Note, error) {
	note, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note.UserID != userID {
		return nil, domain.ErrNotNoteOwner
	}
	return note, nil
}
