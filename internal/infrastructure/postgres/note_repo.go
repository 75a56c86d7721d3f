package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	query := `
		INSERT INTO notes (title, content, user_id, user_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, user_id, user_email, created_at, last_modified`

	row := r.pool.QueryRow(ctx, query,
		note.Title,
		note.Content,
		note.UserID,
		note.UserEmail,
	)
	return scanNote(row)
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `
		SELECT id, title, content, user_id, user_email, created_at, last_modified
		FROM notes
		WHERE id = $1`

	return scanNote(r.pool.QueryRow(ctx, query, id))
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	query, args, err := squirrel.
		Select("id", "title", "content", "user_id", "user_email", "created_at", "last_modified").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) UpdateContent(ctx context.Context, id, content string) (*domain.Note, error) {
	query := `
		UPDATE notes
		SET    content       = $2,
		       last_modified = NOW()
		WHERE id = $1
		RETURNING id, title, content, user_id, user_email, created_at, last_modified`

	return scanNote(r.pool.QueryRow(ctx, query, id, content))
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.UserEmail, &n.CreatedAt, &n.LastModified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}
