package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// noteUsecaser is the subset of NoteUsecase the handler needs.
type noteUsecaser interface {
	Create(ctx context.Context, input usecase.CreateNoteInput) (*domain.Note, error)
	List(ctx context.Context, userID string) ([]*domain.Note, error)
	Get(ctx context.Context, id, userID string) (*domain.Note, error)
	Update(ctx context.Context, id, userID, content string) (*domain.Note, error)
	Delete(ctx context.Context, id, userID string) error
}

type NoteHandler struct {
	noteUsecase noteUsecaser
	logger      *slog.Logger
}

func NewNoteHandler(noteUsecase noteUsecaser, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteUsecase: noteUsecase,
		logger:      logger.With("component", "note_handler"),
	}
}

type noteResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	User         string    `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		User:         n.UserEmail,
		CreatedAt:    n.CreatedAt,
		LastModified: n.LastModified,
	}
}

type createNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// POST /createNotes
func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.noteUsecase.Create(c.Request.Context(), usecase.CreateNoteInput{
		UserID:    c.GetString("userID"),
		UserEmail: c.GetString("email"),
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create note", "error", err)
		failInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Note created successfully",
		"data":    toNoteResponse(note),
	})
}

// GET /viewNotes
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteUsecase.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list notes", "error", err)
		failInternal(c, err)
		return
	}

	if len(notes) == 0 {
		fail(c, http.StatusNotFound, errNoNotes)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(out),
		"data":    out,
	})
}

// GET /viewNote/:id
func (h *NoteHandler) GetByID(c *gin.Context) {
	noteID := c.Param("id")

	note, err := h.noteUsecase.Get(c.Request.Context(), noteID, c.GetString("userID"))
	if err != nil {
		h.respondNoteError(c, err, errNotOwnerView, "get note", noteID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toNoteResponse(note)})
}

type updateNoteRequest struct {
	Content string `json:"content"`
}

// PUT /updateNotes/:id — empty content keeps the existing text.
func (h *NoteHandler) Update(c *gin.Context) {
	noteID := c.Param("id")

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.noteUsecase.Update(c.Request.Context(), noteID, c.GetString("userID"), req.Content)
	if err != nil {
		h.respondNoteError(c, err, errNotOwnerUpdate, "update note", noteID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note updated successfully",
		"data":    toNoteResponse(note),
	})
}

// DELETE /deleteNotes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID := c.Param("id")

	if err := h.noteUsecase.Delete(c.Request.Context(), noteID, c.GetString("userID")); err != nil {
		h.respondNoteError(c, err, errNotOwnerDelete, "delete note", noteID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted successfully"})
}

func (h *NoteHandler) respondNoteError(c *gin.Context, err error, forbiddenMsg, op, noteID string) {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		fail(c, http.StatusNotFound, errNoteNotFound)
	case errors.Is(err, domain.ErrNotNoteOwner):
		fail(c, http.StatusForbidden, forbiddenMsg)
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "note_id", noteID, "error", err)
		failInternal(c, err)
	}
}
