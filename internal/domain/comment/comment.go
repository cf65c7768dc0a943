package comment

import (
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("comment not found")
	ErrNotAuthor = errors.New("user not authorized")
	ErrInvalid   = errors.New("please enter all fields")
)

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	RecipeID  string    `json:"recipeId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type View struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	RecipeID  string       `json:"recipeId"`
	User      user.Summary `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CreateCommentRequest struct {
	Text     string `json:"text" binding:"required,max=2000"`
	RecipeID string `json:"recipeId" binding:"required"`
}

// New trims the text and rejects blanks the binding tags let through.
func New(authorID string, req CreateCommentRequest) (Comment, error) {
	text := strings.TrimSpace(req.Text)
	recipeID := strings.TrimSpace(req.RecipeID)

	if text == "" || recipeID == "" || authorID == "" {
		return Comment{}, ErrInvalid
	}

	now := time.Now().UTC()
	return Comment{
		ID:        uuid.NewString(),
		Text:      text,
		RecipeID:  recipeID,
		UserID:    authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
