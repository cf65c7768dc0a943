package recipe

import (
	"errors"
	"slices"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("recipe not found")
	ErrNotOwner     = errors.New("user not authorized")
	ErrAlreadyLiked = errors.New("recipe already liked")
	ErrNotYetLiked  = errors.New("recipe has not yet been liked")
)

// Recipe is the stored record. Likes holds user ids, most recent first.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	ImageURL     string    `json:"imageUrl"`
	CreatedBy    string    `json:"createdBy"`
	Likes        []string  `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// View is what clients get: owner and likers resolved to user summaries.
type View struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Ingredients  []string       `json:"ingredients"`
	Instructions string         `json:"instructions"`
	ImageURL     string         `json:"imageUrl"`
	CreatedBy    user.Summary   `json:"createdBy"`
	Likes        []user.Summary `json:"likes"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type CreateRecipeRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Instructions string   `json:"instructions" binding:"required"`
	ImageURL     string   `json:"imageUrl" binding:"required"`
}

// UpdateRecipeRequest merges only the fields that are present.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Ingredients  *[]string `json:"ingredients" binding:"omitempty,min=1,dive,required"`
	Instructions *string   `json:"instructions" binding:"omitempty,min=1"`
	ImageURL     *string   `json:"imageUrl" binding:"omitempty,min=1"`
}

func (r UpdateRecipeRequest) Empty() bool {
	return r.Title == nil && r.Ingredients == nil && r.Instructions == nil && r.ImageURL == nil
}

func NewFromCreateRequest(ownerID string, req CreateRecipeRequest) Recipe {
	now := time.Now().UTC()

	return Recipe{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Ingredients:  slices.Clone(req.Ingredients),
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
		CreatedBy:    ownerID,
		Likes:        []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply merges a patch into r and bumps UpdatedAt. Owner and likes never change here.
func (r Recipe) Apply(patch UpdateRecipeRequest) Recipe {
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Ingredients != nil {
		r.Ingredients = slices.Clone(*patch.Ingredients)
	}
	if patch.Instructions != nil {
		r.Instructions = *patch.Instructions
	}
	if patch.ImageURL != nil {
		r.ImageURL = *patch.ImageURL
	}
	r.UpdatedAt = time.Now().UTC()
	return r
}

func (r Recipe) OwnedBy(userID string) bool {
	return r.CreatedBy == userID
}

func (r Recipe) LikedBy(userID string) bool {
	return slices.Contains(r.Likes, userID)
}
