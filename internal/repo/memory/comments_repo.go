package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/recipehub/internal/domain/comment"
)

type CommentsRepo struct {
	mu    sync.RWMutex
	items map[string]comment.Comment
}

func NewCommentsRepo() *CommentsRepo {
	return &CommentsRepo{
		items: make(map[string]comment.Comment),
	}
}

func (r *CommentsRepo) Create(_ context.Context, c comment.Comment) error {
	r.mu.Lock()
	r.items[c.ID] = c
	r.mu.Unlock()

	return nil
}

func (r *CommentsRepo) GetByID(_ context.Context, id string) (comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return comment.Comment{}, comment.ErrNotFound
	}
	return c, nil
}

func (r *CommentsRepo) ListByRecipe(_ context.Context, recipeID string) ([]comment.Comment, error) {
	r.mu.RLock()
	out := make([]comment.Comment, 0)
	for _, c := range r.items {
		if c.RecipeID == recipeID {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	// newest first
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CommentsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return comment.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
