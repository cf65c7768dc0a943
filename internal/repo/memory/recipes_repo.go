package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
)

type RecipesRepo struct {
	mu    sync.RWMutex
	items map[string]recipe.Recipe
}

func NewRecipesRepo() *RecipesRepo {
	return &RecipesRepo{
		items: make(map[string]recipe.Recipe),
	}
}

func (r *RecipesRepo) Create(_ context.Context, rec recipe.Recipe) error {
	r.mu.Lock()
	r.items[rec.ID] = clone(rec)
	r.mu.Unlock()

	return nil
}

func (r *RecipesRepo) GetByID(_ context.Context, id string) (recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[id]
	if !ok {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return clone(rec), nil
}

func (r *RecipesRepo) List(_ context.Context) ([]recipe.Recipe, error) {
	return r.filter(func(recipe.Recipe) bool { return true }), nil
}

func (r *RecipesRepo) ListByOwner(_ context.Context, ownerID string) ([]recipe.Recipe, error) {
	return r.filter(func(rec recipe.Recipe) bool { return rec.CreatedBy == ownerID }), nil
}

// Update writes the editable fields only; owner and likes stay as stored.
func (r *RecipesRepo) Update(_ context.Context, rec recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[rec.ID]
	if !ok {
		return recipe.ErrNotFound
	}

	cur.Title = rec.Title
	cur.Ingredients = slices.Clone(rec.Ingredients)
	cur.Instructions = rec.Instructions
	cur.ImageURL = rec.ImageURL
	cur.UpdatedAt = rec.UpdatedAt
	r.items[rec.ID] = cur
	return nil
}

func (r *RecipesRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return recipe.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RecipesRepo) AddLike(_ context.Context, recipeID, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[recipeID]
	if !ok {
		return nil, recipe.ErrNotFound
	}

	if slices.Contains(cur.Likes, userID) {
		return nil, recipe.ErrAlreadyLiked
	}

	cur.Likes = append([]string{userID}, cur.Likes...)
	r.items[recipeID] = cur
	return slices.Clone(cur.Likes), nil
}

func (r *RecipesRepo) RemoveLike(_ context.Context, recipeID, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[recipeID]
	if !ok {
		return nil, recipe.ErrNotFound
	}

	idx := slices.Index(cur.Likes, userID)
	if idx < 0 {
		return nil, recipe.ErrNotYetLiked
	}

	cur.Likes = slices.Delete(slices.Clone(cur.Likes), idx, idx+1)
	r.items[recipeID] = cur
	return slices.Clone(cur.Likes), nil
}

// filter returns matching recipes newest first.
func (r *RecipesRepo) filter(keep func(recipe.Recipe) bool) []recipe.Recipe {
	r.mu.RLock()
	out := make([]recipe.Recipe, 0, len(r.items))
	for _, rec := range r.items {
		if keep(rec) {
			out = append(out, clone(rec))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clone(rec recipe.Recipe) recipe.Recipe {
	rec.Ingredients = slices.Clone(rec.Ingredients)
	rec.Likes = slices.Clone(rec.Likes)
	if rec.Likes == nil {
		rec.Likes = []string{}
	}
	return rec
}
