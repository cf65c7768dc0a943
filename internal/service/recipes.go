package service

import (
	"context"
	"fmt"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/utils"
)

// Recipes enforces creator-only mutation and the like/unlike transitions.
//
// Like and Unlike are read-check-write without a transaction. Two concurrent
// likes by the same user can both pass the membership check; the store's own
// uniqueness check turns the loser into recipe.ErrAlreadyLiked.
type Recipes struct {
	recipes RecipeStore
	users   UserStore
}

func NewRecipes(recipes RecipeStore, users UserStore) *Recipes {
	return &Recipes{recipes: recipes, users: users}
}

func (s *Recipes) Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.View, error) {
	r := recipe.NewFromCreateRequest(ownerID, req)

	if err := s.recipes.Create(ctx, r); err != nil {
		return recipe.View{}, fmt.Errorf("create recipe: %w", err)
	}

	return s.view(ctx, r)
}

func (s *Recipes) GetAll(ctx context.Context) ([]recipe.View, error) {
	rs, err := s.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return s.views(ctx, rs)
}

// GetByID treats a malformed id exactly like a missing one.
func (s *Recipes) GetByID(ctx context.Context, id string) (recipe.View, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return recipe.View{}, err
	}
	return s.view(ctx, r)
}

func (s *Recipes) ListByOwner(ctx context.Context, ownerID string) ([]recipe.View, error) {
	if !utils.IsUUID(ownerID) {
		return nil, user.ErrNotFound
	}

	rs, err := s.recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes by owner: %w", err)
	}
	return s.views(ctx, rs)
}

func (s *Recipes) Update(ctx context.Context, id, callerID string, patch recipe.UpdateRecipeRequest) (recipe.View, error) {
	r, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return recipe.View{}, err
	}

	if patch.Empty() {
		return s.view(ctx, r)
	}

	updated := r.Apply(patch)

	if err := s.recipes.Update(ctx, updated); err != nil {
		return recipe.View{}, err
	}

	return s.view(ctx, updated)
}

// Delete removes the recipe and its likes. Comments on it are kept.
func (s *Recipes) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.loadOwned(ctx, id, callerID); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, id)
}

// Like moves (recipe, caller) from not-liked to liked and returns the new like
// list. Owners may like their own recipes.
func (s *Recipes) Like(ctx context.Context, id, callerID string) ([]string, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.LikedBy(callerID) {
		return nil, recipe.ErrAlreadyLiked
	}

	return s.recipes.AddLike(ctx, id, callerID)
}

// Unlike moves (recipe, caller) from liked to not-liked.
func (s *Recipes) Unlike(ctx context.Context, id, callerID string) ([]string, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !r.LikedBy(callerID) {
		return nil, recipe.ErrNotYetLiked
	}

	return s.recipes.RemoveLike(ctx, id, callerID)
}

func (s *Recipes) load(ctx context.Context, id string) (recipe.Recipe, error) {
	if !utils.IsUUID(id) {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return s.recipes.GetByID(ctx, id)
}

func (s *Recipes) loadOwned(ctx context.Context, id, callerID string) (recipe.Recipe, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return recipe.Recipe{}, err
	}

	if !r.OwnedBy(callerID) {
		return recipe.Recipe{}, recipe.ErrNotOwner
	}
	return r, nil
}

func (s *Recipes) view(ctx context.Context, r recipe.Recipe) (recipe.View, error) {
	vs, err := s.views(ctx, []recipe.Recipe{r})
	if err != nil {
		return recipe.View{}, err
	}
	return vs[0], nil
}

// views resolves owners and likers with one user lookup for the whole batch.
func (s *Recipes) views(ctx context.Context, rs []recipe.Recipe) ([]recipe.View, error) {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.CreatedBy)
		ids = append(ids, r.Likes...)
	}

	people, err := lookupUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]recipe.View, 0, len(rs))
	for _, r := range rs {
		likes := make([]user.Summary, 0, len(r.Likes))
		for _, id := range r.Likes {
			liker := summaryOf(people, id)
			liker.Email = ""
			likes = append(likes, liker)
		}

		out = append(out, recipe.View{
			ID:           r.ID,
			Title:        r.Title,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
			ImageURL:     r.ImageURL,
			CreatedBy:    summaryOf(people, r.CreatedBy),
			Likes:        likes,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}
