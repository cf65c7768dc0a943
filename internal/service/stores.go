// Package service holds the recipe-sharing domain logic: credentials, profiles,
// recipes with their like sets, and comments. Ownership checks live here so
// every transport gets them for free.
package service

import (
	"context"

	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
)

// UserStore persists users. Create and Update return user.ErrDuplicateEmail when
// the email is taken by someone else.
type UserStore interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]user.User, error)
	Update(ctx context.Context, u user.User) error
}

// RecipeStore persists recipes. List and ListByOwner return newest first.
// AddLike prepends and reports recipe.ErrAlreadyLiked if the pair already
// exists; RemoveLike reports recipe.ErrNotYetLiked if it does not.
type RecipeStore interface {
	Create(ctx context.Context, r recipe.Recipe) error
	GetByID(ctx context.Context, id string) (recipe.Recipe, error)
	List(ctx context.Context) ([]recipe.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]recipe.Recipe, error)
	Update(ctx context.Context, r recipe.Recipe) error
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, recipeID, userID string) ([]string, error)
	RemoveLike(ctx context.Context, recipeID, userID string) ([]string, error)
}

// CommentStore persists comments. ListByRecipe returns newest first.
type CommentStore interface {
	Create(ctx context.Context, c comment.Comment) error
	GetByID(ctx context.Context, id string) (comment.Comment, error)
	ListByRecipe(ctx context.Context, recipeID string) ([]comment.Comment, error)
	Delete(ctx context.Context, id string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
