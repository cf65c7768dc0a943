package memory

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	a := user.User{ID: uuid.NewString(), Email: "a@example.com", Name: "A"}
	b := user.User{ID: uuid.NewString(), Email: "b@example.com", Name: "B"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	dup := user.User{ID: uuid.NewString(), Email: "a@example.com"}
	require.ErrorIs(t, repo.Create(ctx, dup), user.ErrDuplicateEmail)

	// moving b onto a's email is refused, moving it elsewhere frees the old one
	b.Email = "a@example.com"
	require.ErrorIs(t, repo.Update(ctx, b), user.ErrDuplicateEmail)

	b.Email = "b2@example.com"
	require.NoError(t, repo.Update(ctx, b))

	_, err := repo.GetByEmail(ctx, "b@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)

	got, err := repo.GetByEmail(ctx, "b2@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	many, err := repo.GetMany(ctx, []string{a.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, many, 1)
}

func TestUsersRepo_UpdateMissing(t *testing.T) {
	err := NewUsersRepo().Update(context.Background(), user.User{ID: "nope", Email: "x@example.com"})
	require.ErrorIs(t, err, user.ErrNotFound)
}

func newRecipe(owner string, at time.Time) recipe.Recipe {
	r := recipe.NewFromCreateRequest(owner, recipe.CreateRecipeRequest{
		Title:        "Soup",
		Ingredients:  []string{"water", "salt"},
		Instructions: "Boil.",
		ImageURL:     "img",
	})
	r.CreatedAt = at
	return r
}

func TestRecipesRepo_LikesArePrependedAndUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipesRepo()
	r := newRecipe("owner", time.Now())
	require.NoError(t, repo.Create(ctx, r))

	likes, err := repo.AddLike(ctx, r.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, likes)

	likes, err = repo.AddLike(ctx, r.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u1"}, likes)

	_, err = repo.AddLike(ctx, r.ID, "u1")
	require.ErrorIs(t, err, recipe.ErrAlreadyLiked)

	likes, err = repo.RemoveLike(ctx, r.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, likes)

	_, err = repo.RemoveLike(ctx, r.ID, "u2")
	require.ErrorIs(t, err, recipe.ErrNotYetLiked)

	_, err = repo.AddLike(ctx, uuid.NewString(), "u1")
	require.ErrorIs(t, err, recipe.ErrNotFound)
}

func TestRecipesRepo_ReturnedValuesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipesRepo()
	r := newRecipe("owner", time.Now())
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	got.Ingredients[0] = "mutated"

	again, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "water", again.Ingredients[0])
}

func TestRecipesRepo_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipesRepo()
	now := time.Now()

	old := newRecipe("a", now.Add(-time.Hour))
	mid := newRecipe("b", now.Add(-time.Minute))
	fresh := newRecipe("a", now)
	for _, r := range []recipe.Recipe{mid, old, fresh} {
		require.NoError(t, repo.Create(ctx, r))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{fresh.ID, mid.ID, old.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, fresh.ID, mine[0].ID)

	require.NoError(t, repo.Delete(ctx, mid.ID))
	require.ErrorIs(t, repo.Delete(ctx, mid.ID), recipe.ErrNotFound)
}

func TestCommentsRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewCommentsRepo()
	recipeID := uuid.NewString()

	first, err := comment.New("u1", comment.CreateCommentRequest{Text: "first", RecipeID: recipeID})
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Minute)
	second, err := comment.New("u2", comment.CreateCommentRequest{Text: "second", RecipeID: recipeID})
	require.NoError(t, err)
	other, err := comment.New("u2", comment.CreateCommentRequest{Text: "elsewhere", RecipeID: uuid.NewString()})
	require.NoError(t, err)

	for _, c := range []comment.Comment{first, second, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.ListByRecipe(ctx, recipeID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)

	empty, err := repo.ListByRecipe(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	require.ErrorIs(t, err, comment.ErrNotFound)
}
