package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/repo/memory"
	"github.com/geocoder89/recipehub/internal/security"
	"github.com/geocoder89/recipehub/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users    *memory.UsersRepo
	recipes  *memory.RecipesRepo
	comments *memory.CommentsRepo
	tokens   *auth.Manager

	accounts *service.Accounts
	recipeS  *service.Recipes
	commentS *service.Comments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    memory.NewUsersRepo(),
		recipes:  memory.NewRecipesRepo(),
		comments: memory.NewCommentsRepo(),
		tokens:   auth.NewManager("test-secret-key", time.Hour),
	}
	f.accounts = service.NewAccounts(f.users, security.NewHasher(bcrypt.MinCost), f.tokens)
	f.recipeS = service.NewRecipes(f.recipes, f.users)
	f.commentS = service.NewComments(f.comments, f.users)
	return f
}

func (f *fixture) register(t *testing.T, name, email string) user.User {
	t.Helper()

	token, u, err := f.accounts.Register(context.Background(), user.RegisterRequest{
		Name: name, Email: email, Password: "password123",
	})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	return u
}

func tacos() recipe.CreateRecipeRequest {
	return recipe.CreateRecipeRequest{
		Title:        "Tacos",
		Ingredients:  []string{"tortillas", "beef", "salsa"},
		Instructions: "Warm tortillas, fill, serve.",
		ImageURL:     "https://example.com/tacos.jpg",
	}
}

func ptr[T any](v T) *T { return &v }

func TestAccounts_DuplicateEmailLeavesFirstUserIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.register(t, "Sam", "sam@example.com")

	_, _, err := f.accounts.Register(ctx, user.RegisterRequest{
		Name: "Impostor", Email: " SAM@example.com ", Password: "different1",
	})
	require.ErrorIs(t, err, user.ErrDuplicateEmail)

	stored, err := f.users.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", stored.Name)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "sam@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestAccounts_PasswordNeverStoredPlain(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Sam", "sam@example.com")

	assert.Empty(t, u.PasswordHash)

	stored, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, f.accounts.VerifyPassword(stored, "password123"))
	assert.False(t, f.accounts.VerifyPassword(stored, "password124"))
}

func TestAccounts_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Sam", "sam@example.com")

	token, err := f.accounts.Login(ctx, user.LoginRequest{Email: "Sam@Example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "sam@example.com", Password: "wrong"})
	require.ErrorIs(t, err, user.ErrInvalidCredential)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.ErrorIs(t, err, user.ErrInvalidCredential)
}

func TestAccounts_WrongCurrentPasswordChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Sam", "sam@example.com")

	before, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		Name:            ptr("Renamed"),
		CurrentPassword: ptr("not-my-password"),
		NewPassword:     ptr("brand-new-pw"),
	})
	require.ErrorIs(t, err, user.ErrInvalidCredential)

	after, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Sam", after.Name)
}

func TestAccounts_PasswordRotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Sam", "sam@example.com")

	_, err := f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		CurrentPassword: ptr("password123"),
		NewPassword:     ptr("12345"),
	})
	require.ErrorIs(t, err, user.ErrPasswordTooShort)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		CurrentPassword: ptr("password123"),
		NewPassword:     ptr("123456"),
	})
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "sam@example.com", Password: "password123"})
	require.ErrorIs(t, err, user.ErrInvalidCredential)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "sam@example.com", Password: "123456"})
	require.NoError(t, err)
}

func TestAccounts_LonePasswordFieldIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Sam", "sam@example.com")

	_, err := f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{NewPassword: ptr("whatever1")})
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, user.LoginRequest{Email: "sam@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestAccounts_UpdateProfileFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Sam", "sam@example.com")
	f.register(t, "Kim", "kim@example.com")

	got, err := f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		Bio:      ptr("I cook."),
		Location: ptr("Lagos"),
		Website:  ptr("https://sam.example.com"),
		Name:     ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, "I cook.", got.Bio)
	assert.Equal(t, "Lagos", got.Location)
	assert.Empty(t, got.PasswordHash)

	_, err = f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{Email: ptr("KIM@example.com")})
	require.ErrorIs(t, err, user.ErrDuplicateEmail)

	got, err = f.accounts.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{Email: ptr("sam2@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "sam2@example.com", got.Email)

	profile, err := f.accounts.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam2@example.com", profile.Email)
	assert.Empty(t, profile.PasswordHash)

	_, err = f.accounts.GetProfile(ctx, "not-a-uuid")
	require.ErrorIs(t, err, user.ErrNotFound)

	_, err = f.accounts.GetProfile(ctx, uuid.NewString())
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestRecipes_RoundTripAndPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.CreatedBy.ID)
	assert.Equal(t, "Ana", created.CreatedBy.Name)
	assert.Empty(t, created.Likes)

	got, err := f.recipeS.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tacos().Title, got.Title)
	assert.Equal(t, tacos().Ingredients, got.Ingredients)
	assert.Equal(t, tacos().Instructions, got.Instructions)
	assert.Equal(t, tacos().ImageURL, got.ImageURL)

	updated, err := f.recipeS.Update(ctx, created.ID, owner.ID, recipe.UpdateRecipeRequest{
		Instructions: ptr("Warm, fill, fold, serve."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Warm, fill, fold, serve.", updated.Instructions)
	assert.Equal(t, tacos().Title, updated.Title)
	assert.Equal(t, tacos().Ingredients, updated.Ingredients)
	assert.Equal(t, tacos().ImageURL, updated.ImageURL)
}

func TestRecipes_NonOwnerCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	other := f.register(t, "Ben", "ben@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	_, err = f.recipeS.Update(ctx, created.ID, other.ID, recipe.UpdateRecipeRequest{Title: ptr("Stolen")})
	require.ErrorIs(t, err, recipe.ErrNotOwner)

	err = f.recipeS.Delete(ctx, created.ID, other.ID)
	require.ErrorIs(t, err, recipe.ErrNotOwner)

	got, err := f.recipeS.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tacos", got.Title)
}

func TestRecipes_MissingAndMalformedIDsAreNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ana", "ana@example.com")

	for _, id := range []string{uuid.NewString(), "64b7f0c2a1e4f2a9c8d7e6f5", ""} {
		_, err := f.recipeS.GetByID(ctx, id)
		assert.ErrorIs(t, err, recipe.ErrNotFound)

		_, err = f.recipeS.Update(ctx, id, u.ID, recipe.UpdateRecipeRequest{Title: ptr("x")})
		assert.ErrorIs(t, err, recipe.ErrNotFound)

		assert.ErrorIs(t, f.recipeS.Delete(ctx, id, u.ID), recipe.ErrNotFound)

		_, err = f.recipeS.Like(ctx, id, u.ID)
		assert.ErrorIs(t, err, recipe.ErrNotFound)

		_, err = f.recipeS.Unlike(ctx, id, u.ID)
		assert.ErrorIs(t, err, recipe.ErrNotFound)
	}
}

func TestRecipes_LikeTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	fan := f.register(t, "Ben", "ben@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	likes, err := f.recipeS.Like(ctx, created.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.ID}, likes)

	_, err = f.recipeS.Like(ctx, created.ID, fan.ID)
	require.ErrorIs(t, err, recipe.ErrAlreadyLiked)

	got, err := f.recipeS.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, "Ben", got.Likes[0].Name)
}

func TestRecipes_UnlikeBeforeLikeFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	fan := f.register(t, "Ben", "ben@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	_, err = f.recipeS.Unlike(ctx, created.ID, fan.ID)
	require.ErrorIs(t, err, recipe.ErrNotYetLiked)

	got, err := f.recipeS.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestRecipes_OwnerMayLikeOwnRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	likes, err := f.recipeS.Like(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{owner.ID}, likes)
}

func TestRecipes_LikesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	b := f.register(t, "Ben", "ben@example.com")
	c := f.register(t, "Cy", "cy@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	_, err = f.recipeS.Like(ctx, created.ID, b.ID)
	require.NoError(t, err)
	likes, err := f.recipeS.Like(ctx, created.ID, c.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{c.ID, b.ID}, likes)
}

func TestRecipes_ConcurrentLikesBySameUserCountOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	fan := f.register(t, "Ben", "ben@example.com")

	created, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	const n = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.recipeS.Like(ctx, created.ID, fan.ID)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, recipe.ErrAlreadyLiked) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)

	got, err := f.recipeS.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)
}

func TestRecipes_TacosScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@example.com")

	tc, err := f.recipeS.Create(ctx, a.ID, tacos())
	require.NoError(t, err)
	require.Len(t, tc.Ingredients, 3)

	b := f.register(t, "B", "b@example.com")

	likes, err := f.recipeS.Like(ctx, tc.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	likes, err = f.recipeS.Unlike(ctx, tc.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 0)

	require.NoError(t, f.recipeS.Delete(ctx, tc.ID, a.ID))

	_, err = f.recipeS.GetByID(ctx, tc.ID)
	require.ErrorIs(t, err, recipe.ErrNotFound)
}

func TestRecipes_ListByOwnerAndGetAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@example.com")
	b := f.register(t, "B", "b@example.com")

	first, err := f.recipeS.Create(ctx, a.ID, tacos())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := f.recipeS.Create(ctx, a.ID, tacos())
	require.NoError(t, err)
	_, err = f.recipeS.Create(ctx, b.ID, tacos())
	require.NoError(t, err)

	mine, err := f.recipeS.ListByOwner(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, "a@example.com", mine[0].CreatedBy.Email)

	all, err := f.recipeS.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.recipeS.ListByOwner(ctx, "bogus")
	require.ErrorIs(t, err, user.ErrNotFound)

	none, err := f.recipeS.ListByOwner(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestComments_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")
	author := f.register(t, "Ben", "ben@example.com")

	rc, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	c, err := f.commentS.Create(ctx, author.ID, comment.CreateCommentRequest{Text: "Delicious", RecipeID: rc.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ben", c.User.Name)
	assert.Empty(t, c.User.Email)

	err = f.commentS.Delete(ctx, c.ID, owner.ID)
	require.ErrorIs(t, err, comment.ErrNotAuthor)

	list, err := f.commentS.ListForRecipe(ctx, rc.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.commentS.Delete(ctx, c.ID, author.ID))

	list, err = f.commentS.ListForRecipe(ctx, rc.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.ErrorIs(t, f.commentS.Delete(ctx, c.ID, author.ID), comment.ErrNotFound)
	require.ErrorIs(t, f.commentS.Delete(ctx, "nope", author.ID), comment.ErrNotFound)
}

func TestComments_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ana", "ana@example.com")

	for _, req := range []comment.CreateCommentRequest{
		{Text: "", RecipeID: uuid.NewString()},
		{Text: "   ", RecipeID: uuid.NewString()},
		{Text: "hi", RecipeID: ""},
		{Text: "hi", RecipeID: "not-a-uuid"},
	} {
		_, err := f.commentS.Create(ctx, u.ID, req)
		assert.ErrorIs(t, err, comment.ErrInvalid, "%+v", req)
	}
}

func TestComments_ListNewestFirstAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Ana", "ana@example.com")
	recipeID := uuid.NewString()

	_, err := f.commentS.Create(ctx, u.ID, comment.CreateCommentRequest{Text: "one", RecipeID: recipeID})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.commentS.Create(ctx, u.ID, comment.CreateCommentRequest{Text: "two", RecipeID: recipeID})
	require.NoError(t, err)

	list, err := f.commentS.ListForRecipe(ctx, recipeID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Text)

	for _, id := range []string{uuid.NewString(), "garbage"} {
		empty, err := f.commentS.ListForRecipe(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	}
}

func TestRecipes_DeleteLeavesCommentsOrphaned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Ana", "ana@example.com")

	rc, err := f.recipeS.Create(ctx, owner.ID, tacos())
	require.NoError(t, err)

	_, err = f.commentS.Create(ctx, owner.ID, comment.CreateCommentRequest{Text: "note to self", RecipeID: rc.ID})
	require.NoError(t, err)

	require.NoError(t, f.recipeS.Delete(ctx, rc.ID, owner.ID))

	list, err := f.commentS.ListForRecipe(ctx, rc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
