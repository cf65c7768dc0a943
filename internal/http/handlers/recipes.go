package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type RecipeService interface {
	Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.View, error)
	GetAll(ctx context.Context) ([]recipe.View, error)
	GetByID(ctx context.Context, id string) (recipe.View, error)
	ListByOwner(ctx context.Context, ownerID string) ([]recipe.View, error)
	Update(ctx context.Context, id, callerID string, patch recipe.UpdateRecipeRequest) (recipe.View, error)
	Delete(ctx context.Context, id, callerID string) error
	Like(ctx context.Context, id, callerID string) ([]string, error)
	Unlike(ctx context.Context, id, callerID string) ([]string, error)
}

type RecipesHandler struct {
	recipes RecipeService
	timeout time.Duration
}

func NewRecipesHandler(recipes RecipeService, timeout time.Duration) *RecipesHandler {
	return &RecipesHandler{recipes: recipes, timeout: timeout}
}

// callerID is set by RequireAuth; a missing id means the route was wired
// without the guard.
func callerID(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok || id == "" {
		RespondUnauthorized(ctx, "unauthorized", "Authorization denied")
		return "", false
	}
	return id, true
}

func (h *RecipesHandler) ListRecipes(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	recipes, err := h.recipes.GetAll(cctx)

	if err != nil {
		respondDomainError(ctx, err, "Could not list recipes")
		return
	}

	ctx.JSON(http.StatusOK, recipes)
}

func (h *RecipesHandler) GetRecipeByID(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	r, err := h.recipes.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		respondDomainError(ctx, err, "Could not fetch recipe")
		return
	}

	ctx.JSON(http.StatusOK, r)
}

func (h *RecipesHandler) ListUserRecipes(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	recipes, err := h.recipes.ListByOwner(cctx, ctx.Param("userId"))

	if err != nil {
		respondDomainError(ctx, err, "Could not list recipes")
		return
	}

	ctx.JSON(http.StatusOK, recipes)
}

func (h *RecipesHandler) MyRecipes(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	recipes, err := h.recipes.ListByOwner(cctx, uid)

	if err != nil {
		respondDomainError(ctx, err, "Could not list recipes")
		return
	}

	ctx.JSON(http.StatusOK, recipes)
}

func (h *RecipesHandler) CreateRecipe(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	var req recipe.CreateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	created, err := h.recipes.Create(cctx, uid, req)

	if err != nil {
		respondDomainError(ctx, err, "Could not create recipe")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *RecipesHandler) UpdateRecipe(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	var req recipe.UpdateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	updated, err := h.recipes.Update(cctx, ctx.Param("id"), uid, req)

	if err != nil {
		respondDomainError(ctx, err, "Could not update recipe")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *RecipesHandler) DeleteRecipe(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.recipes.Delete(cctx, ctx.Param("id"), uid); err != nil {
		respondDomainError(ctx, err, "Could not delete recipe")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Recipe removed"})
}

func (h *RecipesHandler) LikeRecipe(ctx *gin.Context) {
	h.toggleLike(ctx, h.recipes.Like)
}

func (h *RecipesHandler) UnlikeRecipe(ctx *gin.Context) {
	h.toggleLike(ctx, h.recipes.Unlike)
}

func (h *RecipesHandler) toggleLike(ctx *gin.Context, op func(ctx context.Context, id, callerID string) ([]string, error)) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	likes, err := op(cctx, ctx.Param("id"), uid)

	if err != nil {
		respondDomainError(ctx, err, "Could not update likes")
		return
	}

	ctx.JSON(http.StatusOK, likes)
}
