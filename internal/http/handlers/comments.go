package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/gin-gonic/gin"
)

type CommentService interface {
	Create(ctx context.Context, authorID string, req comment.CreateCommentRequest) (comment.View, error)
	ListForRecipe(ctx context.Context, recipeID string) ([]comment.View, error)
	Delete(ctx context.Context, id, callerID string) error
}

type CommentsHandler struct {
	comments CommentService
	timeout  time.Duration
}

func NewCommentsHandler(comments CommentService, timeout time.Duration) *CommentsHandler {
	return &CommentsHandler{comments: comments, timeout: timeout}
}

func (h *CommentsHandler) CreateComment(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	var req comment.CreateCommentRequest

	// a missing field is the same client error as a blank one
	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(ctx, "Please enter all fields", parseBindError(err))
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	c, err := h.comments.Create(cctx, uid, req)

	if err != nil {
		respondDomainError(ctx, err, "Could not create comment")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *CommentsHandler) ListComments(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	comments, err := h.comments.ListForRecipe(cctx, ctx.Param("recipeId"))

	if err != nil {
		respondDomainError(ctx, err, "Could not list comments")
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

func (h *CommentsHandler) DeleteComment(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.comments.Delete(cctx, ctx.Param("id"), uid); err != nil {
		respondDomainError(ctx, err, "Could not delete comment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Comment removed"})
}
