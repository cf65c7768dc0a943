package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/recipehub/internal/domain/comment"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondError writes the error envelope. "msg" is the flat message older
// clients read; "error" carries the structured form.
func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"msg": message,
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondUnavailable(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusServiceUnavailable, "unavailable", message, nil)
}

// respondDomainError maps service errors onto statuses. Anything it does not
// recognise is logged and answered with a generic 500.
func respondDomainError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, user.ErrDuplicateEmail):
		RespondError(ctx, http.StatusBadRequest, "email_taken", "Email already exists", nil)
	case errors.Is(err, user.ErrInvalidCredential):
		RespondError(ctx, http.StatusBadRequest, "invalid_credentials", "Current password is incorrect", nil)
	case errors.Is(err, user.ErrPasswordTooShort):
		RespondBadRequest(ctx, "Password must be at least 6 characters long", nil)
	case errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, "User not found")

	case errors.Is(err, recipe.ErrNotFound):
		RespondNotFound(ctx, "Recipe not found")
	case errors.Is(err, recipe.ErrNotOwner), errors.Is(err, comment.ErrNotAuthor):
		RespondUnauthorized(ctx, "not_authorized", "User not authorized")
	case errors.Is(err, recipe.ErrAlreadyLiked):
		RespondError(ctx, http.StatusBadRequest, "already_liked", "Recipe already liked", nil)
	case errors.Is(err, recipe.ErrNotYetLiked):
		RespondError(ctx, http.StatusBadRequest, "not_liked", "Recipe has not yet been liked", nil)

	case errors.Is(err, comment.ErrInvalid):
		RespondBadRequest(ctx, "Please enter all fields", nil)
	case errors.Is(err, comment.ErrNotFound):
		RespondNotFound(ctx, "Comment not found")

	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"err", err,
			"request_id", requestIDFrom(ctx),
			"route", ctx.FullPath(),
		)
		RespondInternal(ctx, fallback)
	}
}
