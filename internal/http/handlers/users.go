package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (user.User, error)
	UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.User, error)
}

type UsersHandler struct {
	profiles ProfileService
	timeout  time.Duration
}

func NewUsersHandler(profiles ProfileService, timeout time.Duration) *UsersHandler {
	return &UsersHandler{profiles: profiles, timeout: timeout}
}

func (h *UsersHandler) GetProfile(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	u, err := h.profiles.GetProfile(cctx, uid)

	if err != nil {
		respondDomainError(ctx, err, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateProfile(ctx *gin.Context) {
	uid, ok := callerID(ctx)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	u, err := h.profiles.UpdateProfile(cctx, uid, req)

	if err != nil {
		respondDomainError(ctx, err, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
