package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, req user.RegisterRequest) (string, user.User, error)
	Login(ctx context.Context, req user.LoginRequest) (string, error)
}

type AuthHandler struct {
	accounts AccountService
	timeout  time.Duration
}

func NewAuthHandler(accounts AccountService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		timeout:  timeout,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	token, _, err := h.accounts.Register(cctx, req)

	if err != nil {
		respondDomainError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	token, err := h.accounts.Login(cctx, req)

	if err != nil {
		if errors.Is(err, user.ErrInvalidCredential) {
			RespondUnauthorized(ctx, "invalid_credentials", "Invalid credentials")
			return
		}
		respondDomainError(ctx, err, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
