package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/utils"
	"github.com/google/uuid"
)

// Accounts covers registration, login, profile reads and profile/password updates.
type Accounts struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAccounts(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *Accounts {
	return &Accounts{users: users, hasher: hasher, tokens: tokens}
}

// CreateUser hashes the password and stores a new user. The returned user has no hash.
func (a *Accounts) CreateUser(ctx context.Context, name, email, password string) (user.User, error) {
	email = user.NormalizeEmail(email)

	_, err := a.users.GetByEmail(ctx, email)
	if err == nil {
		return user.User{}, user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the unique index still has the last word if two registrations race
	if err := a.users.Create(ctx, u); err != nil {
		return user.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}

func (a *Accounts) VerifyPassword(u user.User, plain string) bool {
	return a.hasher.Verify(u.PasswordHash, plain)
}

// Register creates the user and returns a token for it.
func (a *Accounts) Register(ctx context.Context, req user.RegisterRequest) (string, user.User, error) {
	u, err := a.CreateUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return "", user.User{}, err
	}

	token, err := a.tokens.Issue(u.ID)
	if err != nil {
		return "", user.User{}, fmt.Errorf("issue token: %w", err)
	}

	return token, u, nil
}

// Login never says which half of the credentials was wrong.
func (a *Accounts) Login(ctx context.Context, req user.LoginRequest) (string, error) {
	u, err := a.users.GetByEmail(ctx, user.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.ErrInvalidCredential
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}

	if !a.VerifyPassword(u, req.Password) {
		return "", user.ErrInvalidCredential
	}

	token, err := a.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (a *Accounts) GetProfile(ctx context.Context, userID string) (user.User, error) {
	if !utils.IsUUID(userID) {
		return user.User{}, user.ErrNotFound
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}

// UpdateProfile applies a profile patch. When both password fields are set the
// current one must verify and the new one must be long enough; otherwise nothing
// is written. A lone password field is ignored.
func (a *Accounts) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.User, error) {
	if !utils.IsUUID(userID) {
		return user.User{}, user.ErrNotFound
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if req.ChangesPassword() {
		if !a.VerifyPassword(u, *req.CurrentPassword) {
			return user.User{}, user.ErrInvalidCredential
		}

		if len(*req.NewPassword) < user.MinPasswordLength {
			return user.User{}, user.ErrPasswordTooShort
		}

		hash, err := a.hasher.Hash(*req.NewPassword)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		u.Email = user.NormalizeEmail(*req.Email)
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Website != nil {
		u.Website = *req.Website
	}
	u.UpdatedAt = time.Now().UTC()

	if err := a.users.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}
