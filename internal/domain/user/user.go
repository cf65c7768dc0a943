package user

import (
	"errors"
	"strings"
	"time"
)

const MinPasswordLength = 6

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters long")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary is the slice of a user embedded into recipes, likes and comments.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a patch: nil means leave alone. An empty name or
// email is also left alone, so forms may post blank fields.
type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=100"`
	Email           *string `json:"email" binding:"omitempty,email|eq="`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	Location        *string `json:"location" binding:"omitempty,max=120"`
	Website         *string `json:"website" binding:"omitempty,max=300"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword" binding:"omitempty,max=72"`
}

// ChangesPassword is true only when both password fields carry a value.
func (r UpdateProfileRequest) ChangesPassword() bool {
	return r.CurrentPassword != nil && *r.CurrentPassword != "" &&
		r.NewPassword != nil && *r.NewPassword != ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
