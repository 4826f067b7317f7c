package users

import (
	"context"

	"resume-maker/internal/shared/apperr"
)

var (
	ErrNotFound           = apperr.NotFound("user not found")
	ErrEmailTaken         = apperr.Conflict("Email already registered!")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "Invalid credentials")
	ErrMissingFields      = apperr.Validation("Name, email, and password are required.")
)

// Repo persists accounts. Emails are unique, compared exactly as stored.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
