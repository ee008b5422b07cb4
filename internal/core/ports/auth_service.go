package ports

import (
	"context"

	"github.com/rof/invgen/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Project  string
}

// LoginInput carries the login form. Project is only checked for the User role.
type LoginInput struct {
	Email    string
	Password string
	Project  string
	Role     string
}

// EditUserInput carries a partial update; empty fields are left unchanged.
type EditUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Project  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
	Edit(ctx context.Context, userID string, in EditUserInput) (*domain.User, error)
	List(ctx context.Context, userID string) ([]*domain.User, error)
}

// TokenSigner issues the bearer token returned by Login.
type TokenSigner interface {
	Sign(user *domain.User) (string, error)
}
