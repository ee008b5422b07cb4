package ports

import (
	"context"

	"github.com/rof/invgen/internal/core/domain"
)

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// List returns every user when project is empty, otherwise only the
	// users assigned to project.
	List(ctx context.Context, project domain.Project) ([]*domain.User, error)
	// Update overwrites the mutable fields of the user with id.
	Update(ctx context.Context, id string, user *domain.User) (*domain.User, error)
}
