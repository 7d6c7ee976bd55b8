package ports

import (
	"context"

	"github.com/identware/user-service/internal/core/domain"
)

// UserRepository defines the persistence capabilities the core needs.
// FindByEmail must match case-insensitively.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int64) ([]*domain.User, int64, error)
}
