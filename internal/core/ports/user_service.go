package ports

import (
	"context"

	"github.com/identware/user-service/internal/core/domain"
)

// UpdateUserInput carries optional field updates. Nil pointers mean
// "leave unchanged". A non-nil Password is re-hashed before storage.
type UpdateUserInput struct {
	Password  *string
	FirstName *string
	LastName  *string
	IsActive  *bool
	Role      *domain.Role
}

// UserList is a page of users plus the total count across all pages. Page and
// Size are the effective values after clamping, which may differ from what the
// caller asked for.
type UserList struct {
	Users []*domain.User
	Total int64
	Page  int64
	Size  int64
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, size int64) (*UserList, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
