package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UserService implements reads and admin-side mutations on users.
type UserService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher *PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

// List returns one page of users. Pages are 1-based; size is clamped to
// maxPageSize.
func (s *UserService) List(ctx context.Context, page, size int64) (*ports.UserList, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	users, total, err := s.users.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	return &ports.UserList{Users: users, Total: total, Page: page, Size: size}, nil
}

// Update applies the non-nil fields of input. A new password is re-hashed; a
// role change must name a known role.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, domain.ErrUnknownRole
		}
		user.Role = *input.Role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
