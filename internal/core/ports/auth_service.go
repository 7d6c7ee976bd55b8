package ports

import (
	"context"

	"github.com/identware/user-service/internal/core/domain"
)

// RegisterInput carries the fields a client may supply at registration.
// The submitted role is never trusted; new accounts are always created as
// RoleUser.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// LoginThrottle limits repeated failed logins per email. Implementations may
// be absent entirely (a nil throttle disables limiting).
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
