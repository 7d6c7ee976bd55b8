package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/api/metrics"
	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
)

// AuthService implements registration and login. Both throttle and audit are
// optional; a nil value disables the concern.
type AuthService struct {
	users    ports.UserRepository
	hasher   *PasswordHasher
	codec    *TokenCodec
	throttle ports.LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher *PasswordHasher,
	codec *TokenCodec,
	throttle ports.LoginThrottle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		codec:    codec,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Register creates a new account. The stored role is always RoleUser no
// matter what the client asked for; privilege is only ever granted by an
// admin after the fact.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Type: domain.AuditUserRegistered, Email: email})
	s.log.Info().Str("email", email).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a bearer token. An unknown email
// and a wrong password produce the identical ErrInvalidCredentials; nothing
// in the outcome reveals which one happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			s.record(domain.AuditEvent{Type: domain.AuditLoginThrottled, Email: email})
			return "", nil, domain.ErrTooManyLogins
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, s.loginFailed(ctx, email, "unknown_email")
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, s.loginFailed(ctx, email, "wrong_password")
	}

	token, err := s.codec.Issue(user, time.Time{})
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()
	s.record(domain.AuditEvent{Type: domain.AuditLoginSucceeded, Email: email})
	return token, user, nil
}

// loginFailed records the failure internally with its real reason while the
// caller only ever sees ErrInvalidCredentials.
func (s *AuthService) loginFailed(ctx context.Context, email, reason string) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle record failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.record(domain.AuditEvent{Type: domain.AuditLoginFailed, Email: email, Reason: reason})
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.audit.Record(event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
