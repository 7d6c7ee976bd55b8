package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by lowercased email
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	copy.ID = user.Email
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; !exists {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int64) ([]*domain.User, int64, error) {
	var all []*domain.User
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	total := int64(len(all))
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

type recordingAudit struct {
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(event domain.AuditEvent) {
	a.events = append(a.events, event)
}

type fixedThrottle struct {
	allowed  bool
	failures int
	resets   int
}

func (t *fixedThrottle) Allow(context.Context, string) (bool, error) { return t.allowed, nil }
func (t *fixedThrottle) RecordFailure(context.Context, string) error {
	t.failures++
	return nil
}
func (t *fixedThrottle) Reset(context.Context, string) error {
	t.resets++
	return nil
}

func newTestAuthService(repo ports.UserRepository, throttle ports.LoginThrottle, audit ports.AuditRecorder) *AuthService {
	return NewAuthService(repo, newTestHasher(), newTestCodec(), throttle, audit, zerolog.Nop())
}

func TestAuthService_Register_ForcesUserRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "Alice@Example.com",
		Password: "Passw0rd!",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %s, got %s", domain.RoleUser, user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("expected new user to be active")
	}
	if user.PasswordHash == "Passw0rd!" || user.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass1234"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same address with different case still conflicts.
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "pass5678"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_EmptyInput(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.c", Password: ""}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &recordingAudit{}
	svc := newTestAuthService(repo, nil, audit)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     "alice@example.com",
		Password:  "Passw0rd!",
		FirstName: "Alice",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "Alice@Example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user == nil || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := newTestCodec().Decode(token)
	if err != nil {
		t.Fatalf("decode issued token: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}

	found := false
	for _, e := range audit.events {
		if e.Type == domain.AuditLoginSucceeded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected login_succeeded audit event, got %+v", audit.events)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "goodpass1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "carol@example.com", "badpass")
	_, _, unknownUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	// Wrong password and unknown email must be indistinguishable.
	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPass, unknownUser)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &fixedThrottle{allowed: false}, nil)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "pass"); !errors.Is(err, domain.ErrTooManyLogins) {
		t.Fatalf("expected ErrTooManyLogins, got %v", err)
	}
}

func TestAuthService_Login_ThrottleBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &fixedThrottle{allowed: true}
	svc := newTestAuthService(repo, throttle, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "erin@example.com", Password: "goodpass1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "erin@example.com", "badpass")
	if throttle.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", throttle.failures)
	}

	if _, _, err := svc.Login(context.Background(), "erin@example.com", "goodpass1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", throttle.resets)
	}
}

func TestAuthService_Login_TokenHonoursLifetime(t *testing.T) {
	repo := newStubUserRepo()
	codec := NewTokenCodec("test-secret", "*", "http://localhost:8080", time.Minute)
	svc := NewAuthService(repo, newTestHasher(), codec, nil, nil, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "frank@example.com", Password: "goodpass1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "frank@example.com", "goodpass1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if until := time.Until(claims.ExpiresAt.Time); until > 2*time.Minute {
		t.Fatalf("expiry too far out: %v", until)
	}
}
