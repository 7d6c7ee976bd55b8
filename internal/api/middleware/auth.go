package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identware/user-service/internal/api/metrics"
	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
	"github.com/identware/user-service/internal/core/service"
)

// authUserKey is where Authenticate stores the resolved user in the request
// context.
const authUserKey = "auth_user"

// Authenticate extracts the bearer token, decodes it, and resolves the user
// behind its email claim. Missing header, undecodable token and unknown
// principal all surface as the same uniform error; nothing about the request
// reveals which step failed.
//
// The user is looked up fresh on every request rather than trusted from the
// token, so role and active-flag changes apply immediately.
func Authenticate(codec *service.TokenCodec, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthDeniedTotal.WithLabelValues("missing_header").Inc()
				return domain.ErrInvalidToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthDeniedTotal.WithLabelValues("missing_header").Inc()
				return domain.ErrInvalidToken
			}

			claims, err := codec.Decode(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidToken
			}

			user, err := users.FindByEmail(c.Request().Context(), claims.Email)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AuthDeniedTotal.WithLabelValues("unknown_principal").Inc()
					return domain.ErrInvalidToken
				}
				return err
			}

			c.Set(authUserKey, user)
			return next(c)
		}
	}
}

// RequireRoles gates a route on the authenticated user's state. The active
// check always runs first; a disabled account is rejected before its role is
// even considered. An empty role list admits any authenticated active user.
// Every denial is recorded on the audit pipeline; audit may be nil.
//
// Must be registered after Authenticate on the same route.
func RequireRoles(audit ports.AuditRecorder, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(authUserKey).(*domain.User)
			if !ok || user == nil {
				return domain.ErrInvalidToken
			}

			if !user.IsActive {
				metrics.AuthDeniedTotal.WithLabelValues("inactive_user").Inc()
				recordDenied(audit, user.Email, "inactive_user")
				return domain.ErrInactiveUser
			}

			if len(allowed) > 0 {
				// An unrecognised stored role never matches the allow-set.
				if _, ok := allowed[user.Role]; !ok {
					metrics.AuthDeniedTotal.WithLabelValues("access_forbidden").Inc()
					recordDenied(audit, user.Email, "access_forbidden")
					return domain.ErrForbidden
				}
			}

			return next(c)
		}
	}
}

func recordDenied(audit ports.AuditRecorder, email, reason string) {
	if audit == nil {
		return
	}
	audit.Record(domain.AuditEvent{
		Type:      domain.AuditAccessDenied,
		Email:     email,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

// AuthUser returns the user resolved by Authenticate, or nil when the route
// is not guarded.
func AuthUser(c echo.Context) *domain.User {
	user, _ := c.Get(authUserKey).(*domain.User)
	return user
}
