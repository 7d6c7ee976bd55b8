package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is a
// stable machine identifier; Error is the human-readable message.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status and code.
//   - Keeps credential failures uniform: bad login, bad token, expired token
//     and unknown principal all render identically.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := "VALIDATION_ERROR"
		if he.Code == http.StatusNotFound {
			code = "NOT_FOUND"
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: code}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password", Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: "could not validate credentials", Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, domain.ErrInactiveUser):
		return http.StatusForbidden, errorResponse{Error: "inactive user", Code: "INACTIVE_USER"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden: insufficient role", Code: "ACCESS_FORBIDDEN"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user with this email already exists", Code: "USER_ALREADY_EXISTS"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found", Code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"}
	case errors.Is(err, domain.ErrTooManyLogins):
		return http.StatusTooManyRequests, errorResponse{Error: "too many failed login attempts", Code: "TOO_MANY_ATTEMPTS"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
}
