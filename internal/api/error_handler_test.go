package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainMappings(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrInactiveUser, http.StatusForbidden, "INACTIVE_USER"},
		{domain.ErrForbidden, http.StatusForbidden, "ACCESS_FORBIDDEN"},
		{domain.ErrUserExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrTooManyLogins, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
	}

	for _, tc := range cases {
		status, body := render(t, tc.err)
		if status != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, status)
		}
		if body.Code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, body.Code)
		}
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	status, body := render(t, errors.New("pq: connection refused"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %s", body.Code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	status, body := render(t, echo.NewHTTPError(http.StatusBadRequest, "email is required"))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body.Error != "email is required" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}
