package handler

import (
	"time"

	"github.com/identware/user-service/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"omitempty,min=2,max=50"`
	// Role is accepted for wire compatibility but ignored: self-registered
	// accounts are always created with role USER.
	Role string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Password  *string `json:"password"   validate:"omitempty,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=2,max=50"`
	IsActive  *bool   `json:"is_active"`
	Role      *string `json:"role"       validate:"omitempty,oneof=ADMIN USER"`
}

type listUsersQuery struct {
	Page int64 `query:"page"`
	Size int64 `query:"size"`
}

// --- Response types ---

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// tokenResponse mirrors the OAuth2 password-grant shape used by /auth/token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int64          `json:"page"`
	Size  int64          `json:"size"`
	Pages int64          `json:"pages"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
