package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identware/user-service/internal/api/middleware"
	"github.com/identware/user-service/internal/core/domain"
	"github.com/identware/user-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the currently authenticated user.
//
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.AuthUser(c)
	if user == nil {
		return domain.ErrInvalidToken
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number (1-based)"
// @Param        size  query  int  false  "Page size"
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 20
	}

	list, err := h.userService.List(c.Request().Context(), q.Page, q.Size)
	if err != nil {
		return err
	}

	items := make([]userResponse, 0, len(list.Users))
	for _, u := range list.Users {
		items = append(items, toUserResponse(u))
	}
	// The service may clamp the requested size; report the effective values so
	// pages stays consistent with what each page actually holds.
	pages := list.Total / list.Size
	if list.Total%list.Size != 0 {
		pages++
	}

	return c.JSON(http.StatusOK, userListResponse{
		Items: items,
		Total: list.Total,
		Page:  list.Page,
		Size:  list.Size,
		Pages: pages,
	})
}

// GetByEmail returns a user by email address.
//
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query  string  true  "Email address"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/by-email [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByID returns a user by ID.
//
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update modifies a user. Only the provided fields change; a new password is
// re-hashed before storage.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "User ID"
// @Param        body  body  updateUserRequest  true  "Fields to update"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return err
		}
		input.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
