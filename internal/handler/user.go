package handler

import (
	"net/http"
	"strings"

	"garments-store/internal/dto"
	"garments-store/internal/middleware"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.userService.Register(ctx, middleware.Email(c), &req)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusOK
	if res.Inserted {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

func (h *UserHandler) GetRole(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetByEmail(ctx, strings.ToLower(c.Param("email")))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.UserRoleResponse{
		Role:   user.Role,
		Status: user.Status,
	})
}

func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var query dto.ListUsersQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}

	page, err := h.userService.List(ctx, &query)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, page)
}

func (h *UserHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateUserStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateStatus(ctx, c.Param("id"), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}
