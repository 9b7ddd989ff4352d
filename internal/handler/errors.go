package handler

import (
	"errors"
	"net/http"
	"strings"

	"garments-store/internal/middleware"
	"garments-store/internal/model"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError maps service sentinels to HTTP statuses. Anything unknown is
// returned as-is and ends up a 500 in the server's error handler.
func httpError(err error) error {
	var status int
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream service failure").SetInternal(err)
	default:
		return err
	}

	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

// scopeEmail resolves whose records a caller may list: their own by
// default, anyone's for an admin.
func scopeEmail(c echo.Context, users middleware.UserLookup, requested string) (string, error) {
	caller := middleware.Email(c)
	if requested == "" || strings.EqualFold(requested, caller) {
		return caller, nil
	}

	user, err := users.GetByEmail(c.Request().Context(), caller)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return "", err
	}
	if user == nil || user.Role != model.RoleAdmin {
		return "", echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}

	return strings.ToLower(requested), nil
}
