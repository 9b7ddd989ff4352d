package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"garments-store/internal/client"
	"garments-store/internal/model"
	"garments-store/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	emailKey = "auth_email"
	userKey  = "auth_user"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
	errForbidden    = echo.NewHTTPError(http.StatusForbidden, "forbidden access")
)

// Authenticator verifies a bearer token issued by the identity provider.
type Authenticator interface {
	Verify(ctx context.Context, token string) (*client.Identity, error)
}

// Authorizer decides whether a stored user may continue.
type Authorizer interface {
	Authorize(user *model.User) error
}

// UserLookup loads the stored record for a verified email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Policy allows the listed roles. BlockRejected additionally refuses
// managers whose status is Rejected.
type Policy struct {
	Roles         []model.Role
	BlockRejected bool
}

// ManagerOnly gates product creation; ManagerActive also lets admins
// moderate products and orders.
var (
	AdminOnly     = Policy{Roles: []model.Role{model.RoleAdmin}}
	ManagerOnly   = Policy{Roles: []model.Role{model.RoleManager}, BlockRejected: true}
	ManagerActive = Policy{Roles: []model.Role{model.RoleManager, model.RoleAdmin}, BlockRejected: true}
)

func (p Policy) Authorize(user *model.User) error {
	if len(p.Roles) > 0 && !slices.Contains(p.Roles, user.Role) {
		return service.ErrForbidden
	}
	if p.BlockRejected && user.Role == model.RoleManager && user.Status == model.UserStatusRejected {
		return service.ErrForbidden
	}
	return nil
}

// Authenticate rejects requests without a valid bearer token and binds the
// verified email for downstream handlers.
func Authenticate(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return errUnauthorized
			}

			identity, err := authn.Verify(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return errUnauthorized
			}

			c.Set(emailKey, identity.Email)
			return next(c)
		}
	}
}

// Authorize loads the caller's user record and runs each authorizer in
// order. It must be chained after Authenticate.
func Authorize(users UserLookup, authorizers ...Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := Email(c)
			if email == "" {
				return errUnauthorized
			}

			user, err := users.GetByEmail(c.Request().Context(), email)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return errForbidden
				}
				return err
			}

			for _, a := range authorizers {
				if err := a.Authorize(user); err != nil {
					return errForbidden
				}
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// Email returns the verified caller email, or "" on unauthenticated routes.
func Email(c echo.Context) string {
	email, _ := c.Get(emailKey).(string)
	return email
}

// User returns the caller's record when Authorize ran for the route.
func User(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}
