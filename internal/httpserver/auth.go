package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type AuthHTTP struct{}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}
	u, err := sessionmw.FromContext(c).Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login", err, "cannot log in")
	}
	l.Info("login_success", "user_id", u.ID, "role", u.Role)
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "signup", "invalid body", err)
	}
	u, err := sessionmw.FromContext(c).Signup(ctx, auth.SignupRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		return fail(l, "signup", err, "cannot sign up")
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	if err := sessionmw.FromContext(c).Logout(); err != nil {
		return fail(l, "logout", err, "cannot log out")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	u := sessionmw.FromContext(c).User()
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(http.StatusOK, u)
}
