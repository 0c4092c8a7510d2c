package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/chat"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/storefront"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

// fail logs op_failed and maps err to an HTTP error. Client errors log at
// warn with the domain message; anything else is a 500 with a fixed reason.
func fail(l *slog.Logger, op string, err error, reason string) error {
	code, msg := classify(err)
	if code >= 500 {
		l.Error(op+"_failed", "status", code, "reason", reason, "error", err)
		return echo.NewHTTPError(code, reason)
	}
	l.Warn(op+"_failed", "status", code, "reason", msg, "error", err)
	return echo.NewHTTPError(code, transport.ErrorResponse{Message: msg, Field: domain.FieldOf(err)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest, "cart is empty"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, storefront.ErrNotLoggedIn):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, storefront.ErrForbidden):
		return http.StatusForbidden, "admin access required"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "username already exists"
	case errors.Is(err, cart.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, chat.ErrBusy):
		return http.StatusConflict, "a reply is still streaming"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}
