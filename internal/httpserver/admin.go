package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/transport"
	"github.com/Skotchmaster/bookstore/internal/util"
)

type OrderLedger interface {
	ListOrders(ctx context.Context, f repo.OrderFilter, offset, limit int) ([]models.Order, int64, error)
	Stats(ctx context.Context) (repo.Stats, error)
}

type AdminHTTP struct {
	Books  *catalog.Store
	Users  *auth.Store
	Orders OrderLedger
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	if err := sessionmw.FromContext(c).OpenAdmin(); err != nil {
		return fail(l, "dashboard", err, "cannot open dashboard")
	}
	stats, err := h.Orders.Stats(ctx)
	if err != nil {
		return fail(l, "dashboard", err, "cannot load order stats")
	}
	return c.JSON(http.StatusOK, transport.Dashboard{
		Books:   h.Books.Len(),
		Users:   h.Users.Len(),
		Orders:  stats.Orders,
		Revenue: stats.Revenue,
	})
}

func (h *AdminHTTP) CloseDashboard(c echo.Context) error {
	sessionmw.FromContext(c).CloseAdmin()
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Orders.ListOrders(ctx, repo.OrderFilter{Query: c.QueryParam("q")}, offset, limit)
	if err != nil {
		return fail(l, "list_orders", err, "cannot list orders")
	}
	return c.JSON(http.StatusOK, transport.OrderPage{Data: orders, Meta: util.Meta(page, limit, total)})
}

// ListUsers returns the accounts whose name or username contains q.
func (h *AdminHTTP) ListUsers(c echo.Context) error {
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	users := h.Users.Users()
	if q == "" {
		return c.JSON(http.StatusOK, users)
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_book")

	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_book", "invalid body", err)
	}
	b, err := sessionmw.FromContext(c).CreateBook(ctx, req.Draft())
	if err != nil {
		return fail(l, "create_book", err, "cannot create book")
	}
	l.Info("create_book_success", "book_id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *AdminHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_book")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_book", "id is not an integer", err)
	}
	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_book", "invalid body", err)
	}
	b, err := sessionmw.FromContext(c).UpdateBook(ctx, id, req.Draft())
	if err != nil {
		return fail(l, "update_book", err, "cannot update book")
	}
	l.Info("update_book_success", "book_id", b.ID)
	return c.JSON(http.StatusOK, b)
}

func (h *AdminHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_book")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_book", "id is not an integer", err)
	}
	if err := sessionmw.FromContext(c).DeleteBook(ctx, id); err != nil {
		return fail(l, "delete_book", err, "cannot delete book")
	}
	l.Info("delete_book_success", "book_id", id)
	return c.NoContent(http.StatusNoContent)
}
