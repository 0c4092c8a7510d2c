package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type ViewHTTP struct{}

func (h *ViewHTTP) GetView(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).View())
}

func (h *ViewHTTP) SetFragment(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "view.set_fragment")

	var req transport.FragmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_fragment", "invalid body", err)
	}
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).SetFragment(req.Fragment))
}

func (h *ViewHTTP) OpenBook(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "view.open_book")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "open_book", "id is not an integer", err)
	}
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).OpenBook(id))
}

func (h *ViewHTTP) Back(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).Back())
}

func (h *ViewHTTP) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).Home())
}
