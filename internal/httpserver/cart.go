package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/storefront"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type CartHTTP struct{}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).Cart())
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.add_item")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart", "invalid body", err)
	}
	st, err := sessionmw.FromContext(c).AddToCart(req.BookID)
	if err != nil {
		return fail(l, "add_to_cart", err, "cannot add to cart")
	}
	l.Info("add_to_cart_success", "book_id", req.BookID, "count", st.Count)
	return c.JSON(http.StatusOK, st)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.update_item")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_quantity", "id is not an integer", err)
	}
	var req transport.QuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_quantity", "invalid body", err)
	}
	st, err := sessionmw.FromContext(c).UpdateQuantity(id, req.Delta)
	if err != nil {
		return fail(l, "update_quantity", err, "cannot update quantity")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.remove_item")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(l, "remove_from_cart", "id is not an integer", err)
	}
	st, err := sessionmw.FromContext(c).RemoveFromCart(id)
	if err != nil {
		return fail(l, "remove_from_cart", err, "cannot remove from cart")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).ClearCart())
}

func (h *CartHTTP) OpenCart(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).OpenCart())
}

func (h *CartHTTP) CloseCart(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).CloseCart())
}

func (h *CartHTTP) BeginCheckout(c echo.Context) error {
	return h.transition(c, "begin_checkout", (*storefront.Session).BeginCheckout)
}

func (h *CartHTTP) BackToCart(c echo.Context) error {
	return h.transition(c, "back_to_cart", (*storefront.Session).BackToCart)
}

func (h *CartHTTP) CloseSuccess(c echo.Context) error {
	return h.transition(c, "close_success", (*storefront.Session).CloseSuccess)
}

func (h *CartHTTP) SelectPayment(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "checkout.select_payment")

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "select_payment", "invalid body", err)
	}
	st, err := sessionmw.FromContext(c).SelectPayment(req.PaymentMethod)
	if err != nil {
		return fail(l, "select_payment", err, "cannot select payment")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *CartHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "place_order", "invalid body", err)
	}
	order, err := sessionmw.FromContext(c).PlaceOrder(ctx,
		cart.Shipping{Name: req.ShippingName, Address: req.ShippingAddress}, req.PaymentMethod)
	if err != nil {
		return fail(l, "place_order", err, "cannot place order")
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *CartHTTP) transition(c echo.Context, op string, fn func(*storefront.Session) (storefront.CartState, error)) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "checkout."+op)

	st, err := fn(sessionmw.FromContext(c))
	if err != nil {
		return fail(l, op, err, "checkout step failed")
	}
	return c.JSON(http.StatusOK, st)
}
