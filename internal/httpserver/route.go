package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/bookstore/internal/middleware/csrf"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
)

type Deps struct {
	Catalog *CatalogHTTP
	Admin   *AdminHTTP
	Session sessionmw.Config

	// CSRF enables double-submit checks on the session API.
	CSRF bool
	// ChatRate limits chat submissions per session; zero disables it.
	ChatRate float64
	// Ready reports dependency health for the readiness check.
	Ready func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
			}
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	catalog := d.Catalog
	v1.GET("/categories", catalog.Categories)
	v1.GET("/books", catalog.GetBooks)
	v1.GET("/books/featured", catalog.GetFeatured)
	v1.GET("/books/:id", catalog.GetBook)
	v1.GET("/search", catalog.SearchBooks)

	mws := []echo.MiddlewareFunc{sessionmw.Middleware(d.Session)}
	if d.CSRF {
		mws = append(mws, csrf.Middleware(csrf.Config{Secure: d.Session.SecureCookie}))
	}
	s := v1.Group("", mws...)

	view := &ViewHTTP{}
	s.GET("/view", view.GetView)
	s.PUT("/view", view.SetFragment)
	s.POST("/view/books/:id", view.OpenBook)
	s.POST("/view/back", view.Back)
	s.POST("/view/home", view.Home)

	cart := &CartHTTP{}
	s.GET("/cart", cart.GetCart)
	s.POST("/cart/items", cart.AddItem)
	s.PATCH("/cart/items/:id", cart.UpdateItem)
	s.DELETE("/cart/items/:id", cart.RemoveItem)
	s.DELETE("/cart", cart.ClearCart)
	s.POST("/cart/open", cart.OpenCart)
	s.POST("/cart/close", cart.CloseCart)
	s.POST("/checkout", cart.BeginCheckout)
	s.POST("/checkout/back", cart.BackToCart)
	s.POST("/checkout/close", cart.CloseSuccess)
	s.PUT("/checkout/payment", cart.SelectPayment)
	s.POST("/checkout/order", cart.PlaceOrder)

	auth := &AuthHTTP{}
	s.POST("/auth/login", auth.Login)
	s.POST("/auth/signup", auth.Signup)
	s.POST("/auth/logout", auth.Logout)
	s.GET("/auth/me", auth.Me)

	chat := &ChatHTTP{}
	s.GET("/chat", chat.GetTranscript)
	if d.ChatRate > 0 {
		s.POST("/chat/messages", chat.PostMessage, chatLimiter(d.ChatRate))
	} else {
		s.POST("/chat/messages", chat.PostMessage)
	}

	admin := s.Group("/admin", sessionmw.RequireAdmin)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.DELETE("/dashboard", d.Admin.CloseDashboard)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.GET("/users", d.Admin.ListUsers)
	admin.POST("/books", d.Admin.CreateBook)
	admin.PUT("/books/:id", d.Admin.UpdateBook)
	admin.DELETE("/books/:id", d.Admin.DeleteBook)
}

// chatLimiter keys the token bucket on the session, so one tab cannot
// flood the completion backend.
func chatLimiter(perSec float64) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSec),
		Burst:     3,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return sessionmw.FromContext(c).ID, nil
		},
		DenyHandler: func(c echo.Context, id string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many chat messages, slow down")
		},
	})
}
