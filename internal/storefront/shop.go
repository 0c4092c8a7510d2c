// Package storefront ties the per-client containers (cart, checkout, current
// user, view history, chat) to the process-wide catalog and user stores.
package storefront

import (
	"errors"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/chat"
)

var (
	ErrForbidden   = errors.New("admin access required")
	ErrNotLoggedIn = errors.New("not logged in")
)

// Shop holds what every session shares.
type Shop struct {
	Catalog   *catalog.Service
	Users     *auth.Store
	Orders    cart.OrderRecorder
	Publisher cart.Publisher
	Completer chat.Completer
}
