package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/chat"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/navigation"
)

// Session is one client's view of the store. All mutation goes through its
// methods, which serialize on the session lock.
type Session struct {
	ID string

	mu        sync.Mutex
	shop      *Shop
	cart      *cart.Cart
	checkout  *cart.Checkout
	user      *models.User
	nav       *navigation.Navigator
	chat      *chat.Transcript
	cartOpen  bool
	adminOpen bool
	lastSeen  time.Time
}

func newSession(id string, shop *Shop, now time.Time) *Session {
	c := &cart.Cart{}
	return &Session{
		ID:       id,
		shop:     shop,
		cart:     c,
		checkout: cart.NewCheckout(c, shop.Orders, shop.Publisher),
		nav:      navigation.NewNavigator(""),
		chat:     chat.NewTranscript(shop.Completer),
		lastSeen: now,
	}
}

// CartState is a snapshot of the drawer and checkout flow.
type CartState struct {
	Open      bool                 `json:"open"`
	Step      cart.Step            `json:"step"`
	Payment   models.PaymentMethod `json:"payment_method"`
	Items     []models.CartItem    `json:"items"`
	Total     int64                `json:"total"`
	Count     int                  `json:"count"`
	LastOrder *models.Order        `json:"last_order,omitempty"`
}

func (s *Session) Cart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartStateLocked()
}

func (s *Session) cartStateLocked() CartState {
	st := CartState{
		Open:    s.cartOpen,
		Step:    s.checkout.Step(),
		Payment: s.checkout.Payment(),
		Items:   s.cart.Items(),
		Total:   s.cart.Total(),
		Count:   s.cart.Count(),
	}
	if st.Step == cart.StepSuccess {
		st.LastOrder = s.checkout.LastOrder()
	}
	return st
}

// AddToCart adds the current catalog version of the book and opens the drawer.
func (s *Session) AddToCart(bookID int) (CartState, error) {
	b, err := s.shop.Catalog.Store.Get(bookID)
	if err != nil {
		return CartState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(b)
	s.cartOpen = true
	return s.cartStateLocked(), nil
}

func (s *Session) RemoveFromCart(bookID int) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.Remove(bookID); err != nil {
		return CartState{}, err
	}
	return s.cartStateLocked(), nil
}

func (s *Session) UpdateQuantity(bookID, delta int) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.cart.UpdateQuantity(bookID, delta); err != nil {
		return CartState{}, err
	}
	return s.cartStateLocked(), nil
}

func (s *Session) ClearCart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	if s.checkout.Step() == cart.StepCheckout {
		s.checkout.Reset()
	}
	return s.cartStateLocked()
}

func (s *Session) OpenCart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = true
	return s.cartStateLocked()
}

// CloseCart dismisses the drawer and resets the checkout flow.
func (s *Session) CloseCart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = false
	s.checkout.Reset()
	return s.cartStateLocked()
}

func (s *Session) BeginCheckout() (CartState, error) {
	return s.step(s.checkout.Begin)
}

func (s *Session) BackToCart() (CartState, error) {
	return s.step(s.checkout.Back)
}

func (s *Session) CloseSuccess() (CartState, error) {
	return s.step(s.checkout.Close)
}

func (s *Session) SelectPayment(method string) (CartState, error) {
	return s.step(func() error { return s.checkout.SelectPayment(method) })
}

// PlaceOrder records the order under the session lock and publishes the
// event after releasing it.
func (s *Session) PlaceOrder(ctx context.Context, ship cart.Shipping, method string) (*models.Order, error) {
	s.mu.Lock()
	who := cart.Customer{}
	if s.user != nil {
		who = cart.Customer{UserID: s.user.ID, Name: s.user.Name}
	}
	o, err := s.checkout.Place(ctx, who, ship, method)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.checkout.Announce(ctx, o)
	return o, nil
}

func (s *Session) step(fn func() error) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return CartState{}, err
	}
	return s.cartStateLocked(), nil
}

// User returns a copy of the logged-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Login(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.shop.Users.Login(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	s.setUser(&u)
	return u, nil
}

func (s *Session) Signup(ctx context.Context, req auth.SignupRequest) (models.User, error) {
	u, err := s.shop.Users.Signup(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	s.setUser(&u)
	return u, nil
}

// Logout clears the user and closes the admin surface.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	s.user = nil
	s.adminOpen = false
	return nil
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if !u.IsAdmin() {
		s.adminOpen = false
	}
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.IsAdmin()
}

func (s *Session) AdminOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminOpen
}

func (s *Session) OpenAdmin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.user.IsAdmin() {
		return ErrForbidden
	}
	s.adminOpen = true
	return nil
}

func (s *Session) CloseAdmin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminOpen = false
}

func (s *Session) CreateBook(ctx context.Context, d catalog.Draft) (models.Book, error) {
	if !s.IsAdmin() {
		return models.Book{}, ErrForbidden
	}
	return s.shop.Catalog.Create(ctx, d)
}

func (s *Session) UpdateBook(ctx context.Context, id int, patch catalog.Draft) (models.Book, error) {
	if !s.IsAdmin() {
		return models.Book{}, ErrForbidden
	}
	return s.shop.Catalog.Update(ctx, id, patch)
}

// DeleteBook removes the book and navigates home if this session was
// viewing it.
func (s *Session) DeleteBook(ctx context.Context, id int) error {
	if !s.IsAdmin() {
		return ErrForbidden
	}
	s.mu.Lock()
	viewing := s.nav.Current(s.exists)
	s.mu.Unlock()

	if err := s.shop.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	if viewing.Name == navigation.ViewDetails && viewing.BookID == id {
		s.mu.Lock()
		s.nav.Home()
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) View() navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Current(s.exists)
}

func (s *Session) OpenBook(id int) navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Open(id)
	return s.nav.Current(s.exists)
}

func (s *Session) SetFragment(f string) navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.SetFragment(f)
	return s.nav.Current(s.exists)
}

func (s *Session) Back() navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Back()
	return s.nav.Current(s.exists)
}

func (s *Session) Home() navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Home()
	return s.nav.Current(s.exists)
}

func (s *Session) Chat() *chat.Transcript { return s.chat }

func (s *Session) exists(id int) bool {
	return s.shop.Catalog.Store.Exists(id)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
