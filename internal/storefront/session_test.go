package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/navigation"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/seed"
)

func ptr[T any](v T) *T { return &v }

func newShop(t *testing.T) *Shop {
	t.Helper()
	store, err := catalog.NewStore([]models.Book{
		{ID: 2, Title: "Sapiens", Author: "Harari", Price: 450, Category: "History & Politics", Rating: 4.5},
		{ID: 1, Title: "Atomic Habits", Author: "Clear", Price: 100, Category: "Self-Improvement", Rating: 4.8},
	})
	require.NoError(t, err)

	users, err := auth.NewSeededStore([]seed.UserRecord{
		{Username: "admin", Password: "admin123", Name: "Store Admin", Role: "admin"},
	})
	require.NoError(t, err)

	db, err := repo.Open(context.Background(), "")
	require.NoError(t, err)

	return &Shop{
		Catalog: &catalog.Service{Store: store},
		Users:   users,
		Orders:  &repo.Orders{DB: db},
	}
}

func TestSession_CartScenario(t *testing.T) {
	s := NewManager(newShop(t)).New()

	st, err := s.AddToCart(1)
	require.NoError(t, err)
	assert.True(t, st.Open)
	st, err = s.AddToCart(1)
	require.NoError(t, err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)

	st, err = s.UpdateQuantity(1, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Items[0].Quantity)

	st, err = s.UpdateQuantity(1, -1)
	require.NoError(t, err)
	assert.Empty(t, st.Items)

	_, err = s.AddToCart(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_CheckoutPlacesGuestOrder(t *testing.T) {
	shop := newShop(t)
	s := NewManager(shop).New()
	ctx := context.Background()

	_, err := s.AddToCart(1)
	require.NoError(t, err)
	_, err = s.AddToCart(2)
	require.NoError(t, err)
	_, err = s.BeginCheckout()
	require.NoError(t, err)

	order, err := s.PlaceOrder(ctx, cart.Shipping{Name: "Somchai", Address: "Bangkok"}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 550, order.Total)
	assert.Equal(t, models.GuestName, order.UserName)
	assert.Equal(t, models.PaymentPromptPay, order.PaymentMethod)

	st := s.Cart()
	assert.Empty(t, st.Items)
	assert.Equal(t, cart.StepSuccess, st.Step)
	require.NotNil(t, st.LastOrder)
	assert.Equal(t, order.ID, st.LastOrder.ID)

	stored, err := shop.Orders.(*repo.Orders).GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestSession_CloseCartResetsCheckout(t *testing.T) {
	s := NewManager(newShop(t)).New()
	_, err := s.AddToCart(1)
	require.NoError(t, err)
	_, err = s.BeginCheckout()
	require.NoError(t, err)
	_, err = s.SelectPayment(string(models.PaymentCOD))
	require.NoError(t, err)

	st := s.CloseCart()
	assert.False(t, st.Open)
	assert.Equal(t, cart.StepCart, st.Step)
	assert.Equal(t, models.PaymentPromptPay, st.Payment)
	assert.Len(t, st.Items, 1)
}

func TestSession_LoggedInOrderCarriesUser(t *testing.T) {
	s := NewManager(newShop(t)).New()
	ctx := context.Background()

	u, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	_, err = s.AddToCart(2)
	require.NoError(t, err)
	_, err = s.BeginCheckout()
	require.NoError(t, err)

	order, err := s.PlaceOrder(ctx, cart.Shipping{Name: "Admin", Address: "Office"}, string(models.PaymentTrueMoney))
	require.NoError(t, err)
	assert.Equal(t, u.ID, order.UserID)
	assert.Equal(t, "Store Admin", order.UserName)
}

func TestSession_LogoutClosesAdmin(t *testing.T) {
	s := NewManager(newShop(t)).New()
	ctx := context.Background()

	assert.ErrorIs(t, s.OpenAdmin(), ErrForbidden)
	assert.ErrorIs(t, s.Logout(), ErrNotLoggedIn)

	_, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NoError(t, s.OpenAdmin())
	assert.True(t, s.AdminOpen())

	require.NoError(t, s.Logout())
	assert.Nil(t, s.User())
	assert.False(t, s.AdminOpen())
}

func TestSession_SignupLogsInAsStandard(t *testing.T) {
	s := NewManager(newShop(t)).New()
	ctx := context.Background()

	_, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NoError(t, s.OpenAdmin())

	u, err := s.Signup(ctx, auth.SignupRequest{Username: "mya", Password: "secret1", Name: "Mya"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStandard, u.Role)
	assert.Equal(t, "mya", s.User().Username)
	assert.False(t, s.AdminOpen())

	_, err = s.Login(ctx, "admin", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, "mya", s.User().Username)
}

func TestSession_AdminBookLifecycle(t *testing.T) {
	m := NewManager(newShop(t))
	admin := m.New()
	other := m.New()
	ctx := context.Background()

	_, err := admin.CreateBook(ctx, catalog.Draft{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = admin.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	b, err := admin.CreateBook(ctx, catalog.Draft{
		Title: ptr("Norwegian Wood"), Author: ptr("Murakami"), Price: ptr(int64(380)),
		Category: ptr("Translation"), Rating: ptr(4.2),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, b.ID)

	b, err = admin.UpdateBook(ctx, b.ID, catalog.Draft{Price: ptr(int64(350))})
	require.NoError(t, err)
	assert.EqualValues(t, 350, b.Price)
	assert.Equal(t, "Norwegian Wood", b.Title)

	assert.Equal(t, navigation.View{Name: navigation.ViewDetails, BookID: 3}, admin.OpenBook(3))
	assert.Equal(t, navigation.ViewDetails, other.OpenBook(3).Name)

	require.NoError(t, admin.DeleteBook(ctx, 3))
	assert.Equal(t, navigation.Home, admin.View())
	assert.Equal(t, navigation.Home, other.View())
	assert.ErrorIs(t, admin.DeleteBook(ctx, 3), domain.ErrNotFound)

	admin.Back()
	assert.Equal(t, navigation.Home, admin.View())
}

func TestSession_FragmentNavigation(t *testing.T) {
	s := NewManager(newShop(t)).New()

	assert.Equal(t, navigation.Home, s.View())
	assert.Equal(t, navigation.Home, s.SetFragment("#book/5"))
	assert.Equal(t, navigation.View{Name: navigation.ViewDetails, BookID: 2}, s.OpenBook(2))
	assert.Equal(t, navigation.Home, s.Home())
	assert.Equal(t, navigation.ViewDetails, s.Back().Name)
}

func TestManager_GetAndSweep(t *testing.T) {
	m := NewManager(newShop(t))
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return now }

	stale := m.New()
	now = now.Add(2 * time.Hour)
	fresh := m.New()

	got, ok := m.Get(fresh.ID)
	require.True(t, ok)
	assert.Same(t, fresh, got)

	assert.Equal(t, 1, m.Sweep(time.Hour))
	_, ok = m.Get(stale.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

// sessionReadingPublisher reads the session from inside Publish, which
// only returns once the session lock has been released.
type sessionReadingPublisher struct {
	s    *Session
	seen []CartState
}

func (p *sessionReadingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	if topic == cart.TopicOrders {
		p.seen = append(p.seen, p.s.Cart())
	}
	return nil
}

func TestSession_PlaceOrderPublishesOutsideLock(t *testing.T) {
	shop := newShop(t)
	pub := &sessionReadingPublisher{}
	shop.Publisher = pub
	s := NewManager(shop).New()
	pub.s = s

	_, err := s.AddToCart(2)
	require.NoError(t, err)
	_, err = s.BeginCheckout()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.PlaceOrder(context.Background(), cart.Shipping{Name: "Ann", Address: "Bangkok"}, "")
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("PlaceOrder held the session lock while publishing")
	}

	require.Len(t, pub.seen, 1)
	assert.Equal(t, cart.StepSuccess, pub.seen[0].Step)
	assert.Empty(t, pub.seen[0].Items)
}
