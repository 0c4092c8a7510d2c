package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
)

type Step string

const (
	StepCart     Step = "cart"
	StepCheckout Step = "checkout"
	StepSuccess  Step = "success"
)

const TopicOrders = "order_events"

var (
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrEmptyCart         = errors.New("cart is empty")
)

type OrderRecorder interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Customer identifies who places the order; the zero value is a guest.
type Customer struct {
	UserID uint
	Name   string
}

type Shipping struct {
	Name    string
	Address string
}

// Checkout is the cart -> checkout -> success flow over one cart.
type Checkout struct {
	cart    *Cart
	step    Step
	payment models.PaymentMethod
	last    *models.Order

	Recorder  OrderRecorder
	Publisher Publisher
	Now       func() time.Time
}

func NewCheckout(c *Cart, rec OrderRecorder, pub Publisher) *Checkout {
	return &Checkout{
		cart:      c,
		step:      StepCart,
		payment:   models.PaymentPromptPay,
		Recorder:  rec,
		Publisher: pub,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (co *Checkout) Step() Step                    { return co.step }
func (co *Checkout) Payment() models.PaymentMethod { return co.payment }
func (co *Checkout) LastOrder() *models.Order      { return co.last }

func (co *Checkout) Begin() error {
	if co.step != StepCart {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, co.step)
	}
	if co.cart.Empty() {
		return ErrEmptyCart
	}
	co.step = StepCheckout
	return nil
}

func (co *Checkout) Back() error {
	if co.step != StepCheckout {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, co.step)
	}
	co.step = StepCart
	return nil
}

func (co *Checkout) SelectPayment(method string) error {
	if co.step != StepCheckout {
		return fmt.Errorf("%w: select payment in %s", ErrInvalidTransition, co.step)
	}
	m, err := models.ParsePaymentMethod(method)
	if err != nil {
		return domain.Invalid("payment_method", err.Error())
	}
	co.payment = m
	return nil
}

// PlaceOrder is Place followed by Announce.
func (co *Checkout) PlaceOrder(ctx context.Context, who Customer, ship Shipping, method string) (*models.Order, error) {
	o, err := co.Place(ctx, who, ship, method)
	if err != nil {
		return nil, err
	}
	co.Announce(ctx, o)
	return o, nil
}

// Place validates shipping, records the order, clears the cart and moves
// to success. On any error the flow stays in checkout with the cart intact.
// An empty method keeps the current selection. The order_created event is
// left to Announce so callers can publish outside their own locks.
func (co *Checkout) Place(ctx context.Context, who Customer, ship Shipping, method string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.place_order", "user_id", who.UserID)

	if co.step != StepCheckout {
		return nil, fmt.Errorf("%w: place order from %s", ErrInvalidTransition, co.step)
	}
	name := strings.TrimSpace(ship.Name)
	if name == "" {
		return nil, domain.Invalid("shipping_name", "required")
	}
	addr := strings.TrimSpace(ship.Address)
	if addr == "" {
		return nil, domain.Invalid("shipping_address", "required")
	}
	payment := co.payment
	if method != "" {
		m, err := models.ParsePaymentMethod(method)
		if err != nil {
			return nil, domain.Invalid("payment_method", err.Error())
		}
		payment = m
	}
	if co.cart.Empty() {
		return nil, ErrEmptyCart
	}

	order := co.buildOrder(who, name, addr, payment)

	if co.Recorder != nil {
		if err := co.Recorder.CreateOrder(ctx, order); err != nil {
			l.Error("place_order_failed", "reason", "cannot record order", "error", err)
			return nil, fmt.Errorf("record order: %w", err)
		}
	}

	co.cart.Clear()
	co.payment = payment
	co.step = StepSuccess
	co.last = order

	l.Info("place_order_success", "order_id", order.ID, "total", order.Total)
	return order, nil
}

// Close dismisses the success screen.
func (co *Checkout) Close() error {
	if co.step != StepSuccess {
		return fmt.Errorf("%w: close from %s", ErrInvalidTransition, co.step)
	}
	co.step = StepCart
	return nil
}

// Reset returns to the cart step with the default payment selection,
// as when the drawer is dismissed.
func (co *Checkout) Reset() {
	co.step = StepCart
	co.payment = models.PaymentPromptPay
}

func (co *Checkout) buildOrder(who Customer, name, addr string, payment models.PaymentMethod) *models.Order {
	id := "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	userName := who.Name
	if who.UserID == 0 || userName == "" {
		userName = models.GuestName
	}

	order := &models.Order{
		ID:              id,
		UserID:          who.UserID,
		UserName:        userName,
		ShippingName:    name,
		ShippingAddress: addr,
		Date:            co.Now(),
		Total:           co.cart.Total(),
		Status:          models.OrderPending,
		ItemCount:       co.cart.Count(),
		PaymentMethod:   payment,
	}
	for _, it := range co.cart.items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   id,
			BookID:    it.ID,
			Title:     it.Title,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
	}
	return order
}

// Announce publishes order_created for o.
func (co *Checkout) Announce(ctx context.Context, o *models.Order) {
	if co.Publisher == nil {
		return
	}
	event := map[string]any{
		"type":      "order_created",
		"orderID":   o.ID,
		"userID":    o.UserID,
		"total":     o.Total,
		"itemCount": o.ItemCount,
		"payment":   o.PaymentMethod,
	}
	if err := co.Publisher.Publish(ctx, TopicOrders, o.ID, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", TopicOrders, "error", err)
	}
}
