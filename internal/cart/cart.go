// Package cart implements a session's cart and the checkout flow built on it.
package cart

import (
	"fmt"
	"slices"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// Cart holds at most one line per book id, each with quantity >= 1.
// It is owned by a single session and is not safe for concurrent use.
type Cart struct {
	items []models.CartItem
}

// Add increments the line for b or inserts it with quantity 1. The stored
// book is a snapshot; later catalog edits do not reprice the line.
func (c *Cart) Add(b models.Book) models.CartItem {
	if i := c.indexOf(b.ID); i >= 0 {
		c.items[i].Quantity++
		return c.items[i]
	}
	b.PreviewPages = slices.Clone(b.PreviewPages)
	item := models.CartItem{Book: b, Quantity: 1}
	c.items = append(c.items, item)
	return item
}

// Remove deletes the line regardless of quantity.
func (c *Cart) Remove(id int) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("cart item %d: %w", id, domain.ErrNotFound)
	}
	c.items = slices.Delete(c.items, i, i+1)
	return nil
}

// UpdateQuantity applies delta and returns the new quantity. A result <= 0
// deletes the line and returns 0.
func (c *Cart) UpdateQuantity(id, delta int) (int, error) {
	i := c.indexOf(id)
	if i < 0 {
		return 0, fmt.Errorf("cart item %d: %w", id, domain.ErrNotFound)
	}
	q := c.items[i].Quantity + delta
	if q <= 0 {
		c.items = slices.Delete(c.items, i, i+1)
		return 0, nil
	}
	c.items[i].Quantity = q
	return q, nil
}

func (c *Cart) Clear() { c.items = nil }

func (c *Cart) Items() []models.CartItem { return slices.Clone(c.items) }

func (c *Cart) Empty() bool { return len(c.items) == 0 }

func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Count is the number of units, not lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) indexOf(id int) int {
	return slices.IndexFunc(c.items, func(it models.CartItem) bool { return it.ID == id })
}
