package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

type Orders struct {
	DB *gorm.DB
}

type Stats struct {
	Orders  int64 `json:"orders"`
	Revenue int64 `json:"revenue"`
}

// CreateOrder writes the order and its lines in one transaction.
func (r *Orders) CreateOrder(ctx context.Context, o *models.Order) error {
	if o == nil || len(o.Items) == 0 {
		return domain.Invalid("items", "order has no lines")
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *Orders) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// OrderFilter narrows ListOrders. Zero fields match every order.
type OrderFilter struct {
	UserID uint
	// Query matches the order id or the buyer's name, case-insensitively.
	Query string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListOrders returns orders newest first.
func (r *Orders) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	scope := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Order{})
		if f.UserID != 0 {
			q = q.Where("user_id = ?", f.UserID)
		}
		if query != "" {
			pattern := "%" + likeEscaper.Replace(query) + "%"
			q = q.Where(`(LOWER(id) LIKE ? ESCAPE '\' OR LOWER(user_name) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	q := scope().Preload("Items").Order("date DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func (r *Orders) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Scan(&s).Error
	if err != nil {
		return Stats{}, fmt.Errorf("order stats: %w", err)
	}
	return s, nil
}
