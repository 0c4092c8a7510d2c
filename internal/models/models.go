package models

import (
	"fmt"
	"time"
)

type Category string

const CategoryAll = "All"

var Categories = []Category{
	"Novels & Fiction",
	"Translation",
	"Business & Management",
	"Psychology",
	"Self-Improvement",
	"Philosophy",
	"Religion & Dhamma",
	"History & Politics",
	"Biographies",
	"General Knowledge",
	"Children",
	"Comics & Manga",
	"Education & Language",
	"Health & Cooking",
	"Poem",
	"Magazines",
	"Art & Design",
}

// ParseCategory accepts only the enumerated categories; "All" is a listing
// filter and is rejected here.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Book struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Price         int64    `json:"price"`
	OriginalPrice *int64   `json:"original_price,omitempty"`
	CoverURL      string   `json:"cover_url"`
	Category      Category `json:"category"`
	Rating        float64  `json:"rating"`
	Description   string   `json:"description"`
	AuthorBio     string   `json:"author_bio,omitempty"`
	PreviewPages  []string `json:"preview_pages,omitempty"`
}

type CartItem struct {
	Book
	Quantity int `json:"quantity"`
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Email        string    `json:"email,omitempty"`
	JoinDate     time.Time `json:"join_date"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentPromptPay  PaymentMethod = "PromptPay (Thai QR)"
	PaymentTrueMoney  PaymentMethod = "TrueMoney Wallet"
	PaymentCOD        PaymentMethod = "Cash on Delivery"
)

var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPromptPay, PaymentTrueMoney, PaymentCOD}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

const GuestName = "Guest"

type Order struct {
	ID              string        `gorm:"primaryKey"                   json:"id"`
	UserID          uint          `gorm:"index"                        json:"user_id"`
	UserName        string        `gorm:"not null"                     json:"user_name"`
	ShippingName    string        `gorm:"not null"                     json:"shipping_name"`
	ShippingAddress string        `gorm:"not null"                     json:"shipping_address"`
	Date            time.Time     `gorm:"not null;index"               json:"date"`
	Total           int64         `gorm:"not null"                     json:"total"`
	Status          OrderStatus   `gorm:"not null"                     json:"status"`
	ItemCount       int           `gorm:"not null"                     json:"item_count"`
	PaymentMethod   PaymentMethod `gorm:"not null"                     json:"payment_method"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID"           json:"items"`
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderID   string `gorm:"index;not null"               json:"order_id"`
	BookID    int    `gorm:"not null"                     json:"book_id"`
	Title     string `gorm:"not null"                     json:"title"`
	UnitPrice int64  `gorm:"not null"                     json:"unit_price"`
	Quantity  int    `gorm:"not null;check:quantity>0"    json:"quantity"`
}

type ChatRole string

const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Streaming bool     `json:"streaming"`
}
