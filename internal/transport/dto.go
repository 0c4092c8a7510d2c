package transport

import (
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/util"
)

// BookRequest is the admin book form. Absent fields stay unset, so the same
// shape serves create (all required fields present) and partial update.
type BookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Price         *int64   `json:"price"`
	OriginalPrice *int64   `json:"original_price"`
	CoverURL      *string  `json:"cover_url"`
	Category      *string  `json:"category"`
	Rating        *float64 `json:"rating"`
	Description   *string  `json:"description"`
	AuthorBio     *string  `json:"author_bio"`
	PreviewPages  []string `json:"preview_pages"`

	ClearOriginalPrice bool `json:"clear_original_price"`
}

func (r BookRequest) Draft() catalog.Draft {
	return catalog.Draft{
		Title:         r.Title,
		Author:        r.Author,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		CoverURL:      r.CoverURL,
		Category:      r.Category,
		Rating:        r.Rating,
		Description:   r.Description,
		AuthorBio:     r.AuthorBio,
		PreviewPages:  r.PreviewPages,

		ClearOriginalPrice: r.ClearOriginalPrice,
	}
}

type BookPage struct {
	Data []models.Book `json:"data"`
	Meta util.PageMeta `json:"meta"`
}

type BookDetails struct {
	Book    models.Book   `json:"book"`
	Related []models.Book `json:"related"`
}

type AddToCartRequest struct {
	BookID int `json:"book_id"`
}

type QuantityRequest struct {
	Delta int `json:"delta"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type PlaceOrderRequest struct {
	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type FragmentRequest struct {
	Fragment string `json:"fragment"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type Dashboard struct {
	Books   int   `json:"books"`
	Users   int   `json:"users"`
	Orders  int64 `json:"orders"`
	Revenue int64 `json:"revenue"`
}

type OrderPage struct {
	Data []models.Order `json:"data"`
	Meta util.PageMeta  `json:"meta"`
}
