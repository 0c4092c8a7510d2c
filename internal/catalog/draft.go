package catalog

import (
	"slices"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// Draft is a partially filled book from the admin form. Nil fields are unset.
// ClearOriginalPrice removes the discount, since a nil OriginalPrice only
// means "unchanged".
type Draft struct {
	Title         *string
	Author        *string
	Price         *int64
	OriginalPrice *int64
	CoverURL      *string
	Category      *string
	Rating        *float64
	Description   *string
	AuthorBio     *string
	PreviewPages  []string

	ClearOriginalPrice bool
}

func DraftFrom(b models.Book) Draft {
	cat := string(b.Category)
	d := Draft{
		Title:        &b.Title,
		Author:       &b.Author,
		Price:        &b.Price,
		CoverURL:     &b.CoverURL,
		Category:     &cat,
		Rating:       &b.Rating,
		Description:  &b.Description,
		AuthorBio:    &b.AuthorBio,
		PreviewPages: slices.Clone(b.PreviewPages),
	}
	if b.OriginalPrice != nil {
		op := *b.OriginalPrice
		d.OriginalPrice = &op
	}
	return d
}

// Merge overlays the set fields of patch onto d.
func (d Draft) Merge(patch Draft) Draft {
	if patch.Title != nil {
		d.Title = patch.Title
	}
	if patch.Author != nil {
		d.Author = patch.Author
	}
	if patch.Price != nil {
		d.Price = patch.Price
	}
	if patch.ClearOriginalPrice {
		d.OriginalPrice = nil
	} else if patch.OriginalPrice != nil {
		d.OriginalPrice = patch.OriginalPrice
	}
	if patch.CoverURL != nil {
		d.CoverURL = patch.CoverURL
	}
	if patch.Category != nil {
		d.Category = patch.Category
	}
	if patch.Rating != nil {
		d.Rating = patch.Rating
	}
	if patch.Description != nil {
		d.Description = patch.Description
	}
	if patch.AuthorBio != nil {
		d.AuthorBio = patch.AuthorBio
	}
	if patch.PreviewPages != nil {
		d.PreviewPages = slices.Clone(patch.PreviewPages)
	}
	return d
}

// Build validates the draft against the full book contract.
func (d Draft) Build(id int) (models.Book, error) {
	b := models.Book{ID: id}

	if d.Title == nil || strings.TrimSpace(*d.Title) == "" {
		return models.Book{}, domain.Invalid("title", "required")
	}
	b.Title = strings.TrimSpace(*d.Title)

	if d.Author == nil || strings.TrimSpace(*d.Author) == "" {
		return models.Book{}, domain.Invalid("author", "required")
	}
	b.Author = strings.TrimSpace(*d.Author)

	if d.Price == nil {
		return models.Book{}, domain.Invalid("price", "required")
	}
	b.Price = *d.Price

	if d.Category == nil {
		return models.Book{}, domain.Invalid("category", "required")
	}
	cat, err := models.ParseCategory(*d.Category)
	if err != nil {
		return models.Book{}, domain.Invalid("category", err.Error())
	}
	b.Category = cat

	if d.Rating != nil {
		b.Rating = *d.Rating
	}
	if d.OriginalPrice != nil {
		op := *d.OriginalPrice
		b.OriginalPrice = &op
	}
	if d.CoverURL != nil {
		b.CoverURL = *d.CoverURL
	}
	if d.Description != nil {
		b.Description = *d.Description
	}
	if d.AuthorBio != nil {
		b.AuthorBio = *d.AuthorBio
	}
	b.PreviewPages = slices.Clone(d.PreviewPages)

	if err := Validate(b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func Validate(b models.Book) error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return domain.Invalid("title", "required")
	case strings.TrimSpace(b.Author) == "":
		return domain.Invalid("author", "required")
	case b.Price < 0:
		return domain.Invalid("price", "must be >= 0")
	case b.OriginalPrice != nil && *b.OriginalPrice < 0:
		return domain.Invalid("original_price", "must be >= 0")
	case b.Rating < 0 || b.Rating > 5:
		return domain.Invalid("rating", "must be between 0 and 5")
	}
	if _, err := models.ParseCategory(string(b.Category)); err != nil {
		return domain.Invalid("category", err.Error())
	}
	return nil
}
