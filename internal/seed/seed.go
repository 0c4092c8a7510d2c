// Package seed loads the fixed catalog and user data the stores start from.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/bookstore/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

type BookRecord struct {
	ID            int      `yaml:"id"`
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author"`
	Price         int64    `yaml:"price"`
	OriginalPrice *int64   `yaml:"original_price"`
	Category      string   `yaml:"category"`
	Rating        float64  `yaml:"rating"`
	CoverURL      string   `yaml:"cover_url"`
	Description   string   `yaml:"description"`
	AuthorBio     string   `yaml:"author_bio"`
	PreviewPages  []string `yaml:"preview_pages"`
}

type UserRecord struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Email    string `yaml:"email"`
}

type Data struct {
	Books []BookRecord `yaml:"books"`
	Users []UserRecord `yaml:"users"`
}

// Load reads seed data from path, or the embedded default when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &d, nil
}

// CatalogBooks converts the book records, rejecting unknown categories and
// duplicate ids.
func (d *Data) CatalogBooks() ([]models.Book, error) {
	seen := make(map[int]struct{}, len(d.Books))
	out := make([]models.Book, 0, len(d.Books))
	for _, r := range d.Books {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("seed: duplicate book id %d", r.ID)
		}
		seen[r.ID] = struct{}{}

		cat, err := models.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("seed: book %d: %w", r.ID, err)
		}
		out = append(out, models.Book{
			ID:            r.ID,
			Title:         r.Title,
			Author:        r.Author,
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
			CoverURL:      r.CoverURL,
			Category:      cat,
			Rating:        r.Rating,
			Description:   r.Description,
			AuthorBio:     r.AuthorBio,
			PreviewPages:  r.PreviewPages,
		})
	}
	return out, nil
}
