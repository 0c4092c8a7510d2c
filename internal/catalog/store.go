// Package catalog holds the in-memory book catalog shared by every session.
package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// Store keeps books newest-first. All reads return copies.
type Store struct {
	mu    sync.RWMutex
	books []models.Book
}

func NewStore(seed []models.Book) (*Store, error) {
	s := &Store{books: make([]models.Book, 0, len(seed))}
	seen := make(map[int]struct{}, len(seed))
	for _, b := range seed {
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate id %d: %w", b.ID, domain.ErrConflict)
		}
		if err := Validate(b); err != nil {
			return nil, fmt.Errorf("catalog: book %d: %w", b.ID, err)
		}
		seen[b.ID] = struct{}{}
		s.books = append(s.books, clone(b))
	}
	return s, nil
}

func clone(b models.Book) models.Book {
	b.PreviewPages = slices.Clone(b.PreviewPages)
	if b.OriginalPrice != nil {
		op := *b.OriginalPrice
		b.OriginalPrice = &op
	}
	return b
}

// List returns the books in category, or every book for "" and "All".
func (s *Store) List(category string) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if category == "" || category == models.CategoryAll || string(b.Category) == category {
			out = append(out, clone(b))
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

func (s *Store) Get(id int) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return clone(s.books[i]), nil
	}
	return models.Book{}, fmt.Errorf("book %d: %w", id, domain.ErrNotFound)
}

func (s *Store) Exists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Featured returns the first n books of the listing.
func (s *Store) Featured(n int) []models.Book {
	all := s.List("")
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Related returns up to n other books sharing the category of id.
func (s *Store) Related(id, n int) []models.Book {
	b, err := s.Get(id)
	if err != nil {
		return nil
	}
	out := make([]models.Book, 0, n)
	for _, other := range s.List(string(b.Category)) {
		if len(out) == n {
			break
		}
		if other.ID != id {
			out = append(out, other)
		}
	}
	return out
}

// Create assigns id = max(ids, 0) + 1 and prepends the built book.
func (s *Store) Create(d Draft) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, b := range s.books {
		maxID = max(maxID, b.ID)
	}

	book, err := d.Build(maxID + 1)
	if err != nil {
		return models.Book{}, err
	}
	s.books = slices.Insert(s.books, 0, clone(book))
	return book, nil
}

// Update replaces the book with the same id. Unknown ids are not inserted.
func (s *Store) Update(book models.Book) (models.Book, error) {
	if err := Validate(book); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(book.ID)
	if i < 0 {
		return models.Book{}, fmt.Errorf("book %d: %w", book.ID, domain.ErrNotFound)
	}
	s.books[i] = clone(book)
	return book, nil
}

func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("book %d: %w", id, domain.ErrNotFound)
	}
	s.books = slices.Delete(s.books, i, i+1)
	return nil
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.books, func(b models.Book) bool { return b.ID == id })
}
