// Package search answers free-text catalog queries.
package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/models"
)

type Result struct {
	Total int64         `json:"total"`
	Books []models.Book `json:"books"`
}

type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (Result, error)
}

// BookSource is the catalog view the in-memory searcher scans.
type BookSource interface {
	List(category string) []models.Book
}

// Memory scans the live catalog. Title matches rank ahead of author and
// description matches; ties keep catalog order.
type Memory struct {
	Books BookSource
}

func (m *Memory) Search(_ context.Context, query string, from, size int) (Result, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return Result{Books: []models.Book{}}, nil
	}

	var primary, secondary []models.Book
	for _, b := range m.Books.List("") {
		title := strings.ToLower(b.Title)
		rest := strings.ToLower(b.Author + " " + b.Description + " " + string(b.Category))
		inTitle, all := false, true
		for _, t := range terms {
			switch {
			case strings.Contains(title, t):
				inTitle = true
			case strings.Contains(rest, t):
			default:
				all = false
			}
		}
		if !all {
			continue
		}
		if inTitle {
			primary = append(primary, b)
		} else {
			secondary = append(secondary, b)
		}
	}

	hits := append(primary, secondary...)
	return Result{Total: int64(len(hits)), Books: window(hits, from, size)}, nil
}

func (m *Memory) IndexBook(context.Context, models.Book) error { return nil }
func (m *Memory) DeleteBook(context.Context, int) error       { return nil }

func window(books []models.Book, from, size int) []models.Book {
	if from < 0 {
		from = 0
	}
	if from >= len(books) {
		return []models.Book{}
	}
	end := len(books)
	if size > 0 && from+size < end {
		end = from + size
	}
	return books[from:end]
}
