package catalog

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
)

const TopicBooks = "book_events"

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Indexer interface {
	IndexBook(ctx context.Context, b models.Book) error
	DeleteBook(ctx context.Context, id int) error
}

// Service funnels admin mutations through the store and fans them out to
// the event stream and the search index. Fan-out failures are logged only.
type Service struct {
	Store     *Store
	Publisher Publisher
	Index     Indexer
}

func (s *Service) Create(ctx context.Context, d Draft) (models.Book, error) {
	book, err := s.Store.Create(d)
	if err != nil {
		return models.Book{}, err
	}
	s.afterWrite(ctx, "book_created", book)
	return book, nil
}

// Update merges patch onto the stored book and replaces it.
func (s *Service) Update(ctx context.Context, id int, patch Draft) (models.Book, error) {
	current, err := s.Store.Get(id)
	if err != nil {
		return models.Book{}, err
	}
	book, err := DraftFrom(current).Merge(patch).Build(id)
	if err != nil {
		return models.Book{}, err
	}
	if book, err = s.Store.Update(book); err != nil {
		return models.Book{}, err
	}
	s.afterWrite(ctx, "book_updated", book)
	return book, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.Store.Delete(id); err != nil {
		return err
	}
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "book_id", id)
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, id); err != nil {
			l.Warn("search_unindex_failed", "error", err)
		}
	}
	s.publish(ctx, map[string]any{"type": "book_deleted", "bookID": id})
	return nil
}

func (s *Service) afterWrite(ctx context.Context, typ string, b models.Book) {
	l := logging.FromContext(ctx).With("svc", "catalog."+typ, "book_id", b.ID)
	if s.Index != nil {
		if err := s.Index.IndexBook(ctx, b); err != nil {
			l.Warn("search_index_failed", "error", err)
		}
	}
	s.publish(ctx, map[string]any{
		"type":     typ,
		"bookID":   b.ID,
		"title":    b.Title,
		"category": b.Category,
		"price":    b.Price,
	})
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, TopicBooks, fmt.Sprint(event["bookID"]), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", TopicBooks, "error", err)
	}
}
