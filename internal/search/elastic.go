package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/bookstore/internal/models"
)

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

// Elastic keeps a books index in sync with the catalog and queries it.
type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(cfg ElasticConfig) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "books"
	}
	return &Elastic{es: client, index: index}, nil
}

func (e *Elastic) Ping(ctx context.Context) error {
	res, err := e.es.Info(e.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("info", res.Status(), res.Body)
	}
	return nil
}

// Reindex writes every book; used at startup to mirror the seeded catalog.
func (e *Elastic) Reindex(ctx context.Context, books []models.Book) error {
	for _, b := range books {
		if err := e.IndexBook(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Elastic) IndexBook(ctx context.Context, b models.Book) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}
	res, err := e.es.Index(e.index, bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.Itoa(b.ID)),
	)
	if err != nil {
		return fmt.Errorf("index book %d: %w", b.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (e *Elastic) DeleteBook(ctx context.Context, id int) error {
	res, err := e.es.Delete(e.index, strconv.Itoa(id), e.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

// maxResultWindow is the index.max_result_window default; pages past it
// only fetch the hit count.
const maxResultWindow = 10000

func (e *Elastic) Search(ctx context.Context, query string, from, size int) (Result, error) {
	if from < 0 {
		from = 0
	}
	if from > maxResultWindow-size {
		from, size = 0, 0
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "author", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Result{}, fmt.Errorf("encode search: %w", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Result{}, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Book `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Result{}, fmt.Errorf("decode search: %w", err)
	}

	books := make([]models.Book, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		books[i] = hit.Source
	}
	return Result{Total: r.Hits.Total.Value, Books: books}, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, status, bytes.TrimSpace(b))
}
