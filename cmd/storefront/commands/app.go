package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/auth"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/chat"
	"github.com/Skotchmaster/bookstore/internal/config"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/seed"
	"github.com/Skotchmaster/bookstore/internal/storefront"
)

// app is the assembled storefront and the resources it must release.
type app struct {
	books    *catalog.Store
	users    *auth.Store
	orders   *repo.Orders
	searcher search.Searcher
	manager  *storefront.Manager
	db       *gorm.DB
	producer events.Publisher
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	books, err := data.CatalogBooks()
	if err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(books)
	if err != nil {
		return nil, err
	}
	users, err := auth.NewSeededStore(data.Users)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := repo.Open(openCtx, cfg.DatabaseURL, repo.WithDriver(cfg.DBDriver))
	cancel()
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Info("order_ledger", "driver", "sqlite", "mode", "memory")
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	users.Publisher = producer

	mem := &search.Memory{Books: store}
	var (
		searcher search.Searcher = mem
		index    catalog.Indexer = mem
	)
	if cfg.ESURL != "" {
		es, err := connectElastic(ctx, cfg, store)
		if err != nil {
			logger.Warn("search_fallback", "reason", "elasticsearch unavailable", "error", err)
		} else {
			searcher, index = es, es
		}
	}

	completer := chat.Unavailable()
	if cfg.GeminiAPIKey != "" {
		gc, err := chat.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		completer = gc
	} else {
		logger.Warn("chat_disabled", "reason", "GEMINI_API_KEY is not set")
	}

	orders := &repo.Orders{DB: db}
	manager := storefront.NewManager(&storefront.Shop{
		Catalog:   &catalog.Service{Store: store, Publisher: producer, Index: index},
		Users:     users,
		Orders:    orders,
		Publisher: producer,
		Completer: completer,
	})

	return &app{
		books:    store,
		users:    users,
		orders:   orders,
		searcher: searcher,
		manager:  manager,
		db:       db,
		producer: producer,
	}, nil
}

func connectElastic(ctx context.Context, cfg config.Config, store *catalog.Store) (*search.Elastic, error) {
	es, err := search.NewElastic(search.ElasticConfig{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := es.Ping(pingCtx); err != nil {
		return nil, err
	}
	if err := es.Reindex(ctx, store.List("")); err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}
	return es, nil
}

func (a *app) ready() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (a *app) close(logger *slog.Logger) {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}
	if err := a.producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
}

// sessionSecret returns the configured secret, or a random one that only
// lives as long as the process.
func sessionSecret(cfg config.Config, logger *slog.Logger) []byte {
	if len(cfg.SessionSecret) > 0 {
		return cfg.SessionSecret
	}
	logger.Warn("session_secret_generated", "reason", "SESSION_SECRET is not set; sessions will not survive a restart")
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
