// Package repo is the gorm-backed order ledger.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/bookstore/internal/models"
)

// Postgres drivers for the ledger. pgx is the default; lib/pq registers
// itself with database/sql as "postgres".
const (
	DriverPGX = "pgx"
	DriverPQ  = "postgres"
)

type Option func(*options)

type options struct{ driver string }

// WithDriver selects the database/sql driver used for a Postgres DSN.
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects to Postgres when dsn is set, otherwise to a private
// in-memory SQLite database that lives as long as the process. The schema
// is migrated either way.
func Open(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	o := options{driver: DriverPGX}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	if dsn == "" {
		dialector = sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	} else {
		cfg.PrepareStmt = true
		switch o.driver {
		case DriverPGX:
			dialector = postgres.Open(dsn)
		case DriverPQ:
			dialector = postgres.New(postgres.Config{DriverName: DriverPQ, DSN: dsn})
		default:
			return nil, fmt.Errorf("unknown postgres driver %q", o.driver)
		}
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if dsn == "" {
		// The in-memory database disappears when its last connection closes.
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		configurePool(sqlDB)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
