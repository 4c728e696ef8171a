package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"example.com/catalog-admin/internal/config"
	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
	"example.com/catalog-admin/internal/infra/persistence/mysql"
	"example.com/catalog-admin/internal/infra/persistence/postgres"
	"example.com/catalog-admin/internal/logger"
)

// loadConfig reads .env (when present) then the config file and
// environment, and validates the result.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func bootLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// store bundles the repositories of the configured driver. DB is a
// database/sql handle on the same database for migrations.
type store struct {
	Products domproduct.Repository
	Users    domuser.Repository
	DB       *sql.DB
	close    func()
}

func (s *store) Close() {
	if s.close != nil {
		s.close()
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case "mysql":
		db, err := mysql.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &store{
			Products: mysql.NewProductRepository(db),
			Users:    mysql.NewUserRepository(db),
			DB:       db,
			close:    func() { _ = db.Close() },
		}, nil
	case "postgres":
		pool, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		return &store{
			Products: postgres.NewProductRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			DB:       db,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
