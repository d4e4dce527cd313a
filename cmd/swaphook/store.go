package main

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"internalSwapPool/internal/config"
	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
	"internalSwapPool/internal/storage/postgres"
	"internalSwapPool/internal/storage/sqlite"
)

// poolRegistry is implemented by the database stores.
type poolRegistry interface {
	UpsertPools(ctx context.Context, pools []model.Pool) error
}

type feeStore struct {
	ledger.Store
	// pools is nil for the file store.
	pools poolRegistry
	close func()
}

func openFeeStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*feeStore, error) {
	switch cfg.Kind {
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("fee store", zap.String("kind", cfg.Kind), zap.String("dsn", redactDSN(cfg.PGDSN)))
		return &feeStore{Store: store, pools: store, close: store.Close}, nil

	case config.StoreSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("fee store", zap.String("kind", cfg.Kind), zap.String("path", cfg.SQLitePath))
		return &feeStore{Store: store, pools: store, close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("close sqlite", zap.Error(err))
			}
		}}, nil

	case config.StoreFile:
		logger.Info("fee store", zap.String("kind", cfg.Kind), zap.String("path", cfg.FeeFile))
		return &feeStore{Store: ledger.NewFileStore(cfg.FeeFile), close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Kind)
}

// redactDSN hides the password of a URL-form DSN for logging.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
