package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"internalSwapPool/internal/model"
)

type feeRow struct {
	PoolID    string `gorm:"primaryKey"`
	Amount0   string `gorm:"not null"`
	Amount1   string `gorm:"not null"`
	UpdatedAt time.Time
}

func (feeRow) TableName() string { return "pool_fees" }

type poolRow struct {
	PoolID      string `gorm:"primaryKey"`
	Name        string `gorm:"index"`
	Currency0   string
	Currency1   string
	Fee         uint32
	TickSpacing int32
	Hooks       string
	UpdatedAt   time.Time
}

func (poolRow) TableName() string { return "pools" }

// Store keeps the fee ledger and pool registry in an embedded SQLite file.
type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&feeRow{}, &poolRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) LoadFees(ctx context.Context) ([]model.FeeEntry, error) {
	var rows []feeRow
	if err := s.db.WithContext(ctx).Order("pool_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load fees: %w", err)
	}

	entries := make([]model.FeeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.FeeEntry{
			PoolID:    row.PoolID,
			Amount0:   row.Amount0,
			Amount1:   row.Amount1,
			UpdatedAt: row.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return entries, nil
}

// SaveFees upserts every entry in one transaction.
func (s *Store) SaveFees(ctx context.Context, entries []model.FeeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			row := feeRow{
				PoolID:    entry.PoolID,
				Amount0:   defaultZero(entry.Amount0),
				Amount1:   defaultZero(entry.Amount1),
				UpdatedAt: now,
			}
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("save fees for %s: %w", entry.PoolID, err)
			}
		}
		return nil
	})
}

// UpsertPools inserts pools and refreshes the name of known ones.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	rows := make([]poolRow, 0, len(pools))
	for _, pool := range pools {
		rows = append(rows, poolRow{
			PoolID:      pool.ID,
			Name:        pool.Name,
			Currency0:   pool.Currency0,
			Currency1:   pool.Currency1,
			Fee:         pool.Fee,
			TickSpacing: pool.TickSpacing,
			Hooks:       pool.Hooks,
			UpdatedAt:   time.Now().UTC(),
		})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pool_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&rows).Error
}

// Pools returns the registered pools ordered by name.
func (s *Store) Pools(ctx context.Context) ([]model.Pool, error) {
	var rows []poolRow
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load pools: %w", err)
	}
	pools := make([]model.Pool, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, model.Pool{
			ID:          row.PoolID,
			Name:        row.Name,
			Currency0:   row.Currency0,
			Currency1:   row.Currency1,
			Fee:         row.Fee,
			TickSpacing: row.TickSpacing,
			Hooks:       row.Hooks,
		})
	}
	return pools, nil
}

func defaultZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
