package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"internalSwapPool/internal/model"
)

// Store persists fee ledger entries. SaveFees upserts by pool id.
type Store interface {
	LoadFees(ctx context.Context) ([]model.FeeEntry, error)
	SaveFees(ctx context.Context, entries []model.FeeEntry) error
}

type feeFile struct {
	Entries []model.FeeEntry `json:"entries"`
}

// FileStore keeps ledger entries in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadFees(ctx context.Context) ([]model.FeeEntry, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat fee file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("fee file path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fee file: %w", err)
	}

	var file feeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fee file: %w", err)
	}
	return file.Entries, nil
}

func (s *FileStore) SaveFees(ctx context.Context, entries []model.FeeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := s.LoadFees(ctx)
	if err != nil {
		return err
	}

	merged := make(map[string]model.FeeEntry, len(existing)+len(entries))
	for _, item := range existing {
		merged[item.PoolID] = item
	}
	for _, item := range entries {
		merged[item.PoolID] = item
	}

	file := feeFile{Entries: make([]model.FeeEntry, 0, len(merged))}
	for _, item := range merged {
		file.Entries = append(file.Entries, item)
	}
	sort.Slice(file.Entries, func(i, j int) bool {
		return file.Entries[i].PoolID < file.Entries[j].PoolID
	})

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fee dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fee file: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write fee tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename fee file: %w", err)
	}
	return nil
}
