package replay

import (
	"fmt"
	"sort"
	"strings"

	"internalSwapPool/internal/model"
)

// PoolSet resolves the pool reference in an input record, either a
// configured name or a pool id, to its key.
type PoolSet struct {
	byName map[string]model.PoolKey
	byID   map[model.PoolID]string
	keys   map[model.PoolID]model.PoolKey
}

func NewPoolSet() *PoolSet {
	return &PoolSet{
		byName: make(map[string]model.PoolKey),
		byID:   make(map[model.PoolID]string),
		keys:   make(map[model.PoolID]model.PoolKey),
	}
}

// Add registers a pool. Names are case-insensitive and must be unique.
func (s *PoolSet) Add(name string, key model.PoolKey) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("pool name is required")
	}
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("duplicate pool name: %s", name)
	}
	id := key.ID()
	if existing, ok := s.byID[id]; ok {
		return fmt.Errorf("pool %s has the same key as %s", name, existing)
	}
	s.byName[name] = key
	s.byID[id] = name
	s.keys[id] = key
	return nil
}

// Resolve looks up a pool by name, then by id.
func (s *PoolSet) Resolve(ref string) (model.PoolKey, error) {
	ref = strings.TrimSpace(ref)
	if key, ok := s.byName[strings.ToLower(ref)]; ok {
		return key, nil
	}
	id, err := model.ParsePoolID(ref)
	if err != nil {
		return model.PoolKey{}, fmt.Errorf("unknown pool: %s", ref)
	}
	key, ok := s.keys[id]
	if !ok {
		return model.PoolKey{}, fmt.Errorf("unknown pool: %s", ref)
	}
	return key, nil
}

// Records returns the storage records of every pool, ordered by name.
func (s *PoolSet) Records() []model.Pool {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.Pool, 0, len(names))
	for _, name := range names {
		out = append(out, model.PoolRecord(name, s.byName[name]))
	}
	return out
}

func (s *PoolSet) Len() int {
	return len(s.byName)
}
