package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"internalSwapPool/internal/model"
)

type entry struct {
	amount0   uint256.Int
	amount1   uint256.Int
	updatedAt time.Time
}

type slot struct {
	mu    sync.Mutex
	entry *entry
}

// Ledger holds the hook's per-pool fee balances. Each pool has its own lock,
// so swaps on different pools never contend.
type Ledger struct {
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	slots map[model.PoolID]*slot
	dirty map[model.PoolID]struct{}
}

func New(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		logger: logger,
		now:    time.Now,
		slots:  make(map[model.PoolID]*slot),
		dirty:  make(map[model.PoolID]struct{}),
	}
}

func (l *Ledger) slot(id model.PoolID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[id]
	if !ok {
		s = &slot{}
		l.slots[id] = s
	}
	return s
}

// Update runs fn with exclusive access to one pool's balances. The changes
// fn makes are committed only if it returns nil.
func (l *Ledger) Update(id model.PoolID, fn func(tx *Tx) error) error {
	s := l.slot(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{id: id}
	if s.entry != nil {
		tx.amount0.Set(&s.entry.amount0)
		tx.amount1.Set(&s.entry.amount1)
	}

	if err := fn(tx); err != nil {
		return err
	}
	if !tx.modified {
		return nil
	}

	next := &entry{updatedAt: l.now().UTC()}
	next.amount0.Set(&tx.amount0)
	next.amount1.Set(&tx.amount1)
	s.entry = next

	l.mu.Lock()
	l.dirty[id] = struct{}{}
	l.mu.Unlock()
	return nil
}

// Deposit credits both amounts to a pool.
func (l *Ledger) Deposit(id model.PoolID, amount0, amount1 *big.Int) error {
	return l.Update(id, func(tx *Tx) error {
		return tx.Deposit(amount0, amount1)
	})
}

// Debit removes both amounts from a pool, or nothing at all.
func (l *Ledger) Debit(id model.PoolID, amount0, amount1 *big.Int) error {
	return l.Update(id, func(tx *Tx) error {
		return tx.Debit(amount0, amount1)
	})
}

// Peek returns a snapshot of a pool's balances. Unknown pools read as zero.
func (l *Ledger) Peek(id model.PoolID) (*big.Int, *big.Int) {
	var amount0, amount1 *big.Int
	_ = l.Update(id, func(tx *Tx) error {
		amount0, amount1 = tx.Peek()
		return nil
	})
	return amount0, amount1
}

// Entries returns the persisted form of every pool with a ledger entry,
// ordered by pool id.
func (l *Ledger) Entries() []model.FeeEntry {
	return l.collect(nil)
}

func (l *Ledger) collect(only map[model.PoolID]struct{}) []model.FeeEntry {
	l.mu.Lock()
	ids := make([]model.PoolID, 0, len(l.slots))
	slots := make([]*slot, 0, len(l.slots))
	for id, s := range l.slots {
		if only != nil {
			if _, ok := only[id]; !ok {
				continue
			}
		}
		ids = append(ids, id)
		slots = append(slots, s)
	}
	l.mu.Unlock()

	entries := make([]model.FeeEntry, 0, len(ids))
	for i, s := range slots {
		s.mu.Lock()
		if s.entry != nil {
			entries = append(entries, model.FeeEntry{
				PoolID:    ids[i].Hex(),
				Amount0:   s.entry.amount0.Dec(),
				Amount1:   s.entry.amount1.Dec(),
				UpdatedAt: s.entry.updatedAt.Format(time.RFC3339Nano),
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PoolID < entries[j].PoolID
	})
	return entries
}

// Load replaces the balances of every pool present in the store.
func (l *Ledger) Load(ctx context.Context, store Store) error {
	entries, err := store.LoadFees(ctx)
	if err != nil {
		return fmt.Errorf("load fees: %w", err)
	}

	for _, item := range entries {
		id, err := model.ParsePoolID(item.PoolID)
		if err != nil {
			return fmt.Errorf("load fees: %w", err)
		}
		next, err := parseEntry(item)
		if err != nil {
			return fmt.Errorf("load fees for %s: %w", item.PoolID, err)
		}

		s := l.slot(id)
		s.mu.Lock()
		s.entry = next
		s.mu.Unlock()
	}

	l.logger.Debug("fee ledger loaded", zap.Int("entries", len(entries)))
	return nil
}

// Flush writes the entries changed since the last successful flush.
func (l *Ledger) Flush(ctx context.Context, store Store) error {
	l.mu.Lock()
	pending := l.dirty
	l.dirty = make(map[model.PoolID]struct{})
	l.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	entries := l.collect(pending)
	if err := store.SaveFees(ctx, entries); err != nil {
		l.mu.Lock()
		for id := range pending {
			l.dirty[id] = struct{}{}
		}
		l.mu.Unlock()
		return fmt.Errorf("save fees: %w", err)
	}

	l.logger.Debug("fee ledger flushed", zap.Int("entries", len(entries)))
	return nil
}

func parseEntry(item model.FeeEntry) (*entry, error) {
	out := &entry{}
	if err := setDecimal(&out.amount0, item.Amount0); err != nil {
		return nil, fmt.Errorf("amount0: %w", err)
	}
	if err := setDecimal(&out.amount1, item.Amount1); err != nil {
		return nil, fmt.Errorf("amount1: %w", err)
	}
	if item.UpdatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("updated_at: %w", err)
		}
		out.updatedAt = ts
	}
	return out, nil
}

func setDecimal(dst *uint256.Int, value string) error {
	if value == "" {
		dst.Clear()
		return nil
	}
	return dst.SetFromDecimal(value)
}
