package ledger

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"internalSwapPool/internal/model"
	"internalSwapPool/internal/swapmath"
)

func testPoolID(b byte) model.PoolID {
	var id model.PoolID
	id[31] = b
	return id
}

func expectBalances(t *testing.T, l *Ledger, id model.PoolID, want0, want1 int64) {
	t.Helper()
	got0, got1 := l.Peek(id)
	if got0.Cmp(big.NewInt(want0)) != 0 || got1.Cmp(big.NewInt(want1)) != 0 {
		t.Fatalf("balances mismatch: got (%s,%s) want (%d,%d)", got0, got1, want0, want1)
	}
}

func TestDepositAndDebit(t *testing.T) {
	l := New(nil)
	id := testPoolID(1)

	expectBalances(t, l, id, 0, 0)
	if len(l.Entries()) != 0 {
		t.Fatalf("peek should not create an entry")
	}

	if err := l.Deposit(id, big.NewInt(500), big.NewInt(20)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := l.Debit(id, big.NewInt(200), big.NewInt(20)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	expectBalances(t, l, id, 300, 0)

	entries := l.Entries()
	if len(entries) != 1 || entries[0].PoolID != id.Hex() || entries[0].Amount0 != "300" || entries[0].Amount1 != "0" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDebitInsufficientLeavesBalances(t *testing.T) {
	l := New(nil)
	id := testPoolID(2)
	if err := l.Deposit(id, big.NewInt(100), big.NewInt(100)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	err := l.Debit(id, big.NewInt(50), big.NewInt(101))
	if !errors.Is(err, ErrInsufficientReserve) {
		t.Fatalf("expected ErrInsufficientReserve, got %v", err)
	}
	expectBalances(t, l, id, 100, 100)
}

func TestDepositOverflow(t *testing.T) {
	l := New(nil)
	id := testPoolID(3)
	if err := l.Deposit(id, swapmath.MaxUint256, nil); err != nil {
		t.Fatalf("deposit max: %v", err)
	}

	err := l.Deposit(id, big.NewInt(1), nil)
	if !errors.Is(err, ErrOverflow) || !errors.Is(err, swapmath.ErrArithmeticOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	got0, _ := l.Peek(id)
	if got0.Cmp(swapmath.MaxUint256) != 0 {
		t.Fatalf("balance changed after overflow: %s", got0)
	}

	if err := l.Deposit(testPoolID(4), new(big.Int).Add(swapmath.MaxUint256, big.NewInt(1)), nil); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow for wide amount, got %v", err)
	}
}

func TestNegativeAmountRejected(t *testing.T) {
	l := New(nil)
	if err := l.Deposit(testPoolID(5), big.NewInt(-1), nil); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	l := New(nil)
	id := testPoolID(6)
	if err := l.Deposit(id, big.NewInt(1000), big.NewInt(0)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	boom := errors.New("boom")
	err := l.Update(id, func(tx *Tx) error {
		if err := tx.DebitAsset(model.Asset0, big.NewInt(400)); err != nil {
			return err
		}
		if err := tx.DepositAsset(model.Asset1, big.NewInt(7)); err != nil {
			return err
		}
		if tx.Balance(model.Asset0).Int64() != 600 {
			t.Fatalf("tx should see its own debit")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	expectBalances(t, l, id, 1000, 0)
}

func TestFlushWritesOnlyChangedEntries(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "state", "fees.json"))

	l := New(nil)
	a, b := testPoolID(7), testPoolID(8)
	if err := l.Deposit(a, big.NewInt(10), big.NewInt(1)); err != nil {
		t.Fatalf("deposit a: %v", err)
	}
	if err := l.Deposit(b, big.NewInt(20), big.NewInt(2)); err != nil {
		t.Fatalf("deposit b: %v", err)
	}
	if err := l.Flush(ctx, store); err != nil {
		t.Fatalf("flush: %v", err)
	}

	recording := &recordingStore{}
	if err := l.Flush(ctx, recording); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
	if recording.calls != 0 {
		t.Fatalf("expected no writes without changes")
	}

	if err := l.Debit(b, big.NewInt(5), nil); err != nil {
		t.Fatalf("debit b: %v", err)
	}
	if err := l.Flush(ctx, recording); err != nil {
		t.Fatalf("flush changes: %v", err)
	}
	if recording.calls != 1 || len(recording.entries) != 1 || recording.entries[0].PoolID != b.Hex() {
		t.Fatalf("expected only pool b, got %+v", recording.entries)
	}

	reloaded := New(nil)
	if err := reloaded.Load(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	expectBalances(t, reloaded, a, 10, 1)
	expectBalances(t, reloaded, b, 20, 2)
}

func TestFlushKeepsDirtyOnFailure(t *testing.T) {
	ctx := context.Background()
	l := New(nil)
	id := testPoolID(9)
	if err := l.Deposit(id, big.NewInt(1), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	failing := &recordingStore{err: errors.New("disk full")}
	if err := l.Flush(ctx, failing); err == nil {
		t.Fatalf("expected flush error")
	}

	recording := &recordingStore{}
	if err := l.Flush(ctx, recording); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if len(recording.entries) != 1 {
		t.Fatalf("expected entry to be retried, got %+v", recording.entries)
	}
}

func TestFileStoreMergesEntries(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "fees.json"))

	entries, err := store.LoadFees(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("missing file should load empty: %v %v", entries, err)
	}

	first := []model.FeeEntry{{PoolID: testPoolID(1).Hex(), Amount0: "1", Amount1: "2"}}
	second := []model.FeeEntry{
		{PoolID: testPoolID(1).Hex(), Amount0: "3", Amount1: "4"},
		{PoolID: testPoolID(2).Hex(), Amount0: "5", Amount1: "6"},
	}
	if err := store.SaveFees(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.SaveFees(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	entries, err = store.LoadFees(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 || entries[0].Amount0 != "3" || entries[1].Amount1 != "6" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

type recordingStore struct {
	calls   int
	entries []model.FeeEntry
	err     error
}

func (s *recordingStore) LoadFees(ctx context.Context) ([]model.FeeEntry, error) {
	return s.entries, nil
}

func (s *recordingStore) SaveFees(ctx context.Context, entries []model.FeeEntry) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.entries = entries
	return nil
}
