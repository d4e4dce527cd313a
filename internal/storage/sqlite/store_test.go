package sqlite

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "swaphook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSaveAndLoadFees(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	entries := []model.FeeEntry{
		{PoolID: "0x02", Amount0: "115792089237316195423570985008687907853269984665640564039457584007913129639935", Amount1: "7"},
		{PoolID: "0x01", Amount0: "", Amount1: "3"},
	}
	if err := store.SaveFees(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveFees(ctx, []model.FeeEntry{{PoolID: "0x01", Amount0: "9", Amount1: "0"}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := store.LoadFees(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].PoolID != "0x01" || loaded[0].Amount0 != "9" || loaded[0].Amount1 != "0" {
		t.Fatalf("unexpected first entry: %+v", loaded[0])
	}
	if loaded[1].Amount0 != entries[0].Amount0 {
		t.Fatalf("max uint256 should round-trip, got %s", loaded[1].Amount0)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	key := model.PoolKey{
		Currency0:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
		Currency1:   common.HexToAddress("0x0000000000000000000000000000000000000002"),
		Fee:         3000,
		TickSpacing: 60,
	}
	id := key.ID()

	fees := ledger.New(nil)
	if err := fees.Deposit(id, big.NewInt(12345), big.NewInt(678)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := fees.Flush(ctx, store); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := ledger.New(nil)
	if err := reloaded.Load(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	amount0, amount1 := reloaded.Peek(id)
	if amount0.Int64() != 12345 || amount1.Int64() != 678 {
		t.Fatalf("unexpected balances: %s %s", amount0, amount1)
	}
}

func TestUpsertPools(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	key := model.PoolKey{
		Currency0:   common.HexToAddress("0x0000000000000000000000000000000000000001"),
		Currency1:   common.HexToAddress("0x0000000000000000000000000000000000000002"),
		Fee:         500,
		TickSpacing: 10,
	}
	if err := store.UpsertPools(ctx, []model.Pool{model.PoolRecord("eth-usdc", key)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertPools(ctx, []model.Pool{model.PoolRecord("weth-usdc", key)}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	pools, err := store.Pools(ctx)
	if err != nil {
		t.Fatalf("pools: %v", err)
	}
	if len(pools) != 1 || pools[0].Name != "weth-usdc" || pools[0].ID != key.ID().Hex() || pools[0].Fee != 500 {
		t.Fatalf("unexpected pools: %+v", pools)
	}
}
