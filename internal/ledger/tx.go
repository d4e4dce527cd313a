package ledger

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"internalSwapPool/internal/model"
)

// Tx is a working copy of one pool's balances. Changes made through a Tx are
// committed by Ledger.Update only when its callback returns nil.
type Tx struct {
	id       model.PoolID
	amount0  uint256.Int
	amount1  uint256.Int
	modified bool
}

func (t *Tx) PoolID() model.PoolID {
	return t.id
}

// Peek returns copies of both balances.
func (t *Tx) Peek() (*big.Int, *big.Int) {
	return t.amount0.ToBig(), t.amount1.ToBig()
}

// Balance returns a copy of one asset's balance.
func (t *Tx) Balance(asset model.Asset) *big.Int {
	return t.balance(asset).ToBig()
}

// Deposit adds both amounts. Nothing changes if either add overflows.
func (t *Tx) Deposit(amount0, amount1 *big.Int) error {
	a0, err := toUint256(amount0)
	if err != nil {
		return fmt.Errorf("deposit amount0: %w", err)
	}
	a1, err := toUint256(amount1)
	if err != nil {
		return fmt.Errorf("deposit amount1: %w", err)
	}

	next0, overflow0 := new(uint256.Int).AddOverflow(&t.amount0, a0)
	next1, overflow1 := new(uint256.Int).AddOverflow(&t.amount1, a1)
	if overflow0 || overflow1 {
		return ErrOverflow
	}

	t.set(next0, next1, !a0.IsZero() || !a1.IsZero())
	return nil
}

// Debit subtracts both amounts. Nothing changes if either exceeds its balance.
func (t *Tx) Debit(amount0, amount1 *big.Int) error {
	a0, err := toUint256(amount0)
	if err != nil {
		return fmt.Errorf("debit amount0: %w", err)
	}
	a1, err := toUint256(amount1)
	if err != nil {
		return fmt.Errorf("debit amount1: %w", err)
	}

	if t.amount0.Lt(a0) {
		return fmt.Errorf("debit %s of asset0 from %s: %w", a0.Dec(), t.amount0.Dec(), ErrInsufficientReserve)
	}
	if t.amount1.Lt(a1) {
		return fmt.Errorf("debit %s of asset1 from %s: %w", a1.Dec(), t.amount1.Dec(), ErrInsufficientReserve)
	}

	next0 := new(uint256.Int).Sub(&t.amount0, a0)
	next1 := new(uint256.Int).Sub(&t.amount1, a1)
	t.set(next0, next1, !a0.IsZero() || !a1.IsZero())
	return nil
}

// DepositAsset adds amount to one asset.
func (t *Tx) DepositAsset(asset model.Asset, amount *big.Int) error {
	if asset == model.Asset0 {
		return t.Deposit(amount, nil)
	}
	return t.Deposit(nil, amount)
}

// DebitAsset subtracts amount from one asset.
func (t *Tx) DebitAsset(asset model.Asset, amount *big.Int) error {
	if asset == model.Asset0 {
		return t.Debit(amount, nil)
	}
	return t.Debit(nil, amount)
}

func (t *Tx) balance(asset model.Asset) *uint256.Int {
	if asset == model.Asset0 {
		return &t.amount0
	}
	return &t.amount1
}

func (t *Tx) set(amount0, amount1 *uint256.Int, changed bool) {
	t.amount0.Set(amount0)
	t.amount1.Set(amount1)
	if changed {
		t.modified = true
	}
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}
