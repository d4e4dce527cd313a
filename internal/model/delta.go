package model

import "math/big"

// BeforeSwapDelta is the hook's adjustment in terms of the swap's specified
// and unspecified tokens. Positive values are taken by the hook.
type BeforeSwapDelta struct {
	Specified   *big.Int
	Unspecified *big.Int
}

// ZeroBeforeSwapDelta returns a delta that leaves the swap unchanged.
func ZeroBeforeSwapDelta() BeforeSwapDelta {
	return BeforeSwapDelta{Specified: big.NewInt(0), Unspecified: big.NewInt(0)}
}

// BalanceDelta is a per-asset delta from the trader's perspective.
// Negative amounts are paid by the trader, positive amounts received.
type BalanceDelta struct {
	Amount0 *big.Int
	Amount1 *big.Int
}

// NewBalanceDelta copies both amounts into a new delta. Nil amounts are zero.
func NewBalanceDelta(amount0, amount1 *big.Int) BalanceDelta {
	return BalanceDelta{Amount0: cloneInt(amount0), Amount1: cloneInt(amount1)}
}

// ZeroBalanceDelta returns a zero delta.
func ZeroBalanceDelta() BalanceDelta {
	return BalanceDelta{Amount0: big.NewInt(0), Amount1: big.NewInt(0)}
}

// Amount returns the delta for one asset.
func (d BalanceDelta) Amount(asset Asset) *big.Int {
	if asset == Asset0 {
		return cloneInt(d.Amount0)
	}
	return cloneInt(d.Amount1)
}

// Add returns d with amount added to one asset.
func (d BalanceDelta) Add(asset Asset, amount *big.Int) BalanceDelta {
	out := NewBalanceDelta(d.Amount0, d.Amount1)
	if amount == nil {
		return out
	}
	if asset == Asset0 {
		out.Amount0.Add(out.Amount0, amount)
	} else {
		out.Amount1.Add(out.Amount1, amount)
	}
	return out
}

// IsZero reports whether both amounts are zero.
func (d BalanceDelta) IsZero() bool {
	return (d.Amount0 == nil || d.Amount0.Sign() == 0) && (d.Amount1 == nil || d.Amount1.Sign() == 0)
}
