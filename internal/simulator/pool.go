package simulator

import (
	"math/big"

	"internalSwapPool/internal/model"
)

// PoolState is a copy of one simulated pool. Hook0 and Hook1 are the
// tokens the hook currently holds for the pool.
type PoolState struct {
	Key            model.PoolKey
	SqrtPriceX96   *big.Int
	Liquidity      *big.Int
	FeeGrowth0X128 *big.Int
	FeeGrowth1X128 *big.Int
	Hook0          *big.Int
	Hook1          *big.Int
}

func (p *PoolState) clone() *PoolState {
	return &PoolState{
		Key:            p.Key,
		SqrtPriceX96:   new(big.Int).Set(p.SqrtPriceX96),
		Liquidity:      new(big.Int).Set(p.Liquidity),
		FeeGrowth0X128: new(big.Int).Set(p.FeeGrowth0X128),
		FeeGrowth1X128: new(big.Int).Set(p.FeeGrowth1X128),
		Hook0:          new(big.Int).Set(p.Hook0),
		Hook1:          new(big.Int).Set(p.Hook1),
	}
}

func (p *PoolState) hookBalance(asset model.Asset) *big.Int {
	if asset == model.Asset0 {
		return p.Hook0
	}
	return p.Hook1
}

func (p *PoolState) feeGrowth(asset model.Asset) *big.Int {
	if asset == model.Asset0 {
		return p.FeeGrowth0X128
	}
	return p.FeeGrowth1X128
}
