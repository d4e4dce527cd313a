package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolSlot0 holds the slot0 fields read from a deployed pool.
type PoolSlot0 struct {
	SqrtPriceX96 *big.Int
	Tick         int32
}

// ExternalPool is a deployed concentrated-liquidity pool whose curve prices
// a hook pool.
type ExternalPool struct {
	Address     common.Address
	Token0      common.Address
	Token1      common.Address
	Fee         uint32
	TickSpacing int32
	Slot0       PoolSlot0
	Liquidity   *big.Int
}

// Curve returns the price and liquidity read with the pool.
func (p ExternalPool) Curve() CurveState {
	return CurveState{
		SqrtPriceX96: cloneInt(p.Slot0.SqrtPriceX96),
		Liquidity:    cloneInt(p.Liquidity),
	}
}

// HookKey builds the key of the hook pool over the same currencies and fee tier.
func (p ExternalPool) HookKey(hooks common.Address) (PoolKey, error) {
	key := PoolKey{
		Currency0:   p.Token0,
		Currency1:   p.Token1,
		Fee:         p.Fee,
		TickSpacing: p.TickSpacing,
		Hooks:       hooks,
	}
	if err := key.Validate(); err != nil {
		return PoolKey{}, err
	}
	return key, nil
}

// Token is ERC20 display metadata.
type Token struct {
	Address  common.Address
	Decimals uint8
	Symbol   string
	Name     string
}

// Label is the symbol, or the address for tokens without one.
func (t Token) Label() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address.Hex()
}
