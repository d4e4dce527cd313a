package model

import (
	"fmt"
	"math/big"
)

// Direction is the way a settlement transfer moves tokens.
type Direction uint8

const (
	HookToPool Direction = iota
	PoolToHook
)

func (d Direction) String() string {
	switch d {
	case HookToPool:
		return "hook_to_pool"
	case PoolToHook:
		return "pool_to_hook"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// MarshalText encodes the direction as its name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TransferDirective asks the settlement layer to move one asset between the
// hook and the pool's accounting.
type TransferDirective struct {
	PoolID    PoolID
	Asset     Asset
	Amount    *big.Int
	Direction Direction
}

// DistributionDirective asks the donation sink to hand fees to liquidity providers.
type DistributionDirective struct {
	PoolID  PoolID
	Amount0 *big.Int
	Amount1 *big.Int
}
