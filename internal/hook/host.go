package hook

import (
	"context"
	"math/big"

	"internalSwapPool/internal/model"
)

// Oracle reads the external curve's state for a pool.
type Oracle interface {
	SqrtPriceX96(ctx context.Context, id model.PoolID) (*big.Int, error)
	Liquidity(ctx context.Context, id model.PoolID) (*big.Int, error)
}

// Settlement applies transfer directives, exactly once each and in order.
type Settlement interface {
	Transfer(ctx context.Context, directive model.TransferDirective) error
}

// DistributionSink hands donated fees to liquidity providers.
type DistributionSink interface {
	Donate(ctx context.Context, directive model.DistributionDirective) error
}

// Host is the pool manager the hook is attached to. Swap, Transfer and
// Donate are only valid inside Unlock, and everything done inside a failed
// Unlock is undone.
type Host interface {
	Oracle
	Settlement
	DistributionSink
	Swap(ctx context.Context, key model.PoolKey, params model.SwapParams) (model.BalanceDelta, error)
	Unlock(ctx context.Context, fn func(ctx context.Context) error) error
}
