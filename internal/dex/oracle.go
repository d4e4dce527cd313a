package dex

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"internalSwapPool/internal/model"
	"internalSwapPool/internal/swapmath"
)

type OracleConfig struct {
	Retry RetryPolicy
	// BlockNumber pins reads to one block; zero reads the latest state.
	BlockNumber uint64
	Logger      *zap.Logger
}

// ChainOracle reads curve state from deployed concentrated-liquidity pools.
// Each hook pool id is mapped to the address of the pool that prices it.
type ChainOracle struct {
	caller ContractCaller
	retry  RetryPolicy
	block  *big.Int
	logger *zap.Logger

	mu    sync.RWMutex
	pools map[model.PoolID]common.Address
}

func NewChainOracle(caller ContractCaller, cfg OracleConfig) *ChainOracle {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var block *big.Int
	if cfg.BlockNumber > 0 {
		block = new(big.Int).SetUint64(cfg.BlockNumber)
	}
	return &ChainOracle{
		caller: caller,
		retry:  cfg.Retry,
		block:  block,
		logger: logger,
		pools:  make(map[model.PoolID]common.Address),
	}
}

// Register maps a pool id to the on-chain pool read for it.
func (o *ChainOracle) Register(id model.PoolID, pool common.Address) {
	o.mu.Lock()
	o.pools[id] = pool
	o.mu.Unlock()
}

func (o *ChainOracle) address(id model.PoolID) (common.Address, error) {
	o.mu.RLock()
	pool, ok := o.pools[id]
	o.mu.RUnlock()
	if !ok {
		return common.Address{}, fmt.Errorf("no on-chain pool registered for %s", id.Hex())
	}
	return pool, nil
}

func (o *ChainOracle) SqrtPriceX96(ctx context.Context, id model.PoolID) (*big.Int, error) {
	pool, err := o.address(id)
	if err != nil {
		return nil, err
	}

	var slot0 model.PoolSlot0
	err = withRetry(ctx, o.retry, func(ctx context.Context) error {
		var err error
		slot0, err = readSlot0(ctx, o.caller, pool, o.block)
		return err
	}, o.logRetry("slot0", pool))
	if err != nil {
		return nil, err
	}

	price := slot0.SqrtPriceX96
	if price.Sign() == 0 || !swapmath.FitsUint(price, 160) {
		return nil, fmt.Errorf("pool %s returned invalid sqrt price %s", pool.Hex(), price)
	}
	return price, nil
}

func (o *ChainOracle) Liquidity(ctx context.Context, id model.PoolID) (*big.Int, error) {
	pool, err := o.address(id)
	if err != nil {
		return nil, err
	}

	var liquidity *big.Int
	err = withRetry(ctx, o.retry, func(ctx context.Context) error {
		var err error
		liquidity, err = readLiquidity(ctx, o.caller, pool, o.block)
		return err
	}, o.logRetry("liquidity", pool))
	if err != nil {
		return nil, err
	}
	if !swapmath.FitsUint(liquidity, 128) {
		return nil, fmt.Errorf("pool %s returned invalid liquidity %s", pool.Hex(), liquidity)
	}
	return liquidity, nil
}

// CurveState reads price and liquidity together.
func (o *ChainOracle) CurveState(ctx context.Context, id model.PoolID) (model.CurveState, error) {
	price, err := o.SqrtPriceX96(ctx, id)
	if err != nil {
		return model.CurveState{}, err
	}
	liquidity, err := o.Liquidity(ctx, id)
	if err != nil {
		return model.CurveState{}, err
	}
	return model.CurveState{SqrtPriceX96: price, Liquidity: liquidity}, nil
}

func (o *ChainOracle) logRetry(method string, pool common.Address) func(int, error) {
	return func(attempt int, err error) {
		o.logger.Warn("pool read failed, retrying",
			zap.String("method", method),
			zap.String("pool", pool.Hex()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
