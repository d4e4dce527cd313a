package simulator

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"internalSwapPool/internal/model"
	"internalSwapPool/internal/swapmath"
)

type unlockKey struct{}

// Manager is an in-memory pool manager. Each pool is a single
// concentrated-liquidity range, so a swap is one curve step up to the
// price limit.
type Manager struct {
	logger *zap.Logger

	// unlock serialises Unlock callbacks with the calls that change state
	// outside of them, so a rollback never drops those changes.
	unlock sync.Mutex

	mu       sync.RWMutex
	unlocked bool
	pools    map[model.PoolID]*PoolState
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger: logger,
		pools:  make(map[model.PoolID]*PoolState),
	}
}

// Initialize registers a pool at a starting price with a fixed in-range
// liquidity. It waits for any running Unlock and must not be called from
// inside one.
func (m *Manager) Initialize(key model.PoolKey, sqrtPriceX96, liquidity *big.Int) (model.PoolID, error) {
	if err := key.Validate(); err != nil {
		return model.PoolID{}, err
	}
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(swapmath.MinSqrtPrice) < 0 || sqrtPriceX96.Cmp(swapmath.MaxSqrtPrice) >= 0 {
		return model.PoolID{}, ErrInvalidSqrtPrice
	}
	if liquidity == nil || liquidity.Sign() < 0 || !swapmath.FitsUint(liquidity, 128) {
		return model.PoolID{}, fmt.Errorf("liquidity: %w", swapmath.ErrArithmeticOverflow)
	}

	id := key.ID()

	m.unlock.Lock()
	defer m.unlock.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pools[id]; ok {
		return id, ErrPoolAlreadyInitialized
	}
	m.pools[id] = &PoolState{
		Key:            key,
		SqrtPriceX96:   new(big.Int).Set(sqrtPriceX96),
		Liquidity:      new(big.Int).Set(liquidity),
		FeeGrowth0X128: big.NewInt(0),
		FeeGrowth1X128: big.NewInt(0),
		Hook0:          big.NewInt(0),
		Hook1:          big.NewInt(0),
	}

	m.logger.Debug("pool initialized",
		zap.String("pool_id", id.Hex()),
		zap.String("sqrt_price_x96", sqrtPriceX96.String()),
		zap.String("liquidity", liquidity.String()),
	)
	return id, nil
}

// Pool returns a copy of a pool's state.
func (m *Manager) Pool(id model.PoolID) (PoolState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pool, ok := m.pools[id]
	if !ok {
		return PoolState{}, fmt.Errorf("%s: %w", id.Hex(), ErrUnknownPool)
	}
	return *pool.clone(), nil
}

// CreditHook records tokens handed to the hook outside of a swap, such as
// fee deposits. Like Initialize it waits for any running Unlock.
func (m *Manager) CreditHook(id model.PoolID, amount0, amount1 *big.Int) error {
	m.unlock.Lock()
	defer m.unlock.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, ok := m.pools[id]
	if !ok {
		return fmt.Errorf("%s: %w", id.Hex(), ErrUnknownPool)
	}
	if amount0 != nil {
		pool.Hook0.Add(pool.Hook0, amount0)
	}
	if amount1 != nil {
		pool.Hook1.Add(pool.Hook1, amount1)
	}
	return nil
}

func (m *Manager) SqrtPriceX96(ctx context.Context, id model.PoolID) (*big.Int, error) {
	state, err := m.Pool(id)
	if err != nil {
		return nil, err
	}
	return state.SqrtPriceX96, nil
}

func (m *Manager) Liquidity(ctx context.Context, id model.PoolID) (*big.Int, error) {
	state, err := m.Pool(id)
	if err != nil {
		return nil, err
	}
	return state.Liquidity, nil
}

// Unlock runs fn with the manager open for swaps, transfers and donations.
// If fn fails, every pool is restored to its state before the call.
func (m *Manager) Unlock(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(unlockKey{}).(*Manager); ok && owner == m {
		return ErrReentrant
	}

	m.unlock.Lock()
	defer m.unlock.Unlock()

	m.mu.Lock()
	snapshot := make(map[model.PoolID]*PoolState, len(m.pools))
	for id, pool := range m.pools {
		snapshot[id] = pool.clone()
	}
	m.unlocked = true
	m.mu.Unlock()

	err := fn(context.WithValue(ctx, unlockKey{}, m))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlocked = false
	if err != nil {
		m.pools = snapshot
		return err
	}
	return nil
}

// Swap executes a swap against the pool's curve and returns the trader's delta.
func (m *Manager) Swap(ctx context.Context, key model.PoolKey, params model.SwapParams) (model.BalanceDelta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, err := m.openPool(key.ID())
	if err != nil {
		return model.BalanceDelta{}, err
	}
	if params.AmountSpecified == nil || params.AmountSpecified.Sign() == 0 {
		return model.ZeroBalanceDelta(), nil
	}
	if pool.Liquidity.Sign() == 0 {
		return model.BalanceDelta{}, ErrNoLiquidity
	}

	limit := params.SqrtPriceLimitX96
	if limit == nil {
		limit = swapmath.DefaultPriceLimit(params.ZeroForOne)
	}
	if err := swapmath.CheckPriceLimit(pool.SqrtPriceX96, limit, params.ZeroForOne); err != nil {
		return model.BalanceDelta{}, err
	}

	step, err := swapmath.ComputeSwapStep(pool.SqrtPriceX96, limit, pool.Liquidity, params.AmountSpecified, pool.Key.Fee)
	if err != nil {
		return model.BalanceDelta{}, fmt.Errorf("swap step: %w", err)
	}

	paid := new(big.Int).Add(step.AmountIn, step.FeeAmount)
	delta := model.ZeroBalanceDelta().
		Add(params.InputAsset(), new(big.Int).Neg(paid)).
		Add(params.OutputAsset(), step.AmountOut)

	pool.SqrtPriceX96 = step.SqrtPriceNextX96
	if step.FeeAmount.Sign() > 0 {
		growth := pool.feeGrowth(params.InputAsset())
		growth.Add(growth, feeGrowthDelta(step.FeeAmount, pool.Liquidity))
	}

	m.logger.Debug("curve swap",
		zap.String("pool_id", key.ID().Hex()),
		zap.Bool("zero_for_one", params.ZeroForOne),
		zap.String("amount_in", step.AmountIn.String()),
		zap.String("amount_out", step.AmountOut.String()),
		zap.String("fee", step.FeeAmount.String()),
	)
	return delta, nil
}

// Transfer moves tokens between the hook and the pool.
func (m *Manager) Transfer(ctx context.Context, directive model.TransferDirective) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, err := m.openPool(directive.PoolID)
	if err != nil {
		return err
	}
	if directive.Amount == nil || directive.Amount.Sign() < 0 {
		return fmt.Errorf("transfer amount must be non-negative")
	}

	balance := pool.hookBalance(directive.Asset)
	switch directive.Direction {
	case model.HookToPool:
		if balance.Cmp(directive.Amount) < 0 {
			return fmt.Errorf("transfer %s of %s: %w", directive.Amount, directive.Asset, ErrInsufficientHookBalance)
		}
		balance.Sub(balance, directive.Amount)
	case model.PoolToHook:
		balance.Add(balance, directive.Amount)
	default:
		return fmt.Errorf("unknown transfer direction %s", directive.Direction)
	}
	return nil
}

// Donate pays hook-held tokens to the pool's liquidity providers.
func (m *Manager) Donate(ctx context.Context, directive model.DistributionDirective) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, err := m.openPool(directive.PoolID)
	if err != nil {
		return err
	}
	if pool.Liquidity.Sign() == 0 {
		return ErrNoLiquidity
	}

	amounts := [2]*big.Int{directive.Amount0, directive.Amount1}
	for i, asset := range []model.Asset{model.Asset0, model.Asset1} {
		amount := amounts[i]
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		if amount.Sign() < 0 {
			return fmt.Errorf("donation amount must be non-negative")
		}
		if pool.hookBalance(asset).Cmp(amount) < 0 {
			return fmt.Errorf("donate %s of %s: %w", amount, asset, ErrInsufficientHookBalance)
		}
	}

	for i, asset := range []model.Asset{model.Asset0, model.Asset1} {
		amount := amounts[i]
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		balance := pool.hookBalance(asset)
		balance.Sub(balance, amount)
		growth := pool.feeGrowth(asset)
		growth.Add(growth, feeGrowthDelta(amount, pool.Liquidity))
	}

	m.logger.Debug("donation",
		zap.String("pool_id", directive.PoolID.Hex()),
		zap.String("amount0", intString(directive.Amount0)),
		zap.String("amount1", intString(directive.Amount1)),
	)
	return nil
}

// openPool must be called with mu held.
func (m *Manager) openPool(id model.PoolID) (*PoolState, error) {
	if !m.unlocked {
		return nil, ErrManagerLocked
	}
	pool, ok := m.pools[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id.Hex(), ErrUnknownPool)
	}
	return pool, nil
}

// feeGrowthDelta is amount * 2^128 / liquidity.
func feeGrowthDelta(amount, liquidity *big.Int) *big.Int {
	out := new(big.Int).Lsh(amount, 128)
	return out.Quo(out, liquidity)
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
