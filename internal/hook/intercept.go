package hook

import (
	"fmt"
	"math/big"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
	"internalSwapPool/internal/swapmath"
)

// InterceptResult is the hook's decision for one swap before it reaches
// the external curve.
type InterceptResult struct {
	Fill      model.FillResult
	Forwarded model.SwapParams
	Delta     model.BeforeSwapDelta
	Transfers []model.TransferDirective
}

// Intercept fills as much of the swap as the pool's reserve allows at the
// curve's current price, and updates the ledger accordingly.
func (h *Hook) Intercept(id model.PoolID, params model.SwapParams, state model.CurveState) (InterceptResult, error) {
	var result InterceptResult
	err := h.ledger.Update(id, func(tx *ledger.Tx) error {
		var err error
		result, err = h.intercept(tx, params, state)
		return err
	})
	if err != nil {
		return InterceptResult{}, err
	}
	return result, nil
}

// Quote previews Intercept without touching the ledger.
func (h *Hook) Quote(id model.PoolID, params model.SwapParams, state model.CurveState) (InterceptResult, error) {
	amount0, amount1 := h.ledger.Peek(id)
	reserve := amount1
	if params.OutputAsset() == model.Asset0 {
		reserve = amount0
	}

	fill, delta, err := planFill(params, state, reserve)
	if err != nil {
		return InterceptResult{}, err
	}
	return buildResult(id, params, fill, delta), nil
}

func (h *Hook) intercept(tx *ledger.Tx, params model.SwapParams, state model.CurveState) (InterceptResult, error) {
	reserveAsset := params.OutputAsset()
	fill, delta, err := planFill(params, state, tx.Balance(reserveAsset))
	if err != nil {
		return InterceptResult{}, err
	}

	if fill.Filled() {
		if err := tx.DebitAsset(reserveAsset, fill.ConsumedReserve); err != nil {
			return InterceptResult{}, fmt.Errorf("debit reserve: %w", err)
		}
		if err := tx.DepositAsset(reserveAsset.Other(), fill.ProducedCounter); err != nil {
			return InterceptResult{}, fmt.Errorf("credit counter asset: %w", err)
		}
	}
	return buildResult(tx.PoolID(), params, fill, delta), nil
}

func buildResult(id model.PoolID, params model.SwapParams, fill model.FillResult, delta model.BeforeSwapDelta) InterceptResult {
	forwarded := params.Clone()
	forwarded.AmountSpecified = new(big.Int).Add(forwarded.AmountSpecified, delta.Specified)

	result := InterceptResult{
		Fill:      fill,
		Forwarded: forwarded,
		Delta:     delta,
	}
	if fill.Filled() {
		result.Transfers = []model.TransferDirective{
			{PoolID: id, Asset: fill.ReserveAsset, Amount: new(big.Int).Set(fill.ConsumedReserve), Direction: model.HookToPool},
			{PoolID: id, Asset: fill.ReserveAsset.Other(), Amount: new(big.Int).Set(fill.ProducedCounter), Direction: model.PoolToHook},
		}
	}
	return result
}

// planFill sizes the internal fill. The reserve asset is the trader's output
// asset and is priced with a zero-fee step towards the swap's price limit.
func planFill(params model.SwapParams, state model.CurveState, reserve *big.Int) (model.FillResult, model.BeforeSwapDelta, error) {
	empty := model.EmptyFill(params)
	if params.AmountSpecified == nil || params.AmountSpecified.Sign() == 0 {
		return empty, model.ZeroBeforeSwapDelta(), nil
	}

	limit := params.SqrtPriceLimitX96
	if limit == nil {
		limit = swapmath.DefaultPriceLimit(params.ZeroForOne)
	}
	if err := swapmath.CheckPriceLimit(state.SqrtPriceX96, limit, params.ZeroForOne); err != nil {
		return model.FillResult{}, model.BeforeSwapDelta{}, err
	}
	if reserve == nil || reserve.Sign() == 0 {
		return empty, model.ZeroBeforeSwapDelta(), nil
	}

	liquidity := state.Liquidity
	if liquidity == nil {
		liquidity = new(big.Int)
	}

	available := minInt(reserve, swapmath.MaxInt128)
	var step swapmath.Step
	var err error
	if params.ExactInput() {
		step, err = swapmath.ComputeSwapStep(state.SqrtPriceX96, limit, liquidity, available, 0)
		if err != nil {
			return model.FillResult{}, model.BeforeSwapDelta{}, fmt.Errorf("size fill: %w", err)
		}
		if step.AmountIn.CmpAbs(params.AmountSpecified) > 0 {
			step, err = swapmath.ComputeSwapStep(state.SqrtPriceX96, limit, liquidity, params.AmountSpecified, 0)
			if err != nil {
				return model.FillResult{}, model.BeforeSwapDelta{}, fmt.Errorf("size fill: %w", err)
			}
		}
	} else {
		wanted := minInt(params.AmountSpecified, available)
		step, err = swapmath.ComputeSwapStep(state.SqrtPriceX96, limit, liquidity, wanted, 0)
		if err != nil {
			return model.FillResult{}, model.BeforeSwapDelta{}, fmt.Errorf("size fill: %w", err)
		}
	}

	consumed, produced := step.AmountOut, step.AmountIn
	if consumed.Sign() == 0 || produced.Sign() == 0 {
		return empty, model.ZeroBeforeSwapDelta(), nil
	}
	if consumed.Cmp(reserve) > 0 {
		return model.FillResult{}, model.BeforeSwapDelta{}, ledger.ErrInsufficientReserve
	}

	var delta model.BeforeSwapDelta
	if params.ExactInput() {
		delta = model.BeforeSwapDelta{Specified: new(big.Int).Set(produced), Unspecified: new(big.Int).Neg(consumed)}
	} else {
		delta = model.BeforeSwapDelta{Specified: new(big.Int).Neg(consumed), Unspecified: new(big.Int).Set(produced)}
	}

	fill := model.FillResult{
		ReserveAsset:    params.OutputAsset(),
		ConsumedReserve: new(big.Int).Set(consumed),
		ProducedCounter: new(big.Int).Set(produced),
		Residual:        new(big.Int).Add(params.AmountSpecified, delta.Specified),
	}
	return fill, delta, nil
}

func minInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
