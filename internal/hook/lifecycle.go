package hook

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
	"internalSwapPool/internal/swapmath"
)

// Swap runs one swap end to end: internal fill, external residual, fee
// harvest and donation. Ledger and host changes are kept only if every
// step succeeds.
func (h *Hook) Swap(ctx context.Context, key model.PoolKey, params model.SwapParams) (model.SwapOutcome, error) {
	if h.host == nil {
		return model.SwapOutcome{}, ErrNoHost
	}
	id := key.ID()
	h.metrics.ObserveSwap(id.Hex())
	if params.AmountSpecified == nil || params.AmountSpecified.Sign() == 0 {
		return emptyOutcome(id, params), nil
	}

	var outcome model.SwapOutcome
	err := h.ledger.Update(id, func(tx *ledger.Tx) error {
		return h.host.Unlock(ctx, func(ctx context.Context) error {
			var err error
			outcome, err = h.swap(ctx, tx, key, params)
			return err
		})
	})
	if err != nil {
		h.metrics.ObserveReject(rejectReason(err))
		h.logger.Warn("swap rejected",
			zap.String("pool_id", id.Hex()),
			zap.Bool("zero_for_one", params.ZeroForOne),
			zap.String("amount_specified", intString(params.AmountSpecified)),
			zap.Error(err),
		)
		return model.SwapOutcome{}, err
	}

	if outcome.Fill.Filled() {
		h.metrics.ObserveFill(id.Hex(), outcome.Fill.ReserveAsset.String(), outcome.Fill.ConsumedReserve)
	}
	h.metrics.ObserveHarvest(id.Hex(), outcome.FeeAsset.String(), outcome.Fee)
	if outcome.Distribution != nil {
		h.metrics.ObserveDonation(id.Hex(), outcome.Distribution.Amount0)
	}
	return outcome, nil
}

func (h *Hook) swap(ctx context.Context, tx *ledger.Tx, key model.PoolKey, params model.SwapParams) (model.SwapOutcome, error) {
	id := tx.PoolID()

	price, err := h.host.SqrtPriceX96(ctx, id)
	if err != nil {
		return model.SwapOutcome{}, fmt.Errorf("read sqrt price: %w", err)
	}
	liquidity, err := h.host.Liquidity(ctx, id)
	if err != nil {
		return model.SwapOutcome{}, fmt.Errorf("read liquidity: %w", err)
	}
	state := model.CurveState{SqrtPriceX96: price, Liquidity: liquidity}

	intercepted, err := h.intercept(tx, params, state)
	if err != nil {
		return model.SwapOutcome{}, err
	}
	for _, directive := range intercepted.Transfers {
		if err := h.host.Transfer(ctx, directive); err != nil {
			return model.SwapOutcome{}, fmt.Errorf("fill transfer: %w", err)
		}
	}

	external := model.ZeroBalanceDelta()
	if intercepted.Forwarded.AmountSpecified.Sign() != 0 {
		external, err = h.host.Swap(ctx, key, intercepted.Forwarded)
		if err != nil {
			return model.SwapOutcome{}, fmt.Errorf("external swap: %w", err)
		}
	}

	feeAsset := params.UnspecifiedAsset()
	harvested, err := h.harvest(tx, feeAsset, new(big.Int).Abs(external.Amount(feeAsset)), h.feeBps)
	if err != nil {
		return model.SwapOutcome{}, err
	}
	for _, directive := range harvested.Transfers {
		if err := h.host.Transfer(ctx, directive); err != nil {
			return model.SwapOutcome{}, fmt.Errorf("fee transfer: %w", err)
		}
	}
	if harvested.Distribution != nil {
		if err := h.host.Donate(ctx, *harvested.Distribution); err != nil {
			return model.SwapOutcome{}, fmt.Errorf("donate: %w", err)
		}
	}

	fill := intercepted.Fill
	trader := external.
		Add(params.InputAsset(), new(big.Int).Neg(fill.ProducedCounter)).
		Add(params.OutputAsset(), fill.ConsumedReserve).
		Add(feeAsset, new(big.Int).Neg(harvested.Fee))

	transfers := make([]model.TransferDirective, 0, len(intercepted.Transfers)+len(harvested.Transfers))
	transfers = append(transfers, intercepted.Transfers...)
	transfers = append(transfers, harvested.Transfers...)

	h.logger.Debug("swap",
		zap.String("pool_id", id.Hex()),
		zap.Bool("zero_for_one", params.ZeroForOne),
		zap.String("amount_specified", intString(params.AmountSpecified)),
		zap.String("consumed_reserve", fill.ConsumedReserve.String()),
		zap.String("forwarded", intercepted.Forwarded.AmountSpecified.String()),
		zap.String("fee", harvested.Fee.String()),
		zap.Stringer("fee_asset", feeAsset),
	)

	return model.SwapOutcome{
		PoolID:       id,
		Params:       params.Clone(),
		Fill:         fill,
		Forwarded:    intercepted.Forwarded,
		HookDelta:    intercepted.Delta,
		ExternalLeg:  external,
		FeeAsset:     feeAsset,
		Fee:          harvested.Fee,
		TraderDelta:  trader,
		Transfers:    transfers,
		Distribution: harvested.Distribution,
	}, nil
}

// emptyOutcome is the result of a zero-amount swap: nothing is filled,
// forwarded, charged or donated.
func emptyOutcome(id model.PoolID, params model.SwapParams) model.SwapOutcome {
	return model.SwapOutcome{
		PoolID:      id,
		Params:      params.Clone(),
		Fill:        model.EmptyFill(params),
		Forwarded:   params.Clone(),
		HookDelta:   model.ZeroBeforeSwapDelta(),
		ExternalLeg: model.ZeroBalanceDelta(),
		FeeAsset:    params.UnspecifiedAsset(),
		Fee:         big.NewInt(0),
		TraderDelta: model.ZeroBalanceDelta(),
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, swapmath.ErrInvalidPriceOrdering):
		return "invalid_price_limit"
	case errors.Is(err, swapmath.ErrInvalidFee):
		return "invalid_fee"
	case errors.Is(err, swapmath.ErrArithmeticOverflow):
		return "overflow"
	case errors.Is(err, ledger.ErrInsufficientReserve):
		return "insufficient_reserve"
	default:
		return "host"
	}
}
