package hook

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
)

// HarvestResult is the fee taken from one external swap leg.
type HarvestResult struct {
	Asset        model.Asset
	Fee          *big.Int
	NetOutput    *big.Int
	Transfers    []model.TransferDirective
	Distribution *model.DistributionDirective
}

// Harvest takes feeBps of swapOutput into the ledger under asset. Once the
// pool's asset0 balance reaches the donation threshold, all of it is debited
// and returned as a distribution directive.
func (h *Hook) Harvest(id model.PoolID, asset model.Asset, swapOutput *big.Int, feeBps uint32) (HarvestResult, error) {
	var result HarvestResult
	err := h.ledger.Update(id, func(tx *ledger.Tx) error {
		var err error
		result, err = h.harvest(tx, asset, swapOutput, feeBps)
		return err
	})
	if err != nil {
		return HarvestResult{}, err
	}
	return result, nil
}

func (h *Hook) harvest(tx *ledger.Tx, asset model.Asset, swapOutput *big.Int, feeBps uint32) (HarvestResult, error) {
	if feeBps > bpsDenominator {
		return HarvestResult{}, invalidFeeBps(feeBps)
	}
	if swapOutput == nil {
		swapOutput = new(big.Int)
	}
	if swapOutput.Sign() < 0 {
		return HarvestResult{}, ErrNegativeOutput
	}

	fee := new(big.Int).Mul(swapOutput, big.NewInt(int64(feeBps)))
	fee.Quo(fee, big.NewInt(bpsDenominator))

	result := HarvestResult{
		Asset:     asset,
		Fee:       fee,
		NetOutput: new(big.Int).Sub(swapOutput, fee),
	}
	if fee.Sign() > 0 {
		if err := tx.DepositAsset(asset, fee); err != nil {
			return HarvestResult{}, fmt.Errorf("deposit fee: %w", err)
		}
		result.Transfers = []model.TransferDirective{
			{PoolID: tx.PoolID(), Asset: asset, Amount: new(big.Int).Set(fee), Direction: model.PoolToHook},
		}
	}

	amount0 := tx.Balance(model.Asset0)
	if amount0.Cmp(h.threshold) >= 0 {
		if err := tx.Debit(amount0, nil); err != nil {
			return HarvestResult{}, fmt.Errorf("debit distribution: %w", err)
		}
		result.Distribution = &model.DistributionDirective{
			PoolID:  tx.PoolID(),
			Amount0: amount0,
			Amount1: new(big.Int),
		}
		h.logger.Debug("fee distribution",
			zap.String("pool_id", tx.PoolID().Hex()),
			zap.String("amount0", amount0.String()),
		)
	}
	return result, nil
}
