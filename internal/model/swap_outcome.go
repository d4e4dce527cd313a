package model

import "math/big"

// SwapOutcome is the full result of one intercepted swap.
type SwapOutcome struct {
	PoolID       PoolID
	Params       SwapParams
	Fill         FillResult
	Forwarded    SwapParams
	HookDelta    BeforeSwapDelta
	ExternalLeg  BalanceDelta
	FeeAsset     Asset
	Fee          *big.Int
	TraderDelta  BalanceDelta
	Transfers    []TransferDirective
	Distribution *DistributionDirective
}

// OutcomeRecord is the JSONL journal form of a SwapOutcome.
type OutcomeRecord struct {
	Seq              uint64           `json:"seq"`
	PoolID           string           `json:"pool_id"`
	ZeroForOne       bool             `json:"zero_for_one"`
	AmountSpecified  string           `json:"amount_specified"`
	ForwardedAmount  string           `json:"forwarded_amount"`
	ReserveAsset     Asset            `json:"reserve_asset"`
	ConsumedReserve  string           `json:"consumed_reserve"`
	ProducedCounter  string           `json:"produced_counter"`
	DeltaSpecified   string           `json:"delta_specified"`
	DeltaUnspecified string           `json:"delta_unspecified"`
	FeeAsset         Asset            `json:"fee_asset"`
	Fee              string           `json:"fee"`
	TraderAmount0    string           `json:"trader_amount0"`
	TraderAmount1    string           `json:"trader_amount1"`
	Transfers        []TransferRecord `json:"transfers"`
	DonatedAmount0   string           `json:"donated_amount0,omitempty"`
	DonatedAmount1   string           `json:"donated_amount1,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// TransferRecord is the journal form of a TransferDirective.
type TransferRecord struct {
	Asset     Asset     `json:"asset"`
	Amount    string    `json:"amount"`
	Direction Direction `json:"direction"`
}

// Record converts the outcome into its journal form.
func (o SwapOutcome) Record(seq uint64) OutcomeRecord {
	rec := OutcomeRecord{
		Seq:              seq,
		PoolID:           o.PoolID.Hex(),
		ZeroForOne:       o.Params.ZeroForOne,
		AmountSpecified:  intString(o.Params.AmountSpecified),
		ForwardedAmount:  intString(o.Forwarded.AmountSpecified),
		ReserveAsset:     o.Fill.ReserveAsset,
		ConsumedReserve:  intString(o.Fill.ConsumedReserve),
		ProducedCounter:  intString(o.Fill.ProducedCounter),
		DeltaSpecified:   intString(o.HookDelta.Specified),
		DeltaUnspecified: intString(o.HookDelta.Unspecified),
		FeeAsset:         o.FeeAsset,
		Fee:              intString(o.Fee),
		TraderAmount0:    intString(o.TraderDelta.Amount0),
		TraderAmount1:    intString(o.TraderDelta.Amount1),
		Transfers:        make([]TransferRecord, 0, len(o.Transfers)),
	}
	for _, t := range o.Transfers {
		rec.Transfers = append(rec.Transfers, TransferRecord{
			Asset:     t.Asset,
			Amount:    intString(t.Amount),
			Direction: t.Direction,
		})
	}
	if o.Distribution != nil {
		rec.DonatedAmount0 = intString(o.Distribution.Amount0)
		rec.DonatedAmount1 = intString(o.Distribution.Amount1)
	}
	return rec
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
