package model

import "math/big"

// SwapParams is a swap request as seen by the hook.
// A negative AmountSpecified is exact-input, a positive one exact-output.
type SwapParams struct {
	ZeroForOne        bool
	AmountSpecified   *big.Int
	SqrtPriceLimitX96 *big.Int
}

// ExactInput reports whether the trader fixed the amount they supply.
func (p SwapParams) ExactInput() bool {
	return p.AmountSpecified != nil && p.AmountSpecified.Sign() < 0
}

// InputAsset is the asset the trader supplies.
func (p SwapParams) InputAsset() Asset {
	if p.ZeroForOne {
		return Asset0
	}
	return Asset1
}

// OutputAsset is the asset the trader receives.
func (p SwapParams) OutputAsset() Asset {
	return p.InputAsset().Other()
}

// SpecifiedAsset is the asset AmountSpecified is denominated in.
func (p SwapParams) SpecifiedAsset() Asset {
	if p.ExactInput() {
		return p.InputAsset()
	}
	return p.OutputAsset()
}

// UnspecifiedAsset is the asset whose amount the curve determines.
func (p SwapParams) UnspecifiedAsset() Asset {
	return p.SpecifiedAsset().Other()
}

// Clone returns a deep copy. A nil price limit stays nil.
func (p SwapParams) Clone() SwapParams {
	out := SwapParams{
		ZeroForOne:      p.ZeroForOne,
		AmountSpecified: cloneInt(p.AmountSpecified),
	}
	if p.SqrtPriceLimitX96 != nil {
		out.SqrtPriceLimitX96 = new(big.Int).Set(p.SqrtPriceLimitX96)
	}
	return out
}

// CurveState is the external curve's price and in-range liquidity.
type CurveState struct {
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
}

// FillResult describes the part of a swap satisfied from the fee reserve.
type FillResult struct {
	ReserveAsset    Asset
	ConsumedReserve *big.Int
	ProducedCounter *big.Int
	Residual        *big.Int
}

// Filled reports whether any reserve was consumed.
func (f FillResult) Filled() bool {
	return f.ConsumedReserve != nil && f.ConsumedReserve.Sign() > 0
}

// EmptyFill returns a zero fill that forwards the whole request.
func EmptyFill(params SwapParams) FillResult {
	return FillResult{
		ReserveAsset:    params.OutputAsset(),
		ConsumedReserve: big.NewInt(0),
		ProducedCounter: big.NewInt(0),
		Residual:        cloneInt(params.AmountSpecified),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
