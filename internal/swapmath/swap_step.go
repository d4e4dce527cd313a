package swapmath

import (
	"fmt"
	"math/big"
)

// Step is the result of one price-bounded swap step.
type Step struct {
	SqrtPriceNextX96 *big.Int
	AmountIn         *big.Int
	AmountOut        *big.Int
	FeeAmount        *big.Int
}

// ComputeSwapStep moves the price from sqrtPriceCurrentX96 toward
// sqrtPriceTargetX96 using the given liquidity, consuming at most
// |amountRemaining|. A negative amountRemaining is exact-input, a positive one
// exact-output. The direction is zeroForOne when current >= target.
//
// AmountIn excludes FeeAmount. Input amounts round up and output amounts round
// down, so the curve is never short-changed.
func ComputeSwapStep(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, amountRemaining *big.Int, feePips uint32) (Step, error) {
	if feePips >= FeeDenominator {
		return Step{}, fmt.Errorf("fee %d pips: %w", feePips, ErrInvalidFee)
	}
	if err := checkStepInputs(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, amountRemaining); err != nil {
		return Step{}, err
	}

	zeroForOne := sqrtPriceCurrentX96.Cmp(sqrtPriceTargetX96) >= 0
	exactIn := amountRemaining.Sign() < 0
	fee := big.NewInt(int64(feePips))
	feeComplement := new(big.Int).Sub(feeDenominator, fee)

	var (
		next      *big.Int
		amountIn  *big.Int
		amountOut *big.Int
		feeAmount *big.Int
		err       error
	)

	if exactIn {
		remaining := new(big.Int).Neg(amountRemaining)
		var remainingLessFee *big.Int
		remainingLessFee, err = MulDiv(remaining, feeComplement, feeDenominator)
		if err != nil {
			return Step{}, err
		}

		amountIn, err = amountInBetween(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, zeroForOne)
		if err != nil {
			return Step{}, err
		}

		if remainingLessFee.Cmp(amountIn) >= 0 {
			next = new(big.Int).Set(sqrtPriceTargetX96)
			feeAmount, err = MulDivRoundingUp(amountIn, fee, feeComplement)
			if err != nil {
				return Step{}, err
			}
		} else {
			amountIn = remainingLessFee
			next, err = GetNextSqrtPriceFromInput(sqrtPriceCurrentX96, liquidity, remainingLessFee, zeroForOne)
			if err != nil {
				return Step{}, err
			}
			feeAmount = new(big.Int).Sub(remaining, amountIn)
		}

		amountOut, err = amountOutBetween(next, sqrtPriceCurrentX96, liquidity, zeroForOne)
		if err != nil {
			return Step{}, err
		}
	} else {
		amountOut, err = amountOutBetween(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, zeroForOne)
		if err != nil {
			return Step{}, err
		}

		if amountRemaining.Cmp(amountOut) >= 0 {
			next = new(big.Int).Set(sqrtPriceTargetX96)
		} else {
			amountOut = new(big.Int).Set(amountRemaining)
			next, err = GetNextSqrtPriceFromOutput(sqrtPriceCurrentX96, liquidity, amountOut, zeroForOne)
			if err != nil {
				return Step{}, err
			}
		}

		amountIn, err = amountInBetween(next, sqrtPriceCurrentX96, liquidity, zeroForOne)
		if err != nil {
			return Step{}, err
		}
		feeAmount, err = MulDivRoundingUp(amountIn, fee, feeComplement)
		if err != nil {
			return Step{}, err
		}
	}

	if !FitsInt128(new(big.Int).Add(amountIn, feeAmount)) || !FitsInt128(amountOut) {
		return Step{}, fmt.Errorf("step amounts exceed settlement width: %w", ErrArithmeticOverflow)
	}

	return Step{
		SqrtPriceNextX96: next,
		AmountIn:         amountIn,
		AmountOut:        amountOut,
		FeeAmount:        feeAmount,
	}, nil
}

// CheckPriceLimit verifies that limit is strictly on the swap direction's side
// of current and inside the valid price range.
func CheckPriceLimit(current, limit *big.Int, zeroForOne bool) error {
	if current == nil || limit == nil {
		return fmt.Errorf("missing price: %w", ErrInvalidPriceOrdering)
	}
	if zeroForOne {
		if limit.Cmp(current) >= 0 || limit.Cmp(MinSqrtPrice) <= 0 {
			return fmt.Errorf("limit %s not below current %s: %w", limit, current, ErrInvalidPriceOrdering)
		}
		return nil
	}
	if limit.Cmp(current) <= 0 || limit.Cmp(MaxSqrtPrice) >= 0 {
		return fmt.Errorf("limit %s not above current %s: %w", limit, current, ErrInvalidPriceOrdering)
	}
	return nil
}

// DefaultPriceLimit returns the most permissive limit for a direction.
func DefaultPriceLimit(zeroForOne bool) *big.Int {
	if zeroForOne {
		return new(big.Int).Add(MinSqrtPrice, one)
	}
	return new(big.Int).Sub(MaxSqrtPrice, one)
}

func amountInBetween(price, current, liquidity *big.Int, zeroForOne bool) (*big.Int, error) {
	if zeroForOne {
		return GetAmount0Delta(price, current, liquidity, true)
	}
	return GetAmount1Delta(current, price, liquidity, true)
}

func amountOutBetween(price, current, liquidity *big.Int, zeroForOne bool) (*big.Int, error) {
	if zeroForOne {
		return GetAmount1Delta(price, current, liquidity, false)
	}
	return GetAmount0Delta(current, price, liquidity, false)
}

func checkStepInputs(current, target, liquidity, amountRemaining *big.Int) error {
	if current == nil || target == nil || liquidity == nil || amountRemaining == nil {
		return fmt.Errorf("nil step input: %w", ErrArithmeticOverflow)
	}
	if current.Sign() <= 0 || !FitsUint(current, 160) {
		return fmt.Errorf("current sqrt price %s: %w", current, ErrArithmeticOverflow)
	}
	if target.Sign() <= 0 || !FitsUint(target, 160) {
		return fmt.Errorf("target sqrt price %s: %w", target, ErrArithmeticOverflow)
	}
	if !FitsUint(liquidity, 128) {
		return fmt.Errorf("liquidity %s: %w", liquidity, ErrArithmeticOverflow)
	}
	if !FitsInt128(amountRemaining) {
		return fmt.Errorf("amount remaining %s: %w", amountRemaining, ErrArithmeticOverflow)
	}
	return nil
}
