package swapmath

import (
	"fmt"
	"math/big"
)

// GetAmount0Delta returns the amount of asset0 between two sqrt prices for a
// given liquidity: L * (sqrtB - sqrtA) / (sqrtA * sqrtB).
func GetAmount0Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	a, b := sortPrices(sqrtPriceAX96, sqrtPriceBX96)
	if a.Sign() <= 0 {
		return nil, fmt.Errorf("amount0 delta at zero price: %w", ErrArithmeticOverflow)
	}

	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(b, a)

	if roundUp {
		inner, err := MulDivRoundingUp(numerator1, numerator2, b)
		if err != nil {
			return nil, err
		}
		return divRoundingUp(inner, a), nil
	}

	inner, err := MulDiv(numerator1, numerator2, b)
	if err != nil {
		return nil, err
	}
	return inner.Quo(inner, a), nil
}

// GetAmount1Delta returns the amount of asset1 between two sqrt prices for a
// given liquidity: L * (sqrtB - sqrtA).
func GetAmount1Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	a, b := sortPrices(sqrtPriceAX96, sqrtPriceBX96)
	diff := new(big.Int).Sub(b, a)
	if roundUp {
		return MulDivRoundingUp(liquidity, diff, Q96)
	}
	return MulDiv(liquidity, diff, Q96)
}

// GetNextSqrtPriceFromInput returns the sqrt price after adding amountIn of
// the input asset. The price is rounded so the pool never under-charges.
func GetNextSqrtPriceFromInput(sqrtPriceX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPriceX96.Sign() <= 0 || liquidity.Sign() <= 0 {
		return nil, fmt.Errorf("next price from input needs positive price and liquidity: %w", ErrArithmeticOverflow)
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput returns the sqrt price after removing amountOut
// of the output asset.
func GetNextSqrtPriceFromOutput(sqrtPriceX96, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPriceX96.Sign() <= 0 || liquidity.Sign() <= 0 {
		return nil, fmt.Errorf("next price from output needs positive price and liquidity: %w", ErrArithmeticOverflow)
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountOut, false)
}

// nextSqrtPriceFromAmount0RoundingUp computes L*sqrtP / (L ± amount*sqrtP).
func nextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPriceX96), nil
	}
	numerator1 := new(big.Int).Lsh(liquidity, 96)
	product := new(big.Int).Mul(amount, sqrtPriceX96)

	var denominator *big.Int
	if add {
		denominator = new(big.Int).Add(numerator1, product)
	} else {
		if !FitsUint(product, 256) || numerator1.Cmp(product) <= 0 {
			return nil, fmt.Errorf("price underflow removing asset0: %w", ErrArithmeticOverflow)
		}
		denominator = new(big.Int).Sub(numerator1, product)
	}

	next, err := MulDivRoundingUp(numerator1, sqrtPriceX96, denominator)
	if err != nil {
		return nil, err
	}
	if !FitsUint(next, 160) {
		return nil, fmt.Errorf("next sqrt price: %w", ErrArithmeticOverflow)
	}
	return next, nil
}

// nextSqrtPriceFromAmount1RoundingDown computes sqrtP ± amount/L.
func nextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	shifted := new(big.Int).Lsh(amount, 96)
	if add {
		quotient := shifted.Quo(shifted, liquidity)
		next := quotient.Add(quotient, sqrtPriceX96)
		if !FitsUint(next, 160) {
			return nil, fmt.Errorf("next sqrt price: %w", ErrArithmeticOverflow)
		}
		return next, nil
	}

	quotient := divRoundingUp(shifted, liquidity)
	if sqrtPriceX96.Cmp(quotient) <= 0 {
		return nil, fmt.Errorf("price underflow removing asset1: %w", ErrArithmeticOverflow)
	}
	return quotient.Sub(sqrtPriceX96, quotient), nil
}

func sortPrices(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}
