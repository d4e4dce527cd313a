package swapmath

import (
	"fmt"
	"math/big"
)

// MulDiv returns floor(a*b/denominator). The result must fit in 256 bits.
func MulDiv(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("mul div by zero: %w", ErrArithmeticOverflow)
	}
	result := new(big.Int).Mul(a, b)
	result.Quo(result, denominator)
	if !FitsUint(result, 256) {
		return nil, fmt.Errorf("mul div result: %w", ErrArithmeticOverflow)
	}
	return result, nil
}

// MulDivRoundingUp returns ceil(a*b/denominator). The result must fit in 256 bits.
func MulDivRoundingUp(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("mul div by zero: %w", ErrArithmeticOverflow)
	}
	product := new(big.Int).Mul(a, b)
	result, rem := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if rem.Sign() > 0 {
		result.Add(result, one)
	}
	if !FitsUint(result, 256) {
		return nil, fmt.Errorf("mul div result: %w", ErrArithmeticOverflow)
	}
	return result, nil
}

func divRoundingUp(a, b *big.Int) *big.Int {
	result, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() > 0 {
		result.Add(result, one)
	}
	return result
}
