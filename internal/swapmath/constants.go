package swapmath

import "math/big"

// FeeDenominator is 100% in pips.
const FeeDenominator = 1_000_000

var (
	// Q96 is 2^96, the fixed point scale of sqrt prices.
	Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

	// MinSqrtPrice and MaxSqrtPrice bound every valid Q64.96 sqrt price.
	MinSqrtPrice = big.NewInt(4295128739)
	MaxSqrtPrice = mustInt("1461446703485210103287273052203988822378723970342")

	MaxUint128 = maxUint(128)
	MaxUint160 = maxUint(160)
	MaxUint256 = maxUint(256)
	MaxInt128  = maxUint(127)
	MinInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	feeDenominator = big.NewInt(FeeDenominator)
	one            = big.NewInt(1)
)

func maxUint(bits uint) *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), bits)
	return v.Sub(v, big.NewInt(1))
}

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("swapmath: bad constant " + s)
	}
	return v
}

// FitsInt128 reports whether v is representable as a signed 128-bit integer.
func FitsInt128(v *big.Int) bool {
	return v != nil && v.Cmp(MaxInt128) <= 0 && v.Cmp(MinInt128) >= 0
}

// FitsUint reports whether v is a non-negative integer of at most bits bits.
func FitsUint(v *big.Int, bits int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= bits
}
