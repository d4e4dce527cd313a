package swapmath

import (
	"errors"
	"math/big"
	"testing"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad int %s", s)
	}
	return v
}

func expectStep(t *testing.T, step Step, next, in, out, fee string) {
	t.Helper()
	if step.SqrtPriceNextX96.String() != next {
		t.Fatalf("next price mismatch: %s != %s", step.SqrtPriceNextX96, next)
	}
	if step.AmountIn.String() != in {
		t.Fatalf("amount in mismatch: %s != %s", step.AmountIn, in)
	}
	if step.AmountOut.String() != out {
		t.Fatalf("amount out mismatch: %s != %s", step.AmountOut, out)
	}
	if step.FeeAmount.String() != fee {
		t.Fatalf("fee mismatch: %s != %s", step.FeeAmount, fee)
	}
}

func TestComputeSwapStepExactInCappedAtTarget(t *testing.T) {
	target := bigFromString(t, "79623317895830914510639640423")
	step, err := ComputeSwapStep(Q96, target, big.NewInt(2e18), big.NewInt(-1e18), 600)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	expectStep(t, step, target.String(), "9975124224178055", "9925619580021728", "5988667735148")
}

func TestComputeSwapStepExactOutCappedAtTarget(t *testing.T) {
	target := bigFromString(t, "79623317895830914510639640423")
	step, err := ComputeSwapStep(Q96, target, big.NewInt(2e18), big.NewInt(1e18), 600)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	expectStep(t, step, target.String(), "9975124224178055", "9925619580021728", "5988667735148")
}

func TestComputeSwapStepExactInFullySpent(t *testing.T) {
	target := bigFromString(t, "250541448375047931186413801569")
	step, err := ComputeSwapStep(Q96, target, big.NewInt(2e18), big.NewInt(-1e18), 600)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	expectStep(t, step, "118818475322642227089037862318", "999400000000000000", "666399946655997866", "600000000000000")

	total := new(big.Int).Add(step.AmountIn, step.FeeAmount)
	if total.Cmp(big.NewInt(1e18)) != 0 {
		t.Fatalf("exact input should be fully consumed: %s", total)
	}
}

func TestComputeSwapStepExactOutFullyReceived(t *testing.T) {
	target := bigFromString(t, "792281625142643375935439503360")
	step, err := ComputeSwapStep(Q96, target, big.NewInt(2e18), big.NewInt(1e18), 600)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	expectStep(t, step, "158456325028528675187087900672", "2000000000000000000", "1000000000000000000", "1200720432259356")
}

func TestComputeSwapStepZeroFeeDeepLiquidity(t *testing.T) {
	limit := DefaultPriceLimit(true)
	liquidity := bigFromString(t, "1000000000000000000000000000000")

	step, err := ComputeSwapStep(Q96, limit, liquidity, bigFromString(t, "3000000000000000000"), 0)
	if err != nil {
		t.Fatalf("exact out step: %v", err)
	}
	expectStep(t, step, "79228162514026653106001157323", "3000000000009000003", "3000000000000000000", "0")

	step, err = ComputeSwapStep(Q96, limit, liquidity, bigFromString(t, "-10000000000000000000"), 0)
	if err != nil {
		t.Fatalf("exact in step: %v", err)
	}
	expectStep(t, step, "79228162513472055968409229777", "10000000000000000000", "9999999999899999991", "0")
}

func TestComputeSwapStepZeroLiquidityMovesToTarget(t *testing.T) {
	target := bigFromString(t, "79623317895830914510639640423")
	step, err := ComputeSwapStep(Q96, target, big.NewInt(0), big.NewInt(-1000), 0)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if step.SqrtPriceNextX96.Cmp(target) != 0 {
		t.Fatalf("price should reach target without liquidity")
	}
	if step.AmountIn.Sign() != 0 || step.AmountOut.Sign() != 0 {
		t.Fatalf("no amounts expected without liquidity: %+v", step)
	}
}

func TestComputeSwapStepNeverPassesTarget(t *testing.T) {
	targets := []string{"79623317895830914510639640423", "78831026366734652303669917531"}
	for _, raw := range targets {
		target := bigFromString(t, raw)
		for _, amount := range []int64{-1e18, 1e18, -1, 1} {
			step, err := ComputeSwapStep(Q96, target, big.NewInt(2e18), big.NewInt(amount), 3000)
			if err != nil {
				t.Fatalf("step: %v", err)
			}
			zeroForOne := Q96.Cmp(target) >= 0
			if zeroForOne && step.SqrtPriceNextX96.Cmp(target) < 0 {
				t.Fatalf("price below target: %s < %s", step.SqrtPriceNextX96, target)
			}
			if !zeroForOne && step.SqrtPriceNextX96.Cmp(target) > 0 {
				t.Fatalf("price above target: %s > %s", step.SqrtPriceNextX96, target)
			}
			if step.AmountIn.Sign() < 0 || step.AmountOut.Sign() < 0 || step.FeeAmount.Sign() < 0 {
				t.Fatalf("negative amount: %+v", step)
			}
			if amount > 0 && step.AmountOut.Cmp(big.NewInt(amount)) > 0 {
				t.Fatalf("exact output exceeded: %s", step.AmountOut)
			}
			if amount < 0 {
				spent := new(big.Int).Add(step.AmountIn, step.FeeAmount)
				if spent.Cmp(big.NewInt(-amount)) > 0 {
					t.Fatalf("exact input exceeded: %s", spent)
				}
			}
		}
	}
}

func TestComputeSwapStepRejectsBadInputs(t *testing.T) {
	target := bigFromString(t, "79623317895830914510639640423")

	if _, err := ComputeSwapStep(Q96, target, big.NewInt(1), big.NewInt(-1), FeeDenominator); !errors.Is(err, ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}

	tooLarge := new(big.Int).Add(MaxUint160, one)
	if _, err := ComputeSwapStep(tooLarge, target, big.NewInt(1), big.NewInt(-1), 0); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow for price, got %v", err)
	}

	hugeLiquidity := new(big.Int).Add(MaxUint128, one)
	if _, err := ComputeSwapStep(Q96, target, hugeLiquidity, big.NewInt(-1), 0); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow for liquidity, got %v", err)
	}

	hugeAmount := new(big.Int).Add(MaxInt128, one)
	if _, err := ComputeSwapStep(Q96, target, big.NewInt(1), hugeAmount, 0); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow for amount, got %v", err)
	}
}

func TestCheckPriceLimit(t *testing.T) {
	below := new(big.Int).Sub(Q96, big.NewInt(1))
	above := new(big.Int).Add(Q96, big.NewInt(1))

	if err := CheckPriceLimit(Q96, below, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPriceLimit(Q96, above, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPriceLimit(Q96, above, true); !errors.Is(err, ErrInvalidPriceOrdering) {
		t.Fatalf("expected ErrInvalidPriceOrdering, got %v", err)
	}
	if err := CheckPriceLimit(Q96, Q96, false); !errors.Is(err, ErrInvalidPriceOrdering) {
		t.Fatalf("expected ErrInvalidPriceOrdering for equal limit, got %v", err)
	}
	if err := CheckPriceLimit(Q96, MinSqrtPrice, true); !errors.Is(err, ErrInvalidPriceOrdering) {
		t.Fatalf("expected ErrInvalidPriceOrdering at min price, got %v", err)
	}
	if err := CheckPriceLimit(Q96, DefaultPriceLimit(false), false); err != nil {
		t.Fatalf("default limit should be valid: %v", err)
	}
}
