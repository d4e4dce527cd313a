package hook

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
	"internalSwapPool/internal/simulator"
	"internalSwapPool/internal/swapmath"
)

func bigInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad int %s", s)
	}
	return v
}

func testKey(fee uint32, salt byte) model.PoolKey {
	return model.PoolKey{
		Currency0:   common.HexToAddress("0x0000000000000000000000000000000000000a01"),
		Currency1:   common.HexToAddress("0x0000000000000000000000000000000000000b02"),
		Fee:         fee,
		TickSpacing: 60,
		Hooks:       common.BytesToAddress([]byte{0xff, salt}),
	}
}

type fixture struct {
	hook    *Hook
	ledger  *ledger.Ledger
	manager *simulator.Manager
	key     model.PoolKey
	id      model.PoolID
}

func newFixture(t *testing.T, poolFee uint32, liquidity *big.Int) *fixture {
	t.Helper()
	manager := simulator.NewManager(nil)
	key := testKey(poolFee, 1)
	id, err := manager.Initialize(key, swapmath.Q96, liquidity)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	fees := ledger.New(nil)
	h, err := New(fees, manager, DefaultConfig())
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	return &fixture{hook: h, ledger: fees, manager: manager, key: key, id: id}
}

func (f *fixture) deposit(t *testing.T, amount0, amount1 *big.Int) {
	t.Helper()
	if err := f.hook.DepositFees(context.Background(), f.id, amount0, amount1); err != nil {
		t.Fatalf("deposit fees: %v", err)
	}
	if err := f.manager.CreditHook(f.id, amount0, amount1); err != nil {
		t.Fatalf("credit hook: %v", err)
	}
}

// expectHoldingsMatchLedger checks that the tokens the host holds for the
// hook equal the ledger balances.
func (f *fixture) expectHoldingsMatchLedger(t *testing.T) {
	t.Helper()
	state, err := f.manager.Pool(f.id)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	amount0, amount1 := f.hook.PoolFees(f.id)
	if state.Hook0.Cmp(amount0) != 0 || state.Hook1.Cmp(amount1) != 0 {
		t.Fatalf("holdings (%s,%s) differ from ledger (%s,%s)", state.Hook0, state.Hook1, amount0, amount1)
	}
}

func expectFees(t *testing.T, h *Hook, id model.PoolID, want0, want1 *big.Int) {
	t.Helper()
	got0, got1 := h.PoolFees(id)
	if got0.Cmp(want0) != 0 || got1.Cmp(want1) != 0 {
		t.Fatalf("ledger (%s,%s) want (%s,%s)", got0, got1, want0, want1)
	}
}

func deepCurve() model.CurveState {
	liquidity, _ := new(big.Int).SetString("1000000000000000000000000000000", 10)
	return model.CurveState{SqrtPriceX96: swapmath.Q96, Liquidity: liquidity}
}

func TestInterceptEmptyLedgerForwardsEverything(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	params := model.SwapParams{ZeroForOne: true, AmountSpecified: bigInt(t, "-10000000000000000000")}

	result, err := f.hook.Intercept(f.id, params, deepCurve())
	if err != nil {
		t.Fatalf("intercept: %v", err)
	}
	if result.Fill.Filled() || len(result.Transfers) != 0 {
		t.Fatalf("expected no fill, got %+v", result.Fill)
	}
	if result.Forwarded.AmountSpecified.Cmp(params.AmountSpecified) != 0 {
		t.Fatalf("forwarded amount changed: %s", result.Forwarded.AmountSpecified)
	}
	if result.Delta.Specified.Sign() != 0 || result.Delta.Unspecified.Sign() != 0 {
		t.Fatalf("expected zero delta")
	}
}

func TestInterceptPartialFillFromReserve(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	reserve := bigInt(t, "3000000000000000000")
	if err := f.hook.DepositFees(context.Background(), f.id, nil, reserve); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	params := model.SwapParams{ZeroForOne: true, AmountSpecified: bigInt(t, "-10000000000000000000")}
	result, err := f.hook.Intercept(f.id, params, deepCurve())
	if err != nil {
		t.Fatalf("intercept: %v", err)
	}

	produced := bigInt(t, "3000000000009000003")
	if result.Fill.ReserveAsset != model.Asset1 || result.Fill.ConsumedReserve.Cmp(reserve) != 0 || result.Fill.ProducedCounter.Cmp(produced) != 0 {
		t.Fatalf("unexpected fill: %+v", result.Fill)
	}
	if result.Forwarded.AmountSpecified.String() != "-6999999999990999997" {
		t.Fatalf("unexpected forwarded amount: %s", result.Forwarded.AmountSpecified)
	}
	if result.Delta.Specified.Cmp(produced) != 0 || result.Delta.Unspecified.Cmp(new(big.Int).Neg(reserve)) != 0 {
		t.Fatalf("unexpected delta: %s %s", result.Delta.Specified, result.Delta.Unspecified)
	}
	if len(result.Transfers) != 2 ||
		result.Transfers[0].Asset != model.Asset1 || result.Transfers[0].Direction != model.HookToPool ||
		result.Transfers[1].Asset != model.Asset0 || result.Transfers[1].Direction != model.PoolToHook {
		t.Fatalf("unexpected transfers: %+v", result.Transfers)
	}
	expectFees(t, f.hook, f.id, produced, big.NewInt(0))
}

func TestInterceptExactOutputCappedByRequest(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	if err := f.hook.DepositFees(context.Background(), f.id, bigInt(t, "50000000000000000000"), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	want := bigInt(t, "3000000000000000000")
	params := model.SwapParams{ZeroForOne: false, AmountSpecified: want}
	result, err := f.hook.Intercept(f.id, params, deepCurve())
	if err != nil {
		t.Fatalf("intercept: %v", err)
	}
	if result.Fill.ConsumedReserve.Cmp(want) != 0 {
		t.Fatalf("fill should cover the whole request: %s", result.Fill.ConsumedReserve)
	}
	if result.Forwarded.AmountSpecified.Sign() != 0 {
		t.Fatalf("nothing should be forwarded: %s", result.Forwarded.AmountSpecified)
	}
	if result.Delta.Specified.Cmp(new(big.Int).Neg(want)) != 0 || result.Delta.Unspecified.Cmp(result.Fill.ProducedCounter) != 0 {
		t.Fatalf("unexpected delta: %s %s", result.Delta.Specified, result.Delta.Unspecified)
	}
}

func TestInterceptFillIsBounded(t *testing.T) {
	reserve := bigInt(t, "4000000000000000000")
	amounts := []string{"-1", "-1000", "-2000000000000000000", "-4000000000000000000", "-90000000000000000000", "1", "3999999999999999999", "4000000000000000001", "70000000000000000000"}

	for _, raw := range amounts {
		for _, zeroForOne := range []bool{true, false} {
			f := newFixture(t, 0, big.NewInt(1e18))
			if err := f.hook.DepositFees(context.Background(), f.id, reserve, reserve); err != nil {
				t.Fatalf("deposit: %v", err)
			}

			params := model.SwapParams{ZeroForOne: zeroForOne, AmountSpecified: bigInt(t, raw)}
			result, err := f.hook.Intercept(f.id, params, deepCurve())
			if err != nil {
				t.Fatalf("intercept %s: %v", raw, err)
			}

			fill := result.Fill
			if fill.ConsumedReserve.Cmp(reserve) > 0 {
				t.Fatalf("consumed %s exceeds reserve", fill.ConsumedReserve)
			}
			magnitude := new(big.Int).Abs(params.AmountSpecified)
			if params.ExactInput() && fill.ProducedCounter.Cmp(magnitude) > 0 {
				t.Fatalf("input %s exceeds request %s", fill.ProducedCounter, magnitude)
			}
			if !params.ExactInput() && fill.ConsumedReserve.Cmp(magnitude) > 0 {
				t.Fatalf("output %s exceeds request %s", fill.ConsumedReserve, magnitude)
			}
			if result.Forwarded.AmountSpecified.Sign() != 0 && result.Forwarded.AmountSpecified.Sign() != params.AmountSpecified.Sign() {
				t.Fatalf("forwarded sign flipped: %s", result.Forwarded.AmountSpecified)
			}
			if result.Forwarded.AmountSpecified.CmpAbs(params.AmountSpecified) > 0 {
				t.Fatalf("forwarded grew: %s", result.Forwarded.AmountSpecified)
			}

			amount0, amount1 := f.hook.PoolFees(f.id)
			if amount0.Sign() < 0 || amount1.Sign() < 0 {
				t.Fatalf("negative ledger balance")
			}
		}
	}
}

func TestInterceptRejectsBadPriceLimit(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	if err := f.hook.DepositFees(context.Background(), f.id, big.NewInt(1e18), big.NewInt(1e18)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	above := new(big.Int).Add(swapmath.Q96, big.NewInt(1))
	params := model.SwapParams{ZeroForOne: true, AmountSpecified: big.NewInt(-1e17), SqrtPriceLimitX96: above}
	if _, err := f.hook.Intercept(f.id, params, deepCurve()); !errors.Is(err, swapmath.ErrInvalidPriceOrdering) {
		t.Fatalf("expected ErrInvalidPriceOrdering, got %v", err)
	}
	expectFees(t, f.hook, f.id, big.NewInt(1e18), big.NewInt(1e18))
}

func TestQuoteLeavesLedgerUntouched(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	reserve := bigInt(t, "3000000000000000000")
	if err := f.hook.DepositFees(context.Background(), f.id, nil, reserve); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	params := model.SwapParams{ZeroForOne: true, AmountSpecified: bigInt(t, "-10000000000000000000")}
	quote, err := f.hook.Quote(f.id, params, deepCurve())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.Fill.ConsumedReserve.Cmp(reserve) != 0 {
		t.Fatalf("unexpected quote: %+v", quote.Fill)
	}
	expectFees(t, f.hook, f.id, big.NewInt(0), reserve)
}

func TestHarvestTakesFee(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))

	result, err := f.hook.Harvest(f.id, model.Asset1, big.NewInt(1000), 100)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if result.Fee.Int64() != 10 || result.NetOutput.Int64() != 990 {
		t.Fatalf("unexpected fee split: %s %s", result.Fee, result.NetOutput)
	}
	if len(result.Transfers) != 1 || result.Transfers[0].Direction != model.PoolToHook || result.Distribution != nil {
		t.Fatalf("unexpected directives: %+v", result)
	}
	expectFees(t, f.hook, f.id, big.NewInt(0), big.NewInt(10))

	result, err = f.hook.Harvest(f.id, model.Asset0, big.NewInt(99), 100)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if result.Fee.Sign() != 0 || len(result.Transfers) != 0 {
		t.Fatalf("fee should round down to zero: %s", result.Fee)
	}
}

func TestHarvestDistributesAtThreshold(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	if err := f.hook.DepositFees(context.Background(), f.id, big.NewInt(9e13), big.NewInt(5)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	result, err := f.hook.Harvest(f.id, model.Asset0, big.NewInt(2e15), 100)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if result.Fee.Cmp(big.NewInt(2e13)) != 0 {
		t.Fatalf("unexpected fee: %s", result.Fee)
	}
	if result.Distribution == nil || result.Distribution.Amount0.Cmp(big.NewInt(11e13)) != 0 || result.Distribution.Amount1.Sign() != 0 {
		t.Fatalf("expected distribution of 1.1e14, got %+v", result.Distribution)
	}
	expectFees(t, f.hook, f.id, big.NewInt(0), big.NewInt(5))
}

func TestHarvestBelowThresholdKeepsBalance(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	if err := f.hook.DepositFees(context.Background(), f.id, big.NewInt(9e13), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	result, err := f.hook.Harvest(f.id, model.Asset1, big.NewInt(1e18), 100)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if result.Distribution != nil {
		t.Fatalf("asset1 fees must not trigger a distribution")
	}
	expectFees(t, f.hook, f.id, big.NewInt(9e13), big.NewInt(1e16))
}

func TestHarvestValidation(t *testing.T) {
	f := newFixture(t, 0, big.NewInt(1e18))
	if _, err := f.hook.Harvest(f.id, model.Asset0, big.NewInt(1), 10_001); !errors.Is(err, swapmath.ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}
	if _, err := f.hook.Harvest(f.id, model.Asset0, big.NewInt(-1), 100); !errors.Is(err, ErrNegativeOutput) {
		t.Fatalf("expected ErrNegativeOutput, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	fees := ledger.New(nil)
	manager := simulator.NewManager(nil)
	if _, err := New(fees, manager, Config{FeeBps: 20_000}); !errors.Is(err, swapmath.ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}
	if _, err := New(fees, manager, Config{FeeBps: 100, DonateThreshold: big.NewInt(0)}); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
	h, err := New(fees, manager, Config{FeeBps: 100})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if h.DonateThreshold().Cmp(DefaultDonateThreshold) != 0 {
		t.Fatalf("expected default threshold, got %s", h.DonateThreshold())
	}
}

func TestSwapWithoutHost(t *testing.T) {
	h, err := New(ledger.New(nil), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	params := model.SwapParams{ZeroForOne: true, AmountSpecified: big.NewInt(-1)}
	if _, err := h.Swap(context.Background(), testKey(0, 1), params); !errors.Is(err, ErrNoHost) {
		t.Fatalf("expected ErrNoHost, got %v", err)
	}
}
