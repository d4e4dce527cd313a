package hook

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/metrics"
	"internalSwapPool/internal/model"
)

const (
	bpsDenominator = 10_000

	// DefaultFeeBps is the fee taken from the external leg of a swap.
	DefaultFeeBps uint32 = 100
)

// DefaultDonateThreshold is the asset0 balance, in base units, at which
// accumulated fees are donated to liquidity providers.
var DefaultDonateThreshold = big.NewInt(1e14)

type Config struct {
	FeeBps          uint32
	DonateThreshold *big.Int
	Logger          *zap.Logger
	Metrics         *metrics.HookMetrics
}

// DefaultConfig returns the standard fee rate and donation threshold.
func DefaultConfig() Config {
	return Config{
		FeeBps:          DefaultFeeBps,
		DonateThreshold: new(big.Int).Set(DefaultDonateThreshold),
	}
}

// Hook fills swaps from its fee reserve before they reach the external
// curve, and takes a fee from whatever the curve executes.
type Hook struct {
	ledger    *ledger.Ledger
	host      Host
	feeBps    uint32
	threshold *big.Int
	logger    *zap.Logger
	metrics   *metrics.HookMetrics
}

// New builds a Hook. host may be nil when the hook is only used for Quote
// and DepositFees.
func New(fees *ledger.Ledger, host Host, cfg Config) (*Hook, error) {
	if cfg.FeeBps > bpsDenominator {
		return nil, invalidFeeBps(cfg.FeeBps)
	}
	threshold := cfg.DonateThreshold
	if threshold == nil {
		threshold = DefaultDonateThreshold
	}
	if threshold.Sign() <= 0 {
		return nil, ErrInvalidThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hook{
		ledger:    fees,
		host:      host,
		feeBps:    cfg.FeeBps,
		threshold: new(big.Int).Set(threshold),
		logger:    logger,
		metrics:   cfg.Metrics,
	}, nil
}

func (h *Hook) FeeBps() uint32 {
	return h.feeBps
}

func (h *Hook) DonateThreshold() *big.Int {
	return new(big.Int).Set(h.threshold)
}

// DepositFees credits fees to a pool's ledger outside of a swap.
func (h *Hook) DepositFees(ctx context.Context, id model.PoolID, amount0, amount1 *big.Int) error {
	if err := h.ledger.Deposit(id, amount0, amount1); err != nil {
		return err
	}
	h.logger.Debug("fees deposited",
		zap.String("pool_id", id.Hex()),
		zap.String("amount0", intString(amount0)),
		zap.String("amount1", intString(amount1)),
	)
	return nil
}

// PoolFees returns the pool's ledger balances.
func (h *Hook) PoolFees(id model.PoolID) (*big.Int, *big.Int) {
	return h.ledger.Peek(id)
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
