package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type HookMetrics struct {
	swaps     *prometheus.CounterVec
	fills     *prometheus.CounterVec
	filled    *prometheus.CounterVec
	fees      *prometheus.CounterVec
	donations *prometheus.CounterVec
	donated   *prometheus.CounterVec
	rejects   *prometheus.CounterVec
}

var (
	hookOnce     sync.Once
	hookRegistry *HookMetrics
)

func Hook() *HookMetrics {
	hookOnce.Do(func() {
		hookRegistry = &HookMetrics{
			swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_swaps_total",
				Help: "Swaps intercepted by the hook, by pool.",
			}, []string{"pool"}),
			fills: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_internal_fills_total",
				Help: "Swaps partly or fully filled from the fee reserve, by pool and reserve asset.",
			}, []string{"pool", "asset"}),
			filled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_internal_fill_amount",
				Help: "Reserve tokens consumed by internal fills, in base units.",
			}, []string{"pool", "asset"}),
			fees: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_fees_harvested_amount",
				Help: "Fees deposited into the ledger from external swap legs, in base units.",
			}, []string{"pool", "asset"}),
			donations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_donations_total",
				Help: "Fee distributions donated to liquidity providers, by pool.",
			}, []string{"pool"}),
			donated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_donated_amount",
				Help: "Asset0 donated to liquidity providers, in base units.",
			}, []string{"pool"}),
			rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "swaphook_swaps_rejected_total",
				Help: "Swaps aborted with an error, by reason.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(
			hookRegistry.swaps,
			hookRegistry.fills,
			hookRegistry.filled,
			hookRegistry.fees,
			hookRegistry.donations,
			hookRegistry.donated,
			hookRegistry.rejects,
		)
	})
	return hookRegistry
}

func (m *HookMetrics) ObserveSwap(pool string) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(pool).Inc()
}

func (m *HookMetrics) ObserveFill(pool, asset string, consumed *big.Int) {
	if m == nil {
		return
	}
	m.fills.WithLabelValues(pool, asset).Inc()
	m.filled.WithLabelValues(pool, asset).Add(toFloat(consumed))
}

func (m *HookMetrics) ObserveHarvest(pool, asset string, fee *big.Int) {
	if m == nil {
		return
	}
	m.fees.WithLabelValues(pool, asset).Add(toFloat(fee))
}

func (m *HookMetrics) ObserveDonation(pool string, amount0 *big.Int) {
	if m == nil {
		return
	}
	m.donations.WithLabelValues(pool).Inc()
	m.donated.WithLabelValues(pool).Add(toFloat(amount0))
}

func (m *HookMetrics) ObserveReject(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.rejects.WithLabelValues(reason).Inc()
}

// Counters only move forward; nil and negative amounts add nothing.
func toFloat(v *big.Int) float64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
