package config

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"internalSwapPool/internal/model"
)

// PoolConfig describes one simulated pool.
type PoolConfig struct {
	Name         string `mapstructure:"name"`
	Currency0    string `mapstructure:"currency0"`
	Currency1    string `mapstructure:"currency1"`
	Fee          uint32 `mapstructure:"fee"`
	TickSpacing  int32  `mapstructure:"tick_spacing"`
	Hooks        string `mapstructure:"hooks"`
	SqrtPriceX96 string `mapstructure:"sqrt_price_x96"`
	Liquidity    string `mapstructure:"liquidity"`
}

// Key builds and validates the pool key.
func (p PoolConfig) Key() (model.PoolKey, error) {
	for field, value := range map[string]string{"currency0": p.Currency0, "currency1": p.Currency1} {
		if !common.IsHexAddress(value) {
			return model.PoolKey{}, fmt.Errorf("pool %s: invalid %s %q", p.Name, field, value)
		}
	}
	if p.Hooks != "" && !common.IsHexAddress(p.Hooks) {
		return model.PoolKey{}, fmt.Errorf("pool %s: invalid hooks %q", p.Name, p.Hooks)
	}
	key := model.PoolKey{
		Currency0:   common.HexToAddress(p.Currency0),
		Currency1:   common.HexToAddress(p.Currency1),
		Fee:         p.Fee,
		TickSpacing: p.TickSpacing,
		Hooks:       common.HexToAddress(p.Hooks),
	}
	if err := key.Validate(); err != nil {
		return model.PoolKey{}, fmt.Errorf("pool %s: %w", p.Name, err)
	}
	return key, nil
}

// Curve parses the starting price and liquidity.
func (p PoolConfig) Curve() (model.CurveState, error) {
	price, err := model.ParseBigInt(p.SqrtPriceX96)
	if err != nil {
		return model.CurveState{}, fmt.Errorf("pool %s: sqrt_price_x96: %w", p.Name, err)
	}
	liquidity, err := model.ParseBigInt(p.Liquidity)
	if err != nil {
		return model.CurveState{}, fmt.Errorf("pool %s: liquidity: %w", p.Name, err)
	}
	return model.CurveState{SqrtPriceX96: price, Liquidity: liquidity}, nil
}

// SimulateConfig holds configuration for the simulate command.
type SimulateConfig struct {
	Input             string
	Out               string
	Pools             []PoolConfig
	FeeBps            uint32
	DonateThreshold   *big.Int
	BatchSize         int
	Checkpoint        string
	CheckpointEnabled bool
	MetricsAddr       string
	Store             StoreConfig
	Log               LogConfig
}

// LoadSimulate merges config file, environment variables, and flags into SimulateConfig.
// Pools are only read from the config file.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SimulateConfig{}, err
	}
	v.SetDefault("out", "./data/outcomes.jsonl")
	v.SetDefault("fee-bps", 100)
	v.SetDefault("donate-threshold", "100000000000000")
	v.SetDefault("batch-size", 500)
	v.SetDefault("checkpoint", "./data/replay_checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)

	var pools []PoolConfig
	if err := v.UnmarshalKey("pools", &pools); err != nil {
		return SimulateConfig{}, fmt.Errorf("parse pools: %w", err)
	}

	threshold, err := model.ParseBigInt(v.GetString("donate-threshold"))
	if err != nil {
		return SimulateConfig{}, fmt.Errorf("donate-threshold: %w", err)
	}

	cfg := SimulateConfig{
		Input:             v.GetString("in"),
		Out:               v.GetString("out"),
		Pools:             pools,
		FeeBps:            v.GetUint32("fee-bps"),
		DonateThreshold:   threshold,
		BatchSize:         v.GetInt("batch-size"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MetricsAddr:       v.GetString("metrics-addr"),
		Store:             storeConfig(v),
		Log:               logConfig(v),
	}
	if err := cfg.Store.Validate(); err != nil {
		return SimulateConfig{}, err
	}
	return cfg, nil
}
