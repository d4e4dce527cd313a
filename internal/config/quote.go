package config

import (
	"time"

	"github.com/spf13/pflag"
)

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	RPCURL       string
	Pool         string
	Hooks        string
	ZeroForOne   bool
	Amount       string
	PriceLimit   string
	BlockNumber  uint64
	MaxRetries   int
	RetryBackoff time.Duration
	Store        StoreConfig
	Log          LogConfig
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return QuoteConfig{}, err
	}
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)

	cfg := QuoteConfig{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		Hooks:        v.GetString("hooks"),
		ZeroForOne:   v.GetBool("zero-for-one"),
		Amount:       v.GetString("amount"),
		PriceLimit:   v.GetString("price-limit"),
		BlockNumber:  v.GetUint64("block"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Store:        storeConfig(v),
		Log:          logConfig(v),
	}
	if err := cfg.Store.Validate(); err != nil {
		return QuoteConfig{}, err
	}
	return cfg, nil
}
