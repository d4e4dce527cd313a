package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SWAPHOOK"

// Store kinds for the fee ledger.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// StoreConfig selects where the fee ledger is persisted.
type StoreConfig struct {
	Kind       string
	FeeFile    string
	PGDSN      string
	SQLitePath string
}

// Validate checks that the selected store has what it needs.
func (c StoreConfig) Validate() error {
	switch c.Kind {
	case StoreFile:
		if c.FeeFile == "" {
			return fmt.Errorf("fee-file is required for the file store")
		}
	case StorePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg-dsn is required for the postgres store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite-path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store %q (want file, postgres or sqlite)", c.Kind)
	}
	return nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	File  string
}

// LedgerConfig holds configuration for commands that only touch the fee ledger.
type LedgerConfig struct {
	Store StoreConfig
	Log   LogConfig
}

// LoadLedger merges config file, environment variables, and flags into LedgerConfig.
func LoadLedger(cfgFile string, flags *pflag.FlagSet) (LedgerConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return LedgerConfig{}, err
	}
	cfg := LedgerConfig{
		Store: storeConfig(v),
		Log:   logConfig(v),
	}
	if err := cfg.Store.Validate(); err != nil {
		return LedgerConfig{}, err
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreFile)
	v.SetDefault("fee-file", "./data/fees.json")
	v.SetDefault("sqlite-path", "./data/swaphook.db")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func storeConfig(v *viper.Viper) StoreConfig {
	return StoreConfig{
		Kind:       strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		FeeFile:    v.GetString("fee-file"),
		PGDSN:      v.GetString("pg-dsn"),
		SQLitePath: v.GetString("sqlite-path"),
	}
}

func logConfig(v *viper.Viper) LogConfig {
	return LogConfig{
		Level: v.GetString("log-level"),
		File:  v.GetString("log-file"),
	}
}
