package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"internalSwapPool/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "swaphook",
		Short:        "Internal swap pool fee hook",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay swap records through the hook against simulated pools",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().String("in", "", "input swap records JSONL")
	simulateCmd.Flags().String("out", "./data/outcomes.jsonl", "output outcomes JSONL")
	simulateCmd.Flags().Uint32("fee-bps", 100, "fee taken from the external leg, in basis points")
	simulateCmd.Flags().String("donate-threshold", "100000000000000", "asset0 balance that triggers a donation")
	simulateCmd.Flags().Int("batch-size", 500, "records per journal batch")
	simulateCmd.Flags().String("checkpoint", "./data/replay_checkpoint.json", "checkpoint file path")
	simulateCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	simulateCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address (e.g. :9090)")
	addStoreFlags(simulateCmd)
	addLogFlags(simulateCmd)

	root.AddCommand(simulateCmd)

	feesCmd := &cobra.Command{
		Use:   "fees [pool-id...]",
		Short: "Print fee ledger balances",
		RunE:  runFees,
	}
	addStoreFlags(feesCmd)
	addLogFlags(feesCmd)

	root.AddCommand(feesCmd)

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Credit fees to a pool's ledger",
		RunE:  runDeposit,
	}
	depositCmd.Flags().String("pool", "", "pool id (0x-prefixed)")
	depositCmd.Flags().String("amount0", "0", "asset0 amount in base units")
	depositCmd.Flags().String("amount1", "0", "asset1 amount in base units")
	addStoreFlags(depositCmd)
	addLogFlags(depositCmd)

	root.AddCommand(depositCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the internal fill for a swap against a live pool",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("rpc", "", "RPC URL")
	quoteCmd.Flags().String("pool", "", "pool contract address")
	quoteCmd.Flags().String("hooks", "", "hook address used in the pool key")
	quoteCmd.Flags().Bool("zero-for-one", true, "swap asset0 for asset1")
	quoteCmd.Flags().String("amount", "", "amount specified (negative for exact input)")
	quoteCmd.Flags().String("price-limit", "", "sqrt price limit (Q64.96), empty for no limit")
	quoteCmd.Flags().Uint64("block", 0, "block to read, 0 means latest")
	quoteCmd.Flags().Int("max-retries", 3, "maximum retry attempts")
	quoteCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	addStoreFlags(quoteCmd)
	addLogFlags(quoteCmd)

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "file", "fee ledger store (file, postgres, sqlite)")
	cmd.Flags().String("fee-file", "./data/fees.json", "fee ledger JSON file")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("sqlite-path", "./data/swaphook.db", "SQLite database path")
}

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-file", "", "also write logs to this file, rotated")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevel()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.File == "" {
		return zcfg.Build()
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
	encoder := zapcore.NewJSONEncoder(zcfg.EncoderConfig)
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zcfg.Level),
		zapcore.NewCore(encoder, rotated, zcfg.Level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
