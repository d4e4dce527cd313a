package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"internalSwapPool/internal/config"
	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
)

func runFees(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLedger(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ids := make([]model.PoolID, 0, len(args))
	for _, arg := range args {
		id, err := model.ParsePoolID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openFeeStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.close()

	fees := ledger.New(logger)
	if err := fees.Load(ctx, store); err != nil {
		return err
	}

	entries := fees.Entries()
	if len(ids) > 0 {
		entries = entries[:0]
		for _, id := range ids {
			amount0, amount1 := fees.Peek(id)
			entries = append(entries, model.FeeEntry{
				PoolID:  id.Hex(),
				Amount0: amount0.String(),
				Amount1: amount1.String(),
			})
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
