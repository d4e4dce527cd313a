package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internalSwapPool/internal/config"
	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
)

func runDeposit(cmd *cobra.Command, _ []string) error {
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

	poolRef, _ := cmd.Flags().GetString("pool")
	id, err := model.ParsePoolID(poolRef)
	if err != nil {
		return err
	}
	rawAmount0, _ := cmd.Flags().GetString("amount0")
	rawAmount1, _ := cmd.Flags().GetString("amount1")
	amount0, err := model.ParseBigInt(rawAmount0)
	if err != nil {
		return fmt.Errorf("amount0: %w", err)
	}
	amount1, err := model.ParseBigInt(rawAmount1)
	if err != nil {
		return fmt.Errorf("amount1: %w", err)
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
	if err := fees.Deposit(id, amount0, amount1); err != nil {
		return err
	}
	if err := fees.Flush(ctx, store); err != nil {
		return err
	}

	balance0, balance1 := fees.Peek(id)
	logger.Info("fees deposited",
		zap.String("pool_id", id.Hex()),
		zap.String("amount0", amount0.String()),
		zap.String("amount1", amount1.String()),
		zap.String("balance0", balance0.String()),
		zap.String("balance1", balance1.String()),
	)
	return nil
}
