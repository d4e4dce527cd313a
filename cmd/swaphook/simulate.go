package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internalSwapPool/internal/config"
	"internalSwapPool/internal/hook"
	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/metrics"
	"internalSwapPool/internal/replay"
	"internalSwapPool/internal/simulator"
	"internalSwapPool/internal/storage"
)

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if len(cfg.Pools) == 0 {
		return fmt.Errorf("at least one pool must be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := simulator.NewManager(logger)
	pools := replay.NewPoolSet()
	for _, pc := range cfg.Pools {
		key, err := pc.Key()
		if err != nil {
			return err
		}
		curve, err := pc.Curve()
		if err != nil {
			return err
		}
		if _, err := manager.Initialize(key, curve.SqrtPriceX96, curve.Liquidity); err != nil {
			return fmt.Errorf("initialize pool %s: %w", pc.Name, err)
		}
		if err := pools.Add(pc.Name, key); err != nil {
			return err
		}
	}

	store, err := openFeeStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.close()

	fees := ledger.New(logger)
	if err := fees.Load(ctx, store); err != nil {
		return err
	}
	// Fees carried over from earlier runs are held by the hook on the host.
	for _, record := range pools.Records() {
		key, err := pools.Resolve(record.ID)
		if err != nil {
			return err
		}
		amount0, amount1 := fees.Peek(key.ID())
		if err := manager.CreditHook(key.ID(), amount0, amount1); err != nil {
			return fmt.Errorf("fund hook for %s: %w", record.Name, err)
		}
	}

	if store.pools != nil {
		if err := store.pools.UpsertPools(ctx, pools.Records()); err != nil {
			return fmt.Errorf("register pools: %w", err)
		}
	}

	h, err := hook.New(fees, manager, hook.Config{
		FeeBps:          cfg.FeeBps,
		DonateThreshold: cfg.DonateThreshold,
		Logger:          logger,
		Metrics:         metrics.Hook(),
	})
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	input, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	journal := storage.NewJsonlJournal(cfg.Out)
	runner := replay.NewRunner(replay.RunConfig{
		Input:             cfg.Input,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, h, manager, pools, journal, fees, store, logger)

	logger.Info("simulate start",
		zap.String("in", cfg.Input),
		zap.String("out", journal.Path()),
		zap.Int("pools", pools.Len()),
		zap.Uint32("fee_bps", h.FeeBps()),
		zap.String("donate_threshold", h.DonateThreshold().String()),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	_, err = runner.Run(ctx, input)
	return err
}
