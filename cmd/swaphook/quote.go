package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"internalSwapPool/internal/chain"
	"internalSwapPool/internal/config"
	"internalSwapPool/internal/dex"
	"internalSwapPool/internal/hook"
	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
)

type quoteOutput struct {
	Block           uint64 `json:"block"`
	PoolID          string `json:"pool_id"`
	SqrtPriceX96    string `json:"sqrt_price_x96"`
	Liquidity       string `json:"liquidity"`
	ReserveAsset    string `json:"reserve_asset"`
	ReserveToken    string `json:"reserve_token"`
	ConsumedReserve string `json:"consumed_reserve"`
	ProducedCounter string `json:"produced_counter"`
	CounterToken    string `json:"counter_token"`
	ForwardedAmount string `json:"forwarded_amount"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("invalid pool address: %q", cfg.Pool)
	}
	if cfg.Hooks != "" && !common.IsHexAddress(cfg.Hooks) {
		return fmt.Errorf("invalid hooks address: %q", cfg.Hooks)
	}
	params, err := model.SwapRecord{
		ZeroForOne:        cfg.ZeroForOne,
		AmountSpecified:   cfg.Amount,
		SqrtPriceLimitX96: cfg.PriceLimit,
	}.Params()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	// Pin every read to one block so metadata and curve state agree.
	blockNumber := cfg.BlockNumber
	if blockNumber == 0 {
		if blockNumber, err = chainClient.LatestBlockNumber(ctx); err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
	}
	block := new(big.Int).SetUint64(blockNumber)

	poolAddr := common.HexToAddress(cfg.Pool)
	ext, err := dex.FetchExternalPool(ctx, chainClient, poolAddr, block)
	if err != nil {
		return fmt.Errorf("fetch pool: %w", err)
	}
	key, err := ext.HookKey(common.HexToAddress(cfg.Hooks))
	if err != nil {
		return err
	}
	id := key.ID()

	oracle := dex.NewChainOracle(chainClient, dex.OracleConfig{
		Retry:       dex.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBackoff},
		BlockNumber: blockNumber,
		Logger:      logger,
	})
	oracle.Register(id, poolAddr)
	curve, err := oracle.CurveState(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("curve state",
		zap.String("chain_id", chainID.String()),
		zap.Uint64("block", blockNumber),
		zap.String("pool", poolAddr.Hex()),
		zap.String("pool_id", id.Hex()),
		zap.Int32("tick", ext.Slot0.Tick),
		zap.String("sqrt_price_x96", curve.SqrtPriceX96.String()),
		zap.String("liquidity", curve.Liquidity.String()),
	)

	store, err := openFeeStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.close()

	fees := ledger.New(logger)
	if err := fees.Load(ctx, store); err != nil {
		return err
	}
	h, err := hook.New(fees, nil, hook.Config{Logger: logger})
	if err != nil {
		return err
	}
	result, err := h.Quote(id, params, curve)
	if err != nil {
		return err
	}

	tokens := [2]common.Address{key.Currency0, key.Currency1}
	reserveToken := fetchToken(ctx, chainClient, tokens[result.Fill.ReserveAsset], logger)
	counterToken := fetchToken(ctx, chainClient, tokens[result.Fill.ReserveAsset.Other()], logger)

	out := quoteOutput{
		Block:           blockNumber,
		PoolID:          id.Hex(),
		SqrtPriceX96:    curve.SqrtPriceX96.String(),
		Liquidity:       curve.Liquidity.String(),
		ReserveAsset:    result.Fill.ReserveAsset.String(),
		ReserveToken:    reserveToken.Label(),
		ConsumedReserve: dex.FormatTokenAmount(result.Fill.ConsumedReserve, reserveToken.Decimals),
		ProducedCounter: dex.FormatTokenAmount(result.Fill.ProducedCounter, counterToken.Decimals),
		CounterToken:    counterToken.Label(),
		ForwardedAmount: result.Forwarded.AmountSpecified.String(),
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// fetchToken falls back to raw base units when the token cannot be read.
func fetchToken(ctx context.Context, caller dex.ContractCaller, token common.Address, logger *zap.Logger) model.Token {
	meta, err := dex.FetchToken(ctx, caller, token, logger)
	if err != nil {
		logger.Warn("token metadata unavailable", zap.String("token", token.Hex()), zap.Error(err))
		return model.Token{Address: token}
	}
	return meta
}
