package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"

	"internalSwapPool/internal/ledger"
	"internalSwapPool/internal/model"
	"internalSwapPool/internal/storage"
)

// Engine runs swaps and deposits against the fee hook.
type Engine interface {
	Swap(ctx context.Context, key model.PoolKey, params model.SwapParams) (model.SwapOutcome, error)
	DepositFees(ctx context.Context, id model.PoolID, amount0, amount1 *big.Int) error
}

// Funder hands deposited tokens to the hook's account on the host.
type Funder interface {
	CreditHook(id model.PoolID, amount0, amount1 *big.Int) error
}

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	// Input names the replayed source in checkpoints.
	Input             string
	BatchSize         int
	CheckpointPath    string
	CheckpointEnabled bool
}

// Stats counts what a replay did.
type Stats struct {
	Records  int
	Swaps    int
	Deposits int
	Rejected int
	Skipped  int
}

// Runner replays JSONL swap records through the hook. After every batch it
// appends outcomes to the journal, flushes the fee ledger and saves the
// checkpoint, in that order.
type Runner struct {
	cfg        RunConfig
	engine     Engine
	funder     Funder
	pools      *PoolSet
	journal    storage.Journal
	fees       *ledger.Ledger
	feeStore   ledger.Store
	checkpoint *CheckpointStore
	logger     *zap.Logger
}

// NewRunner builds a Runner. feeStore may be nil to keep the ledger in memory.
func NewRunner(cfg RunConfig, engine Engine, funder Funder, pools *PoolSet, journal storage.Journal, fees *ledger.Ledger, feeStore ledger.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		engine:     engine,
		funder:     funder,
		pools:      pools,
		journal:    journal,
		fees:       fees,
		feeStore:   feeStore,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
		logger:     logger,
	}
}

// Run replays every record in r. Rejected swaps are journaled with their
// error and do not stop the run; malformed input and storage failures do.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Stats, error) {
	var stats Stats
	if r.engine == nil || r.funder == nil {
		return stats, fmt.Errorf("engine and funder are required")
	}
	if r.journal == nil {
		return stats, fmt.Errorf("journal is nil")
	}
	if r.pools == nil || r.pools.Len() == 0 {
		return stats, fmt.Errorf("at least one pool is required")
	}
	if r.cfg.BatchSize <= 0 {
		return stats, fmt.Errorf("batch size must be greater than zero")
	}

	var resumeAfter uint64
	cp, ok, err := r.checkpoint.Load(r.cfg.Input)
	if err != nil {
		return stats, err
	}
	if ok {
		resumeAfter = cp.LastSeq
		r.logger.Info("resume from checkpoint", zap.Uint64("last_seq", cp.LastSeq))
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var (
		seq     uint64
		lastSeq uint64
		pending int
		batch   []model.OutcomeRecord
	)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		seq++
		if seq <= resumeAfter {
			stats.Skipped++
			continue
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		var record model.SwapRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return stats, fmt.Errorf("record %d: %w", seq, err)
		}
		stats.Records++

		out, err := r.apply(ctx, seq, record, &stats)
		if err != nil {
			return stats, fmt.Errorf("record %d: %w", seq, err)
		}
		if out != nil {
			batch = append(batch, *out)
		}
		lastSeq = seq
		pending++

		if pending >= r.cfg.BatchSize {
			if err := r.commit(ctx, batch, lastSeq); err != nil {
				return stats, err
			}
			batch = batch[:0]
			pending = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}
	if pending > 0 {
		if err := r.commit(ctx, batch, lastSeq); err != nil {
			return stats, err
		}
	}

	r.logger.Info("replay complete",
		zap.Int("records", stats.Records),
		zap.Int("swaps", stats.Swaps),
		zap.Int("deposits", stats.Deposits),
		zap.Int("rejected", stats.Rejected),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (r *Runner) apply(ctx context.Context, seq uint64, record model.SwapRecord, stats *Stats) (*model.OutcomeRecord, error) {
	key, err := r.pools.Resolve(record.Pool)
	if err != nil {
		return nil, err
	}

	switch record.Kind {
	case model.RecordKindDeposit:
		amount0, err := model.ParseBigInt(record.Amount0)
		if err != nil {
			return nil, fmt.Errorf("amount0: %w", err)
		}
		amount1, err := model.ParseBigInt(record.Amount1)
		if err != nil {
			return nil, fmt.Errorf("amount1: %w", err)
		}
		if err := r.engine.DepositFees(ctx, key.ID(), amount0, amount1); err != nil {
			return nil, fmt.Errorf("deposit fees: %w", err)
		}
		if err := r.funder.CreditHook(key.ID(), amount0, amount1); err != nil {
			return nil, fmt.Errorf("credit hook: %w", err)
		}
		stats.Deposits++
		return nil, nil

	case model.RecordKindSwap:
		params, err := record.Params()
		if err != nil {
			return nil, err
		}
		stats.Swaps++
		outcome, err := r.engine.Swap(ctx, key, params)
		if err != nil {
			stats.Rejected++
			rejected := model.SwapOutcome{PoolID: key.ID(), Params: params}.Record(seq)
			rejected.Error = err.Error()
			return &rejected, nil
		}
		rec := outcome.Record(seq)
		return &rec, nil

	default:
		return nil, fmt.Errorf("unknown record kind %q", record.Kind)
	}
}

func (r *Runner) commit(ctx context.Context, batch []model.OutcomeRecord, lastSeq uint64) error {
	if err := r.journal.PutOutcomeBatch(batch); err != nil {
		return fmt.Errorf("journal outcomes: %w", err)
	}
	if r.feeStore != nil {
		if err := r.fees.Flush(ctx, r.feeStore); err != nil {
			return fmt.Errorf("flush fee ledger: %w", err)
		}
	}
	if err := r.checkpoint.Save(r.cfg.Input, lastSeq); err != nil {
		return err
	}
	r.logger.Info("batch complete", zap.Int("outcomes", len(batch)), zap.Uint64("last_seq", lastSeq))
	return nil
}
