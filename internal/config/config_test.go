package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

const simulateYAML = `
store: sqlite
sqlite-path: ./state/hook.db
fee-bps: 50
pools:
  - name: eth-usdc
    currency0: "0x0000000000000000000000000000000000000001"
    currency1: "0x0000000000000000000000000000000000000002"
    fee: 3000
    tick_spacing: 60
    hooks: "0x00000000000000000000000000000000000000ff"
    sqrt_price_x96: "79228162514264337593543950336"
    liquidity: "2000000000000000000"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSimulate(t *testing.T) {
	path := writeConfig(t, simulateYAML)

	flags := pflag.NewFlagSet("simulate", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.String("out", "./data/outcomes.jsonl", "")
	if err := flags.Parse([]string{"--in", "swaps.jsonl"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadSimulate(path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Input != "swaps.jsonl" || cfg.FeeBps != 50 || cfg.Store.Kind != StoreSQLite {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DonateThreshold.String() != "100000000000000" {
		t.Fatalf("unexpected threshold default: %s", cfg.DonateThreshold)
	}
	if len(cfg.Pools) != 1 {
		t.Fatalf("expected one pool, got %d", len(cfg.Pools))
	}

	pool := cfg.Pools[0]
	if pool.Name != "eth-usdc" {
		t.Fatalf("unexpected pool name: %s", pool.Name)
	}
	key, err := pool.Key()
	if err != nil {
		t.Fatalf("pool key: %v", err)
	}
	if key.Fee != 3000 || key.TickSpacing != 60 {
		t.Fatalf("unexpected key: %+v", key)
	}
	curve, err := pool.Curve()
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	if curve.Liquidity.String() != "2000000000000000000" {
		t.Fatalf("unexpected liquidity: %s", curve.Liquidity)
	}
}

func TestLoadLedgerEnvOverride(t *testing.T) {
	path := writeConfig(t, "store: file\n")
	t.Setenv("SWAPHOOK_FEE_FILE", "/tmp/override.json")

	cfg, err := LoadLedger(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.FeeFile != "/tmp/override.json" {
		t.Fatalf("env override ignored: %s", cfg.Store.FeeFile)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestStoreValidation(t *testing.T) {
	path := writeConfig(t, "store: postgres\n")
	if _, err := LoadLedger(path, nil); err == nil {
		t.Fatalf("expected missing dsn error")
	}

	path = writeConfig(t, "store: redis\n")
	if _, err := LoadLedger(path, nil); err == nil {
		t.Fatalf("expected unknown store error")
	}
}

func TestPoolKeyRejectsUnsortedCurrencies(t *testing.T) {
	pool := PoolConfig{
		Name:        "bad",
		Currency0:   "0x0000000000000000000000000000000000000002",
		Currency1:   "0x0000000000000000000000000000000000000001",
		TickSpacing: 1,
	}
	if _, err := pool.Key(); err == nil {
		t.Fatalf("expected ordering error")
	}
}
