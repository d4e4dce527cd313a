package model

// FeeEntry is the persisted form of a pool's fee ledger balances.
// Amounts are base-10 strings of unsigned 256-bit integers.
type FeeEntry struct {
	PoolID    string `json:"pool_id"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	UpdatedAt string `json:"updated_at"`
}
