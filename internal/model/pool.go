package model

// Pool is a registered pool record for storage.
type Pool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Currency0   string `json:"currency0"`
	Currency1   string `json:"currency1"`
	Fee         uint32 `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
	Hooks       string `json:"hooks"`
}

// PoolRecord builds the storage record for a key.
func PoolRecord(name string, key PoolKey) Pool {
	return Pool{
		ID:          key.ID().Hex(),
		Name:        name,
		Currency0:   key.Currency0.Hex(),
		Currency1:   key.Currency1.Hex(),
		Fee:         key.Fee,
		TickSpacing: key.TickSpacing,
		Hooks:       key.Hooks.Hex(),
	}
}
