package model

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Record kinds accepted by the simulator input.
const (
	RecordKindSwap    = "swap"
	RecordKindDeposit = "deposit"
)

// SwapRecord is one line of simulator input: either a swap or a direct fee deposit.
type SwapRecord struct {
	Kind              string `json:"kind"`
	Pool              string `json:"pool"`
	ZeroForOne        bool   `json:"zero_for_one"`
	AmountSpecified   string `json:"amount_specified"`
	SqrtPriceLimitX96 string `json:"sqrt_price_limit_x96,omitempty"`
	Amount0           string `json:"amount0,omitempty"`
	Amount1           string `json:"amount1,omitempty"`
}

// UnmarshalJSON decodes a SwapRecord and defaults Kind to swap.
func (r *SwapRecord) UnmarshalJSON(data []byte) error {
	type Alias SwapRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.Kind = strings.ToLower(strings.TrimSpace(a.Kind))
	if a.Kind == "" {
		a.Kind = RecordKindSwap
	}
	*r = SwapRecord(a)
	return nil
}

// Params converts the record into swap params. A missing price limit is
// returned as nil for the caller to default.
func (r SwapRecord) Params() (SwapParams, error) {
	amount, err := ParseBigInt(r.AmountSpecified)
	if err != nil {
		return SwapParams{}, fmt.Errorf("amount_specified: %w", err)
	}
	params := SwapParams{ZeroForOne: r.ZeroForOne, AmountSpecified: amount}
	if strings.TrimSpace(r.SqrtPriceLimitX96) != "" {
		limit, err := ParseBigInt(r.SqrtPriceLimitX96)
		if err != nil {
			return SwapParams{}, fmt.Errorf("sqrt_price_limit_x96: %w", err)
		}
		params.SqrtPriceLimitX96 = limit
	}
	return params, nil
}

// ParseBigInt parses a base-10 integer; an empty string is zero.
func ParseBigInt(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}
