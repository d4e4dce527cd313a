package ledger

import (
	"errors"
	"fmt"

	"internalSwapPool/internal/swapmath"
)

var (
	// ErrOverflow is returned when a deposit would exceed 256 bits.
	ErrOverflow = fmt.Errorf("fee ledger: %w", swapmath.ErrArithmeticOverflow)
	// ErrInsufficientReserve is returned when a debit exceeds the balance.
	ErrInsufficientReserve = errors.New("insufficient reserve")
	// ErrNegativeAmount rejects negative deposits and debits.
	ErrNegativeAmount = errors.New("negative amount")
)
