package swapmath

import "errors"

var (
	// ErrArithmeticOverflow is returned when a value leaves its integer width.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrInvalidPriceOrdering is returned when a price limit is on the wrong
	// side of the current price for the swap direction.
	ErrInvalidPriceOrdering = errors.New("invalid price ordering")
	// ErrInvalidFee is returned for fee rates outside [0, 1_000_000).
	ErrInvalidFee = errors.New("invalid fee")
)
