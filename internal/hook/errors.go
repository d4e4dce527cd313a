package hook

import (
	"errors"
	"fmt"

	"internalSwapPool/internal/swapmath"
)

var (
	ErrInvalidThreshold = errors.New("donate threshold must be positive")
	ErrNegativeOutput   = errors.New("swap output must be non-negative")
	ErrNoHost           = errors.New("hook has no host pool manager")
)

func invalidFeeBps(bps uint32) error {
	return fmt.Errorf("fee %d bps exceeds %d: %w", bps, bpsDenominator, swapmath.ErrInvalidFee)
}
