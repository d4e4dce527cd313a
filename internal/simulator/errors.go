package simulator

import "errors"

var (
	ErrUnknownPool             = errors.New("unknown pool")
	ErrPoolAlreadyInitialized  = errors.New("pool already initialized")
	ErrNoLiquidity             = errors.New("pool has no liquidity")
	ErrInsufficientHookBalance = errors.New("insufficient hook balance")
	ErrManagerLocked           = errors.New("manager is locked")
	ErrReentrant               = errors.New("manager already unlocked")
	ErrInvalidSqrtPrice        = errors.New("sqrt price out of range")
)
