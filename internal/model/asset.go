package model

import "fmt"

// Asset selects one side of a two-asset pool.
type Asset uint8

const (
	Asset0 Asset = iota
	Asset1
)

// Other returns the opposite side of the pool.
func (a Asset) Other() Asset {
	if a == Asset0 {
		return Asset1
	}
	return Asset0
}

func (a Asset) String() string {
	switch a {
	case Asset0:
		return "asset0"
	case Asset1:
		return "asset1"
	default:
		return fmt.Sprintf("asset(%d)", uint8(a))
	}
}

// MarshalText encodes the asset as its name.
func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts "asset0"/"asset1" or "0"/"1".
func (a *Asset) UnmarshalText(text []byte) error {
	switch string(text) {
	case "asset0", "0":
		*a = Asset0
	case "asset1", "1":
		*a = Asset1
	default:
		return fmt.Errorf("unknown asset: %s", text)
	}
	return nil
}
