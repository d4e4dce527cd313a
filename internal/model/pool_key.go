package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PoolKey identifies a pool by its currencies, fee tier, tick spacing and hook.
type PoolKey struct {
	Currency0   common.Address `json:"currency0"`
	Currency1   common.Address `json:"currency1"`
	Fee         uint32         `json:"fee"`
	TickSpacing int32          `json:"tick_spacing"`
	Hooks       common.Address `json:"hooks"`
}

// PoolID is the keccak256 hash of the ABI-encoded PoolKey.
type PoolID common.Hash

// ID computes the pool id as keccak256(abi.encode(key)).
func (k PoolKey) ID() PoolID {
	var buf [5 * 32]byte
	copy(buf[12:32], k.Currency0.Bytes())
	copy(buf[44:64], k.Currency1.Bytes())
	binary.BigEndian.PutUint32(buf[92:96], k.Fee&0xffffff)

	// int24 is sign-extended to the full word.
	if k.TickSpacing < 0 {
		for i := 96; i < 124; i++ {
			buf[i] = 0xff
		}
	}
	binary.BigEndian.PutUint32(buf[124:128], uint32(k.TickSpacing))
	copy(buf[140:160], k.Hooks.Bytes())

	return PoolID(crypto.Keccak256Hash(buf[:]))
}

// Validate checks the currency ordering and the fee tier bound.
func (k PoolKey) Validate() error {
	if bytes.Compare(k.Currency0.Bytes(), k.Currency1.Bytes()) >= 0 {
		return fmt.Errorf("currencies not sorted: %s >= %s", k.Currency0.Hex(), k.Currency1.Hex())
	}
	if k.Fee >= 1_000_000 {
		return fmt.Errorf("fee %d out of range", k.Fee)
	}
	if k.TickSpacing <= 0 {
		return fmt.Errorf("tick spacing must be positive")
	}
	return nil
}

// Hex returns the 0x-prefixed pool id.
func (id PoolID) Hex() string {
	return common.Hash(id).Hex()
}

func (id PoolID) String() string {
	return id.Hex()
}

// ParsePoolID parses a 0x-prefixed 32 byte hex pool id.
func ParsePoolID(input string) (PoolID, error) {
	input = strings.TrimSpace(input)
	if len(input) != 66 || !strings.HasPrefix(input, "0x") {
		return PoolID{}, fmt.Errorf("invalid pool id: %s", input)
	}
	return PoolID(common.HexToHash(input)), nil
}
