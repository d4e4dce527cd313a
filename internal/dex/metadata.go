package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"internalSwapPool/internal/model"
)

// ContractCaller performs eth_call. *chain.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// FetchExternalPool loads a pool's tokens, fee and tick spacing, plus its
// slot0 and liquidity at block (nil for latest).
func FetchExternalPool(ctx context.Context, caller ContractCaller, pool common.Address, block *big.Int) (model.ExternalPool, error) {
	if caller == nil {
		return model.ExternalPool{}, fmt.Errorf("chain client is nil")
	}
	parsed, err := PoolABI()
	if err != nil {
		return model.ExternalPool{}, fmt.Errorf("parse pool abi: %w", err)
	}

	out := model.ExternalPool{Address: pool}
	for _, field := range []struct {
		method string
		dst    *common.Address
	}{
		{"token0", &out.Token0},
		{"token1", &out.Token1},
	} {
		values, err := callMethod(ctx, caller, pool, parsed, field.method, block)
		if err != nil {
			return model.ExternalPool{}, err
		}
		if *field.dst, err = asAddress(values[0]); err != nil {
			return model.ExternalPool{}, fmt.Errorf("%s: %w", field.method, err)
		}
	}

	values, err := callMethod(ctx, caller, pool, parsed, "fee", block)
	if err != nil {
		return model.ExternalPool{}, err
	}
	fee, err := asBigInt(values[0])
	if err != nil || !fee.IsUint64() || fee.Uint64() >= 1_000_000 {
		return model.ExternalPool{}, fmt.Errorf("fee: invalid value %v", values[0])
	}
	out.Fee = uint32(fee.Uint64())

	values, err = callMethod(ctx, caller, pool, parsed, "tickSpacing", block)
	if err != nil {
		return model.ExternalPool{}, err
	}
	spacing, err := asBigInt(values[0])
	if err != nil {
		return model.ExternalPool{}, fmt.Errorf("tick spacing: %w", err)
	}
	if out.TickSpacing, err = int24FromBig(spacing); err != nil {
		return model.ExternalPool{}, fmt.Errorf("tick spacing: %w", err)
	}

	if out.Slot0, err = readSlot0(ctx, caller, pool, block); err != nil {
		return model.ExternalPool{}, err
	}
	if out.Liquidity, err = readLiquidity(ctx, caller, pool, block); err != nil {
		return model.ExternalPool{}, err
	}
	return out, nil
}

func readSlot0(ctx context.Context, caller ContractCaller, pool common.Address, block *big.Int) (model.PoolSlot0, error) {
	parsed, err := PoolABI()
	if err != nil {
		return model.PoolSlot0{}, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := callMethod(ctx, caller, pool, parsed, "slot0", block)
	if err != nil {
		return model.PoolSlot0{}, err
	}
	if len(values) < 2 {
		return model.PoolSlot0{}, fmt.Errorf("slot0: expected 7 values, got %d", len(values))
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.PoolSlot0{}, fmt.Errorf("slot0 sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.PoolSlot0{}, fmt.Errorf("slot0 tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return model.PoolSlot0{}, fmt.Errorf("slot0 tick: %w", err)
	}
	return model.PoolSlot0{SqrtPriceX96: sqrtPrice, Tick: tick}, nil
}

func readLiquidity(ctx context.Context, caller ContractCaller, pool common.Address, block *big.Int) (*big.Int, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := callMethod(ctx, caller, pool, parsed, "liquidity", block)
	if err != nil {
		return nil, err
	}
	liquidity, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	return liquidity, nil
}

func callMethod(ctx context.Context, caller ContractCaller, to common.Address, parsed abi.ABI, method string, block *big.Int) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := caller.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: no values", method)
	}
	return values, nil
}

// FetchToken loads token metadata via ERC20 calls. Symbol and name are
// best effort; decimals is required.
func FetchToken(ctx context.Context, caller ContractCaller, token common.Address, logger *zap.Logger) (model.Token, error) {
	meta := model.Token{Address: token}
	if caller == nil {
		return meta, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := erc20StringABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20Bytes32ABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := callMethod(ctx, caller, token, stringABI, "decimals", nil)
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	meta.Symbol = readText(ctx, caller, token, "symbol", stringABI, bytes32ABI, logger)
	meta.Name = readText(ctx, caller, token, "name", stringABI, bytes32ABI, logger)
	return meta, nil
}

func readText(ctx context.Context, caller ContractCaller, token common.Address, method string, stringABI, bytes32ABI abi.ABI, logger *zap.Logger) string {
	if values, err := callMethod(ctx, caller, token, stringABI, method, nil); err == nil {
		if text, ok := values[0].(string); ok {
			return text
		}
	}
	values, err := callMethod(ctx, caller, token, bytes32ABI, method, nil)
	if err != nil {
		logger.Debug(method+" call failed", zap.String("token", token.Hex()), zap.Error(err))
		return ""
	}
	text, _ := bytes32ToString(values[0])
	return text
}

// FormatTokenAmount renders a base-unit amount with the token's decimals.
func FormatTokenAmount(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	text := new(big.Rat).SetFrac(abs, denom).FloatString(int(decimals))
	if value.Sign() < 0 {
		return "-" + text
	}
	return text
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("uint8 overflow: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
