package routing

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/namepay/namepay-api/internal/registry"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The hook charges a protocol-managed dynamic fee: the PoolKey fee field is
// the dynamic-fee sentinel, not a literal static fee. The classification
// fee tier is used only for estimates.
const dynamicFeeFlag = 0x800000

// Universal-router command and v4 action bytes for the three-step swap
const (
	commandV4Swap           = 0x10
	actionSwapExactInSingle = 0x06
	actionSettleAll         = 0x0c
	actionTakeAll           = 0x0f
)

// swapDeadline bounds how long a built swap stays valid
const swapDeadlineSeconds = 30 * 60

// PoolKey defines a hook pool. currency0 < currency1 by numeric address
// value, always.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

// PairClass carries the fee/slippage defaults for a token pair's risk class
type PairClass struct {
	FeeTier          int64 // hundredths of a bip, estimate only
	TickSpacing      int64
	SlippagePerMille int64 // denominator 1000
}

// ClassifyPair returns the defaults table entry for two token categories
func ClassifyPair(a, b registry.TokenCategory) PairClass {
	switch {
	case a == registry.CategoryStable && b == registry.CategoryStable:
		return PairClass{FeeTier: 100, TickSpacing: 1, SlippagePerMille: 3}
	case a == registry.CategoryBluechip && b == registry.CategoryBluechip:
		return PairClass{FeeTier: 500, TickSpacing: 60, SlippagePerMille: 20}
	default:
		return PairClass{FeeTier: 3000, TickSpacing: 60, SlippagePerMille: 20}
	}
}

// NewPoolKey builds the canonical PoolKey for two tokens on a hook. The two
// addresses are sorted ascending, so argument order never matters.
func NewPoolKey(tokenA, tokenB common.Address, tickSpacing int64, hooks common.Address) PoolKey {
	currency0, currency1 := tokenA, tokenB
	if new(big.Int).SetBytes(tokenA.Bytes()).Cmp(new(big.Int).SetBytes(tokenB.Bytes())) > 0 {
		currency0, currency1 = tokenB, tokenA
	}
	return PoolKey{
		Currency0:   currency0,
		Currency1:   currency1,
		Fee:         big.NewInt(dynamicFeeFlag),
		TickSpacing: big.NewInt(tickSpacing),
		Hooks:       hooks,
	}
}

// ZeroForOne reports whether a swap selling tokenIn moves currency0 into
// currency1
func (k PoolKey) ZeroForOne(tokenIn common.Address) bool {
	return tokenIn == k.Currency0
}

var (
	poolKeyComponents = []abi.ArgumentMarshaling{
		{Name: "currency0", Type: "address"},
		{Name: "currency1", Type: "address"},
		{Name: "fee", Type: "uint24"},
		{Name: "tickSpacing", Type: "int24"},
		{Name: "hooks", Type: "address"},
	}

	poolKeyType = mustType("tuple", poolKeyComponents)

	swapExactInSingleType = mustType("tuple", []abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "zeroForOne", Type: "bool"},
		{Name: "amountIn", Type: "uint128"},
		{Name: "amountOutMinimum", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})

	addressType    = mustType("address", nil)
	uint256Type    = mustType("uint256", nil)
	bytesType      = mustType("bytes", nil)
	bytesSliceType = mustType("bytes[]", nil)
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("invalid abi type %s: %v", t, err))
	}
	return typ
}

const executeABIJSON = `[
	{"inputs":[{"name":"commands","type":"bytes"},{"name":"inputs","type":"bytes[]"},{"name":"deadline","type":"uint256"}],"name":"execute","outputs":[],"stateMutability":"payable","type":"function"}
]`

const erc20ApproveABIJSON = `[
	{"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

const permit2ApproveABIJSON = `[
	{"inputs":[{"name":"token","type":"address"},{"name":"spender","type":"address"},{"name":"amount","type":"uint160"},{"name":"expiration","type":"uint48"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const erc20TransferABIJSON = `[
	{"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

var (
	executeABI        abi.ABI
	erc20ApproveABI   abi.ABI
	erc20TransferABI  abi.ABI
	permit2ApproveABI abi.ABI

	// MaxUint256 is the blanket ERC-20 approval amount
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	// MaxUint160 is the blanket gateway approval amount
	MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
	// maxUint48 is the far-future gateway approval expiry
	maxUint48 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 48), big.NewInt(1))
)

func init() {
	executeABI = mustABI(executeABIJSON)
	erc20ApproveABI = mustABI(erc20ApproveABIJSON)
	erc20TransferABI = mustABI(erc20TransferABIJSON)
	permit2ApproveABI = mustABI(permit2ApproveABIJSON)
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid abi json: %v", err))
	}
	return parsed
}

// EncodeTokenApproval builds approve(gateway, MaxUint256) calldata for the
// token contract
func EncodeTokenApproval(gateway common.Address) ([]byte, error) {
	data, err := erc20ApproveABI.Pack("approve", gateway, MaxUint256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token approval: %w", err)
	}
	return data, nil
}

// EncodeGatewayApproval builds the gateway's
// approve(token, router, MaxUint160, far-future) calldata
func EncodeGatewayApproval(token, router common.Address) ([]byte, error) {
	data, err := permit2ApproveABI.Pack("approve", token, router, MaxUint160, maxUint48)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway approval: %w", err)
	}
	return data, nil
}

// EncodeTransfer builds transfer(recipient, amount) calldata for the
// direct-transfer short-circuit
func EncodeTransfer(recipient common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20TransferABI.Pack("transfer", recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer: %w", err)
	}
	return data, nil
}

// ComputePoolID hashes the abi-encoded PoolKey. This must match what the
// on-chain pool manager computes, byte for byte.
func ComputePoolID(key PoolKey) (common.Hash, error) {
	args := abi.Arguments{{Type: poolKeyType}}
	encoded, err := args.Pack(key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode pool key: %w", err)
	}
	return crypto.Keccak256Hash(encoded), nil
}

// MinAmountOut applies the pair's slippage tolerance: floor of
// amountIn * (1000 - slippage) / 1000
func MinAmountOut(amountIn *big.Int, slippagePerMille int64) *big.Int {
	out := new(big.Int).Mul(amountIn, big.NewInt(1000-slippagePerMille))
	return out.Div(out, big.NewInt(1000))
}

// swapExactInSingleParams mirrors the router's exact-in-single action tuple
type swapExactInSingleParams struct {
	PoolKey          PoolKey
	ZeroForOne       bool
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
	HookData         []byte
}

// EncodeSwapCalldata builds the universal-router execute() calldata for a
// three-step exact-in swap: swap-exact-in-single, settle-all, take-all.
func EncodeSwapCalldata(key PoolKey, tokenIn, tokenOut common.Address, amountIn, minAmountOut *big.Int, deadline *big.Int) ([]byte, error) {
	swapParams, err := abi.Arguments{{Type: swapExactInSingleType}}.Pack(swapExactInSingleParams{
		PoolKey:          key,
		ZeroForOne:       key.ZeroForOne(tokenIn),
		AmountIn:         amountIn,
		AmountOutMinimum: minAmountOut,
		HookData:         []byte{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap params: %w", err)
	}

	settleParams, err := abi.Arguments{{Type: addressType}, {Type: uint256Type}}.Pack(tokenIn, amountIn)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settle params: %w", err)
	}

	takeParams, err := abi.Arguments{{Type: addressType}, {Type: uint256Type}}.Pack(tokenOut, minAmountOut)
	if err != nil {
		return nil, fmt.Errorf("failed to encode take params: %w", err)
	}

	actions := []byte{actionSwapExactInSingle, actionSettleAll, actionTakeAll}
	input, err := abi.Arguments{{Type: bytesType}, {Type: bytesSliceType}}.Pack(actions, [][]byte{swapParams, settleParams, takeParams})
	if err != nil {
		return nil, fmt.Errorf("failed to encode v4 swap input: %w", err)
	}

	commands := []byte{commandV4Swap}
	calldata, err := executeABI.Pack("execute", commands, [][]byte{input}, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to encode execute call: %w", err)
	}
	return calldata, nil
}
