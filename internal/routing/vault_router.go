package routing

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Hub-chain settlement tokens: vault deposits land in the stable token,
// restaking deposits in the wrapped native asset.
const (
	hubStableToken  = "USDC"
	hubWrappedToken = "WETH"
)

const vaultCallGasLimit = "300000"

// ERC-4626 deposit and restaking-router deposit calldata shapes
const vaultDepositABIJSON = `[
	{"inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"}],"name":"deposit","outputs":[{"name":"shares","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}
]`

const restakingDepositABIJSON = `[
	{"inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"deposit","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	vaultDepositABI     abi.ABI
	restakingDepositABI abi.ABI
)

func init() {
	vaultDepositABI = mustABI(vaultDepositABIJSON)
	restakingDepositABI = mustABI(restakingDepositABIJSON)
}

// VaultRouteResult is a vault router outcome: a route with its raw quote,
// or an error string. Provider failures land here, never as panics or
// thrown errors.
type VaultRouteResult struct {
	Route *RouteOption `json:"route,omitempty"`
	Quote *lifi.Quote  `json:"quote,omitempty"`
	Err   string       `json:"error,omitempty"`
}

// attempt is one step of a fallback chain. ok=false means "try the next
// one"; a returned result ends the chain.
type attempt func(ctx context.Context) (*VaultRouteResult, bool)

// VaultRouter builds the atomic bridge-then-deposit routes for the yield,
// restaking, and multi-vault paths, falling back to progressively simpler
// shapes when the atomic path is unavailable.
type VaultRouter struct {
	bridge          *BridgeRouter
	registry        *registry.Registry
	restakingRouter common.Address // zero means undeployed
}

// NewVaultRouter creates a vault router. A zero restakingRouter address
// disables the atomic restaking path.
func NewVaultRouter(bridge *BridgeRouter, reg *registry.Registry, restakingRouter common.Address) *VaultRouter {
	return &VaultRouter{bridge: bridge, registry: reg, restakingRouter: restakingRouter}
}

// runAttempts evaluates the chain in order until one step produces a result
func runAttempts(ctx context.Context, attempts []attempt) *VaultRouteResult {
	for _, a := range attempts {
		if result, ok := a(ctx); ok {
			return result
		}
	}
	return &VaultRouteResult{Err: ErrNoRouteFound.Error()}
}

// FindYieldRoute builds a bridge-then-deposit into the receiver's
// configured vault, settling in the hub chain's stable token. When the
// atomic quote fails it degrades to a plain transfer to the recipient.
func (v *VaultRouter) FindYieldRoute(ctx context.Context, intent *ParsedIntent, payer string) (*VaultRouteResult, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	if intent.ToAddress == "" {
		return nil, errors.New("recipient address is required")
	}
	if intent.VaultAddress == "" {
		return nil, errors.New("the receiver has no configured vault")
	}
	if !common.IsHexAddress(intent.VaultAddress) {
		return nil, fmt.Errorf("invalid vault address %q", intent.VaultAddress)
	}

	vault := common.HexToAddress(intent.VaultAddress)
	recipient := common.HexToAddress(intent.ToAddress)

	return runAttempts(ctx, []attempt{
		func(ctx context.Context) (*VaultRouteResult, bool) {
			return v.atomicDeposit(ctx, intent, payer, hubStableToken, vault, recipient)
		},
		func(ctx context.Context) (*VaultRouteResult, bool) {
			return v.plainTransferFallback(ctx, intent, payer, hubStableToken, "vault deposit")
		},
	}), nil
}

// FindRestakingRoute builds a bridge-then-deposit through the fixed
// restaking router, settling in the hub chain's wrapped native asset. An
// undeployed router or a failed atomic quote degrades to a plain bridge.
func (v *VaultRouter) FindRestakingRoute(ctx context.Context, intent *ParsedIntent, payer string) (*VaultRouteResult, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	if intent.ToAddress == "" {
		return nil, errors.New("recipient address is required")
	}
	recipient := common.HexToAddress(intent.ToAddress)

	return runAttempts(ctx, []attempt{
		func(ctx context.Context) (*VaultRouteResult, bool) {
			if v.restakingRouter == (common.Address{}) {
				logger.Debug("restaking router undeployed, skipping atomic path")
				return nil, false
			}
			return v.atomicRestake(ctx, intent, payer, recipient)
		},
		func(ctx context.Context) (*VaultRouteResult, bool) {
			return v.plainTransferFallback(ctx, intent, payer, hubWrappedToken, "restaking deposit")
		},
	}), nil
}

// FindMultiVaultRoute splits one inbound amount across several vaults per
// the caller's percentage allocations, as a single atomic contract-calls
// quote. A failed split degrades to a full deposit into the first vault.
func (v *VaultRouter) FindMultiVaultRoute(ctx context.Context, intent *ParsedIntent, payer string) (*VaultRouteResult, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	if intent.ToAddress == "" {
		return nil, errors.New("recipient address is required")
	}
	if len(intent.Allocations) == 0 {
		return nil, errors.New("at least one vault allocation is required")
	}

	sum := 0
	for _, alloc := range intent.Allocations {
		if alloc.Percentage <= 0 {
			return nil, &InvalidAllocationError{Sum: sum}
		}
		if !common.IsHexAddress(alloc.VaultAddress) {
			return nil, fmt.Errorf("invalid vault address %q", alloc.VaultAddress)
		}
		sum += alloc.Percentage
	}
	if sum != 100 {
		return nil, &InvalidAllocationError{Sum: sum}
	}

	recipient := common.HexToAddress(intent.ToAddress)

	return runAttempts(ctx, []attempt{
		func(ctx context.Context) (*VaultRouteResult, bool) {
			return v.atomicSplit(ctx, intent, payer, recipient)
		},
		func(ctx context.Context) (*VaultRouteResult, bool) {
			// Single-strategy fallback: everything into the first vault
			first := common.HexToAddress(intent.Allocations[0].VaultAddress)
			logger.Warn("multi-vault split failed, falling back to single vault",
				zap.String("vault", first.Hex()))
			return v.atomicDeposit(ctx, intent, payer, hubStableToken, first, recipient)
		},
		func(ctx context.Context) (*VaultRouteResult, bool) {
			return v.plainTransferFallback(ctx, intent, payer, hubStableToken, "multi-vault deposit")
		},
	}), nil
}

// destAmount converts the intent amount into hub-chain destination token
// base units. Contract calls consume the destination token, so their
// amounts are denominated against its decimals.
func (v *VaultRouter) destAmount(intent *ParsedIntent, destToken string) (*big.Int, common.Address, error) {
	addr, ok := v.registry.ResolveTokenAddress(destToken, registry.HubChain)
	if !ok {
		return nil, common.Address{}, &UnsupportedTokenError{Symbol: destToken, Chain: registry.SlugFromChainID(registry.HubChain)}
	}
	amount, err := toBaseUnits(intent.Amount, v.registry.ResolveDecimals(destToken))
	if err != nil {
		return nil, common.Address{}, err
	}
	return amount, addr, nil
}

func (v *VaultRouter) sourceLeg(intent *ParsedIntent, payer string) (uint64, string, string, error) {
	fromChain, ok := registry.ChainIDFromSlug(intent.FromChain)
	if !ok {
		return 0, "", "", fmt.Errorf("unknown source chain %q", intent.FromChain)
	}
	fromAddr, ok := v.registry.ResolveTokenAddress(intent.FromToken, fromChain)
	if !ok {
		return 0, "", "", &UnsupportedTokenError{Symbol: intent.FromToken, Chain: intent.FromChain}
	}
	fromAmount, err := toBaseUnits(intent.Amount, v.registry.ResolveDecimals(intent.FromToken))
	if err != nil {
		return 0, "", "", err
	}
	return uint64(fromChain), fromAddr.Hex(), fromAmount.String(), nil
}

// atomicDeposit builds a contract-calls quote whose destination call is an
// ERC-4626 deposit(assets, receiver) into vault
func (v *VaultRouter) atomicDeposit(ctx context.Context, intent *ParsedIntent, payer, destToken string, vault, recipient common.Address) (*VaultRouteResult, bool) {
	destAmount, destAddr, err := v.destAmount(intent, destToken)
	if err != nil {
		return nil, false
	}
	fromChain, fromToken, fromAmount, err := v.sourceLeg(intent, payer)
	if err != nil {
		return nil, false
	}

	calldata, err := vaultDepositABI.Pack("deposit", destAmount, recipient)
	if err != nil {
		return nil, false
	}

	req := &lifi.ContractCallsQuoteRequest{
		FromChain:   fromChain,
		ToChain:     uint64(registry.HubChain),
		FromToken:   fromToken,
		ToToken:     destAddr.Hex(),
		FromAmount:  fromAmount,
		FromAddress: payer,
		ToAddress:   recipient.Hex(),
		ContractCalls: []lifi.ContractCall{{
			FromAmount:         destAmount.String(),
			FromTokenAddress:   destAddr.Hex(),
			ToContractAddress:  vault.Hex(),
			ToContractCallData: hexutil.Encode(calldata),
			ToContractGasLimit: vaultCallGasLimit,
		}},
	}

	quote, err := v.bridge.contractCallsQuote(ctx, req)
	if err != nil {
		logger.Warn("atomic vault deposit quote failed",
			zap.String("vault", vault.Hex()), zap.Error(err))
		return nil, false
	}

	route := v.bridge.optionFromQuote(quote, RouteTypeContractCall)
	route.PathDescription = fmt.Sprintf("%s → vault %s on %s", route.PathDescription, vault.Hex(), registry.SlugFromChainID(registry.HubChain))
	return &VaultRouteResult{Route: &route, Quote: quote}, true
}

// atomicRestake builds the contract-calls quote invoking the restaking
// router's deposit(recipient, amount)
func (v *VaultRouter) atomicRestake(ctx context.Context, intent *ParsedIntent, payer string, recipient common.Address) (*VaultRouteResult, bool) {
	destAmount, destAddr, err := v.destAmount(intent, hubWrappedToken)
	if err != nil {
		return nil, false
	}
	fromChain, fromToken, fromAmount, err := v.sourceLeg(intent, payer)
	if err != nil {
		return nil, false
	}

	calldata, err := restakingDepositABI.Pack("deposit", recipient, destAmount)
	if err != nil {
		return nil, false
	}

	req := &lifi.ContractCallsQuoteRequest{
		FromChain:   fromChain,
		ToChain:     uint64(registry.HubChain),
		FromToken:   fromToken,
		ToToken:     destAddr.Hex(),
		FromAmount:  fromAmount,
		FromAddress: payer,
		ToAddress:   recipient.Hex(),
		ContractCalls: []lifi.ContractCall{{
			FromAmount:         destAmount.String(),
			FromTokenAddress:   destAddr.Hex(),
			ToContractAddress:  v.restakingRouter.Hex(),
			ToContractCallData: hexutil.Encode(calldata),
			ToContractGasLimit: vaultCallGasLimit,
		}},
	}

	quote, err := v.bridge.contractCallsQuote(ctx, req)
	if err != nil {
		logger.Warn("atomic restaking quote failed", zap.Error(err))
		return nil, false
	}

	route := v.bridge.optionFromQuote(quote, RouteTypeContractCall)
	route.PathDescription = fmt.Sprintf("%s → restaking on %s", route.PathDescription, registry.SlugFromChainID(registry.HubChain))
	return &VaultRouteResult{Route: &route, Quote: quote}, true
}

// atomicSplit builds one contract-calls quote carrying a deposit call per
// allocation. Integer division remainders accrue to the last leg so the
// legs always sum to the full amount.
func (v *VaultRouter) atomicSplit(ctx context.Context, intent *ParsedIntent, payer string, recipient common.Address) (*VaultRouteResult, bool) {
	destAmount, destAddr, err := v.destAmount(intent, hubStableToken)
	if err != nil {
		return nil, false
	}
	fromChain, fromToken, fromAmount, err := v.sourceLeg(intent, payer)
	if err != nil {
		return nil, false
	}

	calls := make([]lifi.ContractCall, 0, len(intent.Allocations))
	allocated := new(big.Int)
	for i, alloc := range intent.Allocations {
		legAmount := new(big.Int).Mul(destAmount, big.NewInt(int64(alloc.Percentage)))
		legAmount.Div(legAmount, big.NewInt(100))
		if i == len(intent.Allocations)-1 {
			legAmount = new(big.Int).Sub(destAmount, allocated)
		}
		allocated.Add(allocated, legAmount)

		calldata, err := vaultDepositABI.Pack("deposit", legAmount, recipient)
		if err != nil {
			return nil, false
		}
		calls = append(calls, lifi.ContractCall{
			FromAmount:         legAmount.String(),
			FromTokenAddress:   destAddr.Hex(),
			ToContractAddress:  common.HexToAddress(alloc.VaultAddress).Hex(),
			ToContractCallData: hexutil.Encode(calldata),
			ToContractGasLimit: vaultCallGasLimit,
		})
	}

	req := &lifi.ContractCallsQuoteRequest{
		FromChain:     fromChain,
		ToChain:       uint64(registry.HubChain),
		FromToken:     fromToken,
		ToToken:       destAddr.Hex(),
		FromAmount:    fromAmount,
		FromAddress:   payer,
		ToAddress:     recipient.Hex(),
		ContractCalls: calls,
	}

	quote, err := v.bridge.contractCallsQuote(ctx, req)
	if err != nil {
		logger.Warn("multi-vault split quote failed", zap.Error(err))
		return nil, false
	}

	route := v.bridge.optionFromQuote(quote, RouteTypeContractCall)
	route.PathDescription = fmt.Sprintf("%s → %d-way vault split on %s", route.PathDescription, len(intent.Allocations), registry.SlugFromChainID(registry.HubChain))
	return &VaultRouteResult{Route: &route, Quote: quote}, true
}

// plainTransferFallback degrades to a standard bridge quote to the
// recipient. The downgrade is deliberate and surfaced in the description:
// funds arrive, the deposit becomes the receiver's manual step.
func (v *VaultRouter) plainTransferFallback(ctx context.Context, intent *ParsedIntent, payer, destToken, droppedStep string) (*VaultRouteResult, bool) {
	logger.Warn("atomic path unavailable, degrading to plain transfer",
		zap.String("droppedStep", droppedStep),
		zap.String("recipient", intent.ToAddress))

	fallback := *intent
	fallback.ToToken = destToken
	fallback.ToChain = registry.SlugFromChainID(registry.HubChain)

	req, err := v.bridge.standardRequest(&fallback, payer)
	if err != nil {
		return nil, false
	}
	quote, err := v.bridge.standardQuote(ctx, req)
	if err != nil {
		return &VaultRouteResult{Err: err.Error()}, true
	}

	route := v.bridge.optionFromQuote(quote, RouteTypeStandard)
	route.PathDescription = fmt.Sprintf("%s (fallback: plain transfer, %s skipped)", route.PathDescription, droppedStep)
	return &VaultRouteResult{Route: &route, Quote: quote}, true
}
