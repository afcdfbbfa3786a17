package routing

import (
	"context"
	"fmt"
	"math/big"

	"github.com/namepay/namepay-api/internal/client/chain"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// hookLiquidityFloor is the minimum pool liquidity, in base units, below
// which the hook path is considered inapplicable
var hookLiquidityFloor = big.NewInt(1000)

// HookProvider is the provider label on hook route options
const HookProvider = "hook"

// approvalProvider labels an intermediate approval TransactionData
const approvalProvider = "approval"

// HookRouter quotes same-chain swaps through the dynamic-fee hook and runs
// the approval state machine before emitting the terminal swap.
type HookRouter struct {
	registry *registry.Registry
	reader   chain.Reader
	clock    store.Clock
}

// NewHookRouter creates a hook router over live chain reads
func NewHookRouter(reg *registry.Registry, reader chain.Reader, clock store.Clock) *HookRouter {
	if clock == nil {
		clock = store.SystemClock{}
	}
	return &HookRouter{registry: reg, reader: reader, clock: clock}
}

// hookPlan is everything needed to later build the terminal swap for a
// hook route candidate
type hookPlan struct {
	ChainID      registry.ChainID
	Config       registry.HookChainConfig
	Key          PoolKey
	PoolID       common.Hash
	TokenIn      common.Address
	TokenOut     common.Address
	AmountIn     *big.Int
	MinAmountOut *big.Int
	Class        PairClass
}

// FindHookRoutes returns the hook candidate for a same-chain swap, or an
// empty list when the path is inapplicable: different chains, hook not
// deployed, unresolvable tokens, or liquidity under the floor. None of
// those are errors.
func (h *HookRouter) FindHookRoutes(ctx context.Context, intent *ParsedIntent, availableLiquidity *big.Int) ([]RouteOption, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}

	plan, ok, err := h.plan(intent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if availableLiquidity != nil && availableLiquidity.Cmp(hookLiquidityFloor) < 0 {
		logger.Debug("hook pool below liquidity floor",
			zap.String("pool", plan.PoolID.Hex()),
			zap.String("liquidity", availableLiquidity.String()))
		return nil, nil
	}

	return []RouteOption{h.optionFor(intent, plan)}, nil
}

// plan resolves the intent against the registry; ok=false means the hook
// path simply does not apply
func (h *HookRouter) plan(intent *ParsedIntent) (*hookPlan, bool, error) {
	fromChain, ok := registry.ChainIDFromSlug(intent.FromChain)
	if !ok {
		return nil, false, nil
	}
	if intent.ToChain != "" {
		toChain, ok := registry.ChainIDFromSlug(intent.ToChain)
		if !ok || toChain != fromChain {
			return nil, false, nil
		}
	}

	cfg, ok := h.registry.HookChain(fromChain)
	if !ok || cfg.HookAddress == (common.Address{}) {
		return nil, false, nil
	}

	tokenIn, ok := h.registry.ResolveTokenAddress(intent.FromToken, fromChain)
	if !ok || tokenIn == (common.Address{}) {
		return nil, false, nil
	}
	tokenOut, ok := h.registry.ResolveTokenAddress(intent.ToToken, fromChain)
	if !ok || tokenOut == (common.Address{}) {
		return nil, false, nil
	}

	catIn, okIn := h.registry.TokenCategory(intent.FromToken)
	catOut, okOut := h.registry.TokenCategory(intent.ToToken)
	if !okIn || !okOut {
		return nil, false, nil
	}
	class := ClassifyPair(catIn, catOut)

	amountIn, err := toBaseUnits(intent.Amount, h.registry.ResolveDecimals(intent.FromToken))
	if err != nil {
		return nil, false, err
	}

	key := NewPoolKey(tokenIn, tokenOut, class.TickSpacing, cfg.HookAddress)
	poolID, err := ComputePoolID(key)
	if err != nil {
		return nil, false, err
	}

	return &hookPlan{
		ChainID:      fromChain,
		Config:       cfg,
		Key:          key,
		PoolID:       poolID,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		MinAmountOut: MinAmountOut(amountIn, class.SlippagePerMille),
		Class:        class,
	}, true, nil
}

// optionFor renders the plan as a route option. Stable pairs get a dollar
// fee estimate (amount approximates USD); other pairs get a percentage.
func (h *HookRouter) optionFor(intent *ParsedIntent, plan *hookPlan) RouteOption {
	feeEstimate := fmt.Sprintf("%.2f%%", float64(plan.Class.FeeTier)/10000)
	if catIn, _ := h.registry.TokenCategory(intent.FromToken); catIn == registry.CategoryStable {
		if catOut, _ := h.registry.TokenCategory(intent.ToToken); catOut == registry.CategoryStable {
			if amount, err := decimal.NewFromString(intent.Amount); err == nil {
				fee := amount.Mul(decimal.New(plan.Class.FeeTier, -6))
				feeEstimate = formatUSD(fee)
			}
		}
	}

	return RouteOption{
		ID:              "hook-" + plan.PoolID.Hex()[2:10],
		PathDescription: fmt.Sprintf("%s → %s via dynamic-fee hook on %s", intent.FromToken, intent.ToToken, registry.SlugFromChainID(plan.ChainID)),
		FeeEstimate:     feeEstimate,
		TimeEstimate:    "~5s",
		Provider:        HookProvider,
		RouteType:       RouteTypeStandard,
	}
}

// ApprovalStatus runs the 3-state machine against live allowance reads.
// Ready requires both the ERC-20 allowance to the gateway and the gateway's
// recorded allowance to the router to cover the amount, with the latter
// unexpired.
func (h *HookRouter) ApprovalStatus(ctx context.Context, chainID registry.ChainID, cfg registry.HookChainConfig, payer, token common.Address, amount *big.Int) (ApprovalState, error) {
	allowance, err := h.reader.Allowance(ctx, chainID, token, payer, cfg.ApprovalGateway)
	if err != nil {
		return "", fmt.Errorf("failed to read token allowance: %w", err)
	}
	if allowance.Cmp(amount) < 0 {
		return NeedsTokenApproval, nil
	}

	gw, err := h.reader.GatewayAllowance(ctx, chainID, cfg.ApprovalGateway, payer, token, cfg.RouterAddress)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway allowance: %w", err)
	}
	expired := gw.Expiration != 0 && int64(gw.Expiration) <= h.clock.Now().Unix()
	if gw.Amount.Cmp(amount) < 0 || expired {
		return NeedsGatewayApproval, nil
	}

	return ApprovalReady, nil
}

// BuildTransaction walks the approval machine and returns either the
// pending approval step or the terminal swap. Callers resubmit after an
// approval confirms.
func (h *HookRouter) BuildTransaction(ctx context.Context, intent *ParsedIntent, payer common.Address) (*TransactionData, error) {
	plan, ok, err := h.plan(intent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoRouteFound
	}

	state, err := h.ApprovalStatus(ctx, plan.ChainID, plan.Config, payer, plan.TokenIn, plan.AmountIn)
	if err != nil {
		return nil, err
	}

	switch state {
	case NeedsTokenApproval:
		data, err := EncodeTokenApproval(plan.Config.ApprovalGateway)
		if err != nil {
			return nil, err
		}
		return &TransactionData{
			To:        plan.TokenIn.Hex(),
			Data:      hexutil.Encode(data),
			Value:     "0",
			ChainID:   uint64(plan.ChainID),
			RouteType: RouteTypeStandard,
			Provider:  approvalProvider,
		}, nil

	case NeedsGatewayApproval:
		data, err := EncodeGatewayApproval(plan.TokenIn, plan.Config.RouterAddress)
		if err != nil {
			return nil, err
		}
		return &TransactionData{
			To:        plan.Config.ApprovalGateway.Hex(),
			Data:      hexutil.Encode(data),
			Value:     "0",
			ChainID:   uint64(plan.ChainID),
			RouteType: RouteTypeStandard,
			Provider:  approvalProvider,
		}, nil
	}

	deadline := big.NewInt(h.clock.Now().Unix() + swapDeadlineSeconds)
	data, err := EncodeSwapCalldata(plan.Key, plan.TokenIn, plan.TokenOut, plan.AmountIn, plan.MinAmountOut, deadline)
	if err != nil {
		return nil, err
	}

	return &TransactionData{
		To:        plan.Config.RouterAddress.Hex(),
		Data:      hexutil.Encode(data),
		Value:     "0",
		ChainID:   uint64(plan.ChainID),
		RouteType: RouteTypeStandard,
		Provider:  HookProvider,
	}, nil
}
