package routing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// directRouteID identifies the zero-fee same-token same-chain candidate
const directRouteID = "direct-transfer"

// Engine orchestrates the routers: it discovers candidates, applies the
// ordering and fee-cap policy, attaches economics, and later turns a chosen
// candidate back into signable transaction data.
type Engine struct {
	registry *registry.Registry
	bridge   *BridgeRouter
	hook     *HookRouter
	vault    *VaultRouter
	ledger   *Ledger
	policy   EconomicsPolicy
}

// NewEngine wires the routers into one quoting engine
func NewEngine(reg *registry.Registry, bridge *BridgeRouter, hook *HookRouter, vault *VaultRouter, ledger *Ledger, policy EconomicsPolicy) *Engine {
	return &Engine{
		registry: reg,
		bridge:   bridge,
		hook:     hook,
		vault:    vault,
		ledger:   ledger,
		policy:   policy,
	}
}

// NormalizeIntent fills chain defaults and redirects the destination chain
// when the requested one lacks the token. The redirect is logged and shows
// up in route descriptions via the redirected chain name.
func (e *Engine) NormalizeIntent(intent *ParsedIntent) *ParsedIntent {
	out := *intent
	if out.ToChain == "" {
		out.ToChain = out.FromChain
	}

	toToken := out.ToToken
	if toToken == "" {
		toToken = out.FromToken
	}
	if toChain, ok := registry.ChainIDFromSlug(out.ToChain); ok {
		if _, ok := e.registry.ResolveTokenAddress(toToken, toChain); !ok {
			if preferred, ok := e.registry.ResolvePreferredChainForToken(toToken); ok {
				logger.Warn("destination chain lacks token, redirecting",
					zap.String("token", toToken),
					zap.String("requested", out.ToChain),
					zap.String("redirected", registry.SlugFromChainID(preferred)))
				out.ToChain = registry.SlugFromChainID(preferred)
			}
		}
	}
	return &out
}

// GetQuote runs the selection policy and returns ordered candidates with
// the receiver's economics attached.
func (e *Engine) GetQuote(ctx context.Context, intent *ParsedIntent, payer string) (*QuoteResult, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	intent = e.NormalizeIntent(intent)

	routes, err := e.selectRoutes(ctx, intent, payer)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		Routes:    routes,
		Economics: e.economics(ctx, intent),
	}, nil
}

func (e *Engine) selectRoutes(ctx context.Context, intent *ParsedIntent, payer string) ([]RouteOption, error) {
	// Vault actions with a configured target are atomic and strictly
	// preferred: on success they short-circuit the rest of the policy.
	if route, handled, err := e.tryVaultRoute(ctx, intent, payer); err != nil {
		return nil, err
	} else if handled {
		return []RouteOption{*route}, nil
	}

	if e.isDirectTransfer(intent) {
		return []RouteOption{directOption(intent)}, nil
	}

	candidates := e.fanOut(ctx, intent, payer)
	candidates = e.applyFeeCap(intent, candidates)
	if len(candidates) == 0 {
		return nil, ErrNoRouteFound
	}
	return candidates, nil
}

// tryVaultRoute runs the specialized router matching the intent's vault
// shape. handled=false means the policy falls through to the generic paths.
func (e *Engine) tryVaultRoute(ctx context.Context, intent *ParsedIntent, payer string) (*RouteOption, bool, error) {
	if !intent.Action.IsVaultAction() {
		return nil, false, nil
	}

	switch {
	case len(intent.Allocations) > 0:
		result, err := e.vault.FindMultiVaultRoute(ctx, intent, payer)
		if err != nil {
			return nil, false, err
		}
		if result.Route != nil {
			return result.Route, true, nil
		}
		logger.Warn("multi-vault route unavailable, falling through", zap.String("error", result.Err))

	case intent.Action == ActionRestaking:
		result, err := e.vault.FindRestakingRoute(ctx, intent, payer)
		if err != nil {
			return nil, false, err
		}
		if result.Route != nil {
			return result.Route, true, nil
		}
		logger.Warn("restaking route unavailable, falling through", zap.String("error", result.Err))

	case intent.VaultAddress != "":
		result, err := e.vault.FindYieldRoute(ctx, intent, payer)
		if err != nil {
			return nil, false, err
		}
		if result.Route != nil {
			return result.Route, true, nil
		}
		logger.Warn("yield route unavailable, falling through", zap.String("error", result.Err))

	case intent.VaultProtocol != "":
		routes, err := e.bridge.FindComposerRoutes(ctx, intent, payer)
		if err != nil {
			return nil, false, err
		}
		if len(routes) > 0 && !routes[0].IsError() {
			return &routes[0], true, nil
		}
	}

	return nil, false, nil
}

// isDirectTransfer reports whether source and destination token/chain are
// exactly equal, which needs no external call at all
func (e *Engine) isDirectTransfer(intent *ParsedIntent) bool {
	if intent.Action.IsVaultAction() {
		return false
	}
	sameToken := intent.ToToken == "" || strings.EqualFold(intent.FromToken, intent.ToToken)
	sameChain := intent.ToChain == "" || strings.EqualFold(intent.FromChain, intent.ToChain)
	return sameToken && sameChain
}

func directOption(intent *ParsedIntent) RouteOption {
	return RouteOption{
		ID:              directRouteID,
		PathDescription: fmt.Sprintf("direct %s transfer on %s", intent.FromToken, intent.FromChain),
		FeeEstimate:     "$0.00",
		TimeEstimate:    "~5s",
		Provider:        "direct",
		RouteType:       RouteTypeStandard,
	}
}

// fanOut queries the hook and bridge routers concurrently and merges their
// candidates in policy order: hook first for same-chain stable pairs where
// the hook is deployed, bridge first otherwise. Synthetic error routes are
// kept only when no real candidate exists.
func (e *Engine) fanOut(ctx context.Context, intent *ParsedIntent, payer string) []RouteOption {
	var (
		wg           sync.WaitGroup
		hookRoutes   []RouteOption
		bridgeRoutes []RouteOption
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		routes, err := e.hook.FindHookRoutes(ctx, intent, nil)
		if err != nil {
			logger.Warn("hook discovery failed", zap.Error(err))
			return
		}
		hookRoutes = routes
	}()
	go func() {
		defer wg.Done()
		routes, err := e.bridge.FindStandardRoutes(ctx, intent, payer)
		if err != nil {
			logger.Warn("bridge discovery failed", zap.Error(err))
			return
		}
		bridgeRoutes = routes
	}()
	wg.Wait()

	var real, failed []RouteOption
	ordered := append(append([]RouteOption{}, bridgeRoutes...), hookRoutes...)
	if e.hookPreferred(intent) {
		ordered = append(append([]RouteOption{}, hookRoutes...), bridgeRoutes...)
	}
	for _, r := range ordered {
		if r.IsError() {
			failed = append(failed, r)
		} else {
			real = append(real, r)
		}
	}
	if len(real) > 0 {
		return real
	}
	return failed
}

// hookPreferred places hook candidates first for same-chain stable pairs
// on a hook-deployed chain
func (e *Engine) hookPreferred(intent *ParsedIntent) bool {
	if !strings.EqualFold(intent.FromChain, intent.ToChain) && intent.ToChain != "" {
		return false
	}
	chainID, ok := registry.ChainIDFromSlug(intent.FromChain)
	if !ok {
		return false
	}
	cfg, ok := e.registry.HookChain(chainID)
	if !ok || cfg.HookAddress == (common.Address{}) {
		return false
	}
	catFrom, okFrom := e.registry.TokenCategory(intent.FromToken)
	catTo, okTo := e.registry.TokenCategory(intent.ToToken)
	return okFrom && okTo && catFrom == registry.CategoryStable && catTo == registry.CategoryStable
}

// applyFeeCap filters candidates over the receiver's max fee, but never
// down to zero: no options at all is worse than an expensive option.
func (e *Engine) applyFeeCap(intent *ParsedIntent, candidates []RouteOption) []RouteOption {
	if intent.MaxFeeUSD == nil || len(candidates) == 0 {
		return candidates
	}

	kept := make([]RouteOption, 0, len(candidates))
	for _, c := range candidates {
		fee, ok := parseUSD(c.FeeEstimate)
		if ok && fee.GreaterThan(*intent.MaxFeeUSD) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		logger.Warn("fee cap would remove every candidate, ignoring it",
			zap.String("maxFee", intent.MaxFeeUSD.String()))
		return candidates
	}
	return kept
}

// economics computes display-only fee data for the receiver. Amounts are
// taken at face value for stable source tokens; other tokens would need a
// price feed, so their USD volume contribution reads as zero.
func (e *Engine) economics(ctx context.Context, intent *ParsedIntent) Economics {
	amountUSD := decimal.Zero
	if cat, ok := e.registry.TokenCategory(intent.FromToken); ok && cat == registry.CategoryStable {
		if d, err := decimal.NewFromString(intent.Amount); err == nil {
			amountUSD = d
		}
	}
	return ComputeEconomics(ctx, e.policy, e.ledger, strings.ToLower(intent.ToAddress), amountUSD)
}

// BuildTransaction re-derives the request that produced routeID (identical
// cache key) and extracts signable transaction data. A hook route with
// pending approvals yields the approval step instead of the swap.
func (e *Engine) BuildTransaction(ctx context.Context, routeID string, intent *ParsedIntent, payer string) (*TransactionData, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	intent = e.NormalizeIntent(intent)

	switch {
	case routeID == directRouteID:
		return e.buildDirectTransfer(intent)

	case strings.HasPrefix(routeID, "hook-"):
		if !common.IsHexAddress(payer) {
			return nil, fmt.Errorf("invalid payer address %q", payer)
		}
		return e.hook.BuildTransaction(ctx, intent, common.HexToAddress(payer))

	default:
		return e.buildBridgeTransaction(ctx, routeID, intent, payer)
	}
}

func (e *Engine) buildDirectTransfer(intent *ParsedIntent) (*TransactionData, error) {
	chainID, ok := registry.ChainIDFromSlug(intent.FromChain)
	if !ok {
		return nil, fmt.Errorf("unknown source chain %q", intent.FromChain)
	}
	tokenAddr, ok := e.registry.ResolveTokenAddress(intent.FromToken, chainID)
	if !ok {
		return nil, &UnsupportedTokenError{Symbol: intent.FromToken, Chain: intent.FromChain}
	}
	if !common.IsHexAddress(intent.ToAddress) {
		return nil, fmt.Errorf("invalid recipient address %q", intent.ToAddress)
	}
	amount, err := toBaseUnits(intent.Amount, e.registry.ResolveDecimals(intent.FromToken))
	if err != nil {
		return nil, err
	}

	data, err := EncodeTransfer(common.HexToAddress(intent.ToAddress), amount)
	if err != nil {
		return nil, err
	}

	return &TransactionData{
		To:        tokenAddr.Hex(),
		Data:      hexutil.Encode(data),
		Value:     "0",
		ChainID:   uint64(chainID),
		RouteType: RouteTypeStandard,
		Provider:  "direct",
	}, nil
}

// buildBridgeTransaction re-runs the flow that produced the candidate; the
// quote cache makes this a lookup rather than a second provider call.
func (e *Engine) buildBridgeTransaction(ctx context.Context, routeID string, intent *ParsedIntent, payer string) (*TransactionData, error) {
	if intent.Action.IsVaultAction() {
		result, err := e.vaultResult(ctx, intent, payer)
		if err != nil {
			return nil, err
		}
		if result != nil && result.Route != nil && result.Quote != nil && result.Route.ID == routeID {
			return txFromQuote(result.Quote, result.Route.RouteType, e.bridge.quoter.Name()), nil
		}
		if intent.VaultProtocol != "" {
			return e.rederiveComposer(ctx, routeID, intent, payer)
		}
		return nil, ErrUnknownRoute
	}

	req, err := e.bridge.standardRequest(intent, payer)
	if err != nil {
		return nil, err
	}
	quote, err := e.bridge.standardQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	option := e.bridge.optionFromQuote(quote, RouteTypeStandard)
	if option.ID != routeID {
		return nil, ErrUnknownRoute
	}
	return txFromQuote(quote, RouteTypeStandard, e.bridge.quoter.Name()), nil
}

func (e *Engine) vaultResult(ctx context.Context, intent *ParsedIntent, payer string) (*VaultRouteResult, error) {
	switch {
	case len(intent.Allocations) > 0:
		return e.vault.FindMultiVaultRoute(ctx, intent, payer)
	case intent.Action == ActionRestaking:
		return e.vault.FindRestakingRoute(ctx, intent, payer)
	case intent.VaultAddress != "":
		return e.vault.FindYieldRoute(ctx, intent, payer)
	}
	return nil, nil
}

func (e *Engine) rederiveComposer(ctx context.Context, routeID string, intent *ParsedIntent, payer string) (*TransactionData, error) {
	req, err := e.bridge.composerRequest(intent, payer)
	if err != nil {
		return nil, err
	}
	quote, err := e.bridge.standardQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	option := e.bridge.optionFromQuote(quote, RouteTypeComposer)
	if option.ID != routeID {
		return nil, ErrUnknownRoute
	}
	return txFromQuote(quote, RouteTypeComposer, e.bridge.quoter.Name()), nil
}

// txFromQuote extracts the signable payload from an aggregator quote
func txFromQuote(quote *lifi.Quote, routeType RouteType, provider string) *TransactionData {
	return &TransactionData{
		To:        quote.TransactionRequest.To,
		Data:      quote.TransactionRequest.Data,
		Value:     quote.TransactionRequest.Value,
		ChainID:   quote.TransactionRequest.ChainID,
		GasLimit:  quote.TransactionRequest.GasLimit,
		RouteType: routeType,
		Provider:  provider,
	}
}
