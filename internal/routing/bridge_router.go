package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// errorRouteID marks a synthetic route option carrying a provider failure
const errorRouteID = "error"

// Quoter is the aggregator surface the bridge router depends on
type Quoter interface {
	Name() string
	GetQuote(ctx context.Context, req *lifi.QuoteRequest) (*lifi.Quote, error)
	GetContractCallsQuote(ctx context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error)
}

// BridgeRouter quotes cross-chain and cross-token transfers through the
// external aggregator. Provider failures never escape: they become a single
// synthetic error route so the selector treats "no viable route" uniformly.
type BridgeRouter struct {
	quoter   Quoter
	cache    store.Store
	registry *registry.Registry
	cacheTTL time.Duration
	timeout  time.Duration
}

// NewBridgeRouter creates a bridge router with the given quote cache
func NewBridgeRouter(quoter Quoter, cache store.Store, reg *registry.Registry, cacheTTL, timeout time.Duration) *BridgeRouter {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &BridgeRouter{
		quoter:   quoter,
		cache:    cache,
		registry: reg,
		cacheTTL: cacheTTL,
		timeout:  timeout,
	}
}

// resolveChains maps the intent's chain slugs, defaulting the destination
// to the source chain when unspecified
func (b *BridgeRouter) resolveChains(intent *ParsedIntent) (registry.ChainID, registry.ChainID, error) {
	fromChain, ok := registry.ChainIDFromSlug(intent.FromChain)
	if !ok {
		return 0, 0, fmt.Errorf("unknown source chain %q", intent.FromChain)
	}
	toChain := fromChain
	if intent.ToChain != "" {
		toChain, ok = registry.ChainIDFromSlug(intent.ToChain)
		if !ok {
			return 0, 0, fmt.Errorf("unknown destination chain %q", intent.ToChain)
		}
	}
	return fromChain, toChain, nil
}

// standardRequest resolves the intent into the aggregator request shape.
// Transaction construction rebuilds the identical request so the cache key
// matches the one that produced the quoted route.
func (b *BridgeRouter) standardRequest(intent *ParsedIntent, payer string) (*lifi.QuoteRequest, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	fromChain, toChain, err := b.resolveChains(intent)
	if err != nil {
		return nil, err
	}

	fromAddr, ok := b.registry.ResolveTokenAddress(intent.FromToken, fromChain)
	if !ok {
		return nil, &UnsupportedTokenError{Symbol: intent.FromToken, Chain: intent.FromChain}
	}
	toToken := intent.ToToken
	if toToken == "" {
		toToken = intent.FromToken
	}
	toAddr, ok := b.registry.ResolveTokenAddress(toToken, toChain)
	if !ok {
		return nil, &UnsupportedTokenError{Symbol: toToken, Chain: registry.SlugFromChainID(toChain)}
	}

	amount, err := toBaseUnits(intent.Amount, b.registry.ResolveDecimals(intent.FromToken))
	if err != nil {
		return nil, err
	}

	return &lifi.QuoteRequest{
		FromChain:   uint64(fromChain),
		ToChain:     uint64(toChain),
		FromToken:   fromAddr.Hex(),
		ToToken:     toAddr.Hex(),
		FromAmount:  amount.String(),
		FromAddress: payer,
		ToAddress:   intent.ToAddress,
	}, nil
}

// FindStandardRoutes quotes a plain transfer/swap/bridge. Validation
// failures return an error; provider failures return a synthetic error
// route.
func (b *BridgeRouter) FindStandardRoutes(ctx context.Context, intent *ParsedIntent, payer string) ([]RouteOption, error) {
	req, err := b.standardRequest(intent, payer)
	if err != nil {
		return nil, err
	}

	quote, err := b.standardQuote(ctx, req)
	if err != nil {
		return []RouteOption{b.errorRoute(err, RouteTypeStandard)}, nil
	}
	return []RouteOption{b.optionFromQuote(quote, RouteTypeStandard)}, nil
}

// composerRequest resolves the vault's share token as the destination token
func (b *BridgeRouter) composerRequest(intent *ParsedIntent, payer string) (*lifi.QuoteRequest, error) {
	if err := ValidateIntent(intent); err != nil {
		return nil, err
	}
	if intent.VaultProtocol == "" {
		return nil, errors.New("vaultProtocol is required for composer routes")
	}
	fromChain, toChain, err := b.resolveChains(intent)
	if err != nil {
		return nil, err
	}

	underlying := intent.ToToken
	if underlying == "" {
		underlying = intent.FromToken
	}
	vaultAddr, ok := b.registry.ResolveVaultAddress(intent.VaultProtocol, underlying, toChain)
	if !ok {
		return nil, &UnsupportedVaultError{
			Protocol:   intent.VaultProtocol,
			Underlying: underlying,
			Chain:      registry.SlugFromChainID(toChain),
		}
	}

	fromAddr, ok := b.registry.ResolveTokenAddress(intent.FromToken, fromChain)
	if !ok {
		return nil, &UnsupportedTokenError{Symbol: intent.FromToken, Chain: intent.FromChain}
	}
	amount, err := toBaseUnits(intent.Amount, b.registry.ResolveDecimals(intent.FromToken))
	if err != nil {
		return nil, err
	}

	return &lifi.QuoteRequest{
		FromChain:   uint64(fromChain),
		ToChain:     uint64(toChain),
		FromToken:   fromAddr.Hex(),
		ToToken:     vaultAddr.Hex(),
		FromAmount:  amount.String(),
		FromAddress: payer,
		ToAddress:   intent.ToAddress,
	}, nil
}

// FindComposerRoutes quotes a bridge whose destination token is the vault's
// share token; the aggregator backend detects it and plans the deposit.
func (b *BridgeRouter) FindComposerRoutes(ctx context.Context, intent *ParsedIntent, payer string) ([]RouteOption, error) {
	req, err := b.composerRequest(intent, payer)
	if err != nil {
		return nil, err
	}

	quote, err := b.standardQuote(ctx, req)
	if err != nil {
		return []RouteOption{b.errorRoute(err, RouteTypeComposer)}, nil
	}
	return []RouteOption{b.optionFromQuote(quote, RouteTypeComposer)}, nil
}

// FindContractCallRoutes quotes a bridge plus one or more destination-chain
// contract calls, executed atomically.
func (b *BridgeRouter) FindContractCallRoutes(ctx context.Context, req *lifi.ContractCallsQuoteRequest) ([]RouteOption, error) {
	if len(req.ContractCalls) == 0 {
		return nil, errors.New("at least one contract call is required")
	}

	quote, err := b.contractCallsQuote(ctx, req)
	if err != nil {
		return []RouteOption{b.errorRoute(err, RouteTypeContractCall)}, nil
	}
	return []RouteOption{b.optionFromQuote(quote, RouteTypeContractCall)}, nil
}

// StandardQuote returns the raw cached-or-fresh quote for transaction
// construction
func (b *BridgeRouter) StandardQuote(ctx context.Context, req *lifi.QuoteRequest) (*lifi.Quote, error) {
	return b.standardQuote(ctx, req)
}

// ContractCallsQuote returns the raw cached-or-fresh contract-calls quote
func (b *BridgeRouter) ContractCallsQuote(ctx context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
	return b.contractCallsQuote(ctx, req)
}

func (b *BridgeRouter) standardQuote(ctx context.Context, req *lifi.QuoteRequest) (*lifi.Quote, error) {
	key := standardQuoteKey(req)
	if quote, ok := b.cachedQuote(ctx, key); ok {
		return quote, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	quote, err := b.quoter.GetQuote(ctx, req)
	if err != nil {
		return nil, b.normalizeError(err)
	}

	b.cacheQuote(ctx, key, quote)
	return quote, nil
}

func (b *BridgeRouter) contractCallsQuote(ctx context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
	key := contractCallsQuoteKey(req)
	if quote, ok := b.cachedQuote(ctx, key); ok {
		return quote, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	quote, err := b.quoter.GetContractCallsQuote(ctx, req)
	if err != nil {
		return nil, b.normalizeError(err)
	}

	b.cacheQuote(ctx, key, quote)
	return quote, nil
}

func (b *BridgeRouter) normalizeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrQuoteTimeout
	}
	return err
}

// cachedQuote reads a quote from the store. Store errors degrade to a miss.
func (b *BridgeRouter) cachedQuote(ctx context.Context, key string) (*lifi.Quote, bool) {
	raw, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("quote cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var quote lifi.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		logger.Warn("quote cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &quote, true
}

func (b *BridgeRouter) cacheQuote(ctx context.Context, key string, quote *lifi.Quote) {
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := b.cache.Set(context.WithoutCancel(ctx), key, raw, b.cacheTTL); err != nil {
		logger.Warn("quote cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// standardQuoteKey normalizes the request into a cache key: identical
// requests from concurrent callers share one entry
func standardQuoteKey(req *lifi.QuoteRequest) string {
	return strings.ToLower(fmt.Sprintf("quote:std:%d:%d:%s:%s:%s:%s:%s",
		req.FromChain, req.ToChain, req.FromToken, req.ToToken, req.FromAmount, req.FromAddress, req.ToAddress))
}

func contractCallsQuoteKey(req *lifi.ContractCallsQuoteRequest) string {
	parts := make([]string, 0, len(req.ContractCalls))
	for _, call := range req.ContractCalls {
		parts = append(parts, call.ToContractAddress+":"+call.FromAmount)
	}
	return strings.ToLower(fmt.Sprintf("quote:cc:%d:%d:%s:%s:%s:%s:%s",
		req.FromChain, req.ToChain, req.FromToken, req.ToToken, req.FromAmount, req.FromAddress, strings.Join(parts, ",")))
}

// optionFromQuote maps an aggregator quote to a route option
func (b *BridgeRouter) optionFromQuote(quote *lifi.Quote, routeType RouteType) RouteOption {
	id := quote.ID
	if id == "" {
		id = quote.Tool
	}
	if len(id) > 8 {
		id = id[:8]
	}

	return RouteOption{
		ID:              "bridge-" + id,
		PathDescription: pathDescription(quote),
		FeeEstimate:     feeEstimate(quote),
		TimeEstimate:    timeEstimate(quote.Estimate.ExecutionDuration),
		Provider:        b.quoter.Name(),
		RouteType:       routeType,
	}
}

// errorRoute is the uniform "provider failed" placeholder
func (b *BridgeRouter) errorRoute(err error, routeType RouteType) RouteOption {
	logger.Warn("aggregator quote failed", zap.String("provider", b.quoter.Name()), zap.Error(err))
	return RouteOption{
		ID:              errorRouteID,
		PathDescription: err.Error(),
		FeeEstimate:     "",
		TimeEstimate:    "",
		Provider:        b.quoter.Name(),
		RouteType:       routeType,
	}
}

// pathDescription joins each step's tool name
func pathDescription(quote *lifi.Quote) string {
	if len(quote.IncludedSteps) == 0 {
		return quote.Tool
	}
	tools := make([]string, 0, len(quote.IncludedSteps))
	for _, step := range quote.IncludedSteps {
		tools = append(tools, step.Tool)
	}
	return strings.Join(tools, " → ")
}

// feeEstimate sums the quote's gas and provider fee costs in USD
func feeEstimate(quote *lifi.Quote) string {
	total := decimal.Zero
	for _, gc := range quote.Estimate.GasCosts {
		if d, err := decimal.NewFromString(gc.AmountUSD); err == nil {
			total = total.Add(d)
		}
	}
	for _, fc := range quote.Estimate.FeeCosts {
		if d, err := decimal.NewFromString(fc.AmountUSD); err == nil {
			total = total.Add(d)
		}
	}
	return formatUSD(total)
}

func timeEstimate(seconds int) string {
	if seconds <= 0 {
		return "unknown"
	}
	if seconds < 90 {
		return fmt.Sprintf("~%ds", seconds)
	}
	return fmt.Sprintf("~%dm", (seconds+59)/60)
}
