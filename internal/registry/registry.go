// Package registry holds the static token, chain, and vault configuration
// the routing engine resolves against. All lookups are pure and return
// "absent" rather than errors; the registry is read-only after load.
package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID identifies an EVM chain by its numeric chain id
type ChainID uint64

// Chains the router knows about
const (
	ChainEthereum ChainID = 1
	ChainOptimism ChainID = 10
	ChainPolygon  ChainID = 137
	ChainBase     ChainID = 8453
	ChainArbitrum ChainID = 42161
)

// HubChain is where settlement tokens and vault deposits land by default
const HubChain = ChainBase

// TokenCategory classifies a token for hook fee/slippage defaults
type TokenCategory string

const (
	CategoryStable   TokenCategory = "stable"
	CategoryBluechip TokenCategory = "bluechip"
)

// TokenConfig describes one token symbol across chains
type TokenConfig struct {
	Symbol          string
	Decimals        int
	Category        TokenCategory
	PerChainAddress map[ChainID]common.Address
}

// HookChainConfig describes the contracts backing the same-chain hook path
// on one chain. A zero HookAddress means the hook is not deployed there.
type HookChainConfig struct {
	ChainID         ChainID
	HookAddress     common.Address
	RouterAddress   common.Address
	ApprovalGateway common.Address // Permit2-style allowance gateway
	PoolManager     common.Address
}

// VaultConfig maps a (protocol, underlying, chain) triple to the vault's
// deposit contract
type VaultConfig struct {
	Protocol   string
	Underlying string
	ChainID    ChainID
	Address    common.Address
}

// Registry is the process-lifetime token/chain/vault lookup table
type Registry struct {
	tokens        map[string]TokenConfig
	hookChains    map[ChainID]HookChainConfig
	vaults        []VaultConfig
	chainPriority []ChainID
}

// New creates a registry from explicit configuration. Symbols are
// normalized to upper case.
func New(tokens []TokenConfig, hookChains []HookChainConfig, vaults []VaultConfig, chainPriority []ChainID) *Registry {
	r := &Registry{
		tokens:        make(map[string]TokenConfig, len(tokens)),
		hookChains:    make(map[ChainID]HookChainConfig, len(hookChains)),
		vaults:        vaults,
		chainPriority: chainPriority,
	}
	for _, t := range tokens {
		r.tokens[strings.ToUpper(t.Symbol)] = t
	}
	for _, hc := range hookChains {
		r.hookChains[hc.ChainID] = hc
	}
	return r
}

// ResolveTokenAddress returns the token's address on the given chain
func (r *Registry) ResolveTokenAddress(symbol string, chain ChainID) (common.Address, bool) {
	token, ok := r.tokens[strings.ToUpper(symbol)]
	if !ok {
		return common.Address{}, false
	}
	addr, ok := token.PerChainAddress[chain]
	if !ok {
		return common.Address{}, false
	}
	return addr, true
}

// ResolveDecimals returns the token's decimals, defaulting to 18 for
// unknown symbols
func (r *Registry) ResolveDecimals(symbol string) int {
	token, ok := r.tokens[strings.ToUpper(symbol)]
	if !ok {
		return 18
	}
	return token.Decimals
}

// TokenCategory returns the token's risk category, or ok=false for
// unknown symbols
func (r *Registry) TokenCategory(symbol string) (TokenCategory, bool) {
	token, ok := r.tokens[strings.ToUpper(symbol)]
	if !ok {
		return "", false
	}
	return token.Category, true
}

// ResolveVaultAddress returns the deposit contract for a protocol/underlying
// pair on the given chain
func (r *Registry) ResolveVaultAddress(protocol, underlying string, chain ChainID) (common.Address, bool) {
	for _, v := range r.vaults {
		if strings.EqualFold(v.Protocol, protocol) &&
			strings.EqualFold(v.Underlying, underlying) &&
			v.ChainID == chain {
			return v.Address, true
		}
	}
	return common.Address{}, false
}

// IsVaultAddress reports whether addr is a known vault deposit contract on
// any chain. The comparison is case-insensitive over the hex form.
func (r *Registry) IsVaultAddress(addr string) bool {
	for _, v := range r.vaults {
		if strings.EqualFold(v.Address.Hex(), addr) {
			return true
		}
	}
	return false
}

// ResolvePreferredChainForToken returns the first chain, in priority order,
// where the token has an address. Used to silently redirect a destination
// chain that lacks the token.
func (r *Registry) ResolvePreferredChainForToken(symbol string) (ChainID, bool) {
	token, ok := r.tokens[strings.ToUpper(symbol)]
	if !ok {
		return 0, false
	}
	for _, chain := range r.chainPriority {
		if _, ok := token.PerChainAddress[chain]; ok {
			return chain, true
		}
	}
	return 0, false
}

// HookChain returns the hook deployment config for a chain
func (r *Registry) HookChain(chain ChainID) (HookChainConfig, bool) {
	hc, ok := r.hookChains[chain]
	return hc, ok
}

// Tokens returns all configured tokens, keyed by upper-case symbol
func (r *Registry) Tokens() map[string]TokenConfig {
	out := make(map[string]TokenConfig, len(r.tokens))
	for k, v := range r.tokens {
		out[k] = v
	}
	return out
}

// Chains returns the chain priority order
func (r *Registry) Chains() []ChainID {
	out := make([]ChainID, len(r.chainPriority))
	copy(out, r.chainPriority)
	return out
}

var chainSlugs = map[string]ChainID{
	"ethereum": ChainEthereum,
	"mainnet":  ChainEthereum,
	"optimism": ChainOptimism,
	"polygon":  ChainPolygon,
	"base":     ChainBase,
	"arbitrum": ChainArbitrum,
}

var slugByChain = map[ChainID]string{
	ChainEthereum: "ethereum",
	ChainOptimism: "optimism",
	ChainPolygon:  "polygon",
	ChainBase:     "base",
	ChainArbitrum: "arbitrum",
}

// ChainIDFromSlug resolves a human-readable chain name
func ChainIDFromSlug(slug string) (ChainID, bool) {
	id, ok := chainSlugs[strings.ToLower(strings.TrimSpace(slug))]
	return id, ok
}

// SlugFromChainID returns the canonical chain name for display
func SlugFromChainID(chain ChainID) string {
	if slug, ok := slugByChain[chain]; ok {
		return slug
	}
	return "unknown"
}
