// Package routing is the route construction and selection engine: it turns
// a parsed payment intent into comparable route candidates across the
// bridge aggregator, the same-chain hook, and the vault deposit paths, and
// builds the final signable transaction for a chosen candidate.
package routing

import (
	"github.com/shopspring/decimal"
)

// Action is the intent's requested operation
type Action string

const (
	ActionTransfer  Action = "transfer"
	ActionSwap      Action = "swap"
	ActionDeposit   Action = "deposit"
	ActionYield     Action = "yield"
	ActionRestaking Action = "restaking"
)

// IsVaultAction reports whether the action targets a vault deposit
func (a Action) IsVaultAction() bool {
	return a == ActionDeposit || a == ActionYield || a == ActionRestaking
}

// RouteType tags how a route executes
type RouteType string

const (
	RouteTypeStandard     RouteType = "standard"
	RouteTypeComposer     RouteType = "composer"
	RouteTypeContractCall RouteType = "contract-call"
)

// ParsedIntent is the validated structured form of a payment instruction.
// Amount is kept as a decimal string until a router converts it to base
// units against the token's decimals.
type ParsedIntent struct {
	Action        Action `json:"action"`
	FromToken     string `json:"fromToken"`
	ToToken       string `json:"toToken,omitempty"`
	Amount        string `json:"amount"`
	FromChain     string `json:"fromChain"`
	ToChain       string `json:"toChain,omitempty"`
	ToAddress     string `json:"toAddress,omitempty"`
	VaultProtocol string `json:"vaultProtocol,omitempty"`

	// Receiver preferences, resolved by the caller from the name service.
	// Explicit intent fields always win over these.
	MaxFeeUSD    *decimal.Decimal  `json:"maxFeeUsd,omitempty"`
	VaultAddress string            `json:"vaultAddress,omitempty"`
	Allocations  []VaultAllocation `json:"allocations,omitempty"`
}

// VaultAllocation is one leg of a multi-vault split
type VaultAllocation struct {
	VaultAddress string `json:"vaultAddress"`
	Percentage   int    `json:"percentage"`
}

// RouteOption is one candidate way to execute the payment. Immutable once
// produced.
type RouteOption struct {
	ID              string    `json:"id"`
	PathDescription string    `json:"pathDescription"`
	FeeEstimate     string    `json:"feeEstimate"`
	TimeEstimate    string    `json:"timeEstimate"`
	Provider        string    `json:"provider"`
	RouteType       RouteType `json:"routeType"`
}

// IsError reports whether the option is a synthetic failure placeholder
func (r RouteOption) IsError() bool {
	return r.ID == errorRouteID
}

// TransactionData is the terminal signable unit. An approval step is a
// TransactionData whose Provider identifies it as an approval rather than
// the final swap.
type TransactionData struct {
	To        string    `json:"to"`
	Data      string    `json:"data"`
	Value     string    `json:"value"`
	ChainID   uint64    `json:"chainId"`
	GasLimit  string    `json:"gasLimit,omitempty"`
	RouteType RouteType `json:"routeType"`
	Provider  string    `json:"provider"`
}

// IsApproval reports whether this is an intermediate approval step rather
// than the terminal transaction
func (t *TransactionData) IsApproval() bool {
	return t.Provider == approvalProvider
}

// ApprovalState is the hook path's allowance status, computed fresh from
// two on-chain reads per request
type ApprovalState string

const (
	ApprovalReady        ApprovalState = "ready"
	NeedsTokenApproval   ApprovalState = "needs-token-approval"
	NeedsGatewayApproval ApprovalState = "needs-gateway-approval"
)

// Economics is the fee-tier and referral math attached to a quote response.
// It is display data only and never reorders routes.
type Economics struct {
	MonthlyVolumeUSD decimal.Decimal `json:"monthlyVolumeUsd"`
	FeeBps           int64           `json:"feeBps"`
	FeeUSD           decimal.Decimal `json:"feeUsd"`
	Referred         bool            `json:"referred"`
	ReferrerShareUSD decimal.Decimal `json:"referrerShareUsd"`
}

// QuoteResult is what the engine returns for a quote request
type QuoteResult struct {
	Routes    []RouteOption `json:"routes"`
	Economics Economics     `json:"economics"`
}
