package routing

import (
	"fmt"

	"github.com/pkg/errors"
)

// Validation failures are raised immediately and are distinct from provider
// failures: callers can tell "your input is invalid" apart from "the
// network is having trouble".

// UnsupportedTokenError means the symbol has no address on the requested chain
type UnsupportedTokenError struct {
	Symbol string
	Chain  string
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("token %s is not supported on %s", e.Symbol, e.Chain)
}

// UnsupportedVaultError means the (protocol, underlying, chain) combination
// is unknown to the registry
type UnsupportedVaultError struct {
	Protocol   string
	Underlying string
	Chain      string
}

func (e *UnsupportedVaultError) Error() string {
	return fmt.Sprintf("no %s vault for %s on %s", e.Protocol, e.Underlying, e.Chain)
}

// InvalidAllocationError means multi-vault percentages do not sum to 100
type InvalidAllocationError struct {
	Sum int
}

func (e *InvalidAllocationError) Error() string {
	return fmt.Sprintf("vault allocations must sum to 100, got %d", e.Sum)
}

// ErrNoRouteFound means every provider failed or returned nothing
var ErrNoRouteFound = errors.New("no viable route found")

// ErrQuoteTimeout means the aggregator did not respond within the bound
var ErrQuoteTimeout = errors.New("quote provider timed out")

// ErrUnknownRoute means the requested route ID did not re-derive from the
// intent, usually because the quote expired from cache
var ErrUnknownRoute = errors.New("route not found for intent, request a fresh quote")

// ValidateIntent checks the structural requirements common to all routers
func ValidateIntent(intent *ParsedIntent) error {
	if intent == nil {
		return errors.New("intent is required")
	}
	if intent.Amount == "" {
		return errors.New("amount is required")
	}
	if intent.FromToken == "" {
		return errors.New("fromToken is required")
	}
	if intent.ToToken == "" && !intent.Action.IsVaultAction() {
		return errors.New("toToken is required for non-vault actions")
	}
	return nil
}
