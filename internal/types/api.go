// Package types holds the HTTP request and response payloads of the
// public API.
package types

import (
	"github.com/namepay/namepay-api/internal/routing"
)

// QuoteRequest asks for route candidates. Either Intent or Text must be
// set; ReceiverName optionally pulls the receiver's published preferences
// as defaults.
type QuoteRequest struct {
	Payer        string                `json:"payer" binding:"required"`
	ReceiverName string                `json:"receiverName,omitempty"`
	Text         string                `json:"text,omitempty"`
	Intent       *routing.ParsedIntent `json:"intent,omitempty"`
}

// QuoteResponse carries the ordered candidates and the receiver's
// economics
type QuoteResponse struct {
	Routes    []routing.RouteOption `json:"routes"`
	Economics routing.Economics     `json:"economics"`
	// Confidence is set when the intent came from free text
	Confidence *float64 `json:"confidence,omitempty"`
}

// BuildTransactionRequest turns a chosen candidate into signable data
type BuildTransactionRequest struct {
	RouteID      string                `json:"routeId" binding:"required"`
	Payer        string                `json:"payer" binding:"required"`
	ReceiverName string                `json:"receiverName,omitempty"`
	Intent       *routing.ParsedIntent `json:"intent" binding:"required"`
}

// BuildTransactionResponse wraps the signable unit. ApprovalRequired marks
// an intermediate approval step the payer must confirm before resubmitting.
type BuildTransactionResponse struct {
	Transaction      routing.TransactionData `json:"transaction"`
	ApprovalRequired bool                    `json:"approvalRequired"`
}

// TokenInfo is one registry token in the listing endpoint
type TokenInfo struct {
	Symbol   string            `json:"symbol"`
	Decimals int               `json:"decimals"`
	Category string            `json:"category"`
	Chains   map[string]string `json:"chains"` // chain slug -> address
}

// ChainInfo is one supported chain in the listing endpoint
type ChainInfo struct {
	Slug    string `json:"slug"`
	ChainID uint64 `json:"chainId"`
	Hub     bool   `json:"hub"`
	HasHook bool   `json:"hasHook"`
}

// HealthResponse is the health probe body
type HealthResponse struct {
	Status string `json:"status"`
}
