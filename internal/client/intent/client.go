package intent

import (
	"context"
	"fmt"

	httpclient "github.com/namepay/namepay-api/internal/client/http"
	"github.com/namepay/namepay-api/internal/logger"

	"go.uber.org/zap"
)

// ParseResult is the structured reading of a free-text payment instruction.
// The router trusts none of it blindly: everything is re-validated against
// the registry before quoting.
type ParseResult struct {
	Action       string  `json:"action"`
	Amount       string  `json:"amount"`
	Token        string  `json:"token"`
	SourceChain  string  `json:"sourceChain,omitempty"`
	DestChain    string  `json:"destChain,omitempty"`
	DestToken    string  `json:"destToken,omitempty"`
	Recipient    string  `json:"recipient"`
	VaultAddress string  `json:"vaultAddress,omitempty"`
	Strategy     string  `json:"strategy,omitempty"`
	MaxFee       *float64 `json:"maxFee,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// Parser turns free text into a structured payment instruction
type Parser interface {
	Parse(ctx context.Context, text string) (*ParseResult, error)
}

// Client calls the intent-parsing service
type Client struct {
	http *httpclient.HTTPClient
}

// NewClient creates an intent-parsing client for the given service URL
func NewClient(baseURL string) *Client {
	return &Client{
		http: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(baseURL),
		),
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse sends free text to the parsing service and returns the structured
// result with its confidence score
func (c *Client) Parse(ctx context.Context, text string) (*ParseResult, error) {
	resp, err := c.http.Post(ctx, "/parse", parseRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to parse intent: %w", err)
	}

	var result ParseResult
	if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode parsed intent: %w", err)
	}

	logger.Debug("parsed payment intent",
		zap.String("token", result.Token),
		zap.String("recipient", result.Recipient),
		zap.Float64("confidence", result.Confidence))

	return &result, nil
}
