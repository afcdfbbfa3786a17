package lifi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	httpclient "github.com/namepay/namepay-api/internal/client/http"
	"github.com/namepay/namepay-api/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://li.quest/v1"

// Client calls the LI.FI quoting API
type Client struct {
	http   *httpclient.HTTPClient
	name   string
	apiKey string
}

// Option configures the Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http = httpclient.NewHTTPClient(
			httpclient.WithBaseURL(baseURL),
			httpclient.WithRetryConfig(&httpclient.RetryConfig{MaxRetries: 0}),
		)
	}
}

// WithAPIKey sets the x-lifi-api-key header on all requests
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// NewClient creates a LI.FI client. Quote calls are not retried: a stale
// quote is worse than a failed one, callers fall back to other providers.
func NewClient(options ...Option) *Client {
	c := &Client{
		http: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(defaultBaseURL),
			httpclient.WithRetryConfig(&httpclient.RetryConfig{MaxRetries: 0}),
		),
		name: "lifi",
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Name returns the provider name used in route options
func (c *Client) Name() string {
	return c.name
}

// GetQuote fetches a plain swap/bridge quote
func (c *Client) GetQuote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	options := []httpclient.RequestOption{
		httpclient.WithQueryParam("fromChain", strconv.FormatUint(req.FromChain, 10)),
		httpclient.WithQueryParam("toChain", strconv.FormatUint(req.ToChain, 10)),
		httpclient.WithQueryParam("fromToken", req.FromToken),
		httpclient.WithQueryParam("toToken", req.ToToken),
		httpclient.WithQueryParam("fromAmount", req.FromAmount),
		httpclient.WithQueryParam("fromAddress", req.FromAddress),
		httpclient.WithQueryParam("toAddress", req.ToAddress),
	}
	if req.Slippage != "" {
		options = append(options, httpclient.WithQueryParam("slippage", req.Slippage))
	}
	if req.Order != "" {
		options = append(options, httpclient.WithQueryParam("order", req.Order))
	}
	if c.apiKey != "" {
		options = append(options, httpclient.WithHeader("x-lifi-api-key", c.apiKey))
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, "/quote", options...)
	if err != nil {
		return nil, c.wrapError("quote", err)
	}

	var quote Quote
	if err := c.http.ProcessJSONResponse(resp, &quote); err != nil {
		return nil, c.wrapError("quote", err)
	}

	logger.Debug("lifi quote received",
		zap.String("tool", quote.Tool),
		zap.String("toAmount", quote.Estimate.ToAmount),
		zap.Duration("duration", time.Since(start)))

	return &quote, nil
}

// GetVaultQuote fetches a quote whose destination token is a vault share
// token. The provider detects the vault and plans the deposit step itself,
// so the request shape is the plain quote with the vault token as toToken.
func (c *Client) GetVaultQuote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	return c.GetQuote(ctx, req)
}

// GetContractCallsQuote fetches a quote that bridges funds and then invokes
// the given destination-chain calls atomically
func (c *Client) GetContractCallsQuote(ctx context.Context, req *ContractCallsQuoteRequest) (*Quote, error) {
	var options []httpclient.RequestOption
	if c.apiKey != "" {
		options = append(options, httpclient.WithHeader("x-lifi-api-key", c.apiKey))
	}

	resp, err := c.http.Post(ctx, "/quote/contractCalls", req, options...)
	if err != nil {
		return nil, c.wrapError("contractCalls quote", err)
	}

	var quote Quote
	if err := c.http.ProcessJSONResponse(resp, &quote); err != nil {
		return nil, c.wrapError("contractCalls quote", err)
	}

	return &quote, nil
}

// wrapError extracts the provider's error message when the response body
// carried one, so callers surface something better than a status line
func (c *Client) wrapError(op string, err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.Body != "" {
		var apiErr apiError
		if jsonErr := json.Unmarshal([]byte(httpErr.Body), &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("lifi %s failed: %s", op, apiErr.Message)
		}
	}
	return fmt.Errorf("lifi %s failed: %w", op, err)
}
