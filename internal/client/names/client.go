package names

import (
	"context"
	"fmt"

	httpclient "github.com/namepay/namepay-api/internal/client/http"
	"github.com/namepay/namepay-api/internal/logger"

	"go.uber.org/zap"
)

// Profile is a receiver's published payment preferences. Every field except
// Address is optional: preferences are defaults for unset intent fields,
// explicit intent parameters always win.
type Profile struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	PreferredChain string   `json:"preferredChain,omitempty"`
	PreferredToken string   `json:"preferredToken,omitempty"`
	MaxFee         *float64 `json:"maxFee,omitempty"`
	VaultAddress   string   `json:"vaultAddress,omitempty"`
	Strategy       string   `json:"strategy,omitempty"`
	Strategies     []Split  `json:"strategies,omitempty"`
}

// Split is one leg of a multi-vault preference
type Split struct {
	VaultAddress string `json:"vaultAddress"`
	Percentage   int    `json:"percentage"`
}

// Resolver looks up receiver profiles by payment name
type Resolver interface {
	Resolve(ctx context.Context, name string) (*Profile, error)
}

// Client resolves payment names against the name service
type Client struct {
	http *httpclient.HTTPClient
}

// NewClient creates a name-resolution client for the given service URL
func NewClient(baseURL string) *Client {
	return &Client{
		http: httpclient.NewHTTPClient(
			httpclient.WithBaseURL(baseURL),
		),
	}
}

// Resolve fetches the profile registered for a payment name
func (c *Client) Resolve(ctx context.Context, name string) (*Profile, error) {
	resp, err := c.http.Get(ctx, "/names/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve name %q: %w", name, err)
	}

	var profile Profile
	if err := c.http.ProcessJSONResponse(resp, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile for %q: %w", name, err)
	}

	if profile.Address == "" {
		return nil, fmt.Errorf("name %q resolved without an address", name)
	}

	logger.Debug("resolved payment name",
		zap.String("name", name),
		zap.String("address", profile.Address),
		zap.String("preferredChain", profile.PreferredChain))

	return &profile, nil
}
