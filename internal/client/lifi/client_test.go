package lifi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

func TestGetQuoteSendsRequestParameters(t *testing.T) {
	var gotQuery map[string]string
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		gotAPIKey = r.Header.Get("x-lifi-api-key")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		_ = json.NewEncoder(w).Encode(lifi.Quote{
			ID:   "0123456789abcdef",
			Tool: "across",
			Estimate: lifi.Estimate{
				ToAmount: "99500000",
			},
		})
	}))
	defer server.Close()

	client := lifi.NewClient(lifi.WithBaseURL(server.URL), lifi.WithAPIKey("test-key"))

	quote, err := client.GetQuote(context.Background(), &lifi.QuoteRequest{
		FromChain:   42161,
		ToChain:     8453,
		FromToken:   "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
		ToToken:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		FromAmount:  "250000000",
		FromAddress: "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
		ToAddress:   "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Slippage:    "0.005",
		Order:       "CHEAPEST",
	})
	require.NoError(t, err)

	assert.Equal(t, "0123456789abcdef", quote.ID)
	assert.Equal(t, "across", quote.Tool)
	assert.Equal(t, "99500000", quote.Estimate.ToAmount)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "42161", gotQuery["fromChain"])
	assert.Equal(t, "8453", gotQuery["toChain"])
	assert.Equal(t, "250000000", gotQuery["fromAmount"])
	assert.Equal(t, "0.005", gotQuery["slippage"])
	assert.Equal(t, "CHEAPEST", gotQuery["order"])
}

func TestGetQuoteSurfacesProviderErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No available quotes for the requested transfer"}`))
	}))
	defer server.Close()

	client := lifi.NewClient(lifi.WithBaseURL(server.URL))

	_, err := client.GetQuote(context.Background(), &lifi.QuoteRequest{
		FromChain:  1,
		ToChain:    8453,
		FromAmount: "100",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "lifi quote failed: No available quotes for the requested transfer")
}

func TestGetQuoteWrapsOpaqueError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	}))
	defer server.Close()

	client := lifi.NewClient(lifi.WithBaseURL(server.URL))

	_, err := client.GetQuote(context.Background(), &lifi.QuoteRequest{FromChain: 1, ToChain: 10, FromAmount: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lifi quote failed:")
	assert.Contains(t, err.Error(), "502")
}

func TestGetContractCallsQuotePostsBody(t *testing.T) {
	var gotRequest lifi.ContractCallsQuoteRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/quote/contractCalls", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		_ = json.NewEncoder(w).Encode(lifi.Quote{ID: "cc-1", Tool: "stargate"})
	}))
	defer server.Close()

	client := lifi.NewClient(lifi.WithBaseURL(server.URL))

	quote, err := client.GetContractCallsQuote(context.Background(), &lifi.ContractCallsQuoteRequest{
		FromChain:  1,
		ToChain:    8453,
		FromToken:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		ToToken:    "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		FromAmount: "100000000",
		ContractCalls: []lifi.ContractCall{
			{ToContractAddress: "0x4e65fE4DbA92790696d040ac24Aa414708F5c0AB", ToContractCallData: "0x6e553f65"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "cc-1", quote.ID)
	assert.Equal(t, uint64(8453), gotRequest.ToChain)
	require.Len(t, gotRequest.ContractCalls, 1)
	assert.Equal(t, "0x6e553f65", gotRequest.ContractCalls[0].ToContractCallData)
}

func TestNameIsStable(t *testing.T) {
	assert.Equal(t, "lifi", lifi.NewClient().Name())
}
