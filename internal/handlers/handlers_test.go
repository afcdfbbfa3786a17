package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/namepay/namepay-api/internal/client/intent"
	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/client/names"
	"github.com/namepay/namepay-api/internal/handlers"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/mocks"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/routing"
	"github.com/namepay/namepay-api/internal/store"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

const (
	payerAddr   = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	receiverHex = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// stubResolver serves a fixed profile
type stubResolver struct {
	profile *names.Profile
	err     error
}

func (s *stubResolver) Resolve(ctx context.Context, name string) (*names.Profile, error) {
	return s.profile, s.err
}

// stubParser serves a fixed parse result
type stubParser struct {
	result *intent.ParseResult
	err    error
}

func (s *stubParser) Parse(ctx context.Context, text string) (*intent.ParseResult, error) {
	return s.result, s.err
}

func newTestEngine(t *testing.T, quoter routing.Quoter) *routing.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	reg := registry.Default()
	bridge := routing.NewBridgeRouter(quoter, store.NewMemoryStore(), reg, 30*time.Second, 20*time.Second)
	hook := routing.NewHookRouter(reg, mocks.NewMockReader(ctrl), nil)
	vault := routing.NewVaultRouter(bridge, reg, registry.BaseRestakingRouter)
	ledger := routing.NewLedger(store.NewMemoryStore(), nil)
	return routing.NewEngine(reg, bridge, hook, vault, ledger, routing.DefaultEconomicsPolicy())
}

func newQuoteRouter(t *testing.T, quoter routing.Quoter, resolver names.Resolver, parser intent.Parser) *gin.Engine {
	t.Helper()
	common := handlers.NewCommonServices(newTestEngine(t, quoter), registry.Default(), resolver, parser)
	router := gin.New()
	router.POST("/quotes", handlers.NewQuoteHandler(common).GetQuote)
	router.POST("/transactions", handlers.NewTransactionHandler(common).BuildTransaction)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetQuoteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Payer: payerAddr,
		Intent: &routing.ParsedIntent{
			Action:    routing.ActionTransfer,
			FromToken: "USDC",
			ToToken:   "USDC",
			Amount:    "100",
			FromChain: "base",
			ToChain:   "base",
			ToAddress: receiverHex,
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "direct-transfer", resp.Routes[0].ID)
	assert.Nil(t, resp.Confidence)
}

func TestGetQuoteHandlerRejectsMissingIntent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/quotes", types.QuoteRequest{Payer: payerAddr})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuoteHandlerRejectsMissingPayer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Intent: &routing.ParsedIntent{FromToken: "USDC", Amount: "1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuoteHandlerFreeText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	parser := &stubParser{result: &intent.ParseResult{
		Action:      "transfer",
		Amount:      "100",
		Token:       "USDC",
		SourceChain: "base",
		DestChain:   "base",
		DestToken:   "USDC",
		Recipient:   receiverHex,
		Confidence:  0.92,
	}}

	router := newQuoteRouter(t, quoter, nil, parser)

	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Payer: payerAddr,
		Text:  "send 100 USDC on base",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.92, *resp.Confidence, 0.0001)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "direct-transfer", resp.Routes[0].ID)
}

func TestGetQuoteHandlerAppliesProfileDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	resolver := &stubResolver{profile: &names.Profile{
		Name:    "alice",
		Address: receiverHex,
	}}

	router := newQuoteRouter(t, quoter, resolver, nil)

	// The intent has no recipient; the profile supplies it
	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Payer:        payerAddr,
		ReceiverName: "alice",
		Intent: &routing.ParsedIntent{
			Action:    routing.ActionTransfer,
			FromToken: "USDC",
			ToToken:   "USDC",
			Amount:    "100",
			FromChain: "base",
			ToChain:   "base",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "direct-transfer", resp.Routes[0].ID)
}

func TestGetQuoteHandlerUnsupportedVault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Payer: payerAddr,
		Intent: &routing.ParsedIntent{
			Action:        routing.ActionDeposit,
			FromToken:     "USDC",
			Amount:        "100",
			FromChain:     "base",
			ToChain:       "base",
			ToAddress:     receiverHex,
			VaultProtocol: "compound",
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetQuoteHandlerNoRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	// Unknown token: neither router produces a candidate
	w := postJSON(t, router, "/quotes", types.QuoteRequest{
		Payer: payerAddr,
		Intent: &routing.ParsedIntent{
			Action:    routing.ActionTransfer,
			FromToken: "DOGE",
			ToToken:   "DOGE",
			Amount:    "100",
			FromChain: "base",
			ToChain:   "arbitrum",
			ToAddress: receiverHex,
		},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildTransactionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/transactions", types.BuildTransactionRequest{
		RouteID: "direct-transfer",
		Payer:   payerAddr,
		Intent: &routing.ParsedIntent{
			Action:    routing.ActionTransfer,
			FromToken: "USDC",
			ToToken:   "USDC",
			Amount:    "100",
			FromChain: "base",
			ToChain:   "base",
			ToAddress: receiverHex,
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.BuildTransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.ApprovalRequired)
	assert.NotEmpty(t, resp.Transaction.Data)
	assert.Equal(t, "direct", resp.Transaction.Provider)
}

func TestBuildTransactionHandlerUnknownRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).
		Return(&lifi.Quote{
			ID:   "0123456789abcdef",
			Tool: "across",
			TransactionRequest: lifi.TransactionRequest{
				To:      "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE",
				Data:    "0xdeadbeef",
				Value:   "0",
				ChainID: 42161,
			},
		}, nil)

	router := newQuoteRouter(t, quoter, nil, nil)

	w := postJSON(t, router, "/transactions", types.BuildTransactionRequest{
		RouteID: "bridge-deadbeef",
		Payer:   payerAddr,
		Intent: &routing.ParsedIntent{
			Action:    routing.ActionTransfer,
			FromToken: "USDC",
			ToToken:   "USDC",
			Amount:    "100",
			FromChain: "arbitrum",
			ToChain:   "base",
			ToAddress: receiverHex,
		},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthHandler(t *testing.T) {
	router := gin.New()
	router.GET("/health", handlers.NewHealthHandler().Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
