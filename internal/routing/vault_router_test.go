package routing_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/mocks"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/routing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	vaultA    = "0x4e65fE4DbA92790696d040ac24Aa414708F5c0AB"
	vaultB    = "0xbeeF010f9cb27031ad51e3333f9aF9C6B1228183"
	recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func yieldIntent() *routing.ParsedIntent {
	return &routing.ParsedIntent{
		Action:       routing.ActionYield,
		FromToken:    "USDC",
		Amount:       "100",
		FromChain:    "arbitrum",
		ToAddress:    recipient,
		VaultAddress: vaultA,
	}
}

func newVaultRouter(quoter routing.Quoter) *routing.VaultRouter {
	bridge := newBridgeRouter(quoter)
	return routing.NewVaultRouter(bridge, registry.Default(), registry.BaseRestakingRouter)
}

func TestFindYieldRouteAtomic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	quoter.EXPECT().
		GetContractCallsQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
			assert.Equal(t, uint64(registry.ChainBase), req.ToChain, "deposits settle on the hub chain")
			require.Len(t, req.ContractCalls, 1)
			call := req.ContractCalls[0]
			assert.Equal(t, vaultA, call.ToContractAddress)
			assert.Equal(t, "100000000", call.FromAmount)
			// deposit(uint256,address)
			assert.True(t, strings.HasPrefix(call.ToContractCallData, "0x6e553f65"))
			return sampleQuote(), nil
		})

	router := newVaultRouter(quoter)
	result, err := router.FindYieldRoute(context.Background(), yieldIntent(), testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	require.NotNil(t, result.Quote)

	assert.Equal(t, routing.RouteTypeContractCall, result.Route.RouteType)
	assert.Contains(t, result.Route.PathDescription, "vault "+vaultA)
}

func TestFindYieldRouteFallsBackToPlainTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	quoter.EXPECT().
		GetContractCallsQuote(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("contract calls unavailable"))
	quoter.EXPECT().
		GetQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *lifi.QuoteRequest) (*lifi.Quote, error) {
			assert.Equal(t, uint64(registry.ChainBase), req.ToChain)
			return sampleQuote(), nil
		})

	router := newVaultRouter(quoter)
	result, err := router.FindYieldRoute(context.Background(), yieldIntent(), testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)

	assert.Equal(t, routing.RouteTypeStandard, result.Route.RouteType)
	assert.Contains(t, result.Route.PathDescription, "(fallback: plain transfer, vault deposit skipped)")
}

func TestFindYieldRouteValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	router := newVaultRouter(quoter)
	ctx := context.Background()

	t.Run("missing recipient", func(t *testing.T) {
		intent := yieldIntent()
		intent.ToAddress = ""
		_, err := router.FindYieldRoute(ctx, intent, testPayer.Hex())
		require.Error(t, err)
	})

	t.Run("missing vault", func(t *testing.T) {
		intent := yieldIntent()
		intent.VaultAddress = ""
		_, err := router.FindYieldRoute(ctx, intent, testPayer.Hex())
		require.Error(t, err)
	})

	t.Run("malformed vault address", func(t *testing.T) {
		intent := yieldIntent()
		intent.VaultAddress = "not-an-address"
		_, err := router.FindYieldRoute(ctx, intent, testPayer.Hex())
		require.Error(t, err)
	})
}

func TestFindRestakingRouteAtomic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	quoter.EXPECT().
		GetContractCallsQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
			require.Len(t, req.ContractCalls, 1)
			call := req.ContractCalls[0]
			assert.Equal(t, registry.BaseRestakingRouter.Hex(), call.ToContractAddress)
			// deposit(address,uint256)
			assert.True(t, strings.HasPrefix(call.ToContractCallData, "0x47e7ef24"))
			return sampleQuote(), nil
		})

	router := newVaultRouter(quoter)
	intent := &routing.ParsedIntent{
		Action:    routing.ActionRestaking,
		FromToken: "WETH",
		Amount:    "1",
		FromChain: "arbitrum",
		ToAddress: recipient,
	}

	result, err := router.FindRestakingRoute(context.Background(), intent, testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.Contains(t, result.Route.PathDescription, "restaking")
}

func TestFindRestakingRouteUndeployedRouterSkipsAtomicPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	// No GetContractCallsQuote expectation: the atomic path must be skipped
	quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(sampleQuote(), nil)

	bridge := newBridgeRouter(quoter)
	router := routing.NewVaultRouter(bridge, registry.Default(), common.Address{})

	intent := &routing.ParsedIntent{
		Action:    routing.ActionRestaking,
		FromToken: "WETH",
		Amount:    "1",
		FromChain: "arbitrum",
		ToAddress: recipient,
	}

	result, err := router.FindRestakingRoute(context.Background(), intent, testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.Contains(t, result.Route.PathDescription, "restaking deposit skipped")
}

func multiVaultIntent(allocations []routing.VaultAllocation) *routing.ParsedIntent {
	return &routing.ParsedIntent{
		Action:      routing.ActionDeposit,
		FromToken:   "USDC",
		Amount:      "100",
		FromChain:   "arbitrum",
		ToAddress:   recipient,
		Allocations: allocations,
	}
}

func TestFindMultiVaultRouteAllocationValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	router := newVaultRouter(quoter)
	ctx := context.Background()

	tests := []struct {
		name        string
		allocations []routing.VaultAllocation
	}{
		{
			name: "sum under 100",
			allocations: []routing.VaultAllocation{
				{VaultAddress: vaultA, Percentage: 60},
				{VaultAddress: vaultB, Percentage: 30},
			},
		},
		{
			name: "sum over 100",
			allocations: []routing.VaultAllocation{
				{VaultAddress: vaultA, Percentage: 60},
				{VaultAddress: vaultB, Percentage: 50},
			},
		},
		{
			name: "zero percentage leg",
			allocations: []routing.VaultAllocation{
				{VaultAddress: vaultA, Percentage: 0},
				{VaultAddress: vaultB, Percentage: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid *routing.InvalidAllocationError
			_, err := router.FindMultiVaultRoute(ctx, multiVaultIntent(tt.allocations), testPayer.Hex())
			require.ErrorAs(t, err, &invalid)
		})
	}

	t.Run("malformed vault address", func(t *testing.T) {
		_, err := router.FindMultiVaultRoute(ctx, multiVaultIntent([]routing.VaultAllocation{
			{VaultAddress: "nope", Percentage: 100},
		}), testPayer.Hex())
		require.Error(t, err)
	})

	t.Run("no allocations", func(t *testing.T) {
		_, err := router.FindMultiVaultRoute(ctx, multiVaultIntent(nil), testPayer.Hex())
		require.Error(t, err)
	})
}

func TestFindMultiVaultRouteSplitsWithRemainder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	quoter.EXPECT().
		GetContractCallsQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
			require.Len(t, req.ContractCalls, 3)

			total := new(big.Int)
			for _, call := range req.ContractCalls {
				leg, ok := new(big.Int).SetString(call.FromAmount, 10)
				require.True(t, ok)
				total.Add(total, leg)
			}
			// 100.000001 USDC in base units, remainder on the last leg
			assert.Equal(t, "100000001", total.String())
			assert.Equal(t, "33000000", req.ContractCalls[0].FromAmount)
			assert.Equal(t, "33000000", req.ContractCalls[1].FromAmount)
			assert.Equal(t, "34000001", req.ContractCalls[2].FromAmount)
			return sampleQuote(), nil
		})

	router := newVaultRouter(quoter)
	intent := multiVaultIntent([]routing.VaultAllocation{
		{VaultAddress: vaultA, Percentage: 33},
		{VaultAddress: vaultB, Percentage: 33},
		{VaultAddress: vaultA, Percentage: 34},
	})
	intent.Amount = "100.000001"

	result, err := router.FindMultiVaultRoute(context.Background(), intent, testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.Contains(t, result.Route.PathDescription, "3-way vault split")
}

func TestFindMultiVaultRouteFallbackChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()
	// The split and the single-vault retry both fail
	quoter.EXPECT().
		GetContractCallsQuote(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("unavailable")).
		Times(2)
	quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(sampleQuote(), nil)

	router := newVaultRouter(quoter)
	intent := multiVaultIntent([]routing.VaultAllocation{
		{VaultAddress: vaultA, Percentage: 60},
		{VaultAddress: vaultB, Percentage: 40},
	})

	result, err := router.FindMultiVaultRoute(context.Background(), intent, testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.Contains(t, result.Route.PathDescription, "(fallback: plain transfer, multi-vault deposit skipped)")
}

func TestFindMultiVaultRouteSingleVaultFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quoter := mocks.NewMockQuoter(ctrl)
	quoter.EXPECT().Name().Return("lifi").AnyTimes()

	gomock.InOrder(
		// The split fails
		quoter.EXPECT().
			GetContractCallsQuote(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("unavailable")),
		// The single-vault retry targets the first allocation's vault
		quoter.EXPECT().
			GetContractCallsQuote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *lifi.ContractCallsQuoteRequest) (*lifi.Quote, error) {
				require.Len(t, req.ContractCalls, 1)
				assert.Equal(t, vaultA, req.ContractCalls[0].ToContractAddress)
				return sampleQuote(), nil
			}),
	)

	router := newVaultRouter(quoter)
	intent := multiVaultIntent([]routing.VaultAllocation{
		{VaultAddress: vaultA, Percentage: 60},
		{VaultAddress: vaultB, Percentage: 40},
	})

	result, err := router.FindMultiVaultRoute(context.Background(), intent, testPayer.Hex())
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.Contains(t, result.Route.PathDescription, "vault "+vaultA)
}
