package routing_test

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/namepay/namepay-api/internal/client/chain"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/mocks"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/routing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

// fakeClock is a manually set clock
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

var testPayer = common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")

func swapIntent(fromChain, toChain string) *routing.ParsedIntent {
	return &routing.ParsedIntent{
		Action:    routing.ActionSwap,
		FromToken: "USDC",
		ToToken:   "USDT",
		Amount:    "100",
		FromChain: fromChain,
		ToChain:   toChain,
	}
}

func TestFindHookRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := registry.Default()
	router := routing.NewHookRouter(reg, mocks.NewMockReader(ctrl), nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		intent    *routing.ParsedIntent
		liquidity *big.Int
		wantEmpty bool
	}{
		{
			name:   "same-chain stable pair on hook chain",
			intent: swapIntent("base", "base"),
		},
		{
			name:   "empty destination chain defaults to source",
			intent: swapIntent("base", ""),
		},
		{
			name:      "cross-chain swap is not a hook route",
			intent:    swapIntent("base", "arbitrum"),
			wantEmpty: true,
		},
		{
			name:      "hook not deployed on source chain",
			intent:    swapIntent("ethereum", "ethereum"),
			wantEmpty: true,
		},
		{
			name: "token without an address on the hook chain",
			intent: &routing.ParsedIntent{
				Action:    routing.ActionSwap,
				FromToken: "WBTC",
				ToToken:   "USDC",
				Amount:    "1",
				FromChain: "base",
				ToChain:   "base",
			},
			wantEmpty: true,
		},
		{
			name:      "liquidity below the floor",
			intent:    swapIntent("base", "base"),
			liquidity: big.NewInt(999),
			wantEmpty: true,
		},
		{
			name:      "liquidity at the floor passes",
			intent:    swapIntent("base", "base"),
			liquidity: big.NewInt(1000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, err := router.FindHookRoutes(ctx, tt.intent, tt.liquidity)
			require.NoError(t, err, "inapplicable paths must not error")
			if tt.wantEmpty {
				assert.Empty(t, routes)
				return
			}
			require.Len(t, routes, 1)
			assert.True(t, strings.HasPrefix(routes[0].ID, "hook-"))
			assert.Equal(t, routing.HookProvider, routes[0].Provider)
			assert.Contains(t, routes[0].PathDescription, "base")
		})
	}
}

func TestFindHookRoutesStableFeeEstimate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := routing.NewHookRouter(registry.Default(), mocks.NewMockReader(ctrl), nil)

	routes, err := router.FindHookRoutes(context.Background(), swapIntent("base", "base"), nil)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	// 100 USDC at the 100 hundredths-of-a-bip stable tier
	assert.Equal(t, "$0.01", routes[0].FeeEstimate)
}

func TestFindHookRoutesIDIsStable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := routing.NewHookRouter(registry.Default(), mocks.NewMockReader(ctrl), nil)
	ctx := context.Background()

	a, err := router.FindHookRoutes(ctx, swapIntent("base", "base"), nil)
	require.NoError(t, err)

	// Same pair in the other direction shares the pool, so the ID matches
	reversed := swapIntent("base", "base")
	reversed.FromToken, reversed.ToToken = "USDT", "USDC"
	b, err := router.FindHookRoutes(ctx, reversed, nil)
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestApprovalStatus(t *testing.T) {
	reg := registry.Default()
	cfg, ok := reg.HookChain(registry.ChainBase)
	require.True(t, ok)

	usdc, _ := reg.ResolveTokenAddress("USDC", registry.ChainBase)
	amount := big.NewInt(100_000_000)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		allowance   *big.Int
		gateway     *chain.GatewayAllowance
		want        routing.ApprovalState
		skipGateway bool
	}{
		{
			name:        "no token allowance",
			allowance:   big.NewInt(0),
			want:        routing.NeedsTokenApproval,
			skipGateway: true,
		},
		{
			name:        "token allowance below amount",
			allowance:   big.NewInt(99_999_999),
			want:        routing.NeedsTokenApproval,
			skipGateway: true,
		},
		{
			name:      "gateway allowance missing",
			allowance: routing.MaxUint256,
			gateway:   &chain.GatewayAllowance{Amount: big.NewInt(0), Expiration: 0},
			want:      routing.NeedsGatewayApproval,
		},
		{
			name:      "gateway allowance expired",
			allowance: routing.MaxUint256,
			gateway: &chain.GatewayAllowance{
				Amount:     routing.MaxUint160,
				Expiration: uint64(now.Add(-time.Hour).Unix()),
			},
			want: routing.NeedsGatewayApproval,
		},
		{
			name:      "both allowances in place",
			allowance: routing.MaxUint256,
			gateway: &chain.GatewayAllowance{
				Amount:     routing.MaxUint160,
				Expiration: uint64(now.Add(time.Hour).Unix()),
			},
			want: routing.ApprovalReady,
		},
		{
			name:      "zero expiration never expires",
			allowance: routing.MaxUint256,
			gateway:   &chain.GatewayAllowance{Amount: routing.MaxUint160, Expiration: 0},
			want:      routing.ApprovalReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reader := mocks.NewMockReader(ctrl)
			reader.EXPECT().
				Allowance(gomock.Any(), registry.ChainBase, usdc, testPayer, cfg.ApprovalGateway).
				Return(tt.allowance, nil)
			if !tt.skipGateway {
				reader.EXPECT().
					GatewayAllowance(gomock.Any(), registry.ChainBase, cfg.ApprovalGateway, testPayer, usdc, cfg.RouterAddress).
					Return(tt.gateway, nil)
			}

			router := routing.NewHookRouter(reg, reader, &fakeClock{now: now})
			state, err := router.ApprovalStatus(context.Background(), registry.ChainBase, cfg, testPayer, usdc, amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestHookBuildTransactionNeedsTokenApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := registry.Default()
	usdc, _ := reg.ResolveTokenAddress("USDC", registry.ChainBase)

	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().
		Allowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(big.NewInt(0), nil)

	router := routing.NewHookRouter(reg, reader, nil)
	tx, err := router.BuildTransaction(context.Background(), swapIntent("base", "base"), testPayer)
	require.NoError(t, err)

	assert.True(t, tx.IsApproval())
	assert.Equal(t, usdc.Hex(), tx.To, "approval goes to the token contract")
	assert.True(t, strings.HasPrefix(tx.Data, "0x095ea7b3"), "approve(address,uint256)")
	assert.Equal(t, uint64(registry.ChainBase), tx.ChainID)
}

func TestHookBuildTransactionNeedsGatewayApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := registry.Default()
	cfg, _ := reg.HookChain(registry.ChainBase)

	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().
		Allowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(routing.MaxUint256, nil)
	reader.EXPECT().
		GatewayAllowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chain.GatewayAllowance{Amount: big.NewInt(0), Expiration: 0}, nil)

	router := routing.NewHookRouter(reg, reader, nil)
	tx, err := router.BuildTransaction(context.Background(), swapIntent("base", "base"), testPayer)
	require.NoError(t, err)

	assert.True(t, tx.IsApproval())
	assert.Equal(t, cfg.ApprovalGateway.Hex(), tx.To, "approval goes to the gateway")
	assert.True(t, strings.HasPrefix(tx.Data, "0x87517c45"), "approve(address,address,uint160,uint48)")
}

func TestHookBuildTransactionReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := registry.Default()
	cfg, _ := reg.HookChain(registry.ChainBase)

	reader := mocks.NewMockReader(ctrl)
	reader.EXPECT().
		Allowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(routing.MaxUint256, nil)
	reader.EXPECT().
		GatewayAllowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chain.GatewayAllowance{Amount: routing.MaxUint160, Expiration: 0}, nil)

	router := routing.NewHookRouter(reg, reader, nil)
	tx, err := router.BuildTransaction(context.Background(), swapIntent("base", "base"), testPayer)
	require.NoError(t, err)

	assert.False(t, tx.IsApproval())
	assert.Equal(t, routing.HookProvider, tx.Provider)
	assert.Equal(t, cfg.RouterAddress.Hex(), tx.To, "swap goes to the universal router")
	assert.True(t, strings.HasPrefix(tx.Data, "0x3593564c"), "execute(bytes,bytes[],uint256)")
}

func TestHookBuildTransactionInapplicablePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := routing.NewHookRouter(registry.Default(), mocks.NewMockReader(ctrl), nil)
	_, err := router.BuildTransaction(context.Background(), swapIntent("ethereum", "ethereum"), testPayer)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}
