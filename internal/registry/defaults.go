package registry

import "github.com/ethereum/go-ethereum/common"

// Canonical contract addresses for the hook path. Permit2 is deployed at
// the same address on every chain; the rest are per-chain deployments.
var (
	Permit2Address      = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")
	BaseUniversalRouter = common.HexToAddress("0x6fF5693b99212Da76ad316178A184AB56D299b43")
	BasePoolManager     = common.HexToAddress("0x498581fF718922c3f8e6A244956aF099B2652b2b")
	BaseDynamicFeeHook  = common.HexToAddress("0x5f21e2b95f6D0C20701E2e5AaDF5810F1b8F2888")
	BaseRestakingRouter = common.HexToAddress("0x7C9a6d4b1ff5dDE36c6fEF1f0B660cc8Cbb22D7a")
)

// DefaultTokens lists the tokens the router ships with
func DefaultTokens() []TokenConfig {
	return []TokenConfig{
		{
			Symbol:   "USDC",
			Decimals: 6,
			Category: CategoryStable,
			PerChainAddress: map[ChainID]common.Address{
				ChainEthereum: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
				ChainBase:     common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
				ChainArbitrum: common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"),
				ChainOptimism: common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"),
				ChainPolygon:  common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"),
			},
		},
		{
			Symbol:   "USDT",
			Decimals: 6,
			Category: CategoryStable,
			PerChainAddress: map[ChainID]common.Address{
				ChainEthereum: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
				ChainBase:     common.HexToAddress("0xfde4C96c8593536E31F229EA8f37b2ADa2699bb2"),
				ChainArbitrum: common.HexToAddress("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9"),
				ChainOptimism: common.HexToAddress("0x94b008aA00579c1307B0EF2c499aD98a8ce58e58"),
				ChainPolygon:  common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"),
			},
		},
		{
			Symbol:   "DAI",
			Decimals: 18,
			Category: CategoryStable,
			PerChainAddress: map[ChainID]common.Address{
				ChainEthereum: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
				ChainBase:     common.HexToAddress("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb"),
			},
		},
		{
			Symbol:   "WETH",
			Decimals: 18,
			Category: CategoryBluechip,
			PerChainAddress: map[ChainID]common.Address{
				ChainEthereum: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
				ChainBase:     common.HexToAddress("0x4200000000000000000000000000000000000006"),
				ChainArbitrum: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"),
				ChainOptimism: common.HexToAddress("0x4200000000000000000000000000000000000006"),
				ChainPolygon:  common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"),
			},
		},
		{
			Symbol:   "WBTC",
			Decimals: 8,
			Category: CategoryBluechip,
			PerChainAddress: map[ChainID]common.Address{
				ChainEthereum: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"),
				ChainArbitrum: common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f"),
			},
		},
		{
			Symbol:   "CBBTC",
			Decimals: 8,
			Category: CategoryBluechip,
			PerChainAddress: map[ChainID]common.Address{
				ChainBase:     common.HexToAddress("0xcbB7C0000aB88B473b1f5aFd9ef808440eed33Bf"),
				ChainEthereum: common.HexToAddress("0xcbB7C0000aB88B473b1f5aFd9ef808440eed33Bf"),
			},
		},
	}
}

// DefaultHookChains lists where the dynamic-fee hook stack is deployed
func DefaultHookChains() []HookChainConfig {
	return []HookChainConfig{
		{
			ChainID:         ChainBase,
			HookAddress:     BaseDynamicFeeHook,
			RouterAddress:   BaseUniversalRouter,
			ApprovalGateway: Permit2Address,
			PoolManager:     BasePoolManager,
		},
	}
}

// DefaultVaults lists the vault deposit contracts the composer and yield
// paths can target
func DefaultVaults() []VaultConfig {
	return []VaultConfig{
		{Protocol: "aave", Underlying: "USDC", ChainID: ChainBase, Address: common.HexToAddress("0x4e65fE4DbA92790696d040ac24Aa414708F5c0AB")},
		{Protocol: "morpho", Underlying: "USDC", ChainID: ChainBase, Address: common.HexToAddress("0xbeeF010f9cb27031ad51e3333f9aF9C6B1228183")},
		{Protocol: "aave", Underlying: "WETH", ChainID: ChainBase, Address: common.HexToAddress("0xD4a0e0b9149BCee3C920d2E00b5dE09138fd8bb7")},
		{Protocol: "yearn", Underlying: "USDC", ChainID: ChainEthereum, Address: common.HexToAddress("0xBe53A109B494E5c9f97b9Cd39Fe969BE68BF6204")},
	}
}

// DefaultChainPriority orders chains for preferred-chain resolution, hub
// chain first
func DefaultChainPriority() []ChainID {
	return []ChainID{ChainBase, ChainEthereum, ChainArbitrum, ChainOptimism, ChainPolygon}
}

// Default builds the registry the service ships with
func Default() *Registry {
	return New(DefaultTokens(), DefaultHookChains(), DefaultVaults(), DefaultChainPriority())
}
