// Package chain provides read-only view calls against per-chain RPC
// endpoints: ERC-20 allowances and balances plus Permit2 gateway
// allowances. The approval state machine in the routing engine runs on
// these reads.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const erc20ViewABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"remaining","type":"uint256"}],"type":"function"}
]`

const permit2ViewABI = `[
	{"inputs":[{"name":"user","type":"address"},{"name":"token","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"amount","type":"uint160"},{"name":"expiration","type":"uint48"},{"name":"nonce","type":"uint48"}],"stateMutability":"view","type":"function"}
]`

// GatewayAllowance is a Permit2-style allowance record
type GatewayAllowance struct {
	Amount     *big.Int
	Expiration uint64
}

// Reader performs view calls the routing engine needs. It is an interface
// so the approval state machine can be tested without an RPC endpoint.
type Reader interface {
	// Allowance returns the ERC-20 allowance from owner to spender
	Allowance(ctx context.Context, chain registry.ChainID, token, owner, spender common.Address) (*big.Int, error)
	// GatewayAllowance returns the gateway's recorded allowance from owner
	// to spender for token
	GatewayAllowance(ctx context.Context, chain registry.ChainID, gateway, owner, token, spender common.Address) (*GatewayAllowance, error)
	// BalanceOf returns the ERC-20 balance of account
	BalanceOf(ctx context.Context, chain registry.ChainID, token, account common.Address) (*big.Int, error)
}

// RPCReader is the ethclient-backed Reader
type RPCReader struct {
	clients    map[registry.ChainID]*ethclient.Client
	erc20ABI   abi.ABI
	permit2ABI abi.ABI
	logger     *zap.Logger
}

// NewRPCReader dials the configured RPC endpoints. Chains whose endpoint
// fails to dial are skipped with a warning; calls against them fail per
// request.
func NewRPCReader(rpcURLs map[registry.ChainID]string) (*RPCReader, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ViewABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	permit2, err := abi.JSON(strings.NewReader(permit2ViewABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Permit2 ABI: %w", err)
	}

	r := &RPCReader{
		clients:    make(map[registry.ChainID]*ethclient.Client, len(rpcURLs)),
		erc20ABI:   erc20,
		permit2ABI: permit2,
		logger:     logger.Log,
	}

	for chain, url := range rpcURLs {
		client, err := ethclient.Dial(url)
		if err != nil {
			r.logger.Warn("Failed to connect to chain RPC, skipping",
				zap.String("chain", registry.SlugFromChainID(chain)),
				zap.Error(err))
			continue
		}
		r.clients[chain] = client
		r.logger.Info("Connected to chain RPC",
			zap.String("chain", registry.SlugFromChainID(chain)))
	}

	return r, nil
}

func (r *RPCReader) client(chain registry.ChainID) (*ethclient.Client, error) {
	client, ok := r.clients[chain]
	if !ok {
		return nil, fmt.Errorf("no RPC client for chain %s", registry.SlugFromChainID(chain))
	}
	return client, nil
}

// Allowance returns the ERC-20 allowance from owner to spender
func (r *RPCReader) Allowance(ctx context.Context, chain registry.ChainID, token, owner, spender common.Address) (*big.Int, error) {
	client, err := r.client(chain)
	if err != nil {
		return nil, err
	}

	data, err := r.erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance call: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("allowance call failed: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// GatewayAllowance returns the Permit2 allowance record for (owner, token,
// spender)
func (r *RPCReader) GatewayAllowance(ctx context.Context, chain registry.ChainID, gateway, owner, token, spender common.Address) (*GatewayAllowance, error) {
	client, err := r.client(chain)
	if err != nil {
		return nil, err
	}

	data, err := r.permit2ABI.Pack("allowance", owner, token, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack gateway allowance call: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &gateway, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway allowance call failed: %w", err)
	}

	values, err := r.permit2ABI.Unpack("allowance", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gateway allowance: %w", err)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("unexpected gateway allowance result length %d", len(values))
	}

	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected gateway allowance amount type %T", values[0])
	}
	expiration, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected gateway allowance expiration type %T", values[1])
	}

	return &GatewayAllowance{Amount: amount, Expiration: expiration.Uint64()}, nil
}

// BalanceOf returns the ERC-20 balance of account
func (r *RPCReader) BalanceOf(ctx context.Context, chain registry.ChainID, token, account common.Address) (*big.Int, error) {
	client, err := r.client(chain)
	if err != nil {
		return nil, err
	}

	data, err := r.erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// Close closes all RPC connections
func (r *RPCReader) Close() {
	for chain, client := range r.clients {
		client.Close()
		r.logger.Info("Closed RPC connection",
			zap.String("chain", registry.SlugFromChainID(chain)))
	}
}
