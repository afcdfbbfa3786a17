package handlers

import (
	"net/http"
	"sort"

	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/gin-gonic/gin"
)

// RegistryHandler serves the read-only token and chain listings
type RegistryHandler struct {
	*CommonServices
}

// NewRegistryHandler creates a registry handler
func NewRegistryHandler(common *CommonServices) *RegistryHandler {
	return &RegistryHandler{CommonServices: common}
}

// ListTokens godoc
// @Summary      List supported tokens
// @Tags         registry
// @Produce      json
// @Success      200  {array}  types.TokenInfo
// @Router       /tokens [get]
func (h *RegistryHandler) ListTokens(c *gin.Context) {
	tokens := h.registry.Tokens()

	out := make([]types.TokenInfo, 0, len(tokens))
	for symbol, token := range tokens {
		chains := make(map[string]string, len(token.PerChainAddress))
		for chainID, addr := range token.PerChainAddress {
			chains[registry.SlugFromChainID(chainID)] = addr.Hex()
		}
		out = append(out, types.TokenInfo{
			Symbol:   symbol,
			Decimals: token.Decimals,
			Category: string(token.Category),
			Chains:   chains,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   out,
	})
}

// ListChains godoc
// @Summary      List supported chains
// @Tags         registry
// @Produce      json
// @Success      200  {array}  types.ChainInfo
// @Router       /chains [get]
func (h *RegistryHandler) ListChains(c *gin.Context) {
	chains := h.registry.Chains()

	out := make([]types.ChainInfo, 0, len(chains))
	for _, chainID := range chains {
		_, hasHook := h.registry.HookChain(chainID)
		out = append(out, types.ChainInfo{
			Slug:    registry.SlugFromChainID(chainID),
			ChainID: uint64(chainID),
			Hub:     chainID == registry.HubChain,
			HasHook: hasHook,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   out,
	})
}
