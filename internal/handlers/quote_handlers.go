package handlers

import (
	"net/http"

	"github.com/namepay/namepay-api/internal/client/names"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/routing"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteHandler serves route discovery
type QuoteHandler struct {
	*CommonServices
}

// NewQuoteHandler creates a quote handler
func NewQuoteHandler(common *CommonServices) *QuoteHandler {
	return &QuoteHandler{CommonServices: common}
}

// GetQuote godoc
// @Summary      Get route candidates for a payment intent
// @Description  Resolves the intent (structured or free text), applies receiver preferences, and returns ordered route candidates with economics
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request  body      types.QuoteRequest  true  "Quote request"
// @Success      200      {object}  types.QuoteResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Router       /quotes [post]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var req types.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	parsed, confidence, err := h.resolveIntent(c, &req)
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	result, err := h.engine.GetQuote(c.Request.Context(), parsed, req.Payer)
	if err != nil {
		handleRoutingError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.QuoteResponse{
		Routes:     result.Routes,
		Economics:  result.Economics,
		Confidence: confidence,
	})
}

// resolveIntent produces the structured intent from the request: the
// explicit intent, or parsed free text, with receiver-profile defaults
// filled underneath either.
func (h *QuoteHandler) resolveIntent(c *gin.Context, req *types.QuoteRequest) (*routing.ParsedIntent, *float64, error) {
	parsed := req.Intent
	var confidence *float64

	if parsed == nil {
		if req.Text == "" {
			return nil, nil, errIntentRequired
		}
		if h.intents == nil {
			return nil, nil, errIntentParserUnavailable
		}
		result, err := h.intents.Parse(c.Request.Context(), req.Text)
		if err != nil {
			return nil, nil, err
		}
		parsed = intentFromParse(result)
		confidence = &result.Confidence
	}

	if req.ReceiverName != "" && h.names != nil {
		profile, err := h.names.Resolve(c.Request.Context(), req.ReceiverName)
		if err != nil {
			// Preferences are defaults; resolution trouble does not block
			// an explicit intent
			logger.Warn("name resolution failed, continuing without preferences",
				zap.String("name", req.ReceiverName), zap.Error(err))
		} else {
			applyProfileDefaults(parsed, profile)
		}
	}

	return parsed, confidence, nil
}

// applyProfileDefaults fills unset intent fields from the receiver's
// published preferences. Explicit intent parameters always win.
func applyProfileDefaults(parsed *routing.ParsedIntent, profile *names.Profile) {
	if parsed.ToAddress == "" {
		parsed.ToAddress = profile.Address
	}
	if parsed.ToChain == "" && profile.PreferredChain != "" {
		parsed.ToChain = profile.PreferredChain
	}
	if parsed.ToToken == "" && profile.PreferredToken != "" {
		parsed.ToToken = profile.PreferredToken
	}
	if parsed.MaxFeeUSD == nil && profile.MaxFee != nil {
		maxFee := decimal.NewFromFloat(*profile.MaxFee)
		parsed.MaxFeeUSD = &maxFee
	}
	if parsed.VaultAddress == "" && profile.VaultAddress != "" {
		parsed.VaultAddress = profile.VaultAddress
	}
	if parsed.VaultProtocol == "" && profile.Strategy != "" {
		parsed.VaultProtocol = profile.Strategy
	}
	if len(parsed.Allocations) == 0 && len(profile.Strategies) > 0 {
		for _, split := range profile.Strategies {
			parsed.Allocations = append(parsed.Allocations, routing.VaultAllocation{
				VaultAddress: split.VaultAddress,
				Percentage:   split.Percentage,
			})
		}
	}
}
