package handlers

import (
	"errors"

	"github.com/namepay/namepay-api/internal/client/intent"
	"github.com/namepay/namepay-api/internal/routing"

	"github.com/shopspring/decimal"
)

var (
	errIntentRequired          = errors.New("either intent or text is required")
	errIntentParserUnavailable = errors.New("free-text intents are not enabled on this deployment")
)

// intentFromParse maps the intent service's result into the engine's
// intent shape. Everything here is re-validated by the engine.
func intentFromParse(result *intent.ParseResult) *routing.ParsedIntent {
	parsed := &routing.ParsedIntent{
		Action:       routing.Action(result.Action),
		FromToken:    result.Token,
		ToToken:      result.DestToken,
		Amount:       result.Amount,
		FromChain:    result.SourceChain,
		ToChain:      result.DestChain,
		ToAddress:    result.Recipient,
		VaultAddress: result.VaultAddress,
	}
	if parsed.Action == "" {
		parsed.Action = routing.ActionTransfer
	}
	if result.Strategy != "" {
		parsed.VaultProtocol = result.Strategy
	}
	if result.MaxFee != nil {
		maxFee := decimal.NewFromFloat(*result.MaxFee)
		parsed.MaxFeeUSD = &maxFee
	}
	return parsed
}
