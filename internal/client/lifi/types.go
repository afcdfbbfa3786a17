package lifi

// Request and response shapes for the LI.FI quoting API. Three call modes
// share the response shape: a plain quote, a vault-destination quote (the
// backend detects a vault token and plans the deposit), and a contract-calls
// quote (bridge plus destination-chain calls, executed atomically).

// QuoteRequest is the plain swap/bridge quote request
type QuoteRequest struct {
	FromChain   uint64 `json:"fromChain"`
	ToChain     uint64 `json:"toChain"`
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	FromAmount  string `json:"fromAmount"`
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Slippage    string `json:"slippage,omitempty"`
	Order       string `json:"order,omitempty"`
}

// ContractCall is one destination-chain call in a contract-calls quote
type ContractCall struct {
	FromAmount         string `json:"fromAmount"`
	FromTokenAddress   string `json:"fromTokenAddress"`
	ToContractAddress  string `json:"toContractAddress"`
	ToContractCallData string `json:"toContractCallData"`
	ToContractGasLimit string `json:"toContractGasLimit"`
}

// ContractCallsQuoteRequest bridges funds and then invokes the listed
// destination calls atomically
type ContractCallsQuoteRequest struct {
	FromChain     uint64         `json:"fromChain"`
	ToChain       uint64         `json:"toChain"`
	FromToken     string         `json:"fromToken"`
	ToToken       string         `json:"toToken"`
	FromAmount    string         `json:"fromAmount"`
	FromAddress   string         `json:"fromAddress"`
	ToAddress     string         `json:"toAddress"`
	ContractCalls []ContractCall `json:"contractCalls"`
}

// IncludedStep is one tool invocation inside a quoted route
type IncludedStep struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Tool string `json:"tool"`
}

// GasCost is one gas expense item in an estimate
type GasCost struct {
	Type      string `json:"type"`
	AmountUSD string `json:"amountUSD"`
	Amount    string `json:"amount"`
	Token     Token  `json:"token"`
}

// Token identifies a token inside an estimate
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	ChainID  uint64 `json:"chainId"`
}

// FeeCost is one provider fee item in an estimate
type FeeCost struct {
	Name      string `json:"name"`
	AmountUSD string `json:"amountUSD"`
	Amount    string `json:"amount"`
	Token     Token  `json:"token"`
}

// Estimate carries the quoted outcome
type Estimate struct {
	ToAmount          string    `json:"toAmount"`
	ToAmountMin       string    `json:"toAmountMin"`
	GasCosts          []GasCost `json:"gasCosts"`
	FeeCosts          []FeeCost `json:"feeCosts"`
	ExecutionDuration int       `json:"executionDuration"`
}

// TransactionRequest is the signable payload for the quoted route
type TransactionRequest struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	ChainID  uint64 `json:"chainId"`
	GasLimit string `json:"gasLimit,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
}

// Quote is the common response shape for all three call modes
type Quote struct {
	ID                 string             `json:"id"`
	Tool               string             `json:"tool"`
	IncludedSteps      []IncludedStep     `json:"includedSteps"`
	Estimate           Estimate           `json:"estimate"`
	TransactionRequest TransactionRequest `json:"transactionRequest"`
}

// apiError is the provider's error envelope
type apiError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}
