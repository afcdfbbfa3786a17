package handlers

import (
	"net/http"

	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransactionHandler serves transaction construction for chosen routes
type TransactionHandler struct {
	*CommonServices
}

// NewTransactionHandler creates a transaction handler
func NewTransactionHandler(common *CommonServices) *TransactionHandler {
	return &TransactionHandler{CommonServices: common}
}

// BuildTransaction godoc
// @Summary      Build the signable transaction for a chosen route
// @Description  Re-derives the quoted route and returns signable transaction data; hook routes with pending approvals return the approval step instead
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      types.BuildTransactionRequest  true  "Build request"
// @Success      200      {object}  types.BuildTransactionResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) BuildTransaction(c *gin.Context) {
	var req types.BuildTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	intent := req.Intent
	if req.ReceiverName != "" && h.names != nil {
		profile, err := h.names.Resolve(c.Request.Context(), req.ReceiverName)
		if err != nil {
			logger.Warn("name resolution failed, continuing without preferences",
				zap.String("name", req.ReceiverName), zap.Error(err))
		} else {
			applyProfileDefaults(intent, profile)
		}
	}

	tx, err := h.engine.BuildTransaction(c.Request.Context(), req.RouteID, intent, req.Payer)
	if err != nil {
		handleRoutingError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.BuildTransactionResponse{
		Transaction:      *tx,
		ApprovalRequired: tx.IsApproval(),
	})
}
