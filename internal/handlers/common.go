// Package handlers exposes the routing engine over HTTP.
package handlers

import (
	"errors"
	"net/http"

	"github.com/namepay/namepay-api/internal/client/intent"
	"github.com/namepay/namepay-api/internal/client/names"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/routing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommonServices holds the dependencies shared across handlers
type CommonServices struct {
	engine   *routing.Engine
	registry *registry.Registry
	names    names.Resolver
	intents  intent.Parser
}

// NewCommonServices creates the shared handler dependency bundle. The name
// and intent clients may be nil when the collaborators are not configured;
// the endpoints that need them reject those requests.
func NewCommonServices(engine *routing.Engine, reg *registry.Registry, resolver names.Resolver, parser intent.Parser) *CommonServices {
	return &CommonServices{
		engine:   engine,
		registry: reg,
		names:    resolver,
		intents:  parser,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendError logs the error and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleRoutingError maps the engine's error taxonomy onto status codes:
// invalid input is the caller's fault, provider trouble is upstream's.
func handleRoutingError(c *gin.Context, err error) {
	var (
		unsupportedToken  *routing.UnsupportedTokenError
		unsupportedVault  *routing.UnsupportedVaultError
		invalidAllocation *routing.InvalidAllocationError
	)

	switch {
	case errors.As(err, &unsupportedToken),
		errors.As(err, &unsupportedVault),
		errors.As(err, &invalidAllocation):
		sendError(c, http.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, routing.ErrUnknownRoute):
		sendError(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, routing.ErrQuoteTimeout):
		sendError(c, http.StatusGatewayTimeout, err.Error(), err)
	case errors.Is(err, routing.ErrNoRouteFound):
		sendError(c, http.StatusNotFound, err.Error(), err)
	default:
		sendError(c, http.StatusBadRequest, err.Error(), err)
	}
}
