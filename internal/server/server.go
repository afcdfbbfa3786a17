// Package server wires the configuration, stores, clients, routing engine,
// and HTTP routes into a runnable API server.
package server

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/namepay/namepay-api/internal/client/chain"
	"github.com/namepay/namepay-api/internal/client/intent"
	"github.com/namepay/namepay-api/internal/client/lifi"
	"github.com/namepay/namepay-api/internal/client/names"
	"github.com/namepay/namepay-api/internal/config"
	"github.com/namepay/namepay-api/internal/handlers"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/middleware"
	"github.com/namepay/namepay-api/internal/registry"
	"github.com/namepay/namepay-api/internal/routing"
	"github.com/namepay/namepay-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Server is the assembled API process
type Server struct {
	router *gin.Engine
	pool   *pgxpool.Pool
	reader *chain.RPCReader
}

// New builds the full dependency graph from configuration. The quote cache
// and ledger run on postgres when DATABASE_URL is set, in memory otherwise.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{}

	var kv store.Store = store.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		poolConfig.MaxConns = 20
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = time.Minute * 30

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}
		s.pool = pool
		kv = store.NewPostgresStore(pool)
		logger.Info("quote cache and ledger backed by postgres")
	} else {
		logger.Info("no DATABASE_URL set, quote cache and ledger run in memory")
	}

	reader, err := chain.NewRPCReader(cfg.RPCURLs)
	if err != nil {
		return nil, err
	}
	s.reader = reader

	reg := registry.Default()

	quoter := lifi.NewClient(
		lifi.WithBaseURL(cfg.LiFiBaseURL),
		lifi.WithAPIKey(cfg.LiFiAPIKey),
	)

	clock := store.SystemClock{}
	bridge := routing.NewBridgeRouter(quoter, kv, reg, cfg.QuoteCacheTTL, cfg.QuoteTimeout)
	hook := routing.NewHookRouter(reg, reader, clock)
	vault := routing.NewVaultRouter(bridge, reg, registry.BaseRestakingRouter)
	ledger := routing.NewLedger(kv, clock)
	engine := routing.NewEngine(reg, bridge, hook, vault, ledger, routing.DefaultEconomicsPolicy())

	var resolver names.Resolver
	if cfg.NameServiceURL != "" {
		resolver = names.NewClient(cfg.NameServiceURL)
	}
	var parser intent.Parser
	if cfg.IntentServiceURL != "" {
		parser = intent.NewClient(cfg.IntentServiceURL)
	}

	common := handlers.NewCommonServices(engine, reg, resolver, parser)
	s.router = buildRouter(cfg, common)

	return s, nil
}

// Router returns the assembled gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close releases the server's long-lived resources
func (s *Server) Close() {
	if s.reader != nil {
		s.reader.Close()
	}
	if s.pool != nil {
		s.pool.Close()
		logger.Info("closed database pool")
	}
}

func buildRouter(cfg *config.Config, common *handlers.CommonServices) *gin.Engine {
	if cfg.Stage == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Health)

	quoteHandler := handlers.NewQuoteHandler(common)
	transactionHandler := handlers.NewTransactionHandler(common)
	registryHandler := handlers.NewRegistryHandler(common)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKey(cfg.APIKey))
	v1.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	{
		v1.POST("/quotes", quoteHandler.GetQuote)
		v1.POST("/transactions", transactionHandler.BuildTransaction)

		v1.GET("/tokens", registryHandler.ListTokens)
		v1.GET("/chains", registryHandler.ListChains)
	}

	logger.Info("routes initialized", zap.Int("count", len(router.Routes())))
	return router
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CorrelationIDHeader}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
