package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"token_dashboard/internal/access"    // Token-balance gate
	"token_dashboard/internal/api"       // API handlers
	"token_dashboard/internal/auth"      // Session manager and auth provider
	"token_dashboard/internal/chain"     // Ledger client
	"token_dashboard/internal/config"    // Configuration
	"token_dashboard/internal/dashboard" // Data gateway
	"token_dashboard/internal/store"     // Project/row store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Fail once at startup instead of per request on missing_env
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Construct the collaborators explicitly; nothing is a global singleton
	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.AuthDomain)                 // Session verifier
	provider := auth.NewHTTPProvider(cfg.AuthServiceURL, cfg.AuthDomain, cfg.ChainID) // Wallet-auth service client
	ledger := chain.NewClient(cfg.ChainRPCURL, cfg.AccessContract)                    // Ledger client
	gate := access.NewGate(ledger)                                                    // Token-balance gate
	projects := store.New(db)                                                         // Project/row store
	gateway := dashboard.NewGateway(sessions, gate, projects)                         // Data gateway

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes (wallet login flow)
	r.POST("/auth/payload", api.PayloadHandler(provider))                   // Login payload generation
	r.POST("/auth/login", api.LoginHandler(provider, sessions, cfg.IsProd)) // Signed payload verification + session cookie
	r.POST("/auth/logout", api.LogoutHandler())                             // Session teardown
	r.GET("/auth/status", api.StatusHandler(sessions))                      // Session check

	// Data routes
	apiGroup := r.Group("/api")
	apiGroup.GET("/projects", api.ListProjectsHandler(projects, redisClient)) // Public project listing (cached)
	apiGroup.GET("/data/:projectId", api.DataByTokenHandler(gateway))         // Public lookup by base token id
	apiGroup.GET("/data/:projectId/:role", api.DataHandler(gateway))          // Token-gated dashboard fetch

	// Debug routes
	apiGroup.GET("/debug/ping", api.PingHandler(cfg))                     // Cookie/config presence
	apiGroup.GET("/debug/balances", api.BalancesHandler(sessions, ledger)) // Per-role balance dump

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
