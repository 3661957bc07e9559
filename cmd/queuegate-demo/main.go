// Command queuegate-demo runs a small protected site showing the connector
// wired as Gin middleware, together with a mock waiting-room endpoint so the
// full redirect round trip works offline.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector"
	"github.com/AtRiskMedia/queuegate-go/pkg/connector/integration"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	settingsPath := os.Getenv("QUEUEGATE_SETTINGS")
	if settingsPath == "" {
		settingsPath = "queuegate.yaml"
	}
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Startup().Info("Starting queuegate-demo", "listenAddr", settings.ListenAddr, "customerId", settings.CustomerID)

	gate := connector.New(logger)

	// The integration-config path needs an API key; without one the demo
	// validates against the local event config only.
	var provider *integration.Provider
	if settings.APIKey != "" {
		provider = integration.NewProvider(settings.CustomerID, settings.APIKey, logger)
		defer provider.Close()
	}

	app := &demoApp{
		settings:  settings,
		connector: gate,
		provider:  provider,
		logger:    logger,
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"x-queueit-ajaxpageurl",
		},
		AllowCredentials: true,
		ExposeHeaders:    []string{"x-queueit-redirect"},
	}))

	// Mock waiting room: issues signed tokens and sends the visitor back.
	r.GET("/waitingroom", app.WaitingRoomHandler)

	// Admin surface for inspecting the diagnostics trace cookie.
	r.POST("/admin/login", app.AdminLoginHandler)
	r.GET("/admin/debug-trace", app.AdminAuthMiddleware(), app.DebugTraceHandler)

	// Everything under /shop is protected by the connector.
	shop := r.Group("/shop", app.KnownUserMiddleware())
	{
		shop.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "storefront", "queued": false})
		})
		shop.GET("/checkout", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "checkout", "queued": false})
		})
	}

	logger.Startup().Info("Listening", "addr", settings.ListenAddr)
	if err := r.Run(settings.ListenAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
