package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slot-aggregator/core/loader"
	"slot-aggregator/core/logger"
	"slot-aggregator/core/middleware/auth"
	"slot-aggregator/core/middleware/rayid"
	"slot-aggregator/core/scrape"

	"slot-aggregator/feature/availability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "slot-aggregator/docs/swagger"
)

// @title Slot Aggregator API
// @version 1.0
// @description Consolidated appointment availability of medical providers.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the availability server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// 1. Load Configuration, Logger and Store
		e, err := setup(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()

		refresh := func(ctx context.Context) (*scrape.Report, error) {
			return e.runBatch(ctx, batch{})
		}
		ttl := time.Duration(e.cfg.Scrape.CacheTTLSeconds) * time.Second

		// Register Features
		mgr.Register(availability.NewFeature(e.store, logg, ttl, refresh, e.geocoder()))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API, health stays public for liveness checks)
		if !e.cfg.Server.AuthEnabled() {
			logg.Warn("API key is empty, authentication disabled")
		}
		app.Use(auth.New(auth.Config{
			ApiKey: e.cfg.Server.ApiKey,
			Skip:   []string{"/health"},
		}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", e.cfg.Server.Address()))
			if err := app.Listen(e.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
