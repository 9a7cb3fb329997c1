// Sheets Bridge - exports WooCommerce orders to Google Sheets via a
// deployed Apps Script web app. Designed for Cloud Run deployment with
// stateless operation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheets-bridge/internal/config"
	"sheets-bridge/internal/export"
	"sheets-bridge/internal/handler"
	"sheets-bridge/internal/middleware"
	"sheets-bridge/internal/script"
	"sheets-bridge/internal/selection"
	"sheets-bridge/internal/transport"
	"sheets-bridge/internal/woocommerce"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("store_id", cfg.StoreID),
		slog.String("environment", cfg.Environment),
		slog.Bool("export_enabled", cfg.Export.Enabled),
		slog.String("sheet_mode", cfg.Export.SheetMode),
	)

	// Create the WooCommerce order source
	var storeTransport http.RoundTripper
	if cfg.Store.UseBrowserTLS {
		storeTransport = transport.NewChromeTransport(30 * time.Second)
	}
	source, err := woocommerce.New(woocommerce.Config{
		StoreURL:       cfg.Store.StoreURL,
		ConsumerKey:    cfg.Store.ConsumerKey,
		ConsumerSecret: cfg.Store.ConsumerSecret,
		PriceDecimals:  cfg.Store.PriceDecimals,
		Transport:      storeTransport,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating store client: %w", err)
	}

	// Resolve the effective field selection from the stored value
	fieldIDs := selection.Effective(cfg.Export.SelectedFields, cfg.Export.ProActive)

	engine := &selection.Engine{
		Statuses:    cfg.Export.Statuses,
		CategoryIDs: cfg.Export.CategoryIDs,
	}

	dispatcher := export.NewDispatcher(export.Options{
		Endpoint:   cfg.Export.ScriptURL,
		Enabled:    cfg.Export.Enabled,
		Timeout:    cfg.Export.Timeout(),
		RetryDelay: cfg.Export.RetryDelay(),
	}, engine, fieldIDs, logger)

	mode, err := script.ParseMode(cfg.Export.SheetMode)
	if err != nil {
		return fmt.Errorf("parsing sheet mode: %w", err)
	}

	// Create handler
	h := handler.New(source, dispatcher, script.Options{
		FieldIDs:  fieldIDs,
		Mode:      mode,
		Template:  cfg.Export.SheetTemplate,
		SiteName:  cfg.SiteName(),
		ProActive: cfg.Export.ProActive,
	}, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → logging → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
