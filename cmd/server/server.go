package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/paularlott/cli"

	"github.com/edgecatalog/edged/internal/aggregate"
	"github.com/edgecatalog/edged/internal/api"
	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/collector"
	"github.com/edgecatalog/edged/internal/config"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/mcp"
	"github.com/edgecatalog/edged/internal/worker"
)

// ServerConfig holds the wired-up components for running the server
type ServerConfig struct {
	Config     *config.Config
	Store      catalog.Store
	Aggregator *aggregate.Aggregator
	Runner     *worker.Runner
	Scheduler  *worker.Scheduler
	MCPServer  *mcp.Server
	APIHandler *api.Handler
}

// RunServer starts the edged server with the given configuration
func RunServer(cfg *ServerConfig) error {
	// Setup HTTP routes
	mux := http.NewServeMux()

	// API routes
	cfg.APIHandler.RegisterRoutes(mux)

	// MCP endpoint
	mux.HandleFunc("/mcp", cfg.MCPServer.GetHTTPHandler())

	// Apply middleware
	var handler http.Handler = mux
	if cfg.Config.IsAPIAuthEnabled() {
		handler = api.AuthMiddleware(cfg.Config.APIAuthToken, handler)
	}
	handler = api.SecurityHeadersMiddleware(handler)

	// Start scheduler if a refresh schedule is configured
	if cfg.Scheduler != nil {
		if err := cfg.Scheduler.Start(cfg.Config.RefreshSchedule); err != nil {
			log.Error("Failed to start discovery scheduler", "error", err)
			return err
		}
		defer cfg.Scheduler.Stop()
	}

	// Start server
	server := &http.Server{
		Addr:    cfg.Config.ListenAddr,
		Handler: handler,
	}

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down server...")
		server.Close()
	}()

	// Log startup info
	log.Info("Starting edged server", "addr", cfg.Config.ListenAddr)
	log.Info("API available", "url", "http://localhost"+cfg.Config.ListenAddr+"/api/")
	log.Info("MCP available", "url", "http://localhost"+cfg.Config.ListenAddr+"/mcp")
	if cfg.Config.IsAPIAuthEnabled() {
		log.Info("API authentication enabled")
	}
	cfg.MCPServer.LogStartup()

	// Start serving
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "server",
		Usage:       "Start the edged server",
		Description: "Start the HTTP server with API and MCP endpoints",
		Flags:       config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			log.Info("Configuration loaded",
				"data_dir", cfg.DataDir,
				"listen_addr", cfg.ListenAddr,
				"region", cfg.Region,
				"metadata_url", cfg.MetadataURL)

			// Initialize the catalog store (SQLite)
			store, err := catalog.NewSQLiteStore(cfg.DataDir)
			if err != nil {
				log.Error("Failed to initialize catalog store", "error", err)
				return err
			}
			defer store.Close()
			log.Info("Catalog store initialized", "backend", "SQLite", "path", cfg.DataDir)

			// Both collectors talk to the same metadata service
			client := collector.NewClient(cfg.MetadataURL, cfg.RequestTimeout)

			aggregator := aggregate.New(client, client)
			runner := worker.NewRunner(client, client, store)

			var scheduler *worker.Scheduler
			if cfg.RefreshSchedule != "" {
				scheduler = worker.NewScheduler(runner, cfg.Region)
			}

			// Create API handler and MCP server
			apiHandler := api.NewHandler(store, aggregator, runner, cfg.Region)
			mcpServer := mcp.NewServer(store, aggregator, cfg.Region, cfg.MCPAuthToken)

			return RunServer(&ServerConfig{
				Config:     cfg,
				Store:      store,
				Aggregator: aggregator,
				Runner:     runner,
				Scheduler:  scheduler,
				MCPServer:  mcpServer,
				APIHandler: apiHandler,
			})
		},
	}
}
