package main

import (
	"context"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"

	"github.com/edgecatalog/edged/cmd/catalog"
	"github.com/edgecatalog/edged/cmd/discover"
	"github.com/edgecatalog/edged/cmd/server"
	"github.com/edgecatalog/edged/cmd/token"
	"github.com/edgecatalog/edged/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console")

	rootCmd := &cli.Command{
		Name:        "edged",
		Version:     version,
		Usage:       "Edge location discovery and catalog service with MCP support",
		Description: "Discovers near-edge zones and extension racks from the provider metadata service, classifies their capacity and serves the catalog over HTTP, CLI and MCP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"EDGED_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: "console",
				EnvVars:      []string{"EDGED_LOG_FORMAT"},
				Global:       true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logLevel := cmd.GetString("log-level")
			logFormat := cmd.GetString("log-format")
			log.Configure(logLevel, logFormat)
			return ctx, nil
		},
		Commands: []*cli.Command{
			server.Command(),
			discover.Command(),
			{
				Name:        "catalog",
				Usage:       "Catalog inspection commands",
				Description: "Inspect the local edge location catalog",
				Commands:    catalog.Commands(),
			},
			token.Command(),
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
