// Package config holds the runtime configuration shared by the server
// and CLI commands.
package config

import (
	"fmt"
	"time"

	"github.com/paularlott/cli"
)

// DefaultRegion is used when a request or command omits the region. It
// is applied only at the outermost entry points; everything below takes
// the region explicitly.
const DefaultRegion = "us-east-1"

// Config holds the application configuration.
type Config struct {
	DataDir         string
	ListenAddr      string
	APIAuthToken    string
	MCPAuthToken    string
	Region          string
	MetadataURL     string
	RequestTimeout  time.Duration
	RefreshSchedule string // cron expression or descriptor; empty disables the scheduler
}

var current = &Config{}

// GetFlags returns the CLI flags that populate the configuration.
// Values resolve with the usual priority: flag, then environment
// variable, then default.
func GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:         "data-dir",
			Usage:        "Directory holding the catalog database",
			DefaultValue: "./data",
			EnvVars:      []string{"EDGED_DATA_DIR"},
			AssignTo:     &current.DataDir,
		},
		&cli.StringFlag{
			Name:         "addr",
			Usage:        "Server listen address",
			DefaultValue: ":8080",
			EnvVars:      []string{"EDGED_LISTEN_ADDR"},
			AssignTo:     &current.ListenAddr,
		},
		&cli.StringFlag{
			Name:     "api-token",
			Usage:    "API bearer token (plain or bcrypt hash; empty disables auth)",
			EnvVars:  []string{"EDGED_API_TOKEN"},
			AssignTo: &current.APIAuthToken,
		},
		&cli.StringFlag{
			Name:     "mcp-token",
			Usage:    "MCP bearer token (plain or bcrypt hash; empty disables auth)",
			EnvVars:  []string{"EDGED_MCP_TOKEN"},
			AssignTo: &current.MCPAuthToken,
		},
		&cli.StringFlag{
			Name:         "region",
			Usage:        "Provider region to discover",
			DefaultValue: DefaultRegion,
			EnvVars:      []string{"EDGED_REGION"},
			AssignTo:     &current.Region,
		},
		&cli.StringFlag{
			Name:         "metadata-url",
			Usage:        "Base URL of the provider metadata service",
			DefaultValue: "http://localhost:9090",
			EnvVars:      []string{"EDGED_METADATA_URL"},
			AssignTo:     &current.MetadataURL,
		},
		&cli.StringFlag{
			Name:    "refresh-schedule",
			Usage:   "Cron schedule for catalog refresh (e.g. '@every 15m'; empty disables)",
			EnvVars: []string{"EDGED_REFRESH_SCHEDULE"},
			AssignTo: &current.RefreshSchedule,
		},
		&cli.StringFlag{
			Name:         "request-timeout",
			Usage:        "Timeout for collector requests (Go duration)",
			DefaultValue: "30s",
			EnvVars:      []string{"EDGED_REQUEST_TIMEOUT"},
		},
	}
}

// Load finalises the configuration after flag parsing.
func Load(cmd *cli.Command) (*Config, error) {
	timeout, err := time.ParseDuration(cmd.GetString("request-timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid request-timeout: %w", err)
	}
	current.RequestTimeout = timeout

	if current.Region == "" {
		current.Region = DefaultRegion
	}

	return current, nil
}

// IsAPIAuthEnabled reports whether API requests require a bearer token.
func (c *Config) IsAPIAuthEnabled() bool {
	return c.APIAuthToken != ""
}

// IsMCPAuthEnabled reports whether MCP requests require a bearer token.
func (c *Config) IsMCPAuthEnabled() bool {
	return c.MCPAuthToken != ""
}
