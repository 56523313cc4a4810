// Package mcp exposes the edge catalog to AI agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/paularlott/mcp"
	"golang.org/x/crypto/bcrypt"

	"github.com/edgecatalog/edged/internal/aggregate"
	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/lookup"
)

// Server wraps the MCP server with the catalog store and aggregator
type Server struct {
	mcpServer     *mcp.Server
	store         catalog.Store
	aggregator    *aggregate.Aggregator
	defaultRegion string
	bearerToken   string
}

// NewServer creates a new MCP server for edge location queries
func NewServer(store catalog.Store, aggregator *aggregate.Aggregator, defaultRegion, bearerToken string) *Server {
	s := &Server{
		mcpServer:     mcp.NewServer("edged", "1.0.0"),
		store:         store,
		aggregator:    aggregator,
		defaultRegion: defaultRegion,
		bearerToken:   bearerToken,
	}
	s.registerTools()
	return s
}

// registerTools registers all edge catalog tools
func (s *Server) registerTools() {
	// edge_report - Build a live report of near-edge capacity
	s.mcpServer.RegisterTool(
		mcp.NewTool("edge_report", "Collect zones and extension racks for a region and report the compute, memory and storage optimised sizes available at each edge location",
			mcp.String("region", "Provider region to report on (defaults to the configured region)"),
		),
		s.handleEdgeReport,
	)

	// edge_get - Get a single catalog record
	s.mcpServer.RegisterTool(
		mcp.NewTool("edge_get", "Get a catalogued edge location by its ID",
			mcp.String("id", "Edge location ID (zone ID or extension ID)", mcp.Required()),
		),
		s.handleEdgeGet,
	)

	// catalog_read - List the whole catalog
	s.mcpServer.RegisterTool(
		mcp.NewTool("catalog_read", "List every edge location currently in the catalog"),
		s.handleCatalogRead,
	)

	// parent_zone_get - Resolve parent availability zones
	s.mcpServer.RegisterTool(
		mcp.NewTool("parent_zone_get", "Resolve the parent availability zone for one or more edge location IDs",
			mcp.StringArray("edge_ids", "Edge location IDs to resolve", mcp.Required()),
		),
		s.handleParentZoneGet,
	)
}

// HandleRequest handles MCP HTTP requests with optional bearer token authentication
func (s *Server) HandleRequest(w http.ResponseWriter, r *http.Request) {
	log.Debug("MCP request received", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

	// Check bearer token if configured
	if s.bearerToken != "" {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			log.Warn("MCP request missing Authorization header", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Missing Authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			log.Warn("MCP request invalid Authorization format", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if !tokenMatches(s.bearerToken, token) {
			log.Warn("MCP request invalid token", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}
		log.Debug("MCP request authenticated successfully")
	}

	s.mcpServer.HandleRequest(w, r)
}

// Tool handlers

func (s *Server) handleEdgeReport(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	region := req.StringOr("region", s.defaultRegion)

	log.Debug("MCP edge report request", "region", region)
	report, errs := s.aggregator.Report(ctx, region)
	if len(errs) > 0 {
		log.Error("MCP edge report failed", "region", region, "errors", len(errs))
		return nil, mcp.NewToolErrorInternal(strings.Join(aggregate.ErrorStrings(errs), "; "))
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, mcp.NewToolErrorInternal("failed to encode report: " + err.Error())
	}

	log.Info("MCP edge report completed", "region", region, "zones", len(report.PublicNearEdgeZones))
	return mcp.NewToolResponseText(string(data)), nil
}

func (s *Server) handleEdgeGet(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	id, err := req.String("id")
	if err != nil {
		log.Warn("MCP edge get - missing ID", "error", err)
		return nil, mcp.NewToolErrorInvalidParams("id is required: " + err.Error())
	}

	log.Debug("MCP edge get request", "id", id)
	records, err := s.store.Query(id)
	if err != nil {
		log.Error("MCP edge get failed", "error", err, "id", id)
		return nil, mcp.NewToolErrorInternal("failed to query catalog: " + err.Error())
	}
	if len(records) == 0 {
		return mcp.NewToolResponseText(fmt.Sprintf("No edge location found with ID: %s", id)), nil
	}

	data, err := json.MarshalIndent(records[0], "", "  ")
	if err != nil {
		return nil, mcp.NewToolErrorInternal("failed to encode record: " + err.Error())
	}

	log.Info("MCP edge retrieved successfully", "id", id)
	return mcp.NewToolResponseText(string(data)), nil
}

func (s *Server) handleCatalogRead(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	log.Debug("MCP catalog read request")

	records, err := catalog.ScanAll(s.store)
	if err != nil {
		log.Error("MCP catalog read failed", "error", err)
		return nil, mcp.NewToolErrorInternal("failed to scan catalog: " + err.Error())
	}

	log.Info("MCP catalog read completed", "count", len(records))

	if len(records) == 0 {
		return mcp.NewToolResponseText("The catalog is empty. Run a discovery cycle first."), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Found %d edge locations:\n\n", len(records)))
	for _, record := range records {
		result.WriteString(fmt.Sprintf("ID: %s\n", record.EdgeID))
		result.WriteString(fmt.Sprintf("Type: %s\n", record.EdgeType))
		if record.ParentZoneID != "" {
			result.WriteString(fmt.Sprintf("Parent AZ: %s\n", record.ParentZoneID))
		}
		if len(record.CapacityTypes) > 0 {
			result.WriteString(fmt.Sprintf("Capacity: %s\n", strings.Join(record.CapacityTypes, ", ")))
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResponseText(result.String()), nil
}

func (s *Server) handleParentZoneGet(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	ids, err := req.StringSlice("edge_ids")
	if err != nil || len(ids) == 0 {
		log.Warn("MCP parent zone get - missing IDs")
		return nil, mcp.NewToolErrorInvalidParams("edge_ids is required")
	}

	log.Debug("MCP parent zone get request", "ids", ids)
	results, err := lookup.ParentZones(s.store, ids)
	if err != nil {
		log.Error("MCP parent zone lookup failed", "error", err)
		return nil, mcp.NewToolErrorInternal("failed to resolve parent zones: " + err.Error())
	}

	var result strings.Builder
	for _, id := range ids {
		res := results[id]
		if res.Found && res.ParentAZ != nil {
			result.WriteString(fmt.Sprintf("%s -> %s\n", id, *res.ParentAZ))
		} else {
			result.WriteString(fmt.Sprintf("%s -> not found\n", id))
		}
	}

	log.Info("MCP parent zone lookup completed", "count", len(ids))
	return mcp.NewToolResponseText(result.String()), nil
}

// tokenMatches compares the presented token against the configured one,
// which is either a bcrypt hash ("$2..." prefix) or the plain secret.
func tokenMatches(configured, presented string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

// GetHTTPHandler returns the HTTP handler for the MCP server
func (s *Server) GetHTTPHandler() http.HandlerFunc {
	return s.HandleRequest
}

// LogStartup logs MCP server startup information
func (s *Server) LogStartup() {
	log.Info("MCP Server initialized", "version", "1.0.0")
	if s.bearerToken != "" {
		log.Info("MCP authentication enabled", "type", "Bearer token")
	} else {
		log.Info("MCP authentication disabled")
	}
	tools := s.mcpServer.ListTools()
	log.Info("MCP tools registered", "count", len(tools))
	for _, tool := range tools {
		log.Debug("MCP tool registered", "name", tool.Name, "description", tool.Description)
	}
}
