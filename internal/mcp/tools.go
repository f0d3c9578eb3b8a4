// ABOUTME: MCP tool definitions and registration for the profile server
// ABOUTME: Defines JSON schemas for the ingestion, retrieval, and stats tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/oceanloop/argonaut/internal/pipeline"
	"github.com/oceanloop/argonaut/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, pl *pipeline.Pipeline) *Handlers {
	handlers := &Handlers{
		storage:  store,
		pipeline: pl,
	}

	// 1. ingest_file - Run one profile file through the pipeline
	server.AddTool(mcp.Tool{
		Name:        "ingest_file",
		Description: "Ingest an Argo profile file: validate, extract, deduplicate by content, store, and index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the NetCDF profile file",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.IngestFile)

	// 2. query_profiles - Free-text retrieval over indexed profiles
	server.AddTool(mcp.Tool{
		Name:        "query_profiles",
		Description: "Find stored ocean profiles most relevant to a free-text question using semantic search.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text question about ocean conditions",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of profiles to return (default: 5, cap: 10)",
					"default":     5,
				},
				"include_measurements": map[string]interface{}{
					"type":        "boolean",
					"description": "Include each profile's depth-ordered measurements",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.QueryProfiles)

	// 3. get_profile - Fetch one profile with its metadata
	server.AddTool(mcp.Tool{
		Name:        "get_profile",
		Description: "Get a stored profile by id, including its station parameter metadata.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"profile_id": map[string]interface{}{
					"type":        "number",
					"description": "Profile id assigned at ingestion",
				},
			},
			Required: []string{"profile_id"},
		},
	}, handlers.GetProfile)

	// 4. get_measurements - Fetch a profile's measurement records
	server.AddTool(mcp.Tool{
		Name:        "get_measurements",
		Description: "Get a profile's measurements ordered from shallowest to deepest.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"profile_id": map[string]interface{}{
					"type":        "number",
					"description": "Profile id assigned at ingestion",
				},
			},
			Required: []string{"profile_id"},
		},
	}, handlers.GetMeasurements)

	// 5. filter_profiles - Structured filtering by float, date, and box
	server.AddTool(mcp.Tool{
		Name:        "filter_profiles",
		Description: "List stored profiles matching structured filters: float id, date range, bounding box. All filters optional and combined with AND.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"float_id": map[string]interface{}{
					"type":        "string",
					"description": "Exact float identifier",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "Inclusive lower bound, RFC 3339 or YYYY-MM-DD",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "Inclusive upper bound, RFC 3339 or YYYY-MM-DD",
				},
				"min_lat": map[string]interface{}{"type": "number"},
				"max_lat": map[string]interface{}{"type": "number"},
				"min_lon": map[string]interface{}{"type": "number"},
				"max_lon": map[string]interface{}{"type": "number"},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum rows to return (default: 100)",
				},
			},
		},
	}, handlers.FilterProfiles)

	// 6. nearest_profiles - Geodesic search around a point
	server.AddTool(mcp.Tool{
		Name:        "nearest_profiles",
		Description: "Find profiles within a radius of a point, closest first, capped at 50 results.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"latitude":  map[string]interface{}{"type": "number"},
				"longitude": map[string]interface{}{"type": "number"},
				"radius_km": map[string]interface{}{
					"type":        "number",
					"description": "Search radius in kilometers (default: 500)",
					"default":     500,
				},
			},
			Required: []string{"latitude", "longitude"},
		},
	}, handlers.NearestProfiles)

	// 7. database_stats - Aggregate store statistics
	server.AddTool(mcp.Tool{
		Name:        "database_stats",
		Description: "Get aggregate statistics: profile and measurement counts, unique floats, date and geographic coverage.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.DatabaseStats)

	return handlers
}
