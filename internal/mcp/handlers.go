// ABOUTME: MCP tool handler implementations for the profile server
// ABOUTME: Thin adapters from tool arguments to the pipeline and storage APIs
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/oceanloop/argonaut/internal/models"
	"github.com/oceanloop/argonaut/internal/pipeline"
	"github.com/oceanloop/argonaut/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage  *sqlite.Storage
	pipeline *pipeline.Pipeline
}

// IngestFile handles the ingest_file tool
func (h *Handlers) IngestFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}

	result := h.pipeline.IngestFile(ctx, path)
	return jsonResult(result)
}

// QueryProfiles handles the query_profiles tool
func (h *Handlers) QueryProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)
	includeMeasurements := request.GetBool("include_measurements", false)

	if includeMeasurements {
		matches, err := h.pipeline.QueryWithMeasurements(ctx, query, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"query":   query,
			"matches": matches,
		})
	}

	matches, err := h.pipeline.Query(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"query":   query,
		"matches": matches,
	})
}

// GetProfile handles the get_profile tool
func (h *Handlers) GetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(request.GetInt("profile_id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("profile_id argument is required and must be a positive number"), nil
	}

	profile, err := h.storage.GetProfile(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get profile: %v", err)), nil
	}
	if profile == nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile %d not found", id)), nil
	}

	metadata, err := h.storage.MetadataForProfile(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get metadata: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"profile":  profile,
		"metadata": metadata,
	})
}

// GetMeasurements handles the get_measurements tool
func (h *Handlers) GetMeasurements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(request.GetInt("profile_id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("profile_id argument is required and must be a positive number"), nil
	}

	measurements, err := h.storage.MeasurementsForProfile(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get measurements: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"profile_id":   id,
		"count":        len(measurements),
		"measurements": measurements,
	})
}

// FilterProfiles handles the filter_profiles tool
func (h *Handlers) FilterProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := sqlite.ProfileFilter{
		FloatID: request.GetString("float_id", ""),
		Limit:   request.GetInt("limit", 0),
	}

	if s := request.GetString("start_date", ""); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date: %v", err)), nil
		}
		filter.StartDate = &t
	}
	if s := request.GetString("end_date", ""); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %v", err)), nil
		}
		filter.EndDate = &t
	}

	for _, bound := range []struct {
		key  string
		dest **float64
	}{
		{"min_lat", &filter.MinLat},
		{"max_lat", &filter.MaxLat},
		{"min_lon", &filter.MinLon},
		{"max_lon", &filter.MaxLon},
	} {
		args := request.GetArguments()
		if raw, ok := args[bound.key]; ok {
			if v, ok := raw.(float64); ok {
				*bound.dest = models.Float(v)
			}
		}
	}

	profiles, err := h.storage.FilterProfiles(filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("filter failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"count":    len(profiles),
		"profiles": profiles,
	})
}

// NearestProfiles handles the nearest_profiles tool
func (h *Handlers) NearestProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := request.RequireFloat("latitude")
	if err != nil {
		return mcp.NewToolResultError("latitude argument is required and must be a number"), nil
	}
	lon, err := request.RequireFloat("longitude")
	if err != nil {
		return mcp.NewToolResultError("longitude argument is required and must be a number"), nil
	}
	radius := request.GetFloat("radius_km", 500)

	results, err := h.storage.NearestProfiles(lat, lon, radius)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("nearest search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
		"radius_km": radius,
		"count":     len(results),
		"profiles":  results,
	})
}

// DatabaseStats handles the database_stats tool
func (h *Handlers) DatabaseStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.storage.Summary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute stats: %v", err)), nil
	}
	return jsonResult(stats)
}

// jsonResult marshals v as the tool's text payload.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// parseDate accepts RFC 3339 or plain YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
