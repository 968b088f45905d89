// Package tools provides the Naver Maps MCP tool implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MapsClient is the subset of the Naver client the tools depend on.
type MapsClient interface {
	Geocode(ctx context.Context, p naver.GeocodeParams) (*naver.GeocodeResponse, error)
	SearchLocal(ctx context.Context, p naver.LocalSearchParams) (*naver.LocalSearchResponse, error)
	Directions(ctx context.Context, p naver.DirectionsParams) (*naver.DirectionsResponse, error)
}

// Registry holds all MCP tool registrations for the Naver Maps service.
type Registry struct {
	logger *slog.Logger
	client MapsClient
	radius *search.RadiusSearcher
}

// NewRegistry creates a new MCP tool registry backed by client.
func NewRegistry(logger *slog.Logger, client MapsClient) *Registry {
	return &Registry{
		logger: logger,
		client: client,
		radius: search.NewRadiusSearcher(client, logger.With("tool", "localSearchByCoordinate")),
	}
}

// ToolDefinition represents a Naver Maps MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     server.ToolHandlerFunc
}

// GetToolDefinitions returns all Naver Maps MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "geocode",
			Description: "Searches for address information related to the entered address",
			Tool:        GeocodeTool(),
			Handler:     r.HandleGeocode,
		},
		{
			Name:        "localSearch",
			Description: "Searches for places registered with Naver's local service",
			Tool:        LocalSearchTool(),
			Handler:     r.HandleLocalSearch,
		},
		{
			Name:        "localSearchByCoordinate",
			Description: "Searches for places within a specific radius from a coordinate",
			Tool:        LocalSearchByCoordinateTool(),
			Handler:     r.HandleLocalSearchByCoordinate,
		},
		{
			Name:        "directions",
			Description: "Gets driving directions between two coordinates",
			Tool:        DirectionsTool(),
			Handler:     r.HandleDirections,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}

// numberArg looks up a numeric argument. found is false when the key is
// absent or null; a present value that is not a JSON number is an error.
func numberArg(req mcp.CallToolRequest, key string) (v float64, found bool, err error) {
	raw, ok := req.Params.Arguments[key]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		if v, err = n.Float64(); err != nil {
			return 0, true, fmt.Errorf("%s must be a number", key)
		}
	default:
		return 0, true, fmt.Errorf("%s must be a number", key)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("%s must be a finite number", key)
	}
	return v, true, nil
}

// requiredNumber reads a numeric argument that must be present.
func requiredNumber(req mcp.CallToolRequest, key string) (float64, error) {
	v, found, err := numberArg(req, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// parseWholeNumber reads an optional numeric argument that must hold an
// integer, returning def when it is absent.
func parseWholeNumber(req mcp.CallToolRequest, key string, def int) (int, error) {
	v, found, err := numberArg(req, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return def, nil
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return int(v), nil
}

func oneOf[T ~string](value T, allowed ...T) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
