package tools

import (
	"context"
	"strings"

	"github.com/NERVsystems/navermcp/pkg/geo"
	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// Parameter bounds shared by both local search tools.
const (
	MaxDisplay       = 5
	DefaultDisplay   = 5
	MinRadius        = 1
	MaxRadius        = 10000
	DefaultRadius    = 1000
	MaxMinResults    = 5
	DefaultMinResult = 1
)

const sortDescription = "sorting method. random: sorted by correctness. comment: sorted by a number of reviews (descending)"

// LocalSearchTool returns a tool definition for local business search
func LocalSearchTool() mcp.Tool {
	return mcp.NewTool("localSearch",
		mcp.WithDescription("Searches for places registered with Naver's local service."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("query used for search"),
		),
		mcp.WithNumber("display",
			mcp.Description("number of search results to display in response"),
			mcp.Min(0),
			mcp.Max(MaxDisplay),
			mcp.DefaultNumber(DefaultDisplay),
		),
		mcp.WithString("sort",
			mcp.Description(sortDescription),
			mcp.Enum(naver.SortRandom, naver.SortComment),
			mcp.DefaultString(naver.SortRandom),
		),
	)
}

// LocalSearchByCoordinateTool returns a tool definition for radius search
func LocalSearchByCoordinateTool() mcp.Tool {
	return mcp.NewTool("localSearchByCoordinate",
		mcp.WithDescription("Searches for places within a specific radius from a coordinate."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("query used for search, should have regional information (like OOO 근처) for better search"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("center longitude (x coordinate)"),
		),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("center latitude (y coordinate)"),
		),
		mcp.WithNumber("radius",
			mcp.Description("search radius in meters (default: 1000m = 1km)"),
			mcp.Min(MinRadius),
			mcp.Max(MaxRadius),
			mcp.DefaultNumber(DefaultRadius),
		),
		mcp.WithNumber("display",
			mcp.Description("number of search results to display in response"),
			mcp.Min(0),
			mcp.Max(MaxDisplay),
			mcp.DefaultNumber(DefaultDisplay),
		),
		mcp.WithString("sort",
			mcp.Description(sortDescription),
			mcp.Enum(naver.SortRandom, naver.SortComment),
			mcp.DefaultString(naver.SortRandom),
		),
		mcp.WithNumber("min_results",
			mcp.Description("minimum number of results to return"),
			mcp.Min(1),
			mcp.Max(MaxMinResults),
			mcp.DefaultNumber(DefaultMinResult),
		),
	)
}

type localSearchArgs struct {
	query   string
	display int
	sort    string
}

func parseLocalSearchArgs(req mcp.CallToolRequest) (localSearchArgs, *mcp.CallToolResult) {
	args := localSearchArgs{
		query: strings.TrimSpace(mcp.ParseString(req, "query", "")),
		sort:  mcp.ParseString(req, "sort", naver.SortRandom),
	}

	display, err := parseWholeNumber(req, "display", DefaultDisplay)
	if err != nil {
		return args, FailureResult(err)
	}
	args.display = display

	if args.query == "" {
		return args, ValidationFailure("query must not be empty")
	}
	if args.display < 0 || args.display > MaxDisplay {
		return args, ValidationFailure("display must be between 0 and %d", MaxDisplay)
	}
	if !oneOf(args.sort, naver.SortRandom, naver.SortComment) {
		return args, ValidationFailure("sort must be one of random, comment")
	}
	return args, nil
}

// HandleLocalSearch searches Naver local places.
func (r *Registry) HandleLocalSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "localSearch")

	args, failure := parseLocalSearchArgs(req)
	if failure != nil {
		return failure, nil
	}

	resp, err := r.client.SearchLocal(ctx, naver.LocalSearchParams{
		Query:   args.query,
		Display: args.display,
		Start:   1,
		Sort:    args.sort,
	})
	if err != nil {
		logger.Error("local search failed", "query", args.query, "error", err)
		return FailureResult(err), nil
	}

	return jsonResult(newLocalSearchOutput(resp)), nil
}

// HandleLocalSearchByCoordinate searches places and keeps those within the
// radius of the given center.
func (r *Registry) HandleLocalSearchByCoordinate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "localSearchByCoordinate")

	args, failure := parseLocalSearchArgs(req)
	if failure != nil {
		return failure, nil
	}

	lon, err := requiredNumber(req, "longitude")
	if err != nil {
		return FailureResult(err), nil
	}
	lat, err := requiredNumber(req, "latitude")
	if err != nil {
		return FailureResult(err), nil
	}
	center := geo.Coordinate{Longitude: lon, Latitude: lat}
	if err := geo.ValidateCoordinate(center); err != nil {
		return FailureResult(err), nil
	}

	radius, err := parseWholeNumber(req, "radius", DefaultRadius)
	if err != nil {
		return FailureResult(err), nil
	}
	if radius < MinRadius || radius > MaxRadius {
		return ValidationFailure("radius must be between %d and %d meters", MinRadius, MaxRadius), nil
	}

	minResults, err := parseWholeNumber(req, "min_results", DefaultMinResult)
	if err != nil {
		return FailureResult(err), nil
	}
	if minResults < 1 || minResults > MaxMinResults {
		return ValidationFailure("min_results must be between 1 and %d", MaxMinResults), nil
	}

	resp, _, err := r.radius.SearchByRadius(ctx, search.RadiusQuery{
		Query:        args.query,
		Center:       center,
		RadiusMeters: float64(radius),
		Display:      args.display,
		Sort:         args.sort,
		MinResults:   minResults,
	})
	if err != nil {
		logger.Error("radius search failed", "query", args.query, "error", err)
		return FailureResult(err), nil
	}

	return jsonResult(newRadiusOutput(resp, center)), nil
}
