package tools

import (
	"context"
	"fmt"

	"github.com/NERVsystems/navermcp/pkg/geo"
	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/mark3labs/mcp-go/mcp"
)

var directionLanguages = []string{"ko", "en", "ja", "zh"}

// DirectionsTool returns a tool definition for driving directions
func DirectionsTool() mcp.Tool {
	options := make([]string, 0, len(naver.DirectionOptions))
	for _, o := range naver.DirectionOptions {
		options = append(options, string(o))
	}

	return mcp.NewTool("directions",
		mcp.WithDescription("Gets driving directions between two coordinates. Coordinates are \"longitude,latitude\"."),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("start point as \"longitude,latitude\", e.g. \"127.0276,37.4979\""),
		),
		mcp.WithString("goal",
			mcp.Required(),
			mcp.Description("goal point as \"longitude,latitude\""),
		),
		mcp.WithString("option",
			mcp.Description("route preference. traoptimal: optimal, trafast: fastest, tracomfort: comfortable, travoidtoll: avoid tolls, traavoidcaronly: avoid car-only roads"),
			mcp.Enum(options...),
			mcp.DefaultString(string(naver.DirectionOptimal)),
		),
		mcp.WithString("language",
			mcp.Description("language of turn-by-turn instructions"),
			mcp.Enum(directionLanguages...),
			mcp.DefaultString("ko"),
		),
	)
}

// HandleDirections requests a driving route.
func (r *Registry) HandleDirections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "directions")

	start, err := geo.ParseCoordinate(mcp.ParseString(req, "start", ""))
	if err != nil {
		return FailureResult(fmt.Errorf("start: %w", err)), nil
	}
	goal, err := geo.ParseCoordinate(mcp.ParseString(req, "goal", ""))
	if err != nil {
		return FailureResult(fmt.Errorf("goal: %w", err)), nil
	}

	option := naver.DirectionOption(mcp.ParseString(req, "option", string(naver.DirectionOptimal)))
	if !oneOf(option, naver.DirectionOptions...) {
		return ValidationFailure("unsupported option %q", option), nil
	}
	language := mcp.ParseString(req, "language", "ko")
	if !oneOf(language, directionLanguages...) {
		return ValidationFailure("unsupported language %q", language), nil
	}

	resp, err := r.client.Directions(ctx, naver.DirectionsParams{
		Start:    start.String(),
		Goal:     goal.String(),
		Option:   option,
		Language: language,
	})
	if err != nil {
		logger.Error("directions failed", "start", start.String(), "goal", goal.String(), "error", err)
		return FailureResult(err), nil
	}

	routes := resp.Route[string(option)]
	if len(routes) == 0 {
		return FailureResult(fmt.Errorf("no route found for option %s", option)), nil
	}

	return jsonResult(newDirectionsOutput(option, routes[0], start, goal)), nil
}
