package tools

import (
	"context"
	"strings"

	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/mark3labs/mcp-go/mcp"
)

// GeocodeTool returns a tool definition for geocoding addresses
func GeocodeTool() mcp.Tool {
	return mcp.NewTool("geocode",
		mcp.WithDescription("Searches for address information related to the entered address."),
		mcp.WithString("address",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("address to search for"),
		),
		mcp.WithString("language",
			mcp.Description("language used in response"),
			mcp.Enum(naver.LanguageKorean, naver.LanguageEnglish),
			mcp.DefaultString(naver.LanguageKorean),
		),
		mcp.WithNumber("page",
			mcp.Description("page number of results; increase it while the current page has results"),
			mcp.Min(1),
			mcp.DefaultNumber(1),
		),
	)
}

// HandleGeocode resolves an address into coordinates.
func (r *Registry) HandleGeocode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "geocode")

	address := strings.TrimSpace(mcp.ParseString(req, "address", ""))
	language := mcp.ParseString(req, "language", naver.LanguageKorean)
	page, err := parseWholeNumber(req, "page", 1)
	if err != nil {
		return FailureResult(err), nil
	}

	if address == "" {
		return ValidationFailure("address must not be empty"), nil
	}
	if !oneOf(language, naver.LanguageKorean, naver.LanguageEnglish) {
		return ValidationFailure("language must be one of kor, eng"), nil
	}
	if page < 1 {
		return ValidationFailure("page must be at least 1"), nil
	}

	resp, err := r.client.Geocode(ctx, naver.GeocodeParams{
		Query:    address,
		Language: language,
		Page:     page,
	})
	if err != nil {
		logger.Error("geocode failed", "address", address, "error", err)
		return FailureResult(err), nil
	}

	return jsonResult(newGeocodeOutput(resp)), nil
}
