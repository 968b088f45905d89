// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Instructions are sent to clients during initialization.
const Instructions = `Naver Maps MCP provides the following <tools>. You must follow all <rules>.

<tools>
- geocode: Searches for address information related to the entered address.
- localSearch: Searches for places related to the given query. Results include addresses.
- localSearchByCoordinate: Searches for places within a specific radius from a coordinate.
- directions: Gets driving directions between two "longitude,latitude" points.
</tools>

<rules>
- If the response contains [meta], which is the metadata of a result, you can get paging information from the response.
  If a user wants to get more results, you can call the same tool with an increased [page], if supported, as long as the current page has results.
- When making consecutive calls to the same MCP tool, wait for a random duration between 0 ms and 50ms, and apply exponential backoff between calls.
- For location-based searches, use localSearchByCoordinate when you need to limit results to a specific area.
- A failed call returns {"success": false, "error": "..."}; read the error before retrying.
</rules>`

// RegisterUsagePrompts registers the usage prompts with the MCP server
func RegisterUsagePrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("naver_maps_usage",
		mcp.WithPromptDescription("Rules for using the Naver Maps tools"),
	), UsagePromptHandler)

	s.AddPrompt(mcp.NewPrompt("local_search_examples",
		mcp.WithPromptDescription("Examples of effective local and radius searches"),
	), LocalSearchExamplesHandler)
}

// UsagePromptHandler returns the server rules as a prompt
func UsagePromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return mcp.NewGetPromptResult(
		"Naver Maps Tool Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(Instructions),
			),
		},
	), nil
}

// LocalSearchExamplesHandler returns examples for localSearch and localSearchByCoordinate
func LocalSearchExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE LOCAL SEARCH USAGE:

User: "Find a coffee shop near Gangnam station"
AI: *uses geocode with "강남역" to get the coordinate, then localSearchByCoordinate with
    query "강남역 근처 카페", longitude 127.0276, latitude 37.4979, radius 500*

User: "What are the most reviewed restaurants in Hongdae?"
AI: *uses localSearch with query "홍대 맛집" and sort "comment"*

User: "I need at least three pharmacies within 1km of my hotel"
AI: *uses localSearchByCoordinate with radius 1000 and min_results 3*

NOTES:
1. Include regional words in the query (like OOO 근처); the radius filter only removes results, it does not find new ones
2. display is capped at 5
3. total in a localSearchByCoordinate result is the number of places found inside the radius`

	return mcp.NewGetPromptResult(
		"Local Search Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
