package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Failure is the uniform shape of every failed tool call.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FailureResult converts err into a Failure carried by an MCP error result.
// Handlers return it with a nil Go error so that a failing call never
// disturbs the host.
func FailureResult(err error) *mcp.CallToolResult {
	return failureText(err.Error())
}

// ValidationFailure reports invalid tool arguments.
func ValidationFailure(format string, args ...any) *mcp.CallToolResult {
	return failureText(fmt.Sprintf(format, args...))
}

func failureText(message string) *mcp.CallToolResult {
	data, err := json.Marshal(Failure{Success: false, Error: message})
	if err != nil {
		// a struct of two plain fields always marshals
		return mcp.NewToolResultError(message)
	}
	return mcp.NewToolResultError(string(data))
}

// jsonResult marshals v as the text content of a successful result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return FailureResult(fmt.Errorf("failed to generate result: %w", err))
	}
	return mcp.NewToolResultText(string(data))
}
