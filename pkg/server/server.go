// Package server provides the MCP server implementation for the Naver Maps integration.
package server

import (
	"log/slog"

	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/tools"
	"github.com/NERVsystems/navermcp/pkg/tools/prompts"
	"github.com/NERVsystems/navermcp/pkg/version"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "mcp_naver_maps"
)

// Server encapsulates the MCP server with Naver Maps tools.
type Server struct {
	srv *server.MCPServer
}

// Options configures NewServer.
type Options struct {
	Logger *slog.Logger

	// Client overrides the Naver client built from Config.
	Client tools.MapsClient
	Config naver.Config
}

// NewServer creates a new Naver Maps MCP server with all tools registered.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing Naver Maps MCP server",
		"name", ServerName,
		"version", version.BuildVersion)

	client := opts.Client
	if client == nil {
		c, err := naver.NewClient(opts.Config, naver.WithLogger(logger.With("component", "naver")))
		if err != nil {
			return nil, err
		}
		client = c
	}

	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithInstructions(prompts.Instructions),
		server.WithRecovery(),
	)

	registry := tools.NewRegistry(logger, client)
	registry.RegisterTools(srv)
	prompts.RegisterUsagePrompts(srv)

	return &Server{srv: srv}, nil
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
