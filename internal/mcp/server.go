package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/blogseo/blogseo/internal/history"
	"github.com/blogseo/blogseo/internal/optimizer"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the optimizer to AI agents.
type Server struct {
	svc     *optimizer.Service
	history *history.Store
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. hist may be nil, in which case the
// stats tool reports that history is unavailable.
func NewServer(svc *optimizer.Service, hist *history.Store) *Server {
	s := &Server{
		svc:     svc,
		history: hist,
	}

	s.mcp = server.NewMCPServer(
		"blogseo",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(optimizeHTMLTool, s.handleOptimizeHTML)
	s.mcp.AddTool(applyLocalHeuristicsTool, s.handleApplyLocalHeuristics)
	s.mcp.AddTool(optimizationStatsTool, s.handleOptimizationStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
