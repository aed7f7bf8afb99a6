package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
)

// Transport names accepted by --transport. "http" is an alias kept for
// compatibility with existing client configurations.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportHTTP           = "http"
	transportStreamableHTTP = "streamable-http"
)

// newMCPServer assembles the MCP server with every tool registered. The
// gateway and configuration are constructed by the caller and passed in;
// nothing registers itself as a side effect.
func newMCPServer(handlers *toolHandlers) *server.MCPServer {
	s := server.NewMCPServer("tempoai", Version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Tempo AI fitness data server. Read-only access to the athlete's workouts, events, and wellness metrics. All tools return plain text summaries."),
	)

	s.AddTools(handlers.tools()...)

	return s
}

// runServer blocks serving MCP traffic on the selected transport.
func runServer(s *server.MCPServer, transport, addr string, logger *log.Logger) error {
	switch transport {
	case transportStdio, "":
		logger.Info("serving MCP over stdio")
		return server.ServeStdio(s)
	case transportSSE:
		logger.Info("serving MCP over SSE", "addr", addr)
		return server.NewSSEServer(s).Start(addr)
	case transportHTTP, transportStreamableHTTP:
		logger.Info("serving MCP over streamable HTTP", "addr", addr)
		return server.NewStreamableHTTPServer(s).Start(addr)
	default:
		return fmt.Errorf("unknown transport %q (expected stdio, sse, http, or streamable-http)", transport)
	}
}
