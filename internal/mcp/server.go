// Package mcp exposes palette ranking, intent parsing and the shortcut
// catalog as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jask/omnibar/internal/engine"
)

const ServerName = "omnibar"

type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"omnibar_rank": {
		def:     rankTool(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRank },
	},
	"omnibar_parse": {
		def:     parseTool(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleParse },
	},
	"omnibar_shortcuts": {
		def:     shortcutsTool(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShortcuts },
	},
}

// ToolNames lists the registered tool names.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server whose tools read from e.
func NewServer(e *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	h := NewHandlers(e)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves e over stdio until the client disconnects.
func Run(e *engine.Engine, version string) error {
	return server.ServeStdio(NewServer(e, version))
}
