// Package mcp exposes configuration validation to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with hagate tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hagate",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("hagate/validate",
			mcp.WithDescription("Validate a Home Assistant configuration directory against its registry snapshot"),
			mcp.WithString("config", mcp.Required(), mcp.Description("Path to the configuration directory")),
			mcp.WithString("storage", mcp.Description("Path to the .storage directory (defaults to <config>/.storage)")),
			mcp.WithString("format", mcp.Description("Result format: 'markdown' (default) or 'json'")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("hagate/registry",
			mcp.WithDescription("Summarize the entity registry snapshot per domain"),
			mcp.WithString("storage", mcp.Required(), mcp.Description("Path to the .storage directory")),
			mcp.WithString("format", mcp.Description("Result format: 'table' (default) or 'json'")),
		),
		HandleRegistry,
	)

	s.AddTool(
		mcp.NewTool("hagate/gate",
			mcp.WithDescription("Validate a configuration and evaluate a deploy-gate expression over the result"),
			mcp.WithString("config", mcp.Required(), mcp.Description("Path to the configuration directory")),
			mcp.WithString("expression", mcp.Required(), mcp.Description("Boolean gate expression, e.g. 'unknown == 0 && disabled <= 2'")),
			mcp.WithString("storage", mcp.Description("Path to the .storage directory (defaults to <config>/.storage)")),
		),
		HandleGate,
	)

	return s
}
