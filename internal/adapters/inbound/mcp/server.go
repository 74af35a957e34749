// Package mcp exposes FAIRy's validate and preflight runs as MCP tools
// and the active rulepack as MCP resources.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewFairyMCPServer creates a new MCP server with all FAIRy tools and
// resources registered. Relative paths in tool arguments resolve against
// projectPath.
func NewFairyMCPServer(projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"fairy",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, version)
	registerResources(s, projectPath)

	return s
}
