package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/govaudit/internal/application"
)

const serverVersion = "0.1.0"

// NewGovAuditMCPServer creates an MCP server with every govaudit tool and
// resource registered. corpusPath is the root of the governance corpus the
// tools audit.
func NewGovAuditMCPServer(corpusPath string, svc *application.AuditService) *server.MCPServer {
	s := server.NewMCPServer(
		"govaudit",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, corpusPath, svc)
	registerResources(s, corpusPath, svc)

	return s
}
