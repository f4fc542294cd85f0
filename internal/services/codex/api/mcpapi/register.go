package mcpapi

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lorekeep/chronicle/internal/services/codex/domain"
	"github.com/lorekeep/chronicle/internal/services/codex/narrative"
)

// Register binds every codex tool to the MCP server.
func Register(server *mcp.Server, service *domain.Service, resolver *narrative.Resolver, composer *narrative.Composer) error {
	if server == nil {
		return fmt.Errorf("mcp server is required")
	}
	if service == nil {
		return fmt.Errorf("domain service is required")
	}
	if resolver == nil {
		return fmt.Errorf("trail resolver is required")
	}
	if composer == nil {
		return fmt.Errorf("summary composer is required")
	}

	mcp.AddTool(server, EntityCreateTool(), EntityCreateHandler(service))
	mcp.AddTool(server, EntityGetTool(), EntityGetHandler(service))
	mcp.AddTool(server, EntityUpdateTool(), EntityUpdateHandler(service))
	mcp.AddTool(server, EntityDeleteTool(), EntityDeleteHandler(service))
	mcp.AddTool(server, EntityListTool(), EntityListHandler(service))
	mcp.AddTool(server, EntityLinkTool(), EntityLinkHandler(service))
	mcp.AddTool(server, EntityUnlinkTool(), EntityUnlinkHandler(service))
	mcp.AddTool(server, SessionTrailTool(), SessionTrailHandler(resolver))
	mcp.AddTool(server, SessionSummaryTool(), SessionSummaryHandler(composer))
	return nil
}
