// Package mcpapi exposes codex operations as MCP tools.
//
// Tool handlers validate transport-level input, delegate business meaning to
// the domain service and narrative composer, and translate coded errors into
// status errors carrying user-facing messages.
package mcpapi

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/lorekeep/chronicle/internal/errors"
	"github.com/lorekeep/chronicle/internal/services/codex/domain"
)

// Entity is the wire form of one codex entity.
type Entity struct {
	ID          string            `json:"id" jsonschema:"entity identifier"`
	Type        string            `json:"type" jsonschema:"entity type (character, location, scene, session, faction, item, narrative_event)"`
	Name        string            `json:"name" jsonschema:"display name"`
	Description string            `json:"description,omitempty" jsonschema:"free-form description"`
	Attrs       map[string]string `json:"attrs,omitempty" jsonschema:"free-form attribute bag"`
	CreatedAt   string            `json:"created_at" jsonschema:"RFC3339 timestamp when the entity was created"`
	UpdatedAt   string            `json:"updated_at" jsonschema:"RFC3339 timestamp when the entity was last updated"`
}

// LinkResult is the wire form of one relationship edge.
type LinkResult struct {
	SourceID      string `json:"source_id" jsonschema:"source entity identifier"`
	TargetID      string `json:"target_id" jsonschema:"target entity identifier"`
	Relationship  string `json:"relationship" jsonschema:"relationship kind (leads_to, follows, involves, located_in, member_of)"`
	Bidirectional bool   `json:"bidirectional,omitempty" jsonschema:"whether the edge reads in both directions"`
	CreatedAt     string `json:"created_at,omitempty" jsonschema:"RFC3339 timestamp when the link was created"`
}

func toWireEntity(entity domain.Entity) Entity {
	return Entity{
		ID:          entity.ID,
		Type:        string(entity.Type),
		Name:        entity.Name,
		Description: entity.Description,
		Attrs:       entity.Attrs,
		CreatedAt:   formatTimestamp(entity.CreatedAt),
		UpdatedAt:   formatTimestamp(entity.UpdatedAt),
	}
}

func toWireLink(link domain.Link) LinkResult {
	return LinkResult{
		SourceID:      link.SourceID,
		TargetID:      link.TargetID,
		Relationship:  string(link.Relationship),
		Bidirectional: link.Bidirectional,
		CreatedAt:     formatTimestamp(link.CreatedAt),
	}
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func handlerError(err error) error {
	return apperrors.HandleError(err, apperrors.DefaultLocale)
}

// EntityCreateInput represents the MCP tool input for creating an entity.
type EntityCreateInput struct {
	Type        string            `json:"type" jsonschema:"entity type (character, location, scene, session, faction, item, narrative_event)"`
	Name        string            `json:"name" jsonschema:"display name"`
	Description string            `json:"description,omitempty" jsonschema:"optional free-form description"`
	Attrs       map[string]string `json:"attrs,omitempty" jsonschema:"optional free-form attribute bag"`
}

// EntityCreateTool defines the MCP tool schema for creating an entity.
func EntityCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_create",
		Description: "Creates a codex entity of the given type with a name, optional description, and free-form attributes.",
	}
}

// EntityCreateHandler executes an entity create request.
func EntityCreateHandler(service *domain.Service) mcp.ToolHandlerFor[EntityCreateInput, Entity] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityCreateInput) (*mcp.CallToolResult, Entity, error) {
		entity, err := service.CreateEntity(ctx, domain.CreateEntityInput{
			Type:        domain.EntityType(input.Type),
			Name:        input.Name,
			Description: input.Description,
			Attrs:       input.Attrs,
		})
		if err != nil {
			return nil, Entity{}, handlerError(err)
		}
		return nil, toWireEntity(entity), nil
	}
}

// EntityGetInput represents the MCP tool input for fetching an entity.
type EntityGetInput struct {
	ID string `json:"id" jsonschema:"entity identifier"`
}

// EntityGetTool defines the MCP tool schema for fetching an entity.
func EntityGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_get",
		Description: "Fetches one codex entity by identifier.",
	}
}

// EntityGetHandler executes an entity fetch request.
func EntityGetHandler(service *domain.Service) mcp.ToolHandlerFor[EntityGetInput, Entity] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityGetInput) (*mcp.CallToolResult, Entity, error) {
		entity, err := service.GetEntity(ctx, input.ID)
		if err != nil {
			return nil, Entity{}, handlerError(err)
		}
		return nil, toWireEntity(entity), nil
	}
}

// EntityUpdateInput represents the MCP tool input for patching an entity.
// Omitted fields are left unchanged; attribute keys with empty values are
// removed from the bag.
type EntityUpdateInput struct {
	ID          string            `json:"id" jsonschema:"entity identifier"`
	Name        *string           `json:"name,omitempty" jsonschema:"replacement display name"`
	Description *string           `json:"description,omitempty" jsonschema:"replacement description"`
	Attrs       map[string]string `json:"attrs,omitempty" jsonschema:"attribute patches; empty values delete the key"`
}

// EntityUpdateTool defines the MCP tool schema for patching an entity.
func EntityUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_update",
		Description: "Patches the name, description, or attributes of one codex entity. Omitted fields keep their values.",
	}
}

// EntityUpdateHandler executes an entity patch request.
func EntityUpdateHandler(service *domain.Service) mcp.ToolHandlerFor[EntityUpdateInput, Entity] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityUpdateInput) (*mcp.CallToolResult, Entity, error) {
		entity, err := service.UpdateEntity(ctx, domain.UpdateEntityInput{
			EntityID:    input.ID,
			Name:        input.Name,
			Description: input.Description,
			Attrs:       input.Attrs,
		})
		if err != nil {
			return nil, Entity{}, handlerError(err)
		}
		return nil, toWireEntity(entity), nil
	}
}

// EntityDeleteInput represents the MCP tool input for deleting an entity.
type EntityDeleteInput struct {
	ID string `json:"id" jsonschema:"entity identifier"`
}

// EntityDeleteResult represents the MCP tool output for deleting an entity.
type EntityDeleteResult struct {
	ID      string `json:"id" jsonschema:"entity identifier"`
	Deleted bool   `json:"deleted" jsonschema:"whether the entity was deleted"`
}

// EntityDeleteTool defines the MCP tool schema for deleting an entity.
func EntityDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_delete",
		Description: "Deletes one codex entity and every relationship link touching it.",
	}
}

// EntityDeleteHandler executes an entity delete request.
func EntityDeleteHandler(service *domain.Service) mcp.ToolHandlerFor[EntityDeleteInput, EntityDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityDeleteInput) (*mcp.CallToolResult, EntityDeleteResult, error) {
		if err := service.DeleteEntity(ctx, input.ID); err != nil {
			return nil, EntityDeleteResult{}, handlerError(err)
		}
		return nil, EntityDeleteResult{ID: input.ID, Deleted: true}, nil
	}
}

// EntityListInput represents the MCP tool input for listing entities by type.
type EntityListInput struct {
	Type string `json:"type" jsonschema:"entity type to list"`
}

// EntityListResult represents the MCP tool output for listing entities.
type EntityListResult struct {
	Entities []Entity `json:"entities" jsonschema:"entities of the requested type in creation order"`
}

// EntityListTool defines the MCP tool schema for listing entities by type.
func EntityListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_list",
		Description: "Lists all codex entities of one type in creation order.",
	}
}

// EntityListHandler executes an entity list request.
func EntityListHandler(service *domain.Service) mcp.ToolHandlerFor[EntityListInput, EntityListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityListInput) (*mcp.CallToolResult, EntityListResult, error) {
		entities, err := service.ListEntitiesByType(ctx, domain.EntityType(input.Type))
		if err != nil {
			return nil, EntityListResult{}, handlerError(err)
		}
		result := EntityListResult{Entities: make([]Entity, 0, len(entities))}
		for _, entity := range entities {
			result.Entities = append(result.Entities, toWireEntity(entity))
		}
		return nil, result, nil
	}
}

// EntityLinkInput represents the MCP tool input for linking two entities.
type EntityLinkInput struct {
	SourceID      string `json:"source_id" jsonschema:"source entity identifier"`
	TargetID      string `json:"target_id" jsonschema:"target entity identifier"`
	Relationship  string `json:"relationship" jsonschema:"relationship kind (leads_to, follows, involves, located_in, member_of)"`
	Bidirectional bool   `json:"bidirectional,omitempty" jsonschema:"record the edge as readable in both directions"`
}

// EntityLinkTool defines the MCP tool schema for linking two entities.
func EntityLinkTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_link",
		Description: "Records a directed relationship edge between two existing codex entities.",
	}
}

// EntityLinkHandler executes an entity link request.
func EntityLinkHandler(service *domain.Service) mcp.ToolHandlerFor[EntityLinkInput, LinkResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityLinkInput) (*mcp.CallToolResult, LinkResult, error) {
		link, err := service.Link(ctx, domain.LinkInput{
			SourceID:      input.SourceID,
			TargetID:      input.TargetID,
			Relationship:  domain.Relationship(input.Relationship),
			Bidirectional: input.Bidirectional,
		})
		if err != nil {
			return nil, LinkResult{}, handlerError(err)
		}
		return nil, toWireLink(link), nil
	}
}

// EntityUnlinkInput represents the MCP tool input for removing a link.
type EntityUnlinkInput struct {
	SourceID     string `json:"source_id" jsonschema:"source entity identifier"`
	TargetID     string `json:"target_id" jsonschema:"target entity identifier"`
	Relationship string `json:"relationship" jsonschema:"relationship kind to remove"`
}

// EntityUnlinkResult represents the MCP tool output for removing a link.
type EntityUnlinkResult struct {
	Removed bool `json:"removed" jsonschema:"whether the link was removed"`
}

// EntityUnlinkTool defines the MCP tool schema for removing a link.
func EntityUnlinkTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "entity_unlink",
		Description: "Removes one directed relationship edge between two codex entities.",
	}
}

// EntityUnlinkHandler executes an entity unlink request.
func EntityUnlinkHandler(service *domain.Service) mcp.ToolHandlerFor[EntityUnlinkInput, EntityUnlinkResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EntityUnlinkInput) (*mcp.CallToolResult, EntityUnlinkResult, error) {
		err := service.Unlink(ctx, domain.LinkInput{
			SourceID:     input.SourceID,
			TargetID:     input.TargetID,
			Relationship: domain.Relationship(input.Relationship),
		})
		if err != nil {
			return nil, EntityUnlinkResult{}, handlerError(err)
		}
		return nil, EntityUnlinkResult{Removed: true}, nil
	}
}
