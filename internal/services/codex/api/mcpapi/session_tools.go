package mcpapi

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/lorekeep/chronicle/internal/errors"
	"github.com/lorekeep/chronicle/internal/services/codex/narrative"
)

// TrailEvent is the wire form of one resolved trail entry.
type TrailEvent struct {
	ID        string `json:"id" jsonschema:"event identifier"`
	Name      string `json:"name" jsonschema:"event name"`
	Type      string `json:"type" jsonschema:"event category (scene, combat, montage, negotiation, other)"`
	Outcome   string `json:"outcome,omitempty" jsonschema:"recorded outcome, if any"`
	CreatedAt string `json:"created_at,omitempty" jsonschema:"RFC3339 timestamp when the event was recorded"`
}

// SessionTrailInput represents the MCP tool input for resolving a session trail.
// The session identifier must be present in the call, even when empty.
type SessionTrailInput struct {
	SessionID *string `json:"session_id" jsonschema:"session identifier the trail belongs to"`
}

// SessionTrailResult represents the MCP tool output for a resolved trail.
type SessionTrailResult struct {
	SessionID string       `json:"session_id" jsonschema:"session identifier"`
	Events    []TrailEvent `json:"events" jsonschema:"events in trail order"`
}

// SessionTrailTool defines the MCP tool schema for resolving a session trail.
func SessionTrailTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_trail",
		Description: "Resolves the ordered trail of narrative events for a session, preferring leads_to links and falling back to chronology.",
	}
}

// SessionTrailHandler executes a session trail request.
func SessionTrailHandler(resolver *narrative.Resolver) mcp.ToolHandlerFor[SessionTrailInput, SessionTrailResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionTrailInput) (*mcp.CallToolResult, SessionTrailResult, error) {
		if input.SessionID == nil {
			return nil, SessionTrailResult{}, handlerError(apperrors.New(apperrors.CodeSessionIDMissing, "session id is required"))
		}
		sessionID := *input.SessionID
		events, err := resolver.GetTrail(ctx, sessionID)
		if err != nil {
			return nil, SessionTrailResult{}, handlerError(err)
		}
		result := SessionTrailResult{
			SessionID: sessionID,
			Events:    make([]TrailEvent, 0, len(events)),
		}
		for _, event := range events {
			result.Events = append(result.Events, TrailEvent{
				ID:        event.ID,
				Name:      event.Name,
				Type:      string(event.Type),
				Outcome:   event.Outcome,
				CreatedAt: formatTimestamp(event.CreatedAt),
			})
		}
		return nil, result, nil
	}
}

// SessionSummaryInput represents the MCP tool input for generating a summary.
// The session identifier must be present in the call, even when empty.
type SessionSummaryInput struct {
	SessionID *string `json:"session_id" jsonschema:"session identifier to summarize"`
}

// SessionSummaryResult represents the MCP tool output for a generated summary.
type SessionSummaryResult struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Summary   string `json:"summary" jsonschema:"prose summary of the session trail"`
}

// SessionSummaryTool defines the MCP tool schema for generating a summary.
func SessionSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_summary",
		Description: "Generates a prose summary of a session's narrative trail in trail order.",
	}
}

// SessionSummaryHandler executes a session summary request.
func SessionSummaryHandler(composer *narrative.Composer) mcp.ToolHandlerFor[SessionSummaryInput, SessionSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionSummaryInput) (*mcp.CallToolResult, SessionSummaryResult, error) {
		if input.SessionID == nil {
			return nil, SessionSummaryResult{}, handlerError(apperrors.New(apperrors.CodeSessionIDMissing, "session id is required"))
		}
		sessionID := *input.SessionID
		summary, err := composer.GenerateSummary(ctx, sessionID)
		if err != nil {
			return nil, SessionSummaryResult{}, handlerError(err)
		}
		return nil, SessionSummaryResult{SessionID: sessionID, Summary: summary}, nil
	}
}
