// Package narrative reconstructs session trails from loosely linked
// narrative events and renders them as prose summaries.
//
// Events reference each other through directed leads_to edges authored in
// free-form data, so the edge set may be cyclic or incomplete. The resolver
// prefers the explicit relationship order and degrades to chronological
// order whenever the relationship graph cannot fully resolve.
package narrative

import (
	"context"
	"time"
)

// EventType identifies one narrative event category.
type EventType string

const (
	// EventTypeScene is a played scene.
	EventTypeScene EventType = "scene"
	// EventTypeCombat is a combat encounter.
	EventTypeCombat EventType = "combat"
	// EventTypeMontage is a montage sequence.
	EventTypeMontage EventType = "montage"
	// EventTypeNegotiation is a negotiation exchange.
	EventTypeNegotiation EventType = "negotiation"
	// EventTypeOther covers events with a missing or unknown category.
	EventTypeOther EventType = "other"
)

// LinkEdge is one directed relationship edge attached to an event. Edges may
// reference ids outside the session's event set; such edges are ignored by
// the ordering algorithm.
type LinkEdge struct {
	SourceID      string
	TargetID      string
	Relationship  string
	Bidirectional bool
}

// Relationship names understood by the trail resolver.
const (
	// RelationshipLeadsTo expresses that the source event precedes the target.
	RelationshipLeadsTo = "leads_to"
	// RelationshipFollows is the semantic inverse of leads_to.
	RelationshipFollows = "follows"
)

// Event is one session narrative event. Events are immutable inputs to this
// package; it never mutates or persists them.
type Event struct {
	ID          string
	SessionID   string
	Type        EventType
	Outcome     string
	Name        string
	Description string
	CreatedAt   time.Time
	Links       []LinkEdge
}

// Store is the single external capability the resolver depends on: an
// exact-match query for narrative events belonging to one session. Failures
// propagate to the caller unchanged.
type Store interface {
	ListEventsBySession(ctx context.Context, sessionID string) ([]Event, error)
}
