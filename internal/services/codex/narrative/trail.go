package narrative

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chronicle/narrative")

// Resolver reconstructs the deterministic linear ordering of a session's
// narrative events.
type Resolver struct {
	store Store
}

// NewResolver constructs a trail resolver over the given event store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// GetTrail returns the session's events in a single deterministic order.
//
// Relationship-based ordering takes precedence: when the leads_to edges
// restricted to the session's event set resolve every event, that
// topological order is the trail. If a cycle prevents full resolution the
// partial order is discarded entirely and the full set falls back to a
// stable chronological sort, with missing timestamps sorting earliest.
//
// An empty sessionID is a valid input that yields an empty trail. Store
// failures propagate unchanged.
func (r *Resolver) GetTrail(ctx context.Context, sessionID string) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "narrative.GetTrail",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	events, err := r.store.ListEventsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []Event{}, nil
	}

	if ordered, ok := orderByLinks(events); ok {
		span.SetAttributes(attribute.String("trail.order", "links"))
		return ordered, nil
	}
	span.SetAttributes(attribute.String("trail.order", "chronological"))
	return orderByCreatedAt(events), nil
}

// orderByLinks attempts a full topological order over the leads_to edges
// restricted to the event set. It reports false when a cycle leaves any
// event unplaced; the partial order is then unusable as a trail.
func orderByLinks(events []Event) ([]Event, bool) {
	byID := make(map[string]Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	// Adjacency and in-degree maps keyed by id; duplicate edges collapse so
	// repeated authoring does not inflate in-degrees.
	successors := make(map[string][]string, len(events))
	inDegree := make(map[string]int, len(events))
	for eventID := range byID {
		inDegree[eventID] = 0
	}
	type edgeKey struct{ source, target string }
	seen := make(map[edgeKey]struct{})
	for _, event := range events {
		for _, edge := range event.Links {
			if edge.Relationship != RelationshipLeadsTo {
				continue
			}
			if _, ok := byID[edge.SourceID]; !ok {
				continue
			}
			if _, ok := byID[edge.TargetID]; !ok {
				continue
			}
			key := edgeKey{source: edge.SourceID, target: edge.TargetID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			successors[edge.SourceID] = append(successors[edge.SourceID], edge.TargetID)
			inDegree[edge.TargetID]++
		}
	}

	ready := make([]string, 0, len(events))
	for eventID, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, eventID)
		}
	}
	sort.Strings(ready)

	ordered := make([]Event, 0, len(events))
	for len(ready) > 0 {
		// The lexicographically smallest ready id is emitted first so the
		// order of parallel events never depends on incidental input order.
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[next])

		for _, successor := range successors[next] {
			inDegree[successor]--
			if inDegree[successor] == 0 {
				at := sort.SearchStrings(ready, successor)
				ready = append(ready, "")
				copy(ready[at+1:], ready[at:])
				ready[at] = successor
			}
		}
	}

	if len(ordered) != len(events) {
		return nil, false
	}
	return ordered, true
}

// orderByCreatedAt sorts a copy of the event set chronologically. The sort is
// stable so events with equal timestamps keep their queried order; zero
// timestamps compare earliest.
func orderByCreatedAt(events []Event) []Event {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered
}
