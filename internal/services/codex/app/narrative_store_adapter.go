package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lorekeep/chronicle/internal/services/codex/narrative"
	"github.com/lorekeep/chronicle/internal/services/codex/storage"
)

const (
	eventEntityType  = "narrative_event"
	attrKeySessionID = "sessionId"
	attrKeyEventType = "eventType"
	attrKeyOutcome   = "outcome"
)

// narrativeStoreAdapter projects narrative_event entity records into trail
// events. Session membership, event category, and outcome all live in the
// free-form attribute bag; relationship edges come from the link table.
type narrativeStoreAdapter struct {
	entityStore storage.EntityStore
}

func newNarrativeStoreAdapter(entityStore storage.EntityStore) *narrativeStoreAdapter {
	return &narrativeStoreAdapter{entityStore: entityStore}
}

func (a *narrativeStoreAdapter) ListEventsBySession(ctx context.Context, sessionID string) ([]narrative.Event, error) {
	if a == nil || a.entityStore == nil {
		return nil, fmt.Errorf("entity store is not configured")
	}

	records, err := a.entityStore.ListEntitiesByTypeAndAttr(ctx, eventEntityType, attrKeySessionID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	eventIDs := make([]string, 0, len(records))
	for _, record := range records {
		eventIDs = append(eventIDs, record.ID)
	}
	linkRecords, err := a.entityStore.ListLinksForEntities(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	linksBySource := make(map[string][]narrative.LinkEdge, len(linkRecords))
	for _, link := range linkRecords {
		linksBySource[link.SourceID] = append(linksBySource[link.SourceID], narrative.LinkEdge{
			SourceID:      link.SourceID,
			TargetID:      link.TargetID,
			Relationship:  link.Relationship,
			Bidirectional: link.Bidirectional,
		})
	}

	events := make([]narrative.Event, 0, len(records))
	for _, record := range records {
		event, err := toNarrativeEvent(record)
		if err != nil {
			return nil, err
		}
		event.Links = linksBySource[record.ID]
		events = append(events, event)
	}
	return events, nil
}

func toNarrativeEvent(record storage.EntityRecord) (narrative.Event, error) {
	var attrs map[string]string
	if record.AttrsJSON != "" && record.AttrsJSON != "{}" {
		if err := json.Unmarshal([]byte(record.AttrsJSON), &attrs); err != nil {
			return narrative.Event{}, fmt.Errorf("decode event attributes for %s: %w", record.ID, err)
		}
	}
	return narrative.Event{
		ID:          record.ID,
		SessionID:   attrs[attrKeySessionID],
		Type:        eventTypeFromAttr(attrs[attrKeyEventType]),
		Outcome:     attrs[attrKeyOutcome],
		Name:        record.Name,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
	}, nil
}

func eventTypeFromAttr(value string) narrative.EventType {
	switch narrative.EventType(value) {
	case narrative.EventTypeScene, narrative.EventTypeCombat, narrative.EventTypeMontage, narrative.EventTypeNegotiation:
		return narrative.EventType(value)
	default:
		return narrative.EventTypeOther
	}
}
