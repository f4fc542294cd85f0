package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lorekeep/chronicle/internal/services/codex/narrative"
	"github.com/lorekeep/chronicle/internal/services/codex/storage"
)

func eventRecord(id, sessionID, eventType, outcome string, createdAt time.Time) storage.EntityRecord {
	attrs := `{"sessionId":"` + sessionID + `"`
	if eventType != "" {
		attrs += `,"eventType":"` + eventType + `"`
	}
	if outcome != "" {
		attrs += `,"outcome":"` + outcome + `"`
	}
	attrs += "}"
	return storage.EntityRecord{
		ID:        id,
		Type:      "narrative_event",
		Name:      "Event " + id,
		AttrsJSON: attrs,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestNarrativeAdapterProjectsEvents(t *testing.T) {
	t.Parallel()

	store := newFakeEntityStore()
	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	if err := store.PutEntity(ctx, eventRecord("evt-1", "session-9", "combat", "total_success", base)); err != nil {
		t.Fatalf("PutEntity returned error: %v", err)
	}
	if err := store.PutEntity(ctx, eventRecord("evt-2", "session-9", "", "", base.Add(time.Hour))); err != nil {
		t.Fatalf("PutEntity returned error: %v", err)
	}
	if err := store.PutEntity(ctx, eventRecord("evt-3", "session-2", "scene", "", base)); err != nil {
		t.Fatalf("PutEntity returned error: %v", err)
	}
	link := storage.LinkRecord{SourceID: "evt-1", TargetID: "evt-2", Relationship: "leads_to", CreatedAt: base}
	if err := store.PutLink(ctx, link); err != nil {
		t.Fatalf("PutLink returned error: %v", err)
	}

	adapter := newNarrativeStoreAdapter(store)
	events, err := adapter.ListEventsBySession(ctx, "session-9")
	if err != nil {
		t.Fatalf("ListEventsBySession returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListEventsBySession returned %d events, want 2", len(events))
	}

	first := events[0]
	if first.ID != "evt-1" {
		t.Fatalf("events[0].ID = %q, want %q", first.ID, "evt-1")
	}
	if first.SessionID != "session-9" {
		t.Fatalf("SessionID = %q, want %q", first.SessionID, "session-9")
	}
	if first.Type != narrative.EventTypeCombat {
		t.Fatalf("Type = %q, want %q", first.Type, narrative.EventTypeCombat)
	}
	if first.Outcome != "total_success" {
		t.Fatalf("Outcome = %q, want %q", first.Outcome, "total_success")
	}
	if len(first.Links) != 1 || first.Links[0].TargetID != "evt-2" {
		t.Fatalf("Links = %+v, want one edge to evt-2", first.Links)
	}

	second := events[1]
	if second.Type != narrative.EventTypeOther {
		t.Fatalf("missing eventType mapped to %q, want %q", second.Type, narrative.EventTypeOther)
	}
	if len(second.Links) != 0 {
		t.Fatalf("Links = %+v, want none", second.Links)
	}
}

func TestNarrativeAdapterEmptySessionSkipsLinkQuery(t *testing.T) {
	t.Parallel()

	store := newFakeEntityStore()
	adapter := newNarrativeStoreAdapter(store)

	events, err := adapter.ListEventsBySession(context.Background(), "session-empty")
	if err != nil {
		t.Fatalf("ListEventsBySession returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("ListEventsBySession returned %d events, want 0", len(events))
	}
	if store.linkQueries != 0 {
		t.Fatalf("link queries = %d, want 0", store.linkQueries)
	}
}

func TestNarrativeAdapterUnknownEventTypeMapsToOther(t *testing.T) {
	t.Parallel()

	store := newFakeEntityStore()
	ctx := context.Background()
	record := eventRecord("evt-1", "session-9", "banquet", "", time.Now().UTC())
	if err := store.PutEntity(ctx, record); err != nil {
		t.Fatalf("PutEntity returned error: %v", err)
	}

	adapter := newNarrativeStoreAdapter(store)
	events, err := adapter.ListEventsBySession(ctx, "session-9")
	if err != nil {
		t.Fatalf("ListEventsBySession returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ListEventsBySession returned %d events, want 1", len(events))
	}
	if events[0].Type != narrative.EventTypeOther {
		t.Fatalf("Type = %q, want %q", events[0].Type, narrative.EventTypeOther)
	}
}

func TestNarrativeAdapterPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeEntityStore()
	store.err = errors.New("disk gone")
	adapter := newNarrativeStoreAdapter(store)

	if _, err := adapter.ListEventsBySession(context.Background(), "session-9"); !errors.Is(err, store.err) {
		t.Fatalf("ListEventsBySession error = %v, want %v", err, store.err)
	}
}

func TestNarrativeAdapterRejectsMalformedAttrs(t *testing.T) {
	t.Parallel()

	store := newFakeEntityStore()
	ctx := context.Background()
	record := storage.EntityRecord{
		ID:        "evt-1",
		Type:      "narrative_event",
		Name:      "Broken",
		AttrsJSON: `{"sessionId":"session-9"`,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutEntity(ctx, record); err != nil {
		t.Fatalf("PutEntity returned error: %v", err)
	}

	adapter := newNarrativeStoreAdapter(store)
	if _, err := adapter.ListEventsBySession(ctx, "session-9"); err == nil {
		t.Fatal("ListEventsBySession expected error for malformed attrs, got nil")
	}
}
