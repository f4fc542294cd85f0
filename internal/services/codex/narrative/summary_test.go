package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestComposeEmptyTrail(t *testing.T) {
	t.Parallel()

	if got := Compose(nil); got != "No events recorded for this session." {
		t.Fatalf("unexpected empty summary %q", got)
	}
	if got := Compose([]Event{}); got != "No events recorded for this session." {
		t.Fatalf("unexpected empty summary %q", got)
	}
}

func TestComposeThreeEventSession(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "e1", Name: "First Event", Type: EventTypeScene, CreatedAt: base},
		{ID: "e2", Name: "Second Event", Type: EventTypeCombat, Outcome: "Victory", CreatedAt: base.Add(time.Hour)},
		{ID: "e3", Name: "Third Event", Type: EventTypeScene, CreatedAt: base.Add(2 * time.Hour)},
	}

	want := "The session began with a scene: First Event. " +
		"Following this, a combat encounter: Second Event. Outcome: Victory. " +
		"The session concluded with a scene: Third Event."
	if got := Compose(events); got != want {
		t.Fatalf("unexpected summary:\n got: %q\nwant: %q", got, want)
	}
}

func TestComposeLoneEventUsesOpeningPhrase(t *testing.T) {
	t.Parallel()

	events := []Event{{ID: "e1", Name: "Solo Scene", Type: EventTypeScene}}
	got := Compose(events)
	if !strings.HasPrefix(got, "The session began with ") {
		t.Fatalf("expected opening phrase for lone event, got %q", got)
	}
	if strings.Contains(got, "concluded") {
		t.Fatalf("lone event must not use the closing phrase, got %q", got)
	}
}

func TestComposeTransitionPhrasesCycle(t *testing.T) {
	t.Parallel()

	events := make([]Event, 8)
	for i := range events {
		events[i] = Event{ID: string(rune('a' + i)), Name: "Beat", Type: EventTypeScene}
	}
	got := Compose(events)

	// Middle events at positions 1..6 walk the five-phrase table and wrap.
	wantOrder := []string{
		"Following this, ", "Then, ", "Next, ", "After that, ", "Subsequently, ", "Following this, ",
	}
	rest := got
	for _, phrase := range wantOrder {
		idx := strings.Index(rest, phrase)
		if idx == -1 {
			t.Fatalf("expected transition %q in order within %q", phrase, got)
		}
		rest = rest[idx+len(phrase):]
	}
}

func TestComposeCategoryDescriptors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		eventType EventType
		want      string
	}{
		{EventTypeCombat, "a combat encounter: "},
		{EventTypeMontage, "a montage: "},
		{EventTypeScene, "a scene: "},
		{EventTypeNegotiation, "an event: "},
		{EventTypeOther, "an event: "},
		{EventType(""), "an event: "},
		{EventType("ritual"), "an event: "},
	}
	for _, tc := range cases {
		got := Compose([]Event{{ID: "e", Name: "X", Type: tc.eventType}})
		if !strings.Contains(got, tc.want) {
			t.Fatalf("type %q: expected descriptor %q in %q", tc.eventType, tc.want, got)
		}
	}
}

func TestComposeOutcomeTitleCase(t *testing.T) {
	t.Parallel()

	got := Compose([]Event{{ID: "e", Name: "Heist", Type: EventTypeScene, Outcome: "total_success"}})
	if !strings.Contains(got, "Outcome: Total Success.") {
		t.Fatalf("expected title-cased outcome, got %q", got)
	}
}

func TestComposeEmptyOutcomeOmitted(t *testing.T) {
	t.Parallel()

	got := Compose([]Event{{ID: "e", Name: "Quiet Scene", Type: EventTypeScene, Outcome: ""}})
	if strings.Contains(got, "Outcome:") {
		t.Fatalf("expected no outcome fragment, got %q", got)
	}
}

func TestComposeNamesAppearOnceInTrailOrder(t *testing.T) {
	t.Parallel()

	events := []Event{
		{ID: "e1", Name: "Arrival", Type: EventTypeScene},
		{ID: "e2", Name: "Ambush", Type: EventTypeCombat},
		{ID: "e3", Name: "Council", Type: EventTypeNegotiation},
		{ID: "e4", Name: "Departure", Type: EventTypeScene},
	}
	got := Compose(events)

	offset := -1
	for _, event := range events {
		idx := strings.Index(got, event.Name)
		if idx == -1 {
			t.Fatalf("expected name %q in summary %q", event.Name, got)
		}
		if strings.Count(got, event.Name) != 1 {
			t.Fatalf("expected name %q exactly once in %q", event.Name, got)
		}
		if idx <= offset {
			t.Fatalf("expected name %q after previous names in %q", event.Name, got)
		}
		offset = idx
	}
}

func TestGenerateSummaryEmptySession(t *testing.T) {
	t.Parallel()

	composer := NewComposer(NewResolver(&fakeEventStore{events: map[string][]Event{}}))
	got, err := composer.GenerateSummary(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("generate summary: %v", err)
	}
	if got != "No events recorded for this session." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestGenerateSummaryUsesTrailOrder(t *testing.T) {
	t.Parallel()

	// The chain order contradicts both input order and timestamps, so the
	// summary wording proves the trail fed the composer.
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "b", Name: "Finale", Type: EventTypeScene, CreatedAt: base},
		{ID: "a", Name: "Opening", Type: EventTypeScene, CreatedAt: base.Add(time.Hour), Links: []LinkEdge{leadsTo("a", "b")}},
	}
	composer := NewComposer(NewResolver(&fakeEventStore{events: map[string][]Event{"s": events}}))

	got, err := composer.GenerateSummary(context.Background(), "s")
	if err != nil {
		t.Fatalf("generate summary: %v", err)
	}
	want := "The session began with a scene: Opening. The session concluded with a scene: Finale."
	if got != want {
		t.Fatalf("unexpected summary:\n got: %q\nwant: %q", got, want)
	}
}

func TestGenerateSummaryPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store offline")
	composer := NewComposer(NewResolver(&fakeEventStore{err: storeErr}))

	if _, err := composer.GenerateSummary(context.Background(), "s"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store failure to propagate, got %v", err)
	}
}
