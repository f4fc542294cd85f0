package narrative

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EmptyTrailSummary is returned for sessions without any recorded events.
const EmptyTrailSummary = "No events recorded for this session."

const (
	openingPhrase = "The session began with "
	closingPhrase = "The session concluded with "
)

// transitionPhrases cycle deterministically for middle events, keyed by the
// event's position among middle events modulo the table length.
var transitionPhrases = [...]string{
	"Following this, ",
	"Then, ",
	"Next, ",
	"After that, ",
	"Subsequently, ",
}

// categoryDescriptors map event categories to their prose descriptor.
// Anything absent from the table reads as a generic event.
var categoryDescriptors = map[EventType]string{
	EventTypeCombat:  "a combat encounter: ",
	EventTypeMontage: "a montage: ",
	EventTypeScene:   "a scene: ",
}

const defaultDescriptor = "an event: "

var outcomeTitle = cases.Title(language.English, cases.NoLower)

// Composer renders a session's trail as a prose narrative.
type Composer struct {
	resolver *Resolver
}

// NewComposer constructs a summary composer over the given trail resolver.
func NewComposer(resolver *Resolver) *Composer {
	return &Composer{resolver: resolver}
}

// GenerateSummary resolves the session trail and renders it as prose.
// Resolver failures propagate unchanged.
func (c *Composer) GenerateSummary(ctx context.Context, sessionID string) (string, error) {
	trail, err := c.resolver.GetTrail(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return Compose(trail), nil
}

// Compose renders ordered events as a single prose string. It is pure: the
// same sequence always yields the same wording.
//
// A lone event reads "began with" rather than "concluded with"; the closing
// phrase only appears when more than one event exists.
func Compose(events []Event) string {
	if len(events) == 0 {
		return EmptyTrailSummary
	}

	segments := make([]string, 0, len(events))
	for i, event := range events {
		var segment strings.Builder
		switch {
		case i == 0:
			segment.WriteString(openingPhrase)
		case i == len(events)-1:
			segment.WriteString(closingPhrase)
		default:
			segment.WriteString(transitionPhrases[(i-1)%len(transitionPhrases)])
		}

		segment.WriteString(descriptorFor(event.Type))
		segment.WriteString(event.Name)

		if event.Outcome != "" {
			segment.WriteString(". Outcome: ")
			segment.WriteString(formatOutcome(event.Outcome))
		}
		segment.WriteString(".")
		segments = append(segments, segment.String())
	}
	return strings.Join(segments, " ")
}

func descriptorFor(eventType EventType) string {
	if descriptor, ok := categoryDescriptors[eventType]; ok {
		return descriptor
	}
	return defaultDescriptor
}

// formatOutcome converts a snake_case outcome token to Title Case. Only the
// first letter of each word is upper-cased; the rest is preserved.
func formatOutcome(outcome string) string {
	return outcomeTitle.String(strings.ReplaceAll(outcome, "_", " "))
}
