package domain

import "time"

// EntityType identifies one codex record category.
type EntityType string

const (
	// EntityTypeCharacter represents a player or non-player character.
	EntityTypeCharacter EntityType = "character"
	// EntityTypeLocation represents a place in the campaign world.
	EntityTypeLocation EntityType = "location"
	// EntityTypeScene represents a prepared or played scene.
	EntityTypeScene EntityType = "scene"
	// EntityTypeSession represents one play session.
	EntityTypeSession EntityType = "session"
	// EntityTypeFaction represents an organization or group.
	EntityTypeFaction EntityType = "faction"
	// EntityTypeItem represents a notable object.
	EntityTypeItem EntityType = "item"
	// EntityTypeNarrativeEvent represents one narrative beat tied to a session.
	EntityTypeNarrativeEvent EntityType = "narrative_event"
)

// Valid reports whether the entity type is part of the codex vocabulary.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeCharacter, EntityTypeLocation, EntityTypeScene,
		EntityTypeSession, EntityTypeFaction, EntityTypeItem,
		EntityTypeNarrativeEvent:
		return true
	default:
		return false
	}
}

// Relationship identifies one directed link category between entities.
type Relationship string

const (
	// RelationshipLeadsTo expresses that the source event precedes the target.
	RelationshipLeadsTo Relationship = "leads_to"
	// RelationshipFollows is the semantic inverse of leads_to.
	RelationshipFollows Relationship = "follows"
	// RelationshipInvolves links an event or scene to a participant entity.
	RelationshipInvolves Relationship = "involves"
	// RelationshipLocatedIn links an entity to its location.
	RelationshipLocatedIn Relationship = "located_in"
	// RelationshipMemberOf links a character to a faction.
	RelationshipMemberOf Relationship = "member_of"
)

// Valid reports whether the relationship is part of the link vocabulary.
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipLeadsTo, RelationshipFollows, RelationshipInvolves,
		RelationshipLocatedIn, RelationshipMemberOf:
		return true
	default:
		return false
	}
}

// Entity is one codex record. Attrs is a free-form attribute bag; well-known
// keys include sessionId, eventType, and outcome on narrative events.
type Entity struct {
	ID          string
	Type        EntityType
	Name        string
	Description string
	Attrs       map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Link is one directed relationship edge between two entities.
type Link struct {
	SourceID      string
	TargetID      string
	Relationship  Relationship
	Bidirectional bool
	CreatedAt     time.Time
}
