// Package storage defines the persistence boundary for codex records.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested entity or link record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a requested write conflicts with uniqueness constraints.
	ErrConflict = errors.New("record conflict")
)

// EntityRecord stores one typed codex record. AttrsJSON is the serialized
// free-form attribute bag; an empty bag persists as "{}".
type EntityRecord struct {
	ID          string
	Type        string
	Name        string
	Description string
	AttrsJSON   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LinkRecord stores one directed relationship edge between two entities.
type LinkRecord struct {
	SourceID      string
	TargetID      string
	Relationship  string
	Bidirectional bool
	CreatedAt     time.Time
}

// EntityStore persists codex entities and their relationship links.
type EntityStore interface {
	PutEntity(ctx context.Context, record EntityRecord) error
	GetEntity(ctx context.Context, entityID string) (EntityRecord, error)
	DeleteEntity(ctx context.Context, entityID string) error
	ListEntitiesByType(ctx context.Context, entityType string) ([]EntityRecord, error)
	// ListEntitiesByTypeAndAttr filters on exact string equality of one
	// attribute value; records missing the attribute are excluded.
	ListEntitiesByTypeAndAttr(ctx context.Context, entityType, attrKey, attrValue string) ([]EntityRecord, error)
	PutLink(ctx context.Context, record LinkRecord) error
	DeleteLink(ctx context.Context, sourceID, targetID, relationship string) error
	ListLinksForEntity(ctx context.Context, entityID string) ([]LinkRecord, error)
	// ListLinksForEntities returns every link whose source is one of the
	// given ids. Callers filter targets as needed.
	ListLinksForEntities(ctx context.Context, entityIDs []string) ([]LinkRecord, error)
}
