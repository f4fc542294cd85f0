package domain

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/lorekeep/chronicle/internal/errors"
	"github.com/lorekeep/chronicle/internal/platform/id"
)

// Store is the domain persistence boundary for codex entity lifecycle behavior.
type Store interface {
	PutEntity(ctx context.Context, entity Entity) error
	GetEntity(ctx context.Context, entityID string) (Entity, error)
	DeleteEntity(ctx context.Context, entityID string) error
	ListEntitiesByType(ctx context.Context, entityType EntityType) ([]Entity, error)
	PutLink(ctx context.Context, link Link) error
	DeleteLink(ctx context.Context, sourceID, targetID string, relationship Relationship) error
	ListLinksForEntity(ctx context.Context, entityID string) ([]Link, error)
}

// CreateEntityInput describes one entity creation request.
type CreateEntityInput struct {
	Type        EntityType
	Name        string
	Description string
	Attrs       map[string]string
}

// UpdateEntityInput patches display fields and attributes of one entity.
// Nil fields are left unchanged; attribute keys with empty values are removed.
type UpdateEntityInput struct {
	EntityID    string
	Name        *string
	Description *string
	Attrs       map[string]string
}

// LinkInput describes one directed relationship edge request.
type LinkInput struct {
	SourceID      string
	TargetID      string
	Relationship  Relationship
	Bidirectional bool
}

// Service orchestrates codex entity lifecycle behavior.
type Service struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs codex domain use-cases.
func NewService(store Store, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// CreateEntity validates and persists one new codex entity.
func (s *Service) CreateEntity(ctx context.Context, input CreateEntityInput) (Entity, error) {
	if !input.Type.Valid() {
		return Entity{}, apperrors.New(apperrors.CodeEntityInvalidType, "invalid entity type").
			WithMetadata(map[string]string{"Type": string(input.Type)})
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Entity{}, apperrors.New(apperrors.CodeEntityEmptyName, "entity name is required")
	}

	entityID, err := s.newID()
	if err != nil {
		return Entity{}, err
	}
	now := s.nowUTC()
	entity := Entity{
		ID:          entityID,
		Type:        input.Type,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Attrs:       cloneAttrs(input.Attrs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutEntity(ctx, entity); err != nil {
		return Entity{}, err
	}
	return entity, nil
}

// GetEntity loads one entity by id.
func (s *Service) GetEntity(ctx context.Context, entityID string) (Entity, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return Entity{}, apperrors.New(apperrors.CodeEntityEmptyID, "entity id is required")
	}
	return s.store.GetEntity(ctx, entityID)
}

// UpdateEntity applies a partial update to one entity's display fields and attributes.
func (s *Service) UpdateEntity(ctx context.Context, input UpdateEntityInput) (Entity, error) {
	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" {
		return Entity{}, apperrors.New(apperrors.CodeEntityEmptyID, "entity id is required")
	}

	entity, err := s.store.GetEntity(ctx, entityID)
	if err != nil {
		return Entity{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Entity{}, apperrors.New(apperrors.CodeEntityEmptyName, "entity name is required")
		}
		entity.Name = name
	}
	if input.Description != nil {
		entity.Description = strings.TrimSpace(*input.Description)
	}
	if len(input.Attrs) > 0 {
		if entity.Attrs == nil {
			entity.Attrs = make(map[string]string, len(input.Attrs))
		}
		for key, value := range input.Attrs {
			if value == "" {
				delete(entity.Attrs, key)
				continue
			}
			entity.Attrs[key] = value
		}
	}
	entity.UpdatedAt = s.nowUTC()

	if err := s.store.PutEntity(ctx, entity); err != nil {
		return Entity{}, err
	}
	return entity, nil
}

// DeleteEntity removes one entity and its links.
func (s *Service) DeleteEntity(ctx context.Context, entityID string) error {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return apperrors.New(apperrors.CodeEntityEmptyID, "entity id is required")
	}
	return s.store.DeleteEntity(ctx, entityID)
}

// ListEntitiesByType lists all entities of one type.
func (s *Service) ListEntitiesByType(ctx context.Context, entityType EntityType) ([]Entity, error) {
	if !entityType.Valid() {
		return nil, apperrors.New(apperrors.CodeEntityInvalidType, "invalid entity type").
			WithMetadata(map[string]string{"Type": string(entityType)})
	}
	return s.store.ListEntitiesByType(ctx, entityType)
}

// Link records one directed relationship edge between two existing entities.
func (s *Service) Link(ctx context.Context, input LinkInput) (Link, error) {
	link, err := s.validateLinkInput(input)
	if err != nil {
		return Link{}, err
	}
	// Both endpoints must exist; the lookup surfaces NotFound before the write.
	if _, err := s.store.GetEntity(ctx, link.SourceID); err != nil {
		return Link{}, err
	}
	if _, err := s.store.GetEntity(ctx, link.TargetID); err != nil {
		return Link{}, err
	}
	link.CreatedAt = s.nowUTC()
	if err := s.store.PutLink(ctx, link); err != nil {
		return Link{}, err
	}
	return link, nil
}

// Unlink removes one directed relationship edge.
func (s *Service) Unlink(ctx context.Context, input LinkInput) error {
	link, err := s.validateLinkInput(input)
	if err != nil {
		return err
	}
	return s.store.DeleteLink(ctx, link.SourceID, link.TargetID, link.Relationship)
}

// ListLinks lists all links touching one entity.
func (s *Service) ListLinks(ctx context.Context, entityID string) ([]Link, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, apperrors.New(apperrors.CodeEntityEmptyID, "entity id is required")
	}
	return s.store.ListLinksForEntity(ctx, entityID)
}

func (s *Service) validateLinkInput(input LinkInput) (Link, error) {
	sourceID := strings.TrimSpace(input.SourceID)
	targetID := strings.TrimSpace(input.TargetID)
	if sourceID == "" {
		return Link{}, apperrors.New(apperrors.CodeLinkEmptySourceID, "link source id is required")
	}
	if targetID == "" {
		return Link{}, apperrors.New(apperrors.CodeLinkEmptyTargetID, "link target id is required")
	}
	if sourceID == targetID {
		return Link{}, apperrors.New(apperrors.CodeLinkSelfReference, "link endpoints must differ")
	}
	if !input.Relationship.Valid() {
		return Link{}, apperrors.New(apperrors.CodeLinkInvalidRelationship, "invalid relationship").
			WithMetadata(map[string]string{"Relationship": string(input.Relationship)})
	}
	return Link{
		SourceID:      sourceID,
		TargetID:      targetID,
		Relationship:  input.Relationship,
		Bidirectional: input.Bidirectional,
	}, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func cloneAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(attrs))
	for key, value := range attrs {
		if key == "" || value == "" {
			continue
		}
		cloned[key] = value
	}
	if len(cloned) == 0 {
		return nil
	}
	return cloned
}
