package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/lorekeep/chronicle/internal/errors"
	"github.com/lorekeep/chronicle/internal/services/codex/domain"
	"github.com/lorekeep/chronicle/internal/services/codex/storage"
)

// domainStoreAdapter bridges the domain persistence boundary to the entity
// store, translating attribute bags to their serialized form and storage
// sentinels to coded errors.
type domainStoreAdapter struct {
	entityStore storage.EntityStore
}

func newDomainStoreAdapter(entityStore storage.EntityStore) *domainStoreAdapter {
	return &domainStoreAdapter{entityStore: entityStore}
}

func (a *domainStoreAdapter) PutEntity(ctx context.Context, entity domain.Entity) error {
	if a == nil || a.entityStore == nil {
		return fmt.Errorf("entity store is not configured")
	}
	record, err := toStorageEntity(entity)
	if err != nil {
		return err
	}
	return mapStorageError(a.entityStore.PutEntity(ctx, record))
}

func (a *domainStoreAdapter) GetEntity(ctx context.Context, entityID string) (domain.Entity, error) {
	if a == nil || a.entityStore == nil {
		return domain.Entity{}, fmt.Errorf("entity store is not configured")
	}
	record, err := a.entityStore.GetEntity(ctx, entityID)
	if err != nil {
		return domain.Entity{}, mapStorageError(err)
	}
	return toDomainEntity(record)
}

func (a *domainStoreAdapter) DeleteEntity(ctx context.Context, entityID string) error {
	if a == nil || a.entityStore == nil {
		return fmt.Errorf("entity store is not configured")
	}
	return mapStorageError(a.entityStore.DeleteEntity(ctx, entityID))
}

func (a *domainStoreAdapter) ListEntitiesByType(ctx context.Context, entityType domain.EntityType) ([]domain.Entity, error) {
	if a == nil || a.entityStore == nil {
		return nil, fmt.Errorf("entity store is not configured")
	}
	records, err := a.entityStore.ListEntitiesByType(ctx, string(entityType))
	if err != nil {
		return nil, mapStorageError(err)
	}
	entities := make([]domain.Entity, 0, len(records))
	for _, record := range records {
		entity, err := toDomainEntity(record)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (a *domainStoreAdapter) PutLink(ctx context.Context, link domain.Link) error {
	if a == nil || a.entityStore == nil {
		return fmt.Errorf("entity store is not configured")
	}
	return mapStorageError(a.entityStore.PutLink(ctx, storage.LinkRecord{
		SourceID:      link.SourceID,
		TargetID:      link.TargetID,
		Relationship:  string(link.Relationship),
		Bidirectional: link.Bidirectional,
		CreatedAt:     link.CreatedAt,
	}))
}

func (a *domainStoreAdapter) DeleteLink(ctx context.Context, sourceID, targetID string, relationship domain.Relationship) error {
	if a == nil || a.entityStore == nil {
		return fmt.Errorf("entity store is not configured")
	}
	return mapStorageError(a.entityStore.DeleteLink(ctx, sourceID, targetID, string(relationship)))
}

func (a *domainStoreAdapter) ListLinksForEntity(ctx context.Context, entityID string) ([]domain.Link, error) {
	if a == nil || a.entityStore == nil {
		return nil, fmt.Errorf("entity store is not configured")
	}
	records, err := a.entityStore.ListLinksForEntity(ctx, entityID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	links := make([]domain.Link, 0, len(records))
	for _, record := range records {
		links = append(links, domain.Link{
			SourceID:      record.SourceID,
			TargetID:      record.TargetID,
			Relationship:  domain.Relationship(record.Relationship),
			Bidirectional: record.Bidirectional,
			CreatedAt:     record.CreatedAt,
		})
	}
	return links, nil
}

func toStorageEntity(entity domain.Entity) (storage.EntityRecord, error) {
	attrsJSON := "{}"
	if len(entity.Attrs) > 0 {
		encoded, err := json.Marshal(entity.Attrs)
		if err != nil {
			return storage.EntityRecord{}, apperrors.Wrap(apperrors.CodeEntityAttrsInvalid, "encode entity attributes", err)
		}
		attrsJSON = string(encoded)
	}
	return storage.EntityRecord{
		ID:          entity.ID,
		Type:        string(entity.Type),
		Name:        entity.Name,
		Description: entity.Description,
		AttrsJSON:   attrsJSON,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}, nil
}

func toDomainEntity(record storage.EntityRecord) (domain.Entity, error) {
	var attrs map[string]string
	if record.AttrsJSON != "" && record.AttrsJSON != "{}" {
		if err := json.Unmarshal([]byte(record.AttrsJSON), &attrs); err != nil {
			return domain.Entity{}, apperrors.Wrap(apperrors.CodeEntityAttrsInvalid, "decode entity attributes", err).
				WithMetadata(map[string]string{"EntityID": record.ID})
		}
	}
	return domain.Entity{
		ID:          record.ID,
		Type:        domain.EntityType(record.Type),
		Name:        record.Name,
		Description: record.Description,
		Attrs:       attrs,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "record not found", err)
	case errors.Is(err, storage.ErrConflict):
		return apperrors.Wrap(apperrors.CodeConflict, "record conflict", err)
	default:
		return err
	}
}
