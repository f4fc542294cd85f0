// Package sqlite provides SQLite-backed persistence for codex records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lorekeep/chronicle/internal/platform/storage/sqlitemigrate"
	"github.com/lorekeep/chronicle/internal/services/codex/storage"
	"github.com/lorekeep/chronicle/internal/services/codex/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for codex entities and links.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a codex SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureForeignKeysEnabled(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func ensureForeignKeysEnabled(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("sqlite db is required")
	}
	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("check sqlite foreign key pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("sqlite foreign keys are disabled")
	}
	return nil
}

// PutEntity upserts one entity row.
func (s *Store) PutEntity(ctx context.Context, record storage.EntityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeEntityRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO entities (
		id, entity_type, name, description, attrs_json, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		entity_type = excluded.entity_type,
		name = excluded.name,
		description = excluded.description,
		attrs_json = excluded.attrs_json,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
	`,
		normalized.ID,
		normalized.Type,
		normalized.Name,
		normalized.Description,
		normalized.AttrsJSON,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put entity: %w", err)
	}
	return nil
}

// GetEntity loads one entity by id.
func (s *Store) GetEntity(ctx context.Context, entityID string) (storage.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EntityRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EntityRecord{}, fmt.Errorf("storage is not configured")
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return storage.EntityRecord{}, fmt.Errorf("entity id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, entity_type, name, description, attrs_json, created_at, updated_at
FROM entities
WHERE id = ?
`, entityID)
	record, err := scanEntity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EntityRecord{}, storage.ErrNotFound
		}
		return storage.EntityRecord{}, fmt.Errorf("get entity: %w", err)
	}
	return record, nil
}

// DeleteEntity removes one entity row; links cascade with the row.
func (s *Store) DeleteEntity(ctx context.Context, entityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM entities WHERE id = ?", entityID)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entity rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListEntitiesByType lists entities of one type in insertion order.
func (s *Store) ListEntitiesByType(ctx context.Context, entityType string) ([]storage.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return nil, fmt.Errorf("entity type is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, entity_type, name, description, attrs_json, created_at, updated_at
FROM entities
WHERE entity_type = ?
ORDER BY rowid ASC
`, entityType)
	if err != nil {
		return nil, fmt.Errorf("list entities by type: %w", err)
	}
	defer rows.Close()
	return collectEntities(rows)
}

// ListEntitiesByTypeAndAttr lists entities of one type whose attribute bag
// holds attrKey with a value exactly equal to attrValue. Rows missing the
// attribute never match. Results come back in insertion order so callers get
// a deterministic queried order.
func (s *Store) ListEntitiesByTypeAndAttr(ctx context.Context, entityType, attrKey, attrValue string) ([]storage.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	entityType = strings.TrimSpace(entityType)
	attrKey = strings.TrimSpace(attrKey)
	if entityType == "" {
		return nil, fmt.Errorf("entity type is required")
	}
	if attrKey == "" {
		return nil, fmt.Errorf("attribute key is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, entity_type, name, description, attrs_json, created_at, updated_at
FROM entities
WHERE entity_type = ?
  AND json_extract(attrs_json, '$.' || ?) = ?
ORDER BY rowid ASC
`, entityType, attrKey, attrValue)
	if err != nil {
		return nil, fmt.Errorf("list entities by attr: %w", err)
	}
	defer rows.Close()
	return collectEntities(rows)
}

// PutLink upserts one relationship edge row.
func (s *Store) PutLink(ctx context.Context, record storage.LinkRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeLinkRecord(record)
	if err != nil {
		return err
	}

	bidirectional := 0
	if normalized.Bidirectional {
		bidirectional = 1
	}
	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO entity_links (
		source_id, target_id, relationship, bidirectional, created_at
	) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(source_id, target_id, relationship) DO UPDATE SET
		bidirectional = excluded.bidirectional,
		created_at = excluded.created_at
	`,
		normalized.SourceID,
		normalized.TargetID,
		normalized.Relationship,
		bidirectional,
		toMillis(normalized.CreatedAt),
	)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put link: %w", err)
	}
	return nil
}

// DeleteLink removes one relationship edge row.
func (s *Store) DeleteLink(ctx context.Context, sourceID, targetID, relationship string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sourceID = strings.TrimSpace(sourceID)
	targetID = strings.TrimSpace(targetID)
	relationship = strings.TrimSpace(relationship)
	if sourceID == "" || targetID == "" || relationship == "" {
		return fmt.Errorf("link identity is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM entity_links
WHERE source_id = ? AND target_id = ? AND relationship = ?
`, sourceID, targetID, relationship)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListLinksForEntity lists every link touching one entity.
func (s *Store) ListLinksForEntity(ctx context.Context, entityID string) ([]storage.LinkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT source_id, target_id, relationship, bidirectional, created_at
FROM entity_links
WHERE source_id = ? OR target_id = ?
ORDER BY rowid ASC
`, entityID, entityID)
	if err != nil {
		return nil, fmt.Errorf("list links for entity: %w", err)
	}
	defer rows.Close()
	return collectLinks(rows)
}

// ListLinksForEntities lists every link whose source is one of the given ids.
func (s *Store) ListLinksForEntities(ctx context.Context, entityIDs []string) ([]storage.LinkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(entityIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(entityIDs))
	args := make([]any, len(entityIDs))
	for i, entityID := range entityIDs {
		placeholders[i] = "?"
		args[i] = entityID
	}

	query := fmt.Sprintf(`
SELECT source_id, target_id, relationship, bidirectional, created_at
FROM entity_links
WHERE source_id IN (%s)
ORDER BY rowid ASC
`, strings.Join(placeholders, ", "))

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links for entities: %w", err)
	}
	defer rows.Close()
	return collectLinks(rows)
}

type scanner func(dest ...any) error

func normalizeEntityRecord(record storage.EntityRecord) (storage.EntityRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.Type = strings.TrimSpace(record.Type)
	record.Name = strings.TrimSpace(record.Name)
	record.AttrsJSON = strings.TrimSpace(record.AttrsJSON)
	if record.AttrsJSON == "" {
		record.AttrsJSON = "{}"
	}
	if record.ID == "" {
		return storage.EntityRecord{}, fmt.Errorf("entity id is required")
	}
	if record.Type == "" {
		return storage.EntityRecord{}, fmt.Errorf("entity type is required")
	}
	if record.Name == "" {
		return storage.EntityRecord{}, fmt.Errorf("entity name is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.EntityRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.EntityRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func normalizeLinkRecord(record storage.LinkRecord) (storage.LinkRecord, error) {
	record.SourceID = strings.TrimSpace(record.SourceID)
	record.TargetID = strings.TrimSpace(record.TargetID)
	record.Relationship = strings.TrimSpace(record.Relationship)
	if record.SourceID == "" {
		return storage.LinkRecord{}, fmt.Errorf("link source id is required")
	}
	if record.TargetID == "" {
		return storage.LinkRecord{}, fmt.Errorf("link target id is required")
	}
	if record.Relationship == "" {
		return storage.LinkRecord{}, fmt.Errorf("link relationship is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.LinkRecord{}, fmt.Errorf("created_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

func scanEntity(scan scanner) (storage.EntityRecord, error) {
	var record storage.EntityRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Type,
		&record.Name,
		&record.Description,
		&record.AttrsJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EntityRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func collectEntities(rows *sql.Rows) ([]storage.EntityRecord, error) {
	var records []storage.EntityRecord
	for rows.Next() {
		record, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan entity row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entity rows: %w", err)
	}
	return records, nil
}

func scanLink(scan scanner) (storage.LinkRecord, error) {
	var record storage.LinkRecord
	var bidirectional int
	var createdAt int64
	if err := scan(
		&record.SourceID,
		&record.TargetID,
		&record.Relationship,
		&bidirectional,
		&createdAt,
	); err != nil {
		return storage.LinkRecord{}, err
	}
	record.Bidirectional = bidirectional != 0
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

func collectLinks(rows *sql.Rows) ([]storage.LinkRecord, error) {
	var records []storage.LinkRecord
	for rows.Next() {
		record, err := scanLink(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan link row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate link rows: %w", err)
	}
	return records, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}

func isForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "foreign key constraint failed")
}
