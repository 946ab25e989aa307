package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Comparison types, mirrored verbatim into the stored rows.
const (
	ComparisonTypeSimpleText     = "simple_text"
	ComparisonTypeSimpleTextOnly = "simple_text_only"
	ComparisonTypeLLMValidation  = "gemini_validation_multi"
)

// Comparison represents a persisted comparison result. Depending on the
// comparison type the row references a single upload pair, a multi-image ID
// set, or carries the raw texts directly.
type Comparison struct {
	ID                 uuid.UUID
	MainUploadID       uuid.NullUUID
	SecondaryUploadID  uuid.NullUUID
	MainUploadIDs      []uuid.UUID
	SecondaryUploadIDs []uuid.UUID
	ComparisonDate     time.Time
	Type               string
	ValidationResult   json.RawMessage
	SourceText         sql.NullString
	DestinationText    sql.NullString
}

// ComparisonRepository defines the interface for comparison storage operations
type ComparisonRepository interface {
	Create(ctx context.Context, comparison *Comparison) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comparison, error)
	List(ctx context.Context, offset, limit int) ([]*Comparison, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresComparisonRepository implements ComparisonRepository using PostgreSQL
type PostgresComparisonRepository struct {
	db *sql.DB
}

// NewPostgresComparisonRepository creates a new PostgresComparisonRepository
func NewPostgresComparisonRepository(db *sql.DB) *PostgresComparisonRepository {
	return &PostgresComparisonRepository{db: db}
}

// Create inserts a new comparison into the database
func (r *PostgresComparisonRepository) Create(ctx context.Context, comparison *Comparison) error {
	if comparison.ID == uuid.Nil {
		comparison.ID = uuid.New()
	}
	if comparison.ComparisonDate.IsZero() {
		comparison.ComparisonDate = time.Now()
	}

	mainIDs, err := marshalIDs(comparison.MainUploadIDs)
	if err != nil {
		return err
	}
	secondaryIDs, err := marshalIDs(comparison.SecondaryUploadIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO comparisons (id, main_upload_id, secondary_upload_id,
			main_upload_ids, secondary_upload_ids, comparison_date,
			comparison_type, validation_result, source_text, destination_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		comparison.ID,
		comparison.MainUploadID,
		comparison.SecondaryUploadID,
		mainIDs,
		secondaryIDs,
		comparison.ComparisonDate,
		comparison.Type,
		[]byte(comparison.ValidationResult),
		comparison.SourceText,
		comparison.DestinationText,
	)

	return err
}

// GetByID retrieves a comparison by its ID
func (r *PostgresComparisonRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comparison, error) {
	query := `
		SELECT id, main_upload_id, secondary_upload_id, main_upload_ids,
			secondary_upload_ids, comparison_date, comparison_type,
			validation_result, source_text, destination_text
		FROM comparisons
		WHERE id = $1
	`

	comparison, err := scanComparison(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return comparison, nil
}

// List retrieves comparisons, newest first
func (r *PostgresComparisonRepository) List(ctx context.Context, offset, limit int) ([]*Comparison, error) {
	query := `
		SELECT id, main_upload_id, secondary_upload_id, main_upload_ids,
			secondary_upload_ids, comparison_date, comparison_type,
			validation_result, source_text, destination_text
		FROM comparisons
		ORDER BY comparison_date DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comparisons []*Comparison
	for rows.Next() {
		comparison, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, comparison)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return comparisons, nil
}

// Count returns the total number of stored comparisons
func (r *PostgresComparisonRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comparisons`).Scan(&count)
	return count, err
}

// Delete removes a comparison from the database
func (r *PostgresComparisonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comparisons WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(row rowScanner) (*Comparison, error) {
	comparison := &Comparison{}
	var mainIDs, secondaryIDs, result []byte

	err := row.Scan(
		&comparison.ID,
		&comparison.MainUploadID,
		&comparison.SecondaryUploadID,
		&mainIDs,
		&secondaryIDs,
		&comparison.ComparisonDate,
		&comparison.Type,
		&result,
		&comparison.SourceText,
		&comparison.DestinationText,
	)
	if err != nil {
		return nil, err
	}

	comparison.ValidationResult = json.RawMessage(result)

	if comparison.MainUploadIDs, err = unmarshalIDs(mainIDs); err != nil {
		return nil, err
	}
	if comparison.SecondaryUploadIDs, err = unmarshalIDs(secondaryIDs); err != nil {
		return nil, err
	}

	return comparison, nil
}

// Multi-image ID sets are stored as JSONB arrays.
func marshalIDs(ids []uuid.UUID) ([]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return json.Marshal(ids)
}

func unmarshalIDs(data []byte) ([]uuid.UUID, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
