package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Upload kinds. Main is the source business document, secondary the
// destination system screenshot.
const (
	KindMain      = "main"
	KindSecondary = "secondary"
)

// Upload statuses.
const (
	StatusUploaded  = "uploaded"
	StatusExtracted = "extracted"
	StatusFailed    = "extraction_failed"
)

// Upload represents an uploaded screenshot and its extraction state. The
// image bytes live on the row; FileData is only populated by GetByID.
type Upload struct {
	ID               uuid.UUID
	Filename         string
	OriginalFilename string
	Kind             string
	ContentType      string
	FileSize         int64
	OriginalSize     int64
	FileData         []byte
	UploadDate       time.Time
	Status           string
	ExtractedText    sql.NullString
	ExtractedAt      sql.NullTime
	ExtractionError  sql.NullString
}

// UploadStats summarizes the upload history.
type UploadStats struct {
	TotalUploads   int
	MainCount      int
	SecondaryCount int
	ExtractedCount int
	TotalBytes     int64
}

// UploadRepository defines the interface for upload storage operations
type UploadRepository interface {
	Create(ctx context.Context, upload *Upload) error
	GetByID(ctx context.Context, id uuid.UUID) (*Upload, error)
	GetByIDAndKind(ctx context.Context, id uuid.UUID, kind string) (*Upload, error)
	List(ctx context.Context, kind string, offset, limit int) ([]*Upload, error)
	Count(ctx context.Context, kind string) (int, error)
	SetExtractionResult(ctx context.Context, id uuid.UUID, text string, extractionErr string, at time.Time) error
	Stats(ctx context.Context) (*UploadStats, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresUploadRepository implements UploadRepository using PostgreSQL
type PostgresUploadRepository struct {
	db *sql.DB
}

// NewPostgresUploadRepository creates a new PostgresUploadRepository
func NewPostgresUploadRepository(db *sql.DB) *PostgresUploadRepository {
	return &PostgresUploadRepository{db: db}
}

// Create inserts a new upload into the database
func (r *PostgresUploadRepository) Create(ctx context.Context, upload *Upload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.UploadDate.IsZero() {
		upload.UploadDate = time.Now()
	}
	if upload.Status == "" {
		upload.Status = StatusUploaded
	}

	query := `
		INSERT INTO uploads (id, filename, original_filename, kind, content_type,
			file_size, original_size, file_data, upload_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		upload.ID,
		upload.Filename,
		upload.OriginalFilename,
		upload.Kind,
		upload.ContentType,
		upload.FileSize,
		upload.OriginalSize,
		upload.FileData,
		upload.UploadDate,
		upload.Status,
	)

	return err
}

// GetByID retrieves an upload by its ID, including the image bytes
func (r *PostgresUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*Upload, error) {
	query := `
		SELECT id, filename, original_filename, kind, content_type, file_size,
			original_size, file_data, upload_date, status, extracted_text,
			extracted_at, extraction_error
		FROM uploads
		WHERE id = $1
	`

	upload := &Upload{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&upload.ID,
		&upload.Filename,
		&upload.OriginalFilename,
		&upload.Kind,
		&upload.ContentType,
		&upload.FileSize,
		&upload.OriginalSize,
		&upload.FileData,
		&upload.UploadDate,
		&upload.Status,
		&upload.ExtractedText,
		&upload.ExtractedAt,
		&upload.ExtractionError,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return upload, nil
}

// GetByIDAndKind retrieves an upload only if it has the expected kind
func (r *PostgresUploadRepository) GetByIDAndKind(ctx context.Context, id uuid.UUID, kind string) (*Upload, error) {
	upload, err := r.GetByID(ctx, id)
	if err != nil || upload == nil {
		return nil, err
	}
	if upload.Kind != kind {
		return nil, nil
	}
	return upload, nil
}

// List retrieves uploads newest first, without the image bytes; an empty
// kind lists all uploads
func (r *PostgresUploadRepository) List(ctx context.Context, kind string, offset, limit int) ([]*Upload, error) {
	query := `
		SELECT id, filename, original_filename, kind, content_type, file_size,
			original_size, upload_date, status, extracted_text, extracted_at,
			extraction_error
		FROM uploads
	`
	args := []interface{}{offset, limit}
	if kind == "" {
		query += ` ORDER BY upload_date DESC OFFSET $1 LIMIT $2`
	} else {
		query += ` WHERE kind = $1 ORDER BY upload_date DESC OFFSET $2 LIMIT $3`
		args = []interface{}{kind, offset, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		upload := &Upload{}
		err := rows.Scan(
			&upload.ID,
			&upload.Filename,
			&upload.OriginalFilename,
			&upload.Kind,
			&upload.ContentType,
			&upload.FileSize,
			&upload.OriginalSize,
			&upload.UploadDate,
			&upload.Status,
			&upload.ExtractedText,
			&upload.ExtractedAt,
			&upload.ExtractionError,
		)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return uploads, nil
}

// Count returns the number of uploads of a kind; an empty kind counts all
func (r *PostgresUploadRepository) Count(ctx context.Context, kind string) (int, error) {
	var count int
	var err error
	if kind == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads WHERE kind = $1`, kind).Scan(&count)
	}
	return count, err
}

// SetExtractionResult records the outcome of a text extraction attempt.
// A non-empty extractionErr marks the upload failed; otherwise the text is
// stored and the upload marked extracted.
func (r *PostgresUploadRepository) SetExtractionResult(ctx context.Context, id uuid.UUID, text string, extractionErr string, at time.Time) error {
	status := StatusExtracted
	if extractionErr != "" {
		status = StatusFailed
	}

	query := `
		UPDATE uploads
		SET extracted_text = $2, extraction_error = NULLIF($3, ''), extracted_at = $4, status = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, text, extractionErr, at, status)
	return err
}

// Stats aggregates counts over the whole uploads table
func (r *PostgresUploadRepository) Stats(ctx context.Context) (*UploadStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE kind = 'main'),
			COUNT(*) FILTER (WHERE kind = 'secondary'),
			COUNT(*) FILTER (WHERE status = 'extracted'),
			COALESCE(SUM(file_size), 0)
		FROM uploads
	`

	stats := &UploadStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUploads,
		&stats.MainCount,
		&stats.SecondaryCount,
		&stats.ExtractedCount,
		&stats.TotalBytes,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Delete removes an upload from the database
func (r *PostgresUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM uploads WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
