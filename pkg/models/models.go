// Package models holds the JSON shapes shared by the HTTP API.
package models

import (
	"encoding/json"
	"time"
)

// Pagination describes a page of a listing response.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPagination computes page counts for a listing.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	}
}

// UploadInfo is the listing view of an upload.
type UploadInfo struct {
	UploadID   string    `json:"upload_id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
	Status     string    `json:"status"`
}

// UploadDetail is the full view of an upload, extraction state included.
type UploadDetail struct {
	UploadID         string         `json:"upload_id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	ImageType        string         `json:"image_type"`
	ContentType      string         `json:"content_type"`
	FileSize         int64          `json:"file_size"`
	OriginalSize     int64          `json:"original_size"`
	UploadDate       time.Time      `json:"upload_date"`
	Status           string         `json:"status"`
	TextExtraction   TextExtraction `json:"text_extraction"`
}

// TextExtraction describes the extraction outcome attached to an upload.
type TextExtraction struct {
	Processed     bool       `json:"processed"`
	ProcessedAt   *time.Time `json:"processed_at"`
	ExtractedText string     `json:"extracted_text"`
	Error         string     `json:"error,omitempty"`
}

// UploadStats summarizes the upload history for the stats endpoint.
type UploadStats struct {
	TotalUploads          int     `json:"total_uploads"`
	MainUploads           int     `json:"main_uploads"`
	SecondaryUploads      int     `json:"secondary_uploads"`
	SuccessfulExtractions int     `json:"successful_text_extractions"`
	ExtractionRate        float64 `json:"text_extraction_rate"`
	TotalFileSizeBytes    int64   `json:"total_file_size_bytes"`
	TotalFileSizeMB       float64 `json:"total_file_size_mb"`
}

// ComparisonSummary is the listing view of a stored comparison.
type ComparisonSummary struct {
	ComparisonID      string    `json:"comparison_id"`
	ComparisonDate    time.Time `json:"comparison_date"`
	ComparisonType    string    `json:"comparison_type"`
	OverallSimilarity float64   `json:"overall_similarity"`
	TotalLines        int       `json:"total_lines"`
	MatchedLines      int       `json:"matched_lines"`
	MainUploadID      *string   `json:"main_upload_id"`
	SecondaryUploadID *string   `json:"secondary_upload_id"`
}

// ComparisonDetail is the full view of a stored comparison.
type ComparisonDetail struct {
	ComparisonID      string          `json:"comparison_id"`
	ComparisonDate    time.Time       `json:"comparison_date"`
	ComparisonType    string          `json:"comparison_type"`
	MainUploadID      *string         `json:"main_upload_id"`
	SecondaryUploadID *string         `json:"secondary_upload_id"`
	ValidationResult  json.RawMessage `json:"validation_result"`
}
