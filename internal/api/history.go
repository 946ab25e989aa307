package api

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verido/transfer-validator/internal/storage"
	"github.com/verido/transfer-validator/pkg/models"
)

// handleUploadHistory lists uploads across both kinds with an optional
// image_type filter.
func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("image_type")
	switch kind {
	case "", "all":
		kind = ""
	case storage.KindMain, storage.KindSecondary:
	default:
		respondError(w, http.StatusBadRequest, `invalid image_type, must be "main", "secondary", or "all"`)
		return
	}

	page, limit := pageParams(r)

	total, err := s.uploadRepo.Count(r.Context(), kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve upload history")
		return
	}

	uploads, err := s.uploadRepo.List(r.Context(), kind, (page-1)*limit, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve upload history")
		return
	}

	details := make([]models.UploadDetail, 0, len(uploads))
	for _, upload := range uploads {
		details = append(details, uploadDetail(upload))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"uploads":    details,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// handleUploadStats returns aggregate upload statistics.
func (s *Server) handleUploadStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uploadRepo.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve upload statistics")
		return
	}

	rate := 0.0
	if stats.TotalUploads > 0 {
		rate = math.Round(float64(stats.ExtractedCount)/float64(stats.TotalUploads)*10000) / 100
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats": models.UploadStats{
			TotalUploads:          stats.TotalUploads,
			MainUploads:           stats.MainCount,
			SecondaryUploads:      stats.SecondaryCount,
			SuccessfulExtractions: stats.ExtractedCount,
			ExtractionRate:        rate,
			TotalFileSizeBytes:    stats.TotalBytes,
			TotalFileSizeMB:       math.Round(float64(stats.TotalBytes)/(1<<20)*100) / 100,
		},
	})
}

// handleUploadDetail returns one upload with its extraction state.
func (s *Server) handleUploadDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload ID")
		return
	}

	upload, err := s.uploadRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve upload details")
		return
	}
	if upload == nil {
		respondError(w, http.StatusNotFound, "upload not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"upload":  uploadDetail(upload),
	})
}

// handleDeleteUploadFromHistory deletes an upload regardless of kind.
func (s *Server) handleDeleteUploadFromHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload ID")
		return
	}

	upload, err := s.uploadRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete upload")
		return
	}
	if upload == nil {
		respondError(w, http.StatusNotFound, "upload not found")
		return
	}

	if err := s.uploadRepo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete upload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Upload deleted successfully",
	})
}

func uploadDetail(upload *storage.Upload) models.UploadDetail {
	extraction := models.TextExtraction{
		Processed:     upload.Status == storage.StatusExtracted,
		ExtractedText: upload.ExtractedText.String,
		Error:         upload.ExtractionError.String,
	}
	if upload.ExtractedAt.Valid {
		at := upload.ExtractedAt.Time
		extraction.ProcessedAt = &at
	}

	return models.UploadDetail{
		UploadID:         upload.ID.String(),
		Filename:         upload.Filename,
		OriginalFilename: upload.OriginalFilename,
		ImageType:        upload.Kind,
		ContentType:      upload.ContentType,
		FileSize:         upload.FileSize,
		OriginalSize:     upload.OriginalSize,
		UploadDate:       upload.UploadDate,
		Status:           upload.Status,
		TextExtraction:   extraction,
	}
}
