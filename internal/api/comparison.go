package api

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verido/transfer-validator/internal/comparison"
	"github.com/verido/transfer-validator/internal/storage"
	"github.com/verido/transfer-validator/pkg/models"
)

type compareRequest struct {
	MainUploadID      string `json:"main_upload_id" validate:"required,uuid"`
	SecondaryUploadID string `json:"secondary_upload_id" validate:"required,uuid"`
}

// handleCompare runs the text comparison over the extracted texts of one
// main and one secondary upload and stores the result.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "both main_upload_id and secondary_upload_id are required")
		return
	}

	mainID, _ := uuid.Parse(req.MainUploadID)
	secondaryID, _ := uuid.Parse(req.SecondaryUploadID)

	mainUpload, err := s.uploadRepo.GetByIDAndKind(r.Context(), mainID, storage.KindMain)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}
	if mainUpload == nil {
		respondError(w, http.StatusNotFound, "main upload not found")
		return
	}

	secondaryUpload, err := s.uploadRepo.GetByIDAndKind(r.Context(), secondaryID, storage.KindSecondary)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}
	if secondaryUpload == nil {
		respondError(w, http.StatusNotFound, "secondary upload not found")
		return
	}

	mainText := mainUpload.ExtractedText.String
	secondaryText := secondaryUpload.ExtractedText.String

	if mainText == "" {
		respondError(w, http.StatusBadRequest, "no text extracted from main image")
		return
	}
	if secondaryText == "" {
		respondError(w, http.StatusBadRequest, "no text extracted from secondary image")
		return
	}

	result := s.engine.Compare(mainText, secondaryText)

	stored, err := json.Marshal(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	record := &storage.Comparison{
		MainUploadID:      uuid.NullUUID{UUID: mainID, Valid: true},
		SecondaryUploadID: uuid.NullUUID{UUID: secondaryID, Valid: true},
		ComparisonDate:    time.Now(),
		Type:              storage.ComparisonTypeSimpleText,
		ValidationResult:  stored,
	}

	if err := s.comparisonRepo.Create(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store comparison result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"comparison_id":     record.ID.String(),
		"validation_result": roundedResult(result),
	})
}

type compareTextRequest struct {
	SourceText      string `json:"source_text"`
	DestinationText string `json:"destination_text"`
	SaveResult      bool   `json:"save_result"`
}

// handleCompareText compares raw texts directly, optionally saving the run.
func (s *Server) handleCompareText(w http.ResponseWriter, r *http.Request) {
	var req compareTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.SourceText) == "" || strings.TrimSpace(req.DestinationText) == "" {
		respondError(w, http.StatusBadRequest, "both source and destination text must be non-empty")
		return
	}

	result := s.engine.Compare(req.SourceText, req.DestinationText)

	var comparisonID *string
	if req.SaveResult {
		stored, err := json.Marshal(result)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "comparison failed")
			return
		}

		record := &storage.Comparison{
			ComparisonDate:   time.Now(),
			Type:             storage.ComparisonTypeSimpleTextOnly,
			ValidationResult: stored,
			SourceText:       nullString(req.SourceText),
			DestinationText:  nullString(req.DestinationText),
		}

		if err := s.comparisonRepo.Create(r.Context(), record); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to store comparison result")
			return
		}

		id := record.ID.String()
		comparisonID = &id
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"comparison_id":     comparisonID,
		"validation_result": roundedResult(result),
	})
}

type compareGeminiRequest struct {
	MainUploadIDs      []string `json:"main_upload_ids" validate:"required,min=1,dive,uuid"`
	SecondaryUploadIDs []string `json:"secondary_upload_ids" validate:"required,min=1,dive,uuid"`
}

// handleCompareGemini validates a multi-image transfer with the LLM. The
// extracted texts of each side are concatenated before validation.
func (s *Server) handleCompareGemini(w http.ResponseWriter, r *http.Request) {
	var req compareGeminiRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "both main_upload_ids and secondary_upload_ids arrays are required")
		return
	}

	if s.validator == nil {
		respondError(w, http.StatusServiceUnavailable, "LLM validation is not configured")
		return
	}

	mainIDs, mainText, err := s.combinedText(r, req.MainUploadIDs, storage.KindMain)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "validation failed")
		return
	}
	if mainText == "" {
		respondError(w, http.StatusBadRequest, "no text extracted from main images")
		return
	}

	secondaryIDs, secondaryText, err := s.combinedText(r, req.SecondaryUploadIDs, storage.KindSecondary)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "validation failed")
		return
	}
	if secondaryText == "" {
		respondError(w, http.StatusBadRequest, "no text extracted from secondary images")
		return
	}

	validation, err := s.validator.Validate(r.Context(), mainText, secondaryText)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LLM validation failed")
		return
	}

	stored, err := json.Marshal(validation)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	record := &storage.Comparison{
		MainUploadIDs:      mainIDs,
		SecondaryUploadIDs: secondaryIDs,
		ComparisonDate:     time.Now(),
		Type:               storage.ComparisonTypeLLMValidation,
		ValidationResult:   stored,
	}

	if err := s.comparisonRepo.Create(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store validation result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"comparison_id":     record.ID.String(),
		"validation_result": validation,
		"images_processed": map[string]int{
			"main_count":      len(req.MainUploadIDs),
			"secondary_count": len(req.SecondaryUploadIDs),
		},
	})
}

// combinedText concatenates the extracted texts of the given uploads in
// request order, skipping uploads without text.
func (s *Server) combinedText(r *http.Request, rawIDs []string, kind string) ([]uuid.UUID, string, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	var parts []string

	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)

		upload, err := s.uploadRepo.GetByIDAndKind(r.Context(), id, kind)
		if err != nil {
			return nil, "", err
		}
		if upload != nil && upload.ExtractedText.String != "" {
			parts = append(parts, upload.ExtractedText.String)
		}
	}

	return ids, strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

// handleComparisonHistory lists stored comparisons, newest first.
func (s *Server) handleComparisonHistory(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	total, err := s.comparisonRepo.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve comparison history")
		return
	}

	comparisons, err := s.comparisonRepo.List(r.Context(), (page-1)*limit, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve comparison history")
		return
	}

	summaries := make([]models.ComparisonSummary, 0, len(comparisons))
	for _, comp := range comparisons {
		summary := models.ComparisonSummary{
			ComparisonID:      comp.ID.String(),
			ComparisonDate:    comp.ComparisonDate,
			ComparisonType:    comp.Type,
			MainUploadID:      nullUUIDString(comp.MainUploadID),
			SecondaryUploadID: nullUUIDString(comp.SecondaryUploadID),
		}

		// Lift the headline numbers out of the stored result.
		var headline struct {
			OverallSimilarity float64 `json:"overall_similarity"`
			TotalLines        int     `json:"total_lines"`
			MatchedLines      int     `json:"matched_lines"`
		}
		if err := json.Unmarshal(comp.ValidationResult, &headline); err == nil {
			summary.OverallSimilarity = round1(headline.OverallSimilarity)
			summary.TotalLines = headline.TotalLines
			summary.MatchedLines = headline.MatchedLines
		}

		summaries = append(summaries, summary)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"comparisons": summaries,
		"pagination":  models.NewPagination(page, limit, total),
	})
}

// handleGetComparison returns a stored comparison in full.
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comparison ID")
		return
	}

	comp, err := s.comparisonRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve comparison result")
		return
	}
	if comp == nil {
		respondError(w, http.StatusNotFound, "comparison result not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result": models.ComparisonDetail{
			ComparisonID:      comp.ID.String(),
			ComparisonDate:    comp.ComparisonDate,
			ComparisonType:    comp.Type,
			MainUploadID:      nullUUIDString(comp.MainUploadID),
			SecondaryUploadID: nullUUIDString(comp.SecondaryUploadID),
			ValidationResult:  comp.ValidationResult,
		},
	})
}

// handleDeleteComparison deletes a stored comparison.
func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "comparisonID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comparison ID")
		return
	}

	comp, err := s.comparisonRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete comparison result")
		return
	}
	if comp == nil {
		respondError(w, http.StatusNotFound, "comparison result not found")
		return
	}

	if err := s.comparisonRepo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete comparison result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comparison result deleted successfully",
	})
}

// roundedResult copies the result with percentages rounded to one decimal
// for presentation. Stored results keep full precision.
func roundedResult(result *comparison.Result) *comparison.Result {
	rounded := *result
	rounded.OverallSimilarity = round1(result.OverallSimilarity)
	rounded.CharacterAccuracy = round1(result.CharacterAccuracy)
	rounded.WordAccuracy = round1(result.WordAccuracy)
	rounded.AverageMatchScore = round1(result.AverageMatchScore)

	rounded.Matches = make([]comparison.LineMatch, len(result.Matches))
	for i, match := range result.Matches {
		match.MatchScore = round1(match.MatchScore)
		rounded.Matches[i] = match
	}

	return &rounded
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUIDString(id uuid.NullUUID) *string {
	if !id.Valid {
		return nil
	}
	s := id.UUID.String()
	return &s
}
