package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verido/transfer-validator/internal/imaging"
	"github.com/verido/transfer-validator/internal/storage"
	"github.com/verido/transfer-validator/pkg/models"
)

const maxUploadBytes = 10 << 20 // 10MB

// uploadKind resolves the {kind} route parameter, rejecting anything but
// the two screenshot roles.
func uploadKind(r *http.Request) (string, error) {
	kind := chi.URLParam(r, "kind")
	if kind != storage.KindMain && kind != storage.KindSecondary {
		return "", fmt.Errorf("invalid image type %q", kind)
	}
	return kind, nil
}

// handleUpload accepts a multipart screenshot upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := uploadKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file size exceeds 10MB limit")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "no file selected")
		return
	}

	if !imaging.AllowedExtension(header.Filename) {
		respondError(w, http.StatusBadRequest, "invalid file type, only images are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	s.storeUpload(w, r, data, header.Filename, header.Header.Get("Content-Type"), kind)
}

type base64UploadRequest struct {
	ImageData string `json:"image_data" validate:"required"`
	Filename  string `json:"filename"`
}

// handleUploadBase64 accepts a pasted screenshot as base64 data.
func (s *Server) handleUploadBase64(w http.ResponseWriter, r *http.Request) {
	kind, err := uploadKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req base64UploadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "no image data provided")
		return
	}

	imageData := req.ImageData
	if strings.HasPrefix(imageData, "data:image") {
		if _, rest, found := strings.Cut(imageData, ","); found {
			imageData = rest
		}
	}

	data, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid base64 image data")
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-screenshot-%d.png", kind, time.Now().Unix())
	}

	s.storeUpload(w, r, data, filename, "image/png", kind)
}

// storeUpload validates, optimizes, persists and extracts a screenshot.
// Extraction failures are recorded on the row but do not fail the upload.
func (s *Server) storeUpload(w http.ResponseWriter, r *http.Request, data []byte, filename, contentType, kind string) {
	if len(data) > maxUploadBytes {
		respondError(w, http.StatusBadRequest, "file size exceeds 10MB limit")
		return
	}

	if !imaging.IsImage(data) {
		respondError(w, http.StatusBadRequest, "invalid image file")
		return
	}

	optimized := imaging.Optimize(data)

	upload := &storage.Upload{
		ID:               uuid.New(),
		Filename:         fmt.Sprintf("%s_%s", uuid.New(), filename),
		OriginalFilename: filename,
		Kind:             kind,
		ContentType:      contentType,
		FileSize:         int64(len(optimized)),
		OriginalSize:     int64(len(data)),
		FileData:         optimized,
		UploadDate:       time.Now(),
		Status:           storage.StatusUploaded,
	}

	if err := s.uploadRepo.Create(r.Context(), upload); err != nil {
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	status := upload.Status
	if s.extractor != nil {
		var text, extractionErr string
		at := time.Now()

		result, err := s.extractor.ExtractText(r.Context(), optimized, kind)
		if err != nil {
			status = storage.StatusFailed
			extractionErr = err.Error()
		} else {
			status = storage.StatusExtracted
			text = result.Text
			at = result.ProcessedAt
		}

		if err := s.uploadRepo.SetExtractionResult(r.Context(), upload.ID, text, extractionErr, at); err != nil {
			log.Printf("failed to record extraction result for upload %s: %v", upload.ID, err)
			status = upload.Status
		}
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     fmt.Sprintf("%s image uploaded successfully", titleKind(kind)),
		"upload_id":   upload.ID.String(),
		"filename":    upload.Filename,
		"image_type":  kind,
		"file_size":   upload.FileSize,
		"upload_date": upload.UploadDate,
		"status":      status,
	})
}

// handleListUploads returns a page of uploads of one kind, newest first.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	kind, err := uploadKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, limit := pageParams(r)

	total, err := s.uploadRepo.Count(r.Context(), kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve images")
		return
	}

	uploads, err := s.uploadRepo.List(r.Context(), kind, (page-1)*limit, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve images")
		return
	}

	images := make([]models.UploadInfo, 0, len(uploads))
	for _, upload := range uploads {
		images = append(images, models.UploadInfo{
			UploadID:   upload.ID.String(),
			Filename:   upload.OriginalFilename,
			FileSize:   upload.FileSize,
			UploadDate: upload.UploadDate,
			Status:     upload.Status,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"images":     images,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// handleDeleteUpload removes an upload of one kind.
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := uploadKind(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload ID")
		return
	}

	upload, err := s.uploadRepo.GetByIDAndKind(r.Context(), id, kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}
	if upload == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("%s image not found", kind))
		return
	}

	if err := s.uploadRepo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s image deleted successfully", titleKind(kind)),
	})
}
