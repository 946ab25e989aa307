package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verido/transfer-validator/internal/auth"
	"github.com/verido/transfer-validator/internal/extraction"
	"github.com/verido/transfer-validator/internal/llmcheck"
	"github.com/verido/transfer-validator/internal/storage"
)

// In-memory stand-ins for the storage and model dependencies.

type fakeUploadRepo struct {
	uploads            map[uuid.UUID]*storage.Upload
	extractionWriteErr error
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[uuid.UUID]*storage.Upload)}
}

func (r *fakeUploadRepo) Create(ctx context.Context, upload *storage.Upload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	r.uploads[upload.ID] = upload
	return nil
}

func (r *fakeUploadRepo) GetByID(ctx context.Context, id uuid.UUID) (*storage.Upload, error) {
	return r.uploads[id], nil
}

func (r *fakeUploadRepo) GetByIDAndKind(ctx context.Context, id uuid.UUID, kind string) (*storage.Upload, error) {
	upload := r.uploads[id]
	if upload == nil || upload.Kind != kind {
		return nil, nil
	}
	return upload, nil
}

func (r *fakeUploadRepo) List(ctx context.Context, kind string, offset, limit int) ([]*storage.Upload, error) {
	var result []*storage.Upload
	for _, upload := range r.uploads {
		if kind == "" || upload.Kind == kind {
			result = append(result, upload)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadDate.After(result[j].UploadDate)
	})
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *fakeUploadRepo) Count(ctx context.Context, kind string) (int, error) {
	count := 0
	for _, upload := range r.uploads {
		if kind == "" || upload.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *fakeUploadRepo) SetExtractionResult(ctx context.Context, id uuid.UUID, text string, extractionErr string, at time.Time) error {
	if r.extractionWriteErr != nil {
		return r.extractionWriteErr
	}
	upload, ok := r.uploads[id]
	if !ok {
		return fmt.Errorf("upload not found")
	}
	if extractionErr != "" {
		upload.Status = storage.StatusFailed
		upload.ExtractionError.String = extractionErr
		upload.ExtractionError.Valid = true
	} else {
		upload.Status = storage.StatusExtracted
		upload.ExtractedText.String = text
		upload.ExtractedText.Valid = true
	}
	upload.ExtractedAt.Time = at
	upload.ExtractedAt.Valid = true
	return nil
}

func (r *fakeUploadRepo) Stats(ctx context.Context) (*storage.UploadStats, error) {
	stats := &storage.UploadStats{}
	for _, upload := range r.uploads {
		stats.TotalUploads++
		stats.TotalBytes += upload.FileSize
		switch upload.Kind {
		case storage.KindMain:
			stats.MainCount++
		case storage.KindSecondary:
			stats.SecondaryCount++
		}
		if upload.Status == storage.StatusExtracted {
			stats.ExtractedCount++
		}
	}
	return stats, nil
}

func (r *fakeUploadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.uploads, id)
	return nil
}

type fakeComparisonRepo struct {
	comparisons map[uuid.UUID]*storage.Comparison
}

func newFakeComparisonRepo() *fakeComparisonRepo {
	return &fakeComparisonRepo{comparisons: make(map[uuid.UUID]*storage.Comparison)}
}

func (r *fakeComparisonRepo) Create(ctx context.Context, comparison *storage.Comparison) error {
	if comparison.ID == uuid.Nil {
		comparison.ID = uuid.New()
	}
	r.comparisons[comparison.ID] = comparison
	return nil
}

func (r *fakeComparisonRepo) GetByID(ctx context.Context, id uuid.UUID) (*storage.Comparison, error) {
	return r.comparisons[id], nil
}

func (r *fakeComparisonRepo) List(ctx context.Context, offset, limit int) ([]*storage.Comparison, error) {
	var result []*storage.Comparison
	for _, comparison := range r.comparisons {
		result = append(result, comparison)
	}
	return result, nil
}

func (r *fakeComparisonRepo) Count(ctx context.Context) (int, error) {
	return len(r.comparisons), nil
}

func (r *fakeComparisonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.comparisons, id)
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) ExtractText(ctx context.Context, imageData []byte, kind string) (*extraction.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &extraction.Result{Text: e.text, ImageKind: kind, ProcessedAt: time.Now(), Attempt: 1}, nil
}

type fakeValidator struct {
	result *llmcheck.Result
	err    error
}

func (v *fakeValidator) Validate(ctx context.Context, sourceText, destinationText string) (*llmcheck.Result, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}

// allowAll satisfies auth.Service for handler tests.
type allowAll struct{}

func (allowAll) Register(ctx context.Context, email, password string) (*auth.User, error) {
	return &auth.User{ID: uuid.New(), Email: email}, nil
}

func (allowAll) Login(ctx context.Context, email, password string) (string, error) {
	return "test-token", nil
}

func (allowAll) ValidateToken(tokenString string) (*auth.Claims, error) {
	return &auth.Claims{UserID: uuid.New().String(), Email: "operator@example.com"}, nil
}

type testEnv struct {
	server      *Server
	uploads     *fakeUploadRepo
	comparisons *fakeComparisonRepo
	extractor   *fakeExtractor
	validator   *fakeValidator
}

func newTestEnv() *testEnv {
	env := &testEnv{
		uploads:     newFakeUploadRepo(),
		comparisons: newFakeComparisonRepo(),
		extractor:   &fakeExtractor{text: "extracted text"},
		validator:   &fakeValidator{result: &llmcheck.Result{AccuracyScore: 97, IsSuccessfulTransfer: true, Summary: "ok"}},
	}
	env.server = NewServer(ServerConfig{
		UploadRepo:     env.uploads,
		ComparisonRepo: env.comparisons,
		AuthService:    allowAll{},
		Extractor:      env.extractor,
		Validator:      env.validator,
	})
	return env
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func (env *testEnv) seedUpload(kind, text string) *storage.Upload {
	upload := &storage.Upload{
		ID:               uuid.New(),
		Filename:         "stored.png",
		OriginalFilename: "original.png",
		Kind:             kind,
		ContentType:      "image/png",
		FileSize:         128,
		UploadDate:       time.Now(),
		Status:           storage.StatusExtracted,
	}
	if text != "" {
		upload.ExtractedText.String = text
		upload.ExtractedText.Valid = true
	}
	env.uploads.uploads[upload.ID] = upload
	return upload
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "longenough",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad email, got %d", rec.Code)
	}

	rec = env.request(t, "POST", "/api/auth/register", map[string]string{
		"email":    "operator@example.com",
		"password": "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", rec.Code)
	}

	rec = env.request(t, "POST", "/api/auth/register", map[string]string{
		"email":    "operator@example.com",
		"password": "longenough",
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/auth/login", map[string]string{
		"email":    "operator@example.com",
		"password": "longenough",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["token"] != "test-token" {
		t.Errorf("expected token in response, got %v", body)
	}
}

func TestUploadMultipart(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "screenshot.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(testPNG(t))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/uploads/main/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["image_type"] != "main" {
		t.Errorf("expected image_type main, got %v", body["image_type"])
	}
	if body["status"] != storage.StatusExtracted {
		t.Errorf("expected extraction to run on upload, got status %v", body["status"])
	}

	if len(env.uploads.uploads) != 1 {
		t.Fatalf("expected 1 stored upload, got %d", len(env.uploads.uploads))
	}
	for _, upload := range env.uploads.uploads {
		if upload.ExtractedText.String != "extracted text" {
			t.Errorf("expected extracted text on row, got %q", upload.ExtractedText.String)
		}
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("image", "notes.txt")
	part.Write([]byte("plain text"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/uploads/main/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadRejectsInvalidKind(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/uploads/thumbnail/upload/base64", map[string]string{
		"image_data": "aGVsbG8=",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadBase64(t *testing.T) {
	env := newTestEnv()

	encoded := "data:image/png;base64," + base64EncodeForTest(testPNG(t))
	rec := env.request(t, "POST", "/api/uploads/secondary/upload/base64", map[string]string{
		"image_data": encoded,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["image_type"] != "secondary" {
		t.Errorf("expected image_type secondary, got %v", body["image_type"])
	}
}

func TestUploadBase64RejectsGarbage(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/uploads/main/upload/base64", map[string]string{
		"image_data": "not base64 at all!!!",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadExtractionFailureDoesNotFailUpload(t *testing.T) {
	env := newTestEnv()
	env.extractor.err = fmt.Errorf("model unavailable")

	encoded := base64EncodeForTest(testPNG(t))
	rec := env.request(t, "POST", "/api/uploads/main/upload/base64", map[string]string{
		"image_data": encoded,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != storage.StatusFailed {
		t.Errorf("expected status %s, got %v", storage.StatusFailed, body["status"])
	}
}

func TestUploadStatusWriteFailureKeepsStoredStatus(t *testing.T) {
	env := newTestEnv()
	env.uploads.extractionWriteErr = fmt.Errorf("connection reset")

	encoded := base64EncodeForTest(testPNG(t))
	rec := env.request(t, "POST", "/api/uploads/main/upload/base64", map[string]string{
		"image_data": encoded,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// The extraction result never reached the row, so the response must
	// report the status the row actually has.
	body := decodeBody(t, rec)
	if body["status"] != storage.StatusUploaded {
		t.Errorf("expected status %s, got %v", storage.StatusUploaded, body["status"])
	}

	for _, upload := range env.uploads.uploads {
		if upload.Status != storage.StatusUploaded {
			t.Errorf("expected stored status %s, got %s", storage.StatusUploaded, upload.Status)
		}
	}
}

func TestCompareUploads(t *testing.T) {
	env := newTestEnv()

	main := env.seedUpload(storage.KindMain, "Acme Corporation\n123 Main St")
	secondary := env.seedUpload(storage.KindSecondary, "Acme Corporation\n123 Main St")

	rec := env.request(t, "POST", "/api/validation/compare", map[string]string{
		"main_upload_id":      main.ID.String(),
		"secondary_upload_id": secondary.ID.String(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	result := body["validation_result"].(map[string]interface{})
	if result["overall_similarity"].(float64) != 100 {
		t.Errorf("expected 100 similarity for identical texts, got %v", result["overall_similarity"])
	}

	if len(env.comparisons.comparisons) != 1 {
		t.Fatalf("expected comparison to be stored, got %d", len(env.comparisons.comparisons))
	}
	for _, comp := range env.comparisons.comparisons {
		if comp.Type != storage.ComparisonTypeSimpleText {
			t.Errorf("expected type %s, got %s", storage.ComparisonTypeSimpleText, comp.Type)
		}
	}
}

func TestCompareUploadsNotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/validation/compare", map[string]string{
		"main_upload_id":      uuid.New().String(),
		"secondary_upload_id": uuid.New().String(),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCompareUploadsWithoutText(t *testing.T) {
	env := newTestEnv()

	main := env.seedUpload(storage.KindMain, "")
	secondary := env.seedUpload(storage.KindSecondary, "some text")

	rec := env.request(t, "POST", "/api/validation/compare", map[string]string{
		"main_upload_id":      main.ID.String(),
		"secondary_upload_id": secondary.ID.String(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCompareText(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/validation/compare/text", map[string]interface{}{
		"source_text":      "Acme Corporation\n123 Main St",
		"destination_text": "Acme Corporation",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["comparison_id"] != nil {
		t.Errorf("expected no comparison_id without save_result, got %v", body["comparison_id"])
	}

	result := body["validation_result"].(map[string]interface{})
	if result["missing_lines"].(float64) != 1 {
		t.Errorf("expected 1 missing line, got %v", result["missing_lines"])
	}

	if len(env.comparisons.comparisons) != 0 {
		t.Errorf("expected nothing stored without save_result")
	}
}

func TestCompareTextSaveResult(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/validation/compare/text", map[string]interface{}{
		"source_text":      "hello world",
		"destination_text": "hello world",
		"save_result":      true,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["comparison_id"] == nil {
		t.Error("expected comparison_id with save_result")
	}

	if len(env.comparisons.comparisons) != 1 {
		t.Fatalf("expected stored comparison, got %d", len(env.comparisons.comparisons))
	}
	for _, comp := range env.comparisons.comparisons {
		if comp.Type != storage.ComparisonTypeSimpleTextOnly {
			t.Errorf("expected type %s, got %s", storage.ComparisonTypeSimpleTextOnly, comp.Type)
		}
		if comp.SourceText.String != "hello world" {
			t.Errorf("expected source text stored, got %q", comp.SourceText.String)
		}
	}
}

func TestCompareTextRejectsEmpty(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/validation/compare/text", map[string]interface{}{
		"source_text":      "  ",
		"destination_text": "hello",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCompareGemini(t *testing.T) {
	env := newTestEnv()

	main1 := env.seedUpload(storage.KindMain, "page one")
	main2 := env.seedUpload(storage.KindMain, "page two")
	secondary := env.seedUpload(storage.KindSecondary, "page one page two")

	rec := env.request(t, "POST", "/api/validation/compare/gemini", map[string]interface{}{
		"main_upload_ids":      []string{main1.ID.String(), main2.ID.String()},
		"secondary_upload_ids": []string{secondary.ID.String()},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	processed := body["images_processed"].(map[string]interface{})
	if processed["main_count"].(float64) != 2 {
		t.Errorf("expected 2 main images processed, got %v", processed["main_count"])
	}

	for _, comp := range env.comparisons.comparisons {
		if comp.Type != storage.ComparisonTypeLLMValidation {
			t.Errorf("expected type %s, got %s", storage.ComparisonTypeLLMValidation, comp.Type)
		}
		if len(comp.MainUploadIDs) != 2 {
			t.Errorf("expected 2 main upload IDs stored, got %d", len(comp.MainUploadIDs))
		}
	}
}

func TestCompareGeminiNoExtractedText(t *testing.T) {
	env := newTestEnv()

	main := env.seedUpload(storage.KindMain, "")
	secondary := env.seedUpload(storage.KindSecondary, "text")

	rec := env.request(t, "POST", "/api/validation/compare/gemini", map[string]interface{}{
		"main_upload_ids":      []string{main.ID.String()},
		"secondary_upload_ids": []string{secondary.ID.String()},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestComparisonHistoryAndResult(t *testing.T) {
	env := newTestEnv()

	rec := env.request(t, "POST", "/api/validation/compare/text", map[string]interface{}{
		"source_text":      "alpha\nbravo",
		"destination_text": "alpha",
		"save_result":      true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	saved := decodeBody(t, rec)["comparison_id"].(string)

	rec = env.request(t, "GET", "/api/validation/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	comparisons := body["comparisons"].([]interface{})
	if len(comparisons) != 1 {
		t.Fatalf("expected 1 comparison in history, got %d", len(comparisons))
	}

	summary := comparisons[0].(map[string]interface{})
	if summary["total_lines"].(float64) != 2 {
		t.Errorf("expected total_lines 2 in summary, got %v", summary["total_lines"])
	}

	rec = env.request(t, "GET", "/api/validation/result/"+saved, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.request(t, "DELETE", "/api/validation/result/"+saved, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.request(t, "GET", "/api/validation/result/"+saved, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUploadHistoryFilters(t *testing.T) {
	env := newTestEnv()

	env.seedUpload(storage.KindMain, "a")
	env.seedUpload(storage.KindSecondary, "b")

	rec := env.request(t, "GET", "/api/history/uploads?image_type=main", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	uploads := body["uploads"].([]interface{})
	if len(uploads) != 1 {
		t.Errorf("expected 1 main upload, got %d", len(uploads))
	}

	rec = env.request(t, "GET", "/api/history/uploads?image_type=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bogus image_type, got %d", rec.Code)
	}
}

func TestUploadHistoryPaginatesAcrossKinds(t *testing.T) {
	env := newTestEnv()

	oldest := env.seedUpload(storage.KindMain, "a")
	oldest.UploadDate = time.Now().Add(-2 * time.Hour)
	middle := env.seedUpload(storage.KindSecondary, "b")
	middle.UploadDate = time.Now().Add(-time.Hour)
	env.seedUpload(storage.KindMain, "c")

	rec := env.request(t, "GET", "/api/history/uploads?page=2&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	uploads := body["uploads"].([]interface{})
	if len(uploads) != 1 {
		t.Fatalf("expected 1 upload on page 2, got %d", len(uploads))
	}

	detail := uploads[0].(map[string]interface{})
	if detail["upload_id"] != oldest.ID.String() {
		t.Errorf("expected oldest upload on the last page, got %v", detail["upload_id"])
	}

	pagination := body["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 3 {
		t.Errorf("expected total 3, got %v", pagination["total"])
	}
	if pagination["pages"].(float64) != 2 {
		t.Errorf("expected 2 pages, got %v", pagination["pages"])
	}
}

func TestUploadStats(t *testing.T) {
	env := newTestEnv()

	env.seedUpload(storage.KindMain, "a")
	env.seedUpload(storage.KindSecondary, "b")

	rec := env.request(t, "GET", "/api/history/uploads/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	stats := body["stats"].(map[string]interface{})
	if stats["total_uploads"].(float64) != 2 {
		t.Errorf("expected 2 total uploads, got %v", stats["total_uploads"])
	}
	if stats["text_extraction_rate"].(float64) != 100 {
		t.Errorf("expected 100%% extraction rate, got %v", stats["text_extraction_rate"])
	}
}

func TestUploadDetailAndDelete(t *testing.T) {
	env := newTestEnv()

	upload := env.seedUpload(storage.KindMain, "hello")

	rec := env.request(t, "GET", "/api/history/uploads/"+upload.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	detail := body["upload"].(map[string]interface{})
	textExtraction := detail["text_extraction"].(map[string]interface{})
	if textExtraction["extracted_text"] != "hello" {
		t.Errorf("expected extracted text in detail, got %v", textExtraction["extracted_text"])
	}

	rec = env.request(t, "DELETE", "/api/history/uploads/"+upload.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.request(t, "GET", "/api/history/uploads/"+upload.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	env := newTestEnv()
	env.server = NewServer(ServerConfig{
		UploadRepo:     env.uploads,
		ComparisonRepo: env.comparisons,
		AuthService:    auth.NewJWTService(auth.DefaultConfig(), nil),
	})

	req := httptest.NewRequest("GET", "/api/validation/history", nil)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func base64EncodeForTest(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
