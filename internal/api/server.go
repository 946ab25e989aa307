// Package api exposes the transfer validation service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/verido/transfer-validator/internal/auth"
	"github.com/verido/transfer-validator/internal/comparison"
	"github.com/verido/transfer-validator/internal/extraction"
	"github.com/verido/transfer-validator/internal/llmcheck"
	"github.com/verido/transfer-validator/internal/storage"
)

// TextExtractor pulls text out of an uploaded screenshot.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageData []byte, kind string) (*extraction.Result, error)
}

// TransferValidator judges a transfer with an LLM.
type TransferValidator interface {
	Validate(ctx context.Context, sourceText, destinationText string) (*llmcheck.Result, error)
}

// ServerConfig wires the server's dependencies.
type ServerConfig struct {
	UploadRepo     storage.UploadRepository
	ComparisonRepo storage.ComparisonRepository
	AuthService    auth.Service
	Extractor      TextExtractor
	Validator      TransferValidator
}

type Server struct {
	router         *chi.Mux
	uploadRepo     storage.UploadRepository
	comparisonRepo storage.ComparisonRepository
	authService    auth.Service
	extractor      TextExtractor
	validator      TransferValidator
	engine         comparison.Engine
	validate       *validator.Validate
}

func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:         r,
		uploadRepo:     cfg.UploadRepo,
		comparisonRepo: cfg.ComparisonRepo,
		authService:    cfg.AuthService,
		extractor:      cfg.Extractor,
		validator:      cfg.Validator,
		engine:         comparison.NewEngine(),
		validate:       validator.New(),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/{kind}/upload", s.handleUpload)
				r.Post("/{kind}/upload/base64", s.handleUploadBase64)
				r.Get("/{kind}/list", s.handleListUploads)
				r.Delete("/{kind}/{uploadID}", s.handleDeleteUpload)
			})

			r.Route("/validation", func(r chi.Router) {
				r.Post("/compare", s.handleCompare)
				r.Post("/compare/text", s.handleCompareText)
				r.Post("/compare/gemini", s.handleCompareGemini)
				r.Get("/history", s.handleComparisonHistory)
				r.Get("/result/{comparisonID}", s.handleGetComparison)
				r.Delete("/result/{comparisonID}", s.handleDeleteComparison)
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/uploads", s.handleUploadHistory)
				r.Get("/uploads/stats", s.handleUploadStats)
				r.Get("/uploads/{uploadID}", s.handleUploadDetail)
				r.Delete("/uploads/{uploadID}", s.handleDeleteUploadFromHistory)
			})
		})
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
