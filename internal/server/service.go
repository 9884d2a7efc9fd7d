// Package server exposes the extractor over HTTP and serves gRPC health.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/extract"
	"github.com/joseph-ayodele/po-extractor/internal/ingest"
	"github.com/joseph-ayodele/po-extractor/internal/pipeline"
	"github.com/joseph-ayodele/po-extractor/internal/repository"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

const serviceName = "po-extractor"

// BatchProcessor runs a batch of inbox files.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, filenames []string) (pipeline.BatchResult, error)
}

// Service holds the collaborators behind the HTTP handlers.
type Service struct {
	store     storage.Store
	proc      BatchProcessor
	uploader  *ingest.Uploader
	repo      repository.ResultRepository
	fields    extract.FieldExtractor
	staticDir string
	logger    *slog.Logger
}

type Option func(*Service)

func WithRepository(r repository.ResultRepository) Option {
	return func(s *Service) {
		if r != nil {
			s.repo = r
		}
	}
}

// WithStaticDir serves a built frontend from dir for non-API routes.
func WithStaticDir(dir string) Option {
	return func(s *Service) { s.staticDir = dir }
}

func NewService(store storage.Store, proc BatchProcessor, uploader *ingest.Uploader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		proc:     proc,
		uploader: uploader,
		repo:     repository.NopRepository{},
		fields:   extract.RuleExtractor{},
		logger:   common.LoggerOrDefault(logger),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps err to a status code and a client-safe message.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	logger := common.LoggerFromContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: common.PublicMessage(err)})
}
