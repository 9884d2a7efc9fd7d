package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/pipeline"
	"github.com/joseph-ayodele/po-extractor/internal/repository"
)

const maxJSONBody = 1 << 20

type processRequest struct {
	Files []string `json:"files"`
}

type processResponse struct {
	Success bool `json:"success"`
	pipeline.BatchResult
}

func (s *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Files) == 0 {
		s.writeError(w, r, common.InvalidInputErrorf("no files provided"))
		return
	}

	res, err := s.proc.ProcessBatch(r.Context(), req.Files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, processResponse{Success: true, BatchResult: res})
}

type resultsResponse struct {
	Rows []repository.Row `json:"rows"`
}

func (s *Service) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 100
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, common.InvalidInputErrorf("limit must be a positive integer"))
			return
		}
		limit = n
	}

	var rows []repository.Row
	var err error
	if order := strings.TrimSpace(q.Get("order")); order != "" {
		rows, err = s.repo.ListByOrder(r.Context(), order)
	} else if batch := strings.TrimSpace(q.Get("batch")); batch != "" {
		if err := common.ValidateAndReturnError(common.NewValidator().Field("batch", batch, common.UUID)); err != nil {
			s.writeError(w, r, err)
			return
		}
		rows, err = s.repo.ListByBatch(r.Context(), batch)
	} else {
		rows, err = s.repo.ListRecent(r.Context(), limit)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []repository.Row{}
	}
	writeJSON(w, http.StatusOK, resultsResponse{Rows: rows})
}

type extractRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// handleExtract runs the extractor on caller-supplied text.
func (s *Service) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	v := common.NewValidator().
		Field("filename", req.Filename, common.BaseName, common.MaxLength(255))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.fields.ExtractFields(r.Context(), req.Text, req.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return common.InvalidInputErrorf("invalid JSON body: %v", err)
	}
	return nil
}
