package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
)

func (s *Service) handleEnvironment(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Environment())
}

func (s *Service) handleInbox(w http.ResponseWriter, r *http.Request) {
	s.listArea(w, r, constants.Inbox, constants.ExtPDF)
}

func (s *Service) handleProcessed(w http.ResponseWriter, r *http.Request) {
	s.listArea(w, r, constants.Processed, constants.ExtPDF)
}

func (s *Service) handleCSVFiles(w http.ResponseWriter, r *http.Request) {
	s.listArea(w, r, constants.Results, constants.ExtCSV)
}

// handleArea lists any area by canonical name or by a legacy folder or
// bucket name, optionally filtered by ?ext=.
func (s *Service) handleArea(w http.ResponseWriter, r *http.Request) {
	area, ok := constants.CanonicalArea(chi.URLParam(r, "area"))
	if !ok {
		s.writeError(w, r, common.InvalidInputErrorf("unknown area; expected one of %s",
			strings.Join(constants.AsStringSlice(), ", ")))
		return
	}
	s.listArea(w, r, area, constants.NormalizeExt(r.URL.Query().Get("ext")))
}

func (s *Service) listArea(w http.ResponseWriter, r *http.Request, area constants.Area, ext string) {
	names, err := s.store.List(r.Context(), area, ext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Service) handleCSVFile(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, constants.ExtCSV)
}

func (s *Service) handleXLSXFile(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, constants.ExtXLSX)
}

// download streams a result file as an attachment.
func (s *Service) download(w http.ResponseWriter, r *http.Request, ext string) {
	name := chi.URLParam(r, "filename")
	v := common.NewValidator().
		Field("filename", name, common.Required, common.BaseName, common.Extension(ext))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok, err := s.store.Exists(r.Context(), constants.Results, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, common.NotFoundErrorf("file %s not found", name))
		return
	}
	data, err := s.store.Read(r.Context(), constants.Results, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", constants.ContentType(ext))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
