package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/ingest"
)

const uploadField = "files"

type uploadResponse struct {
	Success bool                     `json:"success"`
	Files   []ingest.IngestionResult `json:"files"`
	Errors  []string                 `json:"errors,omitempty"`
}

// handleUpload stores every PDF of the multipart "files" field in the inbox.
// Invalid files are reported individually; the request fails only when no
// file could be stored.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.uploader.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, 8*limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, common.InvalidInputErrorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, common.InvalidInputErrorf("invalid multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		s.writeError(w, r, common.InvalidInputErrorf("no files uploaded"))
		return
	}

	resp := uploadResponse{Files: []ingest.IngestionResult{}}
	for _, fh := range headers {
		data, err := readPart(fh, limit)
		if err == nil {
			var res ingest.IngestionResult
			res, err = s.uploader.Save(r.Context(), fh.Filename, data)
			if err == nil {
				resp.Files = append(resp.Files, res)
				continue
			}
		}
		resp.Errors = append(resp.Errors, fh.Filename+": "+common.PublicMessage(err))
	}
	if len(resp.Files) == 0 {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	resp.Success = true
	writeJSON(w, http.StatusOK, resp)
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, common.InvalidInputErrorf("file %s exceeds %d bytes", fh.Filename, limit)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, limit+1))
}
