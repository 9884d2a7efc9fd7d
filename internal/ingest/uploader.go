package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

const (
	DefaultMaxBytes = 32 << 20
	maxNameLength   = 255
)

// Uploader validates incoming PDFs and writes them to the inbox area.
type Uploader struct {
	store    storage.Store
	maxBytes int64
	logger   *slog.Logger
}

func NewUploader(store storage.Store, maxBytes int64, logger *slog.Logger) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{store: store, maxBytes: maxBytes, logger: common.LoggerOrDefault(logger)}
}

// MaxBytes is the per-file size limit.
func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Save stores data under filename in the inbox. An identical file already
// present is reported as deduplicated and not rewritten; a different file of
// the same name is replaced.
func (u *Uploader) Save(ctx context.Context, filename string, data []byte) (IngestionResult, error) {
	v := common.NewValidator().
		Field("filename", filename, common.Required, common.BaseName, common.MaxLength(maxNameLength), common.Extension(constants.ExtPDF))
	if err := common.ValidateAndReturnError(v); err != nil {
		return IngestionResult{Name: filename}, err
	}
	if len(data) == 0 {
		return IngestionResult{Name: filename}, common.InvalidInputErrorf("file %s is empty", filename)
	}
	if int64(len(data)) > u.maxBytes {
		return IngestionResult{Name: filename}, common.InvalidInputErrorf("file %s exceeds %d bytes", filename, u.maxBytes)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		u.logger.Warn("upload lacks a PDF header", "file", filename)
	}

	res := IngestionResult{Name: filename, Size: len(data), HashHex: storage.ContentHash(data)}

	exists, err := u.store.Exists(ctx, constants.Inbox, filename)
	if err != nil {
		return res, fmt.Errorf("check inbox: %w", err)
	}
	if exists {
		prev, err := u.store.Read(ctx, constants.Inbox, filename)
		if err == nil && storage.ContentHash(prev) == res.HashHex {
			res.Deduplicated = true
			u.logger.Info("upload deduplicated", "file", filename, "sha256", res.HashHex)
			return res, nil
		}
	}

	if err := u.store.Save(ctx, constants.Inbox, filename, data); err != nil {
		u.logger.Error("failed to store upload", "file", filename, "error", err)
		return res, err
	}
	u.logger.Info("upload stored", "file", filename, "size", res.Size, "sha256", res.HashHex)
	return res, nil
}
