// Package ingest brings purchase-order PDFs into the inbox: HTTP uploads,
// local directory imports, and a filesystem watcher on a local inbox.
package ingest

import (
	"context"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string `json:"sourcePath,omitempty"`
	Name         string `json:"name"`
	Size         int    `json:"size"`
	Deduplicated bool   `json:"deduplicated"`
	HashHex      string `json:"sha256"`
	Err          string `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the server and CLIs depend on.
type Ingestor interface {
	// Save stores one uploaded file in the inbox.
	Save(ctx context.Context, filename string, data []byte) (IngestionResult, error)
	// IngestDirectory copies all PDFs under root into the inbox.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}
