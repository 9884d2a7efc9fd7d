package storage

import (
	"context"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
)

// Open builds the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg common.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case common.BackendGCS:
		return NewGCSStore(ctx, map[constants.Area]string{
			constants.Inbox:     cfg.BucketInbox,
			constants.Processed: cfg.BucketProcessed,
			constants.Results:   cfg.BucketResults,
		})
	case common.BackendLocal, "":
		return NewLocalStore(cfg.DataRoot)
	}
	return nil, common.InvalidInputErrorf("unknown storage backend %q", cfg.Backend)
}
