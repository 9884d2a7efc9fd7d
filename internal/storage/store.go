// Package storage holds the purchase-order files as they move from the inbox
// to the processed area, and the result files written for each batch.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
)

// Store is a flat namespace of files per area.
type Store interface {
	// List returns the names in area ending in ext (case-insensitive; empty
	// ext lists everything), sorted by name descending.
	List(ctx context.Context, area constants.Area, ext string) ([]string, error)
	Read(ctx context.Context, area constants.Area, name string) ([]byte, error)
	Save(ctx context.Context, area constants.Area, name string, data []byte) error
	// Move relocates name from one area to another, overwriting the target.
	Move(ctx context.Context, from, to constants.Area, name string) error
	Exists(ctx context.Context, area constants.Area, name string) (bool, error)
	Environment() Environment
}

// Environment describes the active backend for the API.
type Environment struct {
	IsCloud      bool                      `json:"isCloud"`
	Backend      string                    `json:"backend"`
	Buckets      map[constants.Area]string `json:"buckets,omitempty"`
	LocalFolders map[constants.Area]string `json:"localFolders,omitempty"`
}

// ContentHash returns the hex sha256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func checkName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return common.InvalidInputErrorf("invalid file name %q", name)
	}
	return nil
}

func checkArea(a constants.Area) error {
	for _, known := range constants.Areas() {
		if a == known {
			return nil
		}
	}
	return common.InvalidInputErrorf("unknown storage area %q", a)
}

func filterSorted(names []string, ext string) []string {
	out := make([]string, 0, len(names))
	ext = strings.ToLower(ext)
	for _, n := range names {
		if ext == "" || strings.HasSuffix(strings.ToLower(n), ext) {
			out = append(out, n)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

func storageErr(op string, area constants.Area, name string, err error) error {
	return common.NewAppError("STORAGE_ERROR", fmt.Sprintf("%s %s/%s", op, area, name), fmt.Errorf("%w: %w", common.ErrStorage, err))
}
