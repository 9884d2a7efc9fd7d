package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

var pdfBody = []byte("%PDF-1.4\nfake\n")

func newUploader(t *testing.T, maxBytes int64) (*Uploader, storage.Store) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewUploader(store, maxBytes, nil), store
}

func TestUploaderSave(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  error
	}{
		{"ok", "OC_4517984961.pdf", pdfBody, nil},
		{"upper case extension", "ORDER.PDF", pdfBody, nil},
		{"wrong extension", "order.docx", pdfBody, common.ErrValidation},
		{"path traversal", "../order.pdf", pdfBody, common.ErrValidation},
		{"empty name", "", pdfBody, common.ErrValidation},
		{"empty body", "order.pdf", nil, common.ErrInvalidInput},
		{"too large", "big.pdf", make([]byte, 64), common.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, store := newUploader(t, 32)
			res, err := u.Save(context.Background(), tt.filename, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if res.HashHex != storage.ContentHash(tt.data) || res.Size != len(tt.data) {
				t.Errorf("result = %+v", res)
			}
			if ok, _ := store.Exists(context.Background(), constants.Inbox, tt.filename); !ok {
				t.Error("file not stored in inbox")
			}
		})
	}
}

func TestUploaderSave_Deduplicates(t *testing.T) {
	u, _ := newUploader(t, 0)
	ctx := context.Background()
	if _, err := u.Save(ctx, "a.pdf", pdfBody); err != nil {
		t.Fatal(err)
	}
	res, err := u.Save(ctx, "a.pdf", pdfBody)
	if err != nil || !res.Deduplicated {
		t.Fatalf("second save = %+v, %v", res, err)
	}
	res, err = u.Save(ctx, "a.pdf", append([]byte{}, append(pdfBody, 'x')...))
	if err != nil || res.Deduplicated {
		t.Fatalf("changed content = %+v, %v", res, err)
	}
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, pdfBody, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.pdf")
	write("nested/b.PDF")
	write("notes.txt")
	write(".hidden/c.pdf")

	u, store := newUploader(t, 0)
	results, stats, err := u.IngestDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if stats.Matched != 2 || stats.Succeeded != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	names := Names(results)
	if len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
	got, _ := store.List(context.Background(), constants.Inbox, constants.ExtPDF)
	if len(got) != 2 {
		t.Errorf("inbox = %v", got)
	}

	if _, _, err := u.IngestDirectory(context.Background(), " ", false); err == nil {
		t.Error("expected error for blank root")
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "order.pdf")
	if err := os.WriteFile(want, pdfBody, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-events:
		if got != want {
			t.Errorf("event = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no watcher event")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
