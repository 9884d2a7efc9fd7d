package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("K_SERVICE", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PDF_DECODERS", "")
	cfg := LoadConfig()

	if cfg.Server.HTTPAddr != ":3001" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Storage.Backend != BackendLocal {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if len(cfg.PDF.Decoders) != 3 || cfg.PDF.Decoders[0] != "pdftotext" {
		t.Errorf("Decoders = %v", cfg.PDF.Decoders)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("K_SERVICE", "po-extractor")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PDF_DECODERS", " Tabula , ,LEDONGTHUC")
	t.Setenv("WORKERS", "8")
	t.Setenv("PROCESS_TIMEOUT", "90s")
	t.Setenv("WATCH_INBOX", "true")
	cfg := LoadConfig()

	if cfg.Storage.Backend != BackendGCS {
		t.Errorf("Backend = %q, want gcs on Cloud Run", cfg.Storage.Backend)
	}
	if got := strings.Join(cfg.PDF.Decoders, ","); got != "tabula,ledongthuc" {
		t.Errorf("Decoders = %q", got)
	}
	if cfg.Worker.Workers != 8 || cfg.Worker.ProcessTimeout != 90*time.Second {
		t.Errorf("Worker = %+v", cfg.Worker)
	}
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate() = %v, want ErrInvalidInput for watcher on gcs", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{InvalidInputErrorf("bad %s", "x"), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", NotFoundErrorf("missing")), http.StatusNotFound},
		{NewAppError("VALIDATION_ERROR", "x", ErrValidation), http.StatusBadRequest},
		{NewAppError("STORAGE", "x", ErrStorage), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(NotFoundErrorf("file not found: %s", "a.csv")); got != "file not found: a.csv" {
		t.Errorf("PublicMessage = %q", got)
	}
	if got := PublicMessage(errors.New("dial tcp: secret host")); got != "internal error" {
		t.Errorf("PublicMessage leaked %q", got)
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("file", "../x.pdf", BaseName).
		Field("file", "orden.docx", Extension("pdf")).
		Field("files", []string{}, Required).
		Field("name", "OC_1.pdf", Required, BaseName, Extension("pdf"), MaxLength(255))
	if len(v.Errors()) != 3 {
		t.Fatalf("got %d errors: %s", len(v.Errors()), v.ErrorMessage())
	}
	if err := ValidateAndReturnError(v); !errors.Is(err, ErrValidation) {
		t.Errorf("ValidateAndReturnError() = %v", err)
	}
	if err := ValidateAndReturnError(NewValidator().Field("id", "not-a-uuid", UUID)); err == nil {
		t.Error("UUID accepted garbage")
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, LogConfig{Level: "debug", Format: "json"})
	ctx := WithBatchID(WithRequestID(context.Background(), "req-1"), "batch-9")

	LoggerFromContext(ctx, base).Debug("hello")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"batch_id":"batch-9"`, `"level":"DEBUG"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
	if LoggerOrDefault(nil) != slog.Default() {
		t.Error("LoggerOrDefault(nil) is not slog.Default()")
	}
}
