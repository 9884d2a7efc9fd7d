package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula"
)

// writeTemp stores data in a scratch file for tools that only accept paths.
func writeTemp(dir string, data []byte) (string, func(), error) {
	f, err := os.CreateTemp(dir, "po-*.pdf")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}

type pdftotextStrategy struct {
	bin    string
	layout bool
	tmpDir string
	runner Runner
}

func (pdftotextStrategy) name() string { return MethodPdftotext }

func (s pdftotextStrategy) decode(ctx context.Context, data []byte) (string, int, []string, error) {
	path, cleanup, err := writeTemp(s.tmpDir, data)
	if err != nil {
		return "", 0, nil, err
	}
	defer cleanup()

	// pdftotext [-layout] -enc UTF-8 -eol unix <path> -
	args := []string{"-enc", "UTF-8", "-eol", "unix", path, "-"}
	if s.layout {
		args = append([]string{"-layout"}, args...)
	}
	out, errb, err := s.runner.Run(ctx, s.bin, args...)
	if err != nil {
		return "", 0, []string{strings.TrimSpace(string(errb))}, err
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil, nil
}

type tabulaStrategy struct {
	tmpDir string
}

func (tabulaStrategy) name() string { return MethodTabula }

func (s tabulaStrategy) decode(_ context.Context, data []byte) (string, int, []string, error) {
	path, cleanup, err := writeTemp(s.tmpDir, data)
	if err != nil {
		return "", 0, nil, err
	}
	defer cleanup()

	text, warnings, err := tabula.Open(path).Text()
	var warns []string
	for _, w := range warnings {
		warns = append(warns, "tabula: "+w.Message)
	}
	if err != nil {
		return "", 0, warns, err
	}
	pages, err := tabula.Open(path).PageCount()
	if err != nil {
		pages = 0
	}
	return text, pages, warns, nil
}

type ledongthucStrategy struct{}

func (ledongthucStrategy) name() string { return MethodLedongthuc }

func (ledongthucStrategy) decode(_ context.Context, data []byte) (text string, pages int, warns []string, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if p := recover(); p != nil {
			text, pages, err = "", 0, fmt.Errorf("pdf reader panic: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, nil, fmt.Errorf("open pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), r.NumPage(), warns, nil
}
