package extract

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/po-extractor/internal/extractor"
	"github.com/joseph-ayodele/po-extractor/internal/pdftext"
)

// PDFAdapter binds a pdftext.Decoder to the TextDecoder stage.
type PDFAdapter struct {
	d *pdftext.Decoder
}

func NewPDFAdapter(d *pdftext.Decoder) *PDFAdapter {
	return &PDFAdapter{d: d}
}

func (a *PDFAdapter) Decode(ctx context.Context, data []byte) (TextResult, error) {
	r, err := a.d.Decode(ctx, data)
	return TextResult{
		Text:       r.Text,
		Pages:      r.Pages,
		Method:     r.Method,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, err
}

// PlainText treats the input as already-decoded UTF-8 text. It backs .txt
// inputs in the CLI and tests that bypass PDF decoding.
type PlainText struct{}

func (PlainText) Decode(_ context.Context, data []byte) (TextResult, error) {
	start := time.Now()
	res := TextResult{Text: pdftext.Normalize(string(data)), Pages: 1, Method: "text", Confidence: 1}
	if !utf8.Valid(data) {
		res.Warnings = append(res.Warnings, "input is not valid UTF-8")
	}
	res.Duration = time.Since(start)
	return res, nil
}

// RuleExtractor runs the pattern-based extractor.
type RuleExtractor struct{}

func (RuleExtractor) ExtractFields(ctx context.Context, text, filename string) (extractor.Document, error) {
	if err := ctx.Err(); err != nil {
		return extractor.Document{}, err
	}
	return extractor.Extract(text, filename), nil
}
