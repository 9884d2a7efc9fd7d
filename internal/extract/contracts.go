package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/po-extractor/internal/extractor"
)

// TextDecoder is Stage 1: PDF bytes -> text.
type TextDecoder interface {
	Decode(ctx context.Context, data []byte) (TextResult, error)
}

type TextResult struct {
	Text       string
	Pages      int
	Method     string // "pdftotext" | "tabula" | "ledongthuc" | "text"
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// FieldExtractor is Stage 2: text -> structured purchase order.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text, filename string) (extractor.Document, error)
}
