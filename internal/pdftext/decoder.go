// Package pdftext turns PDF bytes into plain text with line structure
// preserved. Several decoding strategies are tried in order; the first one
// whose output looks like a purchase order wins.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Strategy names accepted in Config.Decoders.
const (
	MethodPdftotext  = "pdftotext"
	MethodTabula     = "tabula"
	MethodLedongthuc = "ledongthuc"
)

// acceptConfidence is the score at which a strategy's output is taken
// without trying the remaining strategies.
const acceptConfidence = 0.6

// ErrNoText is returned when no strategy produced any text.
var ErrNoText = errors.New("pdf has no extractable text")

type Config struct {
	Decoders  []string // strategy order; empty -> pdftotext, tabula, ledongthuc
	Pdftotext string   // binary name or absolute path; if empty -> "pdftotext"
	Layout    bool     // pass -layout to pdftotext
	TempDir   string   // scratch directory for strategies that need a file path
}

type Result struct {
	Text       string
	Pages      int
	Method     string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// strategy decodes a PDF held in memory.
type strategy interface {
	name() string
	decode(ctx context.Context, data []byte) (text string, pages int, warnings []string, err error)
}

type Decoder struct {
	cfg        Config
	runner     Runner
	strategies []strategy
	logger     *slog.Logger
}

type Option func(*Decoder)

// WithRunner replaces the command runner used by the pdftotext strategy.
func WithRunner(r Runner) Option {
	return func(d *Decoder) { d.runner = r }
}

func NewDecoder(cfg Config, logger *slog.Logger, opts ...Option) (*Decoder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if len(cfg.Decoders) == 0 {
		cfg.Decoders = []string{MethodPdftotext, MethodTabula, MethodLedongthuc}
	}
	d := &Decoder{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	for _, name := range cfg.Decoders {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case MethodPdftotext:
			d.strategies = append(d.strategies, pdftotextStrategy{bin: cfg.Pdftotext, layout: cfg.Layout, tmpDir: cfg.TempDir, runner: d.runner})
		case MethodTabula:
			d.strategies = append(d.strategies, tabulaStrategy{tmpDir: cfg.TempDir})
		case MethodLedongthuc:
			d.strategies = append(d.strategies, ledongthucStrategy{})
		default:
			return nil, fmt.Errorf("unknown pdf decoder %q", name)
		}
	}
	return d, nil
}

// Decode runs the configured strategies in order and returns the first
// confident result, or the best one seen when none is confident.
func (d *Decoder) Decode(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()
	if len(data) == 0 {
		return Result{}, fmt.Errorf("empty pdf content")
	}

	var best Result
	var warns []string
	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, pages, w, err := s.decode(ctx, data)
		warns = append(warns, w...)
		if err != nil {
			d.logger.Warn("pdf decoder failed", "method", s.name(), "error", err)
			warns = append(warns, fmt.Sprintf("%s: %v", s.name(), err))
			continue
		}
		text = Normalize(text)
		if strings.TrimSpace(text) == "" {
			d.logger.Debug("pdf decoder returned no text", "method", s.name())
			continue
		}
		conf := heuristicConfidence(text)
		d.logger.Debug("pdf decoder ok", "method", s.name(), "pages", pages, "chars", len(text), "confidence", conf)
		if best.Text == "" || conf > best.Confidence {
			best = Result{Text: text, Pages: pages, Method: s.name(), Confidence: conf}
		}
		if conf >= acceptConfidence {
			break
		}
	}

	best.Duration = time.Since(start)
	best.Warnings = warns
	if best.Text == "" {
		return best, ErrNoText
	}
	return best, nil
}

// Normalize converts line endings to \n and page breaks to blank lines, and
// drops NUL bytes some producers emit.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	return strings.ReplaceAll(s, "\x00", "")
}
