// Package pipeline runs batches of purchase-order PDFs from the inbox through
// decoding and extraction, then writes the batch results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/export"
	"github.com/joseph-ayodele/po-extractor/internal/extract"
	"github.com/joseph-ayodele/po-extractor/internal/extractor"
	"github.com/joseph-ayodele/po-extractor/internal/repository"
	"github.com/joseph-ayodele/po-extractor/internal/results"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

// Processor coordinates text decoding then field extraction for each file,
// and writes the merged results of a batch.
type Processor struct {
	logger   *slog.Logger
	store    storage.Store
	decoder  extract.TextDecoder
	fields   extract.FieldExtractor
	exporter *export.Service
	repo     repository.ResultRepository
	workers  int
	now      func() time.Time
}

type Option func(*Processor)

// WithWorkers bounds how many documents are decoded at once.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithRepository(r repository.ResultRepository) Option {
	return func(p *Processor) {
		if r != nil {
			p.repo = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(
	logger *slog.Logger,
	store storage.Store,
	decoder extract.TextDecoder,
	fields extract.FieldExtractor,
	opts ...Option,
) *Processor {
	logger = common.LoggerOrDefault(logger)
	p := &Processor{
		logger:   logger,
		store:    store,
		decoder:  decoder,
		fields:   fields,
		exporter: export.NewService(store, logger),
		repo:     repository.NopRepository{},
		workers:  4,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Debug mirrors the counters the frontend shows after a run.
type Debug struct {
	TotalFiles int `json:"totalFiles"`
	// ProcessedFiles counts result keys, not input files.
	ProcessedFiles   int `json:"processedFiles"`
	FilesWithDetails int `json:"filesWithDetails"`
}

// FileStatus is the outcome of one input file.
type FileStatus struct {
	Name   string              `json:"name"`
	Status constants.JobStatus `json:"status"`
	Order  string              `json:"order,omitempty"`
	Items  int                 `json:"items"`
	Method string              `json:"method,omitempty"`
}

type BatchResult struct {
	BatchID  string       `json:"batchId"`
	Results  *results.Set `json:"data"`
	CSVName  string       `json:"csvPath,omitempty"`
	XLSXName string       `json:"xlsxPath,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
	Files    []FileStatus `json:"files"`
	Debug    Debug        `json:"debug"`
}

// Records returns the batch records in result order.
func (r BatchResult) Records() []results.Record {
	if r.Results == nil {
		return nil
	}
	return r.Results.Records()
}

type outcome struct {
	name     string
	doc      extractor.Document
	decoded  extract.TextResult
	notFound bool
	err      error
}

// ProcessBatch processes the named inbox files. Per-file failures are
// reported in BatchResult.Errors; the returned error is reserved for
// invalid input and failures writing the batch result itself.
func (p *Processor) ProcessBatch(ctx context.Context, filenames []string) (BatchResult, error) {
	if len(filenames) == 0 {
		return BatchResult{}, common.InvalidInputErrorf("no files provided")
	}

	batchID := uuid.NewString()
	ctx = common.WithBatchID(ctx, batchID)
	logger := common.LoggerFromContext(ctx, p.logger)
	started := p.now()
	logger.Info("pipeline.batch.start", "files", len(filenames), "workers", p.workers)

	outcomes := p.extractAll(ctx, filenames)

	set := results.NewSet()
	var errs []string
	files := make([]FileStatus, 0, len(outcomes))
	for _, o := range outcomes {
		st := FileStatus{Name: o.name, Status: constants.JobStatusFailed}
		switch {
		case o.notFound:
			errs = append(errs, "file not found: "+o.name)
		case o.err != nil:
			logger.Error("pipeline.file.failed", "file", o.name, "error", o.err)
			errs = append(errs, fmt.Sprintf("error processing %s: %v", o.name, o.err))
		case !o.doc.HasOrder():
			logSummary(logger, o)
			st.Status = constants.JobStatusNoOrder
			st.Method = o.decoded.Method
			errs = append(errs, "could not extract order number from: "+o.name)
		default:
			logSummary(logger, o)
			st.Status = constants.JobStatusExtracted
			st.Order, st.Items, st.Method = o.doc.Order, len(o.doc.Items), o.decoded.Method
			set.AddDocument(o.doc)
			if err := p.store.Move(ctx, constants.Inbox, constants.Processed, o.name); err != nil {
				logger.Error("failed to move processed file", "file", o.name, "error", err)
				errs = append(errs, fmt.Sprintf("error processing %s: %v", o.name, err))
			}
		}
		files = append(files, st)
	}

	res := BatchResult{
		BatchID: batchID,
		Results: set,
		Files:   files,
		Debug: Debug{
			TotalFiles:       len(filenames),
			ProcessedFiles:   set.Len(),
			FilesWithDetails: set.WithDetails(),
		},
	}

	if err := p.writeJSON(ctx, set); err != nil {
		return res, err
	}

	recs := set.Records()
	base, err := p.exporter.NextBaseName(ctx)
	if err != nil {
		errs = append(errs, fmt.Sprintf("error generating CSV: %v", err))
	} else {
		if res.CSVName, err = p.exporter.WriteCSV(ctx, base, recs); err != nil {
			errs = append(errs, fmt.Sprintf("error generating CSV: %v", err))
		}
		if res.XLSXName, err = p.exporter.WriteXLSX(ctx, base, recs); err != nil {
			errs = append(errs, fmt.Sprintf("error generating XLSX: %v", err))
		}
	}

	batch := repository.Batch{
		ID:             batchID,
		StartedAt:      started,
		FinishedAt:     p.now(),
		TotalFiles:     len(filenames),
		ProcessedFiles: set.Len(),
		ErrorCount:     len(errs),
		CSVName:        res.CSVName,
	}
	if err := p.repo.SaveBatch(ctx, batch, recs); err != nil {
		logger.Error("failed to persist batch", "error", err)
		errs = append(errs, fmt.Sprintf("error saving results: %v", err))
	}

	res.Errors = errs
	logger.Info("pipeline.batch.ok",
		"files", len(filenames),
		"records", set.Len(),
		"with_details", res.Debug.FilesWithDetails,
		"errors", len(errs),
		"csv", res.CSVName,
		"elapsed_ms", p.now().Sub(started).Milliseconds(),
	)
	return res, nil
}

// extractAll decodes and extracts every file with bounded parallelism. The
// returned slice is in input order. Files not started before ctx is done
// carry ctx's error.
func (p *Processor) extractAll(ctx context.Context, filenames []string) []outcome {
	outcomes := make([]outcome, len(filenames))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, name := range filenames {
		if err := ctx.Err(); err != nil {
			outcomes[i] = outcome{name: name, err: err}
			continue
		}
		i, name := i, name
		g.Go(func() error {
			outcomes[i] = p.extractOne(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (p *Processor) extractOne(ctx context.Context, name string) outcome {
	o := outcome{name: name}
	ok, err := p.store.Exists(ctx, constants.Inbox, name)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			o.notFound = true
			return o
		}
		o.err = err
		return o
	}
	if !ok {
		o.notFound = true
		return o
	}

	data, err := p.store.Read(ctx, constants.Inbox, name)
	if err != nil {
		o.err = err
		return o
	}
	o.decoded, err = p.decoder.Decode(ctx, data)
	if err != nil {
		o.err = fmt.Errorf("decode: %w", err)
		return o
	}
	o.doc, err = p.fields.ExtractFields(ctx, o.decoded.Text, name)
	if err != nil {
		o.err = fmt.Errorf("extract: %w", err)
	}
	return o
}

func (p *Processor) writeJSON(ctx context.Context, set *results.Set) error {
	data, err := set.Document()
	if err != nil {
		return common.NewAppError("INTERNAL", "encode results", fmt.Errorf("%w: %w", common.ErrInternal, err))
	}
	if err := results.Validate(data); err != nil {
		return common.NewAppError("INTERNAL", "results document failed validation", fmt.Errorf("%w: %w", common.ErrInternal, err))
	}
	if err := p.store.Save(ctx, constants.Results, constants.ResultsJSONName, data); err != nil {
		return common.WrapError(err, "save results document")
	}
	return nil
}

func logSummary(logger *slog.Logger, o outcome) {
	doc := o.doc
	logger.Info("pipeline.file.ok",
		"file", o.name,
		"method", o.decoded.Method,
		"pages", o.decoded.Pages,
		"confidence", o.decoded.Confidence,
		"order", doc.Order,
		"date", doc.Date,
		"to", doc.To,
		"invoice_to", doc.InvoiceTo,
		"items", len(doc.Items),
	)
	for _, w := range o.decoded.Warnings {
		logger.Debug("decoder warning", "file", o.name, "warning", w)
	}
	if doc.HasOrder() && len(doc.Items) == 0 {
		logger.Warn("no line items found", "file", o.name, "order", doc.Order)
	}
}
