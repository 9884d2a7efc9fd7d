package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/extract"
	"github.com/joseph-ayodele/po-extractor/internal/ingest"
	"github.com/joseph-ayodele/po-extractor/internal/pdftext"
	"github.com/joseph-ayodele/po-extractor/internal/pipeline"
	"github.com/joseph-ayodele/po-extractor/internal/server"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory to read purchase-order PDFs from (required)")
		out        = flag.String("out", "", "output root holding OCs/OCSProcesadas/OCSResult (defaults to the parent of -dir)")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		persist    = flag.Bool("persist", false, "save results to the configured database")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: -dir is required\n")
		os.Exit(2)
	}
	if *out == "" {
		*out = filepath.Dir(filepath.Clean(*dir))
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.NewLocalStore(*out)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	uploader := ingest.NewUploader(store, cfg.Ingest.MaxUploadBytes, logger)
	ingested, stats, err := uploader.IngestDirectory(ctx, *dir, *skipHidden)
	if err != nil {
		printError("Error: ingest %s: %v\n", *dir, err)
		os.Exit(1)
	}
	for _, r := range ingested {
		if r.Err != "" {
			printError("skip %s: %s\n", r.SourcePath, r.Err)
		}
	}
	names := ingest.Names(ingested)
	if len(names) == 0 {
		printError("Error: no PDFs found under %s (scanned %d entries)\n", *dir, stats.Scanned)
		os.Exit(1)
	}

	decoder, err := pdftext.NewDecoder(pdftext.Config{
		Decoders:  cfg.PDF.Decoders,
		Pdftotext: cfg.PDF.PdftotextBin,
		Layout:    cfg.PDF.Layout,
	}, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	opts := []pipeline.Option{pipeline.WithWorkers(cfg.Worker.Workers)}
	if *persist {
		repo, closeDB, err := server.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			printError("Error: open database: %v\n", err)
			os.Exit(1)
		}
		defer closeDB()
		opts = append(opts, pipeline.WithRepository(repo))
	}

	proc := pipeline.NewProcessor(logger, store, extract.NewPDFAdapter(decoder), extract.RuleExtractor{}, opts...)
	res, err := proc.ProcessBatch(ctx, names)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	resultsDir := store.Dir(constants.Results)
	fmt.Printf("batch:    %s\n", res.BatchID)
	fmt.Printf("files:    %d (records %d, with details %d)\n", res.Debug.TotalFiles, res.Debug.ProcessedFiles, res.Debug.FilesWithDetails)
	fmt.Printf("json:     %s\n", filepath.Join(resultsDir, constants.ResultsJSONName))
	if res.CSVName != "" {
		fmt.Printf("csv:      %s\n", filepath.Join(resultsDir, res.CSVName))
	}
	if res.XLSXName != "" {
		fmt.Printf("xlsx:     %s\n", filepath.Join(resultsDir, res.XLSXName))
	}
	for _, e := range res.Errors {
		fmt.Printf("error:    %s\n", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(3)
	}
}
