package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/extract"
	"github.com/joseph-ayodele/po-extractor/internal/pdftext"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file = flag.String("file", "", "PDF or .txt file to extract (required)")
		name = flag.String("name", "", "filename used for order-number fallback (defaults to the file's base name)")
	)
	flag.Usage = func() {
		printError("usage: extract -file FILE [-name NAME]\naccepted types: %s\n", strings.Join(constants.FileTypes, ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *file == "" {
		printError("Error: -file is required\n")
		os.Exit(2)
	}
	if *name == "" {
		*name = filepath.Base(*file)
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	data, err := os.ReadFile(*file)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var decoder extract.TextDecoder = extract.PlainText{}
	if constants.NormalizeExt(filepath.Ext(*file)) != constants.ExtTXT {
		d, err := pdftext.NewDecoder(pdftext.Config{
			Decoders:  cfg.PDF.Decoders,
			Pdftotext: cfg.PDF.PdftotextBin,
			Layout:    cfg.PDF.Layout,
		}, logger)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		decoder = extract.NewPDFAdapter(d)
	}

	ctx := context.Background()
	res, err := decoder.Decode(ctx, data)
	if err != nil {
		printError("Error: decode %s: %v\n", *file, err)
		os.Exit(1)
	}
	logger.Info("decoded", "file", *file, "method", res.Method, "pages", res.Pages,
		"confidence", res.Confidence, "duration_ms", res.Duration.Milliseconds())

	doc, err := extract.RuleExtractor{}.ExtractFields(ctx, res.Text, *name)
	if err != nil {
		printError("Error: extract: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if !doc.HasOrder() {
		os.Exit(3)
	}
}
