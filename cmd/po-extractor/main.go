package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joseph-ayodele/po-extractor/constants"
	"github.com/joseph-ayodele/po-extractor/internal/async"
	"github.com/joseph-ayodele/po-extractor/internal/common"
	"github.com/joseph-ayodele/po-extractor/internal/extract"
	"github.com/joseph-ayodele/po-extractor/internal/ingest"
	"github.com/joseph-ayodele/po-extractor/internal/pdftext"
	"github.com/joseph-ayodele/po-extractor/internal/pipeline"
	"github.com/joseph-ayodele/po-extractor/internal/server"
	"github.com/joseph-ayodele/po-extractor/internal/storage"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	if c, ok := store.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	logger.Info("storage ready", "backend", store.Environment().Backend)

	resultsRepo, closeDB, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeDB()

	decoder, err := pdftext.NewDecoder(pdftext.Config{
		Decoders:  cfg.PDF.Decoders,
		Pdftotext: cfg.PDF.PdftotextBin,
		Layout:    cfg.PDF.Layout,
	}, logger)
	if err != nil {
		logger.Error("failed to build PDF decoder", "error", err)
		os.Exit(1)
	}

	processor := pipeline.NewProcessor(logger, store, extract.NewPDFAdapter(decoder), extract.RuleExtractor{},
		pipeline.WithWorkers(cfg.Worker.Workers),
		pipeline.WithRepository(resultsRepo),
	)
	uploader := ingest.NewUploader(store, cfg.Ingest.MaxUploadBytes, logger)

	svc := server.NewService(store, processor, uploader, logger,
		server.WithRepository(resultsRepo),
		server.WithStaticDir(cfg.Server.StaticDir),
	)
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var queue async.Queue
	if cfg.Ingest.WatchInbox {
		queue = watchInbox(ctx, cfg, store, processor, logger)
	}

	var grpcHealth *server.GRPCHealth
	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
			os.Exit(1)
		}
		grpcHealth = server.NewGRPCHealth(logger)
		go func() {
			if err := grpcHealth.Serve(lis); err != nil {
				logger.Error("gRPC serve error", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("po-extractor listening", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ProcessTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if grpcHealth != nil {
		grpcHealth.Stop(shutdownCtx)
	}
	if queue != nil {
		queue.Shutdown(shutdownCtx)
	}
	logger.Info("stopped")
}

// watchInbox enqueues PDFs that appear in the local inbox folder.
func watchInbox(ctx context.Context, cfg *common.Config, store storage.Store, proc *pipeline.Processor, logger *slog.Logger) async.Queue {
	local, ok := store.(*storage.LocalStore)
	if !ok {
		logger.Warn("inbox watching needs the local storage backend; disabled")
		return nil
	}

	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Worker.Workers),
		async.WithQueueSize(cfg.Worker.QueueSize),
		async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
	)
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{local.Dir(constants.Inbox)},
		InitialScan: true,
		Debounce:    cfg.Ingest.WatchDebounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start inbox watcher", "error", err)
		return queue
	}

	go func() {
		for {
			select {
			case path, ok := <-events:
				if !ok {
					return
				}
				// nested folders are watched but only top-level files are inbox entries
				if filepath.Dir(path) != local.Dir(constants.Inbox) {
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{Filename: filepath.Base(path)}); err != nil {
					logger.Warn("failed to enqueue inbox file", "file", path, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("inbox watcher error", "error", err)
			}
		}
	}()
	logger.Info("watching inbox", "dir", local.Dir(constants.Inbox), "debounce", cfg.Ingest.WatchDebounce)
	return queue
}
