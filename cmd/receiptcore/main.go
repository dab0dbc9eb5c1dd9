package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/ledgerline/receiptcore/internal/async"
	"github.com/ledgerline/receiptcore/internal/classify"
	"github.com/ledgerline/receiptcore/internal/common"
	"github.com/ledgerline/receiptcore/internal/export"
	"github.com/ledgerline/receiptcore/internal/ingest"
	"github.com/ledgerline/receiptcore/internal/ocr"
	"github.com/ledgerline/receiptcore/internal/parse"
	"github.com/ledgerline/receiptcore/internal/pipeline"
	"github.com/ledgerline/receiptcore/internal/record"
	"github.com/ledgerline/receiptcore/internal/review"
)

func main() {
	fs := ff.NewFlagSet("receiptcore")
	var (
		file         = fs.StringLong("file", "", "extract a single receipt file")
		dir          = fs.StringLong("dir", "", "extract every receipt under a directory")
		watch        = fs.BoolLong("watch", "keep watching the directory for new files")
		out          = fs.StringLong("out", "-", "write JSON records to this file ('-' for stdout)")
		xlsxOut      = fs.StringLong("xlsx", "", "also write an XLSX workbook to this path")
		businessType = fs.StringLong("business-type", "", "business type hint for categorization")
		explanation  = fs.StringLong("explanation", "", "free-form purchase explanation")
		state        = fs.StringLong("state", "", "two-letter business state (drives sales-tax rules)")
		workers      = fs.IntLong("workers", 0, "extraction workers (default from BATCH_WORKERS)")
		verbose      = fs.BoolLong("verbose", "debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTCORE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if (*file == "") == (*dir == "") {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: exactly one of --file or --dir is required")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	extractor := buildExtractor(cfg, logger)
	biz := pipeline.BusinessContext{
		Explanation:  *explanation,
		BusinessType: *businessType,
		State:        *state,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recs []record.ExtractionRecord
	if *file != "" {
		recs = []record.ExtractionRecord{extractor.ExtractFile(ctx, *file, biz)}
	} else {
		recs = runBatch(ctx, cfg, extractor, logger, *dir, *watch, biz)
	}

	if err := writeJSON(*out, recs); err != nil {
		logger.Error("write output", "error", err)
		os.Exit(1)
	}
	if *xlsxOut != "" {
		data, err := export.NewService(logger).ExportRecordsXLSX(recs)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, data, 0o644); err != nil {
			logger.Error("write xlsx", "error", err)
			os.Exit(1)
		}
		logger.Info("wrote workbook", "path", *xlsxOut, "records", len(recs))
	}

	flagged := 0
	for _, r := range recs {
		if r.NeedsReview {
			flagged++
		}
	}
	logger.Info("done", "records", len(recs), "needs_review", flagged)
}

func buildExtractor(cfg *common.Config, logger *slog.Logger) *pipeline.Extractor {
	engine := ocr.NewTesseractEngine(ocr.EngineConfig{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	orch := ocr.NewOrchestrator(ocr.Config{
		Pdftoppm:         cfg.OCR.Pdftoppm,
		DPI:              cfg.OCR.DPI,
		MaxPDFPages:      cfg.OCR.MaxPDFPages,
		ArtifactCacheDir: cfg.OCR.ArtifactCacheDir,
	}, engine, logger)
	parser := parse.NewParser(nil, parse.Scoring{}, logger)
	classifier := classify.NewClassifier(nil, logger)
	gate := review.NewGate(review.Thresholds{}, logger)
	return pipeline.NewExtractor(orch, parser, classifier, gate, logger)
}

func runBatch(ctx context.Context, cfg *common.Config, extractor *pipeline.Extractor, logger *slog.Logger, dir string, watch bool, biz pipeline.BusinessContext) []record.ExtractionRecord {
	var (
		mu   sync.Mutex
		recs []record.ExtractionRecord
	)
	queue := async.NewExtractorQueue(extractor, func(rec record.ExtractionRecord) {
		mu.Lock()
		defer mu.Unlock()
		recs = append(recs, rec)
	}, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithExtractTimeout(cfg.Batch.DocTimeout),
	)

	ingestor := ingest.NewFSIngestor(logger)
	results, stats, err := ingestor.IngestDirectory(ctx, dir, true)
	if err != nil {
		logger.Error("ingest directory", "root", dir, "error", err)
	}
	logger.Info("directory scan complete",
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	for _, r := range results {
		if r.Err != "" || r.Deduplicated {
			continue
		}
		_ = queue.Enqueue(ctx, async.Job{Path: r.SourcePath, Business: biz, SubmittedAt: time.Now()})
	}

	if watch {
		watchLoop(ctx, queue, ingestor, logger, dir, biz)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.Batch.DocTimeout)
	defer cancel()
	queue.Shutdown(shutdownCtx)

	mu.Lock()
	defer mu.Unlock()
	return recs
}

func watchLoop(ctx context.Context, queue async.Queue, ingestor ingest.Ingestor, logger *slog.Logger, dir string, biz pipeline.BusinessContext) {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    []string{dir},
		Debounce: 500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "root", dir, "error", err)
		return
	}
	logger.Info("watching for new receipts", "root", dir)
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			res, err := ingestor.IngestPath(ctx, path)
			if err != nil || res.Deduplicated {
				continue
			}
			_ = queue.Enqueue(ctx, async.Job{Path: res.SourcePath, Business: biz, SubmittedAt: time.Now()})
		case werr, ok := <-errs:
			if ok && werr != nil {
				logger.Warn("watcher", "error", werr)
			}
		}
	}
}

func writeJSON(out string, recs []record.ExtractionRecord) error {
	var w *os.File
	switch out {
	case "-", "":
		w = os.Stdout
	default:
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
