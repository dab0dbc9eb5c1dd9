// runocr runs the multi-pass OCR stage on a single file and prints the
// merged text. Useful for debugging pass selection without the parser
// in the way.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ledgerline/receiptcore/internal/common"
	"github.com/ledgerline/receiptcore/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := orch.Extract(ctx, path)

	logger.Info("ocr done",
		"status", res.Status,
		"source", res.SourceTag,
		"confidence", res.Confidence,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	for _, w := range res.Warnings {
		logger.Warn("ocr warning", "warning", w)
	}
	fmt.Println(res.Text)
}
