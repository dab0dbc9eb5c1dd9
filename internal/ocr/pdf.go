package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ledongthuc/pdf"

	"github.com/ledgerline/receiptcore/constants"
)

// extractEmbeddedText pulls the PDF's text layer, if it has one. Scanned
// receipts usually don't, digital invoices usually do.
func extractEmbeddedText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}
	return buf.String(), nil
}

func (o *Orchestrator) extractPDF(ctx context.Context, path string) Result {
	// Digital PDFs: the embedded text layer beats any OCR output, take it
	// whenever it holds real content.
	if text, err := o.pdfText(path); err == nil {
		if trimmed := strings.TrimSpace(text); len(trimmed) >= o.cfg.Thresholds.PDFTextMinChars {
			o.logger.Debug("pdf text layer accepted", "path", path, "chars", len(trimmed))
			return Result{
				Text:       CleanupText(trimmed),
				Status:     constants.OCRStatusSuccess,
				SourceTag:  "pdf_text",
				Confidence: o.cfg.Thresholds.PDFTextConfidence,
				Pages:      1,
			}
		}
	} else {
		o.logger.Debug("pdf text layer unavailable", "path", path, "error", err)
	}

	return o.rasterizeAndOCR(ctx, path)
}

// rasterizeAndOCR shells out to pdftoppm and runs each page through the
// image pipeline. Pages are joined with an explicit break marker so the
// sectioner never blends lines across pages.
func (o *Orchestrator) rasterizeAndOCR(ctx context.Context, path string) Result {
	var warns []string

	tmpDir, err := os.MkdirTemp(o.cfg.ArtifactCacheDir, "rc-pdf-*")
	if err != nil {
		tmpDir, err = os.MkdirTemp("", "rc-pdf-*")
		if err != nil {
			o.logger.Error("tempdir for pdf rasterization failed", "error", err)
			return Result{Status: constants.OCRStatusFailed, SourceTag: "pdf_raster_failed", Warnings: []string{err.Error()}}
		}
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", fmt.Sprintf("%d", o.cfg.DPI), "-png", path, prefix}
	if _, stderr, err := o.runner.Run(ctx, o.cfg.Pdftoppm, args...); err != nil {
		o.logger.Error("pdftoppm failed", "path", path, "error", err, "stderr", truncate(string(stderr), 2048))
		return Result{Status: constants.OCRStatusFailed, SourceTag: "pdf_raster_failed", Warnings: []string{err.Error()}}
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(pages) == 0 {
		o.logger.Error("pdftoppm produced no pages", "path", path)
		return Result{Status: constants.OCRStatusFailed, SourceTag: "pdf_raster_empty"}
	}
	sort.Strings(pages)

	if o.cfg.MaxPDFPages > 0 && len(pages) > o.cfg.MaxPDFPages {
		warns = append(warns, fmt.Sprintf("pdf truncated to %d of %d pages", o.cfg.MaxPDFPages, len(pages)))
		pages = pages[:o.cfg.MaxPDFPages]
	}

	var texts []string
	var srcParts []string
	bestConf := 0.0
	for i, pagePath := range pages {
		img, err := imaging.Open(pagePath)
		if err != nil {
			o.logger.Warn("pdf page load failed", "page", i+1, "error", err)
			warns = append(warns, fmt.Sprintf("page %d unreadable: %v", i+1, err))
			continue
		}
		text, conf, src, pageWarns := o.imagePipeline(ctx, img, fmt.Sprintf("pdf_p%d", i+1))
		warns = append(warns, pageWarns...)
		if clean := CleanupText(text); clean != "" {
			texts = append(texts, clean)
			srcParts = append(srcParts, src)
		}
		bestConf = maxFloat(bestConf, conf)
	}

	if len(texts) == 0 {
		return Result{Status: constants.OCRStatusFailed, SourceTag: "pdf_ocr_empty", Pages: len(pages), Warnings: warns}
	}

	merged := strings.Join(texts, "\n\n"+markerPageBreak+"\n\n")
	return Result{
		Text:       merged,
		Status:     constants.StatusFromConfidence(bestConf),
		SourceTag:  joinParts(srcParts),
		Confidence: bestConf,
		Pages:      len(pages),
		Warnings:   warns,
	}
}
