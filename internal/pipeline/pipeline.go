// Package pipeline wires OCR, parsing, categorization and the review
// gate into a single extraction flow. The pipeline never returns an
// error: every failure degrades into flags on the resulting record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/classify"
	"github.com/ledgerline/receiptcore/internal/ocr"
	"github.com/ledgerline/receiptcore/internal/parse"
	"github.com/ledgerline/receiptcore/internal/record"
	"github.com/ledgerline/receiptcore/internal/review"
)

// BusinessContext is the optional caller-supplied context that steers
// categorization and the sales-tax rule.
type BusinessContext struct {
	Explanation  string
	BusinessType string
	State        string
}

// Extractor coordinates the extraction stages for one document.
type Extractor struct {
	ocr        *ocr.Orchestrator
	parser     *parse.Parser
	classifier *classify.Classifier
	gate       *review.Gate
	logger     *slog.Logger
}

// NewExtractor builds an Extractor. Nil stages are replaced with
// defaults; a nil logger falls back to slog.Default.
func NewExtractor(o *ocr.Orchestrator, p *parse.Parser, c *classify.Classifier, g *review.Gate, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if o == nil {
		engine := ocr.NewTesseractEngine(ocr.EngineConfig{}, logger)
		o = ocr.NewOrchestrator(ocr.Config{}, engine, logger)
	}
	if p == nil {
		p = parse.NewParser(nil, parse.Scoring{}, logger)
	}
	if c == nil {
		c = classify.NewClassifier(nil, logger)
	}
	if g == nil {
		g = review.NewGate(review.Thresholds{}, logger)
	}
	return &Extractor{ocr: o, parser: p, classifier: c, gate: g, logger: logger}
}

// ExtractFile runs the full flow for a document on disk. The returned
// record always carries a review verdict, even when OCR fails outright.
func (e *Extractor) ExtractFile(ctx context.Context, path string, biz BusinessContext) record.ExtractionRecord {
	ocrRes := e.ocr.Extract(ctx, path)
	e.logger.Info("pipeline.ocr.done",
		"path", path,
		"status", ocrRes.Status,
		"source", ocrRes.SourceTag,
		"confidence", ocrRes.Confidence,
	)
	return e.extract(ocrRes, filepath.Base(path), biz)
}

// ExtractText runs the flow over already-extracted text. Running it
// twice on the same input yields the same fields, flags and verdict.
func (e *Extractor) ExtractText(text string, biz BusinessContext) record.ExtractionRecord {
	ocrRes := ocr.Result{
		Text:       text,
		Status:     constants.OCRStatusSuccess,
		SourceTag:  "raw",
		Confidence: 100,
	}
	if text == "" {
		ocrRes.Status = constants.OCRStatusFailed
		ocrRes.Confidence = 0
	}
	return e.extract(ocrRes, "", biz)
}

func (e *Extractor) extract(ocrRes ocr.Result, filename string, biz BusinessContext) record.ExtractionRecord {
	var extraFlags []string

	parsed := e.runParse(ocrRes.Text, &extraFlags)

	if review.IsNoSalesTaxState(biz.State) && parsed.Tax.Value != nil {
		parsed.Tax = parse.FieldResult[decimal.Decimal]{
			Reasoning: "Ignored: business operates in a no-sales-tax state.",
		}
	}

	cat := e.runClassify(parsed, ocrRes.Text, biz, &extraFlags)

	flags, needsReview := e.gate.Evaluate(review.Input{
		OCRStatus:     ocrRes.Status,
		Parsed:        parsed,
		Category:      cat,
		BusinessState: biz.State,
		ExtraFlags:    extraFlags,
	})

	rec := record.New(record.BuildInput{
		Filename:      filename,
		OCR:           ocrRes,
		Parsed:        parsed,
		Category:      cat,
		Explanation:   biz.Explanation,
		BusinessType:  biz.BusinessType,
		BusinessState: biz.State,
		Flags:         flags,
		NeedsReview:   needsReview,
	})
	e.logger.Info("pipeline.extract.done",
		"id", rec.ID,
		"needs_review", rec.NeedsReview,
		"flags", len(rec.Flags),
	)
	return rec
}

// runParse shields the pipeline from a parser panic. A recovered panic
// becomes a flag instead of taking the whole batch down.
func (e *Extractor) runParse(text string, extraFlags *[]string) (parsed parse.Parsed) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pipeline.parse.panic", "panic", fmt.Sprint(r))
			parsed = parse.Parsed{}
			*extraFlags = append(*extraFlags, "PARSER_EXCEPTION_PARSE")
		}
	}()
	return e.parser.ParseReceipt(text)
}

func (e *Extractor) runClassify(parsed parse.Parsed, ocrText string, biz BusinessContext, extraFlags *[]string) (res classify.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pipeline.classify.panic", "panic", fmt.Sprint(r))
			res = classify.Result{Reasoning: "No category match found", Source: classify.SourceEngine}
			*extraFlags = append(*extraFlags, "PARSER_EXCEPTION_CATEGORY")
		}
	}()
	vendor := ""
	if parsed.Vendor.Value != nil {
		vendor = *parsed.Vendor.Value
	}
	return e.classifier.Classify(classify.Input{
		Vendor:       vendor,
		OCRText:      ocrText,
		Explanation:  biz.Explanation,
		BusinessType: biz.BusinessType,
	})
}
