// Package record defines the canonical extraction record, the stable
// shape every downstream consumer (export, review tooling, JSON output)
// reads from.
package record

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/classify"
	"github.com/ledgerline/receiptcore/internal/ocr"
	"github.com/ledgerline/receiptcore/internal/parse"
)

// OCRMeta carries the OCR stage outcome alongside the extracted fields.
type OCRMeta struct {
	Text       string              `json:"ocr_text"`
	Status     constants.OCRStatus `json:"ocr_status"`
	Source     string              `json:"ocr_source"`
	Confidence float64             `json:"ocr_confidence"`
}

// ExtractionRecord is the canonical output for one receipt.
// Money fields marshal as decimal strings, so "45.12" survives JSON
// round trips without float drift.
type ExtractionRecord struct {
	ID       string `json:"id"`
	Filename string `json:"filename,omitempty"`

	OCR OCRMeta `json:"ocr"`

	Vendor           *string `json:"vendor"`
	VendorConfidence float64 `json:"vendor_confidence"`
	VendorReasoning  string  `json:"vendor_reasoning"`
	VendorSource     string  `json:"vendor_source,omitempty"`

	Date           *string `json:"date"`
	DateConfidence float64 `json:"date_confidence"`
	DateReasoning  string  `json:"date_reasoning"`

	Total           *decimal.Decimal `json:"total"`
	TotalConfidence float64          `json:"total_confidence"`
	TotalReasoning  string           `json:"total_reasoning"`

	Tax *decimal.Decimal `json:"tax"`

	Category           *constants.Category `json:"category"`
	CategoryConfidence float64             `json:"category_confidence"`
	CategoryReasoning  string              `json:"category_reasoning"`

	Explanation   string `json:"explanation,omitempty"`
	BusinessType  string `json:"business_type,omitempty"`
	BusinessState string `json:"business_state,omitempty"`

	Flags       []string `json:"flags"`
	NeedsReview bool     `json:"needs_review"`
}

// BuildInput collects the stage outputs assembled into a record.
type BuildInput struct {
	Filename      string
	OCR           ocr.Result
	Parsed        parse.Parsed
	Category      classify.Result
	Explanation   string
	BusinessType  string
	BusinessState string
	Flags         []string
	NeedsReview   bool
}

// New assembles an ExtractionRecord with a fresh ID and runs the
// normalization pass over it.
func New(in BuildInput) ExtractionRecord {
	rec := ExtractionRecord{
		ID:       uuid.NewString(),
		Filename: in.Filename,
		OCR: OCRMeta{
			Text:       in.OCR.Text,
			Status:     in.OCR.Status,
			Source:     in.OCR.SourceTag,
			Confidence: in.OCR.Confidence,
		},
		VendorConfidence: in.Parsed.Vendor.Confidence,
		VendorReasoning:  in.Parsed.Vendor.Reasoning,
		VendorSource:     in.Parsed.Vendor.Provenance,

		DateConfidence: in.Parsed.Date.Confidence,
		DateReasoning:  in.Parsed.Date.Reasoning,

		Total:           in.Parsed.Total.Value,
		TotalConfidence: in.Parsed.Total.Confidence,
		TotalReasoning:  in.Parsed.Total.Reasoning,

		Tax: in.Parsed.Tax.Value,

		Category:           in.Category.Category,
		CategoryConfidence: in.Category.Confidence,
		CategoryReasoning:  in.Category.Reasoning,

		Explanation:   in.Explanation,
		BusinessType:  in.BusinessType,
		BusinessState: in.BusinessState,

		Flags:       in.Flags,
		NeedsReview: in.NeedsReview,
	}
	rec.Vendor = in.Parsed.Vendor.Value
	rec.Date = in.Parsed.Date.Value

	Normalize(&rec)
	return rec
}
