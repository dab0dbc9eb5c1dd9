// Package review computes quality flags for an extraction and decides
// whether it needs a human look before it is trusted for bookkeeping.
package review

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/classify"
	"github.com/ledgerline/receiptcore/internal/parse"
)

// Flag values carried on exported records. These exact strings are stable.
const (
	FlagTaxNegative         = "TAX_NEGATIVE"
	FlagTaxGtTotal          = "TAX_GT_TOTAL"
	FlagTaxImplausibleRate  = "TAX_IMPLAUSIBLE_RATE"
	FlagLowTotalConfidence  = "LOW_TOTAL_CONFIDENCE"
	FlagTotalContextWeak    = "TOTAL_CONTEXT_WEAK"
	FlagLowDateConfidence   = "LOW_DATE_CONFIDENCE"
	FlagLowVendorConfidence = "LOW_VENDOR_CONFIDENCE"
	FlagTaxMissingReview    = "TAX_MISSING_REVIEW"
	FlagMissingVendor       = "MISSING_VENDOR"
	FlagMissingDate         = "MISSING_DATE"
	FlagMissingTotal        = "MISSING_TOTAL"
	FlagMissingCategory     = "MISSING_CATEGORY"
	FlagNoSalesTaxState     = "NO_SALES_TAX_STATE"
)

// noSalesTaxStates lists US states without a statewide sales tax.
var noSalesTaxStates = map[string]struct{}{
	"DE": {},
	"NH": {},
	"MT": {},
	"OR": {},
	"AK": {},
}

// IsNoSalesTaxState reports whether the given business state has no
// statewide sales tax. Input is case-insensitive and may have padding.
func IsNoSalesTaxState(state string) bool {
	_, ok := noSalesTaxStates[strings.ToUpper(strings.TrimSpace(state))]
	return ok
}

// weakTotalReasonHints mark a total that was chosen from an unlabeled or
// otherwise sketchy context. Matched against the lowercased reasoning text.
var weakTotalReasonHints = []string{"unlabeled", "bad context", "weak label match"}

// Thresholds control when confidence-based review flags fire.
type Thresholds struct {
	TotalConfidenceFloor  float64 // below this, LOW_TOTAL_CONFIDENCE
	DateConfidenceFloor   float64 // below this, LOW_DATE_CONFIDENCE
	VendorConfidenceFloor float64 // below this, LOW_VENDOR_CONFIDENCE
	MaxTaxRate            float64 // tax/total above this is implausible
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalConfidenceFloor:  80,
		DateConfidenceFloor:   70,
		VendorConfidenceFloor: 70,
		MaxTaxRate:            0.25,
	}
}

// Input is everything the gate looks at. All fields are read-only; the
// gate never mutates the parse or classify results.
type Input struct {
	OCRStatus     constants.OCRStatus
	Parsed        parse.Parsed
	Category      classify.Result
	BusinessState string
	// ExtraFlags are carried forward from upstream stages, for example a
	// recovered parser panic. They are uppercased and deduplicated.
	ExtraFlags []string
}

// Gate evaluates extraction results against the review rules.
type Gate struct {
	thresholds Thresholds
	logger     *slog.Logger
}

// NewGate builds a Gate. A zero Thresholds value selects the defaults;
// a nil logger falls back to slog.Default.
func NewGate(thresholds Thresholds, logger *slog.Logger) *Gate {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{thresholds: thresholds, logger: logger}
}

// Evaluate computes the ordered flag list for one extraction.
// needsReview is true exactly when at least one flag fired.
func (g *Gate) Evaluate(in Input) (flags []string, needsReview bool) {
	flags = g.taxSanityFlags(flags, in.Parsed)
	flags = ocrStatusFlags(flags, in.OCRStatus)
	flags = g.confidenceFlags(flags, in.Parsed)
	flags = missingFieldFlags(flags, in)

	if IsNoSalesTaxState(in.BusinessState) {
		flags = append(flags, FlagNoSalesTaxState)
	}
	for _, f := range in.ExtraFlags {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f != "" {
			flags = append(flags, f)
		}
	}

	flags = dedupe(flags)
	needsReview = len(flags) > 0
	if needsReview {
		g.logger.Debug("extraction flagged for review", "flags", flags)
	}
	return flags, needsReview
}

func (g *Gate) taxSanityFlags(flags []string, parsed parse.Parsed) []string {
	if parsed.Tax.Value == nil || parsed.Total.Value == nil {
		return flags
	}
	tax, total := *parsed.Tax.Value, *parsed.Total.Value

	if tax.IsNegative() {
		flags = append(flags, FlagTaxNegative)
	}
	if tax.GreaterThan(total) {
		flags = append(flags, FlagTaxGtTotal)
	}
	if total.IsPositive() {
		rate := decimal.NewFromFloat(g.thresholds.MaxTaxRate)
		if tax.Div(total).GreaterThan(rate) {
			flags = append(flags, FlagTaxImplausibleRate)
		}
	}
	return flags
}

// ocrStatusFlags flags hard OCR failures only. A low-confidence run still
// produced usable text, so it is left to the field-level confidence rules.
func ocrStatusFlags(flags []string, status constants.OCRStatus) []string {
	s := strings.ToLower(strings.TrimSpace(string(status)))
	switch s {
	case "", "success", "ok", "low_confidence", "low confidence":
		return flags
	}
	return append(flags, "OCR_"+strings.ReplaceAll(strings.ToUpper(s), " ", "_"))
}

func (g *Gate) confidenceFlags(flags []string, parsed parse.Parsed) []string {
	weakTotal := false

	if parsed.Total.Value != nil && parsed.Total.Confidence < g.thresholds.TotalConfidenceFloor {
		flags = append(flags, FlagLowTotalConfidence)
		weakTotal = true
	}
	reason := strings.ToLower(parsed.Total.Reasoning)
	for _, hint := range weakTotalReasonHints {
		if strings.Contains(reason, hint) {
			flags = append(flags, FlagTotalContextWeak)
			weakTotal = true
			break
		}
	}
	if parsed.Date.Value != nil && parsed.Date.Confidence < g.thresholds.DateConfidenceFloor {
		flags = append(flags, FlagLowDateConfidence)
	}
	if parsed.Vendor.Value != nil && parsed.Vendor.Confidence < g.thresholds.VendorConfidenceFloor {
		flags = append(flags, FlagLowVendorConfidence)
	}

	// Missing tax alone is normal in plenty of states. Missing tax on top
	// of a shaky total is worth a second pair of eyes.
	if parsed.Tax.Value == nil && weakTotal {
		flags = append(flags, FlagTaxMissingReview)
	}
	return flags
}

func missingFieldFlags(flags []string, in Input) []string {
	if in.Parsed.Vendor.Value == nil || strings.TrimSpace(*in.Parsed.Vendor.Value) == "" {
		flags = append(flags, FlagMissingVendor)
	}
	if in.Parsed.Date.Value == nil || strings.TrimSpace(*in.Parsed.Date.Value) == "" {
		flags = append(flags, FlagMissingDate)
	}
	if in.Parsed.Total.Value == nil {
		flags = append(flags, FlagMissingTotal)
	}
	if in.Category.Category == nil {
		flags = append(flags, FlagMissingCategory)
	}
	return flags
}

func dedupe(flags []string) []string {
	seen := make(map[string]struct{}, len(flags))
	out := flags[:0]
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
