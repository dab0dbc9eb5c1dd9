package parse

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Scoring holds the empirically tuned weights behind every extractor. None
// of these derive from a principled model; they are named here so they can
// be recalibrated without touching extractor logic. Zero values fall back to
// the defaults in DefaultScoring.
type Scoring struct {
	VendorAliasBase      float64
	VendorPassBump       float64
	SoftTextPassBump     float64
	TopFullBump          float64
	CanonicalPresentBump float64
	VendorEarlyExit      float64
	VendorLabeledScore   float64
	VendorHeuristicFloor float64
	VendorHeuristicSlope float64

	DateLabeledBase      float64
	DateTopScanBase      float64
	DateScanBase         float64
	DateNumericPassBump  float64
	DateFarFuturePenalty float64
	DateVeryOldPenalty   float64
	DateRecentBump       float64

	TaxStrongBase              float64
	TaxMediumBase              float64
	TaxTotalsPassBump          float64
	TaxCurrencySymbolBump      float64
	TaxTinyValuePenalty        float64
	TaxLargeValuePenalty       float64
	TaxExceedsTotalPenalty     float64
	TaxInferenceBase           float64
	TaxInferenceTotalsPassBump float64
	TaxInferenceMaxRatio       float64

	TotalLabeledBase        float64
	TotalUnlabeledBase      float64
	TotalBadContextPenalty  float64
	TotalTaxContextPenalty  float64
	TotalTooSmallPenalty    float64
	TotalTooLargePenalty    float64
	TotalMatchesTaxPenalty  float64
	TotalCentsPrecisionBump float64
	TotalSameLineBump       float64
	TotalStrongWindowBump   float64
	TotalWeakWindowBump     float64
	TotalLoosenedPenalty    float64
}

func DefaultScoring() Scoring {
	return Scoring{
		VendorAliasBase:      0.84,
		VendorPassBump:       0.10,
		SoftTextPassBump:     0.06,
		TopFullBump:          0.04,
		CanonicalPresentBump: 0.03,
		VendorEarlyExit:      0.92,
		VendorLabeledScore:   0.68,
		VendorHeuristicFloor: 0.30,
		VendorHeuristicSlope: 0.30,

		DateLabeledBase:      0.86,
		DateTopScanBase:      0.70,
		DateScanBase:         0.62,
		DateNumericPassBump:  0.04,
		DateFarFuturePenalty: 0.35,
		DateVeryOldPenalty:   0.15,
		DateRecentBump:       0.04,

		TaxStrongBase:              0.85,
		TaxMediumBase:              0.70,
		TaxTotalsPassBump:          0.08,
		TaxCurrencySymbolBump:      0.03,
		TaxTinyValuePenalty:        0.50,
		TaxLargeValuePenalty:       0.25,
		TaxExceedsTotalPenalty:     0.60,
		TaxInferenceBase:           0.70,
		TaxInferenceTotalsPassBump: 0.05,
		TaxInferenceMaxRatio:       0.25,

		TotalLabeledBase:        0.90,
		TotalUnlabeledBase:      0.55,
		TotalBadContextPenalty:  0.35,
		TotalTaxContextPenalty:  0.30,
		TotalTooSmallPenalty:    0.25,
		TotalTooLargePenalty:    0.20,
		TotalMatchesTaxPenalty:  0.35,
		TotalCentsPrecisionBump: 0.03,
		TotalSameLineBump:       0.10,
		TotalStrongWindowBump:   0.05,
		TotalWeakWindowBump:     0.03,
		TotalLoosenedPenalty:    0.05,
	}
}

// Parsed is the parser's full product: four independent field results over
// the same text.
type Parsed struct {
	Vendor FieldResult[string]
	Date   FieldResult[string] // ISO-8601
	Tax    FieldResult[decimal.Decimal]
	Total  FieldResult[decimal.Decimal]
}

// Parser runs the field extractors over merged OCR text. Stateless between
// calls; safe for concurrent use.
type Parser struct {
	lex     *Lexicon
	scoring Scoring
	logger  *slog.Logger
	now     func() time.Time
}

func NewParser(lex *Lexicon, scoring Scoring, logger *slog.Logger) *Parser {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if scoring == (Scoring{}) {
		scoring = DefaultScoring()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{lex: lex, scoring: scoring, logger: logger, now: time.Now}
}

// ParseReceipt extracts vendor, date, tax and total from one merged OCR
// blob. Best effort on any input; a field with no signal comes back with a
// nil value and a reason, never an error.
func (p *Parser) ParseReceipt(ocrText string) Parsed {
	text := normalizeText(ocrText)
	lines := SplitLines(text)
	joined := strings.Join(lines, "\n")
	sections := SplitSections(lines)

	vendor := p.extractVendor(lines, sections)
	date := p.extractDate(lines, joined, sections)
	tax := p.extractTax(lines, joined, sections)
	total := p.extractTotal(lines, joined, sections, tax.Value)

	p.logger.Debug("parsed receipt text",
		"vendor_conf", vendor.Confidence,
		"date_conf", date.Confidence,
		"tax_conf", tax.Confidence,
		"total_conf", total.Confidence,
	)

	return Parsed{Vendor: vendor, Date: date, Tax: tax, Total: total}
}

var (
	reNonPrintable = regexp.MustCompile(`[^\x09\x0A\x0D\x20-\x7E]`)
	reLineSpace    = regexp.MustCompile(`\s+`)
)

// normalizeText strips non-printable bytes and collapses whitespace per
// line, dropping empties. Keeps the parser tolerant of raw engine output.
func normalizeText(t string) string {
	if t == "" {
		return ""
	}
	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = reNonPrintable.ReplaceAllString(t, "")
	var out []string
	for _, ln := range strings.Split(t, "\n") {
		ln = strings.TrimSpace(reLineSpace.ReplaceAllString(ln, " "))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
