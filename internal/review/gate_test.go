package review

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/classify"
	"github.com/ledgerline/receiptcore/internal/parse"
)

func moneyp(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func strp(s string) *string { return &s }

func catp(c constants.Category) *constants.Category { return &c }

// cleanInput is a solid extraction that should sail through the gate.
func cleanInput(t *testing.T) Input {
	t.Helper()
	return Input{
		OCRStatus: constants.OCRStatusSuccess,
		Parsed: parse.Parsed{
			Vendor: parse.FieldResult[string]{Value: strp("AutoZone"), Confidence: 95},
			Date:   parse.FieldResult[string]{Value: strp("2026-01-15"), Confidence: 86},
			Tax:    parse.FieldResult[decimal.Decimal]{Value: moneyp(t, "3.12"), Confidence: 88},
			Total: parse.FieldResult[decimal.Decimal]{
				Value:      moneyp(t, "45.12"),
				Confidence: 93,
				Reasoning:  "Strong label match (same line). Source: 'GRAND TOTAL $45.12'",
			},
		},
		Category: classify.Result{Category: catp(constants.CarTruck), Confidence: 0.95},
	}
}

func TestEvaluateCleanExtraction(t *testing.T) {
	g := NewGate(Thresholds{}, nil)

	flags, needsReview := g.Evaluate(cleanInput(t))

	assert.Empty(t, flags)
	assert.False(t, needsReview)
}

func TestEvaluateTaxExceedsTotal(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax.Value = moneyp(t, "50.00")

	flags, needsReview := g.Evaluate(in)

	assert.Contains(t, flags, FlagTaxGtTotal)
	assert.Contains(t, flags, FlagTaxImplausibleRate)
	assert.True(t, needsReview)
}

func TestEvaluateNegativeTax(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax.Value = moneyp(t, "-1.00")

	flags, needsReview := g.Evaluate(in)

	assert.Contains(t, flags, FlagTaxNegative)
	assert.NotContains(t, flags, FlagTaxGtTotal)
	assert.NotContains(t, flags, FlagTaxImplausibleRate)
	assert.True(t, needsReview)
}

func TestEvaluateImplausibleTaxRate(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax.Value = moneyp(t, "20.00")

	flags, _ := g.Evaluate(in)

	assert.Contains(t, flags, FlagTaxImplausibleRate)
	assert.NotContains(t, flags, FlagTaxGtTotal)
}

func TestEvaluateOCRStatus(t *testing.T) {
	g := NewGate(Thresholds{}, nil)

	in := cleanInput(t)
	in.OCRStatus = constants.OCRStatusFailed
	flags, needsReview := g.Evaluate(in)
	assert.Contains(t, flags, "OCR_FAILED")
	assert.True(t, needsReview)

	// a low-confidence run still produced text; field rules decide
	in = cleanInput(t)
	in.OCRStatus = constants.OCRStatusLowConfidence
	flags, needsReview = g.Evaluate(in)
	assert.Empty(t, flags)
	assert.False(t, needsReview)
}

func TestEvaluateWeakTotalContextAtHighConfidence(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Total.Reasoning = "Unlabeled candidate. Source: '45.12'"

	flags, needsReview := g.Evaluate(in)

	assert.Contains(t, flags, FlagTotalContextWeak)
	assert.NotContains(t, flags, FlagLowTotalConfidence)
	assert.True(t, needsReview)
}

func TestEvaluateLowConfidenceFields(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Total.Confidence = 62
	in.Parsed.Date.Confidence = 55
	in.Parsed.Vendor.Confidence = 40

	flags, needsReview := g.Evaluate(in)

	assert.Contains(t, flags, FlagLowTotalConfidence)
	assert.Contains(t, flags, FlagLowDateConfidence)
	assert.Contains(t, flags, FlagLowVendorConfidence)
	assert.True(t, needsReview)
}

func TestEvaluateTaxMissingWithWeakTotal(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax = parse.FieldResult[decimal.Decimal]{Reasoning: "No tax line detected."}
	in.Parsed.Total.Confidence = 55

	flags, _ := g.Evaluate(in)

	assert.Contains(t, flags, FlagLowTotalConfidence)
	assert.Contains(t, flags, FlagTaxMissingReview)
}

func TestEvaluateTaxMissingWithSolidTotal(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax = parse.FieldResult[decimal.Decimal]{Reasoning: "No tax line detected."}

	flags, needsReview := g.Evaluate(in)

	assert.NotContains(t, flags, FlagTaxMissingReview)
	assert.False(t, needsReview)
}

func TestEvaluateMissingEverything(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := Input{OCRStatus: constants.OCRStatusSuccess}

	flags, needsReview := g.Evaluate(in)

	assert.Equal(t, []string{
		FlagMissingVendor,
		FlagMissingDate,
		FlagMissingTotal,
		FlagMissingCategory,
	}, flags)
	assert.True(t, needsReview)
}

func TestEvaluateNoSalesTaxState(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Tax = parse.FieldResult[decimal.Decimal]{}
	in.BusinessState = "or"

	flags, needsReview := g.Evaluate(in)

	assert.Contains(t, flags, FlagNoSalesTaxState)
	assert.True(t, needsReview)

	assert.True(t, IsNoSalesTaxState(" MT "))
	assert.False(t, IsNoSalesTaxState("CA"))
}

func TestEvaluateExtraFlagsCarriedAndDeduped(t *testing.T) {
	g := NewGate(Thresholds{}, nil)
	in := cleanInput(t)
	in.Parsed.Total.Confidence = 55
	in.ExtraFlags = []string{" parser_exception_total ", "LOW_TOTAL_CONFIDENCE", ""}

	flags, _ := g.Evaluate(in)

	assert.Contains(t, flags, "PARSER_EXCEPTION_TOTAL")
	count := 0
	for _, f := range flags {
		if f == FlagLowTotalConfidence {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEvaluateCustomThresholds(t *testing.T) {
	g := NewGate(Thresholds{
		TotalConfidenceFloor:  95,
		DateConfidenceFloor:   90,
		VendorConfidenceFloor: 96,
		MaxTaxRate:            0.25,
	}, nil)

	flags, needsReview := g.Evaluate(cleanInput(t))

	assert.Contains(t, flags, FlagLowTotalConfidence)
	assert.Contains(t, flags, FlagLowDateConfidence)
	assert.Contains(t, flags, FlagLowVendorConfidence)
	assert.True(t, needsReview)
}
