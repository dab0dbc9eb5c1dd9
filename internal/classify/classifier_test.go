package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/receiptcore/constants"
)

func TestClassifyVendorMapping(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{Vendor: "AUTOZONE STORE 5432"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.CarTruck, *res.Category)
	assert.InDelta(t, 0.95, res.Confidence, 0.001)
	assert.Equal(t, SourceRules, res.Source)
	assert.Contains(t, res.Reasoning, "AutoZone")
}

func TestClassifyVendorLongestKeyWins(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{Vendor: "Amazon Business Prime"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.OfficeSupplies, *res.Category, "specific key beats the shorter 'Amazon'")
}

func TestClassifyExplanationKeywordBeatsOCR(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{
		Explanation: "annual insurance premium",
		OCRText:     "autozone receipt text",
	})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.Insurance, *res.Category)
	assert.Contains(t, res.Reasoning, "Explanation rule")
}

func TestClassifyOCRKeyword(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{OCRText: "OIL CHANGE SERVICE 39.99"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.CarTruck, *res.Category)
	assert.Contains(t, res.Reasoning, "OCR rule")
	assert.InDelta(t, 0.80, res.Confidence, 0.001)
}

func TestClassifyBusinessTypeDefault(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{BusinessType: "mechanic"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.CarTruck, *res.Category)
	assert.InDelta(t, 0.55, res.Confidence, 0.001)
}

func TestClassifyBusinessTypeCanonicalLabel(t *testing.T) {
	// not in the defaults table, but it is a taxonomy label
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{BusinessType: "Utilities"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.Utilities, *res.Category)
	assert.InDelta(t, 0.55, res.Confidence, 0.001)
	assert.Equal(t, SourceRules, res.Source)
}

func TestClassifyBusinessHintPreempts(t *testing.T) {
	// the vendor map would say Repairs & Maintenance for Home Depot, but a
	// contractor buying lumber is buying supplies
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{
		Vendor:       "Home Depot",
		Explanation:  "lumber for the Hensley deck job",
		BusinessType: "contractor",
	})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.Supplies, *res.Category)
	assert.InDelta(t, 0.90, res.Confidence, 0.001)
	assert.Contains(t, res.Reasoning, "business_type")
}

func TestClassifyEngineHitCount(t *testing.T) {
	// no deterministic keyword fires; engine counts hits per bucket
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{OCRText: "shell pump gas station"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.Fuel, *res.Category)
	assert.Equal(t, SourceEngine, res.Source)
}

func TestClassifyEngineVendorTier(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{Vendor: "Joe's Taxi Co"})

	require.NotNil(t, res.Category)
	assert.Equal(t, constants.Travel, *res.Category)
	assert.InDelta(t, 0.60, res.Confidence, 0.001)
}

func TestClassifyNoMatch(t *testing.T) {
	c := NewClassifier(nil, nil)
	res := c.Classify(Input{Vendor: "Xyzzy Plugh", OCRText: "qwerty zxcvb"})

	assert.Nil(t, res.Category)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, "No category match found", res.Reasoning)
}
