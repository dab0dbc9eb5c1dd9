package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTaxStrongLabel(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("ITEM 14.95\nSALES TAX $1.23\nTOTAL 16.18").Tax

	require.NotNil(t, res.Value)
	assert.Equal(t, "1.23", res.Value.StringFixed(2))
	assert.GreaterOrEqual(t, res.Confidence, 85.0)
	assert.Contains(t, res.Reasoning, "strong tax label")
}

func TestExtractTaxTotalsPassBump(t *testing.T) {
	p := testParser()
	plain := p.ParseReceipt("SALES TAX 1.23").Tax
	inPass := p.ParseReceipt("----- TOTALS PASS (RIGHT STRIP MIXED) -----\nSALES TAX 1.23").Tax

	require.NotNil(t, plain.Value)
	require.NotNil(t, inPass.Value)
	assert.Greater(t, inPass.Confidence, plain.Confidence)
}

func TestExtractTaxTrapsExcluded(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("TOTAL BEFORE TAX 20.00\nTAX RATE 8.25\nTAXABLE 20.00").Tax

	assert.Nil(t, res.Value)
	assert.Equal(t, "No tax line detected.", res.Reasoning)
}

func TestExtractTaxInference(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("ACME\nSubtotal 20.00\nTotal 21.50\nthanks").Tax

	require.NotNil(t, res.Value)
	assert.Equal(t, "1.50", res.Value.StringFixed(2))
	assert.InDelta(t, 70.0, res.Confidence, 0.11)
	assert.Contains(t, res.Reasoning, "Subtotal 20.00")
	assert.Contains(t, res.Reasoning, "Total 21.50")
}

func TestExtractTaxInferenceRejectsImplausibleRatio(t *testing.T) {
	// inferred "tax" of 40% of the total is not believable
	p := testParser()
	res := p.ParseReceipt("Subtotal 6.00\nTotal 10.00").Tax

	assert.Nil(t, res.Value)
}

func TestExtractTaxExceedingTotalPenalized(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("Grand Total 10.00\nSALES TAX 50.00").Tax

	require.NotNil(t, res.Value)
	assert.Less(t, res.Confidence, 50.0)
}

func TestExtractTaxMediumLabel(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("ITEM 5.00\nTAX: 0.41").Tax

	require.NotNil(t, res.Value)
	assert.Equal(t, "0.41", res.Value.StringFixed(2))
	assert.Contains(t, res.Reasoning, "medium tax label")
}
