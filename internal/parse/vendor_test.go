package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	p := NewParser(nil, Scoring{}, nil)
	p.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestExtractVendorAliasTopLines(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("AUTOZONE #4652\n123 MAIN ST\nDUNCANVILLE TX 75116").Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "AutoZone", *res.Value)
	assert.GreaterOrEqual(t, res.Confidence, 80.0)
	assert.Equal(t, "alias_match:top_full", res.Provenance)
}

func TestExtractVendorAliasGarbledInVendorPass(t *testing.T) {
	p := testParser()
	text := "junk line\n----- VENDOR PASS (TOP STRIP) -----\nAUTO Z0NE STORE"
	res := p.ParseReceipt(text).Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "AutoZone", *res.Value)
	assert.GreaterOrEqual(t, res.Confidence, 92.0)
	assert.Equal(t, "alias_match:vendor_pass", res.Provenance)
}

func TestExtractVendorShortAliasNeedsWholeToken(t *testing.T) {
	// "wm" must not fire from inside "SAWMILL"; the heuristic tier should
	// surface the real merchant line instead
	p := testParser()
	res := p.ParseReceipt("SAWMILL SUPPLY CO\nLUMBER 2X4\nTOTAL 19.99").Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "SAWMILL SUPPLY CO", *res.Value)
	assert.Equal(t, "heuristic_top_line", res.Provenance)
}

func TestExtractVendorShortAliasStandaloneToken(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("DG #3412\nCANDY BAR 1.00\nTOTAL 1.00").Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "Dollar General", *res.Value)
	assert.Equal(t, "alias_match:top_full", res.Provenance)
}

func TestAliasHitShortAliases(t *testing.T) {
	assert.True(t, aliasHit("wm", "wm supercenter #123"))
	assert.True(t, aliasHit("mcd", "mcd #22033"))
	// spaced short forms hit via adjacent tokens
	assert.True(t, aliasHit("bp", "b p gas station"))
	// but never from inside a longer word
	assert.False(t, aliasHit("wm", "sawmill supply co"))
	assert.False(t, aliasHit("dg", "sedge field rd"))
}

func TestExtractVendorTokenPrefixTolerance(t *testing.T) {
	// OCR truncation: "autozz" should still hit the AutoZone alias
	assert.True(t, aliasHit("autozone", "welcome to autozz store"))
	// but the length-closeness guard rejects much longer tokens
	assert.False(t, aliasHit("autozone", "automatically applied discount"))
}

func TestExtractVendorLabeledLine(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("INVOICE\nSold by: Joe's Garage\nsomething else").Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "Joe's Garage", *res.Value)
	assert.InDelta(t, 68.0, res.Confidence, 0.11)
	assert.Equal(t, "labeled_vendor", res.Provenance)
}

func TestExtractVendorHeuristicTopLine(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("SUNRISE BAKERY\n4412 0098 7733\nthanks for visiting").Vendor

	require.NotNil(t, res.Value)
	assert.Equal(t, "SUNRISE BAKERY", *res.Value)
	assert.Less(t, res.Confidence, 70.0)
	assert.Equal(t, "heuristic_top_line", res.Provenance)
}

func TestExtractVendorNeverGuessesMarkerLine(t *testing.T) {
	// a pass header with nothing merchant-like around it must not become
	// the fallback vendor
	p := testParser()
	res := p.ParseReceipt("----- VENDOR PASS (TOP STRIP) -----\n4412 0098 7733").Vendor

	assert.Nil(t, res.Value)
}

func TestExtractVendorNoSignal(t *testing.T) {
	p := testParser()
	res := p.ParseReceipt("12345").Vendor

	assert.Nil(t, res.Value)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, "No reliable vendor signal found.", res.Reasoning)
}
