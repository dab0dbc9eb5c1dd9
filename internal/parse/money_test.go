package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(tokens []MoneyToken) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Value.StringFixed(2))
	}
	return out
}

func TestExtractMoneyTokensExplicitDecimal(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"TOTAL $16.18", "16.18"},
		{"amount 1,234.56 due", "1234.56"},
		{"$ 7.50", "7.50"},
		{"0.99", "0.99"},
	}
	for _, tc := range cases {
		tokens := ExtractMoneyTokens(tc.text, ModeUnlabeled)
		require.Len(t, tokens, 1, tc.text)
		assert.Equal(t, tc.want, tokens[0].Value.StringFixed(2), tc.text)
		assert.Equal(t, EncodingExplicitDecimal, tokens[0].Encoding, tc.text)
	}
}

func TestExtractMoneyTokensEuroComma(t *testing.T) {
	tokens := ExtractMoneyTokens("BETRAG 12,34", ModeUnlabeled)
	require.Len(t, tokens, 1)
	assert.Equal(t, "12.34", tokens[0].Value.StringFixed(2))
	assert.Equal(t, EncodingEuroStyleComma, tokens[0].Encoding)

	// thousands-group commas are not decimals
	assert.Empty(t, ExtractMoneyTokens("qty 1,234 units", ModeUnlabeled))
}

func TestExtractMoneyTokensTruncatedDecimal(t *testing.T) {
	tokens := ExtractMoneyTokens("GAS 47.4", ModeUnlabeled)
	require.Len(t, tokens, 1)
	assert.Equal(t, "47.40", tokens[0].Value.StringFixed(2))
	assert.Equal(t, EncodingTruncatedDecimal, tokens[0].Encoding)
}

func TestExtractMoneyTokensThreeDecimalRejected(t *testing.T) {
	// 797.860 fails the two-decimal shape in every mode; it must never
	// surface as 797.86
	for _, mode := range []Mode{ModeUnlabeled, ModeLabeled} {
		for _, tok := range ExtractMoneyTokens("TOTAL 797.860", mode) {
			assert.NotEqual(t, "797.86", tok.Value.StringFixed(2))
		}
	}
}

func TestExtractMoneyTokensImpliedCents(t *testing.T) {
	// labeled mode with totals context: 4749 reads as 47.49
	tokens := ExtractMoneyTokens("SUBTOTAL 4749", ModeLabeled)
	require.Len(t, tokens, 1)
	assert.Equal(t, "47.49", tokens[0].Value.StringFixed(2))
	assert.Equal(t, EncodingImpliedCents, tokens[0].Encoding)

	// unlabeled mode never decodes implied cents
	assert.Empty(t, ExtractMoneyTokens("SUBTOTAL 4749", ModeUnlabeled))

	// no totals context, no implied cents
	assert.Empty(t, ExtractMoneyTokens("ITEM 4749", ModeLabeled))
}

func TestExtractMoneyTokensImpliedCentsGuards(t *testing.T) {
	// id-like neighborhood poisons the token
	assert.Empty(t, ExtractMoneyTokens("TOTAL AUTH 4749", ModeLabeled))

	// 4-digit years are not amounts
	assert.Empty(t, ExtractMoneyTokens("TOTAL 2026", ModeLabeled))

	// bare 5-digit tokens are store IDs unless a currency symbol is near
	assert.Empty(t, ExtractMoneyTokens("TOTAL 34689", ModeLabeled))
	withDollar := ExtractMoneyTokens("TOTAL $34689", ModeLabeled)
	require.Len(t, withDollar, 1)
	assert.Equal(t, "346.89", withDollar[0].Value.StringFixed(2))

	// phone-shaped neighbors are excluded
	assert.Empty(t, ExtractMoneyTokens("TOTAL 555-123-4567", ModeLabeled))
}

func TestExtractMoneyTokensBounds(t *testing.T) {
	assert.Empty(t, ExtractMoneyTokens("60000.00", ModeUnlabeled), "over 50000 cap")
	assert.Empty(t, ExtractMoneyTokens("12345.00", ModeUnlabeled), "integer-valued >= 10000 is SKU leakage")

	tokens := ExtractMoneyTokens("12345.67", ModeUnlabeled)
	require.Len(t, tokens, 1)
	assert.Equal(t, "12345.67", tokens[0].Value.StringFixed(2))
}

func TestExtractMoneyTokensDedupe(t *testing.T) {
	// same value, same offset bucket: one token survives
	tokens := ExtractMoneyTokens("$12.34", ModeUnlabeled)
	assert.Equal(t, []string{"12.34"}, values(tokens))

	// same value far apart: both kept
	tokens = ExtractMoneyTokens("12.34 some filler text 12.34", ModeUnlabeled)
	assert.Equal(t, []string{"12.34", "12.34"}, values(tokens))
}

func TestMoneyValuesOrder(t *testing.T) {
	vals := moneyValues("SUBTOTAL 14.95 TAX 1.23 TOTAL 16.18", ModeUnlabeled)
	require.Len(t, vals, 3)
	assert.True(t, vals[2].Equal(decimal.RequireFromString("16.18")))
}
