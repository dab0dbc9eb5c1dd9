package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Encoding records which decoding strategy produced a MoneyToken.
type Encoding string

const (
	EncodingExplicitDecimal  Encoding = "explicit_decimal"
	EncodingEuroStyleComma   Encoding = "euro_comma"
	EncodingTruncatedDecimal Encoding = "truncated_decimal"
	EncodingImpliedCents     Encoding = "implied_cents"
)

// Mode controls whether implied-cents decoding is allowed. Bare integers
// are only trusted inside labeled windows; elsewhere they are SKUs and IDs.
type Mode int

const (
	ModeUnlabeled Mode = iota
	ModeLabeled
)

// MoneyToken is one candidate monetary value found in a span of OCR text.
// Disposable view over the text: never persisted on its own.
type MoneyToken struct {
	Value    decimal.Decimal // always 2dp, in (0, 50000]
	RawText  string
	Offset   int
	Encoding Encoding
}

var (
	// 12.34 / 1,234.56 / $ 12.34 — the trailing \b rejects 3-decimal
	// numerals like 797.860 outright.
	reExplicitDecimal = regexp.MustCompile(`\$?\s*((?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})\b`)

	// 12,34 with a comma decimal; conservative, exactly two digits after.
	reEuroComma = regexp.MustCompile(`\$?\s*(\d{1,6},\d{2})\b`)

	// 1,234-style thousands groups must not be read as euro decimals.
	reThousandsGroup = regexp.MustCompile(`\d{1,3},\d{3}\b`)

	// 47.4 -> 47.40; OCR loves eating the final digit.
	reTruncatedDecimal = regexp.MustCompile(`\$?\s*(\d{1,6}\.\d)\b`)

	// bare 3-7 digit integers, implied-cents candidates
	reBareInteger = regexp.MustCompile(`\b(\d{3,7})\b`)

	rePhoneShape = regexp.MustCompile(`\(\d{3}\)|\d{3}[-\s]\d{3}[-\s]\d{4}`)
)

// moneyContextKeywords must appear somewhere in the text before implied-cents
// decoding is considered at all.
var moneyContextKeywords = []string{
	"total", "sale total", "grand total", "amount due", "balance due",
	"subtotal", "tax", "vat", "gst", "hst", "order total",
}

// idContextMarkers poison the neighborhood of an implied-cents candidate:
// the digits next to them are references, not amounts.
var idContextMarkers = []string{
	"id", "aid", "ref", "auth", "approval", "appr", "tran", "txn", "inv",
	"invoice", "order", "store", "register", "terminal", "cashier",
	"mastercard", "visa", "amex", "acct", "account",
}

var (
	maxMoney       = decimal.NewFromInt(50000)
	skuLeakageMin  = decimal.NewFromInt(10000)
	centsPrecision = int32(2)
)

// ExtractMoneyTokens scans text for candidate monetary values under four
// encodings and returns them deduplicated by (value, offset bucket). Implied
// cents runs only in ModeLabeled and only under heavy guards; receipts are
// full of 4-6 digit numbers that are not money.
func ExtractMoneyTokens(text string, mode Mode) []MoneyToken {
	if text == "" {
		return nil
	}

	var out []MoneyToken

	add := func(val decimal.Decimal, raw string, offset int, enc Encoding) {
		val = val.Round(centsPrecision)
		if !val.IsPositive() || val.GreaterThan(maxMoney) {
			return
		}
		// integer-valued amounts >= 10000 are near-certain SKU/ID leakage
		if enc != EncodingImpliedCents && val.IsInteger() && val.GreaterThanOrEqual(skuLeakageMin) {
			return
		}
		out = append(out, MoneyToken{Value: val, RawText: strings.TrimSpace(raw), Offset: offset, Encoding: enc})
	}

	for _, m := range reExplicitDecimal.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		num := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
		if val, err := decimal.NewFromString(num); err == nil {
			add(val, raw, m[0], EncodingExplicitDecimal)
		}
	}

	for _, m := range reEuroComma.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		num := text[m[2]:m[3]]
		if reThousandsGroup.MatchString(num) {
			continue
		}
		if val, err := decimal.NewFromString(strings.ReplaceAll(num, ",", ".")); err == nil {
			add(val, raw, m[0], EncodingEuroStyleComma)
		}
	}

	for _, m := range reTruncatedDecimal.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		if val, err := decimal.NewFromString(text[m[2]:m[3]]); err == nil {
			add(val, raw, m[0], EncodingTruncatedDecimal)
		}
	}

	if mode == ModeLabeled && lineHasAny(text, moneyContextKeywords) {
		for _, m := range reBareInteger.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]

			// years read as amounts are a classic false positive
			if len(raw) == 4 && (strings.HasPrefix(raw, "19") || strings.HasPrefix(raw, "20")) {
				continue
			}

			ctx := neighborhood(text, m[2], m[3], 18)
			if lineHasAny(ctx, idContextMarkers) {
				continue
			}
			// 5-digit tokens are overwhelmingly store/txn IDs; require an
			// explicit currency symbol nearby to believe them
			if len(raw) == 5 && !strings.Contains(ctx, "$") {
				continue
			}
			if rePhoneShape.MatchString(neighborhood(text, m[2], m[3], 8)) {
				continue
			}

			iv, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			add(iv.Shift(-2), raw, m[2], EncodingImpliedCents)
		}
	}

	return dedupeTokens(out)
}

func neighborhood(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func dedupeTokens(tokens []MoneyToken) []MoneyToken {
	type key struct {
		value  string
		bucket int
	}
	seen := make(map[key]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		k := key{tok.Value.StringFixed(2), tok.Offset / 8}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// moneyValues is the per-line helper the field extractors use: values only,
// in text order.
func moneyValues(text string, mode Mode) []decimal.Decimal {
	tokens := ExtractMoneyTokens(text, mode)
	vals := make([]decimal.Decimal, 0, len(tokens))
	for _, t := range tokens {
		vals = append(vals, t.Value)
	}
	return vals
}
