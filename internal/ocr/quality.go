package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

// Receipt keywords used for heuristics (not strict requirements).
var totalishKeywords = []string{
	"sale total", "grand total", "total", "amount due", "balance due",
	"invoice total", "subtotal",
	"sales tax", "tax", "vat", "gst", "hst",
}

var (
	reDecimalMoney = regexp.MustCompile(`\b\d+\.\d{2}\b`)
	reBareAmount   = regexp.MustCompile(`\b\d{3,6}\b`)
)

func hasTotalishKeywords(text string) bool {
	if text == "" {
		return false
	}
	lo := strings.ToLower(text)
	for _, k := range totalishKeywords {
		if strings.Contains(lo, k) {
			return true
		}
	}
	return false
}

func hasMoneyTokens(text string) bool {
	if text == "" {
		return false
	}
	return reDecimalMoney.MatchString(text) || reBareAmount.MatchString(text)
}

// qualityScore is a cheap 0..1 text-quality heuristic: length, alnum
// density, token count, receipt keywords, money-shaped tokens. It is how
// attempts are ranked without a second engine call.
func qualityScore(text string) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}

	length := len(t)
	var alpha, digit int
	for _, ch := range t {
		switch {
		case unicode.IsLetter(ch):
			alpha++
		case unicode.IsDigit(ch):
			digit++
		}
	}
	density := float64(alpha+digit) / float64(length)
	tokens := len(strings.Fields(t))

	score := 0.0
	score += capFloat(float64(length)/600.0*0.45, 0.45)
	score += capFloat(density*0.20, 0.20)
	score += capFloat(float64(tokens)/80.0*0.10, 0.10)
	if hasTotalishKeywords(t) {
		score += 0.15
	}
	if hasMoneyTokens(t) {
		score += 0.10
	}
	return clampFloat(score, 0, 1)
}

// looksLikeTotalsMissing signals that the engine probably dropped digits:
// total/tax words are present but no money-shaped token survived.
func looksLikeTotalsMissing(text string) bool {
	if text == "" {
		return true
	}
	if !hasTotalishKeywords(text) {
		return false
	}
	return !hasMoneyTokens(text)
}

// looksLikeVendorMangled signals that the top lines are alphabetically
// sparse or digit-dominated, i.e. the vendor banner did not survive OCR.
func looksLikeVendorMangled(text string) bool {
	if text == "" {
		return true
	}
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > 6 {
		lines = lines[:6]
	}
	top := strings.Join(lines, " ")
	if len(top) < 10 {
		return true
	}
	var alpha, digit int
	for _, ch := range top {
		switch {
		case unicode.IsLetter(ch):
			alpha++
		case unicode.IsDigit(ch):
			digit++
		}
	}
	return alpha < 6 || (digit > alpha*2 && digit > 8)
}

// scoreToConf converts a 0..1 quality score into 0..100 confidence, with an
// optional additive bump capped per pass type.
func scoreToConf(score float64, bump, capAt float64) float64 {
	if capAt <= 0 {
		capAt = 100
	}
	return clampFloat(score*100.0+bump, 0, capAt)
}

func capFloat(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
