package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var strongTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`grand\s*total`),
	regexp.MustCompile(`total\s+due`),
	regexp.MustCompile(`amount\s+due`),
	regexp.MustCompile(`balance\s+due`),
	regexp.MustCompile(`amount\s+payable`),
	regexp.MustCompile(`pay\s+this\s+amount`),
	regexp.MustCompile(`order\s*total`),
}

var weakTotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btotal\b\s*:?`),
	regexp.MustCompile(`\btotal\b\s+\$`),
	regexp.MustCompile(`\btotal\b`),
}

var badTotalContextKeywords = []string{
	"subtotal", "sub total",
	"item total", "items total",
	"line total", "extended", "ext price", "extension",
	"merchandise", "merch total",
	"taxable", "vat",
	"tip", "gratuity",
	"tender", "cash", "change",
	"amount tendered",
	"payment", "debit", "credit",
	"card", "visa", "mastercard",
	"auth", "approval",
	"discount", "savings",
	"refund",
}

// itemMathRe matches quantity-times-price item lines like "2 x $4.99".
var itemMathRe = regexp.MustCompile(`(?i)\b\d+\s*(?:x|@)\s*\$?\s*\d+(\.\d{1,2})?\b`)

// Line-level shapes that mark a money value as something other than the
// grand total. Shared by the tax inference scan.
var (
	nonFinalTotalHints = []string{
		"item total", "items total", "item(s) total",
		"subtotal", "sub total", "total before tax", "pretax", "pre tax", "before tax",
		"tax", "sales tax", "vat", "gst", "hst",
		"discount", "coupon", "savings",
		"change", "cash", "tender", "payment", "paid", "balance",
		"tip", "gratuity",
		"shipping", "handling",
		"deposit",
		"auth", "authorization",
	}
	finalTotalHints = []string{
		"grand total", "order total", "total due", "amount due", "balance due", "total:",
	}
)

// isBadTotalContext reports whether a line is likely NOT a grand total
// candidate (item totals, subtotals, tax lines, tender, etc). A strong
// final-total label on the line overrides everything.
func isBadTotalContext(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	if lineHasAny(t, finalTotalHints) {
		return false
	}
	return lineHasAny(t, nonFinalTotalHints)
}

func hasAnyPattern(s string, patterns []*regexp.Regexp) bool {
	lo := strings.ToLower(s)
	for _, p := range patterns {
		if p.MatchString(lo) {
			return true
		}
	}
	return false
}

func isBadContext(s string) bool {
	lo := strings.ToLower(s)
	if hasAnyPattern(lo, strongTotalPatterns) {
		return false
	}
	if lineHasAny(lo, badTotalContextKeywords) {
		return true
	}
	return itemMathRe.MatchString(lo)
}

type totalCandidate struct {
	score  float64
	value  decimal.Decimal
	reason string
}

func (p *Parser) extractTotal(lines []string, joined string, sections map[string][]string, taxValue *decimal.Decimal) FieldResult[decimal.Decimal] {
	if strings.TrimSpace(joined) == "" && len(lines) == 0 {
		return noField[decimal.Decimal]("No OCR text.")
	}

	sc := p.scoring

	// Shared per-candidate scorer; the "why" fragments end up in the
	// reasoning string the review gate inspects.
	score := func(v decimal.Decimal, ctx string, labeled bool) (float64, []string) {
		var why []string
		s := sc.TotalUnlabeledBase
		if labeled {
			s = sc.TotalLabeledBase
			why = append(why, "Labeled total window")
		} else {
			why = append(why, "Unlabeled candidate")
		}

		lo := strings.ToLower(ctx)
		if isBadContext(ctx) {
			s -= sc.TotalBadContextPenalty
			why = append(why, "Penalized: bad context")
		}
		if strings.Contains(lo, "tax") || strings.Contains(lo, "vat") {
			s -= sc.TotalTaxContextPenalty
			why = append(why, "Penalized: tax context")
		}
		if v.LessThan(decimal.NewFromInt(1)) {
			s -= sc.TotalTooSmallPenalty
			why = append(why, "Penalized: too small")
		} else if v.GreaterThan(decimal.NewFromInt(20000)) {
			s -= sc.TotalTooLargePenalty
			why = append(why, "Penalized: unusually large")
		}
		if taxValue != nil && v.Sub(*taxValue).Abs().LessThanOrEqual(decimal.NewFromFloat(0.02)) {
			s -= sc.TotalMatchesTaxPenalty
			why = append(why, "Penalized: matches tax value")
		}
		if v.Equal(v.Round(2)) {
			s += sc.TotalCentsPrecisionBump
			why = append(why, "Bump: currency-like precision")
		}
		return clamp01(s), why
	}

	// Unified line list: parsed lines first, then section lines, deduped
	// preserving order.
	var allLines []string
	seen := map[string]struct{}{}
	push := func(ln string) {
		t := collapseSpaces(ln)
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		allLines = append(allLines, t)
	}
	for _, ln := range lines {
		push(ln)
	}
	for _, name := range []string{SectionVendor, SectionTotals, SectionNumeric, SectionSoftText, SectionOther} {
		for _, ln := range sections[name] {
			push(ln)
		}
	}

	windowText := func(i int) string {
		end := i + 3
		if end > len(allLines) {
			end = len(allLines)
		}
		return strings.Join(allLines[i:end], " | ")
	}

	finish := func(cands []totalCandidate) FieldResult[decimal.Decimal] {
		best := cands[0]
		for _, c := range cands[1:] {
			if c.score > best.score {
				best = c
			}
		}
		return someField(best.value, best.score*100, best.reason, "")
	}

	// Pass 1: strong label windows. A value on the same line as the label
	// is the classic invoice shape and gets the bigger bump.
	var candidates []totalCandidate
	for i, line := range allLines {
		if !hasAnyPattern(line, strongTotalPatterns) {
			continue
		}
		if vals := moneyValues(line, ModeLabeled); len(vals) > 0 {
			v := vals[len(vals)-1]
			s, why := score(v, line, true)
			s = clamp01(s + sc.TotalSameLineBump)
			why = append(why, "Strong label match (same line)")
			candidates = append(candidates, totalCandidate{s, v, fmt.Sprintf("%s. Source: '%s'", strings.Join(why, " ; "), line)})
			continue
		}
		window := windowText(i)
		for _, v := range moneyValues(window, ModeLabeled) {
			s, why := score(v, window, true)
			s = clamp01(s + sc.TotalStrongWindowBump)
			why = append(why, "Strong label match")
			candidates = append(candidates, totalCandidate{s, v, fmt.Sprintf("%s. Source: '%s'", strings.Join(why, " ; "), window)})
		}
	}
	if len(candidates) > 0 {
		return finish(candidates)
	}

	// Pass 2: weak "total" labels outside bad contexts.
	for i, line := range allLines {
		if !hasAnyPattern(line, weakTotalPatterns) || isBadContext(line) {
			continue
		}
		window := windowText(i)
		for _, v := range moneyValues(window, ModeLabeled) {
			s, why := score(v, window, true)
			s = clamp01(s + sc.TotalWeakWindowBump)
			why = append(why, "Weak label match")
			candidates = append(candidates, totalCandidate{s, v, fmt.Sprintf("%s. Source: '%s'", strings.Join(why, " ; "), window)})
		}
	}
	if len(candidates) > 0 {
		return finish(candidates)
	}

	// Pass 3: global fallback over every plausible line.
	for _, line := range allLines {
		if isBadContext(line) {
			continue
		}
		for _, v := range moneyValues(line, ModeUnlabeled) {
			s, why := score(v, line, false)
			candidates = append(candidates, totalCandidate{s, v, fmt.Sprintf("%s. Source: '%s'", strings.Join(why, " ; "), line)})
		}
	}

	// Still nothing: loosen the context filter, keep rejecting item math.
	if len(candidates) == 0 {
		for _, line := range allLines {
			if itemMathRe.MatchString(strings.ToLower(line)) {
				continue
			}
			for _, v := range moneyValues(line, ModeUnlabeled) {
				s, why := score(v, line, false)
				s = clamp01(s - sc.TotalLoosenedPenalty)
				why = append(why, "Loosened context filter")
				candidates = append(candidates, totalCandidate{s, v, fmt.Sprintf("%s. Source: '%s'", strings.Join(why, " ; "), line)})
			}
		}
	}

	if len(candidates) == 0 {
		return noField[decimal.Decimal]("No money candidates found.")
	}
	return finish(candidates)
}
