package parse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var taxStrongLabels = []string{
	"sales tax", "estimated tax", "tax to be collected", "tax collected",
	"tax amount", "vat", "gst", "pst", "hst", "qst", "iva", "mwst", "tva",
}

// "tax:" alone is common but dangerous; medium strength only.
var taxMediumLabels = []string{"tax:", " tax ", "tax "}

// Phrases that contain "tax" but never carry the tax amount.
var taxTraps = []string{
	"before tax", "total before tax", "pre-tax", "pretax", "taxable",
	"tax rate", "tax %", "tax percent", "% tax", "tax id", "tax no",
	"tax number", "tax invoice",
}

var taxSubtotalLabels = []string{
	"subtotal", "sub total", "total before tax", "before tax total",
	"pre-tax total", "pretax total", "merchandise", "items subtotal",
}

var taxTotalLabels = []string{
	"grand total", "order total", "amount due", "balance due",
	"total:", "total $", "total ",
}

func (p *Parser) extractTax(lines []string, joined string, sections map[string][]string) FieldResult[decimal.Decimal] {
	if strings.TrimSpace(joined) == "" {
		return noField[decimal.Decimal]("No OCR text.")
	}

	sc := p.scoring

	// Totals-pass lines first; the right-strip crop is where tax lines live.
	type scanLine struct {
		src  string
		line string
	}
	var scanLines []scanLine
	for _, ln := range sections[SectionTotals] {
		scanLines = append(scanLines, scanLine{SectionTotals, ln})
	}
	for _, ln := range lines {
		scanLines = append(scanLines, scanLine{SectionFull, ln})
	}

	var bestVal *decimal.Decimal
	bestScore := 0.0
	bestReason := "No tax signal found."

	// Subtotal/total observations for the inference fallback.
	var seenSubtotal, seenTotal *decimal.Decimal
	var seenSubtotalSrc, seenTotalSrc string

	for _, sl := range scanLines {
		t := strings.ToLower(strings.TrimSpace(sl.line))
		if t == "" {
			continue
		}

		if seenSubtotal == nil && lineHasAny(t, taxSubtotalLabels) {
			if v := lastMoney(sl.line); v != nil {
				seenSubtotal = v
				seenSubtotalSrc = fmt.Sprintf("%s: '%s'", sl.src, sl.line)
			}
		}
		if seenTotal == nil && lineHasAny(t, taxTotalLabels) && !isBadTotalContext(t) {
			if v := lastMoney(sl.line); v != nil {
				seenTotal = v
				seenTotalSrc = fmt.Sprintf("%s: '%s'", sl.src, sl.line)
			}
		}

		if lineHasAny(t, taxTraps) {
			continue
		}

		isStrong := lineHasAny(t, taxStrongLabels)
		isMedium := !isStrong && lineHasAny(t, taxMediumLabels)
		if !isStrong && !isMedium {
			continue
		}

		v := lastMoney(sl.line)
		if v == nil {
			continue
		}

		score := sc.TaxStrongBase
		if isMedium {
			score = sc.TaxMediumBase
		}
		if sl.src == SectionTotals {
			score += sc.TaxTotalsPassBump
		}
		if strings.Contains(sl.line, "$") {
			score += sc.TaxCurrencySymbolBump
		}
		if v.LessThan(decimal.NewFromFloat(0.01)) {
			score -= sc.TaxTinyValuePenalty
		}
		if v.GreaterThan(decimal.NewFromInt(500)) {
			score -= sc.TaxLargeValuePenalty
		}
		if seenTotal != nil && v.GreaterThan(*seenTotal) {
			score -= sc.TaxExceedsTotalPenalty
		}
		score = clamp01(score)

		if score > bestScore {
			bestScore = score
			bestVal = v
			strength := "strong"
			if isMedium {
				strength = "medium"
			}
			bestReason = fmt.Sprintf("Matched %s tax label; Source: (%s) '%s'", strength, sl.src, sl.line)
		}
	}

	if bestVal != nil {
		return someField(bestVal.Round(2), toConf100(bestScore), bestReason, "")
	}

	// Inference fallback: tax = total - subtotal, accepted only when
	// non-negative and at most 25% of the total.
	if seenTotal != nil && seenSubtotal != nil {
		inferred := seenTotal.Sub(*seenSubtotal).Round(2)
		if !inferred.IsNegative() && seenTotal.IsPositive() {
			ratio, _ := inferred.Div(*seenTotal).Float64()
			if ratio <= sc.TaxInferenceMaxRatio {
				conf := sc.TaxInferenceBase
				if strings.Contains(seenTotalSrc, SectionTotals) && strings.Contains(seenSubtotalSrc, SectionTotals) {
					conf += sc.TaxInferenceTotalsPassBump
				}
				reason := fmt.Sprintf(
					"Inferred tax = total - subtotal (%s - %s). Total from %s; subtotal from %s",
					seenTotal.StringFixed(2), seenSubtotal.StringFixed(2), seenTotalSrc, seenSubtotalSrc)
				return someField(inferred, toConf100(clamp01(conf)), reason, "")
			}
		}
	}

	return noField[decimal.Decimal]("No tax line detected.")
}

// lastMoney returns the final money value on a line; totals and tax amounts
// sit at the right edge of receipt lines.
func lastMoney(line string) *decimal.Decimal {
	vals := moneyValues(line, ModeLabeled)
	if len(vals) == 0 {
		return nil
	}
	v := vals[len(vals)-1]
	return &v
}
