package record

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var reNonMoneyChars = regexp.MustCompile(`[^0-9.,\-]`)

// CleanString trims whitespace and maps empty strings to nil, so a
// blank vendor never masquerades as a real one.
func CleanString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CleanMoney coerces messy money text into a decimal. It tolerates
// currency symbols, US thousands separators ("1,234.56") and European
// decimal commas ("12,34"). Returns nil when nothing parseable remains.
func CleanMoney(s string) *decimal.Decimal {
	v := reNonMoneyChars.ReplaceAllString(strings.TrimSpace(s), "")
	if v == "" {
		return nil
	}
	switch {
	case strings.Contains(v, ",") && strings.Contains(v, "."):
		v = strings.ReplaceAll(v, ",", "")
	case strings.Count(v, ",") == 1 && !strings.Contains(v, "."):
		v = strings.Replace(v, ",", ".", 1)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

// Normalize cleans a record in place: string fields are trimmed with
// empties nilled out, money is rounded to cents, and the review bit is
// kept consistent with the flag list.
func Normalize(rec *ExtractionRecord) {
	rec.Vendor = CleanString(rec.Vendor)
	rec.Date = CleanString(rec.Date)
	rec.VendorReasoning = strings.TrimSpace(rec.VendorReasoning)
	rec.DateReasoning = strings.TrimSpace(rec.DateReasoning)
	rec.TotalReasoning = strings.TrimSpace(rec.TotalReasoning)

	if rec.Total != nil {
		r := rec.Total.Round(2)
		rec.Total = &r
	}
	if rec.Tax != nil {
		r := rec.Tax.Round(2)
		rec.Tax = &r
	}

	if rec.Flags == nil {
		rec.Flags = []string{}
	}
	if len(rec.Flags) > 0 {
		rec.NeedsReview = true
	}
}
