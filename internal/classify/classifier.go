package classify

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledgerline/receiptcore/constants"
)

// Source says which tier produced a category.
type Source string

const (
	SourceRules  Source = "rules"
	SourceEngine Source = "engine"
)

// Result is the classifier's product. Category is nil when no tier fired;
// Confidence is on a 0..1 scale.
type Result struct {
	Category   *constants.Category
	Confidence float64
	Reasoning  string
	Source     Source
}

// Input is the evidence available for one receipt.
type Input struct {
	Vendor       string // canonical vendor if extraction found one
	OCRText      string
	Explanation  string // caller-supplied purpose note, may be empty
	BusinessType string
}

// Classifier runs the deterministic rule cascade and, when nothing fires,
// the heuristic keyword engine. Safe for concurrent use; tables are never
// mutated.
type Classifier struct {
	tables *Tables
	logger *slog.Logger
}

func NewClassifier(tables *Tables, logger *slog.Logger) *Classifier {
	if tables == nil {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{tables: tables, logger: logger}
}

var reSpaces = regexp.MustCompile(`\s+`)

func norm(s string) string {
	return reSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Classify picks a category for the receipt. Business-type hints fire first,
// then the rule cascade, then the engine. Never errors; no match is a nil
// category with zero confidence.
func (c *Classifier) Classify(in Input) Result {
	if res, ok := c.matchBusinessHint(in); ok {
		return res
	}
	if res, ok := c.applyRules(in); ok {
		return res
	}
	if res, ok := c.runEngine(in); ok {
		return res
	}
	return Result{Confidence: 0.0, Reasoning: "No category match found", Source: SourceEngine}
}

// matchBusinessHint pre-empts both cascades when the caller's business type
// has telltale keywords in the explanation.
func (c *Classifier) matchBusinessHint(in Input) (Result, bool) {
	bt := norm(in.BusinessType)
	e := norm(in.Explanation)
	if bt == "" || e == "" {
		return Result{}, false
	}
	for _, hint := range c.tables.BusinessTypeHints[bt] {
		for _, kw := range hint.Keywords {
			if strings.Contains(e, norm(kw)) {
				cat := hint.Category
				return Result{
					Category:   &cat,
					Confidence: 0.90,
					Reasoning:  fmt.Sprintf("Matched business_type='%s' hint in explanation", in.BusinessType),
					Source:     SourceRules,
				}, true
			}
		}
	}
	return Result{}, false
}

// applyRules is the deterministic layer: vendor map, explanation keywords,
// OCR keywords, business-type default, in that order.
func (c *Classifier) applyRules(in Input) (Result, bool) {
	if res, ok := c.ruleMatchVendor(in.Vendor); ok {
		return res, true
	}
	if res, ok := c.ruleMatchKeywords(in.Explanation); ok {
		res.Reasoning = "Explanation rule: " + res.Reasoning
		return res, true
	}
	if res, ok := c.ruleMatchKeywords(in.OCRText); ok {
		res.Reasoning = "OCR rule: " + res.Reasoning
		return res, true
	}
	if res, ok := c.ruleMatchBusinessDefault(in.BusinessType); ok {
		return res, true
	}
	return Result{}, false
}

// ruleMatchVendor is the strongest rule: canonical vendor to category. When
// several table keys match as substrings, the longest key wins so "Target
// Specialty Products" beats "Target".
func (c *Classifier) ruleMatchVendor(vendor string) (Result, bool) {
	v := norm(vendor)
	if v == "" {
		return Result{}, false
	}

	bestKey := ""
	var bestCat constants.Category
	for key, cat := range c.tables.VendorCategories {
		kn := norm(key)
		if !strings.Contains(v, kn) {
			continue
		}
		if len(key) > len(bestKey) || (len(key) == len(bestKey) && key < bestKey) {
			bestKey = key
			bestCat = cat
		}
	}
	if bestKey == "" {
		return Result{}, false
	}

	return Result{
		Category:   &bestCat,
		Confidence: 0.95,
		Reasoning:  fmt.Sprintf("Vendor mapping matched: '%s' in '%s'", bestKey, vendor),
		Source:     SourceRules,
	}, true
}

func (c *Classifier) ruleMatchKeywords(text string) (Result, bool) {
	t := norm(text)
	if t == "" {
		return Result{}, false
	}
	for _, rule := range c.tables.KeywordRules {
		if strings.Contains(t, rule.Keyword) {
			cat := rule.Category
			return Result{
				Category:   &cat,
				Confidence: 0.80,
				Reasoning:  fmt.Sprintf("Keyword mapping matched: '%s'", rule.Keyword),
				Source:     SourceRules,
			}, true
		}
	}
	return Result{}, false
}

func (c *Classifier) ruleMatchBusinessDefault(businessType string) (Result, bool) {
	bt := norm(businessType)
	if bt == "" {
		return Result{}, false
	}
	cat, ok := c.tables.BusinessTypeDefaults[bt]
	if !ok {
		// a business type that is itself a taxonomy label still counts
		cat, ok = constants.Canonicalize(businessType)
		if !ok {
			return Result{}, false
		}
	}
	return Result{
		Category:   &cat,
		Confidence: 0.55,
		Reasoning:  "Business type default used: " + businessType,
		Source:     SourceRules,
	}, true
}

// runEngine is the heuristic fallback: keyword-hit counting against the
// curated buckets, explanation first, then OCR text, then vendor.
func (c *Classifier) runEngine(in Input) (Result, bool) {
	tiers := []struct {
		text       string
		confidence float64
		reasoning  string
	}{
		{norm(in.Explanation), 0.85, "Matched keywords in explanation (highest priority)"},
		{norm(in.OCRText), 0.70, "Matched keywords in OCR text"},
		{norm(in.Vendor), 0.60, "Matched keywords in vendor"},
	}
	for _, tier := range tiers {
		if cat, ok := c.matchBucket(tier.text); ok {
			return Result{
				Category:   &cat,
				Confidence: tier.confidence,
				Reasoning:  tier.reasoning,
				Source:     SourceEngine,
			}, true
		}
	}
	return Result{}, false
}

// matchBucket scores every bucket by keyword-hit count and returns the top
// scorer. Ties go to the earlier bucket in table order.
func (c *Classifier) matchBucket(text string) (constants.Category, bool) {
	if text == "" {
		return "", false
	}
	var bestCat constants.Category
	bestScore := 0
	for _, bucket := range c.tables.EngineKeywords {
		score := 0
		for _, kw := range bucket.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestCat = bucket.Category
		}
	}
	return bestCat, bestScore > 0
}
