package parse

import "strings"

// VendorEntry maps a canonical vendor name to the OCR-mangled spellings we
// have actually seen for it. Canonical names stay stable; accounting exports
// depend on that.
type VendorEntry struct {
	Canonical string
	Aliases   []string
}

// Lexicon is the read-only keyword and alias reference data the extractors
// score against. Build one at process start and pass it in; extractors never
// reach for ambient globals.
type Lexicon struct {
	Vendors []VendorEntry

	TotalLabels    []string
	SubtotalLabels []string
	TaxLabels      []string
	DateLabels     []string
}

// DefaultLexicon returns the curated tables. Expand via review feedback.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Vendors: []VendorEntry{
			{"Walmart", []string{"walmart", "wal-mart", "wal mart", "walmrt", "wm supercenter", "wm"}},
			{"Target", []string{"target", "tgt"}},
			{"Amazon", []string{"amazon", "amazon.com", "amzn", "amzn mktp", "amzn marketplace"}},
			{"Costco", []string{"costco", "costco wholesale"}},
			{"Home Depot", []string{"home depot", "the home depot", "homedepot", "home dep0t", "home-depot"}},
			{"Lowe's", []string{"lowe's", "lowes", "lowe s"}},
			{"AutoZone", []string{"autozone", "auto zone", "autozo", "auto z0ne"}},
			{"O'Reilly Auto Parts", []string{"o'reilly", "oreilly", "o reilly", "oreilly auto", "o'reilly auto"}},
			{"Advance Auto Parts", []string{"advance auto", "advanceautoparts", "advance auto parts", "adv auto"}},
			{"CVS", []string{"cvs", "cvs/pharmacy", "cvs pharmacy"}},
			{"Walgreens", []string{"walgreens", "walgreeens", "walgreen"}},
			{"Dollar General", []string{"dollar general", "dollargeneral", "dg"}},
			{"Shell", []string{"shell"}},
			{"Exxon", []string{"exxon", "esso"}},
			{"Chevron", []string{"chevron"}},
			{"Sunoco", []string{"sunoco"}},
			{"BP", []string{"bp", "b p"}},
			{"7-Eleven", []string{"7-eleven", "7 eleven", "seven eleven"}},
			{"Starbucks", []string{"starbucks", "sbux"}},
			{"McDonald's", []string{"mcdonalds", "mc donalds", "mc donald's", "mcd"}},
		},

		TotalLabels:    []string{"total", "sale total", "grand total", "invoice total", "total due", "order total"},
		SubtotalLabels: []string{"subtotal", "sub total"},
		TaxLabels:      []string{"sales tax", "tax", "vat", "gst", "hst"},
		DateLabels:     []string{"date", "dated", "txn date", "trans date", "transaction date", "purchase date", "issued", "invoice date"},
	}
}

func lineHasAny(line string, needles []string) bool {
	lo := strings.ToLower(line)
	for _, n := range needles {
		if strings.Contains(lo, n) {
			return true
		}
	}
	return false
}
