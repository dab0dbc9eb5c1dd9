package parse

import "strings"

// Section names produced by SplitSections. "full" is always present and is
// the never-filtered superset of every non-marker line.
const (
	SectionFull     = "full"
	SectionVendor   = "vendor_pass"
	SectionTotals   = "totals_pass"
	SectionNumeric  = "numeric_pass"
	SectionSoftText = "softtext_pass"
	SectionOther    = "other_pass"
)

// SplitSections splits merged multi-pass OCR lines back into the regions the
// orchestrator's marker headers delimit. Lines between markers accumulate
// into the current section; without any markers everything lands under full.
func SplitSections(lines []string) map[string][]string {
	full := make([]string, 0, len(lines))
	for _, ln := range lines {
		if !isSectionMarker(ln) {
			full = append(full, ln)
		}
	}
	out := map[string][]string{SectionFull: full}
	current := SectionFull

	for _, ln := range lines {
		if isSectionMarker(ln) {
			up := strings.ToUpper(ln)
			switch {
			case strings.Contains(up, "VENDOR"):
				current = SectionVendor
			case strings.Contains(up, "TOTAL"):
				current = SectionTotals
			case strings.Contains(up, "NUMERIC"):
				current = SectionNumeric
			case strings.Contains(up, "SOFT TEXT") || strings.Contains(up, "SOFTTEXT"):
				current = SectionSoftText
			default:
				current = SectionOther
			}
			if _, ok := out[current]; !ok {
				out[current] = []string{}
			}
			continue
		}
		if current != SectionFull {
			out[current] = append(out[current], ln)
		}
	}

	return out
}

// isSectionMarker reports whether a line is one of the orchestrator's
// "----- <NAME> PASS -----" header lines rather than receipt content.
func isSectionMarker(ln string) bool {
	return strings.Contains(ln, "-----") && strings.Contains(strings.ToUpper(ln), "PASS")
}

// SplitLines trims and drops empty lines, the line shape every extractor
// scans over.
func SplitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}
