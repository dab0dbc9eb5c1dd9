package ocr

import (
	"regexp"
	"strings"
)

var (
	reNonPrintable = regexp.MustCompile(`[^\x09\x0A\x0D\x20-\x7E]`)
	reIntraSpace   = regexp.MustCompile(`\s+`)
)

// CleanupText normalizes line endings, strips non-printable bytes, collapses
// intra-line whitespace, and drops empty lines. Every pass's raw output goes
// through this before it is merged.
func CleanupText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = reNonPrintable.ReplaceAllString(text, "")

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(reIntraSpace.ReplaceAllString(ln, " "))
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n")
}
