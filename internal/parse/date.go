package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthAlternation = `jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december`

var datePatterns = []struct {
	re  *regexp.Regexp
	tag string
}{
	// 01/27/2026 or 1/7/26
	{regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\b`), "mdy_slash"},
	// 2026-01-27
	{regexp.MustCompile(`\b(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})\b`), "ymd_dash"},
	// Jan 27 2026 / January 27, 2026
	{regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2}),?\s+(\d{2,4})\b`), "mon_d_y"},
	// 27 Jan 2026
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlternation + `)\.?\s+(\d{2,4})\b`), "d_mon_y"},
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type dateCandidate struct {
	iso    string
	score  float64
	reason string
}

func (p *Parser) extractDate(lines []string, joined string, sections map[string][]string) FieldResult[string] {
	if strings.TrimSpace(joined) == "" {
		return noField[string]("No OCR text.")
	}

	sc := p.scoring
	var candidates []dateCandidate

	// Label proximity scan: a date near a "date"-ish label is high trust.
	labelScan := lines
	if len(labelScan) > 40 {
		labelScan = labelScan[:40]
	}
	for i, ln := range labelScan {
		if !lineHasAny(ln, p.lex.DateLabels) {
			continue
		}
		window := lineWindow(lines, i, 3)
		for _, c := range dateCandidatesFromText(window) {
			candidates = append(candidates, dateCandidate{
				iso:    c.iso,
				score:  sc.DateLabeledBase,
				reason: fmt.Sprintf("%s Found near date label in: '%s'.", c.reason, ln),
			})
		}
	}

	// Generic scans in descending trust: numeric pass, top of page, full.
	type scanBlock struct {
		name string
		text string
	}
	var blocks []scanBlock
	if numeric := sections[SectionNumeric]; len(numeric) > 0 {
		blocks = append(blocks, scanBlock{SectionNumeric, strings.Join(numeric, "\n")})
	}
	top := lines
	if len(top) > 35 {
		top = top[:35]
	}
	blocks = append(blocks,
		scanBlock{"top_full", strings.Join(top, "\n")},
		scanBlock{SectionFull, joined},
	)

	for _, b := range blocks {
		for _, c := range dateCandidatesFromText(b.text) {
			base := sc.DateScanBase
			if b.name != SectionFull {
				base = sc.DateTopScanBase
			}
			if b.name == SectionNumeric {
				base += sc.DateNumericPassBump
			}
			candidates = append(candidates, dateCandidate{
				iso:    c.iso,
				score:  base,
				reason: fmt.Sprintf("%s Found by scan in %s.", c.reason, b.name),
			})
		}
	}

	if len(candidates) == 0 {
		return noField[string]("No date pattern detected.")
	}

	// Plausibility adjustment, highest adjusted score wins.
	today := p.now().UTC().Truncate(24 * time.Hour)
	bestScore := -1.0
	bestISO := ""
	bestReason := ""
	for _, c := range candidates {
		dt, err := time.Parse("2006-01-02", c.iso)
		if err != nil {
			continue
		}
		score := c.score
		reason := c.reason
		if dt.After(today.AddDate(2, 0, 0)) {
			score -= sc.DateFarFuturePenalty
			reason += " Penalized: implausible far-future date."
		}
		if dt.Before(today.AddDate(-15, 0, 0)) {
			score -= sc.DateVeryOldPenalty
			reason += " Penalized: very old date."
		}
		if !dt.Before(today.AddDate(-2, 0, 0)) && !dt.After(today) {
			score += sc.DateRecentBump
		}
		score = clamp01(score)
		if score > bestScore {
			bestScore = score
			bestISO = c.iso
			bestReason = reason
		}
	}

	if bestISO == "" {
		return noField[string]("Date candidates existed but none were valid.")
	}
	return someField(bestISO, toConf100(bestScore), bestReason, "")
}

type rawDate struct {
	iso    string
	reason string
}

// dateCandidatesFromText finds every calendar-valid date in text under the
// four pattern families, deduplicated preserving order.
func dateCandidatesFromText(text string) []rawDate {
	var out []rawDate
	seen := map[string]struct{}{}
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			iso, ok := normalizeDateMatch(m, p.tag)
			if !ok {
				continue
			}
			if _, dup := seen[iso]; dup {
				continue
			}
			seen[iso] = struct{}{}
			out = append(out, rawDate{iso, fmt.Sprintf("Matched date pattern '%s'.", p.tag)})
		}
	}
	return out
}

func normalizeDateMatch(m []string, tag string) (string, bool) {
	var y, d int
	var mo time.Month
	var err error

	switch tag {
	case "mdy_slash":
		moNum, _ := strconv.Atoi(m[1])
		mo = time.Month(moNum)
		d, _ = strconv.Atoi(m[2])
		y, err = expandYear(m[3])
	case "ymd_dash":
		y, _ = strconv.Atoi(m[1])
		moNum, _ := strconv.Atoi(m[2])
		mo = time.Month(moNum)
		d, _ = strconv.Atoi(m[3])
	case "mon_d_y":
		var ok bool
		mo, ok = monthByName(m[1])
		if !ok {
			return "", false
		}
		d, _ = strconv.Atoi(m[2])
		y, err = expandYear(m[3])
	case "d_mon_y":
		d, _ = strconv.Atoi(m[1])
		var ok bool
		mo, ok = monthByName(m[2])
		if !ok {
			return "", false
		}
		y, err = expandYear(m[3])
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}

	// round-trip through time.Date catches month 13 and day 32: they
	// normalize to a different date than requested
	dt := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	if dt.Year() != y || dt.Month() != mo || dt.Day() != d {
		return "", false
	}
	return dt.Format("2006-01-02"), true
}

// expandYear widens 2-digit years using a 1968 pivot.
func expandYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if y < 100 {
		if y <= 68 {
			return 2000 + y, nil
		}
		return 1900 + y, nil
	}
	return y, nil
}

func monthByName(s string) (time.Month, bool) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if len(key) > 3 {
		key = key[:3]
	}
	mo, ok := monthNames[key]
	return mo, ok
}

// lineWindow joins lines[i-radius : i+radius+1] with " | " separators.
func lineWindow(lines []string, idx, radius int) string {
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + radius + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], " | ")
}
