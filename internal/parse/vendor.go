package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reAlnumOnly     = regexp.MustCompile(`[^a-z0-9]+`)
	reNoiseChars    = regexp.MustCompile(`[^A-Za-z0-9 '&.\-/]`)
	reMultiSpace    = regexp.MustCompile(`\s{2,}`)
	reLabeledVendor = regexp.MustCompile(`(?i)\b(from|sold by|merchant|seller)\s*[:\-]\s*(.+)$`)
	reVendorToken   = regexp.MustCompile(`[a-z0-9']{3,}`)
	reWordToken     = regexp.MustCompile(`[a-z0-9']+`)
)

var addressHints = []string{"street", " st ", " st.", "road", " rd", " rd.", "ave", "suite", "phone", "tel", "www", ".com", "@"}

// aliasNorm collapses a string to lowercase alphanumerics so "auto zone",
// "auto-zone" and "auto. zone" all compare equal.
func aliasNorm(s string) string {
	return reAlnumOnly.ReplaceAllString(strings.ToLower(s), "")
}

// aliasHit is the forgiving alias matcher: exact substring, then normalized
// substring, then a guarded 4-char token-prefix match for OCR truncation
// like "autozz". Short aliases only match whole tokens.
func aliasHit(alias, hay string) bool {
	a := strings.TrimSpace(strings.ToLower(alias))
	h := strings.ToLower(hay)
	if a == "" || h == "" {
		return false
	}

	// Aliases under 4 normalized characters are too small for substring
	// matching ("wm" lives inside "sawmill"), so they only hit as a
	// standalone token, or as two adjacent tokens for spaced forms.
	if aN := aliasNorm(a); len(aN) < 4 {
		if aN == "" {
			return false
		}
		toks := reWordToken.FindAllString(h, -1)
		for i, tok := range toks {
			tN := aliasNorm(tok)
			if tN == aN {
				return true
			}
			if i+1 < len(toks) && tN+aliasNorm(toks[i+1]) == aN {
				return true
			}
		}
		return false
	}

	if strings.Contains(h, a) {
		return true
	}

	aN := aliasNorm(a)
	hN := aliasNorm(h)
	if aN != "" && strings.Contains(hN, aN) {
		return true
	}

	a4 := aN
	if len(aN) >= 4 {
		a4 = aN[:4]
	}
	if a4 == "" {
		return false
	}
	for _, tok := range reVendorToken.FindAllString(h, -1) {
		tN := aliasNorm(tok)
		if tN == "" || !strings.HasPrefix(tN, a4) {
			continue
		}
		// length closeness so "auto" alone doesn't match everything
		if abs(len(tN)-len(aN)) <= 4 {
			return true
		}
	}
	return false
}

func stripNoise(s string) string {
	return strings.TrimSpace(reNoiseChars.ReplaceAllString(s, " "))
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

func (p *Parser) extractVendor(lines []string, sections map[string][]string) FieldResult[string] {
	if len(lines) == 0 {
		return noField[string]("No OCR lines.")
	}

	topFull := lines
	if len(topFull) > 14 {
		topFull = topFull[:14]
	}

	type searchSpace struct {
		name string
		hay  string
	}
	var spaces []searchSpace
	if block := sections[SectionVendor]; len(block) > 0 {
		spaces = append(spaces, searchSpace{SectionVendor, strings.ToLower(strings.Join(block, "\n"))})
	}
	if block := sections[SectionSoftText]; len(block) > 0 {
		spaces = append(spaces, searchSpace{SectionSoftText, strings.ToLower(strings.Join(block, "\n"))})
	}
	spaces = append(spaces,
		searchSpace{"top_full", strings.ToLower(strings.Join(topFull, "\n"))},
		searchSpace{SectionFull, strings.ToLower(strings.Join(lines, "\n"))},
	)

	// Tier 1: alias match across prioritized blocks.
	sc := p.scoring
	bestScore := 0.0
	bestVendor := ""
	bestAlias := ""
	bestSrc := ""

	for _, space := range spaces {
		if space.hay == "" {
			continue
		}
		for _, entry := range p.lex.Vendors {
			for _, alias := range entry.Aliases {
				if !aliasHit(alias, space.hay) {
					continue
				}
				score := sc.VendorAliasBase
				switch space.name {
				case SectionVendor:
					score += sc.VendorPassBump
				case SectionSoftText:
					score += sc.SoftTextPassBump
				case "top_full":
					score += sc.TopFullBump
				}
				if strings.Contains(space.hay, strings.ToLower(entry.Canonical)) {
					score += sc.CanonicalPresentBump
				}
				score = clamp01(score)
				if score > bestScore {
					bestScore = score
					bestVendor = entry.Canonical
					bestAlias = alias
					bestSrc = "alias_match:" + space.name
				}
			}
		}
		// a near-perfect hit in a high-trust section ends the search
		if bestVendor != "" && bestScore >= sc.VendorEarlyExit &&
			(space.name == SectionVendor || space.name == SectionSoftText) {
			break
		}
	}

	if bestVendor != "" {
		return someField(bestVendor, toConf100(bestScore),
			fmt.Sprintf("Matched vendor alias '%s' in %s.", bestAlias, bestSrc), bestSrc)
	}

	// Tier 2: labeled vendor lines near the top.
	top := lines
	if len(top) > 20 {
		top = top[:20]
	}
	for _, ln := range top {
		m := reLabeledVendor.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		cand := collapseSpaces(stripNoise(strings.TrimSpace(m[2])))
		if len(cand) >= 2 && len(cand) <= 50 {
			return someField(cand, toConf100(sc.VendorLabeledScore),
				fmt.Sprintf("Found vendor in labeled line: '%s'.", ln), "labeled_vendor")
		}
	}

	// Tier 3: merchant-like top-line scoring. Skip anything that smells
	// like totals, dates, addresses, phones or URLs.
	bestLine := ""
	bestLineScore := 0.0
	for _, ln := range topFull {
		if isSectionMarker(ln) {
			continue
		}
		lo := strings.ToLower(ln)
		if lineHasAny(lo, p.lex.TotalLabels) || lineHasAny(lo, p.lex.TaxLabels) ||
			lineHasAny(lo, p.lex.DateLabels) || lineHasAny(lo, p.lex.SubtotalLabels) {
			continue
		}
		if lineHasAny(lo, addressHints) {
			continue
		}

		alpha, digit, upper := 0, 0, 0
		for _, ch := range ln {
			switch {
			case ch >= 'a' && ch <= 'z':
				alpha++
			case ch >= 'A' && ch <= 'Z':
				alpha++
				upper++
			case ch >= '0' && ch <= '9':
				digit++
			}
		}
		if len(ln) < 3 || len(ln) > 55 {
			continue
		}

		score := 0.0
		if alpha >= 4 {
			score += 0.30
		}
		if digit > alpha {
			score -= 0.20
		}
		if alpha > 0 && float64(upper)/float64(alpha) >= 0.60 {
			score += 0.12
		}
		if words := len(strings.Fields(ln)); words >= 1 && words <= 4 {
			score += 0.10
		}
		score = clamp01(score)
		if score > bestLineScore {
			bestLineScore = score
			bestLine = ln
		}
	}

	if bestLine != "" {
		clean := collapseSpaces(stripNoise(bestLine))
		conf := toConf100(sc.VendorHeuristicFloor + bestLineScore*sc.VendorHeuristicSlope)
		return someField(clean, conf,
			fmt.Sprintf("Fallback vendor guess from early merchant-like line: '%s'.", bestLine), "heuristic_top_line")
	}

	return noField[string]("No reliable vendor signal found.")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
