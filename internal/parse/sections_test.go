package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSectionsNoMarkers(t *testing.T) {
	lines := []string{"ACME STORE", "TOTAL 12.34"}
	sections := SplitSections(lines)

	assert.Equal(t, lines, sections[SectionFull])
	assert.NotContains(t, sections, SectionVendor)
	assert.NotContains(t, sections, SectionTotals)
}

func TestSplitSectionsMarkers(t *testing.T) {
	lines := []string{
		"ACME STORE",
		"TOTAL 12.34",
		"----- VENDOR PASS (TOP STRIP) -----",
		"ACME STORE INC",
		"----- TOTALS PASS (RIGHT STRIP MIXED) -----",
		"TOTAL 12.34",
		"TAX 0.99",
		"----- NUMERIC PASS (FULL) -----",
		"12.34",
		"----- SOFT TEXT PASS (FULL) -----",
		"acme store",
	}
	sections := SplitSections(lines)

	assert.Equal(t, []string{"ACME STORE INC"}, sections[SectionVendor])
	assert.Equal(t, []string{"TOTAL 12.34", "TAX 0.99"}, sections[SectionTotals])
	assert.Equal(t, []string{"12.34"}, sections[SectionNumeric])
	assert.Equal(t, []string{"acme store"}, sections[SectionSoftText])
	// full is the superset of every content line, markers excluded
	assert.Equal(t, []string{
		"ACME STORE",
		"TOTAL 12.34",
		"ACME STORE INC",
		"TOTAL 12.34",
		"TAX 0.99",
		"12.34",
		"acme store",
	}, sections[SectionFull])
}

func TestSplitSectionsUnknownMarker(t *testing.T) {
	lines := []string{
		"----- MYSTERY PASS -----",
		"whatever",
	}
	sections := SplitSections(lines)
	assert.Equal(t, []string{"whatever"}, sections[SectionOther])
}

func TestSplitSectionsPageBreakIsNotAMarker(t *testing.T) {
	// the page-break joiner has no "PASS" and must not switch sections
	lines := []string{
		"----- TOTALS PASS (RIGHT STRIP MIXED) -----",
		"TOTAL 9.99",
		"----- PAGE BREAK -----",
		"MORE TOTALS 1.00",
	}
	sections := SplitSections(lines)
	assert.Equal(t, []string{"TOTAL 9.99", "----- PAGE BREAK -----", "MORE TOTALS 1.00"}, sections[SectionTotals])
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("  a  \n\n\nb\n"))
	assert.Nil(t, SplitLines("   \n  "))
}
