// Package export renders extraction records into spreadsheet form for
// handoff to an accountant.
package export

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/receiptcore/internal/record"
)

// Service produces XLSX bytes from extraction records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportRecordsXLSX returns an XLSX workbook (as bytes) holding one row
// per record. Records flagged for review are included; the review state
// gets its own columns so nothing silently disappears from the books.
func (s *Service) ExportRecordsXLSX(recs []record.ExtractionRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Transaction Date",
		"Expense Category",
		"Vendor",
		"Amount",
		"Tax",
		"Purpose/Notes",
		"Receipt/File Path",
		"Needs Review",
		"Flags",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, strOrEmpty(r.Date))
		if r.Category != nil {
			write(2, string(*r.Category))
		} else {
			write(2, "")
		}

		vendor := strOrEmpty(r.Vendor)
		if vendor == "" {
			vendor = "—"
		}
		write(3, vendor)

		if r.Total != nil {
			write(4, r.Total.StringFixed(2))
		} else {
			write(4, "")
		}
		if r.Tax != nil {
			write(5, r.Tax.StringFixed(2))
		} else {
			write(5, "")
		}

		write(6, truncate(r.Explanation, 140))
		write(7, r.Filename)
		write(8, r.NeedsReview)
		write(9, joinFlags(r.Flags))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 22) // category
	_ = f.SetColWidth(sheet, "C", "C", 28) // vendor
	_ = f.SetColWidth(sheet, "D", "E", 14) // amounts
	_ = f.SetColWidth(sheet, "F", "F", 48) // notes
	_ = f.SetColWidth(sheet, "G", "G", 60) // path
	_ = f.SetColWidth(sheet, "I", "I", 40) // flags

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinFlags(flags []string) string {
	out := ""
	for i, fl := range flags {
		if i > 0 {
			out += ", "
		}
		out += fl
	}
	return out
}

// truncate counts runes, not bytes, so a multibyte note never gets split
// mid-character.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
