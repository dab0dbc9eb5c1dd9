package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/record"
)

func sampleRecords(t *testing.T) []record.ExtractionRecord {
	t.Helper()
	total := decimal.RequireFromString("45.12")
	tax := decimal.RequireFromString("3.12")
	vendor := "AutoZone"
	date := "2026-01-15"
	cat := constants.CarTruck
	return []record.ExtractionRecord{
		{
			ID:       "rec-1",
			Filename: "autozone.jpg",
			Vendor:   &vendor,
			Date:     &date,
			Total:    &total,
			Tax:      &tax,
			Category: &cat,
			Flags:    []string{},
		},
		{
			ID:          "rec-2",
			Filename:    "blurry.pdf",
			Flags:       []string{"OCR_FAILED", "MISSING_TOTAL"},
			NeedsReview: true,
		},
	}
}

func TestExportRecordsXLSX(t *testing.T) {
	s := NewService(nil)

	data, err := s.ExportRecordsXLSX(sampleRecords(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Receipts")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two records")

	assert.Equal(t, "Transaction Date", rows[0][0])
	assert.Equal(t, "Flags", rows[0][8])

	assert.Equal(t, "2026-01-15", rows[1][0])
	assert.Equal(t, "Car & Truck", rows[1][1])
	assert.Equal(t, "AutoZone", rows[1][2])
	assert.Equal(t, "45.12", rows[1][3])
	assert.Equal(t, "3.12", rows[1][4])

	assert.Equal(t, "—", rows[2][2], "missing vendor renders as a dash")
	assert.Contains(t, rows[2][8], "OCR_FAILED")
}

func TestExportEmptyRecordList(t *testing.T) {
	s := NewService(nil)

	data, err := s.ExportRecordsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Receipts")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "a", truncate("abc", 1))
	// multibyte notes must cut on rune boundaries
	assert.Equal(t, "éé…", truncate("ééééé", 3))
	assert.Equal(t, "ééé", truncate("ééé", 3))
	assert.Equal(t, "é", truncate("éé", 1))
}
