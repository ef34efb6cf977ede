package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRateWorkbook(t *testing.T, rows ...[]interface{}) string {
	t.Helper()
	xl := excelize.NewFile()
	defer xl.Close()
	sheet := xl.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, xl.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	require.NoError(t, xl.SaveAs(path))
	return path
}

var rateWorkbookHeader = []interface{}{"Date", "Category", "ExchangeRateUSD"}

func TestFileRateSourceLoadsSortedTable(t *testing.T) {
	path := writeRateWorkbook(t,
		rateWorkbookHeader,
		[]interface{}{"2024-02-01", "X", "83.1"},
		[]interface{}{"2024-01-01", "X", "80"},
		[]interface{}{"2024-01-15", "Y", "81.5"},
	)
	source := NewFileRateSource(path, time.Minute)

	entries, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "X", entries[0].Category)
	assert.Equal(t, 80.0, entries[0].RateUSD)
	assert.True(t, entries[0].Date.Before(entries[1].Date))
	assert.True(t, entries[1].Date.Before(entries[2].Date))
}

func TestFileRateSourceSkipsMalformedRows(t *testing.T) {
	path := writeRateWorkbook(t,
		rateWorkbookHeader,
		[]interface{}{"not a date", "X", "80"},
		[]interface{}{"2024-01-01", "", "80"},
		[]interface{}{"2024-01-02", "X", "-5"},
		[]interface{}{"2024-01-03", "X", "zero"},
		[]interface{}{"2024-01-04", "X", "82"},
	)
	source := NewFileRateSource(path, time.Minute)

	entries, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 82.0, entries[0].RateUSD)
}

func TestFileRateSourceEmptyTableIsValid(t *testing.T) {
	path := writeRateWorkbook(t, rateWorkbookHeader)
	source := NewFileRateSource(path, time.Minute)

	entries, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileRateSourceMissingColumns(t *testing.T) {
	path := writeRateWorkbook(t,
		[]interface{}{"Date", "Rate"},
		[]interface{}{"2024-01-01", "80"},
	)
	source := NewFileRateSource(path, time.Minute)

	_, err := source.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ExchangeRateUSD")
}

func TestFileRateSourceMissingFile(t *testing.T) {
	source := NewFileRateSource(filepath.Join(t.TempDir(), "absent.xlsx"), time.Minute)

	_, err := source.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after retry")
}

func TestFileRateSourceCachesBetweenReads(t *testing.T) {
	path := writeRateWorkbook(t,
		rateWorkbookHeader,
		[]interface{}{"2024-01-01", "X", "80"},
	)
	source := NewFileRateSource(path, time.Minute)

	first, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The parsed table survives the file disappearing while cached.
	require.NoError(t, os.Remove(path))
	second, err := source.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
