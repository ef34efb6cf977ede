package parsers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/eximflow/backend/src/models"
)

var exportHeader = []string{
	"Mode", "SB Number", "SB Date", "HS Code", "Product Description",
	"IEC", "Exporter Name", "Quantity", "Unit", "Unit Rate INR", "Category",
	"Exporter City", "Exporter State", "Consignee Name",
	"Port of Destination", "Country of Destination",
}

var exportRow = []string{
	"Sea", "SB-1001", "2024-01-10", "2815", "Caustic Soda Flakes",
	"0012345", "ACME PVT LTD", "2", "MTS", "500", "X",
	"Mumbai", "Maharashtra", "Overseas Chem Co", "Rotterdam", "Netherlands",
}

func csvFrom(rows ...[]string) *strings.Reader {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return strings.NewReader(b.String())
}

func TestCSVParserParsesExportExtract(t *testing.T) {
	parser := NewCSVParser()

	batch, err := parser.Parse(csvFrom(exportHeader, exportRow), models.DataTypeExport)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, models.DataTypeExport, batch.DataType)

	rec := batch.Records[0]
	assert.Equal(t, "Sea", rec.Mode)
	assert.Equal(t, "SB-1001", rec.RecordNumber)
	assert.Equal(t, "2024-01-10", rec.RecordDate)
	assert.Equal(t, "2815", rec.HSCode)
	assert.Equal(t, "Caustic Soda Flakes", rec.ProductDescription)
	assert.Equal(t, "0012345", rec.IdentifierCode)
	assert.Equal(t, "ACME PVT LTD", rec.EntityName)
	assert.Equal(t, "2", rec.Quantity)
	assert.Equal(t, "MTS", rec.Unit)
	assert.Equal(t, "500", rec.UnitRateLocal)
	assert.Equal(t, "X", rec.Category)
	assert.Equal(t, "Overseas Chem Co", rec.CounterpartyName)
	assert.Equal(t, "Rotterdam", rec.Port)
}

func TestCSVParserImportSchema(t *testing.T) {
	header := []string{
		"Shipment Mode", "BE Number", "BE Date", "HS Code", "Product Description",
		"ICE", "Importer Name", "QUANTITY", "Unit", "Unit Rate INR", "Category",
		"Importer City", "Importer State", "Exporter Name", "Port of Origin", "Port of Country",
	}
	row := []string{
		"Air", "BE-77", "15-02-2024", "2901", "Toluene",
		"000777", "Globex Co", "10", "KGS", "120", "Y",
		"Chennai", "Tamil Nadu", "Foreign Supplier Ltd", "Singapore", "Singapore",
	}

	batch, err := NewCSVParser().Parse(csvFrom(header, row), models.DataTypeImport)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)

	rec := batch.Records[0]
	assert.Equal(t, "Air", rec.Mode)
	assert.Equal(t, "BE-77", rec.RecordNumber)
	assert.Equal(t, "000777", rec.IdentifierCode)
	assert.Equal(t, "Globex Co", rec.EntityName)
	// The alternate QUANTITY spelling resolves to the same field.
	assert.Equal(t, "10", rec.Quantity)
	// Both entity-name renames apply: the counterparty column on imports is
	// the foreign exporter.
	assert.Equal(t, "Foreign Supplier Ltd", rec.CounterpartyName)
}

func TestCSVParserMissingRequiredHeaders(t *testing.T) {
	header := []string{"Mode", "SB Number", "SB Date", "IEC", "Exporter Name"}
	row := []string{"Sea", "SB-1", "2024-01-01", "123", "ACME"}

	_, err := NewCSVParser().Parse(csvFrom(header, row), models.DataTypeExport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HS Code")
	assert.Contains(t, err.Error(), "Unit Rate INR")
	assert.Contains(t, err.Error(), "Category")
}

func TestCSVParserSkipsFullyEmptyRows(t *testing.T) {
	blank := make([]string, len(exportHeader))
	batch, err := NewCSVParser().Parse(csvFrom(exportHeader, blank, exportRow, blank), models.DataTypeExport)
	require.NoError(t, err)
	assert.Len(t, batch.Records, 1)
}

func TestCSVParserNoDataRows(t *testing.T) {
	_, err := NewCSVParser().Parse(csvFrom(exportHeader), models.DataTypeExport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestCSVParserShortRowsReadAsEmptyCells(t *testing.T) {
	short := []string{"Sea", "SB-2", "2024-03-01", "3801", "Graphite", "555", "Trader Inc"}
	batch, err := NewCSVParser().Parse(csvFrom(exportHeader, short), models.DataTypeExport)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "", batch.Records[0].Quantity)
	assert.Equal(t, "", batch.Records[0].CounterpartyName)
}

func buildWorkbook(t *testing.T, rows ...[]string) *bytes.Reader {
	t.Helper()
	xl := excelize.NewFile()
	defer xl.Close()
	sheet := xl.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, xl.SetSheetRow(sheet, cell, &row))
	}
	buf, err := xl.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestExcelParserParsesWorkbook(t *testing.T) {
	file := buildWorkbook(t, exportHeader, exportRow)

	batch, err := NewExcelParser().Parse(file, models.DataTypeExport)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)

	rec := batch.Records[0]
	assert.Equal(t, "0012345", rec.IdentifierCode)
	assert.Equal(t, "ACME PVT LTD", rec.EntityName)
	assert.Equal(t, "500", rec.UnitRateLocal)
}

func TestExcelParserHeaderOnlyWorkbook(t *testing.T) {
	_, err := NewExcelParser().Parse(buildWorkbook(t, exportHeader), models.DataTypeExport)
	require.Error(t, err)
}

func TestExcelParserRejectsNonWorkbook(t *testing.T) {
	_, err := NewExcelParser().Parse(strings.NewReader("not a zip archive"), models.DataTypeExport)
	require.Error(t, err)
}

func TestGetParser(t *testing.T) {
	p, err := GetParser("xlsx")
	require.NoError(t, err)
	assert.IsType(t, &ExcelParser{}, p)

	p, err = GetParser("csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVParser{}, p)

	_, err = GetParser("pdf")
	require.Error(t, err)
}
