package parsers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/username/eximflow/backend/src/models"
)

type ExcelParser struct{}

func NewExcelParser() *ExcelParser { return &ExcelParser{} }

// Parse reads the first sheet of an xlsx workbook into a batch. The first
// row is the header; trailing cells excelize omits on short rows come back
// as "" through the header index.
func (p *ExcelParser) Parse(file io.Reader, dataType models.DataType) (models.Batch, error) {
	xl, err := excelize.OpenReader(file)
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	if sheetName == "" {
		return models.Batch{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return models.Batch{}, fmt.Errorf("workbook must have a header row and at least one data row")
	}

	return rowsToBatch(rows[0], rows[1:], dataType)
}
