package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/eximflow/backend/src/models"
)

type CSVParser struct{}

func NewCSVParser() *CSVParser { return &CSVParser{} }

// Parse reads a CSV extract with the same column layout as the Excel
// uploads.
func (p *CSVParser) Parse(file io.Reader, dataType models.DataType) (models.Batch, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to read CSV records: %w", err)
	}

	return rowsToBatch(header, records, dataType)
}
