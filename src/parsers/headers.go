package parsers

import (
	"fmt"
	"strings"

	"github.com/username/eximflow/backend/src/models"
	"github.com/username/eximflow/backend/src/security/validation"
)

// headerRenames are applied to the header row as soon as a file is read,
// before any schema lookup, so both spellings of the entity name column
// resolve to one header.
var headerRenames = map[string]string{
	"Exporter Name": "Exporter_Name",
	"Importer Name": "Importer_Name",
}

// headerIndex maps normalized header names to their column position.
type headerIndex map[string]int

func buildHeaderIndex(headerRow []string) headerIndex {
	idx := make(headerIndex, len(headerRow))
	for i, h := range headerRow {
		h = strings.TrimSpace(validation.StripUnprintable(h))
		if renamed, ok := headerRenames[h]; ok {
			h = renamed
		}
		if h == "" {
			continue
		}
		if _, exists := idx[h]; !exists {
			idx[h] = i
		}
	}
	return idx
}

func (idx headerIndex) cell(row []string, header string) string {
	i, ok := idx[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(validation.StripUnprintable(row[i]))
}

// quantityCell handles the two spellings the extracts use for the quantity
// column. Quantity and Unit are optional; a file without them produces
// zero-kilogram rows rather than failing.
func (idx headerIndex) quantityCell(row []string) string {
	if _, ok := idx[models.HeaderQuantity]; ok {
		return idx.cell(row, models.HeaderQuantity)
	}
	return idx.cell(row, models.HeaderQuantityAlt)
}

// requireHeaders is the shape check: every column the pipeline computes
// from must exist, and the batch fails with the offending column named.
func (idx headerIndex) requireHeaders(headers ...string) error {
	var missing []string
	for _, h := range headers {
		if _, ok := idx[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required column(s) missing from upload: %s", strings.Join(missing, ", "))
	}
	return nil
}

// rowsToBatch converts header-mapped raw rows into a typed batch. Rows with
// every cell empty are skipped; everything else passes through untouched as
// raw strings for the pipeline to coerce.
func rowsToBatch(headerRow []string, dataRows [][]string, dataType models.DataType) (models.Batch, error) {
	schema := models.SchemaFor(dataType)
	idx := buildHeaderIndex(headerRow)

	required := []string{
		schema.DateHeader, schema.NumberHeader, schema.IdentifierHeader, schema.NameHeader,
		models.HeaderHSCode, models.HeaderProduct, models.HeaderUnitRate, models.HeaderCategory,
	}
	if err := idx.requireHeaders(required...); err != nil {
		return models.Batch{}, err
	}

	batch := models.Batch{DataType: dataType}
	for _, row := range dataRows {
		if rowEmpty(row) {
			continue
		}
		batch.Records = append(batch.Records, models.ShipmentRecord{
			Mode:               idx.cell(row, schema.ModeHeader),
			RecordNumber:       idx.cell(row, schema.NumberHeader),
			RecordDate:         idx.cell(row, schema.DateHeader),
			HSCode:             idx.cell(row, models.HeaderHSCode),
			ProductDescription: idx.cell(row, models.HeaderProduct),
			IdentifierCode:     idx.cell(row, schema.IdentifierHeader),
			EntityName:         idx.cell(row, schema.NameHeader),
			Quantity:           idx.quantityCell(row),
			Unit:               idx.cell(row, models.HeaderUnit),
			UnitRateLocal:      idx.cell(row, models.HeaderUnitRate),
			Category:           idx.cell(row, models.HeaderCategory),
			City:               idx.cell(row, schema.CityHeader),
			State:              idx.cell(row, schema.StateHeader),
			CounterpartyName:   idx.cell(row, schema.CounterpartyHeader),
			Port:               idx.cell(row, schema.PortHeader),
			PortCountry:        idx.cell(row, schema.PortCountryHeader),
		})
	}

	if len(batch.Records) == 0 {
		return models.Batch{}, fmt.Errorf("upload contains no data rows")
	}
	return batch, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
