package parsers

import (
	"io"

	"github.com/username/eximflow/backend/src/models"
)

// ShipmentParser reads an uploaded tabular file into a typed batch for the
// given data_type. Implementations validate the header row against the
// schema: a missing required column is a shape error, reported with the
// column name, and no partial batch is returned.
type ShipmentParser interface {
	Parse(file io.Reader, dataType models.DataType) (models.Batch, error)
}
