package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
)

// insertChunkSize bounds how many rows go into one transaction.
const insertChunkSize = 500

// ShipmentStore bulk-appends valued records into the data_type's output
// table. Inserts are chunked into transactions; the column list and order
// come from the schema contract.
type ShipmentStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewShipmentStore(db *sql.DB, timeout time.Duration) *ShipmentStore {
	return &ShipmentStore{db: db, timeout: timeout}
}

func (s *ShipmentStore) AppendValued(ctx context.Context, dataType models.DataType, records []models.ValuedRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	schema := models.SchemaFor(dataType)
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		schema.OutputTable,
		strings.Join(schema.OutputColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(schema.OutputColumns)), ", "),
	)

	written := 0
	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.appendChunk(ctx, insertSQL, records[start:end]); err != nil {
			return written, fmt.Errorf("bulk write to %s (rows %d-%d): %w", schema.OutputTable, start, end-1, err)
		}
		written += end - start
	}

	logger.L.Info("Bulk write complete", "table", schema.OutputTable, "rows", written)
	return written, nil
}

func (s *ShipmentStore) appendChunk(ctx context.Context, insertSQL string, records []models.ValuedRecord) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(opCtx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(opCtx, rec.Values()...); err != nil {
			return fmt.Errorf("inserting row (record %s): %w", rec.RecordNumber, err)
		}
	}
	return tx.Commit()
}
