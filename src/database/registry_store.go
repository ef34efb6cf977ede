package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
)

// RegistryStore persists the entity master table. It satisfies the
// processors.RegistrySource contract: reads return the full snapshot,
// appends are append-only and conflict-free — a duplicate identifier insert
// is a silent no-op, so two concurrent reconciliations racing on the same
// identifier leave exactly one row behind.
//
// Every operation gets a bounded per-attempt timeout and one retry for
// transient unavailability.
type RegistryStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewRegistryStore(db *sql.DB, timeout time.Duration) *RegistryStore {
	return &RegistryStore{db: db, timeout: timeout}
}

func (s *RegistryStore) ReadAll(ctx context.Context) ([]models.RegistryEntry, error) {
	var entries []models.RegistryEntry
	err := withSingleRetry(ctx, "entity master read", func(opCtx context.Context) error {
		rows, err := s.db.QueryContext(opCtx, `SELECT iec_code, entity_name, formatted_name FROM entity_master`)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var entry models.RegistryEntry
			if err := rows.Scan(&entry.IdentifierCode, &entry.CanonicalName, &entry.FormattedName); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	}, s.timeout)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *RegistryStore) Append(ctx context.Context, entries []models.RegistryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Dedupe by identifier before touching the database; the first
	// occurrence wins, matching batch order.
	deduped := entries[:0:0]
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IdentifierCode == "" || seen[entry.IdentifierCode] {
			continue
		}
		seen[entry.IdentifierCode] = true
		deduped = append(deduped, entry)
	}

	return withSingleRetry(ctx, "entity master append", func(opCtx context.Context) error {
		tx, err := s.db.BeginTx(opCtx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(opCtx, `
			INSERT INTO entity_master (iec_code, entity_name, formatted_name)
			VALUES (?, ?, ?)
			ON CONFLICT(iec_code) DO NOTHING
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, entry := range deduped {
			if _, err := stmt.ExecContext(opCtx, entry.IdentifierCode, entry.CanonicalName, entry.FormattedName); err != nil {
				return fmt.Errorf("inserting identifier %s: %w", entry.IdentifierCode, err)
			}
		}
		return tx.Commit()
	}, s.timeout)
}

// withSingleRetry runs op with a per-attempt timeout, retrying once on
// failure before surfacing the error.
func withSingleRetry(ctx context.Context, desc string, op func(context.Context) error, timeout time.Duration) error {
	run := func() error {
		opCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return op(opCtx)
	}

	err := run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", desc, err)
	}
	logger.L.Warn("Database operation failed, retrying once", "op", desc, "error", err)
	retryErr := run()
	if retryErr == nil {
		return nil
	}
	return fmt.Errorf("%s failed after retry: %w", desc, retryErr)
}
