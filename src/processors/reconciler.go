package processors

import (
	"context"
	"fmt"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
)

type entityReconciler struct {
	registry RegistrySource
}

func NewEntityReconciler(registry RegistrySource) EntityReconciler {
	return &entityReconciler{registry: registry}
}

// Reconcile canonicalizes the batch's trader identities against the entity
// master. Identifiers are sanitized in place; identifiers not yet in the
// registry are inserted once (first observed row wins) with a cleaned,
// abbreviation-expanded name and a formatted key derived from the raw name;
// then every matching row is rewritten with the registry's canonical names.
// Rows without a usable identifier keep their own name and get a formatted
// key derived from it on the fly.
func (r *entityReconciler) Reconcile(ctx context.Context, batch models.Batch) (models.Batch, []models.RegistryEntry, error) {
	merged := models.Batch{DataType: batch.DataType, Records: make([]models.ShipmentRecord, len(batch.Records))}
	copy(merged.Records, batch.Records)

	// Sanitize every identifier up front; rows whose identifier sanitizes
	// away are excluded from reconciliation but stay in the batch.
	validCount := 0
	for i := range merged.Records {
		merged.Records[i].IdentifierCode = SanitizeIdentifier(merged.Records[i].IdentifierCode)
		if merged.Records[i].IdentifierCode != "" {
			validCount++
		}
	}
	if validCount == 0 {
		logger.L.Info("Reconcile: no usable identifiers in batch, skipping registry sync", "dataType", batch.DataType, "rows", len(batch.Records))
		return merged, nil, nil
	}

	snapshot, err := r.registry.ReadAll(ctx)
	if err != nil {
		// Proceeding on a partial registry would re-insert known
		// entities, so the batch fails instead.
		return models.Batch{}, nil, fmt.Errorf("reconcile: loading entity master: %w", err)
	}

	known := make(map[string]models.RegistryEntry, len(snapshot))
	for _, entry := range snapshot {
		code := SanitizeIdentifier(entry.IdentifierCode)
		if code == "" {
			continue
		}
		if _, exists := known[code]; !exists {
			entry.IdentifierCode = code
			known[code] = entry
		}
	}

	// First observed row per unknown identifier becomes the registry
	// source. The canonical name is cleaned then expanded; the formatted
	// key is derived independently from the raw name.
	var delta []models.RegistryEntry
	seen := make(map[string]bool)
	for _, rec := range merged.Records {
		code := rec.IdentifierCode
		if code == "" || seen[code] {
			continue
		}
		if _, exists := known[code]; exists {
			continue
		}
		seen[code] = true
		delta = append(delta, models.RegistryEntry{
			IdentifierCode: code,
			CanonicalName:  ExpandBusinessTerms(CleanSpecialChars(rec.EntityName)),
			FormattedName:  FormattedName(rec.EntityName),
		})
	}

	if len(delta) > 0 {
		logger.L.Info("Reconcile: inserting new entities into master", "dataType", batch.DataType, "newEntities", len(delta))
		if err := r.registry.Append(ctx, delta); err != nil {
			return models.Batch{}, nil, fmt.Errorf("reconcile: appending to entity master: %w", err)
		}
		for _, entry := range delta {
			known[entry.IdentifierCode] = entry
		}
	}

	// Merge canonical names back into the batch. Unmatched rows keep their
	// own name and derive the formatted key locally.
	for i := range merged.Records {
		rec := &merged.Records[i]
		if entry, ok := known[rec.IdentifierCode]; ok && rec.IdentifierCode != "" {
			rec.EntityName = entry.CanonicalName
			rec.EntityFormatted = entry.FormattedName
		} else {
			rec.EntityFormatted = FormattedName(rec.EntityName)
		}
	}

	return merged, delta, nil
}
