package processors

import (
	"context"

	"github.com/username/eximflow/backend/src/models"
)

// RegistrySource is the entity master collaborator. ReadAll returns the
// full registry snapshot; Append persists new entries and must be safe to
// call concurrently for the same identifier: at most one entry per
// identifier_code ever persists, duplicate inserts are silently dropped.
type RegistrySource interface {
	ReadAll(ctx context.Context) ([]models.RegistryEntry, error)
	Append(ctx context.Context, entries []models.RegistryEntry) error
}

// RateSource is the exchange-rate table collaborator. Entries come back
// sorted by date ascending. An empty table is valid (every lookup falls
// back to the neutral rate); an unreachable source is an error.
type RateSource interface {
	ReadAll(ctx context.Context) ([]models.ExchangeRateEntry, error)
}

// EntityReconciler deduplicates and canonicalizes trader identities against
// the registry, returning the merged batch alongside the entries actually
// inserted. The merged batch always has the same row count as the input.
type EntityReconciler interface {
	Reconcile(ctx context.Context, batch models.Batch) (models.Batch, []models.RegistryEntry, error)
}

// ShipmentTransformer applies the financial normalization pipeline to a
// reconciled batch, producing one ValuedRecord per input row.
type ShipmentTransformer interface {
	Transform(ctx context.Context, batch models.Batch) ([]models.ValuedRecord, error)
}
