package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/eximflow/backend/src/models"
)

func exportBatch(records ...models.ShipmentRecord) models.Batch {
	return models.Batch{DataType: models.DataTypeExport, Records: records}
}

func TestReconcileInsertsNewEntityOnce(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewEntityReconciler(registry)

	batch := exportBatch(
		models.ShipmentRecord{IdentifierCode: "0012345", EntityName: "ACME PVT LTD"},
		models.ShipmentRecord{IdentifierCode: "12345", EntityName: "Acme Private Ltd (old spelling)"},
	)

	merged, delta, err := reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)

	// One entity despite two spellings: identifiers sanitize to the same
	// code and the first observed row is the registry source.
	require.Len(t, delta, 1)
	assert.Equal(t, "12345", delta[0].IdentifierCode)
	assert.Equal(t, "ACME PRIVATE LIMITED", delta[0].CanonicalName)
	assert.Equal(t, "ACMEPRIVATELIMITED", delta[0].FormattedName)

	// Both rows are rewritten with the canonical registry names.
	require.Len(t, merged.Records, 2)
	for _, rec := range merged.Records {
		assert.Equal(t, "12345", rec.IdentifierCode)
		assert.Equal(t, "ACME PRIVATE LIMITED", rec.EntityName)
		assert.Equal(t, "ACMEPRIVATELIMITED", rec.EntityFormatted)
	}
}

func TestReconcileSecondRunInsertsNothing(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewEntityReconciler(registry)
	batch := exportBatch(models.ShipmentRecord{IdentifierCode: "0012345", EntityName: "ACME PVT LTD"})

	_, delta, err := reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, delta, 1)

	_, delta, err = reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, delta, "second reconcile against the same registry must insert zero entries")
	assert.Len(t, registry.entries, 1)
}

func TestReconcileKnownEntityRewritesName(t *testing.T) {
	registry := &fakeRegistry{entries: []models.RegistryEntry{
		{IdentifierCode: "777", CanonicalName: "GLOBEX COMPANY", FormattedName: "GLOBEXCOMPANY"},
	}}
	reconciler := NewEntityReconciler(registry)

	batch := exportBatch(models.ShipmentRecord{IdentifierCode: "000777", EntityName: "Globex Co (as typed)"})
	merged, delta, err := reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, delta)
	assert.Equal(t, "GLOBEX COMPANY", merged.Records[0].EntityName)
	assert.Equal(t, "GLOBEXCOMPANY", merged.Records[0].EntityFormatted)
}

func TestReconcileInvalidIdentifierPassesThrough(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewEntityReconciler(registry)

	batch := exportBatch(
		models.ShipmentRecord{IdentifierCode: "nan", EntityName: "No Code Traders Pvt Ltd"},
		models.ShipmentRecord{IdentifierCode: "500", EntityName: "Valid Exports Ltd"},
	)
	merged, delta, err := reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, delta, 1)
	require.Len(t, merged.Records, 2)

	// The invalid row keeps its own name but still gets a derived key.
	assert.Equal(t, "", merged.Records[0].IdentifierCode)
	assert.Equal(t, "No Code Traders Pvt Ltd", merged.Records[0].EntityName)
	assert.Equal(t, "NOCODETRADERSPRIVATELIMITED", merged.Records[0].EntityFormatted)

	assert.Equal(t, "VALID EXPORTS LIMITED", merged.Records[1].EntityName)
}

func TestReconcileNoValidIdentifiersIsNoOp(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewEntityReconciler(registry)

	batch := exportBatch(
		models.ShipmentRecord{IdentifierCode: "", EntityName: "A"},
		models.ShipmentRecord{IdentifierCode: "000", EntityName: "B"},
	)
	merged, delta, err := reconciler.Reconcile(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, delta)
	assert.Len(t, merged.Records, 2)
	assert.Equal(t, 0, registry.appends, "registry must not be touched when nothing is valid")
	assert.Equal(t, "A", merged.Records[0].EntityName)
	assert.Equal(t, "", merged.Records[0].EntityFormatted)
}

func TestReconcileRegistryReadFailureFailsBatch(t *testing.T) {
	registry := &fakeRegistry{readErr: errUnavailable}
	reconciler := NewEntityReconciler(registry)

	batch := exportBatch(models.ShipmentRecord{IdentifierCode: "12345", EntityName: "ACME"})
	_, _, err := reconciler.Reconcile(context.Background(), batch)
	require.ErrorIs(t, err, errUnavailable)
}

func TestReconcilePreservesRowCount(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewEntityReconciler(registry)

	var records []models.ShipmentRecord
	for i := 0; i < 25; i++ {
		records = append(records, models.ShipmentRecord{IdentifierCode: "nan", EntityName: "X"})
	}
	records = append(records, models.ShipmentRecord{IdentifierCode: "9", EntityName: "Y Ltd"})

	merged, _, err := reconciler.Reconcile(context.Background(), exportBatch(records...))
	require.NoError(t, err)
	assert.Len(t, merged.Records, len(records))
}
