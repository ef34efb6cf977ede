package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/eximflow/backend/src/logger"
	"github.com/username/eximflow/backend/src/models"
	"github.com/username/eximflow/backend/src/parsers"
	"github.com/username/eximflow/backend/src/processors"
)

// uploadState is the staged wizard state for one upload, carried between
// steps in the expiring state cache. Each stage freezes its output here;
// later stages only read frozen snapshots, never partially written ones.
type uploadState struct {
	DataType models.DataType
	Raw      models.Batch
	Synced   *models.Batch
	Inserted int
	Final    []models.ValuedRecord
}

type uploadServiceImpl struct {
	reconciler   processors.EntityReconciler
	transformer  processors.ShipmentTransformer
	shipments    ShipmentWriter
	stateCache   *cache.Cache
	previewLimit int
}

func NewUploadService(
	reconciler processors.EntityReconciler,
	transformer processors.ShipmentTransformer,
	shipments ShipmentWriter,
	stateExpiry time.Duration,
	previewLimit int,
) UploadService {
	return &uploadServiceImpl{
		reconciler:   reconciler,
		transformer:  transformer,
		shipments:    shipments,
		stateCache:   cache.New(stateExpiry, 2*stateExpiry),
		previewLimit: previewLimit,
	}
}

func (s *uploadServiceImpl) StartUpload(ctx context.Context, file io.Reader, format string, dataType models.DataType) (*UploadResult, error) {
	startTime := time.Now()

	parser, err := parsers.GetParser(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	batch, err := parser.Parse(file, dataType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	uploadID := uuid.NewString()
	s.stateCache.Set(uploadID, &uploadState{DataType: dataType, Raw: batch}, cache.DefaultExpiration)

	logger.L.Info("Upload staged", "uploadID", uploadID, "dataType", dataType, "rows", len(batch.Records), "duration", time.Since(startTime))
	return &UploadResult{
		UploadID: uploadID,
		DataType: dataType,
		RowCount: len(batch.Records),
		Preview:  previewRecords(batch.Records, s.previewLimit),
	}, nil
}

func (s *uploadServiceImpl) SyncEntities(ctx context.Context, uploadID string) (*SyncResult, error) {
	state, err := s.getState(uploadID)
	if err != nil {
		return nil, err
	}

	merged, delta, err := s.reconciler.Reconcile(ctx, state.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
	}
	if len(merged.Records) != len(state.Raw.Records) {
		// Reconciliation never filters rows; a mismatch means a bug, not bad data.
		return nil, fmt.Errorf("%w: row count changed during reconciliation (%d -> %d)", ErrReconcileFailed, len(state.Raw.Records), len(merged.Records))
	}

	state.Synced = &merged
	state.Inserted = len(delta)
	state.Final = nil // invalidate any stale transform
	s.stateCache.Set(uploadID, state, cache.DefaultExpiration)

	logger.L.Info("Entity sync complete", "uploadID", uploadID, "rows", len(merged.Records), "newEntities", len(delta))
	return &SyncResult{
		UploadID:    uploadID,
		RowCount:    len(merged.Records),
		NewEntities: len(delta),
		Preview:     previewRecords(merged.Records, s.previewLimit),
	}, nil
}

func (s *uploadServiceImpl) PreviewTransform(ctx context.Context, uploadID string) (*PreviewResult, error) {
	state, err := s.getState(uploadID)
	if err != nil {
		return nil, err
	}
	if state.Synced == nil {
		return nil, fmt.Errorf("%w: entity sync must run before preview", ErrStageOutOfOrder)
	}

	valued, err := s.transformer.Transform(ctx, *state.Synced)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransformFailed, err)
	}
	if len(valued) != len(state.Synced.Records) {
		return nil, fmt.Errorf("%w: row count changed during transform (%d -> %d)", ErrTransformFailed, len(state.Synced.Records), len(valued))
	}

	state.Final = valued
	s.stateCache.Set(uploadID, state, cache.DefaultExpiration)

	preview := valued
	if len(preview) > s.previewLimit {
		preview = preview[:s.previewLimit]
	}
	return &PreviewResult{UploadID: uploadID, RowCount: len(valued), Preview: preview}, nil
}

func (s *uploadServiceImpl) Commit(ctx context.Context, uploadID string) (*CommitResult, error) {
	state, err := s.getState(uploadID)
	if err != nil {
		return nil, err
	}
	if state.Final == nil {
		return nil, fmt.Errorf("%w: transform preview must run before commit", ErrStageOutOfOrder)
	}

	written, err := s.shipments.AppendValued(ctx, state.DataType, state.Final)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	s.stateCache.Delete(uploadID)
	schema := models.SchemaFor(state.DataType)
	logger.L.Info("Upload committed", "uploadID", uploadID, "table", schema.OutputTable, "rows", written)
	return &CommitResult{UploadID: uploadID, Table: schema.OutputTable, RowsWritten: written}, nil
}

func (s *uploadServiceImpl) getState(uploadID string) (*uploadState, error) {
	cached, found := s.stateCache.Get(uploadID)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, uploadID)
	}
	return cached.(*uploadState), nil
}

func previewRecords(records []models.ShipmentRecord, limit int) []models.ShipmentRecord {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
