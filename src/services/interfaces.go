package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/eximflow/backend/src/models"
)

// Sentinel errors for the upload wizard stages. Handlers branch on these
// with errors.Is; the wrapped cause names the failing stage.
var (
	ErrParsingFailed   = errors.New("shipment file parsing failed")
	ErrReconcileFailed = errors.New("entity reconciliation failed")
	ErrTransformFailed = errors.New("financial transform failed")
	ErrCommitFailed    = errors.New("database commit failed")
	ErrUploadNotFound  = errors.New("upload not found or expired")
	ErrStageOutOfOrder = errors.New("wizard stage out of order")
)

// ShipmentWriter is the bulk-write collaborator appending valued records to
// the data_type's output table.
type ShipmentWriter interface {
	AppendValued(ctx context.Context, dataType models.DataType, records []models.ValuedRecord) (int, error)
}

// UploadResult summarizes a freshly staged upload.
type UploadResult struct {
	UploadID string                  `json:"upload_id"`
	DataType models.DataType         `json:"data_type"`
	RowCount int                     `json:"row_count"`
	Preview  []models.ShipmentRecord `json:"preview"`
}

// SyncResult summarizes entity reconciliation of a staged upload.
type SyncResult struct {
	UploadID    string                  `json:"upload_id"`
	RowCount    int                     `json:"row_count"`
	NewEntities int                     `json:"new_entities"`
	Preview     []models.ShipmentRecord `json:"preview"`
}

// PreviewResult summarizes the financial transform of a staged upload.
type PreviewResult struct {
	UploadID string                `json:"upload_id"`
	RowCount int                   `json:"row_count"`
	Preview  []models.ValuedRecord `json:"preview"`
}

// CommitResult reports the final bulk write.
type CommitResult struct {
	UploadID    string `json:"upload_id"`
	Table       string `json:"table"`
	RowsWritten int    `json:"rows_written"`
}

// UploadService drives the upload wizard: stage a parsed batch, reconcile
// entities against the registry, run the financial transform, and commit
// the valued records. Stages must run in order per upload; staged state
// expires if abandoned.
type UploadService interface {
	StartUpload(ctx context.Context, file io.Reader, format string, dataType models.DataType) (*UploadResult, error)
	SyncEntities(ctx context.Context, uploadID string) (*SyncResult, error)
	PreviewTransform(ctx context.Context, uploadID string) (*PreviewResult, error)
	Commit(ctx context.Context, uploadID string) (*CommitResult, error)
}
