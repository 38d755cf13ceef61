package scan

import (
	"context"

	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
)

// UseCase is the ingestion gateway: the sole writer of scan events.
type UseCase interface {
	// Ingest validates a candidate, resolves it against the catalog and
	// appends exactly one scan event. Rejections come back as the sentinel
	// errors of this package; anything else is an infrastructure fault.
	Ingest(ctx context.Context, input *dto.IngestInput) (*model.Product, error)

	ListScans(ctx context.Context, filters *dto.ScanFilters) ([]dto.ScanDetail, error)

	// Reset truncates one session's events and returns the count removed.
	// Administrative; nothing in the core depends on it.
	Reset(ctx context.Context, sessionID int64) (int64, error)
}

// EventPublisher receives accepted-scan events for downstream consumers.
// Implemented by pkg/broker.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}
