package scan

import (
	"context"

	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
)

type Repository interface {
	// Insert appends one scan event. A (session_id, barcode) unique
	// violation is returned as ErrDuplicateScan.
	Insert(ctx context.Context, event *model.ScanEvent) error

	Exists(ctx context.Context, sessionID int64, barcode string) (bool, error)
	ListBySession(ctx context.Context, sessionID int64) ([]model.ScanEvent, error)
	ListAll(ctx context.Context, filters *dto.ScanFilters) ([]model.ScanEvent, error)

	// DeleteBySession truncates a session's events and returns the number of
	// rows removed.
	DeleteBySession(ctx context.Context, sessionID int64) (int64, error)
}
