package session

import (
	"context"
	"time"

	"github.com/yassirh/stocktake-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, createdAt time.Time) (*model.InventorySession, error)
	FindByID(ctx context.Context, id int64) (*model.InventorySession, error)

	// FindLatestSince returns the most recently created session with
	// created_at >= since, or nil when none exists.
	FindLatestSince(ctx context.Context, since time.Time) (*model.InventorySession, error)

	// ListWithScanCounts returns all sessions most-recent-first, each with
	// its scan count.
	ListWithScanCounts(ctx context.Context) ([]model.SessionSummary, error)

	// CountPerMonth buckets session creations by "YYYY-MM" since the given
	// time. Feeds the dashboard.
	CountPerMonth(ctx context.Context, since time.Time) (map[string]int, error)
}
