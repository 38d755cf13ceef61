package session

import (
	"context"

	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/session/dto"
)

type UseCase interface {
	// CreateOrResumeToday reuses the latest session created today, or
	// creates a new one. Two near-simultaneous calls at a day boundary may
	// both create a session; that is accepted.
	CreateOrResumeToday(ctx context.Context) (*dto.SessionResult, error)

	List(ctx context.Context) ([]model.SessionSummary, error)

	// Get returns nil when the session does not exist.
	Get(ctx context.Context, id int64) (*model.InventorySession, error)
}
