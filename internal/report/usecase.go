package report

import (
	"context"
	"errors"

	"github.com/yassirh/stocktake-service/internal/model"
)

// ErrNoActiveSession means no session id was given and no session was
// created today to fall back to.
var ErrNoActiveSession = errors.New("no active inventory session today")

// UseCase computes derived views over the scan ledger and the catalog. It
// owns no persisted state and takes no locks; concurrent scans during a read
// simply land in the next report.
type UseCase interface {
	// Summarize aggregates one session's scans into per-group and per-depot
	// totals. sessionID 0 falls back to today's latest session. An empty
	// session yields a zero-valued report, not an error.
	Summarize(ctx context.Context, sessionID int64) (*model.Report, error)

	// Dashboard computes global scan frequencies across every session.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}
