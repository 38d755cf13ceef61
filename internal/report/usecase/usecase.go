package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/yassirh/stocktake-service/internal/catalog"
	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/report"
	"github.com/yassirh/stocktake-service/internal/scan"
	"github.com/yassirh/stocktake-service/internal/session"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	depotA = "A"
	depotB = "B"
)

type reportUseCase struct {
	scans    scan.Repository
	sessions session.Repository
	catalog  catalog.UseCase
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewReportUseCase(
	scans scan.Repository,
	sessions session.Repository,
	cat catalog.UseCase,
	log logger.ZapLogger,
) report.UseCase {
	return &reportUseCase{
		scans:    scans,
		sessions: sessions,
		catalog:  cat,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *reportUseCase) Summarize(ctx context.Context, sessionID int64) (*model.Report, error) {
	sessionID, err := uc.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	events, err := uc.scans.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		SessionID:   sessionID,
		Groups:      []model.AggregateGroup{},
		GeneratedAt: uc.now(),
	}
	if len(events) == 0 {
		return rep, nil
	}

	// One batch catalog round-trip; cost is bound by distinct barcodes, not
	// by scan volume.
	products, err := uc.catalog.GetProducts(ctx, distinctBarcodes(events))
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		model    string
		capacity string
		color    string
		depot    string
	}
	groups := map[groupKey]*model.AggregateGroup{}

	for _, e := range events {
		key := groupKey{
			model:    model.UnknownLabel,
			capacity: model.UnknownLabel,
			color:    model.UnknownLabel,
			// The depot recorded at scan time is authoritative; the
			// catalog depot is only the default applied at ingestion.
			depot: e.Depot,
		}
		quantity := 1
		if p, ok := products[e.Barcode]; ok {
			key.model = model.StringOr(p.Model, model.UnknownLabel)
			key.capacity = model.StringOr(p.Capacity, model.UnknownLabel)
			key.color = model.StringOr(p.Color, model.UnknownLabel)
			quantity = p.Quantity
		}

		g, ok := groups[key]
		if !ok {
			g = &model.AggregateGroup{
				Model:    key.model,
				Capacity: key.capacity,
				Color:    key.color,
				Depot:    key.depot,
			}
			groups[key] = g
		}
		g.DeviceCount++
		g.QuantityTotal += quantity
	}

	for _, g := range groups {
		rep.Groups = append(rep.Groups, *g)
		rep.DeviceCount += g.DeviceCount
		// Only the two named depots feed the grand total; any other label
		// ("Vente", ...) is listed per-group but counted in neither.
		switch g.Depot {
		case depotA:
			rep.TotalDepotA += g.QuantityTotal
		case depotB:
			rep.TotalDepotB += g.QuantityTotal
		}
	}
	rep.GrandTotal = rep.TotalDepotA + rep.TotalDepotB

	// Stable order so back-to-back reports over the same ledger compare equal.
	sort.Slice(rep.Groups, func(i, j int) bool {
		a, b := rep.Groups[i], rep.Groups[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		return a.Depot < b.Depot
	})

	return rep, nil
}

func (uc *reportUseCase) resolveSession(ctx context.Context, sessionID int64) (int64, error) {
	if sessionID != 0 {
		sess, err := uc.sessions.FindByID(ctx, sessionID)
		if err != nil {
			return 0, err
		}
		if sess == nil {
			return 0, report.ErrNoActiveSession
		}
		return sess.ID, nil
	}

	now := uc.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sess, err := uc.sessions.FindLatestSince(ctx, startOfDay)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, report.ErrNoActiveSession
	}
	uc.logger.Debug("summary fell back to today's session", zap.Int64("session_id", sess.ID))
	return sess.ID, nil
}

func (uc *reportUseCase) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	events, err := uc.scans.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	perMonth, err := uc.sessions.CountPerMonth(ctx, uc.now().AddDate(0, -12, 0))
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{
		SessionsPerMonth: perMonth,
		ScansByModel:     map[string]int{},
		ScansByColor:     map[string]int{},
		ScansByDepot:     map[string]int{},
		TotalScans:       len(events),
	}
	if len(events) == 0 {
		return stats, nil
	}

	products, err := uc.catalog.GetProducts(ctx, distinctBarcodes(events))
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		modelName, color := model.UnknownLabel, model.UnknownLabel
		if p, ok := products[e.Barcode]; ok {
			modelName = model.StringOr(p.Model, model.UnknownLabel)
			color = model.StringOr(p.Color, model.UnknownLabel)
		}
		stats.ScansByModel[modelName]++
		stats.ScansByColor[color]++
		stats.ScansByDepot[e.Depot]++
	}

	stats.MostFrequentModel, stats.LeastFrequentModel = extremes(stats.ScansByModel)
	stats.MostFrequentColor, _ = extremes(stats.ScansByColor)
	stats.MostFrequentDepot, _ = extremes(stats.ScansByDepot)

	return stats, nil
}

// extremes returns the most and least frequent keys, with lexicographic
// tie-breaking so the result is stable.
func extremes(counts map[string]int) (most, least string) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if most == "" || counts[k] > counts[most] {
			most = k
		}
		if least == "" || counts[k] < counts[least] {
			least = k
		}
	}
	return most, least
}

func distinctBarcodes(events []model.ScanEvent) []string {
	seen := make(map[string]struct{}, len(events))
	barcodes := make([]string, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.Barcode]; ok {
			continue
		}
		seen[e.Barcode] = struct{}{}
		barcodes = append(barcodes, e.Barcode)
	}
	return barcodes
}
