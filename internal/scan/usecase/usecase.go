package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yassirh/stocktake-service/internal/barcode"
	"github.com/yassirh/stocktake-service/internal/catalog"
	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan"
	"github.com/yassirh/stocktake-service/internal/scan/dto"
	"github.com/yassirh/stocktake-service/internal/session"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type scanUseCase struct {
	repo      scan.Repository
	sessions  session.Repository
	catalog   catalog.UseCase
	publisher scan.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewScanUseCase(
	repo scan.Repository,
	sessions session.Repository,
	cat catalog.UseCase,
	publisher scan.EventPublisher,
	log logger.ZapLogger,
) scan.UseCase {
	return &scanUseCase{
		repo:      repo,
		sessions:  sessions,
		catalog:   cat,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Ingest runs the ordered checks of the ingestion protocol; the first failing
// check wins and nothing is written on any rejection path.
func (uc *scanUseCase) Ingest(ctx context.Context, input *dto.IngestInput) (*model.Product, error) {
	code := barcode.Sanitize(input.Barcode)
	if !barcode.Valid(code) {
		return nil, scan.ErrInvalidBarcode
	}

	sess, err := uc.sessions.FindByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, scan.ErrInvalidSession
	}

	product, err := uc.catalog.GetProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, scan.ErrUnknownProduct
	}

	exists, err := uc.repo.Exists(ctx, sess.ID, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, scan.ErrDuplicateScan
	}

	depot := input.Depot
	if depot == "" {
		depot = model.StringOr(product.Depot, model.UnknownLabel)
	}

	event := &model.ScanEvent{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		Barcode:   code,
		Depot:     depot,
		ScannedAt: uc.now(),
	}

	// The unique constraint closes the race the Exists pre-check leaves
	// open; the repository reports a violation as ErrDuplicateScan.
	if err := uc.repo.Insert(ctx, event); err != nil {
		return nil, err
	}

	uc.logger.Info("scan recorded",
		zap.Int64("session_id", sess.ID),
		zap.String("barcode", code),
		zap.String("depot", depot),
	)

	go uc.publishAccepted(context.Background(), event, product)

	return product, nil
}

type scanAcceptedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   scanEvent `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type scanEvent struct {
	SessionID int64  `json:"session_id"`
	Barcode   string `json:"barcode"`
	Depot     string `json:"depot"`
	Model     string `json:"model"`
	Capacity  string `json:"capacity"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// publishAccepted streams the accepted scan to downstream consumers (export,
// reporting). Best-effort: a broker failure never fails a scan.
func (uc *scanUseCase) publishAccepted(ctx context.Context, event *model.ScanEvent, product *model.Product) {
	if uc.publisher == nil {
		return
	}

	msg := scanAcceptedEvent{
		EventID:   uuid.New().String(),
		EventType: "scan.accepted",
		Payload: scanEvent{
			SessionID: event.SessionID,
			Barcode:   event.Barcode,
			Depot:     event.Depot,
			Model:     model.StringOr(product.Model, model.UnknownLabel),
			Capacity:  model.StringOr(product.Capacity, model.UnknownLabel),
			Color:     model.StringOr(product.Color, model.UnknownLabel),
			Quantity:  product.Quantity,
		},
		Timestamp: event.ScannedAt,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := uc.publisher.Publish(ctx, []byte(event.Barcode), data); err != nil {
		uc.logger.Warn("failed to publish scan event",
			zap.String("barcode", event.Barcode),
			zap.Error(err),
		)
	}
}

func (uc *scanUseCase) ListScans(ctx context.Context, filters *dto.ScanFilters) ([]dto.ScanDetail, error) {
	events, err := uc.repo.ListAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []dto.ScanDetail{}, nil
	}

	products, err := uc.catalog.GetProducts(ctx, distinctBarcodes(events))
	if err != nil {
		return nil, err
	}

	details := make([]dto.ScanDetail, 0, len(events))
	for _, e := range events {
		detail := dto.ScanDetail{
			Barcode:   e.Barcode,
			Brand:     model.UnknownLabel,
			Model:     model.UnknownLabel,
			Capacity:  model.UnknownLabel,
			Color:     model.UnknownLabel,
			Depot:     e.Depot,
			Quantity:  1,
			ScannedAt: e.ScannedAt,
			SessionID: e.SessionID,
		}
		if p, ok := products[e.Barcode]; ok {
			detail.Brand = model.StringOr(p.Brand, model.UnknownLabel)
			detail.Model = model.StringOr(p.Model, model.UnknownLabel)
			detail.Capacity = model.StringOr(p.Capacity, model.UnknownLabel)
			detail.Color = model.StringOr(p.Color, model.UnknownLabel)
			detail.Quantity = p.Quantity
		}
		details = append(details, detail)
	}
	return details, nil
}

func (uc *scanUseCase) Reset(ctx context.Context, sessionID int64) (int64, error) {
	deleted, err := uc.repo.DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("session reset",
		zap.Int64("session_id", sessionID),
		zap.Int64("scans_deleted", deleted),
	)
	return deleted, nil
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
