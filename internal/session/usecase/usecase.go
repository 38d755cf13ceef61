package usecase

import (
	"context"
	"time"

	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/session"
	"github.com/yassirh/stocktake-service/internal/session/dto"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

type sessionUseCase struct {
	repo   session.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewSessionUseCase(repo session.Repository, log logger.ZapLogger) session.UseCase {
	return &sessionUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (uc *sessionUseCase) CreateOrResumeToday(ctx context.Context) (*dto.SessionResult, error) {
	now := uc.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	existing, err := uc.repo.FindLatestSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.SessionResult{
			SessionID: existing.ID,
			CreatedAt: existing.CreatedAt,
			Resumed:   true,
		}, nil
	}

	created, err := uc.repo.Create(ctx, now)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("created inventory session", zap.Int64("session_id", created.ID))

	return &dto.SessionResult{
		SessionID: created.ID,
		CreatedAt: created.CreatedAt,
		Resumed:   false,
	}, nil
}

func (uc *sessionUseCase) List(ctx context.Context) ([]model.SessionSummary, error) {
	return uc.repo.ListWithScanCounts(ctx)
}

func (uc *sessionUseCase) Get(ctx context.Context, id int64) (*model.InventorySession, error) {
	return uc.repo.FindByID(ctx, id)
}
