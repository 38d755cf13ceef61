package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yassirh/stocktake-service/internal/catalog"
	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/pkg/cache"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"go.uber.org/zap"
)

const productCacheTTL = 5 * time.Minute

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func productCacheKey(barcode string) string {
	return fmt.Sprintf("catalog:product:%s", barcode)
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, barcode string) (*model.Product, error) {
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, productCacheKey(barcode)).Result()
		if err == nil {
			var p model.Product
			if err := json.Unmarshal([]byte(val), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := uc.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	uc.setCache(ctx, p)
	return p, nil
}

func (uc *catalogUseCase) GetProducts(ctx context.Context, barcodes []string) (map[string]model.Product, error) {
	products, err := uc.repo.FindManyByBarcodes(ctx, barcodes)
	if err != nil {
		return nil, err
	}

	byBarcode := make(map[string]model.Product, len(products))
	for _, p := range products {
		byBarcode[p.Barcode] = p
	}
	return byBarcode, nil
}

func (uc *catalogUseCase) setCache(ctx context.Context, p *model.Product) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := uc.cache.Client.Set(ctx, productCacheKey(p.Barcode), data, productCacheTTL).Err(); err != nil {
		uc.logger.Warn("failed to cache product", zap.String("barcode", p.Barcode), zap.Error(err))
	}
}
