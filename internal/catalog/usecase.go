package catalog

import (
	"context"

	"github.com/yassirh/stocktake-service/internal/model"
)

// UseCase is the read-only lookup surface over the external product catalog.
// Both lookups return catalog misses as nil / absent entries, not errors.
type UseCase interface {
	GetProduct(ctx context.Context, barcode string) (*model.Product, error)

	// GetProducts resolves a batch of barcodes in one query and returns the
	// hits keyed by barcode. Misses are simply absent from the map.
	GetProducts(ctx context.Context, barcodes []string) (map[string]model.Product, error)
}
