package catalog

import (
	"context"

	"github.com/yassirh/stocktake-service/internal/model"
)

type Repository interface {
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindManyByBarcodes(ctx context.Context, barcodes []string) ([]model.Product, error)
}
