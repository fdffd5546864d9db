package usecase

import (
	"context"

	"github.com/smartmart-io/go-backend/internal/domain"
)

// CatalogUC — CRUD-операции над категориями, продуктами и продажами.
type CatalogUC interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, req *CategoryReq) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *CategoryReq) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter *ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListSales(ctx context.Context, filter *SaleFilter) ([]domain.Sale, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
}

// ImportUC — пакетный импорт сущностей из CSV-файлов.
type ImportUC interface {
	ImportCategories(ctx context.Context, req *ImportFileReq) (*ImportStats, error)
	ImportProducts(ctx context.Context, req *ImportFileReq) (*ImportStats, error)
	ImportSales(ctx context.Context, req *ImportFileReq) (*ImportStats, error)
}

// AnalyticsUC — агрегированные выборки по текущему состоянию хранилища.
type AnalyticsUC interface {
	SalesSummary(ctx context.Context) (*SalesSummary, error)
	TopProducts(ctx context.Context) ([]ProductSales, error)
	CategorySales(ctx context.Context) ([]CategorySales, error)
	MonthlySales(ctx context.Context) ([]MonthlySales, error)
}
