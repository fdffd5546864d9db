package usecase

import (
	"context"

	"github.com/smartmart-io/go-backend/internal/domain"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	InsertBatch(ctx context.Context, categories []domain.Category) error
}

type ProductRepository interface {
	List(ctx context.Context, filter *ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	InsertBatch(ctx context.Context, products []domain.Product) error
}

type SaleRepository interface {
	List(ctx context.Context, filter *SaleFilter) ([]domain.Sale, error)
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	InsertBatch(ctx context.Context, sales []domain.Sale) error
}

type AnalyticsRepository interface {
	SalesSummary(ctx context.Context) (*SalesSummary, error)
	TopProducts(ctx context.Context) ([]ProductSales, error)
	CategorySales(ctx context.Context) ([]CategorySales, error)
	MonthlySales(ctx context.Context) ([]MonthlySales, error)
}

// CacheRepository кэширует сериализованные аналитические выборки.
// Промах кэша не является ошибкой: GetView возвращает ok=false.
type CacheRepository interface {
	GetView(ctx context.Context, view string, dest any) (bool, error)
	SetView(ctx context.Context, view string, value any) error
	InvalidateViews(ctx context.Context) error
}
