package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// Имена кэшируемых аналитических выборок.
const (
	ViewSalesSummary  = "sales"
	ViewTopProducts   = "products"
	ViewCategorySales = "categories"
	ViewMonthlySales  = "monthly"
)

// AnalyticsUseCase отдаёт агрегированные выборки, прозрачно кэшируя их.
// Ошибки кэша не фатальны: выборка уходит в базу.
type AnalyticsUseCase struct {
	analyticsRepo AnalyticsRepository
	cacheRepo     CacheRepository
	logger        logger.Logger
}

func NewAnalyticsUC(analyticsRepo AnalyticsRepository, cacheRepo CacheRepository, logger logger.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		analyticsRepo: analyticsRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

// SalesSummary возвращает сводку по всем продажам. Средний чек определён как
// ноль при отсутствии продаж.
func (a *AnalyticsUseCase) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	const op = "AnalyticsUseCase.SalesSummary"

	var cached SalesSummary
	if ok := a.readCache(ctx, op, ViewSalesSummary, &cached); ok {
		return &cached, nil
	}

	summary, err := a.analyticsRepo.SalesSummary(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if summary.TotalSales > 0 {
		summary.AverageSaleValue = summary.TotalRevenue.Div(decimal.NewFromInt(summary.TotalSales))
	} else {
		summary.AverageSaleValue = decimal.Zero
	}

	a.writeCache(ctx, op, ViewSalesSummary, summary)
	return summary, nil
}

// TopProducts возвращает до десяти продуктов с наибольшим суммарным количеством продаж.
func (a *AnalyticsUseCase) TopProducts(ctx context.Context) ([]ProductSales, error) {
	const op = "AnalyticsUseCase.TopProducts"

	var cached []ProductSales
	if ok := a.readCache(ctx, op, ViewTopProducts, &cached); ok {
		return cached, nil
	}

	products, err := a.analyticsRepo.TopProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.writeCache(ctx, op, ViewTopProducts, products)
	return products, nil
}

// CategorySales возвращает агрегаты продаж по категориям, по убыванию выручки.
func (a *AnalyticsUseCase) CategorySales(ctx context.Context) ([]CategorySales, error) {
	const op = "AnalyticsUseCase.CategorySales"

	var cached []CategorySales
	if ok := a.readCache(ctx, op, ViewCategorySales, &cached); ok {
		return cached, nil
	}

	categories, err := a.analyticsRepo.CategorySales(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.writeCache(ctx, op, ViewCategorySales, categories)
	return categories, nil
}

// MonthlySales возвращает агрегаты продаж по месяцам, по возрастанию ключа месяца.
func (a *AnalyticsUseCase) MonthlySales(ctx context.Context) ([]MonthlySales, error) {
	const op = "AnalyticsUseCase.MonthlySales"

	var cached []MonthlySales
	if ok := a.readCache(ctx, op, ViewMonthlySales, &cached); ok {
		return cached, nil
	}

	monthly, err := a.analyticsRepo.MonthlySales(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.writeCache(ctx, op, ViewMonthlySales, monthly)
	return monthly, nil
}

func (a *AnalyticsUseCase) readCache(ctx context.Context, op, view string, dest any) bool {
	ok, err := a.cacheRepo.GetView(ctx, view, dest)
	if err != nil {
		a.logger.Warnf("Analytics cache read failed: %v", e.Wrap(op, err))
		return false
	}
	return ok
}

func (a *AnalyticsUseCase) writeCache(ctx context.Context, op, view string, value any) {
	if err := a.cacheRepo.SetView(ctx, view, value); err != nil {
		a.logger.Warnf("Analytics cache write failed: %v", e.Wrap(op, err))
	}
}
