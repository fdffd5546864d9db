package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("average is revenue over count", func(t *testing.T) {
		repo := &mockAnalyticsRepo{summary: SalesSummary{
			TotalSales:    4,
			TotalRevenue:  decimal.NewFromInt(100),
			TotalQuantity: 10,
		}}
		uc := NewAnalyticsUC(repo, newMockCacheRepo(), noopLogger{})

		summary, err := uc.SalesSummary(ctx)
		require.NoError(t, err)
		assert.True(t, summary.AverageSaleValue.Equal(decimal.NewFromInt(25)),
			"average = %s", summary.AverageSaleValue)
	})

	t.Run("average is zero without sales", func(t *testing.T) {
		repo := &mockAnalyticsRepo{summary: SalesSummary{
			TotalSales:    0,
			TotalRevenue:  decimal.Zero,
			TotalQuantity: 0,
		}}
		uc := NewAnalyticsUC(repo, newMockCacheRepo(), noopLogger{})

		summary, err := uc.SalesSummary(ctx)
		require.NoError(t, err)
		assert.True(t, summary.AverageSaleValue.IsZero())
	})

	t.Run("second call served from cache", func(t *testing.T) {
		repo := &mockAnalyticsRepo{summary: SalesSummary{
			TotalSales:   2,
			TotalRevenue: decimal.NewFromInt(30),
		}}
		uc := NewAnalyticsUC(repo, newMockCacheRepo(), noopLogger{})

		first, err := uc.SalesSummary(ctx)
		require.NoError(t, err)

		second, err := uc.SalesSummary(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.reqCount)
		assert.True(t, first.AverageSaleValue.Equal(second.AverageSaleValue))
	})
}

func TestTopProducts_RevenueSubsetOfTotal(t *testing.T) {
	ctx := context.Background()
	repo := &mockAnalyticsRepo{
		summary: SalesSummary{TotalSales: 3, TotalRevenue: decimal.NewFromInt(60)},
		top: []ProductSales{
			{ID: 1, Name: "Cola", TotalQuantity: 5, TotalRevenue: decimal.NewFromInt(40)},
			{ID: 2, Name: "Chips", TotalQuantity: 2, TotalRevenue: decimal.NewFromInt(15)},
		},
	}
	uc := NewAnalyticsUC(repo, newMockCacheRepo(), noopLogger{})

	summary, err := uc.SalesSummary(ctx)
	require.NoError(t, err)

	top, err := uc.TopProducts(ctx)
	require.NoError(t, err)

	var topRevenue decimal.Decimal
	for _, p := range top {
		topRevenue = topRevenue.Add(p.TotalRevenue)
	}
	assert.True(t, topRevenue.LessThanOrEqual(summary.TotalRevenue))
}

func TestAnalyticsCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	cache := newMockCacheRepo()
	repo := &mockAnalyticsRepo{
		monthly: []MonthlySales{{Month: "2024-01", TotalQuantity: 3, TotalRevenue: decimal.NewFromInt(30), TotalSales: 2}},
	}
	uc := NewAnalyticsUC(repo, cache, noopLogger{})

	_, err := uc.MonthlySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reqCount)

	_, err = uc.MonthlySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reqCount, "cached view must not hit the repository")

	require.NoError(t, cache.InvalidateViews(ctx))

	_, err = uc.MonthlySales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reqCount, "invalidated view must be recomputed")
}
