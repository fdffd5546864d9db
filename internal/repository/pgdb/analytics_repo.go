package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
)

// AnalyticsRepo вычисляет агрегаты по продажам на стороне PostgreSQL.
// Все выборки читающие, выполняются напрямую из пула.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// SalesSummary возвращает сводку по всем продажам; суммы пустой таблицы равны нулю.
func (a *AnalyticsRepo) SalesSummary(ctx context.Context) (*usecase.SalesSummary, error) {
	query := `
		SELECT COUNT(id), COALESCE(SUM(total_price), 0), COALESCE(SUM(quantity), 0)
		FROM sales;
	`

	var summary usecase.SalesSummary
	err := a.pool.QueryRow(ctx, query).
		Scan(&summary.TotalSales, &summary.TotalRevenue, &summary.TotalQuantity)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &summary, nil
}

// TopProducts возвращает до десяти продуктов по убыванию суммарного количества продаж.
func (a *AnalyticsRepo) TopProducts(ctx context.Context) ([]usecase.ProductSales, error) {
	query := `
		SELECT pr.id, pr.name, SUM(s.quantity), SUM(s.total_price)
		FROM products pr
		JOIN sales s ON pr.id = s.product_id
		GROUP BY pr.id, pr.name
		ORDER BY SUM(s.quantity) DESC
		LIMIT 10;
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductSales, 0)
	for rows.Next() {
		var product usecase.ProductSales
		if err := rows.Scan(&product.ID, &product.Name, &product.TotalQuantity, &product.TotalRevenue); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, product)
	}

	return result, rows.Err()
}

// CategorySales возвращает агрегаты по категориям по убыванию выручки.
// Категории без проданных продуктов в выборку не попадают.
func (a *AnalyticsRepo) CategorySales(ctx context.Context) ([]usecase.CategorySales, error) {
	query := `
		SELECT cat.id, cat.name, SUM(s.quantity), SUM(s.total_price)
		FROM categories cat
		JOIN products pr ON cat.id = pr.category_id
		JOIN sales s ON pr.id = s.product_id
		GROUP BY cat.id, cat.name
		ORDER BY SUM(s.total_price) DESC;
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.CategorySales, 0)
	for rows.Next() {
		var category usecase.CategorySales
		if err := rows.Scan(&category.ID, &category.Name, &category.TotalQuantity, &category.TotalRevenue); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, category)
	}

	return result, rows.Err()
}

// MonthlySales возвращает агрегаты по календарным месяцам по возрастанию ключа YYYY-MM.
func (a *AnalyticsRepo) MonthlySales(ctx context.Context) ([]usecase.MonthlySales, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM') AS month, SUM(quantity), SUM(total_price), COUNT(id)
		FROM sales
		GROUP BY month
		ORDER BY month;
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.MonthlySales, 0)
	for rows.Next() {
		var monthly usecase.MonthlySales
		if err := rows.Scan(&monthly.Month, &monthly.TotalQuantity, &monthly.TotalRevenue, &monthly.TotalSales); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, monthly)
	}

	return result, rows.Err()
}
