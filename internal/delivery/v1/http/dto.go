package http

import (
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/internal/usecase"
)

const dateLayout = "2006-01-02"

// Денежные суммы отдаются наружу JSON-числами, как их присылают клиенты.
// Внутри системы они остаются decimal.

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID int64   `json:"category_id"`
}

type SaleResponse struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int64   `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	Date       string  `json:"date"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type SalesSummaryResponse struct {
	TotalSales       int64   `json:"total_sales"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalQuantity    int64   `json:"total_quantity"`
	AverageSaleValue float64 `json:"average_sale_value"`
}

type ProductSalesResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type CategorySalesResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type MonthlySalesResponse struct {
	Month         string  `json:"month"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalSales    int64   `json:"total_sales"`
}

func toCategoryResponse(category *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
	}
}

func toCategoryResponses(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, *toCategoryResponse(&categories[i]))
	}
	return result
}

func toProductResponse(product *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:         product.ID,
		Name:       product.Name,
		Price:      product.Price.InexactFloat64(),
		CategoryID: product.CategoryID,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}
	return result
}

func toSaleResponse(sale *domain.Sale) *SaleResponse {
	return &SaleResponse{
		ID:         sale.ID,
		ProductID:  sale.ProductID,
		Quantity:   sale.Quantity,
		TotalPrice: sale.TotalPrice.InexactFloat64(),
		Date:       sale.Date.Format(dateLayout),
	}
}

func toSaleResponses(sales []domain.Sale) []SaleResponse {
	result := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		result = append(result, *toSaleResponse(&sales[i]))
	}
	return result
}

func toSalesSummaryResponse(summary *usecase.SalesSummary) *SalesSummaryResponse {
	return &SalesSummaryResponse{
		TotalSales:       summary.TotalSales,
		TotalRevenue:     summary.TotalRevenue.InexactFloat64(),
		TotalQuantity:    summary.TotalQuantity,
		AverageSaleValue: summary.AverageSaleValue.InexactFloat64(),
	}
}

func toProductSalesResponses(products []usecase.ProductSales) []ProductSalesResponse {
	result := make([]ProductSalesResponse, 0, len(products))
	for _, p := range products {
		result = append(result, ProductSalesResponse{
			ID:            p.ID,
			Name:          p.Name,
			TotalQuantity: p.TotalQuantity,
			TotalRevenue:  p.TotalRevenue.InexactFloat64(),
		})
	}
	return result
}

func toCategorySalesResponses(categories []usecase.CategorySales) []CategorySalesResponse {
	result := make([]CategorySalesResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategorySalesResponse{
			ID:            c.ID,
			Name:          c.Name,
			TotalQuantity: c.TotalQuantity,
			TotalRevenue:  c.TotalRevenue.InexactFloat64(),
		})
	}
	return result
}

func toMonthlySalesResponses(months []usecase.MonthlySales) []MonthlySalesResponse {
	result := make([]MonthlySalesResponse, 0, len(months))
	for _, m := range months {
		result = append(result, MonthlySalesResponse{
			Month:         m.Month,
			TotalQuantity: m.TotalQuantity,
			TotalRevenue:  m.TotalRevenue.InexactFloat64(),
			TotalSales:    m.TotalSales,
		})
	}
	return result
}
