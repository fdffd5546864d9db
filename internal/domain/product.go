package domain

import "github.com/shopspring/decimal"

// Product описывает продукт
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
}

func NewProduct(name string, price decimal.Decimal, categoryID int64) *Product {
	return &Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
}
