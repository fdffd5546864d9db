package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Price      decimal.Decimal `db:"price"`
	CategoryID int64           `db:"category_id"`
}

// SaleModel представляет запись таблицы sales в PostgreSQL.
type SaleModel struct {
	ID         int64           `db:"id"`
	ProductID  int64           `db:"product_id"`
	Quantity   int64           `db:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Date       time.Time       `db:"date"`
}
