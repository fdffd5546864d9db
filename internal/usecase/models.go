package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// CATALOG

// CategoryReq — запрос на создание или переименование категории.
type CategoryReq struct {
	Name string
}

// CreateProductReq — запрос на ручное создание продукта.
type CreateProductReq struct {
	Name       string
	Price      decimal.Decimal
	CategoryID int64
}

// UpdateProductReq — частичное обновление продукта.
// nil-поле означает «не менять».
type UpdateProductReq struct {
	Name       *string
	Price      *decimal.Decimal
	CategoryID *int64
}

// ProductFilter — составной фильтр листинга продуктов, условия объединяются по AND.
type ProductFilter struct {
	CategoryID *int64
	Search     string // подстрока имени без учёта регистра
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// SaleFilter — фильтр листинга продаж.
type SaleFilter struct {
	ProductID *int64
}

// IMPORT

// ImportFileReq — загруженный CSV-файл.
type ImportFileReq struct {
	Filename string
	Data     []byte
}

// ImportStats — итог одного импорта. Наружу отдаётся только Inserted,
// счётчики пропусков сохраняются для диагностики и тестов.
type ImportStats struct {
	Inserted        int
	SkippedExisting int // id уже присутствует в таблице или повторяется в файле
	SkippedInvalid  int // продажи с пустой или нечитаемой датой
}

// ImportEvent — событие об успешном импорте, публикуемое в Kafka.
type ImportEvent struct {
	EventID    string    `json:"event_id"`
	Entity     string    `json:"entity"`
	Inserted   int       `json:"inserted"`
	Skipped    int       `json:"skipped"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ArchiveCSVReq — запрос на архивацию исходного CSV в объектное хранилище.
type ArchiveCSVReq struct {
	Entity   string
	Filename string
	Data     []byte
}

// ANALYTICS

// SalesSummary — сводка по всем продажам.
type SalesSummary struct {
	TotalSales       int64
	TotalRevenue     decimal.Decimal
	TotalQuantity    int64
	AverageSaleValue decimal.Decimal
}

// ProductSales — агрегат продаж одного продукта.
type ProductSales struct {
	ID            int64
	Name          string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
}

// CategorySales — агрегат продаж по категории.
type CategorySales struct {
	ID            int64
	Name          string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
}

// MonthlySales — агрегат продаж за календарный месяц (ключ YYYY-MM).
type MonthlySales struct {
	Month         string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	TotalSales    int64
}

// MAPPERS

func NewImportFileReq(filename string, data []byte) *ImportFileReq {
	return &ImportFileReq{
		Filename: filename,
		Data:     data,
	}
}

func NewArchiveCSVReq(entity, filename string, data []byte) *ArchiveCSVReq {
	return &ArchiveCSVReq{
		Entity:   entity,
		Filename: filename,
		Data:     data,
	}
}
