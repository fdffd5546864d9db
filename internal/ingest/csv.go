// Package ingest разбирает CSV-файлы импорта в типизированные строки.
// Валидация ссылочной целостности здесь сознательно не выполняется:
// импорт принимает строки как есть, проверки остаются за ручными эндпоинтами.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// CategoryRow — строка CSV-файла категорий.
type CategoryRow struct {
	ID   int64
	Name string
}

// ProductRow — строка CSV-файла продуктов.
type ProductRow struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
}

// SaleRow — строка CSV-файла продаж.
type SaleRow struct {
	ID         int64
	ProductID  int64
	Quantity   int64
	TotalPrice decimal.Decimal
	Date       time.Time
}

var ErrNotUTF8 = fmt.Errorf("file content is not valid UTF-8")

// header сопоставляет имена колонок с их позициями в заголовке файла.
// Лишние колонки игнорируются, порядок не имеет значения.
type header map[string]int

func indexHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		h[strings.TrimSpace(name)] = i
	}
	return h
}

func (h header) require(cols ...string) error {
	for _, col := range cols {
		if _, ok := h[col]; !ok {
			return fmt.Errorf("missing required column %q", col)
		}
	}
	return nil
}

func (h header) cell(record []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func newReader(data []byte) (*csv.Reader, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}
	return csv.NewReader(bytes.NewReader(data)), nil
}

// ParseCategories разбирает CSV с колонками id,name.
func ParseCategories(data []byte) ([]CategoryRow, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := indexHeader(head)
	if err := h.require("id", "name"); err != nil {
		return nil, err
	}

	var rows []CategoryRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		id, err := strconv.ParseInt(h.cell(record, "id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", h.cell(record, "id"), err)
		}

		rows = append(rows, CategoryRow{
			ID:   id,
			Name: h.cell(record, "name"),
		})
	}

	return rows, nil
}

// ParseProducts разбирает CSV с колонками id,name,price,category_id.
func ParseProducts(data []byte) ([]ProductRow, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := indexHeader(head)
	if err := h.require("id", "name", "price", "category_id"); err != nil {
		return nil, err
	}

	var rows []ProductRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		id, err := strconv.ParseInt(h.cell(record, "id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", h.cell(record, "id"), err)
		}

		price, err := decimal.NewFromString(h.cell(record, "price"))
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", h.cell(record, "price"), err)
		}

		categoryID, err := strconv.ParseInt(h.cell(record, "category_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id %q: %w", h.cell(record, "category_id"), err)
		}

		rows = append(rows, ProductRow{
			ID:         id,
			Name:       h.cell(record, "name"),
			Price:      price,
			CategoryID: categoryID,
		})
	}

	return rows, nil
}

// ParseSales разбирает CSV с колонками id,product_id,quantity,total_price,date.
// Колонка даты может называться date или month; значение принимается в формате
// YYYY-MM-DD либо YYYY-MM (нормализуется к первому числу месяца). Строки с пустой
// или нечитаемой датой молча пропускаются, их число возвращается вторым значением.
func ParseSales(data []byte) ([]SaleRow, int, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, 0, err
	}

	head, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	h := indexHeader(head)
	if err := h.require("id", "product_id", "quantity", "total_price"); err != nil {
		return nil, 0, err
	}
	if h.require("date") != nil && h.require("month") != nil {
		return nil, 0, fmt.Errorf("missing required column %q (or %q)", "date", "month")
	}

	var (
		rows    []SaleRow
		skipped int
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		dateStr := h.cell(record, "date")
		if dateStr == "" {
			dateStr = h.cell(record, "month")
		}

		date, ok := parseSaleDate(dateStr)
		if !ok {
			skipped++
			continue
		}

		id, err := strconv.ParseInt(h.cell(record, "id"), 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid id %q: %w", h.cell(record, "id"), err)
		}

		productID, err := strconv.ParseInt(h.cell(record, "product_id"), 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid product_id %q: %w", h.cell(record, "product_id"), err)
		}

		quantity, err := strconv.ParseInt(h.cell(record, "quantity"), 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid quantity %q: %w", h.cell(record, "quantity"), err)
		}

		totalPrice, err := decimal.NewFromString(h.cell(record, "total_price"))
		if err != nil {
			return nil, 0, fmt.Errorf("invalid total_price %q: %w", h.cell(record, "total_price"), err)
		}

		rows = append(rows, SaleRow{
			ID:         id,
			ProductID:  productID,
			Quantity:   quantity,
			TotalPrice: totalPrice,
			Date:       date,
		})
	}

	return rows, skipped, nil
}

// parseSaleDate принимает YYYY-MM-DD или YYYY-MM (первое число месяца).
func parseSaleDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	layout := "2006-01-02"
	if len(s) == len("2006-01") {
		layout = "2006-01"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
