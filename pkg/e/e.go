package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request
	ErrCsvFileRequired     = fmt.Errorf("file must be a CSV")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrFileFieldMissing    = fmt.Errorf("form field 'file' is missing")
	ErrCategoryNameTaken   = fmt.Errorf("category with this name already exists")
	ErrCategoryNameEmpty   = fmt.Errorf("category name is required")
	ErrProductNameEmpty    = fmt.Errorf("product name is required")
	ErrPriceMustBePositive = fmt.Errorf("price must be greater than zero")
	ErrCategoryNotExists   = fmt.Errorf("category does not exist")
	ErrInvalidID           = fmt.Errorf("invalid id")
	ErrInvalidQueryParam   = fmt.Errorf("invalid query parameter")
	ErrInvalidRequestBody  = fmt.Errorf("invalid request body")

	// 404 Not Found
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrSaleNotFound     = fmt.Errorf("sale not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// CategoryInUseError возвращается при попытке удалить категорию,
// на которую ссылаются продукты. Count попадает в текст ошибки как есть.
type CategoryInUseError struct {
	Count int64
}

func (c *CategoryInUseError) Error() string {
	return fmt.Sprintf("cannot delete category with %d associated product(s)", c.Count)
}

func NewCategoryInUseError(count int64) *CategoryInUseError {
	return &CategoryInUseError{Count: count}
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
