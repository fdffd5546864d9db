package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale описывает продажу. Продажи неизменяемы: они попадают в систему
// только через CSV-импорт и не имеют эндпоинтов редактирования.
type Sale struct {
	ID         int64
	ProductID  int64
	Quantity   int64
	TotalPrice decimal.Decimal
	Date       time.Time
}
