package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/internal/repository/pgdb/converter"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/tr"
)

// SaleRepo реализует репозиторий продаж поверх PostgreSQL.
// Продажи попадают в таблицу только пакетной вставкой импорта.
type SaleRepo struct {
	pool *pgxpool.Pool
	conv converter.SaleConverter
}

func NewSaleRepo(pool *pgxpool.Pool, conv converter.SaleConverter) *SaleRepo {
	return &SaleRepo{pool: pool, conv: conv}
}

// List возвращает продажи по убыванию даты, опционально фильтруя по продукту.
// JOIN скрывает продажи с висячим product_id; по id они по-прежнему доступны.
func (s *SaleRepo) List(ctx context.Context, filter *usecase.SaleFilter) ([]domain.Sale, error) {
	query := `
		SELECT s.id, s.product_id, s.quantity, s.total_price, s.date
		FROM sales s
		JOIN products pr ON pr.id = s.product_id`

	var args []any
	if filter != nil && filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += fmt.Sprintf(" WHERE s.product_id = $%d", len(args))
	}
	query += " ORDER BY s.date DESC;"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Sale, 0)
	for rows.Next() {
		var model converter.SaleModel
		if err := rows.Scan(&model.ID, &model.ProductID, &model.Quantity, &model.TotalPrice, &model.Date); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *s.conv.ToEntity(&model))
	}

	return result, rows.Err()
}

func (s *SaleRepo) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	query := `SELECT id, product_id, quantity, total_price, date FROM sales WHERE id = $1;`

	var model converter.SaleModel
	err := pick(ctx, s.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.ProductID, &model.Quantity, &model.TotalPrice, &model.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrSaleNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

// ExistingIDs возвращает подмножество ids, уже присутствующее в таблице.
func (s *SaleRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	query := `SELECT id FROM sales WHERE id = ANY($1);`

	rows, err := pick(ctx, s.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	existing := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		existing[id] = struct{}{}
	}

	return existing, rows.Err()
}

// InsertBatch вставляет продажи одним COPY с сохранением явных id.
// product_id не проверяется: импорт принимает висячие ссылки.
func (s *SaleRepo) InsertBatch(ctx context.Context, sales []domain.Sale) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	src := make([][]any, 0, len(sales))
	for i := range sales {
		model := s.conv.ToModel(&sales[i])
		src = append(src, []any{model.ID, model.ProductID, model.Quantity, model.TotalPrice, model.Date})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"sales"},
		[]string{"id", "product_id", "quantity", "total_price", "date"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
