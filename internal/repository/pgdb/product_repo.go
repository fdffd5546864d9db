package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/internal/repository/pgdb/converter"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/tr"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает продукты с учётом фильтров листинга; условия объединяются по AND.
// JOIN скрывает продукты с висячим category_id, занесённые импортом.
func (p *ProductRepo) List(ctx context.Context, filter *usecase.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.price, p.category_id
		FROM products p
		JOIN categories c ON c.id = p.category_id`

	var (
		conds []string
		args  []any
	)
	if filter != nil {
		if filter.CategoryID != nil {
			args = append(args, *filter.CategoryID)
			conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
		}
		if filter.MinPrice != nil {
			args = append(args, *filter.MinPrice)
			conds = append(conds, fmt.Sprintf("p.price >= $%d", len(args)))
		}
		if filter.MaxPrice != nil {
			args = append(args, *filter.MaxPrice)
			conds = append(conds, fmt.Sprintf("p.price <= $%d", len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.id;"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Price, &model.CategoryID); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(&model))
	}

	return result, rows.Err()
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, price, category_id FROM products WHERE id = $1;`

	var model converter.ProductModel
	err := pick(ctx, p.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.Price, &model.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (name, price, category_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, category_id;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query, product.Name, product.Price, product.CategoryID).
		Scan(&model.ID, &model.Name, &model.Price, &model.CategoryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET name = $2, price = $3, category_id = $4
		WHERE id = $1
		RETURNING id, name, price, category_id;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query, product.ID, product.Name, product.Price, product.CategoryID).
		Scan(&model.ID, &model.Name, &model.Price, &model.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `DELETE FROM products WHERE id = $1;`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// CountByCategory возвращает число продуктов, ссылающихся на категорию.
func (p *ProductRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	query := `SELECT COUNT(id) FROM products WHERE category_id = $1;`

	var count int64
	if err := pick(ctx, p.pool).QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// ExistingIDs возвращает подмножество ids, уже присутствующее в таблице.
func (p *ProductRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	query := `SELECT id FROM products WHERE id = ANY($1);`

	rows, err := pick(ctx, p.pool).Query(ctx, query, ids)
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

// InsertBatch вставляет продукты одним COPY с сохранением явных id.
// Ссылочная целостность category_id на этом пути не проверяется.
// Последовательность выравнивается на MAX(id), чтобы ручной INSERT
// после импорта не наткнулся на занятый id.
func (p *ProductRepo) InsertBatch(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	src := make([][]any, 0, len(products))
	for i := range products {
		model := p.conv.ToModel(&products[i])
		src = append(src, []any{model.ID, model.Name, model.Price, model.CategoryID})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"products"},
		[]string{"id", "name", "price", "category_id"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products));`
	if _, err = tx.Exec(ctx, query); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
