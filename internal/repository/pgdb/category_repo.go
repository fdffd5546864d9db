package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/internal/repository/pgdb/converter"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/tr"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id;`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(&model.ID, &model.Name); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ToEntity(&model))
	}

	return result, rows.Err()
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = $1;`

	var model converter.CategoryModel
	err := pick(ctx, c.pool).QueryRow(ctx, query, id).Scan(&model.ID, &model.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrCategoryNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// NameTaken проверяет, занято ли имя другой категорией.
// excludeID исключает из проверки саму обновляемую категорию (0 — не исключать).
func (c *CategoryRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND id <> $2);`

	var taken bool
	if err := pick(ctx, c.pool).QueryRow(ctx, query, name, excludeID).Scan(&taken); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return taken, nil
}

func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `INSERT INTO categories(name) VALUES ($1) RETURNING id, name;`

	var model converter.CategoryModel
	if err := tx.QueryRow(ctx, query, category.Name).Scan(&model.ID, &model.Name); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name;`

	var model converter.CategoryModel
	if err := tx.QueryRow(ctx, query, category.ID, category.Name).Scan(&model.ID, &model.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrCategoryNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `DELETE FROM categories WHERE id = $1;`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrCategoryNotFound
	}

	return nil
}

// ExistingIDs возвращает подмножество ids, уже присутствующее в таблице.
func (c *CategoryRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	query := `SELECT id FROM categories WHERE id = ANY($1);`

	rows, err := pick(ctx, c.pool).Query(ctx, query, ids)
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

// InsertBatch вставляет категории одним COPY с сохранением явных id.
// COPY с явными id не двигает identity-последовательность, поэтому после
// вставки она выравнивается на MAX(id) — иначе следующий ручной INSERT
// получит уже занятый id.
func (c *CategoryRepo) InsertBatch(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	src := make([][]any, 0, len(categories))
	for i := range categories {
		model := c.conv.ToModel(&categories[i])
		src = append(src, []any{model.ID, model.Name})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"categories"},
		[]string{"id", "name"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories));`
	if _, err = tx.Exec(ctx, query); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
