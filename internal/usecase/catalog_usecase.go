package usecase

import (
	"context"
	"errors"
	"strings"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// CatalogUseCase реализует бизнес-логику каталога: категории, продукты, продажи.
// Все пишущие операции выполняются в транзакции, создаваемой на время запроса;
// читающие ходят напрямую в пул.
type CatalogUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	saleRepo     SaleRepository
	dbPool       transaction.Transactional
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewCatalogUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	saleRepo SaleRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		dbPool:       dbPool,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// CATEGORIES

func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (c *CatalogUseCase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CatalogUseCase.GetCategory"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

// CreateCategory создаёт категорию, отклоняя дубликаты имени (точное совпадение).
func (c *CatalogUseCase) CreateCategory(ctx context.Context, req *CategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.CreateCategory"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrCategoryNameEmpty)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	taken, err := c.categoryRepo.NameTaken(ctx, name, 0)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if taken {
		err = e.ErrCategoryNameTaken
		return nil, e.Wrap(op, err)
	}

	category, err := c.categoryRepo.Create(ctx, domain.NewCategory(name))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return category, nil
}

// UpdateCategory переименовывает категорию; новое имя не должно принадлежать другой категории.
func (c *CatalogUseCase) UpdateCategory(ctx context.Context, id int64, req *CategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.UpdateCategory"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrCategoryNameEmpty)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = c.categoryRepo.GetByID(ctx, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	taken, err := c.categoryRepo.NameTaken(ctx, name, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if taken {
		err = e.ErrCategoryNameTaken
		return nil, e.Wrap(op, err)
	}

	category, err := c.categoryRepo.Update(ctx, &domain.Category{ID: id, Name: name})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return category, nil
}

// DeleteCategory удаляет категорию. Удаление блокируется, пока на категорию
// ссылается хотя бы один продукт; число блокирующих продуктов попадает в ошибку.
func (c *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteCategory"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = c.categoryRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	count, err := c.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if count > 0 {
		err = e.NewCategoryInUseError(count)
		return e.Wrap(op, err)
	}

	if err = c.categoryRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return nil
}

// PRODUCTS

func (c *CatalogUseCase) ListProducts(ctx context.Context, filter *ProductFilter) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// CreateProduct создаёт продукт. Категория должна существовать, цена — быть строго положительной.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrProductNameEmpty)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = c.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, e.ErrCategoryNotFound) {
			err = e.ErrCategoryNotExists
		}
		return nil, e.Wrap(op, err)
	}

	if !req.Price.IsPositive() {
		err = e.ErrPriceMustBePositive
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.Create(ctx, domain.NewProduct(name, req.Price, req.CategoryID))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return product, nil
}

// UpdateProduct обновляет только переданные поля. Цена проверяется лишь когда
// она задана, категория — лишь когда меняется.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.CategoryID != nil {
		if _, err = c.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, e.ErrCategoryNotFound) {
				err = e.ErrCategoryNotExists
			}
			return nil, e.Wrap(op, err)
		}
		product.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Price != nil {
		if !req.Price.IsPositive() {
			err = e.ErrPriceMustBePositive
			return nil, e.Wrap(op, err)
		}
		product.Price = *req.Price
	}

	product, err = c.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return product, nil
}

// DeleteProduct удаляет продукт безусловно. Продажи удалённого продукта
// остаются в таблице с висячим product_id.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteProduct"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = c.productRepo.GetByID(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = c.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateAnalytics(ctx, op)
	return nil
}

// SALES

func (c *CatalogUseCase) ListSales(ctx context.Context, filter *SaleFilter) ([]domain.Sale, error) {
	const op = "CatalogUseCase.ListSales"

	sales, err := c.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return sales, nil
}

func (c *CatalogUseCase) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	const op = "CatalogUseCase.GetSale"

	sale, err := c.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return sale, nil
}

// invalidateAnalytics сбрасывает кэш аналитики после успешной записи.
// Ошибка кэша не влияет на результат операции.
func (c *CatalogUseCase) invalidateAnalytics(ctx context.Context, op string) {
	if err := c.cacheRepo.InvalidateViews(ctx); err != nil {
		c.logger.Warnf("Failed to invalidate analytics cache: %v", e.Wrap(op, err))
	}
}
