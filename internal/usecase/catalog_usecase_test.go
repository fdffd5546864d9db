package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogUC(
	categoryRepo *mockCategoryRepo,
	productRepo *mockProductRepo,
	saleRepo *mockSaleRepo,
) (*CatalogUseCase, *mockCacheRepo) {
	productRepo.categories = categoryRepo
	saleRepo.products = productRepo
	cache := newMockCacheRepo()
	uc := NewCatalogUC(categoryRepo, productRepo, saleRepo, &fakeTxManager{}, cache, noopLogger{})
	return uc, cache
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uc, cache := newCatalogUC(newMockCategoryRepo(), newMockProductRepo(), newMockSaleRepo())

		category, err := uc.CreateCategory(ctx, &CategoryReq{Name: "Drinks"})
		require.NoError(t, err)
		assert.Equal(t, "Drinks", category.Name)
		assert.NotZero(t, category.ID)
		assert.Equal(t, 1, cache.invalidations)
	})

	t.Run("duplicate name rejected on second create", func(t *testing.T) {
		uc, _ := newCatalogUC(newMockCategoryRepo(), newMockProductRepo(), newMockSaleRepo())

		_, err := uc.CreateCategory(ctx, &CategoryReq{Name: "Drinks"})
		require.NoError(t, err)

		_, err = uc.CreateCategory(ctx, &CategoryReq{Name: "Drinks"})
		assert.ErrorIs(t, err, e.ErrCategoryNameTaken)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		uc, cache := newCatalogUC(newMockCategoryRepo(), newMockProductRepo(), newMockSaleRepo())

		_, err := uc.CreateCategory(ctx, &CategoryReq{Name: "   "})
		assert.ErrorIs(t, err, e.ErrCategoryNameEmpty)
		assert.Zero(t, cache.invalidations)
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		repo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		uc, _ := newCatalogUC(repo, newMockProductRepo(), newMockSaleRepo())

		category, err := uc.UpdateCategory(ctx, 1, &CategoryReq{Name: "Beverages"})
		require.NoError(t, err)
		assert.Equal(t, "Beverages", category.Name)
	})

	t.Run("same name on itself allowed", func(t *testing.T) {
		repo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		uc, _ := newCatalogUC(repo, newMockProductRepo(), newMockSaleRepo())

		_, err := uc.UpdateCategory(ctx, 1, &CategoryReq{Name: "Drinks"})
		assert.NoError(t, err)
	})

	t.Run("name owned by another category rejected", func(t *testing.T) {
		repo := newMockCategoryRepo(
			domain.Category{ID: 1, Name: "Drinks"},
			domain.Category{ID: 2, Name: "Snacks"},
		)
		uc, _ := newCatalogUC(repo, newMockProductRepo(), newMockSaleRepo())

		_, err := uc.UpdateCategory(ctx, 2, &CategoryReq{Name: "Drinks"})
		assert.ErrorIs(t, err, e.ErrCategoryNameTaken)
	})

	t.Run("missing category", func(t *testing.T) {
		uc, _ := newCatalogUC(newMockCategoryRepo(), newMockProductRepo(), newMockSaleRepo())

		_, err := uc.UpdateCategory(ctx, 42, &CategoryReq{Name: "Drinks"})
		assert.ErrorIs(t, err, e.ErrCategoryNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while products reference it", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		productRepo := newMockProductRepo(
			domain.Product{ID: 1, Name: "Cola", Price: decimal.NewFromInt(2), CategoryID: 1},
			domain.Product{ID: 2, Name: "Juice", Price: decimal.NewFromInt(3), CategoryID: 1},
		)
		uc, _ := newCatalogUC(categoryRepo, productRepo, newMockSaleRepo())

		err := uc.DeleteCategory(ctx, 1)
		require.Error(t, err)

		var inUse *e.CategoryInUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, int64(2), inUse.Count)
		assert.Contains(t, err.Error(), "cannot delete category with 2 associated product(s)")
	})

	t.Run("succeeds with zero products", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		uc, _ := newCatalogUC(categoryRepo, newMockProductRepo(), newMockSaleRepo())

		require.NoError(t, uc.DeleteCategory(ctx, 1))

		_, err := uc.GetCategory(ctx, 1)
		assert.ErrorIs(t, err, e.ErrCategoryNotFound)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	categorySeed := domain.Category{ID: 1, Name: "Drinks"}

	tests := []struct {
		name    string
		req     *CreateProductReq
		wantErr error
	}{
		{
			name: "minimal positive price accepted",
			req:  &CreateProductReq{Name: "Cola", Price: decimal.RequireFromString("0.01"), CategoryID: 1},
		},
		{
			name:    "zero price rejected",
			req:     &CreateProductReq{Name: "Cola", Price: decimal.Zero, CategoryID: 1},
			wantErr: e.ErrPriceMustBePositive,
		},
		{
			name:    "negative price rejected",
			req:     &CreateProductReq{Name: "Cola", Price: decimal.NewFromInt(-5), CategoryID: 1},
			wantErr: e.ErrPriceMustBePositive,
		},
		{
			name:    "missing category rejected",
			req:     &CreateProductReq{Name: "Cola", Price: decimal.NewFromInt(2), CategoryID: 99},
			wantErr: e.ErrCategoryNotExists,
		},
		{
			name:    "empty name rejected",
			req:     &CreateProductReq{Name: "  ", Price: decimal.NewFromInt(2), CategoryID: 1},
			wantErr: e.ErrProductNameEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newCatalogUC(newMockCategoryRepo(categorySeed), newMockProductRepo(), newMockSaleRepo())

			product, err := uc.CreateProduct(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, product.ID)
			assert.True(t, product.Price.Equal(tt.req.Price))
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	newName := "Diet Cola"
	newPrice := decimal.RequireFromString("3.50")
	badPrice := decimal.Zero
	otherCategory := int64(2)

	seedProduct := domain.Product{ID: 1, Name: "Cola", Price: decimal.NewFromInt(2), CategoryID: 1}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		productRepo := newMockProductRepo(seedProduct)
		uc, _ := newCatalogUC(categoryRepo, productRepo, newMockSaleRepo())

		product, err := uc.UpdateProduct(ctx, 1, &UpdateProductReq{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, product.Name)
		assert.True(t, product.Price.Equal(seedProduct.Price))
		assert.Equal(t, seedProduct.CategoryID, product.CategoryID)
	})

	t.Run("price and category updated together", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(
			domain.Category{ID: 1, Name: "Drinks"},
			domain.Category{ID: 2, Name: "Snacks"},
		)
		uc, _ := newCatalogUC(categoryRepo, newMockProductRepo(seedProduct), newMockSaleRepo())

		product, err := uc.UpdateProduct(ctx, 1, &UpdateProductReq{Price: &newPrice, CategoryID: &otherCategory})
		require.NoError(t, err)
		assert.True(t, product.Price.Equal(newPrice))
		assert.Equal(t, otherCategory, product.CategoryID)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		uc, _ := newCatalogUC(categoryRepo, newMockProductRepo(seedProduct), newMockSaleRepo())

		_, err := uc.UpdateProduct(ctx, 1, &UpdateProductReq{Price: &badPrice})
		assert.ErrorIs(t, err, e.ErrPriceMustBePositive)
	})

	t.Run("new category must exist", func(t *testing.T) {
		categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
		uc, _ := newCatalogUC(categoryRepo, newMockProductRepo(seedProduct), newMockSaleRepo())

		missing := int64(99)
		_, err := uc.UpdateProduct(ctx, 1, &UpdateProductReq{CategoryID: &missing})
		assert.ErrorIs(t, err, e.ErrCategoryNotExists)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unconditionally, sale rows survive but leave the listing", func(t *testing.T) {
		productRepo := newMockProductRepo(domain.Product{ID: 1, Name: "Cola", Price: decimal.NewFromInt(2), CategoryID: 1})
		saleRepo := newMockSaleRepo(domain.Sale{ID: 1, ProductID: 1, Quantity: 2, TotalPrice: decimal.NewFromInt(4)})
		uc, _ := newCatalogUC(newMockCategoryRepo(), productRepo, saleRepo)

		require.NoError(t, uc.DeleteProduct(ctx, 1))

		// строка остаётся и доступна по id
		sale, err := uc.GetSale(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), sale.ProductID)

		// но из листинга уходит вместе с продуктом
		sales, err := uc.ListSales(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, sales)
	})

	t.Run("missing product", func(t *testing.T) {
		uc, _ := newCatalogUC(newMockCategoryRepo(), newMockProductRepo(), newMockSaleRepo())

		err := uc.DeleteProduct(ctx, 5)
		assert.ErrorIs(t, err, e.ErrProductNotFound)
	})
}

func TestListProducts_HidesDanglingCategory(t *testing.T) {
	ctx := context.Background()
	categoryRepo := newMockCategoryRepo(domain.Category{ID: 1, Name: "Drinks"})
	productRepo := newMockProductRepo(
		domain.Product{ID: 1, Name: "Cola", Price: decimal.NewFromInt(2), CategoryID: 1},
		domain.Product{ID: 2, Name: "Fanta", Price: decimal.NewFromInt(3), CategoryID: 99},
	)
	uc, _ := newCatalogUC(categoryRepo, productRepo, newMockSaleRepo())

	products, err := uc.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)

	// по id продукт с висячей категорией по-прежнему доступен
	product, err := uc.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(99), product.CategoryID)
}
