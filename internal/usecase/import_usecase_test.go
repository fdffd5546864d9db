package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importFixture struct {
	uc       *ImportUseCase
	cache    *mockCacheRepo
	archive  *mockArchive
	producer *mockProducer
}

func newImportFixture() *importFixture {
	f := &importFixture{
		cache:    newMockCacheRepo(),
		archive:  &mockArchive{},
		producer: &mockProducer{},
	}
	f.uc = NewImportUC(
		newMockCategoryRepo(),
		newMockProductRepo(),
		newMockSaleRepo(),
		&fakeTxManager{},
		f.archive,
		f.producer,
		f.cache,
		noopLogger{},
	)
	return f
}

func TestImportCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh rows inserted", func(t *testing.T) {
		f := newImportFixture()

		stats, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.csv", []byte("id,name\n1,Drinks\n2,Snacks\n")))
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Inserted)
		assert.Zero(t, stats.SkippedExisting)
	})

	t.Run("re-import is idempotent", func(t *testing.T) {
		f := newImportFixture()
		file := []byte("id,name\n1,Drinks\n2,Snacks\n")

		_, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.csv", file))
		require.NoError(t, err)

		stats, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.csv", file))
		require.NoError(t, err)
		assert.Zero(t, stats.Inserted)
		assert.Equal(t, 2, stats.SkippedExisting)
	})

	t.Run("duplicate ids within one file inserted once", func(t *testing.T) {
		f := newImportFixture()

		stats, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.csv", []byte("id,name\n1,Drinks\n1,Drinks Again\n")))
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Inserted)
		assert.Equal(t, 1, stats.SkippedExisting)
	})

	t.Run("wrong extension rejected before parsing", func(t *testing.T) {
		f := newImportFixture()

		_, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.txt", []byte("id,name\n1,Drinks\n")))
		assert.ErrorIs(t, err, e.ErrCsvFileRequired)
		assert.Empty(t, f.archive.requests)
		assert.Empty(t, f.producer.events)
	})

	t.Run("post-commit effects fire", func(t *testing.T) {
		f := newImportFixture()

		stats, err := f.uc.ImportCategories(ctx, NewImportFileReq("categories.csv", []byte("id,name\n1,Drinks\n")))
		require.NoError(t, err)

		require.Len(t, f.archive.requests, 1)
		assert.Equal(t, "categories", f.archive.requests[0].Entity)
		assert.Equal(t, "categories.csv", f.archive.requests[0].Filename)

		require.Len(t, f.producer.events, 1)
		event := f.producer.events[0]
		assert.NotEmpty(t, event.EventID)
		assert.Equal(t, "categories", event.Entity)
		assert.Equal(t, stats.Inserted, event.Inserted)
		assert.Zero(t, event.Skipped)

		assert.Equal(t, 1, f.cache.invalidations)
	})
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture()

	// category_id=99 не существует: импорт не проверяет ссылку
	stats, err := f.uc.ImportProducts(ctx, NewImportFileReq("products.csv",
		[]byte("id,name,price,category_id\n1,Cola,1.99,99\n")))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)
}

func TestImportSales(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid dates counted separately from dedup", func(t *testing.T) {
		f := newImportFixture()
		file := []byte("id,product_id,quantity,total_price,date\n" +
			"1,1,2,20.0,2024-01\n" +
			"2,1,1,10.0,2024-01-15\n" +
			"3,1,1,10.0,not-a-date\n")

		stats, err := f.uc.ImportSales(ctx, NewImportFileReq("sales.csv", file))
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Inserted)
		assert.Equal(t, 1, stats.SkippedInvalid)
		assert.Zero(t, stats.SkippedExisting)

		require.Len(t, f.producer.events, 1)
		assert.Equal(t, 1, f.producer.events[0].Skipped)
	})

	t.Run("second upload inserts nothing new", func(t *testing.T) {
		f := newImportFixture()
		file := []byte("id,product_id,quantity,total_price,date\n1,1,2,20.0,2024-01-15\n")

		_, err := f.uc.ImportSales(ctx, NewImportFileReq("sales.csv", file))
		require.NoError(t, err)

		stats, err := f.uc.ImportSales(ctx, NewImportFileReq("sales.csv", file))
		require.NoError(t, err)
		assert.Zero(t, stats.Inserted)
		assert.Equal(t, 1, stats.SkippedExisting)
	})
}

// Импорт с явными id не должен ломать ручное создание: генератор id
// обязан перешагнуть максимальный импортированный id.
func TestImportThenManualCreate(t *testing.T) {
	ctx := context.Background()

	categoryRepo := newMockCategoryRepo()
	productRepo := newMockProductRepo()
	saleRepo := newMockSaleRepo()

	importUC := NewImportUC(
		categoryRepo,
		productRepo,
		saleRepo,
		&fakeTxManager{},
		&mockArchive{},
		&mockProducer{},
		newMockCacheRepo(),
		noopLogger{},
	)
	catalogUC, _ := newCatalogUC(categoryRepo, productRepo, saleRepo)

	t.Run("category after import gets the next free id", func(t *testing.T) {
		_, err := importUC.ImportCategories(ctx, NewImportFileReq("categories.csv",
			[]byte("id,name\n1,Drinks\n2,Snacks\n")))
		require.NoError(t, err)

		category, err := catalogUC.CreateCategory(ctx, &CategoryReq{Name: "Candy"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), category.ID)
	})

	t.Run("product after import gets the next free id", func(t *testing.T) {
		_, err := importUC.ImportProducts(ctx, NewImportFileReq("products.csv",
			[]byte("id,name,price,category_id\n5,Cola,1.99,1\n")))
		require.NoError(t, err)

		product, err := catalogUC.CreateProduct(ctx, &CreateProductReq{
			Name:       "Juice",
			Price:      decimal.NewFromInt(2),
			CategoryID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), product.ID)
	})
}
