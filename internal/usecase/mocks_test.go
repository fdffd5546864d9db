package usecase

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/pkg/e"
)

// Моки уровня репозиториев: данные держатся в памяти, чтобы проверять
// бизнес-правила без базы.

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any)            {}
func (noopLogger) Infof(format string, args ...any)             {}
func (noopLogger) Warnf(format string, args ...any)             {}
func (noopLogger) Errorf(err error, format string, args ...any) {}

// fakeTxManager подменяет пул: транзакции ничего не делают,
// репозитории-моки транзакцию из контекста не читают.
type fakeTxManager struct {
	beginErr error
}

func (f *fakeTxManager) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{}, nil
}

type fakeTx struct {
	pgx.Tx
}

func (t *fakeTx) Commit(ctx context.Context) error   { return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type mockCategoryRepo struct {
	categories map[int64]domain.Category
	nextID     int64
}

func newMockCategoryRepo(categories ...domain.Category) *mockCategoryRepo {
	repo := &mockCategoryRepo{categories: make(map[int64]domain.Category), nextID: 1}
	for _, c := range categories {
		repo.categories[c.ID] = c
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	result := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *mockCategoryRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, c := range m.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created := *category
	created.ID = m.nextID
	m.nextID++
	m.categories[created.ID] = created
	return &created, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if _, ok := m.categories[category.ID]; !ok {
		return nil, e.ErrCategoryNotFound
	}
	m.categories[category.ID] = *category
	updated := *category
	return &updated, nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return e.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := m.categories[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

// InsertBatch двигает nextID за максимальный импортированный id,
// как setval после COPY в реальном репозитории.
func (m *mockCategoryRepo) InsertBatch(ctx context.Context, categories []domain.Category) error {
	for _, c := range categories {
		m.categories[c.ID] = c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return nil
}

type mockProductRepo struct {
	products map[int64]domain.Product
	nextID   int64

	// имитирует JOIN categories в листинге; nil — без фильтрации
	categories *mockCategoryRepo
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	repo := &mockProductRepo{products: make(map[int64]domain.Product), nextID: 1}
	for _, p := range products {
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (m *mockProductRepo) List(ctx context.Context, filter *ProductFilter) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if m.categories != nil {
			if _, ok := m.categories.categories[p.CategoryID]; !ok {
				continue
			}
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	created := *product
	created.ID = m.nextID
	m.nextID++
	m.products[created.ID] = created
	return &created, nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if _, ok := m.products[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	m.products[product.ID] = *product
	updated := *product
	return &updated, nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *mockProductRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := m.products[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *mockProductRepo) InsertBatch(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return nil
}

type mockSaleRepo struct {
	sales map[int64]domain.Sale

	// имитирует JOIN products в листинге; nil — без фильтрации
	products *mockProductRepo
}

func newMockSaleRepo(sales ...domain.Sale) *mockSaleRepo {
	repo := &mockSaleRepo{sales: make(map[int64]domain.Sale)}
	for _, s := range sales {
		repo.sales[s.ID] = s
	}
	return repo
}

func (m *mockSaleRepo) List(ctx context.Context, filter *SaleFilter) ([]domain.Sale, error) {
	result := make([]domain.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if filter != nil && filter.ProductID != nil && s.ProductID != *filter.ProductID {
			continue
		}
		if m.products != nil {
			if _, ok := m.products.products[s.ProductID]; !ok {
				continue
			}
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockSaleRepo) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, e.ErrSaleNotFound
	}
	return &s, nil
}

func (m *mockSaleRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := m.sales[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *mockSaleRepo) InsertBatch(ctx context.Context, sales []domain.Sale) error {
	for _, s := range sales {
		m.sales[s.ID] = s
	}
	return nil
}

// mockCacheRepo хранит выборки в памяти и считает сбросы.
type mockCacheRepo struct {
	views         map[string][]byte
	invalidations int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{views: make(map[string][]byte)}
}

func (m *mockCacheRepo) GetView(ctx context.Context, view string, dest any) (bool, error) {
	data, ok := m.views[view]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockCacheRepo) SetView(ctx context.Context, view string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.views[view] = data
	return nil
}

func (m *mockCacheRepo) InvalidateViews(ctx context.Context) error {
	m.invalidations++
	m.views = make(map[string][]byte)
	return nil
}

type mockArchive struct {
	requests []ArchiveCSVReq
}

func (m *mockArchive) ArchiveCSV(ctx context.Context, req *ArchiveCSVReq) (string, error) {
	m.requests = append(m.requests, *req)
	return "uploads/" + req.Entity + "/" + req.Filename, nil
}

type mockProducer struct {
	events []ImportEvent
}

func (m *mockProducer) PublishImportEvent(ctx context.Context, event *ImportEvent) error {
	m.events = append(m.events, *event)
	return nil
}

// mockAnalyticsRepo отдаёт заранее заданные агрегаты и считает обращения.
type mockAnalyticsRepo struct {
	summary  SalesSummary
	top      []ProductSales
	byCat    []CategorySales
	monthly  []MonthlySales
	reqCount int
}

func (m *mockAnalyticsRepo) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	m.reqCount++
	summary := m.summary
	return &summary, nil
}

func (m *mockAnalyticsRepo) TopProducts(ctx context.Context) ([]ProductSales, error) {
	m.reqCount++
	return m.top, nil
}

func (m *mockAnalyticsRepo) CategorySales(ctx context.Context) ([]CategorySales, error) {
	m.reqCount++
	return m.byCat, nil
}

func (m *mockAnalyticsRepo) MonthlySales(ctx context.Context) ([]MonthlySales, error) {
	m.reqCount++
	return m.monthly, nil
}
