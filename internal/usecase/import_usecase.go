package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/smartmart-io/go-backend/internal/domain"
	"github.com/smartmart-io/go-backend/internal/ingest"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// ImportUseCase реализует пакетный импорт сущностей из CSV.
// Все вставки одного файла выполняются в одной транзакции; строки с уже
// существующим id пропускаются без ошибки. Импорт продаж не проверяет
// существование продукта — проверка остаётся за ручным созданием.
type ImportUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	saleRepo     SaleRepository
	dbPool       transaction.Transactional
	archive      ArchiveInfra
	producer     EventProducer
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewImportUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	saleRepo SaleRepository,
	dbPool transaction.Transactional,
	archive ArchiveInfra,
	producer EventProducer,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		dbPool:       dbPool,
		archive:      archive,
		producer:     producer,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// ImportCategories импортирует CSV с колонками id,name.
func (u *ImportUseCase) ImportCategories(ctx context.Context, req *ImportFileReq) (*ImportStats, error) {
	const op = "ImportUseCase.ImportCategories"

	if err := validateCSVName(req.Filename); err != nil {
		return nil, e.Wrap(op, err)
	}

	rows, err := ingest.ParseCategories(req.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := &ImportStats{}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	existing, err := u.categoryRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	fresh := make([]domain.Category, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := existing[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		if _, ok := seen[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		seen[row.ID] = struct{}{}
		fresh = append(fresh, domain.Category{ID: row.ID, Name: row.Name})
	}

	if len(fresh) > 0 {
		if err = u.categoryRepo.InsertBatch(ctx, fresh); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}
	stats.Inserted = len(fresh)

	u.finishImport(ctx, "categories", req, stats)
	return stats, nil
}

// ImportProducts импортирует CSV с колонками id,name,price,category_id.
// category_id на этом пути сознательно не проверяется.
func (u *ImportUseCase) ImportProducts(ctx context.Context, req *ImportFileReq) (*ImportStats, error) {
	const op = "ImportUseCase.ImportProducts"

	if err := validateCSVName(req.Filename); err != nil {
		return nil, e.Wrap(op, err)
	}

	rows, err := ingest.ParseProducts(req.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := &ImportStats{}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	existing, err := u.productRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	fresh := make([]domain.Product, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := existing[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		if _, ok := seen[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		seen[row.ID] = struct{}{}
		fresh = append(fresh, domain.Product{
			ID:         row.ID,
			Name:       row.Name,
			Price:      row.Price,
			CategoryID: row.CategoryID,
		})
	}

	if len(fresh) > 0 {
		if err = u.productRepo.InsertBatch(ctx, fresh); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}
	stats.Inserted = len(fresh)

	u.finishImport(ctx, "products", req, stats)
	return stats, nil
}

// ImportSales импортирует CSV с колонками id,product_id,quantity,total_price,date|month.
// Строки с нечитаемой датой пропускаются молча и учитываются в SkippedInvalid.
func (u *ImportUseCase) ImportSales(ctx context.Context, req *ImportFileReq) (*ImportStats, error) {
	const op = "ImportUseCase.ImportSales"

	if err := validateCSVName(req.Filename); err != nil {
		return nil, e.Wrap(op, err)
	}

	rows, skippedInvalid, err := ingest.ParseSales(req.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := &ImportStats{SkippedInvalid: skippedInvalid}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	existing, err := u.saleRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	fresh := make([]domain.Sale, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := existing[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		if _, ok := seen[row.ID]; ok {
			stats.SkippedExisting++
			continue
		}
		seen[row.ID] = struct{}{}
		fresh = append(fresh, domain.Sale{
			ID:         row.ID,
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
			TotalPrice: row.TotalPrice,
			Date:       row.Date,
		})
	}

	if len(fresh) > 0 {
		if err = u.saleRepo.InsertBatch(ctx, fresh); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}
	stats.Inserted = len(fresh)

	u.finishImport(ctx, "sales", req, stats)
	return stats, nil
}

// finishImport выполняет необязательные действия после коммита: архивирует
// исходный файл, публикует событие и сбрасывает кэш аналитики. Ошибки только логируются.
func (u *ImportUseCase) finishImport(ctx context.Context, entity string, req *ImportFileReq, stats *ImportStats) {
	const op = "ImportUseCase.finishImport"

	if _, err := u.archive.ArchiveCSV(ctx, NewArchiveCSVReq(entity, req.Filename, req.Data)); err != nil {
		u.logger.Warnf("Failed to archive %s import file: %v", entity, e.Wrap(op, err))
	}

	event := &ImportEvent{
		EventID:    uuid.NewString(),
		Entity:     entity,
		Inserted:   stats.Inserted,
		Skipped:    stats.SkippedExisting + stats.SkippedInvalid,
		OccurredAt: time.Now().UTC(),
	}
	if err := u.producer.PublishImportEvent(ctx, event); err != nil {
		u.logger.Warnf("Failed to publish %s import event: %v", entity, e.Wrap(op, err))
	}

	if err := u.cacheRepo.InvalidateViews(ctx); err != nil {
		u.logger.Warnf("Failed to invalidate analytics cache: %v", e.Wrap(op, err))
	}
}

func validateCSVName(filename string) error {
	if !strings.HasSuffix(filename, ".csv") {
		return e.ErrCsvFileRequired
	}
	return nil
}
