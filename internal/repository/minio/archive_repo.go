package minio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/smartmart-io/go-backend/internal/cfg"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/jitter"
)

const (
	archiveContentType = "text/csv"

	maxPutAttempts = 3
	retryBase      = 200 * time.Millisecond
	retryMax       = 2 * time.Second
)

// ArchiveRepo сохраняет исходные CSV-файлы импорта в MinIO.
type ArchiveRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewArchiveRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ArchiveRepo {
	return &ArchiveRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// ArchiveCSV загружает файл в бакет и возвращает ключ объекта.
// Запись повторяется с экспоненциальным отступлением; ключ включает UUID,
// поэтому повторные загрузки одного файла не перетирают друг друга.
func (a *ArchiveRepo) ArchiveCSV(ctx context.Context, req *usecase.ArchiveCSVReq) (string, error) {
	key := a.objectKey(req)

	var lastErr error
	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", e.Wrap(whereami.WhereAmI(), ctx.Err())
			case <-time.After(jitter.ExponentialBackoff(retryBase, retryMax, attempt-1, jitter.DefaultJitter)):
			}
		}

		reader := bytes.NewReader(req.Data)
		info, err := a.mc.PutObject(ctx, a.cfg.BucketName, key, reader, int64(len(req.Data)), minio.PutObjectOptions{
			ContentType: archiveContentType,
		})
		if err == nil {
			return info.Key, nil
		}
		lastErr = err
	}

	return "", e.Wrap(whereami.WhereAmI(), lastErr)
}

func (a *ArchiveRepo) objectKey(req *usecase.ArchiveCSVReq) string {
	return fmt.Sprintf("uploads/%s/%s-%s.csv",
		req.Entity, time.Now().UTC().Format("20060102T150405"), uuid.NewString())
}
