package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
	"github.com/smartmart-io/go-backend/internal/cfg"
	"github.com/smartmart-io/go-backend/internal/usecase"
	"github.com/smartmart-io/go-backend/pkg/clients"
	"github.com/smartmart-io/go-backend/pkg/e"
	"github.com/smartmart-io/go-backend/pkg/logger"
)

// viewKeys — полный набор ключей аналитических выборок.
// InvalidateViews сбрасывает их все разом: любая запись меняет агрегаты.
var viewKeys = []string{
	viewKey(usecase.ViewSalesSummary),
	viewKey(usecase.ViewTopProducts),
	viewKey(usecase.ViewCategorySales),
	viewKey(usecase.ViewMonthlySales),
}

type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetView читает сериализованную выборку из кэша.
// Промах возвращается как ok=false без ошибки.
func (r *CacheRepo) GetView(ctx context.Context, view string, dest any) (bool, error) {
	data, err := r.client.Client.Get(ctx, viewKey(view)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Warnf("Cache unmarshal failed for view %s: %v", view, err)
		if err := r.client.Client.Del(context.Background(), viewKey(view)).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return false, nil
	}

	return true, nil
}

// SetView кэширует выборку с TTL из конфигурации.
func (r *CacheRepo) SetView(ctx context.Context, view string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, viewKey(view), data, r.cfg.AnalyticsTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateViews удаляет все аналитические выборки из кэша.
func (r *CacheRepo) InvalidateViews(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, viewKeys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func viewKey(view string) string {
	return "analytics:" + view
}
