package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomservice/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	itemCacheKey   = "item:%d"
	statusCacheKey = "order_status:%d"

	itemCacheTTL   = time.Minute
	statusCacheTTL = 5 * time.Minute

	itemLoadTimeout = 3 * time.Second
)

// getItemWithCache reads through redis to the item repository. Concurrent
// misses for the same id share one repository lookup.
func (u *OrderService) getItemWithCache(ctx context.Context, id uint64) (*domain.Item, error) {
	key := fmt.Sprintf(itemCacheKey, id)

	if u.redisClient != nil {
		if cached, err := u.redisClient.Get(ctx, key).Bytes(); err == nil {
			var it domain.Item
			if err := json.Unmarshal(cached, &it); err == nil {
				return &it, nil
			}
		}
	}

	v, err, _ := u.itemLoads.Do(key, func() (any, error) {
		// Every waiter shares this lookup, so it outlives the caller that started it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), itemLoadTimeout)
		defer cancel()
		return u.items.FindByID(loadCtx, id)
	})
	if err != nil {
		return nil, err
	}
	it := v.(*domain.Item)
	if it == nil {
		return nil, nil
	}

	u.cacheItem(ctx, key, it, itemCacheTTL)
	return it, nil
}

func (u *OrderService) cacheItem(ctx context.Context, key string, it *domain.Item, ttl time.Duration) {
	if u.redisClient == nil {
		return
	}
	data, err := json.Marshal(it)
	if err != nil {
		return
	}
	if err := u.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		u.log.Warn("item cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// WarmupItemCache loads the whole catalog into redis.
func (u *OrderService) WarmupItemCache(ctx context.Context) error {
	if u.redisClient == nil {
		return nil
	}
	items, err := u.items.List(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		u.cacheItem(ctx, fmt.Sprintf(itemCacheKey, items[i].ID), &items[i], 5*time.Minute)
	}
	return nil
}

func (u *OrderService) cachedStatus(ctx context.Context, id uint64) (*domain.StatusView, bool) {
	if u.redisClient == nil {
		return nil, false
	}
	b, err := u.redisClient.Get(ctx, fmt.Sprintf(statusCacheKey, id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			u.log.Warn("status cache read failed", zap.Uint64("order_id", id), zap.Error(err))
		}
		return nil, false
	}
	var v domain.StatusView
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func (u *OrderService) cacheStatus(ctx context.Context, id uint64, v domain.StatusView) {
	if u.redisClient == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = u.redisClient.Set(ctx, fmt.Sprintf(statusCacheKey, id), b, statusCacheTTL).Err()
}

func (u *OrderService) invalidateStatus(ctx context.Context, id uint64) {
	if u.redisClient == nil {
		return
	}
	if err := u.redisClient.Del(ctx, fmt.Sprintf(statusCacheKey, id)).Err(); err != nil {
		u.log.Warn("status cache invalidation failed", zap.Uint64("order_id", id), zap.Error(err))
	}
}
