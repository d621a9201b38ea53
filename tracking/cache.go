package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/sepatu-storefront/redisx"
	"github.com/yeremiapane/sepatu-storefront/utils"
)

// Cache menyimpan hasil tracking yang sudah dinormalisasi.
type Cache interface {
	Get(ctx context.Context, courier Courier, waybill string) (*Tracking, bool)
	Set(ctx context.Context, courier Courier, waybill string, t *Tracking)
}

type NopCache struct{}

func (NopCache) Get(context.Context, Courier, string) (*Tracking, bool) { return nil, false }
func (NopCache) Set(context.Context, Courier, string, *Tracking)        {}

// redisKV adalah bagian dari *redis.Client yang dipakai cache.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type RedisCache struct {
	rdb redisKV
	ttl time.Duration
}

func NewRedisCache(rdb redisKV) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: redisx.TrackingTTL}
}

func cacheKey(courier Courier, waybill string) string {
	return fmt.Sprintf(redisx.TrackingKeyFormat, courier, waybill)
}

func (c *RedisCache) Get(ctx context.Context, courier Courier, waybill string) (*Tracking, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(courier, waybill)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Warnf("redis get tracking %s: %v", waybill, err)
		}
		return nil, false
	}

	var t Tracking
	if err := json.Unmarshal(raw, &t); err != nil {
		utils.ErrorLogger.Warnf("redis tracking %s rusak: %v", waybill, err)
		return nil, false
	}
	return &t, true
}

// Set gagal secara diam-diam; cache tidak boleh membuat request pelacakan gagal.
func (c *RedisCache) Set(ctx context.Context, courier Courier, waybill string, t *Tracking) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(courier, waybill), data, c.ttl).Err(); err != nil {
		utils.ErrorLogger.Warnf("redis set tracking %s: %v", waybill, err)
	}
}
