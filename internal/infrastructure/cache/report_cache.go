package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReportTTL vigencia de un reporte cacheado si nadie lo invalida antes.
const DefaultReportTTL = time.Minute

// ReportCache caché read-through de reportes. Las transacciones invalidan las claves
// que tocan; las lecturas la llenan.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, branchID int64, productIDs []int64) error
}

// ProductReportKey clave de caché del reporte de un producto.
func ProductReportKey(productID int64) string {
	return fmt.Sprintf("reports:product:%d", productID)
}

// BranchReportKey clave de caché del reporte de una sucursal.
func BranchReportKey(branchID int64) string {
	return fmt.Sprintf("reports:branch:%d", branchID)
}

// redisClient subconjunto de *redis.Client usado por la caché.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisReportCache guarda los reportes como JSON.
type RedisReportCache struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisReportCache construye la caché. ttl <= 0 usa DefaultReportTTL.
func NewRedisReportCache(client redisClient, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, ttl: ttl}
}

func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decodificar %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate borra la sucursal y los productos tocados con un único DEL.
func (c *RedisReportCache) Invalidate(ctx context.Context, branchID int64, productIDs []int64) error {
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, BranchReportKey(branchID))
	seen := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, ProductReportKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NoopReportCache se usa cuando no hay Redis configurado: nunca acierta y no guarda nada.
type NoopReportCache struct{}

func (NoopReportCache) Get(context.Context, string, any) (bool, error)   { return false, nil }
func (NoopReportCache) Set(context.Context, string, any) error           { return nil }
func (NoopReportCache) Invalidate(context.Context, int64, []int64) error { return nil }
