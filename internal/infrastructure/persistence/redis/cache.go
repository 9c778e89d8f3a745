package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

const closedItemsKey = "items:closed"

// Cache keeps a monotonic view of each item's top bid plus the set of
// closed items. Both are advisory: entries only ever move in the same
// direction as the authoritative store, so a cache hit can reject a
// bid early but never accept one.
type Cache struct {
	client *redis.Client
	logger *logger.Logger

	topBidScript *redis.Script
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &Cache{
		client:       client,
		logger:       log,
		topBidScript: redis.NewScript(topBidLuaScript),
	}
}

func topBidKey(itemID string) string {
	return fmt.Sprintf("item:%s:top_bid", itemID)
}

func (c *Cache) GetTopBid(ctx context.Context, itemID string) (*ports.TopBidSummary, error) {
	fields, err := c.client.HGetAll(ctx, topBidKey(itemID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	amount, err := decimal.NewFromString(fields["amount"])
	if err != nil {
		return nil, fmt.Errorf("corrupt cached top bid for %s: %w", itemID, err)
	}

	return &ports.TopBidSummary{
		Amount:     amount,
		BidderName: fields["bidder_name"],
	}, nil
}

// UpdateTopBid raises the cached top bid, never lowers it. Concurrent
// writers racing after commit therefore converge on the maximum.
func (c *Cache) UpdateTopBid(ctx context.Context, itemID string, amount decimal.Decimal, bidderName string, ttl time.Duration) error {
	keys := []string{topBidKey(itemID)}
	args := []interface{}{amount.String(), bidderName, int(ttl.Seconds())}

	return c.topBidScript.Run(ctx, c.client, keys, args...).Err()
}

func (c *Cache) InvalidateItem(ctx context.Context, itemID string) error {
	return c.client.Del(ctx, topBidKey(itemID)).Err()
}

func (c *Cache) MarkItemClosed(ctx context.Context, itemID string) error {
	return c.client.SAdd(ctx, closedItemsKey, itemID).Err()
}

func (c *Cache) IsItemClosed(ctx context.Context, itemID string) (bool, error) {
	return c.client.SIsMember(ctx, closedItemsKey, itemID).Result()
}

func (c *Cache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	result, err := c.client.SetNX(ctx, lockKey, "1", expiration).Result()
	if err == nil {
		if result {
			monitoring.RedisLockSuccessTotal.WithLabelValues(key).Inc()
		} else {
			monitoring.RedisLockFailureTotal.WithLabelValues(key, "already_locked").Inc()
		}
	} else {
		monitoring.RedisLockFailureTotal.WithLabelValues(key, "redis_error").Inc()
	}
	return result, err
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	return c.client.Del(ctx, lockKey).Err()
}

const topBidLuaScript = `
	local key = KEYS[1]
	local amount = tonumber(ARGV[1])
	local bidder = ARGV[2]
	local ttl = tonumber(ARGV[3])

	local current = tonumber(redis.call('HGET', key, 'amount'))
	if current and current >= amount then
		return 0
	end

	redis.call('HSET', key, 'amount', ARGV[1], 'bidder_name', bidder)
	if ttl > 0 then
		redis.call('EXPIRE', key, ttl)
	end

	return 1
`
