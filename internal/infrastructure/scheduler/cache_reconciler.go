package scheduler

import (
	"context"
	"time"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

const reconcileLockKey = "cache_reconcile"

// CacheReconciler periodically re-derives the cached top bid of every
// open item from the authoritative store. The cache is written
// monotonically, so a reconcile pass can only catch it up, never
// regress it. A distributed lock keeps concurrent replicas from
// reconciling at the same time.
type CacheReconciler struct {
	repo     ports.AuctionRepository
	cache    ports.Cache
	logger   *logger.Logger
	interval time.Duration
	cacheTTL time.Duration
	stopChan chan struct{}
}

func NewCacheReconciler(
	repo ports.AuctionRepository,
	cache ports.Cache,
	log *logger.Logger,
	interval time.Duration,
) *CacheReconciler {
	return &CacheReconciler{
		repo:     repo,
		cache:    cache,
		logger:   log,
		interval: interval,
		cacheTTL: time.Hour,
		stopChan: make(chan struct{}),
	}
}

func (r *CacheReconciler) Start(ctx context.Context) {
	r.logger.Info("Starting cache reconciler", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Cache reconciler stopped")
			return
		case <-r.stopChan:
			r.logger.Info("Cache reconciler stopped")
			return
		case <-ticker.C:
			if err := r.reconcile(ctx); err != nil {
				r.logger.Error("Cache reconcile pass failed", "error", err)
			}
		}
	}
}

func (r *CacheReconciler) Stop() {
	close(r.stopChan)
}

func (r *CacheReconciler) reconcile(ctx context.Context) error {
	acquired, err := r.cache.DistributedLock(ctx, reconcileLockKey, r.interval)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}
	defer r.cache.ReleaseLock(ctx, reconcileLockKey)

	rows, err := r.repo.ListItemsWithTopBids(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, row := range rows {
		if row.Item.Closed {
			if err := r.cache.MarkItemClosed(ctx, row.Item.ID); err != nil {
				r.logger.Warn("Failed to mark item closed in cache", "item_id", row.Item.ID, "error", err)
			}
			continue
		}

		top, err := r.repo.TopBidForItem(ctx, row.Item.ID)
		if err != nil {
			r.logger.Warn("Failed to load top bid", "item_id", row.Item.ID, "error", err)
			continue
		}
		if top == nil {
			continue
		}

		if err := r.cache.UpdateTopBid(ctx, row.Item.ID, top.Amount, top.BidderName, r.cacheTTL); err != nil {
			r.logger.Warn("Failed to refresh cached top bid", "item_id", row.Item.ID, "error", err)
			continue
		}
		refreshed++
	}

	r.logger.Info("Cache reconcile pass finished", "items", len(rows), "refreshed", refreshed)
	return nil
}
