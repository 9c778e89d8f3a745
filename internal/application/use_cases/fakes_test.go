package use_cases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

// memoryRepo is an in-memory ports.AuctionRepository with the same
// locking contract as the postgres implementation: GetItemForUpdate on
// a transactional repo holds a per-item lock until commit or rollback.
type memoryRepo struct {
	mu        sync.Mutex
	items     map[string]*auction.Item
	ledger    []*auction.Bid
	itemLocks map[string]*sync.Mutex

	txBegun int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		items:     make(map[string]*auction.Item),
		itemLocks: make(map[string]*sync.Mutex),
	}
}

func copyItem(i *auction.Item) *auction.Item {
	c := *i
	return &c
}

func (r *memoryRepo) lockForItem(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.itemLocks[id]; !ok {
		r.itemLocks[id] = &sync.Mutex{}
	}
	return r.itemLocks[id]
}

func (r *memoryRepo) GetItem(ctx context.Context, id string) (*auction.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainErrors.ErrItemNotFound
	}
	return copyItem(item), nil
}

func (r *memoryRepo) GetItemForUpdate(ctx context.Context, id string) (*auction.Item, error) {
	panic("GetItemForUpdate requires a transaction")
}

func (r *memoryRepo) CreateItem(ctx context.Context, item *auction.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = copyItem(item)
	return nil
}

func (r *memoryRepo) UpdateItem(ctx context.Context, item *auction.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domainErrors.ErrItemNotFound
	}
	r.items[item.ID] = copyItem(item)
	return nil
}

func (r *memoryRepo) UpdateItemPrice(ctx context.Context, id string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domainErrors.ErrItemNotFound
	}
	item.CurrentPrice = price
	return nil
}

func (r *memoryRepo) CloseItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domainErrors.ErrItemNotFound
	}
	item.Closed = true
	return nil
}

func (r *memoryRepo) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainErrors.ErrItemNotFound
	}
	delete(r.items, id)
	kept := r.ledger[:0]
	for _, b := range r.ledger {
		if b.ItemID != id {
			kept = append(kept, b)
		}
	}
	r.ledger = kept
	return nil
}

func (r *memoryRepo) ListItemsWithTopBids(ctx context.Context) ([]*auction.CatalogRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*auction.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	rows := make([]*auction.CatalogRow, 0, len(items))
	for _, item := range items {
		top := auction.HighestBid(r.bidsForItemLocked(item.ID))
		row := &auction.CatalogRow{Item: item, TopBidAmount: item.StartingPrice}
		if top != nil {
			row.TopBidAmount = top.Amount
			row.TopBidderName = top.BidderName
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *memoryRepo) bidsForItemLocked(itemID string) []*auction.Bid {
	var bids []*auction.Bid
	for _, b := range r.ledger {
		if b.ItemID == itemID {
			c := *b
			bids = append(bids, &c)
		}
	}
	return bids
}

func (r *memoryRepo) InsertBid(ctx context.Context, bid *auction.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *bid
	r.ledger = append(r.ledger, &c)
	return nil
}

func (r *memoryRepo) MaxBidAmount(ctx context.Context, itemID string) (decimal.Decimal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	top := auction.HighestBid(r.bidsForItemLocked(itemID))
	if top == nil {
		return decimal.Zero, false, nil
	}
	return top.Amount, true, nil
}

func (r *memoryRepo) BidsForItem(ctx context.Context, itemID string) ([]*auction.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bids := r.bidsForItemLocked(itemID)
	sort.SliceStable(bids, func(i, j int) bool {
		cmp := bids[i].Amount.Cmp(bids[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
	return bids, nil
}

func (r *memoryRepo) TopBidForItem(ctx context.Context, itemID string) (*auction.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return auction.HighestBid(r.bidsForItemLocked(itemID)), nil
}

func (r *memoryRepo) AllBids(ctx context.Context) ([]*auction.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bids := make([]*auction.Bid, 0, len(r.ledger))
	for _, b := range r.ledger {
		c := *b
		bids = append(bids, &c)
	}
	return bids, nil
}


func (r *memoryRepo) BeginTx(ctx context.Context) (ports.AuctionRepository, error) {
	r.mu.Lock()
	r.txBegun++
	r.mu.Unlock()
	return &memoryTxRepo{parent: r, stagedPrices: make(map[string]decimal.Decimal)}, nil
}

func (r *memoryRepo) CommitTx(ctx context.Context) error {
	panic("CommitTx outside a transaction")
}

func (r *memoryRepo) RollbackTx(ctx context.Context) error {
	panic("RollbackTx outside a transaction")
}

// memoryTxRepo stages writes and applies them on commit while holding
// the per-item locks taken by GetItemForUpdate.
type memoryTxRepo struct {
	parent       *memoryRepo
	held         []*sync.Mutex
	stagedBids   []*auction.Bid
	stagedPrices map[string]decimal.Decimal
	finished     bool
}

func (t *memoryTxRepo) GetItem(ctx context.Context, id string) (*auction.Item, error) {
	return t.parent.GetItem(ctx, id)
}

func (t *memoryTxRepo) GetItemForUpdate(ctx context.Context, id string) (*auction.Item, error) {
	lock := t.parent.lockForItem(id)
	lock.Lock()
	t.held = append(t.held, lock)
	return t.parent.GetItem(ctx, id)
}

func (t *memoryTxRepo) CreateItem(ctx context.Context, item *auction.Item) error {
	return t.parent.CreateItem(ctx, item)
}

func (t *memoryTxRepo) UpdateItem(ctx context.Context, item *auction.Item) error {
	return t.parent.UpdateItem(ctx, item)
}

func (t *memoryTxRepo) UpdateItemPrice(ctx context.Context, id string, price decimal.Decimal) error {
	t.stagedPrices[id] = price
	return nil
}

func (t *memoryTxRepo) CloseItem(ctx context.Context, id string) error {
	return t.parent.CloseItem(ctx, id)
}

func (t *memoryTxRepo) DeleteItem(ctx context.Context, id string) error {
	return t.parent.DeleteItem(ctx, id)
}

func (t *memoryTxRepo) ListItemsWithTopBids(ctx context.Context) ([]*auction.CatalogRow, error) {
	return t.parent.ListItemsWithTopBids(ctx)
}

func (t *memoryTxRepo) InsertBid(ctx context.Context, bid *auction.Bid) error {
	c := *bid
	t.stagedBids = append(t.stagedBids, &c)
	return nil
}

func (t *memoryTxRepo) MaxBidAmount(ctx context.Context, itemID string) (decimal.Decimal, bool, error) {
	return t.parent.MaxBidAmount(ctx, itemID)
}

func (t *memoryTxRepo) BidsForItem(ctx context.Context, itemID string) ([]*auction.Bid, error) {
	return t.parent.BidsForItem(ctx, itemID)
}

func (t *memoryTxRepo) TopBidForItem(ctx context.Context, itemID string) (*auction.Bid, error) {
	return t.parent.TopBidForItem(ctx, itemID)
}

func (t *memoryTxRepo) AllBids(ctx context.Context) ([]*auction.Bid, error) {
	return t.parent.AllBids(ctx)
}


func (t *memoryTxRepo) BeginTx(ctx context.Context) (ports.AuctionRepository, error) {
	panic("nested transaction")
}

func (t *memoryTxRepo) CommitTx(ctx context.Context) error {
	if t.finished {
		return nil
	}
	t.parent.mu.Lock()
	for _, b := range t.stagedBids {
		t.parent.ledger = append(t.parent.ledger, b)
	}
	for id, price := range t.stagedPrices {
		if item, ok := t.parent.items[id]; ok {
			item.CurrentPrice = price
		}
	}
	t.parent.mu.Unlock()
	t.release()
	return nil
}

func (t *memoryTxRepo) RollbackTx(ctx context.Context) error {
	if t.finished {
		return nil
	}
	t.release()
	return nil
}

func (t *memoryTxRepo) release() {
	t.finished = true
	for _, lock := range t.held {
		lock.Unlock()
	}
	t.held = nil
}

// fakeCache implements ports.Cache in memory.
type fakeCache struct {
	mu      sync.Mutex
	topBids map[string]*ports.TopBidSummary
	closed  map[string]bool
	locks   map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		topBids: make(map[string]*ports.TopBidSummary),
		closed:  make(map[string]bool),
		locks:   make(map[string]bool),
	}
}

func (c *fakeCache) GetTopBid(ctx context.Context, itemID string) (*ports.TopBidSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.topBids[itemID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (c *fakeCache) UpdateTopBid(ctx context.Context, itemID string, amount decimal.Decimal, bidderName string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.topBids[itemID]; ok && existing.Amount.Cmp(amount) >= 0 {
		return nil
	}
	c.topBids[itemID] = &ports.TopBidSummary{Amount: amount, BidderName: bidderName}
	return nil
}

func (c *fakeCache) InvalidateItem(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.topBids, itemID)
	delete(c.closed, itemID)
	return nil
}

func (c *fakeCache) MarkItemClosed(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed[itemID] = true
	return nil
}

func (c *fakeCache) IsItemClosed(ctx context.Context, itemID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed[itemID], nil
}

func (c *fakeCache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *fakeCache) ReleaseLock(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu         sync.Mutex
	bidEvents  []ports.BidAcceptedEvent
	closeEvent []ports.AuctionClosedEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{}
}

func (p *fakePublisher) PublishBidAccepted(ctx context.Context, event ports.BidAcceptedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bidEvents = append(p.bidEvents, event)
	return nil
}

func (p *fakePublisher) PublishAuctionClosed(ctx context.Context, event ports.AuctionClosedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeEvent = append(p.closeEvent, event)
	return nil
}

// fakeNotifier records winner notifications and can be made to fail.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{}
}

func (n *fakeNotifier) NotifyWinner(ctx context.Context, bidderName, itemID string, amount decimal.Decimal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.calls = append(n.calls, bidderName+"/"+itemID+"/"+amount.String())
	return nil
}
