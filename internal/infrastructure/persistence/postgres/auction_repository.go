package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
)

// AuctionRepository persists items and the bid ledger. A transactional
// copy (from BeginTx) runs every statement on the transaction; the
// per-item critical section is a row lock taken by GetItemForUpdate
// and held until commit or rollback.
type AuctionRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	isTx bool
}

func NewAuctionRepository(conn *Connection) *AuctionRepository {
	return &AuctionRepository{
		db:   conn.GetDB(),
		isTx: false,
	}
}

// translateConflict maps serialization failures and deadlocks onto the
// domain conflict error so the engine can retry with fresh state.
func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "40001", "40P01":
			return domainErrors.ErrBidConflict
		}
	}
	return err
}

const itemColumns = `id, title, description, image_url, starting_price, current_price, is_closed, created_at`

func (r *AuctionRepository) scanItem(row *sql.Row) (*auction.Item, error) {
	var item auction.Item
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.ImageURL,
		&item.StartingPrice, &item.CurrentPrice, &item.Closed, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, translateConflict(err)
	}
	return &item, nil
}

func (r *AuctionRepository) GetItem(ctx context.Context, id string) (*auction.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	var row *sql.Row
	if r.isTx {
		row = r.tx.QueryRowContext(ctx, query, id)
	} else {
		row = monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "items", query, id)
	}

	return r.scanItem(row)
}

// GetItemForUpdate locks the item row for the rest of the transaction.
// Only valid on a transactional repository.
func (r *AuctionRepository) GetItemForUpdate(ctx context.Context, id string) (*auction.Item, error) {
	if !r.isTx {
		return nil, errors.New("for-update read requires a transaction")
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanItem(r.tx.QueryRowContext(ctx, query, id))
}

func (r *AuctionRepository) CreateItem(ctx context.Context, item *auction.Item) error {
	query := `
		INSERT INTO items (id, title, description, image_url, starting_price, current_price, is_closed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var err error
	if r.isTx {
		_, err = r.tx.ExecContext(ctx, query,
			item.ID, item.Title, item.Description, item.ImageURL,
			item.StartingPrice, item.CurrentPrice, item.Closed, item.CreatedAt,
		)
	} else {
		_, err = monitoring.InstrumentExec(ctx, r.db, "INSERT", "items", query,
			item.ID, item.Title, item.Description, item.ImageURL,
			item.StartingPrice, item.CurrentPrice, item.Closed, item.CreatedAt,
		)
	}

	return err
}

func (r *AuctionRepository) UpdateItem(ctx context.Context, item *auction.Item) error {
	query := `
		UPDATE items
		SET title = $2, description = $3, image_url = $4
		WHERE id = $1
	`

	var result sql.Result
	var err error
	if r.isTx {
		result, err = r.tx.ExecContext(ctx, query, item.ID, item.Title, item.Description, item.ImageURL)
	} else {
		result, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "items", query,
			item.ID, item.Title, item.Description, item.ImageURL,
		)
	}
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrItemNotFound
	}
	return nil
}

func (r *AuctionRepository) UpdateItemPrice(ctx context.Context, id string, price decimal.Decimal) error {
	query := `UPDATE items SET current_price = $2 WHERE id = $1`

	var err error
	if r.isTx {
		_, err = r.tx.ExecContext(ctx, query, id, price)
	} else {
		_, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "items", query, id, price)
	}
	return err
}

// CloseItem is idempotent: closing an already closed item affects one
// row again and stays closed.
func (r *AuctionRepository) CloseItem(ctx context.Context, id string) error {
	query := `UPDATE items SET is_closed = TRUE WHERE id = $1`

	var result sql.Result
	var err error
	if r.isTx {
		result, err = r.tx.ExecContext(ctx, query, id)
	} else {
		result, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "items", query, id)
	}
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes the item and its whole ledger in one transaction
// so no orphan bids can survive.
func (r *AuctionRepository) DeleteItem(ctx context.Context, id string) error {
	var tx *sql.Tx
	var err error

	if r.isTx {
		tx = r.tx
	} else {
		tx, err = r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				tx.Rollback()
			}
		}()
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bids WHERE item_id = $1`, id); err != nil {
		return err
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, raErr := result.RowsAffected()
	if raErr != nil {
		err = raErr
		return err
	}
	if affected == 0 {
		err = domainErrors.ErrItemNotFound
		return err
	}

	if !r.isTx {
		return tx.Commit()
	}
	return nil
}

func (r *AuctionRepository) ListItemsWithTopBids(ctx context.Context) ([]*auction.CatalogRow, error) {
	query := `
		SELECT i.id, i.title, i.description, i.image_url, i.starting_price, i.current_price, i.is_closed, i.created_at,
		       b.amount, b.bidder_name
		FROM items i
		LEFT JOIN LATERAL (
			SELECT amount, bidder_name
			FROM bids
			WHERE item_id = i.id
			ORDER BY amount DESC, created_at ASC
			LIMIT 1
		) b ON TRUE
		ORDER BY i.created_at DESC
	`

	var rows *sql.Rows
	var err error
	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "items", query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*auction.CatalogRow
	for rows.Next() {
		var item auction.Item
		var topAmount decimal.NullDecimal
		var topBidder sql.NullString

		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.ImageURL,
			&item.StartingPrice, &item.CurrentPrice, &item.Closed, &item.CreatedAt,
			&topAmount, &topBidder,
		)
		if err != nil {
			return nil, err
		}

		row := &auction.CatalogRow{Item: &item, TopBidAmount: item.StartingPrice}
		if topAmount.Valid {
			row.TopBidAmount = topAmount.Decimal
		}
		if topBidder.Valid {
			row.TopBidderName = topBidder.String
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *AuctionRepository) InsertBid(ctx context.Context, bid *auction.Bid) error {
	query := `
		INSERT INTO bids (id, item_id, bidder_id, bidder_name, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var err error
	if r.isTx {
		_, err = r.tx.ExecContext(ctx, query,
			bid.ID, bid.ItemID, bid.BidderID, bid.BidderName, bid.Amount, bid.CreatedAt,
		)
	} else {
		_, err = monitoring.InstrumentExec(ctx, r.db, "INSERT", "bids", query,
			bid.ID, bid.ItemID, bid.BidderID, bid.BidderName, bid.Amount, bid.CreatedAt,
		)
	}
	if err != nil {
		return translateConflict(err)
	}
	return nil
}

func (r *AuctionRepository) MaxBidAmount(ctx context.Context, itemID string) (decimal.Decimal, bool, error) {
	query := `SELECT MAX(amount) FROM bids WHERE item_id = $1`

	var row *sql.Row
	if r.isTx {
		row = r.tx.QueryRowContext(ctx, query, itemID)
	} else {
		row = monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "bids", query, itemID)
	}

	var max decimal.NullDecimal
	if err := row.Scan(&max); err != nil {
		return decimal.Zero, false, err
	}
	if !max.Valid {
		return decimal.Zero, false, nil
	}
	return max.Decimal, true, nil
}

const bidColumns = `id, item_id, bidder_id, bidder_name, amount, created_at`

func scanBids(rows *sql.Rows) ([]*auction.Bid, error) {
	var bids []*auction.Bid
	for rows.Next() {
		var bid auction.Bid
		err := rows.Scan(&bid.ID, &bid.ItemID, &bid.BidderID, &bid.BidderName, &bid.Amount, &bid.CreatedAt)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}
	return bids, rows.Err()
}

func (r *AuctionRepository) BidsForItem(ctx context.Context, itemID string) ([]*auction.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE item_id = $1
		ORDER BY amount DESC, created_at ASC
	`

	var rows *sql.Rows
	var err error
	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query, itemID)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "bids", query, itemID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBids(rows)
}

func (r *AuctionRepository) TopBidForItem(ctx context.Context, itemID string) (*auction.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE item_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1
	`

	var row *sql.Row
	if r.isTx {
		row = r.tx.QueryRowContext(ctx, query, itemID)
	} else {
		row = monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "bids", query, itemID)
	}

	var bid auction.Bid
	err := row.Scan(&bid.ID, &bid.ItemID, &bid.BidderID, &bid.BidderName, &bid.Amount, &bid.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

func (r *AuctionRepository) AllBids(ctx context.Context) ([]*auction.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids ORDER BY created_at DESC`

	var rows *sql.Rows
	var err error
	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "bids", query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBids(rows)
}

func (r *AuctionRepository) BeginTx(ctx context.Context) (ports.AuctionRepository, error) {
	if r.isTx {
		return nil, errors.New("transaction already started")
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, err
	}

	return &AuctionRepository{
		db:   r.db,
		tx:   tx,
		isTx: true,
	}, nil
}

func (r *AuctionRepository) CommitTx(ctx context.Context) error {
	if !r.isTx {
		return errors.New("no transaction to commit")
	}
	if err := r.tx.Commit(); err != nil {
		return translateConflict(err)
	}
	return nil
}

func (r *AuctionRepository) RollbackTx(ctx context.Context) error {
	if !r.isTx {
		return errors.New("no transaction to rollback")
	}
	return r.tx.Rollback()
}
