package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/maltedev/dealwatch/internal/models"
)

var ErrItemNotFound = errors.New("watch item not found")

// ListItems returns the full shopping list in insertion order.
func (db *DB) ListItems(ctx context.Context) ([]*models.WatchItem, error) {
	query := `
		SELECT id, name, target_price, current_price, url, retailer, updated_at, created_at
		FROM watch_item
		ORDER BY id ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.WatchItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// GetItem returns a single watch item by ID.
func (db *DB) GetItem(ctx context.Context, id int64) (*models.WatchItem, error) {
	query := `
		SELECT id, name, target_price, current_price, url, retailer, updated_at, created_at
		FROM watch_item
		WHERE id = $1`

	row := db.pool.QueryRow(ctx, query, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// AddItem inserts a new watch item and fills in its ID and CreatedAt.
func (db *DB) AddItem(ctx context.Context, item *models.WatchItem) error {
	query := `
		INSERT INTO watch_item (name, target_price)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := db.pool.QueryRow(ctx, query, item.Name, item.TargetPrice).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	return nil
}

// UpdateItemPrice records a newly discovered best price for an item.
func (db *DB) UpdateItemPrice(ctx context.Context, id int64, price float64, url string, retailer models.Retailer) error {
	query := `
		UPDATE watch_item
		SET current_price = $2, url = $3, retailer = $4, updated_at = $5
		WHERE id = $1`

	result, err := db.pool.Exec(ctx, query, id, price, url, retailer, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update item price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// RecordObservation appends one row of price history for an item.
// Absent lookups are not recorded; the history only holds real
// sightings.
func (db *DB) RecordObservation(ctx context.Context, itemID int64, match *models.ProductMatch) error {
	query := `
		INSERT INTO price_observation (item_id, retailer, price, url, observed_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := db.pool.Exec(ctx, query, itemID, match.Retailer, match.Price, match.URL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record observation: %w", err)
	}

	return nil
}

func scanItem(row pgx.Row) (*models.WatchItem, error) {
	item := &models.WatchItem{}
	var url, retailer *string

	err := row.Scan(
		&item.ID, &item.Name, &item.TargetPrice, &item.CurrentPrice,
		&url, &retailer, &item.UpdatedAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if url != nil {
		item.URL = *url
	}
	if retailer != nil {
		item.Retailer = models.Retailer(*retailer)
	}

	return item, nil
}
