package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrScrapeNotFound = errors.New("scrape not found")

// ScrapeRecord is one persisted scrape result. The seller block is kept
// as the serialized record, sentinels included.
type ScrapeRecord struct {
	ID          uuid.UUID       `db:"id"`
	URL         string          `db:"url"`
	Title       string          `db:"title"`
	Brand       string          `db:"brand"`
	Price       string          `db:"price"`
	Rating      string          `db:"rating"`
	Reviews     string          `db:"reviews"`
	Description string          `db:"description"`
	ImageCount  int             `db:"image_count"`
	Images      json.RawMessage `db:"images"`
	Seller      json.RawMessage `db:"seller"`
	CreatedAt   time.Time       `db:"created_at"`
}

// InsertScrapeTx inserts a scrape record within a transaction so that it
// commits atomically with its outbox event.
func (db *DB) InsertScrapeTx(ctx context.Context, tx pgx.Tx, rec *ScrapeRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO scrapes (id, url, title, brand, price, rating, reviews, description, image_count, images, seller, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		rec.ID, rec.URL, rec.Title, rec.Brand, rec.Price, rec.Rating,
		rec.Reviews, rec.Description, rec.ImageCount, rec.Images, rec.Seller, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scrape: %w", err)
	}

	return nil
}

func (db *DB) GetScrape(ctx context.Context, id uuid.UUID) (*ScrapeRecord, error) {
	query := `
		SELECT id, url, title, brand, price, rating, reviews, description, image_count, images, seller, created_at
		FROM scrapes
		WHERE id = $1`

	rec := &ScrapeRecord{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.URL, &rec.Title, &rec.Brand, &rec.Price, &rec.Rating,
		&rec.Reviews, &rec.Description, &rec.ImageCount, &rec.Images, &rec.Seller, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrScrapeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrape: %w", err)
	}

	return rec, nil
}

// ListScrapes returns the most recent scrape records, newest first.
func (db *DB) ListScrapes(ctx context.Context, limit int) ([]*ScrapeRecord, error) {
	query := `
		SELECT id, url, title, brand, price, rating, reviews, description, image_count, images, seller, created_at
		FROM scrapes
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrapes: %w", err)
	}
	defer rows.Close()

	var records []*ScrapeRecord
	for rows.Next() {
		rec := &ScrapeRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.URL, &rec.Title, &rec.Brand, &rec.Price, &rec.Rating,
			&rec.Reviews, &rec.Description, &rec.ImageCount, &rec.Images, &rec.Seller, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scrape: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func (db *DB) CountScrapes(ctx context.Context) (int64, error) {
	var count int64
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scrapes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scrapes: %w", err)
	}
	return count, nil
}
