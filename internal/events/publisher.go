package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maltedev/amazon-seller-scraper/internal/database"
	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

const (
	// EventTypeProductScraped announces a finished scrape.
	EventTypeProductScraped = "PRODUCT_SCRAPED"

	aggregateTypeScrape = "scrape"
)

// ProductScrapedPayload is the event body put on the stream for every
// persisted scrape.
type ProductScrapedPayload struct {
	ScrapeID  string          `json:"scrape_id"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Price     string          `json:"price"`
	Rating    string          `json:"rating"`
	Seller    json.RawMessage `json:"seller"`
	ScrapedAt time.Time       `json:"scraped_at"`
}

// Publisher persists scrape results and their events atomically through
// the outbox.
type Publisher struct {
	db     *database.DB
	outbox *database.OutboxRepository
	logger *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "publisher"),
	}
}

// buildScrapeRecord flattens the assembled product into its stored form.
// Images and the seller block are kept as serialized JSON, sentinels
// included.
func buildScrapeRecord(url string, product *models.Product) (*database.ScrapeRecord, error) {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	seller, err := json.Marshal(product.SellerDetails)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seller details: %w", err)
	}

	return &database.ScrapeRecord{
		URL:         url,
		Title:       product.Title,
		Brand:       product.Brand,
		Price:       product.Price,
		Rating:      product.Rating,
		Reviews:     product.Reviews,
		Description: product.Description,
		ImageCount:  product.ImageCount,
		Images:      images,
		Seller:      seller,
	}, nil
}

// PublishScrape writes the scrape record and a PRODUCT_SCRAPED outbox
// event in one transaction, and returns the stored record.
func (p *Publisher) PublishScrape(ctx context.Context, url string, product *models.Product) (*database.ScrapeRecord, error) {
	rec, err := buildScrapeRecord(url, product)
	if err != nil {
		return nil, err
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := p.db.InsertScrapeTx(ctx, tx, rec); err != nil {
			return err
		}

		payload, err := json.Marshal(ProductScrapedPayload{
			ScrapeID:  rec.ID.String(),
			URL:       url,
			Title:     product.Title,
			Price:     product.Price,
			Rating:    product.Rating,
			Seller:    rec.Seller,
			ScrapedAt: rec.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		event := &database.OutboxEvent{
			AggregateType: aggregateTypeScrape,
			AggregateID:   rec.ID.String(),
			EventType:     EventTypeProductScraped,
			Payload:       payload,
		}

		return p.outbox.InsertWithTx(ctx, tx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish scrape: %w", err)
	}

	p.logger.Info("scrape published",
		"scrape_id", rec.ID,
		"url", url,
		"title", product.Title)

	return rec, nil
}
