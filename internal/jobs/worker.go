package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StartWorker polls for pending jobs until the context is cancelled.
func (m *Manager) StartWorker(ctx context.Context, interval time.Duration) {
	if interval == 0 {
		interval = 5 * time.Second
	}

	m.logger.Info("job worker started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("job worker stopping")
			return
		case <-ticker.C:
			m.processNextJob(ctx)
		}
	}
}

func (m *Manager) processNextJob(ctx context.Context) {
	query := `
		SELECT id, url
		FROM scrape_jobs
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	var jobID uuid.UUID
	var url string
	if err := m.db.QueryRow(ctx, query).Scan(&jobID, &url); err != nil {
		// No pending jobs.
		return
	}

	m.logger.Info("processing job", "id", jobID, "url", url)

	if err := m.markRunning(ctx, jobID); err != nil {
		m.logger.Error("failed to mark job running", "id", jobID, "error", err)
		return
	}

	scrapeID, err := m.runJob(ctx, url)
	if err != nil {
		m.logger.Error("job failed", "id", jobID, "error", err)
		if markErr := m.markFailed(ctx, jobID, err); markErr != nil {
			m.logger.Error("failed to mark job failed", "id", jobID, "error", markErr)
		}
		return
	}

	if err := m.markCompleted(ctx, jobID, scrapeID); err != nil {
		m.logger.Error("failed to mark job completed", "id", jobID, "error", err)
		return
	}

	m.logger.Info("job completed", "id", jobID, "scrape_id", scrapeID)
}

// runJob scrapes the product page and persists the result with its event.
func (m *Manager) runJob(ctx context.Context, url string) (uuid.UUID, error) {
	product, err := m.scraper.Scrape(ctx, url)
	if err != nil {
		return uuid.Nil, err
	}

	rec, err := m.publisher.PublishScrape(ctx, url, product)
	if err != nil {
		return uuid.Nil, err
	}

	return rec.ID, nil
}
