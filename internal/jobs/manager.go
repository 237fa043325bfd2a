package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maltedev/amazon-seller-scraper/internal/database"
	"github.com/maltedev/amazon-seller-scraper/internal/events"
	"github.com/maltedev/amazon-seller-scraper/internal/scraper"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrJobNotFound = errors.New("job not found")

type Manager struct {
	db        *database.DB
	scraper   *scraper.AmazonScraper
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewManager(db *database.DB, sc *scraper.AmazonScraper, publisher *events.Publisher, logger *slog.Logger) *Manager {
	return &Manager{
		db:        db,
		scraper:   sc,
		publisher: publisher,
		logger:    logger.With("component", "job_manager"),
	}
}

// Job is one queued scrape of a product page.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	URL         string     `json:"url"`
	Status      string     `json:"status"`
	ScrapeID    *uuid.UUID `json:"scrape_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Stats summarizes job and scrape counts.
type Stats struct {
	TotalJobs     int     `json:"total_jobs"`
	PendingJobs   int     `json:"pending_jobs"`
	RunningJobs   int     `json:"running_jobs"`
	CompletedJobs int     `json:"completed_jobs"`
	FailedJobs    int     `json:"failed_jobs"`
	TotalScrapes  int64   `json:"total_scrapes"`
	SuccessRate   float64 `json:"success_rate"`
}

// CreateJob enqueues a scrape for the given product URL.
func (m *Manager) CreateJob(ctx context.Context, url string) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		URL:       url,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO scrape_jobs (id, url, status, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := m.db.Exec(ctx, query, job.ID, job.URL, job.Status, job.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	m.logger.Info("job created", "id", job.ID, "url", url)
	return job, nil
}

// GetJob retrieves a job by ID.
func (m *Manager) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `
		SELECT id, url, status, scrape_id, error, created_at, started_at, completed_at
		FROM scrape_jobs
		WHERE id = $1`

	job := &Job{}
	var errMsg *string
	err := m.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.URL, &job.Status, &job.ScrapeID, &errMsg,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if errMsg != nil {
		job.Error = *errMsg
	}

	return job, nil
}

// ListJobs returns the most recent jobs, newest first.
func (m *Manager) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, url, status, scrape_id, error, created_at, started_at, completed_at
		FROM scrape_jobs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := m.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		job := &Job{}
		var errMsg *string
		if err := rows.Scan(
			&job.ID, &job.URL, &job.Status, &job.ScrapeID, &errMsg,
			&job.CreatedAt, &job.StartedAt, &job.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if errMsg != nil {
			job.Error = *errMsg
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// GetStats aggregates job counts and the overall success rate.
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'running'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM scrape_jobs`

	err := m.db.QueryRow(ctx, query).Scan(
		&stats.TotalJobs, &stats.PendingJobs, &stats.RunningJobs,
		&stats.CompletedJobs, &stats.FailedJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	finished := stats.CompletedJobs + stats.FailedJobs
	if finished > 0 {
		stats.SuccessRate = float64(stats.CompletedJobs) / float64(finished) * 100
	}

	total, err := m.db.CountScrapes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count scrapes: %w", err)
	}
	stats.TotalScrapes = total

	return stats, nil
}

func (m *Manager) markRunning(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE scrape_jobs SET status = $1, started_at = $2 WHERE id = $3`
	_, err := m.db.Exec(ctx, query, StatusRunning, time.Now(), id)
	return err
}

func (m *Manager) markCompleted(ctx context.Context, id, scrapeID uuid.UUID) error {
	query := `UPDATE scrape_jobs SET status = $1, scrape_id = $2, completed_at = $3 WHERE id = $4`
	_, err := m.db.Exec(ctx, query, StatusCompleted, scrapeID, time.Now(), id)
	return err
}

func (m *Manager) markFailed(ctx context.Context, id uuid.UUID, jobErr error) error {
	query := `UPDATE scrape_jobs SET status = $1, error = $2, completed_at = $3 WHERE id = $4`
	_, err := m.db.Exec(ctx, query, StatusFailed, jobErr.Error(), time.Now(), id)
	return err
}
