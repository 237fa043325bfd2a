package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/maltedev/amazon-seller-scraper/internal/database"
	"github.com/maltedev/amazon-seller-scraper/internal/jobs"
	"github.com/maltedev/amazon-seller-scraper/internal/scraper"
)

type Handlers struct {
	scraper *scraper.AmazonScraper
	jobs    *jobs.Manager
	db      *database.DB
	logger  *slog.Logger
}

func NewHandlers(sc *scraper.AmazonScraper, jm *jobs.Manager, db *database.DB, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: sc,
		jobs:    jm,
		db:      db,
		logger:  logger.With("component", "api"),
	}
}

// Routes mounts all handlers on the router.
func (h *Handlers) Routes(r chi.Router) {
	r.Post("/scrape", h.Scrape)
	r.Post("/jobs", h.CreateJob)
	r.Get("/jobs", h.ListJobs)
	r.Get("/jobs/{jobID}", h.GetJob)
	r.Get("/scrapes", h.ListScrapes)
	r.Get("/scrapes/{scrapeID}", h.GetScrape)
	r.Get("/stats", h.GetStats)
}

// ScrapeRequest is the body for synchronous and queued scrapes.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// Scrape runs a scrape synchronously and returns the product record.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	product, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("scrape failed", "url", req.URL, "error", err)
		h.respondError(w, http.StatusBadGateway, "failed to scrape product page")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// CreateJobResponse is returned when a job is enqueued.
type CreateJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateJob enqueues an asynchronous scrape.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	job, err := h.jobs.CreateJob(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("failed to create job", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateJobResponse{
		JobID:   job.ID.String(),
		Status:  job.Status,
		Message: "Job created successfully",
	})
}

// GetJob returns one job by ID.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), id)
	if errors.Is(err, jobs.ErrJobNotFound) {
		h.respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get job", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// ListJobs returns recent jobs, newest first.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	list, err := h.jobs.ListJobs(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	h.respondJSON(w, http.StatusOK, list)
}

// GetScrape returns one stored scrape result.
func (h *Handlers) GetScrape(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "scrapeID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid scrape ID")
		return
	}

	rec, err := h.db.GetScrape(r.Context(), id)
	if errors.Is(err, database.ErrScrapeNotFound) {
		h.respondError(w, http.StatusNotFound, "scrape not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get scrape", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get scrape")
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

// ListScrapes returns recent stored scrapes, newest first.
func (h *Handlers) ListScrapes(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)

	list, err := h.db.ListScrapes(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list scrapes", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list scrapes")
		return
	}

	h.respondJSON(w, http.StatusOK, list)
}

// GetStats returns job and scrape counters.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to get stats", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
