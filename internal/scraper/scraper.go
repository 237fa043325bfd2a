package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/amazon-seller-scraper/internal/config"
	"github.com/maltedev/amazon-seller-scraper/internal/fetch"
	"github.com/maltedev/amazon-seller-scraper/internal/models"
	"github.com/maltedev/amazon-seller-scraper/internal/parser"
)

var (
	ErrEmptyURL = errors.New("no product URL provided")
)

// AmazonScraper runs the linear scrape pipeline: fetch page, parse, run
// extractors, assemble the record, conditionally fetch the seller page.
// Only a transport failure on the product page aborts a scrape; every
// markup-shape failure degrades to sentinel values.
type AmazonScraper struct {
	cfg     config.Settings
	fetcher fetch.Fetcher
	parser  parser.Parser
	logger  *slog.Logger
}

func New(cfg config.Settings, fetcher fetch.Fetcher, rates parser.RateSource) *AmazonScraper {
	return &AmazonScraper{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  parser.NewAmazonParser(cfg, rates),
		logger:  slog.Default().With("component", "scraper"),
	}
}

func (s *AmazonScraper) Scrape(ctx context.Context, url string) (*models.Product, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	s.logger.Info("scraping product", "url", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := s.parser.ExtractTitle(doc)
	brand := s.parser.ExtractBrand(doc)
	amount, symbol := s.parser.ExtractPrice(ctx, doc)
	rating := s.parser.ExtractRating(doc)
	reviews := s.parser.ExtractReviews(doc)
	images := s.parser.ExtractImages(doc)
	description := s.parser.ExtractDescription(doc)
	seller := s.extractSeller(ctx, doc)

	price := models.NotFound
	if amount != models.NotFound {
		price = symbol + amount
	}
	if rating != models.NotFound {
		rating += "/5"
	}

	return models.NewProduct(title, brand, price, rating, reviews, description, images, seller), nil
}

// extractSeller never fails; the partially filled record is returned
// as-is when any stage errors out.
func (s *AmazonScraper) extractSeller(ctx context.Context, doc *goquery.Document) *models.SellerInfo {
	info := s.parser.ExtractSellerDetails(doc)

	if info.SellerStoreURL != models.NotFound && !info.IsAmazon {
		s.scrapeSellerPage(ctx, info)
	}

	info.SellerName = parser.CleanSellerName(info.SellerName)
	info.SoldBy = parser.CleanSellerName(info.SoldBy)

	return info
}

func (s *AmazonScraper) scrapeSellerPage(ctx context.Context, info *models.SellerInfo) {
	page, err := s.fetcher.Fetch(ctx, info.SellerStoreURL)
	if err != nil {
		s.logger.Warn("could not fetch seller page", "url", info.SellerStoreURL, "error", err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		s.logger.Warn("could not parse seller page", "url", info.SellerStoreURL, "error", err)
		return
	}

	s.parser.ApplySellerPage(doc, info)
}
