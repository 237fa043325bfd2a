package parser

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

// RateSource yields the USD-per-PKR conversion rate. Implementations are
// total: they fall back to a static rate instead of failing.
type RateSource interface {
	USDPerPKR(ctx context.Context) float64
}

// Parser extracts product and seller fields from a parsed page. Every
// method is best-effort and returns models.NotFound for missing markup.
type Parser interface {
	ExtractTitle(doc *goquery.Document) string
	ExtractBrand(doc *goquery.Document) string
	ExtractPrice(ctx context.Context, doc *goquery.Document) (amount, symbol string)
	ExtractRating(doc *goquery.Document) string
	ExtractReviews(doc *goquery.Document) string
	ExtractImages(doc *goquery.Document) []string
	ExtractDescription(doc *goquery.Document) string
	ExtractSellerDetails(doc *goquery.Document) *models.SellerInfo
	ApplySellerPage(doc *goquery.Document, info *models.SellerInfo)
}
