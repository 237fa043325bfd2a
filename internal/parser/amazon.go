package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/amazon-seller-scraper/internal/config"
	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

// highResSuffix replaces the size marker and everything after it so the
// image is requested at the highest available resolution.
const (
	sizeMarker    = "._SL"
	highResSuffix = "._SL1500_"
)

// conversionSymbols are the price symbols that trigger PKR to USD
// conversion.
var conversionSymbols = map[string]bool{
	"PKR": true,
	"₨":   true,
	"Rs":  true,
}

var (
	decimalRe = regexp.MustCompile(`(\d+\.?\d*)`)

	// Most-specific first; the first matching pattern that yields a usable
	// URL wins for each element.
	imageSelectors = []string{
		"#landingImage",
		"[data-old-hires]",
		".a-dynamic-image",
		"img[data-a-dynamic-image]",
		"#imgTagWrapperId img",
	}
)

type AmazonParser struct {
	cfg    config.Settings
	rates  RateSource
	logger *slog.Logger
}

func NewAmazonParser(cfg config.Settings, rates RateSource) *AmazonParser {
	return &AmazonParser{
		cfg:    cfg,
		rates:  rates,
		logger: slog.Default().With("component", "parser"),
	}
}

func (p *AmazonParser) ExtractTitle(doc *goquery.Document) string {
	title := doc.Find("span#productTitle").First()
	if title.Length() == 0 {
		return models.NotFound
	}
	return CleanText(title.Text())
}

func (p *AmazonParser) ExtractBrand(doc *goquery.Document) string {
	brand := doc.Find("a#bylineInfo").First()
	if brand.Length() == 0 {
		return models.NotFound
	}
	return CleanText(brand.Text())
}

// ExtractPrice tries the offscreen price first, then the composite
// whole+fraction element. Non-USD symbols from the conversion set rewrite
// the price to USD.
func (p *AmazonParser) ExtractPrice(ctx context.Context, doc *goquery.Document) (amount, symbol string) {
	priceDiv := doc.Find("div.a-section.a-spacing-none.aok-align-center.aok-relative").First()
	if priceDiv.Length() > 0 {
		hidden := priceDiv.Find("span.aok-offscreen").First()
		if hidden.Length() > 0 {
			sym, price := ExtractCurrency(strings.TrimSpace(hidden.Text()))
			if price != models.NotFound {
				return p.convertCurrency(ctx, price, sym)
			}
		}
	}

	mainPrice := doc.Find("span.a-price.aok-align-center.reinventPricePriceToPayMargin.priceToPay").First()
	if mainPrice.Length() > 0 {
		sym := "$"
		if s := mainPrice.Find("span.a-price-symbol").First(); s.Length() > 0 {
			sym = strings.TrimSpace(s.Text())
		}

		whole := mainPrice.Find("span.a-price-whole").First()
		fraction := mainPrice.Find("span.a-price-fraction").First()
		if whole.Length() > 0 && fraction.Length() > 0 {
			w := strings.ReplaceAll(strings.TrimSpace(whole.Text()), ",", "")
			w = strings.ReplaceAll(w, ".", "")
			price := w + "." + strings.TrimSpace(fraction.Text())
			return p.convertCurrency(ctx, price, sym)
		}
	}

	return models.NotFound, "$"
}

func (p *AmazonParser) convertCurrency(ctx context.Context, amount, symbol string) (string, string) {
	if amount == models.NotFound || !conversionSymbols[symbol] {
		return amount, symbol
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount, symbol
	}

	rate := p.rates.USDPerPKR(ctx)
	return fmt.Sprintf("%.2f", value*rate), "$"
}

func (p *AmazonParser) ExtractRating(doc *goquery.Document) string {
	rating := doc.Find("span.a-icon-alt").First()
	if rating.Length() == 0 {
		return models.NotFound
	}

	if m := decimalRe.FindStringSubmatch(strings.TrimSpace(rating.Text())); m != nil {
		return m[1]
	}
	return models.NotFound
}

func (p *AmazonParser) ExtractReviews(doc *goquery.Document) string {
	reviews := doc.Find("span#acrCustomerReviewText").First()
	if reviews.Length() == 0 {
		return models.NotFound
	}
	return CleanText(reviews.Text())
}

// ExtractImages walks the selector list in order, resolving a URL per
// element from its source attributes or the dynamic-image JSON blob.
// Deduplicates by exact URL, keeps first-seen order and caps the result
// at the configured maximum.
func (p *AmazonParser) ExtractImages(doc *goquery.Document) []string {
	images := make([]string, 0, p.cfg.MaxImages)
	seen := make(map[string]bool)

	for _, selector := range imageSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			src := firstAttr(s, "src", "data-src", "data-old-hires")
			if src == "" {
				if blob, ok := s.Attr("data-a-dynamic-image"); ok {
					src = firstDynamicImageURL(blob)
				}
			}

			if src == "" || !strings.Contains(src, "http") || seen[src] {
				return
			}
			seen[src] = true

			if idx := strings.Index(src, sizeMarker); idx >= 0 {
				src = src[:idx] + highResSuffix
			}
			images = append(images, src)
		})
	}

	// The size rewrite can collapse distinct source URLs into one.
	images = dedupe(images)
	if len(images) > p.cfg.MaxImages {
		images = images[:p.cfg.MaxImages]
	}
	return images
}

func (p *AmazonParser) ExtractDescription(doc *goquery.Document) string {
	desc := doc.Find("div#productDescription").First()
	if desc.Length() == 0 {
		return models.NotFound
	}

	description := strings.TrimSpace(desc.Text())
	if runes := []rune(description); len(runes) > 500 {
		description = string(runes[:500])
	}
	return description
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := s.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// firstDynamicImageURL returns the first key, in document order, of the
// JSON object stored in a data-a-dynamic-image attribute.
func firstDynamicImageURL(blob string) string {
	dec := json.NewDecoder(strings.NewReader(blob))

	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ""
	}

	tok, err = dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
