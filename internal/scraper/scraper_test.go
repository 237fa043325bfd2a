package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/amazon-seller-scraper/internal/config"
	"github.com/maltedev/amazon-seller-scraper/internal/fetch"
	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

type staticRate float64

func (r staticRate) USDPerPKR(_ context.Context) float64 { return float64(r) }

const productPage = `
<html><body>
	<span id="productTitle">  Wireless   Gaming Mouse  </span>
	<a id="bylineInfo">Generic Brand</a>
	<div class="a-section a-spacing-none aok-align-center aok-relative">
		<span class="aok-offscreen">$24.99</span>
	</div>
	<span class="a-icon-alt">4.6 out of 5 stars</span>
	<span id="acrCustomerReviewText">2,311 ratings</span>
	<img id="landingImage" src="https://m.media-amazon.com/images/I/abc._SL160_.jpg">
	<div id="productDescription">A solid wireless mouse.</div>
	<div id="merchant-info">Sold by TechGear Ltd and Shipped by Amazon</div>
	<a id="sellerProfileTriggerId" href="/sp?seller=A1B2C3">TechGear Ltd</a>
</body></html>`

const sellerPage = `
<html><body>
	<script type="a-state">{"ratingCount": 450, "star5": 80, "star4": 10, "star3": 5, "star2": 3, "star1": 2}</script>
	<span id="percentFiveStar">94%</span>
</body></html>`

func newTestScraper(serverURL string) *AmazonScraper {
	cfg := config.DefaultSettings()
	cfg.BaseURL = serverURL
	return New(cfg, fetch.NewClient(cfg), staticRate(0.00359))
}

func TestScrapeEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/product":
			w.Write([]byte(productPage))
		case "/sp":
			w.Write([]byte(sellerPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s := newTestScraper(server.URL)

	product, err := s.Scrape(context.Background(), server.URL+"/product")
	require.NoError(t, err)

	assert.Equal(t, "Wireless Gaming Mouse", product.Title)
	assert.Equal(t, "Generic Brand", product.Brand)
	assert.Equal(t, "$24.99", product.Price)
	assert.Equal(t, "4.6/5", product.Rating)
	assert.Equal(t, "2,311 ratings", product.Reviews)
	assert.Equal(t, "A solid wireless mouse.", product.Description)
	assert.Equal(t, []string{"https://m.media-amazon.com/images/I/abc._SL1500_"}, product.Images)
	assert.Equal(t, 1, product.ImageCount)

	seller := product.SellerDetails
	require.NotNil(t, seller)
	assert.Equal(t, "TechGear Ltd", seller.SellerName)
	assert.Equal(t, "A1B2C3", seller.SellerID)

	// The seller profile page was fetched and folded in.
	assert.Equal(t, "450", seller.SellerReviews)
	assert.Equal(t, "4.6", seller.SellerRating)
	assert.Equal(t, "94%", seller.PositiveFeedback)
}

func TestScrapeSellerPageFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/product" {
			w.Write([]byte(productPage))
			return
		}
		http.Error(w, "blocked", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestScraper(server.URL)

	product, err := s.Scrape(context.Background(), server.URL+"/product")
	require.NoError(t, err)

	// Product fields survive; seller-page fields stay at their sentinels
	// except what the product page itself provided.
	assert.Equal(t, "Wireless Gaming Mouse", product.Title)
	assert.Equal(t, "TechGear Ltd", product.SellerDetails.SellerName)
	assert.Equal(t, models.NotFound, product.SellerDetails.PositiveFeedback)
}

func TestScrapeProductPageFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "captcha", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestScraper(server.URL)

	_, err := s.Scrape(context.Background(), server.URL+"/product")
	assert.Error(t, err)
}

func TestScrapeEmptyURL(t *testing.T) {
	s := newTestScraper("http://127.0.0.1:0")

	_, err := s.Scrape(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestScrapeMissingFieldsAreSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	s := newTestScraper(server.URL)

	product, err := s.Scrape(context.Background(), server.URL+"/product")
	require.NoError(t, err)

	assert.Equal(t, models.NotFound, product.Title)
	assert.Equal(t, models.NotFound, product.Brand)
	assert.Equal(t, models.NotFound, product.Price)
	assert.Equal(t, models.NotFound, product.Rating)
	assert.Equal(t, models.NotFound, product.Reviews)
	assert.Equal(t, models.NotFound, product.Description)
	assert.Empty(t, product.Images)
	assert.Equal(t, 0, product.ImageCount)
	assert.Equal(t, models.NotFound, product.SellerDetails.SellerName)
}
