package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

func TestExtractSellerDetailsEmptyPage(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `<div>nothing useful</div>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, models.NotFound, info.SellerName)
	assert.Equal(t, models.NotFound, info.SellerStoreURL)
	assert.Equal(t, models.NotFound, info.SellerRating)
	assert.Equal(t, models.NotFound, info.SellerReviews)
	assert.Equal(t, models.NotFound, info.SoldBy)
	assert.Equal(t, models.NotFound, info.ShippedBy)
	assert.Equal(t, models.NotFound, info.SellerID)
	assert.False(t, info.IsAmazon)
	assert.False(t, info.IsFulfilledByAmazon)
}

func TestExtractSellerDetailsFromBuybox(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name              string
		html              string
		expectedSoldBy    string
		expectedShippedBy string
		expectedIsAmazon  bool
	}{
		{
			name:              "Third party seller",
			html:              `<div id="merchant-info">Sold by TechGear Ltd and Shipped by Amazon.</div>`,
			expectedSoldBy:    "TechGear Ltd",
			expectedShippedBy: "Amazon.",
			expectedIsAmazon:  false,
		},
		{
			name:              "Amazon as seller",
			html:              `<div id="merchant-info">Sold by Amazon.com and Shipped by Amazon</div>`,
			expectedSoldBy:    "Amazon.com",
			expectedShippedBy: "Amazon",
			expectedIsAmazon:  true,
		},
		{
			name:              "Parenthetical stripped from seller name",
			html:              `<div id="merchant-info">Sold by TechGear (US) and Shipped by TechGear</div>`,
			expectedSoldBy:    "TechGear",
			expectedShippedBy: "TechGear",
			expectedIsAmazon:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, tt.html)
			info := parser.ExtractSellerDetails(doc)

			assert.Equal(t, tt.expectedSoldBy, info.SoldBy)
			assert.Equal(t, tt.expectedSoldBy, info.SellerName)
			assert.Equal(t, tt.expectedShippedBy, info.ShippedBy)
			assert.Equal(t, tt.expectedIsAmazon, info.IsAmazon)
		})
	}
}

func TestExtractSellerDetailsBuyboxSplitAcrossElements(t *testing.T) {
	parser := newTestParser(t)

	// Markup often splits the phrase across inline elements with no
	// whitespace between them.
	doc := parseHTML(t, `<div id="merchant-info"><span>Sold</span><span>by TechGear Ltd</span> and <b>Shipped</b><b>by Amazon</b></div>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "TechGear Ltd", info.SoldBy)
	assert.Equal(t, "Amazon", info.ShippedBy)
}

func TestJoinedText(t *testing.T) {
	doc := parseHTML(t, `<div id="x"><b>Sold by</b><a>TechGear</a>  <i> and more </i></div>`)
	assert.Equal(t, "Sold by TechGear and more", joinedText(doc.Find("#x")))
}

func TestExtractSellerDetailsFulfilledSignal(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `<div><p>Ships from and Fulfilled by Amazon</p></div>`)
	info := parser.ExtractSellerDetails(doc)

	assert.True(t, info.IsFulfilledByAmazon)
}

func TestExtractSellerDetailsProfileLink(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `<a id="sellerProfileTriggerId" href="/sp?seller=A1B2C3">by TechGear Ltd</a>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "TechGear Ltd", info.SellerName)
	assert.Equal(t, "TechGear Ltd", info.SoldBy)
	assert.Equal(t, "https://www.amazon.com/sp?seller=A1B2C3", info.SellerStoreURL)
	assert.Equal(t, "A1B2C3", info.SellerID)
}

func TestExtractSellerDetailsLinkDoesNotOverwriteBuybox(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `
		<div id="merchant-info">Sold by BuyboxSeller and Shipped by BuyboxSeller</div>
		<a id="sellerProfileTriggerId" href="/sp?seller=A1B2C3">LinkSeller</a>`)
	info := parser.ExtractSellerDetails(doc)

	// Buybox already set the name; the link stage only contributes the URL.
	assert.Equal(t, "BuyboxSeller", info.SellerName)
	assert.Equal(t, "https://www.amazon.com/sp?seller=A1B2C3", info.SellerStoreURL)
}

func TestExtractSellerDetailsBylineStore(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `<a id="bylineInfo" href="/stores/TechGear">Visit the TechGear Store</a>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "TechGear", info.SellerName)
	assert.Equal(t, "https://www.amazon.com/stores/TechGear", info.SellerStoreURL)
}

func TestExtractSellerDetailsFeedbackOverwrites(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `
		<div id="merchant-info">Sold by TechGear and Shipped by TechGear</div>
		<a href="/feedback/A1B2C3">1,234 ratings, 4.5 out of 5 stars</a>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "4.5", info.SellerRating)
	assert.Equal(t, "1,234", info.SellerReviews)
}

func TestExtractSellerDetailsDetailBullets(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `
		<div id="detailBullets_feature_div">
			<ul>
				<li>Package Dimensions: 10 x 5 x 2 inches</li>
				<li>Sold by: BulletSeller</li>
			</ul>
		</div>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "BulletSeller", info.SoldBy)
	assert.Equal(t, "BulletSeller", info.SellerName)
}

func TestExtractSellerDetailsAmazonBadge(t *testing.T) {
	parser := newTestParser(t)

	doc := parseHTML(t, `
		<span class="ac-badge-rectangle">Amazon's Choice</span>
		<span>Amazon.com</span>`)
	info := parser.ExtractSellerDetails(doc)

	assert.Equal(t, "Amazon.com", info.SellerName)
	assert.Equal(t, "Amazon.com", info.SoldBy)
	assert.Equal(t, "Amazon.com", info.ShippedBy)
	assert.True(t, info.IsAmazon)
}
