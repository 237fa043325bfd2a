package display

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

// Render writes the fixed-order human-readable summary. Fields still at
// the sentinel are omitted rather than printed as "Not found".
func Render(w io.Writer, p *models.Product) {
	fmt.Fprintln(w, "Successfully scraped!")

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	appendIfFound(t, "Title", truncate(p.Title, 50))
	appendIfFound(t, "Brand", p.Brand)
	appendIfFound(t, "Price", p.Price)
	appendIfFound(t, "Rating", p.Rating)
	appendIfFound(t, "Reviews", p.Reviews)
	t.AppendRow(table.Row{"Images", fmt.Sprintf("%d found", p.ImageCount)})

	seller := p.SellerDetails
	if seller != nil {
		t.AppendSeparator()
		appendIfFound(t, "Seller Name", seller.SellerName)
		appendIfFound(t, "Seller Store URL", seller.SellerStoreURL)
		appendRatingIfFound(t, "Seller Rating (12 mo)", seller.SellerRating)
		appendIfFound(t, "Seller Reviews (12 mo)", seller.SellerReviews)
		appendRatingIfFound(t, "Lifetime Rating", seller.LifetimeRating)
		appendIfFound(t, "Lifetime Reviews", seller.LifetimeReviews)
		appendIfFound(t, "Seller Since", seller.SellerSince)
		appendIfFound(t, "Positive Feedback", seller.PositiveFeedback)
		appendIfFound(t, "Shipped By", seller.ShippedBy)
		appendIfFound(t, "Sold By", seller.SoldBy)
		appendIfFound(t, "Seller Description", truncate(seller.SellerDescription, 100))
	}

	t.Render()
}

func appendIfFound(t table.Writer, label, value string) {
	if value == models.NotFound || value == "" {
		return
	}
	t.AppendRow(table.Row{label, value})
}

func appendRatingIfFound(t table.Writer, label, value string) {
	if value == models.NotFound || value == "" {
		return
	}
	t.AppendRow(table.Row{label, value + "/5"})
}

func truncate(s string, max int) string {
	if s == models.NotFound {
		return s
	}
	if runes := []rune(s); len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
