package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

var (
	currencySymbolRe = regexp.MustCompile(`([^\d\s]+)\s*[\d.,]+`)
	currencyAmountRe = regexp.MustCompile(`([\d.,]+)`)
	parentheticalRe  = regexp.MustCompile(`\((.*?)\)`)
	leadingByRe      = regexp.MustCompile(`(?i)^\s*by\s*`)
)

// CleanText collapses whitespace runs to single spaces and trims.
// Idempotent.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// ExtractCurrency splits a price string into its currency symbol and
// numeric amount. The symbol defaults to "$"; the amount is the sentinel
// when the text carries no digits. Thousands separators are stripped.
func ExtractCurrency(text string) (symbol, amount string) {
	symbol = "$"
	if m := currencySymbolRe.FindStringSubmatch(text); m != nil {
		symbol = strings.TrimSpace(m[1])
	}

	amount = models.NotFound
	if m := currencyAmountRe.FindStringSubmatch(text); m != nil {
		amount = strings.ReplaceAll(m[1], ",", "")
	}

	return symbol, amount
}

// CleanSellerName strips parenthetical asides and a leading "by " prefix,
// truncating overlong names to 100 characters plus an ellipsis. Sentinel
// and empty input pass through unchanged.
func CleanSellerName(name string) string {
	if name == "" || name == models.NotFound {
		return name
	}

	name = strings.TrimSpace(parentheticalRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(leadingByRe.ReplaceAllString(name, ""))

	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:100]) + "..."
	}

	return name
}

// SellerIDFromURL returns the value of the "seller" query parameter, or
// the sentinel when the URL has none.
func SellerIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.NotFound
	}

	if id := u.Query().Get("seller"); id != "" {
		return id
	}

	return models.NotFound
}
