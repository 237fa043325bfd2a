package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/maltedev/amazon-seller-scraper/internal/models"
)

var (
	fulfilledRe    = regexp.MustCompile(`(?i)fulfilled.*amazon|amazon.*fulfilled`)
	amazonExactRe  = regexp.MustCompile(`(?i)^Amazon\.com$`)
	soldByRe       = regexp.MustCompile(`(?i)sold by\s*(.+?)(?:\s*and|$)`)
	shippedByRe    = regexp.MustCompile(`(?i)shipped by\s*(.+?)(?:\s*and|$)`)
	ratingOutOfRe  = regexp.MustCompile(`(\d+\.?\d*)\s*out of`)
	digitGroupRe   = regexp.MustCompile(`(\d+[\d,]*)`)
	soldByBulletRe = regexp.MustCompile(`Sold by:\s*(.+)`)
)

// ExtractSellerDetails aggregates seller identity, ratings and fulfillment
// facts from the product page.
//
// Stage order is buybox -> links -> feedback -> detail bullets. The
// feedback stage overwrites fields set by earlier stages while the link
// and bullet stages only fill unset ones; this mixed discipline is
// intentional and matches observed page behavior, so keep the order
// when touching this.
func (p *AmazonParser) ExtractSellerDetails(doc *goquery.Document) *models.SellerInfo {
	info := models.NewSellerInfo()

	p.extractPageSignals(doc, info)
	p.extractSellerFromBuybox(doc, info)
	p.extractSellerFromLinks(doc, info)
	p.extractSellerFeedback(doc, info)
	p.extractSellerFromBullets(doc, info)

	return info
}

// extractPageSignals scans page-wide markers: the fulfilled-by-Amazon
// phrase in any text node, and the badge + exact "Amazon.com" seller
// combination that marks Amazon itself as the seller.
func (p *AmazonParser) extractPageSignals(doc *goquery.Document, info *models.SellerInfo) {
	eachTextNode(doc, func(text string) bool {
		if fulfilledRe.MatchString(text) {
			info.IsFulfilledByAmazon = true
			return false
		}
		return true
	})

	if doc.Find("span.ac-badge-rectangle").Length() == 0 {
		return
	}

	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !amazonExactRe.MatchString(strings.TrimSpace(s.Text())) {
			return true
		}
		info.SellerName = "Amazon.com"
		info.SoldBy = "Amazon.com"
		info.ShippedBy = "Amazon.com"
		info.IsAmazon = true
		return false
	})
}

func (p *AmazonParser) extractSellerFromBuybox(doc *goquery.Document, info *models.SellerInfo) {
	section := doc.Find("div#merchant-info").First()
	if section.Length() == 0 {
		section = doc.Find("div#sellerProfileTriggerId").First()
	}
	if section.Length() == 0 {
		section = doc.Find("div#availability").First()
	}
	if section.Length() == 0 {
		return
	}

	text := CleanText(joinedText(section))

	if m := soldByRe.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(parentheticalRe.ReplaceAllString(m[1], ""))
		info.SoldBy = name
		info.SellerName = name
		info.IsAmazon = strings.Contains(strings.ToLower(name), "amazon")
	}

	if m := shippedByRe.FindStringSubmatch(text); m != nil {
		info.ShippedBy = strings.TrimSpace(m[1])
	}
}

func (p *AmazonParser) extractSellerFromLinks(doc *goquery.Document, info *models.SellerInfo) {
	link := doc.Find("a#sellerProfileTriggerId").First()
	if link.Length() > 0 {
		if text := strings.TrimSpace(link.Text()); text != "" {
			name := strings.TrimSpace(leadingByRe.ReplaceAllString(text, ""))
			if info.SellerName == models.NotFound {
				info.SellerName = name
				info.SoldBy = name
			}
		}

		if href, ok := link.Attr("href"); ok {
			storeURL := p.resolveURL(href)
			info.SellerStoreURL = storeURL
			info.SellerID = SellerIDFromURL(storeURL)
		}
	}

	store := doc.Find("a#bylineInfo").First()
	if store.Length() == 0 {
		return
	}

	text := strings.TrimSpace(store.Text())
	if strings.Contains(text, "Visit the") && strings.Contains(text, "Store") {
		name := strings.ReplaceAll(text, "Visit the", "")
		name = strings.TrimSpace(strings.ReplaceAll(name, "Store", ""))
		if name != "" && info.SellerName == models.NotFound {
			info.SellerName = name
		}
	}

	if href, ok := store.Attr("href"); ok && info.SellerStoreURL == models.NotFound {
		info.SellerStoreURL = p.resolveURL(href)
	}
}

func (p *AmazonParser) extractSellerFeedback(doc *goquery.Document, info *models.SellerInfo) {
	feedback := doc.Find(`a[href*="feedback"]`).First()
	if feedback.Length() == 0 {
		return
	}

	text := strings.TrimSpace(feedback.Text())
	if m := ratingOutOfRe.FindStringSubmatch(text); m != nil {
		info.SellerRating = m[1]
	}
	if m := digitGroupRe.FindStringSubmatch(text); m != nil {
		info.SellerReviews = m[1]
	}
}

func (p *AmazonParser) extractSellerFromBullets(doc *goquery.Document, info *models.SellerInfo) {
	doc.Find("#detailBullets_feature_div li").Each(func(_ int, s *goquery.Selection) {
		text := CleanText(s.Text())
		if !strings.Contains(text, "Sold by:") {
			return
		}

		if m := soldByBulletRe.FindStringSubmatch(text); m != nil {
			info.SoldBy = strings.TrimSpace(m[1])
			if info.SellerName == models.NotFound {
				info.SellerName = info.SoldBy
			}
		}
	})
}

func (p *AmazonParser) resolveURL(href string) string {
	base, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// joinedText renders a selection's text nodes stripped and joined with
// single spaces. Plain Text() concatenates adjacent elements without a
// word boundary, which breaks the sold-by/shipped-by phrase matching when
// markup splits the phrase across elements.
func joinedText(s *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range s.Nodes {
		walk(n)
	}

	return strings.Join(parts, " ")
}

// eachTextNode visits every text node in document order until fn returns
// false.
func eachTextNode(doc *goquery.Document, fn func(text string) bool) {
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			if !fn(n.Data) {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	for _, n := range doc.Nodes {
		if !walk(n) {
			return
		}
	}
}
