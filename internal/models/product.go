package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// NotFound is the sentinel substituted for every field that could not be
// extracted. Absence is always representable and distinct from a real
// empty string.
const NotFound = "Not found"

// SellerInfo is the flat seller record. Fields are populated incrementally
// by the extraction stages; anything left untouched serializes as the
// sentinel verbatim.
type SellerInfo struct {
	SellerName          string `json:"seller_name"`
	SellerStoreURL      string `json:"seller_store_url"`
	SellerRating        string `json:"seller_rating"`
	SellerReviews       string `json:"seller_reviews"`
	SellerSince         string `json:"seller_since"`
	PositiveFeedback    string `json:"positive_feedback"`
	ShippedBy           string `json:"shipped_by"`
	SoldBy              string `json:"sold_by"`
	SellerDescription   string `json:"seller_description"`
	SellerID            string `json:"seller_id"`
	IsAmazon            bool   `json:"is_amazon"`
	IsFulfilledByAmazon bool   `json:"is_fulfilled_by_amazon"`
	LifetimeRating      string `json:"lifetime_rating"`
	LifetimeReviews     string `json:"lifetime_reviews"`
}

// NewSellerInfo returns a record with every field at its sentinel.
func NewSellerInfo() *SellerInfo {
	return &SellerInfo{
		SellerName:        NotFound,
		SellerStoreURL:    NotFound,
		SellerRating:      NotFound,
		SellerReviews:     NotFound,
		SellerSince:       NotFound,
		PositiveFeedback:  NotFound,
		ShippedBy:         NotFound,
		SoldBy:            NotFound,
		SellerDescription: NotFound,
		SellerID:          NotFound,
		LifetimeRating:    NotFound,
		LifetimeReviews:   NotFound,
	}
}

// Product is the assembled record for one scrape. Price and rating are
// pre-formatted strings; ImageCount is derived from Images.
type Product struct {
	Title         string      `json:"title"`
	Brand         string      `json:"brand"`
	Price         string      `json:"price"`
	Rating        string      `json:"rating"`
	Reviews       string      `json:"reviews"`
	Description   string      `json:"description"`
	Images        []string    `json:"images"`
	ImageCount    int         `json:"image_count"`
	SellerDetails *SellerInfo `json:"seller_details"`
}

func NewProduct(title, brand, price, rating, reviews, description string, images []string, seller *SellerInfo) *Product {
	if images == nil {
		images = []string{}
	}
	if seller == nil {
		seller = NewSellerInfo()
	}
	return &Product{
		Title:         title,
		Brand:         brand,
		Price:         price,
		Rating:        rating,
		Reviews:       reviews,
		Description:   description,
		Images:        images,
		ImageCount:    len(images),
		SellerDetails: seller,
	}
}

// SaveJSON writes the full record, pretty-printed, sentinels included.
func (p *Product) SaveJSON(path string) error {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
