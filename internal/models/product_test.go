package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSellerInfoSentinels(t *testing.T) {
	info := NewSellerInfo()

	assert.Equal(t, NotFound, info.SellerName)
	assert.Equal(t, NotFound, info.SellerStoreURL)
	assert.Equal(t, NotFound, info.SellerRating)
	assert.Equal(t, NotFound, info.SellerReviews)
	assert.Equal(t, NotFound, info.SellerSince)
	assert.Equal(t, NotFound, info.PositiveFeedback)
	assert.Equal(t, NotFound, info.ShippedBy)
	assert.Equal(t, NotFound, info.SoldBy)
	assert.Equal(t, NotFound, info.SellerDescription)
	assert.Equal(t, NotFound, info.SellerID)
	assert.Equal(t, NotFound, info.LifetimeRating)
	assert.Equal(t, NotFound, info.LifetimeReviews)
	assert.False(t, info.IsAmazon)
	assert.False(t, info.IsFulfilledByAmazon)
}

func TestNewProductDerivesImageCount(t *testing.T) {
	p := NewProduct("t", "b", "$1", "5/5", "1 rating", "d",
		[]string{"a", "b", "c"}, nil)
	assert.Equal(t, 3, p.ImageCount)

	p = NewProduct("t", "b", "$1", "5/5", "1 rating", "d", nil, nil)
	assert.Equal(t, 0, p.ImageCount)
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.SellerDetails)
}

func TestSaveJSON(t *testing.T) {
	p := NewProduct("Mouse", NotFound, "$24.99", "4.6/5", "12 ratings",
		NotFound, []string{"https://example.com/img"}, nil)

	path := filepath.Join(t.TempDir(), "product_data.json")
	require.NoError(t, p.SaveJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "Mouse", got["title"])
	assert.Equal(t, NotFound, got["brand"])
	assert.Equal(t, float64(1), got["image_count"])

	seller, ok := got["seller_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, NotFound, seller["seller_name"])
	assert.Equal(t, false, seller["is_amazon"])
}
