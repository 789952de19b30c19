package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLinks(t *testing.T) {
	r := ResolvedRecord{
		AuctionID: "5501",
		OPA:       "881001234",
		Address:   "123 Market St",
	}
	r.DeriveLinks()

	assert.Equal(t, "https://property.phila.gov/?p=881001234", r.PhilaLink)
	assert.Equal(t, "https://www.bid4assets.com/auction/index/5501", r.Bid4AssetsLink)
	assert.Equal(t, "https://www.google.com/maps?q=123 Market St&layer=c", r.StreetViewLink)
}

func TestDeriveLinks_MissingSourceFields(t *testing.T) {
	r := ResolvedRecord{AuctionID: "5501"}
	r.DeriveLinks()

	assert.Empty(t, r.PhilaLink)
	assert.NotEmpty(t, r.Bid4AssetsLink)
	assert.Empty(t, r.StreetViewLink)
}
