// Package model defines the shared value types for auction rows, address
// queries, and resolved records.
package model

import "fmt"

// Coordinate is a geographic point. A nil *Coordinate means the address
// could not be resolved.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// AddressQuery is the immutable input unit for geocoding. A single auction
// row may expand into several queries when its address/OPA/book fields carry
// multiple ampersand-delimited values.
type AddressQuery struct {
	RawAddress string
	ParcelID   string // OPA account number; empty when absent
}

// AuctionRow is one data row from the sheriff-sale workbook, before
// ampersand expansion.
type AuctionRow struct {
	AuctionID  string
	Status     string
	MinBid     string
	OpenDate   string
	Attorney   string
	DebtAmount string
	BookWrit   string
	OPA        string
	Address    string
}

// ResolvedRecord is one fully resolved property: an expanded AddressQuery
// plus its coordinate, neighborhood, and the descriptive fields carried
// through from the source row. Created once by the pipeline and immutable
// afterward.
type ResolvedRecord struct {
	AuctionID    string      `json:"auction_id"`
	Status       string      `json:"status"`
	MinBid       string      `json:"min_bid"`
	OpenDate     string      `json:"open_date"`
	Attorney     string      `json:"attorney"`
	DebtAmount   string      `json:"debt_amount"`
	BookWrit     string      `json:"book_writ"`
	OPA          string      `json:"opa"`
	Address      string      `json:"address"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`
	Neighborhood string      `json:"neighborhood"`

	PhilaLink      string `json:"phila_link,omitempty"`
	Bid4AssetsLink string `json:"bid4assets_link,omitempty"`
	StreetViewLink string `json:"streetview,omitempty"`
}

// UnknownNeighborhood is the sentinel used when no neighborhood could be
// determined for a record.
const UnknownNeighborhood = "Unknown"

// DeriveLinks fills the outbound link fields from the record's identifiers.
// Links whose source field is absent are left empty.
func (r *ResolvedRecord) DeriveLinks() {
	if r.OPA != "" {
		r.PhilaLink = fmt.Sprintf("https://property.phila.gov/?p=%s", r.OPA)
	}
	if r.AuctionID != "" {
		r.Bid4AssetsLink = fmt.Sprintf("https://www.bid4assets.com/auction/index/%s", r.AuctionID)
	}
	if r.Address != "" {
		r.StreetViewLink = fmt.Sprintf("https://www.google.com/maps?q=%s&layer=c", r.Address)
	}
}
