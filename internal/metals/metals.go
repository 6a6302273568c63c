// Package metals names the tracked commodities and the price snapshot taken of them.
package metals

import "fmt"

// Commodity identifies a tracked asset.
type Commodity string

const (
	Gold   Commodity = "gold"
	Silver Commodity = "silver"
)

// All lists the commodities in the order they are fetched and reported.
var All = []Commodity{Gold, Silver}

// CommodityMeta describes how a commodity is quoted.
type CommodityMeta struct {
	Label             string // display name, e.g. "Gold"
	Emoji             string
	Unit              string // reference quantity as shown in messages, e.g. "10g"
	ReferenceQuantity string // first-cell text of the price row, in grams
}

var commodities = map[Commodity]CommodityMeta{
	Gold:   {Label: "Gold", Emoji: "🥇", Unit: "10g", ReferenceQuantity: "10"},
	Silver: {Label: "Silver", Emoji: "🥈", Unit: "kg", ReferenceQuantity: "1000"},
}

// IsValid reports whether c is a tracked commodity.
func (c Commodity) IsValid() bool {
	_, ok := commodities[c]
	return ok
}

// Meta returns the quoting metadata for c.
func (c Commodity) Meta() CommodityMeta {
	return commodities[c]
}

// Snapshot holds the price of every commodity at one point in time.
// Its JSON form is the persisted record: {"gold": <number>, "silver": <number>}.
type Snapshot struct {
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
}

// Price returns the snapshot's price for c.
func (s Snapshot) Price(c Commodity) float64 {
	switch c {
	case Gold:
		return s.Gold
	case Silver:
		return s.Silver
	}
	return 0
}

// With returns a copy of s with c's price set to price.
func (s Snapshot) With(c Commodity, price float64) (Snapshot, error) {
	switch c {
	case Gold:
		s.Gold = price
	case Silver:
		s.Silver = price
	default:
		return s, fmt.Errorf("unknown commodity %q", c)
	}
	return s, nil
}
