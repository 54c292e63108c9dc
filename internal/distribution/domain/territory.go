// Package domain provides the core business rules for lead distribution:
// territory matching, eligibility, capacity, and round-robin selection.
package domain

import "strings"

// TerritoryType identifies the granularity of a territory.
type TerritoryType string

const (
	TerritoryZipcode TerritoryType = "zipcode"
	TerritoryCity    TerritoryType = "city"
	TerritoryCounty  TerritoryType = "county"
	TerritoryState   TerritoryType = "state"
)

// TerritoryPrecedence is the fixed match order for resolving a lead's
// geography to owning agencies, most specific first.
var TerritoryPrecedence = []TerritoryType{
	TerritoryZipcode,
	TerritoryCity,
	TerritoryCounty,
	TerritoryState,
}

// Territory is a (type, value) geography unit an agency can own.
type Territory struct {
	Type  TerritoryType
	Value string
}

// Geography holds the location fields of a lead. One or more may be populated.
type Geography struct {
	Zipcode string
	City    string
	County  string
	State   string
}

// IsEmpty reports whether no geography field is populated.
func (g Geography) IsEmpty() bool {
	return strings.TrimSpace(g.Zipcode) == "" &&
		strings.TrimSpace(g.City) == "" &&
		strings.TrimSpace(g.County) == "" &&
		strings.TrimSpace(g.State) == ""
}

// Territories returns the populated geography fields as territories in
// precedence order (zipcode, city, county, state).
func (g Geography) Territories() []Territory {
	values := map[TerritoryType]string{
		TerritoryZipcode: strings.TrimSpace(g.Zipcode),
		TerritoryCity:    strings.TrimSpace(g.City),
		TerritoryCounty:  strings.TrimSpace(g.County),
		TerritoryState:   strings.TrimSpace(g.State),
	}

	territories := make([]Territory, 0, len(TerritoryPrecedence))
	for _, t := range TerritoryPrecedence {
		if values[t] != "" {
			territories = append(territories, Territory{Type: t, Value: values[t]})
		}
	}
	return territories
}

// MostSpecific returns the most specific populated territory. The rotation
// cursor for a lead is keyed by this territory plus the lead's industry.
func (g Geography) MostSpecific() (Territory, bool) {
	territories := g.Territories()
	if len(territories) == 0 {
		return Territory{}, false
	}
	return territories[0], true
}

// CursorKey identifies one round-robin rotation cursor.
type CursorKey struct {
	TerritoryType  TerritoryType
	TerritoryValue string
	Industry       string
}

// NewCursorKey builds the cursor key for a territory and a normalized
// industry tag (empty string for untagged leads).
func NewCursorKey(territory Territory, industry string) CursorKey {
	return CursorKey{
		TerritoryType:  territory.Type,
		TerritoryValue: territory.Value,
		Industry:       NormalizeIndustry(industry),
	}
}
