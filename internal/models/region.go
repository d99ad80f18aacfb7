package models

import "strings"

// Region is an operating area derived from schedule locations.
type Region string

const (
	RegionTennessee Region = "tennessee"
	RegionKentucky  Region = "kentucky"
)

// Regions lists the regions in display order.
var Regions = []Region{RegionTennessee, RegionKentucky}

// ParseRegion recognises a region name case-insensitively.
func ParseRegion(raw string) (Region, bool) {
	switch Region(strings.ToLower(strings.TrimSpace(raw))) {
	case RegionTennessee:
		return RegionTennessee, true
	case RegionKentucky:
		return RegionKentucky, true
	}
	return "", false
}

// DisplayName returns the capitalised region name.
func (r Region) DisplayName() string {
	switch r {
	case RegionKentucky:
		return "Kentucky"
	case RegionTennessee:
		return "Tennessee"
	}
	return ""
}
