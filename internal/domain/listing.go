package domain

import (
	"sort"
	"strings"
)

// SortOrder selects the name ordering of a listing.
type SortOrder string

const (
	SortNameAsc  SortOrder = "name_asc"
	SortNameDesc SortOrder = "name_desc"
)

// NearbyFilter restricts a listing to restaurants within RadiusKm of
// Center.
type NearbyFilter struct {
	Center   GeoLocation
	RadiusKm float64
}

// ListFilter describes one listing request. Zero values mean "no
// constraint" for Search and MenuType; a nil Near skips the geo step.
type ListFilter struct {
	Search   string
	MenuType string
	Sort     SortOrder
	Near     *NearbyFilter
}

// ApplyListFilter runs the listing pipeline: name substring search,
// exact menu-type match, stable sort by name, then the optional nearby
// filter. The geo step preserves the sort order from the previous step.
//
// The name search is case-insensitive; the store's collation is not
// involved because filtering happens in memory.
func ApplyListFilter(restaurants []Restaurant, f ListFilter) []Restaurant {
	out := make([]Restaurant, 0, len(restaurants))

	search := strings.ToLower(f.Search)
	for _, r := range restaurants {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if f.MenuType != "" && r.MenuType != f.MenuType {
			continue
		}
		out = append(out, r)
	}

	switch f.Sort {
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}

	if f.Near != nil {
		out = FilterNearby(out, f.Near.Center, f.Near.RadiusKm)
	}

	return out
}

// AverageRatings maps each restaurant ID to its derived average rating.
// This is the shape handed to the presentation layer alongside the
// listing itself.
func AverageRatings(restaurants []Restaurant) map[int64]float64 {
	ratings := make(map[int64]float64, len(restaurants))
	for _, r := range restaurants {
		ratings[r.ID] = r.AverageRating()
	}
	return ratings
}
