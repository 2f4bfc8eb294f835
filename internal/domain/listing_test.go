package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listingFixture() []Restaurant {
	return []Restaurant{
		{ID: 1, Name: "Sushi Zen", MenuType: "Asian",
			Reviews: []Review{{Rating: 4}, {Rating: 5}}},
		{ID: 2, Name: "Bar Mleczny", MenuType: "Polish",
			Reviews: []Review{{Rating: 3}}},
		{ID: 3, Name: "Ato Sushi", MenuType: "Asian"},
		{ID: 4, Name: "Sushi House", MenuType: "Asian",
			Latitude: ptr(52.0), Longitude: ptr(21.0),
			Reviews: []Review{{Rating: 2}, {Rating: 2}, {Rating: 5}}},
		{ID: 5, Name: "Trattoria Sole", MenuType: "Italian"},
	}
}

func TestApplyListFilter_SearchMenuTypeAndDescendingSort(t *testing.T) {
	got := ApplyListFilter(listingFixture(), ListFilter{
		Search:   "Sushi",
		MenuType: "Asian",
		Sort:     SortNameDesc,
	})

	assert.Equal(t, []int64{1, 4, 3}, ids(got))
}

func TestApplyListFilter_SearchIsCaseInsensitive(t *testing.T) {
	got := ApplyListFilter(listingFixture(), ListFilter{Search: "sUsHi"})
	assert.Len(t, got, 3)
}

func TestApplyListFilter_DefaultSortIsNameAscending(t *testing.T) {
	got := ApplyListFilter(listingFixture(), ListFilter{})
	assert.Equal(t, []int64{3, 2, 4, 1, 5}, ids(got))
}

func TestApplyListFilter_GeoStepPreservesSortOrder(t *testing.T) {
	restaurants := []Restaurant{
		{ID: 1, Name: "Cezar", Latitude: ptr(52.001), Longitude: ptr(21.0)},
		{ID: 2, Name: "Atelier", Latitude: ptr(52.0), Longitude: ptr(21.0)},
		{ID: 3, Name: "Bez Adresu"},
	}

	got := ApplyListFilter(restaurants, ListFilter{
		Sort: SortNameDesc,
		Near: &NearbyFilter{Center: GeoLocation{Latitude: 52.0, Longitude: 21.0}, RadiusKm: 10},
	})

	// Descending name order survives the geo filter; the restaurant
	// without coordinates is dropped.
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestApplyListFilter_EmptyFilterKeepsEverything(t *testing.T) {
	got := ApplyListFilter(listingFixture(), ListFilter{})
	assert.Len(t, got, len(listingFixture()))
}

func TestAverageRating(t *testing.T) {
	fixture := listingFixture()

	assert.Equal(t, 4.5, fixture[0].AverageRating())
	assert.Equal(t, 3.0, fixture[1].AverageRating())
	assert.Equal(t, 0.0, fixture[2].AverageRating(), "no reviews reports 0")
	assert.InDelta(t, 3.0, fixture[3].AverageRating(), 1e-9)
}

func TestAverageRatings_MapsEveryRestaurant(t *testing.T) {
	ratings := AverageRatings(listingFixture())

	assert.Len(t, ratings, 5)
	assert.Equal(t, 4.5, ratings[1])
	assert.Equal(t, 0.0, ratings[3])
}
