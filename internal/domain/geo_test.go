package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	points := []GeoLocation{
		{Latitude: 0, Longitude: 0},
		{Latitude: 52.2297, Longitude: 21.0122},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 180},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := GeoLocation{Latitude: 52.2297, Longitude: 21.0122} // Warsaw
	b := GeoLocation{Latitude: 50.0647, Longitude: 19.9450} // Krakow

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKm_KnownReferenceValues(t *testing.T) {
	tests := []struct {
		name string
		a, b GeoLocation
		want float64
	}{
		{
			name: "one degree of longitude on the equator",
			a:    GeoLocation{Latitude: 0, Longitude: 0},
			b:    GeoLocation{Latitude: 0, Longitude: 1},
			want: 111.19,
		},
		{
			name: "one degree of latitude",
			a:    GeoLocation{Latitude: 0, Longitude: 0},
			b:    GeoLocation{Latitude: 1, Longitude: 0},
			want: 111.19,
		},
		{
			name: "Warsaw to Krakow",
			a:    GeoLocation{Latitude: 52.2297, Longitude: 21.0122},
			b:    GeoLocation{Latitude: 50.0647, Longitude: 19.9450},
			want: 252.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceKm(tt.a, tt.b), 0.5)
		})
	}
}

func TestFilterNearby_ExcludesUnresolvedCoordinates(t *testing.T) {
	center := GeoLocation{Latitude: 52.0, Longitude: 21.0}
	restaurants := []Restaurant{
		{ID: 1, Name: "Unresolved"},
		{ID: 2, Name: "At center", Latitude: ptr(52.0), Longitude: ptr(21.0)},
		{ID: 3, Name: "Half resolved", Latitude: ptr(52.0)},
	}

	got := FilterNearby(restaurants, center, 1e6)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestFilterNearby_RadiusZeroMatchesOnlyTheCenter(t *testing.T) {
	center := GeoLocation{Latitude: 52.0, Longitude: 21.0}
	restaurants := []Restaurant{
		{ID: 1, Latitude: ptr(52.0), Longitude: ptr(21.0)},
		{ID: 2, Latitude: ptr(52.0001), Longitude: ptr(21.0)},
	}

	got := FilterNearby(restaurants, center, 0)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterNearby_RespectsRadiusAndPreservesOrder(t *testing.T) {
	center := GeoLocation{Latitude: 52.05, Longitude: 21.0}
	// (52.0, 21.0) is ~5.56 km from the center.
	restaurants := []Restaurant{
		{ID: 1, Name: "Zloty Widelec", Latitude: ptr(52.0), Longitude: ptr(21.0)},
		{ID: 2, Name: "Avanti", Latitude: ptr(52.051), Longitude: ptr(21.0)},
		{ID: 3, Name: "Daleko", Latitude: ptr(53.0), Longitude: ptr(21.0)},
	}

	within10 := FilterNearby(restaurants, center, 10)
	assert.Equal(t, []int64{1, 2}, ids(within10))

	within1 := FilterNearby(restaurants, center, 1)
	assert.Equal(t, []int64{2}, ids(within1))
}

func ids(rs []Restaurant) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
