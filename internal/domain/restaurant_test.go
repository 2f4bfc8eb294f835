package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRestaurant() Restaurant {
	return Restaurant{
		Name:     "Pod Lipami",
		MenuType: "Polish",
		Address:  Address{Street: "Nowy Swiat 15", City: "Warszawa", ZipCode: "00-029"},
	}
}

func TestRestaurantValidate_Valid(t *testing.T) {
	assert.NoError(t, validRestaurant().Validate())
}

func TestRestaurantValidate_MissingFields(t *testing.T) {
	r := Restaurant{Address: Address{ZipCode: "00-029"}}

	err := r.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "menu_type")
	assert.Contains(t, verr.Fields, "address.street")
	assert.Contains(t, verr.Fields, "address.city")
	assert.NotContains(t, verr.Fields, "address.zip_code")
}

func TestRestaurantValidate_ZipFormat(t *testing.T) {
	for _, zip := range []string{"00029", "0-0029", "ab-cde", "00-02", "00-0290", ""} {
		r := validRestaurant()
		r.Address.ZipCode = zip

		var verr *ValidationError
		require.ErrorAs(t, r.Validate(), &verr, "zip %q should be rejected", zip)
		assert.Contains(t, verr.Fields, "address.zip_code")
	}
}

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name    string
		review  Review
		wantBad string
	}{
		{"valid", Review{RestaurantID: 1, Rating: 5, Comment: "great"}, ""},
		{"rating too low", Review{RestaurantID: 1, Rating: 0}, "rating"},
		{"rating too high", Review{RestaurantID: 1, Rating: 6}, "rating"},
		{"comment too long", Review{RestaurantID: 1, Rating: 3, Comment: strings.Repeat("x", 501)}, "comment"},
		{"multibyte comment under limit", Review{RestaurantID: 1, Rating: 3, Comment: strings.Repeat("ą", 300)}, ""},
		{"multibyte comment too long", Review{RestaurantID: 1, Rating: 3, Comment: strings.Repeat("ą", 501)}, "comment"},
		{"missing restaurant", Review{Rating: 3}, "restaurant_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if tt.wantBad == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantBad)
		})
	}
}

func TestReviewValidate_CommentAtLimit(t *testing.T) {
	rv := Review{RestaurantID: 1, Rating: 3, Comment: strings.Repeat("x", MaxCommentLength)}
	assert.NoError(t, rv.Validate())
}

func TestAddressText(t *testing.T) {
	a := Address{Street: "Nowy Swiat 15", City: "Warszawa", ZipCode: "00-029"}
	assert.Equal(t, "Nowy Swiat 15, Warszawa, 00-029", a.Text())
}

func TestRestaurantLocation(t *testing.T) {
	r := Restaurant{}
	_, ok := r.Location()
	assert.False(t, ok)

	r.SetLocation(GeoLocation{Latitude: 52.1, Longitude: 21.0})
	loc, ok := r.Location()
	require.True(t, ok)
	assert.Equal(t, GeoLocation{Latitude: 52.1, Longitude: 21.0}, loc)
}
