package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound reports that a requested record does not exist. The store
// also returns it when an update or delete targets a record that was
// removed between read and write.
var ErrNotFound = errors.New("record not found")

// MaxCommentLength caps review comments, counted in characters.
const MaxCommentLength = 500

// zipPattern is the required postal code format, e.g. "00-950".
var zipPattern = regexp.MustCompile(`^\d{2}-\d{3}$`)

// Address is the owned address sub-record of a restaurant.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// Text renders the address as the free-form query string sent to the
// geocoder. The template is fixed; changing it invalidates the
// write-through coordinate cache semantics.
func (a Address) Text() string {
	return fmt.Sprintf("%s, %s, %s", a.Street, a.City, a.ZipCode)
}

// Restaurant is a directory entry. Latitude and Longitude are both set
// or both nil; see the package documentation for the caching policy.
type Restaurant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MenuType  string    `json:"menu_type"`
	Address   Address   `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Reviews   []Review  `json:"reviews,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location returns the restaurant's resolved coordinates, or false when
// they have never been resolved.
func (r Restaurant) Location() (GeoLocation, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return GeoLocation{}, false
	}
	return GeoLocation{Latitude: *r.Latitude, Longitude: *r.Longitude}, true
}

// SetLocation overwrites both coordinate fields together.
func (r *Restaurant) SetLocation(loc GeoLocation) {
	lat, lon := loc.Latitude, loc.Longitude
	r.Latitude = &lat
	r.Longitude = &lon
}

// AverageRating is the arithmetic mean of the review ratings, or 0 when
// the restaurant has no reviews.
func (r Restaurant) AverageRating() float64 {
	if len(r.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, rv := range r.Reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(r.Reviews))
}

// Review is a user rating of a restaurant. Reviews are append-only in
// the current scope; they are never edited or deleted on their own and
// are removed only by the owning restaurant's cascade delete.
type Review struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	Comment      string    `json:"comment"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidationError carries per-field validation messages. It maps a
// field name to the reason the submitted value was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// Validate checks required fields and the postal code format. It
// returns a *ValidationError listing every offending field, or nil.
func (r Restaurant) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(r.MenuType) == "" {
		fields["menu_type"] = "menu type is required"
	}
	if strings.TrimSpace(r.Address.Street) == "" {
		fields["address.street"] = "street is required"
	}
	if strings.TrimSpace(r.Address.City) == "" {
		fields["address.city"] = "city is required"
	}
	if !zipPattern.MatchString(r.Address.ZipCode) {
		fields["address.zip_code"] = "zip code needs to be in XX-XXX format"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks the rating range and comment length.
func (rv Review) Validate() error {
	fields := map[string]string{}
	if rv.RestaurantID <= 0 {
		fields["restaurant_id"] = "restaurant id is required"
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		fields["rating"] = "rating must be between 1 and 5"
	}
	if utf8.RuneCountInString(rv.Comment) > MaxCommentLength {
		fields["comment"] = fmt.Sprintf("comment can have max %d characters", MaxCommentLength)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
