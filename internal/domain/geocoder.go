package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeocodingUnavailable wraps a hard geocoder failure: the lookup
// itself broke, as opposed to the provider finding no match. Writes in
// progress must abort when they see it.
var ErrGeocodingUnavailable = errors.New("geocoding unavailable")

// Geocoder converts free-form address text into coordinates.
//
// A nil location with a nil error means the provider found no match;
// that is a normal outcome, not an error. A non-nil error means the
// lookup itself failed (transport error, non-success status) and the
// caller must not treat the address as resolved.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*GeoLocation, error)
}

// ResolveCoordinates refreshes a restaurant's coordinates from its
// current address. It is called before every create and update.
//
// On a match both coordinate fields are overwritten together. On no
// match the previous values are kept, even if they were resolved from
// an older address; erasing known-good coordinates would make the
// record disappear from nearby search over a transient provider miss.
// A hard geocoder failure propagates so the caller can abort the write.
func ResolveCoordinates(ctx context.Context, r *Restaurant, geocoder Geocoder) error {
	loc, err := geocoder.Resolve(ctx, r.Address.Text())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGeocodingUnavailable, err)
	}
	if loc != nil {
		r.SetLocation(*loc)
	}
	return nil
}
