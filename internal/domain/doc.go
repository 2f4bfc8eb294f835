// Package domain models the restaurant directory: restaurants with an
// owned address, their reviews, and the geolocation logic behind the
// nearby search.
//
// # Coordinates as a write-through cache
//
// A restaurant's Latitude/Longitude are a denormalized cache of the
// geocoder lookup keyed by its address text. They are resolved
// synchronously before every create and every update (even when the
// address text did not change), and never on the read path. A lookup
// that finds no match leaves previously resolved coordinates in place,
// so a record may carry coordinates from an earlier version of its
// address. The two fields are always set or cleared together.
//
// # Distance model
//
// Distances use the haversine formula on a spherical earth with radius
// 6371 km. Inputs outside the canonical latitude/longitude ranges are
// not rejected; behavior for such inputs is undefined. Range checks are
// deliberately omitted because stored coordinates are only ever
// produced by the geocoder.
//
// # Ratings
//
// A restaurant's average rating is derived on read as the arithmetic
// mean of its review ratings. A restaurant with no reviews reports an
// average of 0, which doubles as "no data"; callers that need to tell
// the two apart must check the review count.
package domain
