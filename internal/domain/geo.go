package domain

import "math"

// EarthRadiusKm is the spherical-earth radius used by the haversine
// distance.
const EarthRadiusKm = 6371

// DefaultNearbyRadiusKm is the radius applied when a nearby query does
// not specify one.
const DefaultNearbyRadiusKm = 10

// GeoLocation is a WGS-84 latitude/longitude pair.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm computes the great-circle distance between two points
// using the haversine formula. It is symmetric and returns 0 for
// identical points.
func DistanceKm(a, b GeoLocation) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// FilterNearby returns the restaurants within radiusKm of center,
// preserving input order. Restaurants without resolved coordinates are
// always excluded, regardless of the radius.
func FilterNearby(restaurants []Restaurant, center GeoLocation, radiusKm float64) []Restaurant {
	nearby := make([]Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		loc, ok := r.Location()
		if !ok {
			continue
		}
		if DistanceKm(center, loc) <= radiusKm {
			nearby = append(nearby, r)
		}
	}
	return nearby
}
