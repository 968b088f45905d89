// Package geo provides the coordinate type and distance calculations shared
// by the Naver Maps tools.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadius is the mean radius of Earth in meters
const EarthRadius = 6371000.0

// FixedPointScale is the scale Naver local search uses for mapx/mapy.
// A raw value of 1270276000 means 127.0276 degrees.
const FixedPointScale = 10_000_000

// Coordinate is a longitude/latitude pair in decimal degrees.
//
// Example:
//
//	gangnam := geo.Coordinate{Longitude: 127.0276, Latitude: 37.4979}
//	dist := geo.Distance(gangnam, geo.Coordinate{Longitude: 127.0286, Latitude: 37.4989})
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// String formats the coordinate as "lon,lat", the order Naver APIs expect.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

// ParseCoordinate parses a "lon,lat" string.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: expected \"longitude,latitude\"", s)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}

	c := Coordinate{Longitude: lon, Latitude: lat}
	if err := ValidateCoordinate(c); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// ValidateCoordinate checks that latitude and longitude are within range.
func ValidateCoordinate(c Coordinate) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("invalid latitude value: %f (must be between -90 and 90)", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid longitude value: %f (must be between -180 and 180)", c.Longitude)
	}
	return nil
}

// FromFixedPoint decodes a fixed-point position as returned by Naver local
// search. ok is false when either field is missing or not numeric.
func FromFixedPoint(rawLon, rawLat string) (c Coordinate, ok bool) {
	rawLon, rawLat = strings.TrimSpace(rawLon), strings.TrimSpace(rawLat)
	if rawLon == "" || rawLat == "" {
		return Coordinate{}, false
	}

	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinate{}, false
	}

	return Coordinate{
		Longitude: lon / FixedPointScale,
		Latitude:  lat / FixedPointScale,
	}, true
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// HaversineDistance calculates the great-circle distance between two points
// on the Earth's surface given their latitude and longitude in degrees.
// The result is returned in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	// rounding can push a just past 1 for antipodal points
	a = math.Min(a, 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}
