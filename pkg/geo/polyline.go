package geo

import "math"

// polylinePrecision is the Polyline5 scale (five decimal places).
const polylinePrecision = 1e5

// EncodePolyline encodes a route path using Google's Encoded Polyline
// Algorithm Format at 1e-5 precision. Directions results use it to keep long
// driving paths compact.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func EncodePolyline(points []Coordinate) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*6)
	prevLat, prevLon := 0, 0
	for _, p := range points {
		lat := int(math.Round(p.Latitude * polylinePrecision))
		lon := int(math.Round(p.Longitude * polylinePrecision))

		buf = appendSigned(buf, lat-prevLat)
		buf = appendSigned(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

// DecodePolyline is the inverse of EncodePolyline. A truncated trailing
// point is dropped.
func DecodePolyline(encoded string) []Coordinate {
	points := make([]Coordinate, 0, len(encoded)/4)

	lat, lon := 0, 0
	for i := 0; i < len(encoded); {
		dLat, next, ok := readSigned(encoded, i)
		if !ok {
			break
		}
		dLon, next, ok := readSigned(encoded, next)
		if !ok {
			break
		}
		i = next

		lat += dLat
		lon += dLon
		points = append(points, Coordinate{
			Longitude: float64(lon) / polylinePrecision,
			Latitude:  float64(lat) / polylinePrecision,
		})
	}
	return points
}

func appendSigned(buf []byte, v int) []byte {
	// zigzag
	s := v << 1
	if v < 0 {
		s = ^s
	}
	for s >= 0x20 {
		buf = append(buf, byte((0x20|(s&0x1f))+63))
		s >>= 5
	}
	return append(buf, byte(s+63))
}

func readSigned(encoded string, i int) (value, next int, ok bool) {
	result, shift := 0, 0
	for i < len(encoded) {
		b := int(encoded[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			return (result >> 1) ^ -(result & 1), i, true
		}
	}
	return 0, i, false
}
