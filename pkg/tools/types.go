package tools

import (
	"math"
	"strconv"
	"strings"

	"github.com/NERVsystems/navermcp/pkg/geo"
	"github.com/NERVsystems/navermcp/pkg/naver"
)

// GeocodeMeta is the paging information of a geocode result.
type GeocodeMeta struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Count      int `json:"count"`
}

// GeocodeAddress is one geocoded address.
type GeocodeAddress struct {
	RoadAddress    string  `json:"roadAddress"`
	JibunAddress   string  `json:"jibunAddress"`
	EnglishAddress string  `json:"englishAddress"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// GeocodeOutput is returned by the geocode tool.
type GeocodeOutput struct {
	Meta      GeocodeMeta      `json:"meta"`
	Addresses []GeocodeAddress `json:"addresses"`
}

// Place is one local search result. Position fields are only set by
// localSearchByCoordinate.
type Place struct {
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Address        string   `json:"address"`
	RoadAddress    string   `json:"roadAddress"`
	Telephone      string   `json:"telephone,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
}

// LocalSearchOutput is returned by localSearch and localSearchByCoordinate.
type LocalSearchOutput struct {
	Total   int     `json:"total"`
	Start   int     `json:"start"`
	Display int     `json:"display"`
	Items   []Place `json:"items"`
}

// RouteStep is one turn-by-turn instruction.
type RouteStep struct {
	Instructions    string  `json:"instructions"`
	DistanceMeters  int     `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// DirectionsOutput is returned by the directions tool.
type DirectionsOutput struct {
	Option          string         `json:"option"`
	Start           geo.Coordinate `json:"start"`
	Goal            geo.Coordinate `json:"goal"`
	DistanceMeters  int            `json:"distanceMeters"`
	DurationSeconds float64        `json:"durationSeconds"`
	TollFare        int            `json:"tollFare"`
	TaxiFare        int            `json:"taxiFare"`
	FuelPrice       int            `json:"fuelPrice"`
	Polyline        string         `json:"polyline"`
	Steps           []RouteStep    `json:"steps"`
}

func newGeocodeOutput(resp *naver.GeocodeResponse) GeocodeOutput {
	out := GeocodeOutput{
		Meta: GeocodeMeta{
			TotalCount: resp.Meta.TotalCount,
			Page:       resp.Meta.Page,
			Count:      resp.Meta.Count,
		},
		Addresses: make([]GeocodeAddress, 0, len(resp.Addresses)),
	}
	for _, a := range resp.Addresses {
		// x and y are decimal degrees; (0,0) is a real place, so an address
		// without a usable position is dropped
		pos, ok := parseDegrees(a.X, a.Y)
		if !ok {
			continue
		}
		out.Addresses = append(out.Addresses, GeocodeAddress{
			RoadAddress:    a.RoadAddress,
			JibunAddress:   a.JibunAddress,
			EnglishAddress: a.EnglishAddress,
			Longitude:      pos.Longitude,
			Latitude:       pos.Latitude,
			DistanceMeters: a.Distance,
		})
	}
	return out
}

func parseDegrees(rawLon, rawLat string) (geo.Coordinate, bool) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Longitude: lon, Latitude: lat}
	if geo.ValidateCoordinate(c) != nil {
		return geo.Coordinate{}, false
	}
	return c, true
}

func newPlace(item naver.LocalItem) Place {
	return Place{
		Title:       item.Title,
		Link:        item.Link,
		Category:    item.Category,
		Description: item.Description,
		Address:     item.Address,
		RoadAddress: item.RoadAddress,
		Telephone:   item.Telephone,
	}
}

func newLocalSearchOutput(resp *naver.LocalSearchResponse) LocalSearchOutput {
	out := LocalSearchOutput{
		Total:   resp.Total,
		Start:   resp.Start,
		Display: resp.Display,
		Items:   make([]Place, 0, len(resp.Items)),
	}
	for _, item := range resp.Items {
		out.Items = append(out.Items, newPlace(item))
	}
	return out
}

// newRadiusOutput is newLocalSearchOutput plus each item's decoded position
// and distance from center.
func newRadiusOutput(resp *naver.LocalSearchResponse, center geo.Coordinate) LocalSearchOutput {
	out := newLocalSearchOutput(resp)
	for i, item := range resp.Items {
		pos, ok := geo.FromFixedPoint(item.MapX, item.MapY)
		if !ok {
			continue
		}
		dist := geo.Distance(center, pos)
		out.Items[i].Longitude = &pos.Longitude
		out.Items[i].Latitude = &pos.Latitude
		out.Items[i].DistanceMeters = &dist
	}
	return out
}

func newDirectionsOutput(option naver.DirectionOption, route naver.Route, start, goal geo.Coordinate) DirectionsOutput {
	path := make([]geo.Coordinate, 0, len(route.Path))
	for _, p := range route.Path {
		if len(p) < 2 {
			continue
		}
		path = append(path, geo.Coordinate{Longitude: p[0], Latitude: p[1]})
	}

	steps := make([]RouteStep, 0, len(route.Guide))
	for _, g := range route.Guide {
		steps = append(steps, RouteStep{
			Instructions:    g.Instructions,
			DistanceMeters:  g.Distance,
			DurationSeconds: float64(g.Duration) / 1000,
		})
	}

	return DirectionsOutput{
		Option:          string(option),
		Start:           start,
		Goal:            goal,
		DistanceMeters:  route.Summary.Distance,
		DurationSeconds: float64(route.Summary.Duration) / 1000,
		TollFare:        route.Summary.TollFare,
		TaxiFare:        route.Summary.TaxiFare,
		FuelPrice:       route.Summary.FuelPrice,
		Polyline:        geo.EncodePolyline(path),
		Steps:           steps,
	}
}
