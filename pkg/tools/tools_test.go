package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/NERVsystems/navermcp/pkg/geo"
	"github.com/NERVsystems/navermcp/pkg/naver"
	"github.com/NERVsystems/navermcp/pkg/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	geocode    func(naver.GeocodeParams) (*naver.GeocodeResponse, error)
	local      func(naver.LocalSearchParams) (*naver.LocalSearchResponse, error)
	directions func(naver.DirectionsParams) (*naver.DirectionsResponse, error)

	localCalls []naver.LocalSearchParams
}

func (s *stubClient) Geocode(_ context.Context, p naver.GeocodeParams) (*naver.GeocodeResponse, error) {
	return s.geocode(p)
}

func (s *stubClient) SearchLocal(_ context.Context, p naver.LocalSearchParams) (*naver.LocalSearchResponse, error) {
	s.localCalls = append(s.localCalls, p)
	return s.local(p)
}

func (s *stubClient) Directions(_ context.Context, p naver.DirectionsParams) (*naver.DirectionsResponse, error) {
	return s.directions(p)
}

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}

func requireFailure(t *testing.T, result *mcp.CallToolResult) Failure {
	t.Helper()
	require.True(t, result.IsError, "expected an error result")

	var f Failure
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &f))
	assert.False(t, f.Success)
	assert.NotEmpty(t, f.Error)
	return f
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, "unexpected error result: %s", resultText(t, result))

	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	return out
}

func TestToolDefinitions(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger(), &stubClient{})

	names := map[string]bool{}
	for _, def := range r.GetToolDefinitions() {
		assert.Equal(t, def.Name, def.Tool.Name)
		assert.NotNil(t, def.Handler)
		names[def.Name] = true
	}
	for _, want := range []string{"geocode", "localSearch", "localSearchByCoordinate", "directions"} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestHandleGeocode(t *testing.T) {
	client := &stubClient{geocode: func(p naver.GeocodeParams) (*naver.GeocodeResponse, error) {
		assert.Equal(t, "강남대로 396", p.Query)
		assert.Equal(t, "eng", p.Language)
		assert.Equal(t, 2, p.Page)
		return &naver.GeocodeResponse{
			Status: "OK",
			Meta:   naver.GeocodeMeta{TotalCount: 11, Page: 2, Count: 1},
			Addresses: []naver.GeocodeAddress{{
				RoadAddress:    "서울특별시 강남구 강남대로 396",
				JibunAddress:   "서울특별시 강남구 역삼동 858",
				EnglishAddress: "396, Gangnam-daero, Gangnam-gu, Seoul",
				X:              "127.0276",
				Y:              "37.4979",
				Distance:       12.5,
			}},
		}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleGeocode(context.Background(), newRequest("geocode", map[string]any{
		"address":  "강남대로 396",
		"language": "eng",
		"page":     2,
	}))
	require.NoError(t, err)

	out := decodeResult[GeocodeOutput](t, result)
	assert.Equal(t, GeocodeMeta{TotalCount: 11, Page: 2, Count: 1}, out.Meta)
	require.Len(t, out.Addresses, 1)
	assert.Equal(t, 127.0276, out.Addresses[0].Longitude)
	assert.Equal(t, 37.4979, out.Addresses[0].Latitude)
	assert.Equal(t, 12.5, out.Addresses[0].DistanceMeters)
	assert.Equal(t, "396, Gangnam-daero, Gangnam-gu, Seoul", out.Addresses[0].EnglishAddress)
}

func TestHandleGeocodeDropsAddressWithoutPosition(t *testing.T) {
	client := &stubClient{geocode: func(naver.GeocodeParams) (*naver.GeocodeResponse, error) {
		return &naver.GeocodeResponse{
			Status: "OK",
			Meta:   naver.GeocodeMeta{TotalCount: 3, Page: 1, Count: 3},
			Addresses: []naver.GeocodeAddress{
				{RoadAddress: "no x", X: "", Y: "37.4979"},
				{RoadAddress: "garbage", X: "east", Y: "north"},
				{RoadAddress: "good", X: "127.0276", Y: "37.4979"},
			},
		}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleGeocode(context.Background(), newRequest("geocode", map[string]any{"address": "강남"}))
	require.NoError(t, err)

	out := decodeResult[GeocodeOutput](t, result)
	require.Len(t, out.Addresses, 1)
	assert.Equal(t, "good", out.Addresses[0].RoadAddress)
	assert.Equal(t, 127.0276, out.Addresses[0].Longitude)
}

func TestHandleGeocodeValidation(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger(), &stubClient{})

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty address", map[string]any{"address": "   "}},
		{"bad language", map[string]any{"address": "서울", "language": "jpn"}},
		{"page zero", map[string]any{"address": "서울", "page": 0}},
		{"fractional page", map[string]any{"address": "서울", "page": 1.5}},
		{"page as string", map[string]any{"address": "서울", "page": "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.HandleGeocode(context.Background(), newRequest("geocode", tt.args))
			require.NoError(t, err)
			requireFailure(t, result)
		})
	}
}

func TestHandleGeocodeUpstreamFailure(t *testing.T) {
	client := &stubClient{geocode: func(naver.GeocodeParams) (*naver.GeocodeResponse, error) {
		return nil, naver.NewAPIError(naver.ServiceGeocode, naver.StatusRateLimited, "420: Quota Exceeded")
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleGeocode(context.Background(), newRequest("geocode", map[string]any{"address": "서울"}))
	require.NoError(t, err)

	f := requireFailure(t, result)
	assert.Equal(t, "Rate limited: 420: Quota Exceeded", f.Error)
}

func TestHandleLocalSearch(t *testing.T) {
	client := &stubClient{local: func(p naver.LocalSearchParams) (*naver.LocalSearchResponse, error) {
		return &naver.LocalSearchResponse{
			Total:   120,
			Start:   1,
			Display: 2,
			Items: []naver.LocalItem{
				{Title: "<b>카페</b> 강남", Link: "https://example.com", Category: "카페,디저트", Address: "역삼동 1", RoadAddress: "강남대로 1", MapX: "1270276000", MapY: "374979000"},
				{Title: "카페 역삼", Category: "카페"},
			},
		}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleLocalSearch(context.Background(), newRequest("localSearch", map[string]any{
		"query":   "강남 카페",
		"display": 2,
		"sort":    "comment",
	}))
	require.NoError(t, err)

	out := decodeResult[LocalSearchOutput](t, result)
	assert.Equal(t, 120, out.Total)
	assert.Equal(t, 1, out.Start)
	assert.Equal(t, 2, out.Display)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "강남대로 1", out.Items[0].RoadAddress)
	assert.Nil(t, out.Items[0].DistanceMeters, "plain local search carries no distance")

	require.Len(t, client.localCalls, 1)
	assert.Equal(t, naver.LocalSearchParams{Query: "강남 카페", Display: 2, Start: 1, Sort: "comment"}, client.localCalls[0])
}

func TestHandleLocalSearchDefaults(t *testing.T) {
	client := &stubClient{local: func(p naver.LocalSearchParams) (*naver.LocalSearchResponse, error) {
		return &naver.LocalSearchResponse{Start: 1, Items: []naver.LocalItem{}}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleLocalSearch(context.Background(), newRequest("localSearch", map[string]any{"query": "약국"}))
	require.NoError(t, err)

	out := decodeResult[LocalSearchOutput](t, result)
	assert.NotNil(t, out.Items)
	require.Len(t, client.localCalls, 1)
	assert.Equal(t, DefaultDisplay, client.localCalls[0].Display)
	assert.Equal(t, naver.SortRandom, client.localCalls[0].Sort)
}

func TestHandleLocalSearchValidation(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger(), &stubClient{})

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing query", map[string]any{}},
		{"display too large", map[string]any{"query": "q", "display": 6}},
		{"negative display", map[string]any{"query": "q", "display": -1}},
		{"bad sort", map[string]any{"query": "q", "sort": "distance"}},
		{"display as string", map[string]any{"query": "q", "display": "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.HandleLocalSearch(context.Background(), newRequest("localSearch", tt.args))
			require.NoError(t, err)
			requireFailure(t, result)
		})
	}
}

func TestHandleLocalSearchByCoordinate(t *testing.T) {
	client := &stubClient{local: func(p naver.LocalSearchParams) (*naver.LocalSearchResponse, error) {
		return &naver.LocalSearchResponse{
			Total:   50,
			Start:   1,
			Display: 5,
			Items: []naver.LocalItem{
				{Title: "center", MapX: "1270276000", MapY: "374979000"},
				{Title: "far", MapX: "1270376000", MapY: "375079000"},
				{Title: "north", MapX: "1270276000", MapY: "374999000"},
				{Title: "east", MapX: "1270306000", MapY: "374979000"},
				{Title: "far east", MapX: "1270376000", MapY: "374979000"},
			},
		}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleLocalSearchByCoordinate(context.Background(), newRequest("localSearchByCoordinate", map[string]any{
		"query":       "coffee",
		"longitude":   127.0276,
		"latitude":    37.4979,
		"radius":      500,
		"display":     5,
		"sort":        "random",
		"min_results": 3,
	}))
	require.NoError(t, err)

	out := decodeResult[LocalSearchOutput](t, result)
	assert.Len(t, client.localCalls, 1)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 1, out.Start)
	require.Len(t, out.Items, 3)
	for _, item := range out.Items {
		require.NotNil(t, item.DistanceMeters, "item %s", item.Title)
		assert.LessOrEqual(t, *item.DistanceMeters, 500.0)
		assert.NotNil(t, item.Longitude)
		assert.NotNil(t, item.Latitude)
	}
	assert.InDelta(t, 0, *out.Items[0].DistanceMeters, 1e-6)
}

func TestHandleLocalSearchByCoordinateValidation(t *testing.T) {
	client := &stubClient{}
	r := NewRegistry(testutil.DiscardLogger(), client)

	base := func() map[string]any {
		return map[string]any{"query": "coffee", "longitude": 127.0, "latitude": 37.5}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"radius zero", func(a map[string]any) { a["radius"] = 0 }},
		{"radius too large", func(a map[string]any) { a["radius"] = 10001 }},
		{"min results zero", func(a map[string]any) { a["min_results"] = 0 }},
		{"min results too large", func(a map[string]any) { a["min_results"] = 6 }},
		{"latitude out of range", func(a map[string]any) { a["latitude"] = 95.0 }},
		{"empty query", func(a map[string]any) { a["query"] = "" }},
		{"missing center", func(a map[string]any) { delete(a, "longitude"); delete(a, "latitude") }},
		{"missing latitude", func(a map[string]any) { delete(a, "latitude") }},
		{"null longitude", func(a map[string]any) { a["longitude"] = nil }},
		{"non-numeric center", func(a map[string]any) { a["longitude"] = "east"; a["latitude"] = "north" }},
		{"radius as string", func(a map[string]any) { a["radius"] = "far" }},
		{"display as string", func(a map[string]any) { a["display"] = "five" }},
		{"min results as string", func(a map[string]any) { a["min_results"] = "3" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := base()
			tt.mutate(args)
			result, err := r.HandleLocalSearchByCoordinate(context.Background(), newRequest("localSearchByCoordinate", args))
			require.NoError(t, err)
			requireFailure(t, result)
			assert.Empty(t, client.localCalls, "no upstream call for invalid arguments")
		})
	}
}

func TestHandleLocalSearchByCoordinateMissingCenterMessage(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger(), &stubClient{})

	result, err := r.HandleLocalSearchByCoordinate(context.Background(),
		newRequest("localSearchByCoordinate", map[string]any{"query": "coffee"}))
	require.NoError(t, err)
	assert.Equal(t, "longitude is required", requireFailure(t, result).Error)

	result, err = r.HandleLocalSearchByCoordinate(context.Background(),
		newRequest("localSearchByCoordinate", map[string]any{"query": "coffee", "longitude": "east", "latitude": "north"}))
	require.NoError(t, err)
	assert.Equal(t, "longitude must be a number", requireFailure(t, result).Error)
}

func TestParseWholeNumber(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    int
		wantErr bool
	}{
		{name: "absent uses default", args: map[string]any{}, want: 7},
		{name: "null uses default", args: map[string]any{"n": nil}, want: 7},
		{name: "json number", args: map[string]any{"n": 3.0}, want: 3},
		{name: "int", args: map[string]any{"n": 4}, want: 4},
		{name: "json.Number", args: map[string]any{"n": json.Number("5")}, want: 5},
		{name: "fraction", args: map[string]any{"n": 2.5}, wantErr: true},
		{name: "string", args: map[string]any{"n": "3"}, wantErr: true},
		{name: "bool", args: map[string]any{"n": true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWholeNumber(newRequest("test", tt.args), "n", 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The upstream rejects credentials on page 2 after page 1 found nothing in
// range; the whole call must fail rather than return an empty success.
func TestHandleLocalSearchByCoordinateAuthFailureOnSecondPage(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(naver.LocalSearchPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "1" {
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"total": 100, "start": 1, "display": 5,
				"items": []map[string]string{{"title": "far", "mapx": "1280000000", "mapy": "380000000"}},
			})
			return
		}
		testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"errorMessage": "Authentication failed. (인증에 실패했습니다.)",
			"errorCode":    "024",
		})
	})

	client, err := naver.NewClient(naver.Config{
		MapsClientID:       "id",
		MapsClientSecret:   "secret",
		SearchClientID:     "id",
		SearchClientSecret: "secret",
		MapsBaseURL:        api.URL(),
		OpenAPIBaseURL:     api.URL(),
	}, naver.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)

	r := NewRegistry(testutil.DiscardLogger(), client)
	result, err := r.HandleLocalSearchByCoordinate(context.Background(), newRequest("localSearchByCoordinate", map[string]any{
		"query":     "coffee",
		"longitude": 127.0276,
		"latitude":  37.4979,
		"radius":    500,
	}))
	require.NoError(t, err)

	f := requireFailure(t, result)
	assert.Equal(t, "Auth error: 401 Unauthorized: Authentication failed. (인증에 실패했습니다.)", f.Error)
	assert.Len(t, api.Requests(naver.LocalSearchPath), 2)
}

func TestHandleDirections(t *testing.T) {
	client := &stubClient{directions: func(p naver.DirectionsParams) (*naver.DirectionsResponse, error) {
		assert.Equal(t, "127.0276,37.4979", p.Start)
		assert.Equal(t, "126.9779,37.5663", p.Goal)
		assert.Equal(t, naver.DirectionFast, p.Option)
		assert.Equal(t, "en", p.Language)
		return &naver.DirectionsResponse{
			Code: 0,
			Route: map[string][]naver.Route{
				"trafast": {{
					Summary: naver.RouteSummary{Distance: 9100, Duration: 1260000, TaxiFare: 12000},
					Path:    [][]float64{{127.0276, 37.4979}, {126.9779, 37.5663}},
					Guide: []naver.RouteGuide{
						{Instructions: "Turn left", Distance: 300, Duration: 60000},
					},
				}},
			},
		}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	result, err := r.HandleDirections(context.Background(), newRequest("directions", map[string]any{
		"start":    "127.0276,37.4979",
		"goal":     "126.9779,37.5663",
		"option":   "trafast",
		"language": "en",
	}))
	require.NoError(t, err)

	out := decodeResult[DirectionsOutput](t, result)
	assert.Equal(t, "trafast", out.Option)
	assert.Equal(t, 9100, out.DistanceMeters)
	assert.Equal(t, 1260.0, out.DurationSeconds)
	assert.Equal(t, 12000, out.TaxiFare)
	require.Len(t, out.Steps, 1)
	assert.Equal(t, 60.0, out.Steps[0].DurationSeconds)

	path := geo.DecodePolyline(out.Polyline)
	require.Len(t, path, 2)
	assert.InDelta(t, 126.9779, path[1].Longitude, 1e-5)
}

func TestHandleDirectionsFailures(t *testing.T) {
	client := &stubClient{directions: func(p naver.DirectionsParams) (*naver.DirectionsResponse, error) {
		return &naver.DirectionsResponse{Code: 0, Route: map[string][]naver.Route{}}, nil
	}}
	r := NewRegistry(testutil.DiscardLogger(), client)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"bad start", map[string]any{"start": "seoul", "goal": "126.9779,37.5663"}},
		{"bad goal", map[string]any{"start": "127.0276,37.4979", "goal": "126.9779"}},
		{"bad option", map[string]any{"start": "127.0276,37.4979", "goal": "126.9779,37.5663", "option": "teleport"}},
		{"bad language", map[string]any{"start": "127.0276,37.4979", "goal": "126.9779,37.5663", "language": "fr"}},
		{"no route", map[string]any{"start": "127.0276,37.4979", "goal": "126.9779,37.5663"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.HandleDirections(context.Background(), newRequest("directions", tt.args))
			require.NoError(t, err)
			requireFailure(t, result)
		})
	}
}
