package naver

// Sort modes accepted by local search.
const (
	SortRandom  = "random"
	SortComment = "comment"
)

// Geocode response languages.
const (
	LanguageKorean  = "kor"
	LanguageEnglish = "eng"
)

// DirectionOption selects the route preference for driving directions.
type DirectionOption string

const (
	DirectionFast         DirectionOption = "trafast"
	DirectionComfort      DirectionOption = "tracomfort"
	DirectionOptimal      DirectionOption = "traoptimal"
	DirectionAvoidToll    DirectionOption = "travoidtoll"
	DirectionAvoidCarOnly DirectionOption = "traavoidcaronly"
)

// DirectionOptions lists every supported option.
var DirectionOptions = []DirectionOption{
	DirectionOptimal,
	DirectionFast,
	DirectionComfort,
	DirectionAvoidToll,
	DirectionAvoidCarOnly,
}

// LocalSearchParams are the inputs of a local search request.
type LocalSearchParams struct {
	Query   string
	Display int
	Start   int
	Sort    string
}

// LocalItem is one place returned by local search. MapX and MapY carry the
// position as integers scaled by 10,000,000.
type LocalItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Telephone   string `json:"telephone,omitempty"`
	Address     string `json:"address"`
	RoadAddress string `json:"roadAddress"`
	MapX        string `json:"mapx,omitempty"`
	MapY        string `json:"mapy,omitempty"`
}

// LocalSearchResponse is one page of local search results.
type LocalSearchResponse struct {
	LastBuildDate string      `json:"lastBuildDate,omitempty"`
	Total         int         `json:"total"`
	Start         int         `json:"start"`
	Display       int         `json:"display"`
	Items         []LocalItem `json:"items"`
}

// GeocodeParams are the inputs of a geocode request.
type GeocodeParams struct {
	Query    string
	Language string
	Page     int
	Count    int
}

// GeocodeMeta is the paging metadata of a geocode response.
type GeocodeMeta struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Count      int `json:"count"`
}

// AddressElement is one component of a geocoded address.
type AddressElement struct {
	Types     []string `json:"types"`
	LongName  string   `json:"longName"`
	ShortName string   `json:"shortName"`
	Code      string   `json:"code"`
}

// GeocodeAddress is one geocode match. X and Y are decimal degree strings.
type GeocodeAddress struct {
	RoadAddress     string           `json:"roadAddress"`
	JibunAddress    string           `json:"jibunAddress"`
	EnglishAddress  string           `json:"englishAddress"`
	AddressElements []AddressElement `json:"addressElements,omitempty"`
	X               string           `json:"x"`
	Y               string           `json:"y"`
	Distance        float64          `json:"distance"`
}

// GeocodeResponse is the body returned by the geocode API.
type GeocodeResponse struct {
	Status       string           `json:"status"`
	Meta         GeocodeMeta      `json:"meta"`
	Addresses    []GeocodeAddress `json:"addresses"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// DirectionsParams are the inputs of a driving directions request.
// Start and Goal are "lon,lat" strings.
type DirectionsParams struct {
	Start    string
	Goal     string
	Option   DirectionOption
	Language string
}

// RoutePoint is a point in the route summary.
type RoutePoint struct {
	Location []float64 `json:"location"`
	Dir      int       `json:"dir,omitempty"`
}

// RouteSummary describes the whole route. Duration is in milliseconds.
type RouteSummary struct {
	Start     RoutePoint `json:"start"`
	Goal      RoutePoint `json:"goal"`
	Distance  int        `json:"distance"`
	Duration  int        `json:"duration"`
	TollFare  int        `json:"tollFare"`
	TaxiFare  int        `json:"taxiFare"`
	FuelPrice int        `json:"fuelPrice"`
}

// RouteGuide is one turn-by-turn instruction.
type RouteGuide struct {
	PointIndex   int    `json:"pointIndex"`
	Type         int    `json:"type"`
	Instructions string `json:"instructions"`
	Distance     int    `json:"distance"`
	Duration     int    `json:"duration"`
}

// Route is one candidate route. Path points are [lon, lat].
type Route struct {
	Summary RouteSummary `json:"summary"`
	Path    [][]float64  `json:"path"`
	Guide   []RouteGuide `json:"guide,omitempty"`
}

// DirectionsResponse is the body returned by the driving directions API.
// Route is keyed by the requested option.
type DirectionsResponse struct {
	Code            int                `json:"code"`
	Message         string             `json:"message"`
	CurrentDateTime string             `json:"currentDateTime,omitempty"`
	Route           map[string][]Route `json:"route,omitempty"`
}
