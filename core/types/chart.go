// Package types - Chart variants
package types

import "time"

// ChartKind tags a chart variant
type ChartKind string

const (
	KindNatal      ChartKind = "natal"
	KindMultiHouse ChartKind = "multi_house_natal"
	KindTransit    ChartKind = "transit"
	KindProgressed ChartKind = "progressed"
	KindReturn     ChartKind = "return"
)

// Chart is the closed set of chart variants. Every variant carries a Base;
// the unexported marker keeps the set closed to this package.
type Chart interface {
	Kind() ChartKind
	Common() *Base
	isChart()
}

// Base is the part every chart variant shares
type Base struct {
	// ID identifies this computed chart
	ID string `json:"id"`

	// Positions holds every body that could be placed
	Positions Positions `json:"positions"`

	// Houses is the cusp set positions were placed against
	Houses Houses `json:"houses"`

	// Aspects within the chart, or against the natal chart for derived charts
	Aspects []AspectPair `json:"aspects"`

	// Omissions lists bodies skipped because the provider could not supply them
	Omissions []Omission `json:"omissions,omitempty"`
}

// NatalChart is a birth or event chart
type NatalChart struct {
	Base
	Event    EventData `json:"event"`
	Patterns []Pattern `json:"patterns"`
}

// MultiHouseChart is a natal chart cast in every catalogued house system.
// Base.Houses holds the default system the positions were placed against.
type MultiHouseChart struct {
	Base
	Event     EventData         `json:"event"`
	AllHouses map[string]Houses `json:"all_houses"`
	Patterns  []Pattern         `json:"patterns"`
}

// TransitChart holds the sky at a moment compared against a natal chart
type TransitChart struct {
	Base
	Natal    *NatalChart `json:"natal_chart"`
	Date     time.Time   `json:"transit_date"`
	Location Location    `json:"transit_location"`
}

// ProgressedChart holds secondary progressions against a natal chart
type ProgressedChart struct {
	Base
	Natal *NatalChart `json:"natal_chart"`

	// Date is the calendar date progressed to
	Date time.Time `json:"progressed_date"`

	// Instant is the day-for-a-year instant the positions were computed at
	Instant time.Time `json:"progressed_instant"`
}

// ReturnKind distinguishes return charts
type ReturnKind string

const (
	SolarReturn ReturnKind = "solar"
	LunarReturn ReturnKind = "lunar"
)

// ReturnChart is cast for the instant a body returns to its natal longitude
type ReturnChart struct {
	Base
	Natal      *NatalChart `json:"natal_chart"`
	ReturnKind ReturnKind  `json:"return_kind"`
	Body       string      `json:"body"`
	Year       int         `json:"return_year"`
	Instant    time.Time   `json:"return_datetime"`

	// Residual is the angular distance left between the body and its target
	Residual float64  `json:"residual"`
	Location Location `json:"return_location"`
}

func (c *NatalChart) Kind() ChartKind      { return KindNatal }
func (c *MultiHouseChart) Kind() ChartKind { return KindMultiHouse }
func (c *TransitChart) Kind() ChartKind    { return KindTransit }
func (c *ProgressedChart) Kind() ChartKind { return KindProgressed }
func (c *ReturnChart) Kind() ChartKind     { return KindReturn }

func (c *NatalChart) Common() *Base      { return &c.Base }
func (c *MultiHouseChart) Common() *Base { return &c.Base }
func (c *TransitChart) Common() *Base    { return &c.Base }
func (c *ProgressedChart) Common() *Base { return &c.Base }
func (c *ReturnChart) Common() *Base     { return &c.Base }

func (*NatalChart) isChart()      {}
func (*MultiHouseChart) isChart() {}
func (*TransitChart) isChart()    {}
func (*ProgressedChart) isChart() {}
func (*ReturnChart) isChart()     {}

// FixedStar is a precessed fixed star or cluster
type FixedStar struct {
	Name            string  `json:"name"`
	TraditionalName string  `json:"traditional_name"`
	Constellation   string  `json:"constellation"`
	Messier         string  `json:"messier,omitempty"`
	Longitude       float64 `json:"longitude"`
	Latitude        float64 `json:"latitude"`
	Magnitude       float64 `json:"magnitude,omitempty"`
	Nature          string  `json:"nature,omitempty"`
	Meaning         string  `json:"meaning"`
	Sign            string  `json:"sign"`
	Degree          float64 `json:"degree"`
	IsCluster       bool    `json:"is_cluster,omitempty"`
}

// StarConjunction is a fixed star within orb of a chart body
type StarConjunction struct {
	Star          string  `json:"star"`
	Body          string  `json:"body"`
	Orb           float64 `json:"orb"`
	StarLongitude float64 `json:"star_longitude"`
	BodyLongitude float64 `json:"body_longitude"`
	StarNature    string  `json:"star_nature,omitempty"`
	StarMeaning   string  `json:"star_meaning,omitempty"`
}

// FixedStarReport lists stars, clusters and their conjunctions with a natal chart
type FixedStarReport struct {
	Date         time.Time         `json:"calculation_date"`
	Stars        []FixedStar       `json:"stars"`
	Clusters     []FixedStar       `json:"clusters"`
	Conjunctions []StarConjunction `json:"conjunctions"`
	Natal        *NatalChart       `json:"natal_chart,omitempty"`
}
