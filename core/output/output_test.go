package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

func natalFixture() *types.NatalChart {
	return &types.NatalChart{
		Base: types.Base{
			ID: "chart-1",
			Positions: types.Positions{
				"Sun":  {Name: "Sun", Longitude: 10.1235, Sign: "Aries", SignSymbol: "♈", Degree: 10.12, House: 1, Speed: 0.9856},
				"Mars": {Name: "Mars", Longitude: 250, Sign: "Sagittarius", SignSymbol: "♐", Degree: 10, House: 9, Speed: -0.3, Retrograde: true},
			},
			Houses: types.Houses{System: "Equal", Cusps: [12]float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330}},
			Aspects: []types.AspectPair{{
				Body1: "Sun", Body2: "Mars",
				Aspect: types.Aspect{Type: "Trine", Angle: 120, Orb: 0.12, Strength: 98.5, Symbol: "△", Nature: types.NatureHarmonious},
			}},
			Omissions: []types.Omission{{Body: "Chiron", Reason: "not supported"}},
		},
		Event: types.EventData{
			UTC:      time.Date(1990, 6, 15, 8, 45, 0, 0, time.UTC),
			Location: types.Location{Latitude: 51.5074, Longitude: -0.1278, Name: "London"},
		},
		Patterns: []types.Pattern{{Type: "Grand Trine", Bodies: []string{"Mars", "Moon", "Sun"}, Strength: 90}},
	}
}

func TestJSONRendersChartTree(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter(false).Render(&buf, &Result{Chart: natalFixture(), Metadata: Metadata{Provider: "analytic"}})
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Kind  string `json:"chart_type"`
		Chart struct {
			ID        string                    `json:"id"`
			Positions map[string]types.Position `json:"positions"`
			Aspects   []types.AspectPair        `json:"aspects"`
			Patterns  []types.Pattern           `json:"patterns"`
		} `json:"chart"`
		Metadata Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kind != "natal" || decoded.Chart.ID != "chart-1" {
		t.Errorf("kind %q id %q", decoded.Kind, decoded.Chart.ID)
	}
	if !decoded.Chart.Positions["Mars"].Retrograde || len(decoded.Chart.Aspects) != 1 || len(decoded.Chart.Patterns) != 1 {
		t.Errorf("chart tree not preserved: %+v", decoded.Chart)
	}
	if decoded.Metadata.Provider != "analytic" {
		t.Errorf("metadata = %+v", decoded.Metadata)
	}
}

func TestRestampReplacesOnlyMetadata(t *testing.T) {
	f := NewJSONFormatter(false)
	chart := natalFixture()

	var stored bytes.Buffer
	first := Metadata{Timestamp: "2024-01-01T00:00:00Z", Provider: "analytic", Version: "1"}
	if err := f.Render(&stored, &Result{Chart: chart, Metadata: first}); err != nil {
		t.Fatal(err)
	}

	later := Metadata{Timestamp: "2024-01-02T00:00:00Z", Provider: "analytic", Version: "1", Cached: true}
	var restamped, fresh bytes.Buffer
	if err := f.Restamp(&restamped, stored.Bytes(), later); err != nil {
		t.Fatal(err)
	}
	if err := f.Render(&fresh, &Result{Chart: chart, Metadata: later}); err != nil {
		t.Fatal(err)
	}
	if restamped.String() != fresh.String() {
		t.Errorf("restamped body\n%s\nwant\n%s", restamped.String(), fresh.String())
	}

	if err := f.Restamp(&restamped, []byte("not json"), later); !apperrors.IsType(err, apperrors.TypeInternal) {
		t.Errorf("malformed stored body err = %v", err)
	}
}

func TestTableSections(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter().Render(&buf, &Result{Chart: natalFixture()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"NATAL CHART chart-1",
		"London (51.5074, -0.1278)",
		"Positions",
		"Houses (Equal)",
		"△ Trine",
		"separating",
		"Grand Trine",
		"Mars, Moon, Sun",
		"Chiron",
		"10°07'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Mars sorts before Sun
	if strings.Index(out, "Mars ") > strings.Index(out, "Sun ") {
		t.Error("positions should be listed by name")
	}
}

func TestTableFixedStars(t *testing.T) {
	report := &types.FixedStarReport{
		Date:         time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Stars:        []types.FixedStar{{Name: "Regulus", Constellation: "Leo", Sign: "Leo", Degree: 29.66, Longitude: 149.656}},
		Clusters:     []types.FixedStar{{Name: "Pleiades", Constellation: "Taurus", Sign: "Taurus", Degree: 29.78, Longitude: 59.776, IsCluster: true}},
		Conjunctions: []types.StarConjunction{{Star: "Regulus", Body: "Sun", Orb: 0.344}},
	}
	var buf bytes.Buffer
	if err := NewTableFormatter().Render(&buf, &Result{Stars: report}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"FIXED STARS", "Regulus", "Pleiades", "Conjunctions", "0.3440", "29°39'"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q:\n%s", want, buf.String())
		}
	}
}

func TestEmptyResult(t *testing.T) {
	for _, f := range []Formatter{NewTableFormatter(), NewJSONFormatter(true)} {
		if err := f.Render(&bytes.Buffer{}, &Result{}); !apperrors.IsType(err, apperrors.TypeInput) {
			t.Errorf("%s: err = %v", f.Format(), err)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	if got := r.Formats(); len(got) != 2 || got[0] != FormatJSON || got[1] != FormatTable {
		t.Errorf("formats = %v", got)
	}
	if _, err := r.Get("html"); !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("err = %v", err)
	}
	if err := r.Register(NewJSONFormatter(false)); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestDMS(t *testing.T) {
	tests := map[float64]string{
		0:     " 0°00'",
		15.5:  "15°30'",
		29.99: "29°59'",
	}
	for in, want := range tests {
		if got := DMS(in); got != want {
			t.Errorf("DMS(%v) = %q, want %q", in, got, want)
		}
	}
}
