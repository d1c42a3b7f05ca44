package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "astrochart/internal/errors"
)

const sampleCatalog = `
default_house_system = "Equal"
transit_orb_scale    = 0.5

aspect "Trine" {
  angle  = 120
  orb    = 6
  symbol = "△"
  nature = "harmonious"
}

aspect "Opposition" {
  angle  = 180
  orb    = 7
  nature = "challenging"
}

aspect "Square" {
  angle  = 90
  orb    = 6
  nature = "challenging"
}

orb_multiplier "Moon" {
  value = 1.5
}

house_system "Equal" {
  code = "E"
}

house_system "Whole Sign" {
  code        = "W"
  description = "sign-based"
}

bodies {
  major_planets      = ["Sun", "Moon", "Mars"]
  nodes              = ["True_Node"]
  centaurs           = ["Chiron"]
  calculated_points  = ["South_Node"]
}

fixed_stars {
  enabled = true
  stars   = ["Regulus"]
}

patterns {
  stellium {
    min_bodies = 4
  }
}

returns {
  lunar_precision         = 0.05
  lunar_fine_step_minutes = 2
}
`

func TestParseSampleCatalog(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog), "sample.hcl")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	aspects := c.Aspects()
	if len(aspects) != 3 || aspects[0].Name != "Trine" || aspects[1].Name != "Opposition" {
		t.Fatalf("aspects not in document order: %+v", aspects)
	}
	if aspects[1].Symbol != "" || aspects[1].Orb != 7 {
		t.Errorf("unexpected opposition: %+v", aspects[1])
	}
	if c.DefaultHouseSystem() != "Equal" || c.TransitOrbScale() != 0.5 {
		t.Errorf("scalar settings not applied")
	}
	if c.OrbMultiplier("Moon") != 1.5 || c.OrbMultiplier("Sun") != 1 {
		t.Errorf("orb multipliers replaced incorrectly: %v", c.OrbMultipliers())
	}

	groups := c.BodyGroups()
	if len(groups) != 3 || groups[0].Name != "major_planets" || groups[1].Name != "nodes" || groups[2].Name != "centaurs" {
		t.Fatalf("unexpected group order: %+v", groups)
	}
	if !c.HasCalculatedPoint("South_Node") || c.HasCalculatedPoint("Part_of_Fortune") {
		t.Errorf("calculated points = %v", c.CalculatedPoints())
	}
	if fs := c.FixedStars(); !fs.Enabled || len(fs.Stars) != 1 {
		t.Errorf("fixed stars = %+v", fs)
	}

	p := c.Patterns()
	if p.Stellium.MinBodies != 4 || p.Stellium.Strength != 80 {
		t.Errorf("stellium override lost defaults: %+v", p.Stellium)
	}
	if !p.TSquare.Enabled || p.TSquare.Square != "Square" {
		t.Errorf("t-square defaults changed: %+v", p.TSquare)
	}

	r := c.Returns()
	if r.LunarPrecision != 0.05 || r.LunarFineStep != 2*time.Minute || r.SolarPrecision != 0.01 {
		t.Errorf("returns = %+v", r)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `aspect "Trine" {`},
		{"missing orb", "aspect \"Trine\" {\n  angle = 120\n}\n"},
		{"unknown default system", `default_house_system = "Koch"`},
		{"body list of numbers", "bodies {\n  major_planets = [1, [2]]\n}\n"},
		{"house system without code", "house_system \"Equal\" {\n  code = \"\"\n}\ndefault_house_system = \"Equal\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			if !apperrors.IsType(err, apperrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	if !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadShippedCatalog(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "catalog.hcl")
	if _, err := os.Stat(path); err != nil {
		t.Skip("shipped catalog not present")
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Aspects()) != len(Default().Aspects()) {
		t.Errorf("shipped catalog should mirror the built-in aspects")
	}
}
