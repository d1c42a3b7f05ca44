package catalog

import (
	"testing"
	"time"

	apperrors "astrochart/internal/errors"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()

	if len(c.Aspects()) == 0 {
		t.Fatal("expected built-in aspects")
	}
	if c.DefaultHouseSystem() != "Placidus" {
		t.Errorf("default house system = %q", c.DefaultHouseSystem())
	}
	if c.TransitOrbScale() != 0.8 {
		t.Errorf("transit orb scale = %v", c.TransitOrbScale())
	}
	if got := c.Returns().LunarFineStep; got != 5*time.Minute {
		t.Errorf("lunar fine step = %v", got)
	}
}

func TestDefaultAspectsAreNotShadowed(t *testing.T) {
	c := Default()
	// Luminaries give the widest combined multiplier in the built-in tables.
	if shadows := c.Shadows(1.2 * 1.2); len(shadows) != 0 {
		t.Errorf("built-in aspect order shadows narrower definitions: %+v", shadows)
	}
}

func TestShadowsReportsWiderDefinitionFirst(t *testing.T) {
	tables := DefaultTables()
	tables.Aspects = []AspectDefinition{
		{Name: "Square", Angle: 90, Orb: 17, Nature: "challenging"},
		{Name: "Quintile", Angle: 72, Orb: 2, Nature: "harmonious"},
	}
	tables.Patterns.TSquare.Enabled = false
	tables.Patterns.GrandTrine.Enabled = false

	c, err := New(tables)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	shadows := c.Shadows(1)
	if len(shadows) != 1 || shadows[0].Earlier != "Square" || shadows[0].Later != "Quintile" {
		t.Errorf("unexpected shadows: %+v", shadows)
	}
}

func TestOrbMultiplierDefaultsToOne(t *testing.T) {
	c := Default()
	if got := c.OrbMultiplier("Sun"); got != 1.2 {
		t.Errorf("Sun multiplier = %v", got)
	}
	if got := c.OrbMultiplier("Pholus"); got != 1 {
		t.Errorf("unconfigured multiplier = %v, want 1", got)
	}
}

func TestHouseSystemLookup(t *testing.T) {
	c := Default()

	hs, err := c.HouseSystem("")
	if err != nil || hs.Code != "P" {
		t.Fatalf("default lookup = %+v, %v", hs, err)
	}
	hs, err = c.HouseSystem("Whole Sign")
	if err != nil || hs.Code != "W" {
		t.Fatalf("whole sign lookup = %+v, %v", hs, err)
	}
	if _, err := c.HouseSystem("Koch"); !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND for uncatalogued system, got %v", err)
	}
}

func TestValidationRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"missing house code", func(t *Tables) { t.HouseSystems[1].Code = "" }},
		{"unknown default system", func(t *Tables) { t.DefaultHouseSystem = "Koch" }},
		{"negative orb", func(t *Tables) { t.Aspects[0].Orb = -1 }},
		{"duplicate aspect", func(t *Tables) { t.Aspects[1].Name = t.Aspects[0].Name }},
		{"bad nature", func(t *Tables) { t.Aspects[0].Nature = "spicy" }},
		{"zero multiplier", func(t *Tables) { t.OrbMultipliers["Sun"] = 0 }},
		{"pattern references missing aspect", func(t *Tables) { t.Patterns.GrandTrine.Aspect = "Novile" }},
		{"stellium of one", func(t *Tables) { t.Patterns.Stellium.MinBodies = 1 }},
		{"zero precision", func(t *Tables) { t.Returns.SolarPrecision = 0 }},
		{"zero transit scale", func(t *Tables) { t.TransitOrbScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(&tables)
			_, err := New(tables)
			if !apperrors.IsType(err, apperrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestCatalogIsIsolatedFromCallerMutation(t *testing.T) {
	tables := DefaultTables()
	c := MustNew(tables)

	tables.Aspects[0].Orb = 99
	tables.OrbMultipliers["Sun"] = 5
	tables.BodyGroups[0].Bodies[0] = "Vulcan"

	if c.Aspects()[0].Orb == 99 || c.OrbMultiplier("Sun") == 5 || c.Bodies()[0] == "Vulcan" {
		t.Error("catalog shares memory with its input tables")
	}

	got := c.Aspects()
	got[0].Name = "changed"
	if c.Aspects()[0].Name == "changed" {
		t.Error("Aspects() exposes internal slice")
	}
}

func TestBodiesDeduplicatesAcrossGroups(t *testing.T) {
	tables := DefaultTables()
	tables.BodyGroups = []BodyGroup{
		{Name: "major_planets", Bodies: []string{"Sun", "Moon"}},
		{Name: "extra", Bodies: []string{"Moon", "Chiron"}},
	}
	c := MustNew(tables)

	got := c.Bodies()
	want := []string{"Sun", "Moon", "Chiron"}
	if len(got) != len(want) {
		t.Fatalf("Bodies() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bodies() = %v, want %v", got, want)
		}
	}
}
