// Package catalog - HCL catalog files
package catalog

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

type fileSchema struct {
	DefaultHouseSystem *string            `hcl:"default_house_system,optional"`
	TransitOrbScale    *float64           `hcl:"transit_orb_scale,optional"`
	Aspects            []aspectBlock      `hcl:"aspect,block"`
	OrbMultipliers     []orbBlock         `hcl:"orb_multiplier,block"`
	HouseSystems       []houseSystemBlock `hcl:"house_system,block"`
	Bodies             *bodiesBlock       `hcl:"bodies,block"`
	FixedStars         *fixedStarsBlock   `hcl:"fixed_stars,block"`
	Patterns           *patternsBlock     `hcl:"patterns,block"`
	Returns            *returnsBlock      `hcl:"returns,block"`
}

type aspectBlock struct {
	Name   string  `hcl:"name,label"`
	Angle  float64 `hcl:"angle"`
	Orb    float64 `hcl:"orb"`
	Symbol string  `hcl:"symbol,optional"`
	Nature string  `hcl:"nature,optional"`
	Class  string  `hcl:"class,optional"`
}

type orbBlock struct {
	Body  string  `hcl:"body,label"`
	Value float64 `hcl:"value"`
}

type houseSystemBlock struct {
	Name        string `hcl:"name,label"`
	Code        string `hcl:"code"`
	Description string `hcl:"description,optional"`
}

// bodiesBlock holds calculated_points plus any number of free-form group lists
type bodiesBlock struct {
	CalculatedPoints []string `hcl:"calculated_points,optional"`
	Groups           hcl.Body `hcl:",remain"`
}

type fixedStarsBlock struct {
	Enabled bool     `hcl:"enabled,optional"`
	Stars   []string `hcl:"stars,optional"`
}

type patternsBlock struct {
	GrandTrine *grandTrineBlock `hcl:"grand_trine,block"`
	TSquare    *tSquareBlock    `hcl:"t_square,block"`
	Stellium   *stelliumBlock   `hcl:"stellium,block"`
}

type grandTrineBlock struct {
	Enabled  *bool    `hcl:"enabled,optional"`
	Aspect   *string  `hcl:"aspect,optional"`
	Strength *float64 `hcl:"strength,optional"`
}

type tSquareBlock struct {
	Enabled    *bool    `hcl:"enabled,optional"`
	Opposition *string  `hcl:"opposition,optional"`
	Square     *string  `hcl:"square,optional"`
	Strength   *float64 `hcl:"strength,optional"`
}

type stelliumBlock struct {
	Enabled   *bool    `hcl:"enabled,optional"`
	MinBodies *int     `hcl:"min_bodies,optional"`
	Strength  *float64 `hcl:"strength,optional"`
}

type returnsBlock struct {
	SolarPrecision       *float64 `hcl:"solar_precision,optional"`
	LunarPrecision       *float64 `hcl:"lunar_precision,optional"`
	SolarFineStepMinutes *float64 `hcl:"solar_fine_step_minutes,optional"`
	LunarFineStepMinutes *float64 `hcl:"lunar_fine_step_minutes,optional"`
}

// groupOrder fixes the position of the well-known groups; others follow by name
var groupOrder = map[string]int{
	"major_planets":      0,
	"nodes":              1,
	"asteroids":          2,
	"extended_asteroids": 3,
}

// Load parses an HCL catalog file
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Config(fmt.Sprintf("read catalog %s", path), err)
	}
	return Parse(src, path)
}

// Parse decodes an HCL catalog. Sections that are absent keep the built-in
// values; aspect, orb_multiplier and house_system blocks replace the
// built-in lists wholesale when at least one is present.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, apperrors.Config("parse catalog", diags)
	}

	var doc fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, apperrors.Config("decode catalog", diags)
	}

	t := DefaultTables()
	if doc.DefaultHouseSystem != nil {
		t.DefaultHouseSystem = *doc.DefaultHouseSystem
	}
	if doc.TransitOrbScale != nil {
		t.TransitOrbScale = *doc.TransitOrbScale
	}

	if len(doc.Aspects) > 0 {
		t.Aspects = t.Aspects[:0:0]
		for _, a := range doc.Aspects {
			nature := types.Nature(a.Nature)
			if nature == "" {
				nature = types.NatureNeutral
			}
			t.Aspects = append(t.Aspects, AspectDefinition{
				Name:   a.Name,
				Angle:  a.Angle,
				Orb:    a.Orb,
				Symbol: a.Symbol,
				Nature: nature,
				Class:  a.Class,
			})
		}
	}

	if len(doc.OrbMultipliers) > 0 {
		t.OrbMultipliers = make(map[string]float64, len(doc.OrbMultipliers))
		for _, m := range doc.OrbMultipliers {
			t.OrbMultipliers[m.Body] = m.Value
		}
	}

	if len(doc.HouseSystems) > 0 {
		t.HouseSystems = t.HouseSystems[:0:0]
		for _, hs := range doc.HouseSystems {
			t.HouseSystems = append(t.HouseSystems, HouseSystem{Name: hs.Name, Code: hs.Code, Description: hs.Description})
		}
	}

	if doc.Bodies != nil {
		groups, err := decodeBodyGroups(doc.Bodies.Groups)
		if err != nil {
			return nil, err
		}
		t.BodyGroups = groups
		t.CalculatedPoints = doc.Bodies.CalculatedPoints
	}

	if doc.FixedStars != nil {
		t.FixedStars = FixedStarSettings{Enabled: doc.FixedStars.Enabled, Stars: doc.FixedStars.Stars}
	}

	if p := doc.Patterns; p != nil {
		if b := p.GrandTrine; b != nil {
			setBool(&t.Patterns.GrandTrine.Enabled, b.Enabled)
			setString(&t.Patterns.GrandTrine.Aspect, b.Aspect)
			setFloat(&t.Patterns.GrandTrine.Strength, b.Strength)
		}
		if b := p.TSquare; b != nil {
			setBool(&t.Patterns.TSquare.Enabled, b.Enabled)
			setString(&t.Patterns.TSquare.Opposition, b.Opposition)
			setString(&t.Patterns.TSquare.Square, b.Square)
			setFloat(&t.Patterns.TSquare.Strength, b.Strength)
		}
		if b := p.Stellium; b != nil {
			setBool(&t.Patterns.Stellium.Enabled, b.Enabled)
			if b.MinBodies != nil {
				t.Patterns.Stellium.MinBodies = *b.MinBodies
			}
			setFloat(&t.Patterns.Stellium.Strength, b.Strength)
		}
	}

	if r := doc.Returns; r != nil {
		setFloat(&t.Returns.SolarPrecision, r.SolarPrecision)
		setFloat(&t.Returns.LunarPrecision, r.LunarPrecision)
		if r.SolarFineStepMinutes != nil {
			t.Returns.SolarFineStep = minutes(*r.SolarFineStepMinutes)
		}
		if r.LunarFineStepMinutes != nil {
			t.Returns.LunarFineStep = minutes(*r.LunarFineStepMinutes)
		}
	}

	return New(t)
}

// decodeBodyGroups reads every remaining attribute of the bodies block as a list of names
func decodeBodyGroups(body hcl.Body) ([]BodyGroup, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, apperrors.Config("decode bodies block", diags)
	}

	groups := make([]BodyGroup, 0, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, apperrors.Config(fmt.Sprintf("evaluate bodies.%s", name), diags)
		}
		bodies, err := stringList(val)
		if err != nil {
			return nil, apperrors.Config(fmt.Sprintf("bodies.%s", name), err)
		}
		groups = append(groups, BodyGroup{Name: name, Bodies: bodies})
	}

	sort.Slice(groups, func(i, j int) bool {
		oi, iKnown := groupOrder[groups[i].Name]
		oj, jKnown := groupOrder[groups[j].Name]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return groups[i].Name < groups[j].Name
		}
	})
	return groups, nil
}

func stringList(val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}
	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of body names: %w", err)
	}
	if list.LengthInt() == 0 {
		return []string{}, nil
	}
	out := make([]string, 0, list.LengthInt())
	for _, v := range list.AsValueSlice() {
		if v.IsNull() {
			return nil, fmt.Errorf("body names must not be null")
		}
		out = append(out, v.AsString())
	}
	return out, nil
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
