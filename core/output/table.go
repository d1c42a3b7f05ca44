package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"astrochart/core/types"
)

// TableFormatter renders a result as aligned text sections
type TableFormatter struct{}

// NewTableFormatter creates a table formatter
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format() Format { return FormatTable }

// Render writes the header, then one section per part of the result
func (f *TableFormatter) Render(w io.Writer, result *Result) error {
	if err := result.validate(); err != nil {
		return err
	}
	p := &printer{w: w}

	if c := result.Chart; c != nil {
		p.header(c)
		base := c.Common()
		p.positions(base.Positions)
		p.houses(base.Houses)
		if m, ok := c.(*types.MultiHouseChart); ok {
			names := make([]string, 0, len(m.AllHouses))
			for name := range m.AllHouses {
				if name != base.Houses.System {
					names = append(names, name)
				}
			}
			sort.Strings(names)
			for _, name := range names {
				p.houses(m.AllHouses[name])
			}
		}
		p.aspects(base.Aspects)
		p.patterns(patternsOf(c))
		p.omissions(base.Omissions)
	}
	if s := result.Stars; s != nil {
		p.stars(s)
	}

	p.printf("\n%s  provider=%s version=%s", result.Metadata.Timestamp, result.Metadata.Provider, result.Metadata.Version)
	if result.Metadata.Cached {
		p.printf(" (cached)")
	}
	p.printf("\n")
	return p.err
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(title string, header []string, rows [][]string) {
	if p.err != nil || len(rows) == 0 {
		return
	}
	p.printf("\n%s\n%s\n", title, strings.Repeat("─", len([]rune(title))))
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if p.err == nil {
		p.err = tw.Flush()
	}
}

func (p *printer) header(c types.Chart) {
	switch v := c.(type) {
	case *types.NatalChart:
		p.printf("NATAL CHART %s\n", v.ID)
		p.event(v.Event)
	case *types.MultiHouseChart:
		p.printf("NATAL CHART (ALL HOUSE SYSTEMS) %s\n", v.ID)
		p.event(v.Event)
	case *types.TransitChart:
		p.printf("TRANSITS %s\n", v.ID)
		p.printf("  Date:      %s\n", v.Date.Format("2006-01-02 15:04:05 MST"))
		p.printf("  Location:  %s\n", location(v.Location))
		p.natalRef(v.Natal)
	case *types.ProgressedChart:
		p.printf("SECONDARY PROGRESSIONS %s\n", v.ID)
		p.printf("  Date:      %s\n", v.Date.Format("2006-01-02"))
		p.printf("  Instant:   %s\n", v.Instant.Format("2006-01-02 15:04:05 MST"))
		p.natalRef(v.Natal)
	case *types.ReturnChart:
		p.printf("%s RETURN %d %s\n", strings.ToUpper(string(v.ReturnKind)), v.Year, v.ID)
		p.printf("  Instant:   %s\n", v.Instant.Format("2006-01-02 15:04:05 MST"))
		p.printf("  Location:  %s\n", location(v.Location))
		p.printf("  Residual:  %s°\n", fixed(v.Residual, 6))
		p.natalRef(v.Natal)
	}
}

func (p *printer) event(e types.EventData) {
	p.printf("  Date:      %s\n", e.UTC.Format("2006-01-02 15:04:05 MST"))
	if e.LocalTime != nil {
		p.printf("  Local:     %s (%s)\n", e.LocalTime.Format("2006-01-02 15:04:05"), e.Timezone)
	}
	p.printf("  Location:  %s\n", location(e.Location))
	p.printf("  Julian:    %s\n", fixed(e.JulianDay, 6))
}

func (p *printer) natalRef(n *types.NatalChart) {
	if n == nil {
		return
	}
	p.printf("  Natal:     %s %s\n", n.ID, n.Event.UTC.Format("2006-01-02 15:04:05 MST"))
}

func (p *printer) positions(ps types.Positions) {
	rows := make([][]string, 0, len(ps))
	for _, pos := range ps.Ordered() {
		r := ""
		if pos.Retrograde {
			r = "R"
		}
		rows = append(rows, []string{
			pos.Name,
			pos.SignSymbol + " " + pos.Sign,
			DMS(pos.Degree),
			fixed(pos.Longitude, 4),
			fixed(pos.Latitude, 4),
			fixed(pos.Speed, 4),
			fmt.Sprint(pos.House),
			r,
		})
	}
	p.table("Positions", []string{"BODY", "SIGN", "DEGREE", "LONGITUDE", "LATITUDE", "SPEED", "HOUSE", ""}, rows)
}

func (p *printer) houses(h types.Houses) {
	rows := make([][]string, 0, 16)
	for i, c := range h.Cusps {
		rows = append(rows, []string{fmt.Sprint(i + 1), fixed(c, 4)})
	}
	rows = append(rows,
		[]string{"ASC", fixed(h.Ascendant, 4)},
		[]string{"MC", fixed(h.MC, 4)},
		[]string{"Vertex", fixed(h.Vertex, 4)},
	)
	if h.EquatorialAscendant != nil {
		rows = append(rows, []string{"Eq. ASC", fixed(*h.EquatorialAscendant, 4)})
	}
	p.table("Houses ("+h.System+")", []string{"CUSP", "LONGITUDE"}, rows)
}

func (p *printer) aspects(pairs []types.AspectPair) {
	rows := make([][]string, 0, len(pairs))
	for _, a := range pairs {
		motion := "separating"
		if a.Aspect.Applying {
			motion = "applying"
		}
		rows = append(rows, []string{
			a.Body1,
			a.Aspect.Symbol + " " + a.Aspect.Type,
			a.Body2,
			fixed(a.Aspect.Orb, 2),
			motion,
			fixed(a.Aspect.Strength, 2),
		})
	}
	p.table("Aspects", []string{"BODY", "ASPECT", "BODY", "ORB", "MOTION", "STRENGTH"}, rows)
}

func (p *printer) patterns(ps []types.Pattern) {
	rows := make([][]string, 0, len(ps))
	for _, pat := range ps {
		rows = append(rows, []string{pat.Type, strings.Join(pat.Bodies, ", "), pat.Sign, fixed(pat.Strength, 0)})
	}
	p.table("Patterns", []string{"PATTERN", "BODIES", "SIGN", "STRENGTH"}, rows)
}

func (p *printer) omissions(list []types.Omission) {
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		rows = append(rows, []string{o.Body, o.Reason})
	}
	p.table("Omitted", []string{"BODY", "REASON"}, rows)
}

func (p *printer) stars(s *types.FixedStarReport) {
	p.printf("FIXED STARS %s\n", s.Date.Format("2006-01-02 15:04:05 MST"))
	star := func(list []types.FixedStar) [][]string {
		rows := make([][]string, 0, len(list))
		for _, f := range list {
			rows = append(rows, []string{f.Name, f.Constellation, f.Sign, DMS(f.Degree), fixed(f.Longitude, 4), fixed(f.Magnitude, 2), f.Nature})
		}
		return rows
	}
	header := []string{"STAR", "CONSTELLATION", "SIGN", "DEGREE", "LONGITUDE", "MAG", "NATURE"}
	p.table("Stars", header, star(s.Stars))
	p.table("Clusters", header, star(s.Clusters))

	rows := make([][]string, 0, len(s.Conjunctions))
	for _, c := range s.Conjunctions {
		rows = append(rows, []string{c.Star, c.Body, fixed(c.Orb, 4), c.StarMeaning})
	}
	p.table("Conjunctions", []string{"STAR", "BODY", "ORB", "MEANING"}, rows)
}

func patternsOf(c types.Chart) []types.Pattern {
	switch v := c.(type) {
	case *types.NatalChart:
		return v.Patterns
	case *types.MultiHouseChart:
		return v.Patterns
	}
	return nil
}

func location(l types.Location) string {
	s := fixed(l.Latitude, 4) + ", " + fixed(l.Longitude, 4)
	if l.Name != "" {
		s = l.Name + " (" + s + ")"
	}
	return s
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// DMS formats a degree within a sign as degrees and minutes, e.g. 15°07'
func DMS(deg float64) string {
	d := math.Floor(deg)
	m := math.Floor((deg - d) * 60)
	return fmt.Sprintf("%2d°%02d'", int(d), int(m))
}
