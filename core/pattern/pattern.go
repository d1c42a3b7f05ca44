package pattern

import (
	"sort"
	"strings"

	"astrochart/core/catalog"
	"astrochart/core/types"
	"astrochart/core/zodiac"
)

// Detector finds the configured patterns
type Detector struct {
	settings catalog.PatternSettings
}

// NewDetector creates a detector reading thresholds from cat
func NewDetector(cat *catalog.Catalog) *Detector {
	return &Detector{settings: cat.Patterns()}
}

// Detect returns closed triangles, T-squares and sign clusters, in that
// order. The result depends only on the set of inputs, not their order.
func (d *Detector) Detect(positions []types.Position, pairs []types.AspectPair) []types.Pattern {
	g := NewGraph(pairs)

	var patterns []types.Pattern
	if s := d.settings.GrandTrine; s.Enabled {
		for _, tri := range Triangles(g, s.Aspect) {
			patterns = append(patterns, types.Pattern{
				Type:     nameOr(s.Name, "Grand "+s.Aspect),
				Bodies:   tri,
				Strength: s.Strength,
			})
		}
	}
	if s := d.settings.TSquare; s.Enabled {
		for _, tri := range TSquares(g, s.Opposition, s.Square) {
			patterns = append(patterns, types.Pattern{
				Type:     nameOr(s.Name, "T-Square"),
				Bodies:   tri,
				Strength: s.Strength,
			})
		}
	}
	if s := d.settings.Stellium; s.Enabled {
		for _, c := range Clusters(positions, s.MinBodies) {
			patterns = append(patterns, types.Pattern{
				Type:     nameOr(s.Name, "Stellium"),
				Bodies:   c.Bodies,
				Sign:     c.Sign,
				Strength: s.Strength,
			})
		}
	}
	return patterns
}

// Triangles finds every triple of bodies mutually joined by aspectType.
// Each triple is sorted and reported once.
func Triangles(g *Graph, aspectType string) [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, a := range g.vertices {
		for _, b := range g.Neighbors(a, aspectType) {
			for _, c := range g.Neighbors(b, aspectType) {
				if c == a || !g.HasEdge(a, c, aspectType) {
					continue
				}
				out = appendUnique(out, seen, a, b, c)
			}
		}
	}
	return out
}

// TSquares finds pairs in opposition that both square a third body
func TSquares(g *Graph, opposition, square string) [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, p1 := range g.vertices {
		for _, p2 := range g.Neighbors(p1, opposition) {
			for _, p3 := range g.vertices {
				if p3 == p1 || p3 == p2 {
					continue
				}
				if g.HasEdge(p3, p1, square) && g.HasEdge(p3, p2, square) {
					out = appendUnique(out, seen, p1, p2, p3)
				}
			}
		}
	}
	return out
}

// Cluster is a group of bodies sharing a sign
type Cluster struct {
	Sign   string
	Bodies []string
}

// Clusters groups positions by sign and keeps groups of at least min bodies.
// Groups come back in zodiac order with sorted members.
func Clusters(positions []types.Position, min int) []Cluster {
	var bySign [12][]string
	seen := make(map[string]bool)
	for _, p := range positions {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		i := zodiac.SignIndex(p.Longitude)
		bySign[i] = append(bySign[i], p.Name)
	}

	var out []Cluster
	for i, members := range bySign {
		if len(members) == 0 || len(members) < min {
			continue
		}
		sort.Strings(members)
		out = append(out, Cluster{Sign: zodiac.Signs[i].Name, Bodies: members})
	}
	return out
}

func appendUnique(out [][]string, seen map[string]bool, bodies ...string) [][]string {
	tri := append([]string(nil), bodies...)
	sort.Strings(tri)
	key := strings.Join(tri, "\x00")
	if seen[key] {
		return out
	}
	seen[key] = true
	return append(out, tri)
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
