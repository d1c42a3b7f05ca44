// Package pattern - Multi-body aspect configurations
// Detection runs over an adjacency Graph built once from the aspect list and
// never modified afterwards.
package pattern

import (
	"sort"

	"astrochart/core/types"
)

// Graph is an undirected aspect graph keyed by body identifier.
// Every edge is stored in both directions.
type Graph struct {
	adj      map[string]map[string]types.Aspect
	vertices []string
}

// NewGraph builds the graph for a set of aspect pairs. Self pairs are ignored.
func NewGraph(pairs []types.AspectPair) *Graph {
	g := &Graph{adj: make(map[string]map[string]types.Aspect)}
	for _, p := range pairs {
		if p.Body1 == p.Body2 {
			continue
		}
		g.link(p.Body1, p.Body2, p.Aspect)
		g.link(p.Body2, p.Body1, p.Aspect)
	}
	g.vertices = make([]string, 0, len(g.adj))
	for v := range g.adj {
		g.vertices = append(g.vertices, v)
	}
	sort.Strings(g.vertices)
	return g
}

func (g *Graph) link(from, to string, a types.Aspect) {
	m, ok := g.adj[from]
	if !ok {
		m = make(map[string]types.Aspect)
		g.adj[from] = m
	}
	m[to] = a
}

// Vertices returns every body with at least one aspect, sorted
func (g *Graph) Vertices() []string {
	return append([]string(nil), g.vertices...)
}

// Edge returns the aspect between a and b
func (g *Graph) Edge(a, b string) (types.Aspect, bool) {
	asp, ok := g.adj[a][b]
	return asp, ok
}

// HasEdge reports whether a and b form an aspect of the given type
func (g *Graph) HasEdge(a, b, aspectType string) bool {
	asp, ok := g.adj[a][b]
	return ok && asp.Type == aspectType
}

// Neighbors returns the bodies aspecting v with the given type, sorted
func (g *Graph) Neighbors(v, aspectType string) []string {
	var out []string
	for n, asp := range g.adj[v] {
		if asp.Type == aspectType {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Degree is the number of bodies v aspects
func (g *Graph) Degree(v string) int {
	return len(g.adj[v])
}
