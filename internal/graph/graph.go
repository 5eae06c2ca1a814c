// Package graph provides a generic labeled-edge graph over stable entity
// identifiers, with reachability and cycle detection. Edges are stored as
// a flat list; archiving hides an edge from active queries without
// deleting it.
package graph

import (
	"encoding/json"
	"time"
)

// Label tags an edge with its relationship kind.
type Label string

// Direction states whether an edge is one-way.
type Direction string

const (
	Directed      Direction = "directed"
	Bidirectional Direction = "bidirectional"
)

// Edge is a labeled connection between two node identifiers.
type Edge struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Label      Label      `json:"label"`
	Direction  Direction  `json:"direction"`
	Weight     *float64   `json:"weight,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// IsActive reports whether the edge is visible to active queries.
func (e Edge) IsActive() bool { return e.ArchivedAt == nil }

// touches reports whether the edge mentions id at either endpoint.
func (e Edge) touches(id string) bool { return e.Source == id || e.Target == id }

// Graph holds the edge list. The zero value is an empty graph.
type Graph struct {
	Edges []Edge `json:"edges"`
}

// MarshalJSON encodes the graph as a bare edge array.
func (g Graph) MarshalJSON() ([]byte, error) {
	if g.Edges == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.Edges)
}

// UnmarshalJSON decodes a bare edge array.
func (g *Graph) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &g.Edges)
}

// AddEdge pushes the edge unconditionally. Self-reference and cycle
// checks are the caller's responsibility via WouldCreateCycle.
func (g *Graph) AddEdge(e Edge) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	g.Edges = append(g.Edges, e)
}

// RemoveEdge removes every edge connecting the pair, in either
// orientation, reporting how many were removed.
func (g *Graph) RemoveEdge(source, target string) int {
	return g.removeIf(func(e Edge) bool {
		return connects(e, source, target)
	})
}

// RemoveEdgeLabeled removes every edge with the given label connecting
// the pair, reporting how many were removed.
func (g *Graph) RemoveEdgeLabeled(source, target string, label Label) int {
	return g.removeIf(func(e Edge) bool {
		return e.Label == label && connects(e, source, target)
	})
}

func connects(e Edge, a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

// RemoveNode drops every edge mentioning id.
func (g *Graph) RemoveNode(id string) {
	g.removeIf(func(e Edge) bool { return e.touches(id) })
}

// ArchiveNode stamps ArchivedAt on every active edge mentioning id.
func (g *Graph) ArchiveNode(id string) {
	now := time.Now().UTC()
	for i := range g.Edges {
		if g.Edges[i].touches(id) && g.Edges[i].ArchivedAt == nil {
			at := now
			g.Edges[i].ArchivedAt = &at
		}
	}
}

// UnarchiveNode clears ArchivedAt on every edge mentioning id.
func (g *Graph) UnarchiveNode(id string) {
	for i := range g.Edges {
		if g.Edges[i].touches(id) {
			g.Edges[i].ArchivedAt = nil
		}
	}
}

// Outgoing returns edges leaving id: directed edges with source id plus
// bidirectional edges at either endpoint.
func (g *Graph) Outgoing(id string) []Edge { return g.collect(id, true, false) }

// OutgoingActive is Outgoing restricted to active edges.
func (g *Graph) OutgoingActive(id string) []Edge { return g.collect(id, true, true) }

// Incoming returns edges arriving at id.
func (g *Graph) Incoming(id string) []Edge { return g.collect(id, false, false) }

// IncomingActive is Incoming restricted to active edges.
func (g *Graph) IncomingActive(id string) []Edge { return g.collect(id, false, true) }

// Neighbors returns every node connected to id by any edge.
func (g *Graph) Neighbors(id string) []string { return g.neighbors(id, false) }

// NeighborsActive is Neighbors restricted to active edges.
func (g *Graph) NeighborsActive(id string) []string { return g.neighbors(id, true) }

// WouldCreateCycle reports whether adding a directed edge source->target
// with the given label would close a cycle in that labeled sub-graph.
// Only active edges are considered.
func (g *Graph) WouldCreateCycle(source, target string, label Label) bool {
	if source == target {
		return true
	}
	// The proposed edge closes a cycle iff source is already reachable
	// from target over the active labeled sub-graph.
	visited := map[string]bool{}
	stack := []string{target}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == source {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, e := range g.Edges {
			if !e.IsActive() || e.Label != label || e.Direction != Directed {
				continue
			}
			if e.Source == node && !visited[e.Target] {
				stack = append(stack, e.Target)
			}
		}
	}
	return false
}

func (g *Graph) collect(id string, outgoing, activeOnly bool) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if activeOnly && !e.IsActive() {
			continue
		}
		switch {
		case e.Direction == Bidirectional && e.touches(id):
			out = append(out, e)
		case outgoing && e.Source == id:
			out = append(out, e)
		case !outgoing && e.Target == id:
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) neighbors(id string, activeOnly bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range g.Edges {
		if activeOnly && !e.IsActive() {
			continue
		}
		var other string
		switch {
		case e.Source == id:
			other = e.Target
		case e.Target == id:
			other = e.Source
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

func (g *Graph) removeIf(match func(Edge) bool) int {
	kept := g.Edges[:0]
	removed := 0
	for _, e := range g.Edges {
		if match(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return removed
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() Graph {
	if len(g.Edges) == 0 {
		return Graph{}
	}
	edges := make([]Edge, len(g.Edges))
	for i, e := range g.Edges {
		if e.Weight != nil {
			w := *e.Weight
			e.Weight = &w
		}
		if e.ArchivedAt != nil {
			at := *e.ArchivedAt
			e.ArchivedAt = &at
		}
		edges[i] = e
	}
	return Graph{Edges: edges}
}
