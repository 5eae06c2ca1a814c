package graph

// Card dependency edge labels riding on the generic graph.
const (
	LabelBlocks      Label = "blocks"
	LabelRelatesTo   Label = "relates_to"
	LabelParentChild Label = "parent_child"
)

// Blockers returns the cards blocking id: sources of active incoming
// Blocks edges.
func (g *Graph) Blockers(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.IsActive() && e.Label == LabelBlocks && e.Target == id {
			out = append(out, e.Source)
		}
	}
	return out
}

// BlockedBy returns the cards id blocks: targets of active outgoing
// Blocks edges.
func (g *Graph) BlockedBy(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.IsActive() && e.Label == LabelBlocks && e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Related returns the other endpoint of every active RelatesTo edge
// touching id.
func (g *Graph) Related(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if !e.IsActive() || e.Label != LabelRelatesTo {
			continue
		}
		switch {
		case e.Source == id:
			out = append(out, e.Target)
		case e.Target == id:
			out = append(out, e.Source)
		}
	}
	return out
}

// Parent returns the parent of id over active ParentChild edges, if any.
// Parent edges run parent -> child.
func (g *Graph) Parent(id string) *string {
	for _, e := range g.Edges {
		if e.IsActive() && e.Label == LabelParentChild && e.Target == id {
			parent := e.Source
			return &parent
		}
	}
	return nil
}

// Children returns the children of id over active ParentChild edges.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.IsActive() && e.Label == LabelParentChild && e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// CanStart reports whether every blocker of id is complete.
func (g *Graph) CanStart(id string, isComplete func(string) bool) bool {
	for _, blocker := range g.Blockers(id) {
		if !isComplete(blocker) {
			return false
		}
	}
	return true
}
