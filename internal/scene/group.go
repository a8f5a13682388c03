package scene

import "github.com/google/uuid"

// Group is a named collection of top-level object IDs (images or nested
// groups). It carries no geometry of its own; its visual bounds are the
// union of member bounds, recomputed on demand and never stored.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// NewGroup creates a group with a fresh ID.
func NewGroup(name string, members []string) *Group {
	g := &Group{ID: uuid.NewString(), Name: name}
	g.Members = append(g.Members, members...)
	return g
}

// Contains reports whether id is a direct member of the group.
func (g *Group) Contains(id string) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	c := &Group{ID: g.ID, Name: g.Name}
	c.Members = append(c.Members, g.Members...)
	return c
}
