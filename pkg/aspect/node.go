package aspect

import (
	"maps"
	"slices"
	"strings"
)

// Node is one aspect in a [Registry]. Nodes are created only by
// [Registry.Register] and expose read-only accessors; the registry owns every
// node, and parent and child links are plain references into it.
type Node struct {
	parent      *Node
	tastes      map[string]*Taste
	name        string
	description string
	docs        Docs
	children    []*Node
	tasteNames  []string
	depth       int
}

// Name returns the aspect name, unique across the registry.
func (n *Node) Name() string {
	return n.name
}

// Description returns the one-paragraph description of the concern, which
// may be empty.
func (n *Node) Description() string {
	return n.description
}

// Parent returns the parent aspect, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is the root of its registry.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Depth returns the number of edges between n and the root.
func (n *Node) Depth() int {
	return n.depth
}

// Children returns the subaspects of n in registration order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Docs returns the documentation of the aspect.
func (n *Node) Docs() Docs {
	return n.docs
}

// OwnTastes returns the tastes declared directly on n, keyed by name.
// Inherited tastes are not included; see [Registry.ResolveTastes].
func (n *Node) OwnTastes() map[string]*Taste {
	return maps.Clone(n.tastes)
}

// TasteNames returns the names of the tastes declared directly on n, in
// declaration order.
func (n *Node) TasteNames() []string {
	return slices.Clone(n.tasteNames)
}

// Taste returns the taste declared directly on n with the given name.
func (n *Node) Taste(name string) (*Taste, bool) {
	t, ok := n.tastes[name]
	return t, ok
}

// path returns the names from the root to n.
func (n *Node) path() []string {
	names := make([]string, n.depth+1)
	for cur := n; cur != nil; cur = cur.parent {
		names[cur.depth] = cur.name
	}

	return names
}

func (n *Node) dottedPath() string {
	return strings.Join(n.path(), PathSeparator)
}

func (n *Node) String() string {
	return n.dottedPath()
}
