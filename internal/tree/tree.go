// Package tree provides the materialized object hierarchy of an HDF5 file.
//
// Nodes live in an arena and refer to each other by stable indices: parents
// point down through sorted child lists, children point back up through a
// non-owning parent index. The arena outlives every reference handed out,
// so navigation never copies subtrees or chases pointers into freed memory.
package tree

import (
	"errors"
	"sort"
	"strings"
)

// ErrDuplicateName is returned when a second child with an existing name is
// inserted into the same parent.
var ErrDuplicateName = errors.New("duplicate child name")

// Kind discriminates the two node types of the hierarchy.
type Kind int

const (
	KindGroup Kind = iota
	KindDataset
)

// Node is one object in the materialized hierarchy.
type Node struct {
	Name    string
	Kind    Kind
	Address uint64

	// HardLinkPath is non-empty when this object-header address was first
	// reached through another path; it holds that canonical path and the
	// node has no children of its own.
	HardLinkPath string

	parent   int
	children []int
}

// Arena owns every node of one file's hierarchy.
type Arena struct {
	nodes []Node
}

// NewArena creates an arena holding only a root group with the given address.
func NewArena(rootAddress uint64) *Arena {
	return &Arena{
		nodes: []Node{{
			Name:    "/",
			Kind:    KindGroup,
			Address: rootAddress,
			parent:  -1,
		}},
	}
}

// Root returns the index of the root node, always 0.
func (a *Arena) Root() int {
	return 0
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns the node at the given index.
func (a *Arena) Node(i int) *Node {
	return &a.nodes[i]
}

// Parent returns the parent index of a node, or -1 for the root.
func (a *Arena) Parent(i int) int {
	return a.nodes[i].parent
}

// Children returns a node's child indices, sorted by name.
func (a *Arena) Children(i int) []int {
	return a.nodes[i].children
}

// AddChild inserts a new node under parent, keeping the child list sorted
// by name. A name collision returns ErrDuplicateName.
func (a *Arena) AddChild(parent int, name string, kind Kind, address uint64, hardLinkPath string) (int, error) {
	children := a.nodes[parent].children
	pos := sort.Search(len(children), func(j int) bool {
		return a.nodes[children[j]].Name >= name
	})
	if pos < len(children) && a.nodes[children[pos]].Name == name {
		return 0, ErrDuplicateName
	}

	idx := len(a.nodes)
	a.nodes = append(a.nodes, Node{
		Name:         name,
		Kind:         kind,
		Address:      address,
		HardLinkPath: hardLinkPath,
		parent:       parent,
	})

	children = append(children, 0)
	copy(children[pos+1:], children[pos:])
	children[pos] = idx
	a.nodes[parent].children = children

	return idx, nil
}

// FindChild locates a direct child by name using binary search.
func (a *Arena) FindChild(parent int, name string) (int, bool) {
	children := a.nodes[parent].children
	pos := sort.Search(len(children), func(j int) bool {
		return a.nodes[children[j]].Name >= name
	})
	if pos < len(children) && a.nodes[children[pos]].Name == name {
		return children[pos], true
	}
	return 0, false
}

// FindByPath resolves an absolute path ("/a/b/c") to a node index. The
// lookup stops early and reports false when an intermediate segment is
// missing or is not a group.
func (a *Arena) FindByPath(path string) (int, bool) {
	current := a.Root()
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if a.nodes[current].Kind != KindGroup {
			return 0, false
		}
		child, ok := a.FindChild(current, segment)
		if !ok {
			return 0, false
		}
		current = child
	}
	return current, true
}

// Path reconstructs the absolute path of a node by walking parent links.
func (a *Arena) Path(i int) string {
	if i == a.Root() {
		return "/"
	}
	var parts []string
	for j := i; j != a.Root(); j = a.nodes[j].parent {
		parts = append(parts, a.nodes[j].Name)
	}
	var b strings.Builder
	for j := len(parts) - 1; j >= 0; j-- {
		b.WriteByte('/')
		b.WriteString(parts[j])
	}
	return b.String()
}
