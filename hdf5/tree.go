package hdf5

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/veyronix/hdf5/internal/btree"
	"github.com/veyronix/hdf5/internal/message"
	"github.com/veyronix/hdf5/internal/tree"
)

// Tree is the materialized hierarchy of a file: every group and dataset
// reachable from the root through hard links, with children sorted by name
// and hard links to already-visited objects recorded instead of recursed.
// A Tree is immutable once built and safe to share for reading.
type Tree struct {
	file  *File
	arena *tree.Arena
}

// TreeNode is a handle to one node of a materialized Tree.
type TreeNode struct {
	tree *Tree
	idx  int
}

// Tree materializes (or returns the cached) hierarchy of the file.
// Soft and external links are not materialized; they stay resolvable
// through the path-based OpenGroup/OpenDataset API.
func (f *File) Tree() (*Tree, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.tree != nil {
		return f.tree, nil
	}

	t := &Tree{
		file:  f,
		arena: tree.NewArena(f.superblock.RootGroupAddress),
	}

	seen := map[uint64]int{
		f.superblock.RootGroupAddress: t.arena.Root(),
	}
	if err := t.materialize(t.arena.Root(), f.root, seen); err != nil {
		return nil, fmt.Errorf("materializing tree: %w", err)
	}

	f.tree = t
	return t, nil
}

// childLink is one hard link discovered while scanning a group.
type childLink struct {
	name    string
	address uint64
}

// materialize recursively populates the arena below the given group node.
// seen maps object-header addresses to the arena index that first reached
// them, so a second visit records a hard link instead of recursing.
func (t *Tree) materialize(nodeIdx int, g *Group, seen map[uint64]int) error {
	links, err := t.groupHardLinks(g)
	if err != nil {
		return fmt.Errorf("scanning group %s: %w", t.arena.Path(nodeIdx), err)
	}

	for _, link := range links {
		if prev, ok := seen[link.address]; ok {
			canonical := t.arena.Path(prev)
			kind := t.arena.Node(prev).Kind
			if _, err := t.addChild(nodeIdx, link.name, kind, link.address, canonical); err != nil {
				return err
			}
			continue
		}

		header, err := t.file.readHeader(link.address)
		if err != nil {
			return fmt.Errorf("reading object header for %q: %w", link.name, err)
		}

		// An object with a data layout message is a dataset; everything
		// else is a group.
		kind := tree.KindGroup
		if header.DataLayout() != nil {
			kind = tree.KindDataset
		}

		childIdx, err := t.addChild(nodeIdx, link.name, kind, link.address, "")
		if err != nil {
			return err
		}
		if childIdx < 0 {
			continue // Duplicate demoted to a warning.
		}
		seen[link.address] = childIdx

		if kind == tree.KindGroup {
			child := &Group{
				file:   t.file,
				path:   t.arena.Path(childIdx),
				header: header,
				addr:   link.address,
			}
			if err := t.materialize(childIdx, child, seen); err != nil {
				return err
			}
		}
	}

	return nil
}

// addChild inserts into the arena, translating a name collision into
// ErrDuplicateLink. Under non-strict mode the later entry is dropped with
// a warning and -1 is returned.
func (t *Tree) addChild(parent int, name string, kind tree.Kind, address uint64, hardLinkPath string) (int, error) {
	idx, err := t.arena.AddChild(parent, name, kind, address, hardLinkPath)
	if err != nil {
		if !t.file.reader.StrictChecksums() {
			t.file.logger.WithField("name", name).Warnf(
				"group %s: duplicate link name, later entry dropped", t.arena.Path(parent))
			return -1, nil
		}
		return 0, pkgerrors.WithStack(fmt.Errorf("%w: %q in group %s", ErrDuplicateLink, name, t.arena.Path(parent)))
	}
	return idx, nil
}

// groupHardLinks collects the hard links of a group from whichever storage
// the file uses: inline link messages, dense fractal-heap storage, or a v1
// symbol table. Soft and external links are skipped.
func (t *Tree) groupHardLinks(g *Group) ([]childLink, error) {
	var links []childLink

	for _, msg := range g.header.GetMessages(message.TypeLink) {
		link := msg.(*message.Link)
		if link.IsHard() {
			links = append(links, childLink{name: link.Name, address: link.ObjectAddress})
		}
	}

	dense, err := g.denseLinks()
	if err != nil {
		return nil, err
	}
	for _, link := range dense {
		if link.IsHard() {
			links = append(links, childLink{name: link.Name, address: link.ObjectAddress})
		}
	}

	symTable := t.symbolTableFor(g)
	if len(links) == 0 && symTable != nil {
		localHeap, err := t.file.readLocalHeap(symTable.LocalHeapAddress)
		if err != nil {
			return nil, fmt.Errorf("reading local heap: %w", err)
		}
		entries, err := btree.ReadGroupEntries(t.file.reader, symTable.BTreeAddress, localHeap)
		if err != nil {
			return nil, fmt.Errorf("reading B-tree: %w", err)
		}
		for _, entry := range entries {
			if entry.LinkType != 0 {
				continue
			}
			links = append(links, childLink{name: entry.Name, address: entry.ObjectAddress})
		}
	}

	return links, nil
}

// symbolTableFor returns the group's symbol table message, falling back to
// the root entry cached in the superblock scratch pad.
func (t *Tree) symbolTableFor(g *Group) *message.SymbolTable {
	if msg := g.header.GetMessage(message.TypeSymbolTable); msg != nil {
		return msg.(*message.SymbolTable)
	}
	if g.path == "/" && t.file.superblock.RootGroupBTreeAddress != 0 {
		return &message.SymbolTable{
			BTreeAddress:     t.file.superblock.RootGroupBTreeAddress,
			LocalHeapAddress: t.file.superblock.RootGroupLocalHeapAddress,
		}
	}
	return nil
}

// Root returns the root group node.
func (t *Tree) Root() TreeNode {
	return TreeNode{tree: t, idx: t.arena.Root()}
}

// Find resolves an absolute path to a node.
func (t *Tree) Find(path string) (TreeNode, bool) {
	idx, ok := t.arena.FindByPath(path)
	if !ok {
		return TreeNode{}, false
	}
	return TreeNode{tree: t, idx: idx}, true
}

// Len returns the number of materialized nodes, the root included.
func (t *Tree) Len() int {
	return t.arena.Len()
}

// NodeIterator yields tree nodes pre-order, depth first. Single pass.
type NodeIterator struct {
	tree *Tree
	it   *tree.Iterator
}

// Iter returns an iterator over every node, the root first.
func (t *Tree) Iter() *NodeIterator {
	return &NodeIterator{tree: t, it: t.arena.Iter()}
}

// DatasetIter returns an iterator over dataset nodes only, in the same
// relative order Iter would visit them.
func (t *Tree) DatasetIter() *NodeIterator {
	return &NodeIterator{tree: t, it: t.arena.Datasets()}
}

// iterFrom returns an iterator over the subtree rooted at n.
func (t *Tree) iterFrom(n TreeNode) *NodeIterator {
	return &NodeIterator{tree: t, it: t.arena.IterFrom(n.idx)}
}

// Next yields the next node; ok is false once the traversal is done.
func (it *NodeIterator) Next() (TreeNode, bool) {
	idx, ok := it.it.Next()
	if !ok {
		return TreeNode{}, false
	}
	return TreeNode{tree: it.tree, idx: idx}, true
}

// Name returns the node's link name ("/" for the root).
func (n TreeNode) Name() string {
	return n.tree.arena.Node(n.idx).Name
}

// Path returns the node's absolute path.
func (n TreeNode) Path() string {
	return n.tree.arena.Path(n.idx)
}

// Address returns the node's object header address.
func (n TreeNode) Address() uint64 {
	return n.tree.arena.Node(n.idx).Address
}

// IsDataset reports whether the node is a dataset.
func (n TreeNode) IsDataset() bool {
	return n.tree.arena.Node(n.idx).Kind == tree.KindDataset
}

// HardLinkPath returns the canonical path of the object this node aliases,
// when the node was reached after another path already claimed the same
// object header address.
func (n TreeNode) HardLinkPath() (string, bool) {
	p := n.tree.arena.Node(n.idx).HardLinkPath
	return p, p != ""
}

// Children returns the node's children sorted by name.
func (n TreeNode) Children() []TreeNode {
	idxs := n.tree.arena.Children(n.idx)
	out := make([]TreeNode, len(idxs))
	for i, idx := range idxs {
		out[i] = TreeNode{tree: n.tree, idx: idx}
	}
	return out
}

// Dataset opens the dataset this node refers to.
func (n TreeNode) Dataset() (*Dataset, error) {
	if !n.IsDataset() {
		return nil, ErrNotDataset
	}
	ds, err := n.tree.file.openDatasetAt(n.Address(), n.Path())
	if err != nil {
		return nil, err
	}
	if p, ok := n.HardLinkPath(); ok {
		ds.hardLinkPath = p
	}
	return ds, nil
}

// Group opens the group this node refers to.
func (n TreeNode) Group() (*Group, error) {
	if n.IsDataset() {
		return nil, ErrNotGroup
	}
	return n.tree.file.openGroupAt(n.Address(), n.Path())
}

// Datasets iterates the file's datasets in pre-order traversal order.
// It materializes the tree on first use.
func (f *File) Datasets() (*NodeIterator, error) {
	t, err := f.Tree()
	if err != nil {
		return nil, err
	}
	return t.DatasetIter(), nil
}
