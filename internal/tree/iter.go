package tree

// Iterator walks the arena pre-order, depth first, using an explicit stack
// of node indices. It is single-pass: once exhausted it cannot be reset,
// and the arena must not change while the iterator is live.
type Iterator struct {
	arena  *Arena
	stack  []int
	filter func(*Node) bool
}

// Iter returns a pre-order iterator over every node, starting at the root.
func (a *Arena) Iter() *Iterator {
	return a.IterFrom(a.Root())
}

// IterFrom returns a pre-order iterator over the subtree rooted at start.
func (a *Arena) IterFrom(start int) *Iterator {
	return &Iterator{
		arena: a,
		stack: []int{start},
	}
}

// Datasets returns a pre-order iterator yielding only dataset nodes, in
// the same relative order the full iterator would visit them.
func (a *Arena) Datasets() *Iterator {
	return &Iterator{
		arena:  a,
		stack:  []int{a.Root()},
		filter: func(n *Node) bool { return n.Kind == KindDataset },
	}
}

// Next yields the next node index. The second result is false once the
// traversal is exhausted.
func (it *Iterator) Next() (int, bool) {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		// Push children in reverse so the name-sorted first child pops
		// first, keeping the traversal order deterministic.
		children := it.arena.Children(top)
		for i := len(children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, children[i])
		}

		if it.filter == nil || it.filter(it.arena.Node(top)) {
			return top, true
		}
	}
	return 0, false
}
