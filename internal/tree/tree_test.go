package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample builds:
//
//	/
//	├── a        (group)
//	│   ├── x    (dataset)
//	│   └── y    (dataset, hard link to /d)
//	├── b        (dataset)
//	└── c        (group, empty)
//	└── d        (dataset)
func buildSample(t *testing.T) *Arena {
	t.Helper()
	a := NewArena(96)

	ga, err := a.AddChild(a.Root(), "a", KindGroup, 200, "")
	require.NoError(t, err)
	_, err = a.AddChild(a.Root(), "c", KindGroup, 300, "")
	require.NoError(t, err)
	_, err = a.AddChild(a.Root(), "b", KindDataset, 400, "")
	require.NoError(t, err)
	_, err = a.AddChild(a.Root(), "d", KindDataset, 500, "")
	require.NoError(t, err)

	_, err = a.AddChild(ga, "y", KindDataset, 500, "/d")
	require.NoError(t, err)
	_, err = a.AddChild(ga, "x", KindDataset, 600, "")
	require.NoError(t, err)

	return a
}

func TestArenaChildrenSorted(t *testing.T) {
	a := buildSample(t)

	var names []string
	for _, idx := range a.Children(a.Root()) {
		names = append(names, a.Node(idx).Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestArenaDuplicateName(t *testing.T) {
	a := NewArena(0)
	_, err := a.AddChild(a.Root(), "dup", KindGroup, 1, "")
	require.NoError(t, err)
	_, err = a.AddChild(a.Root(), "dup", KindDataset, 2, "")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestArenaFindChild(t *testing.T) {
	a := buildSample(t)

	idx, ok := a.FindChild(a.Root(), "b")
	require.True(t, ok)
	assert.Equal(t, "b", a.Node(idx).Name)
	assert.Equal(t, KindDataset, a.Node(idx).Kind)

	_, ok = a.FindChild(a.Root(), "nope")
	assert.False(t, ok)
}

func TestArenaFindByPath(t *testing.T) {
	a := buildSample(t)

	idx, ok := a.FindByPath("/a/x")
	require.True(t, ok)
	assert.Equal(t, uint64(600), a.Node(idx).Address)

	root, ok := a.FindByPath("/")
	require.True(t, ok)
	assert.Equal(t, a.Root(), root)

	// A dataset in the middle of the path terminates the search.
	_, ok = a.FindByPath("/b/deeper")
	assert.False(t, ok)

	_, ok = a.FindByPath("/a/missing")
	assert.False(t, ok)
}

func TestArenaPath(t *testing.T) {
	a := buildSample(t)

	idx, ok := a.FindByPath("/a/y")
	require.True(t, ok)
	assert.Equal(t, "/a/y", a.Path(idx))
	assert.Equal(t, "/", a.Path(a.Root()))
}

func TestArenaParent(t *testing.T) {
	a := buildSample(t)

	idx, ok := a.FindByPath("/a/x")
	require.True(t, ok)
	parent := a.Parent(idx)
	assert.Equal(t, "a", a.Node(parent).Name)
	assert.Equal(t, -1, a.Parent(a.Root()))
}

func TestIteratorPreOrder(t *testing.T) {
	a := buildSample(t)

	var paths []string
	it := a.Iter()
	for {
		idx, ok := it.Next()
		if !ok {
			break
		}
		paths = append(paths, a.Path(idx))
	}

	assert.Equal(t, []string{"/", "/a", "/a/x", "/a/y", "/b", "/c", "/d"}, paths)
}

func TestIteratorVisitsEachNodeOnce(t *testing.T) {
	a := buildSample(t)

	seen := make(map[int]int)
	it := a.Iter()
	for {
		idx, ok := it.Next()
		if !ok {
			break
		}
		seen[idx]++
	}

	assert.Len(t, seen, a.Len())
	for idx, n := range seen {
		assert.Equal(t, 1, n, "node %d visited %d times", idx, n)
	}
}

func TestDatasetIterator(t *testing.T) {
	a := buildSample(t)

	var paths []string
	it := a.Datasets()
	for {
		idx, ok := it.Next()
		if !ok {
			break
		}
		assert.Equal(t, KindDataset, a.Node(idx).Kind)
		paths = append(paths, a.Path(idx))
	}

	assert.Equal(t, []string{"/a/x", "/a/y", "/b", "/d"}, paths)
}

func TestIteratorExhausted(t *testing.T) {
	a := NewArena(0)
	it := a.Iter()

	_, ok := it.Next()
	require.True(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestHardLinkPathRecorded(t *testing.T) {
	a := buildSample(t)

	idx, ok := a.FindByPath("/a/y")
	require.True(t, ok)
	assert.Equal(t, "/d", a.Node(idx).HardLinkPath)

	canon, ok := a.FindByPath("/d")
	require.True(t, ok)
	assert.Empty(t, a.Node(canon).HardLinkPath)
	assert.Equal(t, a.Node(idx).Address, a.Node(canon).Address)
}
