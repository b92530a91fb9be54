package hdf5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeMaterialize(t *testing.T) {
	path := skipIfNoTestdata(t, "groups.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tr, err := f.Tree()
	require.NoError(t, err)

	root := tr.Root()
	assert.Equal(t, "/", root.Path())
	assert.False(t, root.IsDataset())

	children := root.Children()
	require.NotEmpty(t, children)

	// Children come back sorted by name.
	for i := 1; i < len(children); i++ {
		assert.Less(t, children[i-1].Name(), children[i].Name())
	}

	node, ok := tr.Find("/group1/data")
	require.True(t, ok)
	assert.True(t, node.IsDataset())
	assert.Equal(t, "/group1/data", node.Path())

	_, hard := node.HardLinkPath()
	assert.False(t, hard)

	ds, err := node.Dataset()
	require.NoError(t, err)
	vals, err := ds.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, vals)
}

func TestTreeCached(t *testing.T) {
	path := skipIfNoTestdata(t, "groups.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	t1, err := f.Tree()
	require.NoError(t, err)
	t2, err := f.Tree()
	require.NoError(t, err)
	assert.Same(t, t1, t2)
}

func TestTreeFindMissing(t *testing.T) {
	path := skipIfNoTestdata(t, "groups.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tr, err := f.Tree()
	require.NoError(t, err)

	_, ok := tr.Find("/no/such/path")
	assert.False(t, ok)
}

func TestTreeIterPreOrder(t *testing.T) {
	path := skipIfNoTestdata(t, "groups.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tr, err := f.Tree()
	require.NoError(t, err)

	seen := make(map[string]bool)
	count := 0
	it := tr.Iter()
	for {
		node, ok := it.Next()
		if !ok {
			break
		}
		require.False(t, seen[node.Path()], "node %s visited twice", node.Path())
		seen[node.Path()] = true
		count++
	}

	assert.Equal(t, tr.Len(), count)
	assert.True(t, seen["/"])
}

func TestDatasetsIterator(t *testing.T) {
	path := skipIfNoTestdata(t, "groups.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	it, err := f.Datasets()
	require.NoError(t, err)

	found := false
	for {
		node, ok := it.Next()
		if !ok {
			break
		}
		assert.True(t, node.IsDataset())
		if node.Path() == "/group1/data" {
			found = true
		}
	}
	assert.True(t, found, "dataset iterator missed /group1/data")
}

func TestReadBytesContiguous(t *testing.T) {
	path := skipIfNoTestdata(t, "minimal.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	ds, err := f.OpenDataset("data")
	require.NoError(t, err)
	require.True(t, ds.HasData())

	full, err := ds.ReadRaw()
	require.NoError(t, err)

	elem := uint64(ds.DtypeSize())
	got, err := ds.ReadBytes(elem, 2*elem)
	require.NoError(t, err)
	assert.Equal(t, full[elem:3*elem], got)

	// The whole range round-trips.
	all, err := ds.ReadBytes(0, uint64(len(full)))
	require.NoError(t, err)
	assert.Equal(t, full, all)
}

func TestReadBytesMisaligned(t *testing.T) {
	path := skipIfNoTestdata(t, "minimal.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	ds, err := f.OpenDataset("data")
	require.NoError(t, err)

	_, err = ds.ReadBytes(1, 8)
	assert.ErrorIs(t, err, ErrMisalignedRead)

	_, err = ds.ReadBytes(0, 3)
	assert.ErrorIs(t, err, ErrMisalignedRead)
}

func TestReadBytesChunked(t *testing.T) {
	path := skipIfNoTestdata(t, "chunked.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	ds, err := f.OpenDataset("chunked")
	require.NoError(t, err)

	full, err := ds.ReadRaw()
	require.NoError(t, err)

	// A range crossing chunk boundaries matches the full read.
	elem := uint64(ds.DtypeSize())
	got, err := ds.ReadBytes(10*elem, 30*elem)
	require.NoError(t, err)
	assert.Equal(t, full[10*elem:40*elem], got)
}

func TestReadBytesInto(t *testing.T) {
	path := skipIfNoTestdata(t, "minimal.h5")

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	ds, err := f.OpenDataset("data")
	require.NoError(t, err)

	full, err := ds.ReadRaw()
	require.NoError(t, err)

	buf := make([]byte, 2*ds.DtypeSize())
	require.NoError(t, ds.ReadBytesInto(0, buf))
	assert.Equal(t, full[:len(buf)], buf)
}
