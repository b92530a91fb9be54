package layout

import (
	gobinary "encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/message"
)

func TestCompactReadRange(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	compact := NewCompact(&message.DataLayout{Class: message.LayoutCompact, CompactData: data},
		&message.Dataspace{SpaceType: message.DataspaceSimple, Rank: 1, Dimensions: []uint64{8}},
		&message.Datatype{Class: message.ClassFixedPoint, Size: 1})

	got, err := compact.ReadRange(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4, 5, 6}, got)

	_, err = compact.ReadRange(6, 4)
	assert.Error(t, err)
}

func TestContiguousReadRange(t *testing.T) {
	fileData := make(bytesReaderAt, 1024)
	testData := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	copy(fileData[100:], testData)

	reader := binary.NewReader(fileData, binary.Config{OffsetSize: 8, LengthSize: 8})

	contiguous := NewContiguous(
		&message.DataLayout{Class: message.LayoutContiguous, Address: 100, Size: 8},
		&message.Dataspace{SpaceType: message.DataspaceSimple, Rank: 1, Dimensions: []uint64{8}},
		&message.Datatype{Class: message.ClassFixedPoint, Size: 1},
		reader)

	got, err := contiguous.ReadRange(3, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{40, 50, 60, 70}, got)

	got, err = contiguous.ReadRange(0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = contiguous.ReadRange(5, 8)
	assert.Error(t, err)
}

// buildChunkedFixture builds a file image holding a v1 chunk B-tree leaf at
// offset 512 indexing the given chunks, each 4 elements of 4 bytes. dims is
// the dataset extent in elements; chunkStarts are element offsets.
func buildChunkedFixture(dims uint64, chunkStarts []uint64, chunkValues [][]uint32) (bytesReaderAt, *Chunked) {
	const btreeAddr = 512
	const elementSize = 4
	const chunkElems = 4

	file := make(bytesReaderAt, 8192)

	// Leaf node: TREE, type 1, level 0, entriesUsed keys+children then the
	// final upper-bound key.
	pos := btreeAddr
	copy(file[pos:], "TREE")
	pos += 4
	file[pos] = 1 // node type: chunk
	pos++
	file[pos] = 0 // level: leaf
	pos++
	gobinary.LittleEndian.PutUint16(file[pos:], uint16(len(chunkStarts)))
	pos += 2
	gobinary.LittleEndian.PutUint64(file[pos:], 0xFFFFFFFFFFFFFFFF) // left sibling
	pos += 8
	gobinary.LittleEndian.PutUint64(file[pos:], 0xFFFFFFFFFFFFFFFF) // right sibling
	pos += 8

	dataAddr := uint64(2048)
	for i, start := range chunkStarts {
		gobinary.LittleEndian.PutUint32(file[pos:], chunkElems*elementSize) // chunk size
		pos += 4
		gobinary.LittleEndian.PutUint32(file[pos:], 0) // filter mask
		pos += 4
		gobinary.LittleEndian.PutUint64(file[pos:], start) // offset dim 0
		pos += 8
		gobinary.LittleEndian.PutUint64(file[pos:], 0) // element-size dimension
		pos += 8
		gobinary.LittleEndian.PutUint64(file[pos:], dataAddr) // child: chunk data
		pos += 8

		for j, v := range chunkValues[i] {
			gobinary.LittleEndian.PutUint32(file[int(dataAddr)+j*elementSize:], v)
		}
		dataAddr += chunkElems * elementSize
	}
	// Upper-bound key.
	gobinary.LittleEndian.PutUint32(file[pos:], 0)
	pos += 4
	gobinary.LittleEndian.PutUint32(file[pos:], 0)
	pos += 4
	gobinary.LittleEndian.PutUint64(file[pos:], dims)
	pos += 8
	gobinary.LittleEndian.PutUint64(file[pos:], 0)

	reader := binary.NewReader(file, binary.DefaultConfig())

	chunked := &Chunked{
		layout: &message.DataLayout{
			Class:          message.LayoutChunked,
			ChunkDims:      []uint32{chunkElems, elementSize},
			ChunkIndexAddr: btreeAddr,
		},
		dataspace: &message.Dataspace{
			SpaceType:  message.DataspaceSimple,
			Rank:       1,
			Dimensions: []uint64{dims},
		},
		datatype: &message.Datatype{Class: message.ClassFixedPoint, Size: 4},
		reader:   reader,
	}

	return file, chunked
}

func TestChunkedReadRangeAcrossChunks(t *testing.T) {
	_, chunked := buildChunkedFixture(8,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})

	// Elements 2..5 straddle the chunk boundary.
	got, err := chunked.ReadRange(8, 16)
	require.NoError(t, err)
	require.Len(t, got, 16)

	for i := 0; i < 4; i++ {
		assert.Equal(t, uint32(2+i), gobinary.LittleEndian.Uint32(got[i*4:]), "element %d", i)
	}
}

func TestChunkedReadRangeMatchesFullRead(t *testing.T) {
	_, chunked := buildChunkedFixture(8,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})

	full, err := chunked.Read()
	require.NoError(t, err)

	got, err := chunked.ReadRange(0, uint64(len(full)))
	require.NoError(t, err)
	assert.Equal(t, full, got)
}

func TestChunkedReadRangeFillValue(t *testing.T) {
	// Dataset of 12 elements with only the first two chunks allocated;
	// elements 8..11 take the fill value.
	_, chunked := buildChunkedFixture(12,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})
	chunked.fill = &message.FillValue{
		IsDefined: true,
		Size:      4,
		Value:     []byte{0xDD, 0xCC, 0xBB, 0xAA},
	}

	got, err := chunked.ReadRange(32, 16)
	require.NoError(t, err)
	require.Len(t, got, 16)

	for i := 0; i < 4; i++ {
		assert.Equal(t, uint32(0xAABBCCDD), gobinary.LittleEndian.Uint32(got[i*4:]), "element %d", i)
	}
}

func TestChunkedReadRangeUncoveredZero(t *testing.T) {
	_, chunked := buildChunkedFixture(12,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})

	got, err := chunked.ReadRange(32, 8)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), got)
}

func TestChunkedReadRangeFillSizeMismatch(t *testing.T) {
	_, chunked := buildChunkedFixture(12,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})
	chunked.fill = &message.FillValue{
		IsDefined: true,
		Size:      2,
		Value:     []byte{0xEE, 0xEE},
	}

	_, err := chunked.ReadRange(0, 8)
	assert.ErrorIs(t, err, ErrUnsupportedFill)
}

func TestChunkedReadRangeBeyondDataset(t *testing.T) {
	_, chunked := buildChunkedFixture(8,
		[]uint64{0, 4},
		[][]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}})

	_, err := chunked.ReadRange(24, 16)
	assert.Error(t, err)
}
