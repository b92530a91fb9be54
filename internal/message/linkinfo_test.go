package message

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeLinkInfo(flags uint8, maxCorder uint64, heapAddr, nameIdx, corderIdx uint64) []byte {
	buf := []byte{0, flags}
	var b8 [8]byte
	if flags&0x01 != 0 {
		binary.LittleEndian.PutUint64(b8[:], maxCorder)
		buf = append(buf, b8[:]...)
	}
	binary.LittleEndian.PutUint64(b8[:], heapAddr)
	buf = append(buf, b8[:]...)
	binary.LittleEndian.PutUint64(b8[:], nameIdx)
	buf = append(buf, b8[:]...)
	if flags&0x02 != 0 {
		binary.LittleEndian.PutUint64(b8[:], corderIdx)
		buf = append(buf, b8[:]...)
	}
	return buf
}

func TestParseLinkInfoDense(t *testing.T) {
	data := encodeLinkInfo(0, 0, 0x1000, 0x2000, 0)

	m, err := parseLinkInfo(data, mockReader())
	require.NoError(t, err)

	assert.Equal(t, uint64(0x1000), m.FractalHeapAddr)
	assert.Equal(t, uint64(0x2000), m.NameIndexBTreeAddr)
	assert.True(t, m.HasFractalHeap())
	assert.False(t, m.TracksCreationOrder())
}

func TestParseLinkInfoUndefinedHeap(t *testing.T) {
	data := encodeLinkInfo(0, 0, UndefinedAddress, UndefinedAddress, 0)

	m, err := parseLinkInfo(data, mockReader())
	require.NoError(t, err)
	assert.False(t, m.HasFractalHeap())
}

func TestParseLinkInfoCreationOrder(t *testing.T) {
	data := encodeLinkInfo(0x03, 42, 0x1000, 0x2000, 0x3000)

	m, err := parseLinkInfo(data, mockReader())
	require.NoError(t, err)

	assert.True(t, m.TracksCreationOrder())
	assert.Equal(t, uint64(42), m.MaxCreationIndex)
	assert.Equal(t, uint64(0x3000), m.CreationOrderBTreeAddr)
}

func TestParseLinkInfoTruncated(t *testing.T) {
	_, err := parseLinkInfo([]byte{0}, mockReader())
	assert.Error(t, err)

	_, err = parseLinkInfo([]byte{0, 0, 1, 2, 3}, mockReader())
	assert.Error(t, err)
}

func TestParseLinkHardDense(t *testing.T) {
	// A hard link serialized the way dense storage stores it: version,
	// flags (link type present), type, 1-byte name length, name, address.
	data := []byte{1, 0x08, 0, 4, 'd', 'a', 't', 'a'}
	var b8 [8]byte
	binary.LittleEndian.PutUint64(b8[:], 0x4200)
	data = append(data, b8[:]...)

	link, err := ParseLink(data, mockReader())
	require.NoError(t, err)

	assert.True(t, link.IsHard())
	assert.Equal(t, "data", link.Name)
	assert.Equal(t, uint64(0x4200), link.ObjectAddress)
}
