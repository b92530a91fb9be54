package btree

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// B-tree v2 types for chunked storage
const (
	// BTreeV2TypeChunkNoFilter is type 10: Chunk records without filter info
	BTreeV2TypeChunkNoFilter uint8 = 10
	// BTreeV2TypeChunkWithFilter is type 11: Chunk records with filter info
	BTreeV2TypeChunkWithFilter uint8 = 11
)

// ReadChunkIndexV2 reads a v2 B-tree chunk index.
// ndims is the number of dataset dimensions.
func ReadChunkIndexV2(r *binary.Reader, btreeAddr uint64, ndims int) (*ChunkIndex, error) {
	header, err := readBTreeV2Header(r, btreeAddr, func(t uint8) error {
		if t != BTreeV2TypeChunkNoFilter && t != BTreeV2TypeChunkWithFilter {
			return fmt.Errorf("unexpected B-tree v2 type: %d (expected 10 or 11 for chunks)", t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	index := &ChunkIndex{NDims: ndims}
	hasFilter := header.Type == BTreeV2TypeChunkWithFilter

	// Chunk records live in the leaves; internal node records only
	// partition the key space and are skipped.
	err = walkBTreeV2(r, header, false, func(nr *binary.Reader) error {
		entry, err := readChunkRecord(nr, ndims, hasFilter, r.OffsetSize())
		if err != nil {
			return err
		}
		if entry.Address != 0 && !r.IsUndefinedOffset(entry.Address) {
			index.Entries = append(index.Entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return index, nil
}

// readChunkRecord reads a single chunk record.
// For type 10 (no filter): scaled offsets + address
// For type 11 (with filter): address + chunk size + filter mask + scaled offsets
func readChunkRecord(nr *binary.Reader, ndims int, hasFilter bool, offsetSize int) (ChunkEntry, error) {
	var entry ChunkEntry
	var err error

	if hasFilter {
		if entry.Address, err = nr.ReadOffset(); err != nil {
			return entry, err
		}

		// Chunk size is stored as a 1-byte width followed by that many
		// little-endian bytes.
		sizeLen, err := nr.ReadUint8()
		if err != nil {
			return entry, err
		}
		if sizeLen > 0 {
			size, err := nr.ReadUintN(int(sizeLen))
			if err != nil {
				return entry, err
			}
			entry.Size = uint32(size)
		}

		if entry.FilterMask, err = nr.ReadUint32(); err != nil {
			return entry, err
		}

		entry.Offset = make([]uint64, ndims)
		for d := range entry.Offset {
			if entry.Offset[d], err = nr.ReadUint64(); err != nil {
				return entry, err
			}
		}
		return entry, nil
	}

	// Type 10: scaled offsets, then the address. The on-disk size is not
	// recorded; the caller substitutes the full chunk size.
	entry.Offset = make([]uint64, ndims)
	for d := range entry.Offset {
		if entry.Offset[d], err = nr.ReadUint64(); err != nil {
			return entry, err
		}
	}
	if entry.Address, err = nr.ReadOffset(); err != nil {
		return entry, err
	}

	return entry, nil
}
