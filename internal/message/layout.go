package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// LayoutClass represents the storage layout class.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0 // Data stored in object header
	LayoutContiguous LayoutClass = 1 // Data in single contiguous block
	LayoutChunked    LayoutClass = 2 // Data in indexed chunks
	LayoutVirtual    LayoutClass = 3 // Virtual dataset (v4+)
)

// ChunkIndexType represents the type of chunk index used in v3/v4 layouts.
type ChunkIndexType uint8

const (
	ChunkIndexSingleChunk     ChunkIndexType = 0 // Single chunk (no index needed)
	ChunkIndexImplicit        ChunkIndexType = 1 // Implicit (contiguous chunks)
	ChunkIndexFixedArray      ChunkIndexType = 2 // Fixed array
	ChunkIndexExtensibleArray ChunkIndexType = 3 // Extensible array
	ChunkIndexBTreeV2         ChunkIndexType = 4 // B-tree v2
)

// DataLayout represents a data layout message (type 0x0008).
type DataLayout struct {
	Version uint8
	Class   LayoutClass

	// Compact layout: data is stored directly
	CompactData []byte

	// Contiguous layout
	Address uint64 // Address of data
	Size    uint64 // Size of data in bytes

	// Chunked layout
	ChunkDims      []uint32       // Size of each chunk dimension
	ChunkIndexAddr uint64         // Address of B-tree (v1/v2) or chunk index
	ChunkIndexType ChunkIndexType // Type of chunk index (v3/v4 only)

	// Chunked layout v3+ additional fields
	ChunkFlags         uint8
	DimensionSizeBytes uint8 // Size of each dimension entry

	// Filtered chunk info (v4)
	FilteredChunkSize uint32
}

func (m *DataLayout) Type() Type { return TypeDataLayout }

// IsCompact returns true if data is stored in the object header.
func (m *DataLayout) IsCompact() bool {
	return m.Class == LayoutCompact
}

// IsContiguous returns true if data is stored contiguously.
func (m *DataLayout) IsContiguous() bool {
	return m.Class == LayoutContiguous
}

// IsChunked returns true if data is stored in chunks.
func (m *DataLayout) IsChunked() bool {
	return m.Class == LayoutChunked
}

func parseDataLayout(data []byte, r *binpkg.Reader) (*DataLayout, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data layout message too short")
	}

	layout := &DataLayout{Version: data[0]}
	c := newCursor(data, r)
	c.skip(1)

	var err error
	switch layout.Version {
	case 1, 2:
		err = layout.decodeV1V2(c)
	case 3, 4:
		err = layout.decodeV3V4(c)
	default:
		return nil, fmt.Errorf("unsupported data layout version: %d", layout.Version)
	}
	if err != nil {
		return nil, err
	}
	return layout, nil
}

// decodeV1V2 reads the old layout form: the dimensionality comes before
// the class, and chunk dimensions are fixed 4-byte fields.
func (m *DataLayout) decodeV1V2(c *cursor) error {
	ndims := int(c.u8("dimensionality"))
	m.Class = LayoutClass(c.u8("layout class"))
	c.skip(1) // reserved

	switch m.Class {
	case LayoutCompact:
		size := c.u32("compact size")
		m.CompactData = append([]byte(nil), c.take(int(size), "compact data")...)

	case LayoutContiguous:
		m.Address = c.offset("data address")
		m.Size = c.length("data size")

	case LayoutChunked:
		m.ChunkIndexAddr = c.offset("chunk index address")
		m.ChunkDims = make([]uint32, ndims)
		for i := 0; i < ndims && c.remaining() >= 4; i++ {
			m.ChunkDims[i] = c.u32("chunk dimension")
		}
	}

	if c.err != nil {
		return fmt.Errorf("data layout v%d: %w", m.Version, c.err)
	}
	return nil
}

// decodeV3V4 reads the tagged form: a class byte followed by a
// class-specific body. Version 4 reuses the v3 body shapes.
func (m *DataLayout) decodeV3V4(c *cursor) error {
	m.Class = LayoutClass(c.u8("layout class"))

	switch m.Class {
	case LayoutCompact:
		size := c.u16("compact size")
		m.CompactData = append([]byte(nil), c.take(int(size), "compact data")...)

	case LayoutContiguous:
		m.Address = c.offset("data address")
		m.Size = c.length("data size")

	case LayoutChunked:
		m.ChunkFlags = c.u8("chunk flags")
		m.ChunkIndexType = ChunkIndexType(m.ChunkFlags & 0x0F)
		ndims := int(c.u8("dimensionality"))
		m.DimensionSizeBytes = c.u8("dimension size width")

		dimSize := int(m.DimensionSizeBytes)
		m.ChunkDims = make([]uint32, ndims)
		for i := 0; i < ndims && c.remaining() >= dimSize; i++ {
			m.ChunkDims[i] = uint32(c.uintN(dimSize, "chunk dimension"))
		}

		// The chunk index address sits at the tail of the message; any
		// index-type parameters live between the dimensions and it.
		if tail := len(c.buf) - c.offsetSize; tail >= c.pos {
			c.pos = tail
			m.ChunkIndexAddr = c.offset("chunk index address")
		} else if c.remaining() >= c.offsetSize {
			m.ChunkIndexAddr = c.offset("chunk index address")
		}
	}

	if c.err != nil {
		return fmt.Errorf("data layout v%d: %w", m.Version, c.err)
	}
	return nil
}
