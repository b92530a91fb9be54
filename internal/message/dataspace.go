package message

import (
	"encoding/binary"
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// DataspaceType represents the type of dataspace.
type DataspaceType uint8

const (
	DataspaceScalar DataspaceType = 0 // Single element
	DataspaceSimple DataspaceType = 1 // Regular N-dimensional array
	DataspaceNull   DataspaceType = 2 // No data
)

// Dataspace represents a dataspace message (type 0x0001).
type Dataspace struct {
	Version    uint8
	Rank       int
	SpaceType  DataspaceType
	Dimensions []uint64
	MaxDims    []uint64 // nil if not present (means same as Dimensions)
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NumElements returns the total number of elements in the dataspace.
func (m *Dataspace) NumElements() uint64 {
	switch m.SpaceType {
	case DataspaceNull:
		return 0
	case DataspaceScalar:
		return 1
	case DataspaceSimple:
		if len(m.Dimensions) == 0 {
			return 0
		}
		n := uint64(1)
		for _, d := range m.Dimensions {
			n *= d
		}
		return n
	default:
		return 0
	}
}

// IsScalar returns true if this is a scalar dataspace.
func (m *Dataspace) IsScalar() bool {
	return m.SpaceType == DataspaceScalar
}

// IsNull returns true if this is a null dataspace.
func (m *Dataspace) IsNull() bool {
	return m.SpaceType == DataspaceNull
}

func parseDataspace(data []byte, r *binpkg.Reader) (*Dataspace, error) {
	c := newCursor(data, r)

	ds := &Dataspace{
		Version: c.u8("version"),
		Rank:    int(c.u8("rank")),
	}
	flags := c.u8("flags")

	// Version 1 pads the header to 8 bytes and has no explicit type; the
	// type is implied by the rank. Version 2 carries it in the 4th byte.
	if ds.Version >= 2 {
		ds.SpaceType = DataspaceType(c.u8("space type"))
	} else {
		c.skip(5)
		ds.SpaceType = DataspaceSimple
		if ds.Rank == 0 {
			ds.SpaceType = DataspaceScalar
		}
	}
	if c.err != nil {
		return nil, fmt.Errorf("dataspace message: %w", c.err)
	}

	if ds.SpaceType != DataspaceSimple || ds.Rank == 0 {
		return ds, nil
	}

	ds.Dimensions = make([]uint64, ds.Rank)
	for i := range ds.Dimensions {
		ds.Dimensions[i] = c.length("dimension")
	}

	if flags&0x01 != 0 {
		ds.MaxDims = make([]uint64, ds.Rank)
		for i := range ds.MaxDims {
			ds.MaxDims[i] = c.length("max dimension")
		}
	}

	if c.err != nil {
		return nil, fmt.Errorf("dataspace message: %w", c.err)
	}
	return ds, nil
}

// decodeUint decodes a variable-width unsigned integer.
func decodeUint(buf []byte, size int, order binary.ByteOrder) uint64 {
	switch size {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	default:
		var val uint64
		for i := size - 1; i >= 0; i-- {
			val = (val << 8) | uint64(buf[i])
		}
		return val
	}
}
