package layout

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/message"
)

// Compact represents compact storage layout.
// Data is stored directly in the object header.
type Compact struct {
	data      []byte
	dataspace *message.Dataspace
	datatype  *message.Datatype
}

// NewCompact creates a new compact layout handler.
func NewCompact(layout *message.DataLayout, dataspace *message.Dataspace, datatype *message.Datatype) *Compact {
	return &Compact{
		data:      layout.CompactData,
		dataspace: dataspace,
		datatype:  datatype,
	}
}

func (c *Compact) Class() message.LayoutClass {
	return message.LayoutCompact
}

// Read returns the compact data stored in the object header.
func (c *Compact) Read() ([]byte, error) {
	// Data is already available - just return a copy
	result := make([]byte, len(c.data))
	copy(result, c.data)
	return result, nil
}

// Size returns the size of the compact data.
func (c *Compact) Size() int {
	return len(c.data)
}

// ReadSlice reads a hyperslab from compact storage.
func (c *Compact) ReadSlice(start, count []uint64) ([]byte, error) {
	dims := c.dataspace.Dimensions
	if len(dims) == 0 {
		// Scalar dataset
		if len(start) == 0 && len(count) == 0 {
			result := make([]byte, len(c.data))
			copy(result, c.data)
			return result, nil
		}
		return nil, fmt.Errorf("cannot slice scalar dataset with non-empty start/count")
	}

	if len(start) != len(dims) || len(count) != len(dims) {
		return nil, fmt.Errorf("start and count must have %d dimensions, got %d and %d",
			len(dims), len(start), len(count))
	}

	// Validate bounds
	for d := 0; d < len(dims); d++ {
		if start[d]+count[d] > dims[d] {
			return nil, fmt.Errorf("slice out of bounds: dimension %d, start=%d, count=%d, size=%d",
				d, start[d], count[d], dims[d])
		}
	}

	elementSize := uint64(c.datatype.Size)
	return extractHyperslab(c.data, dims, start, count, elementSize)
}

// extractHyperslab copies the row-major hyperslab [start, start+count) out
// of a fully materialized buffer.
func extractHyperslab(data []byte, dims, start, count []uint64, elementSize uint64) ([]byte, error) {
	ndims := len(dims)

	strides := make([]uint64, ndims)
	strides[ndims-1] = elementSize
	for d := ndims - 2; d >= 0; d-- {
		strides[d] = strides[d+1] * dims[d+1]
	}

	total := elementSize
	for _, cnt := range count {
		total *= cnt
	}
	out := make([]byte, 0, total)

	// Odometer over every dimension but the last; each position yields one
	// contiguous run along the innermost dimension.
	idx := make([]uint64, ndims)
	rowBytes := count[ndims-1] * elementSize
	for {
		var pos uint64
		for d := 0; d < ndims-1; d++ {
			pos += (start[d] + idx[d]) * strides[d]
		}
		pos += start[ndims-1] * elementSize

		if pos+rowBytes > uint64(len(data)) {
			return nil, fmt.Errorf("hyperslab run at byte %d exceeds data size %d", pos, len(data))
		}
		out = append(out, data[pos:pos+rowBytes]...)

		d := ndims - 2
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < count[d] {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			break
		}
	}

	return out, nil
}
