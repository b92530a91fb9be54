package layout

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFill is returned when uncovered bytes of a ranged chunked
// read need a fill value whose size differs from the element size.
var ErrUnsupportedFill = errors.New("fill value size does not match element size")

// ReadRange returns the byte range [offset, offset+length) of the compact data.
func (c *Compact) ReadRange(offset, length uint64) ([]byte, error) {
	if offset+length > uint64(len(c.data)) {
		return nil, fmt.Errorf("read range [%d, %d) beyond compact data size %d",
			offset, offset+length, len(c.data))
	}
	result := make([]byte, length)
	copy(result, c.data[offset:offset+length])
	return result, nil
}

// ReadRange reads the byte range [offset, offset+length) directly from the
// contiguous block.
func (c *Contiguous) ReadRange(offset, length uint64) ([]byte, error) {
	if c.reader.IsUndefinedOffset(c.address) {
		return nil, fmt.Errorf("contiguous data not allocated")
	}
	if offset+length > c.size {
		return nil, fmt.Errorf("read range [%d, %d) beyond contiguous data size %d",
			offset, offset+length, c.size)
	}
	if length == 0 {
		return []byte{}, nil
	}

	r := c.reader.At(int64(c.address + offset))
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("reading contiguous range: %w", err)
	}
	return data, nil
}

// ReadRange assembles the byte range [offset, offset+length) from the
// chunks whose bounding boxes intersect it. Bytes no allocated chunk
// covers take the fill value when one of element size is defined,
// otherwise zero.
func (c *Chunked) ReadRange(offset, length uint64) ([]byte, error) {
	dims := c.dataspace.Dimensions
	if len(dims) == 0 {
		dims = []uint64{1}
	}

	chunkDims := c.layout.ChunkDims
	if len(chunkDims) == 0 {
		return nil, fmt.Errorf("chunked layout has no chunk dimensions")
	}
	if len(chunkDims) > len(dims) {
		chunkDims = chunkDims[:len(dims)]
	}

	elementSize := uint64(c.datatype.Size)
	totalSize := calculateDataSize(c.dataspace, c.datatype)
	if offset+length > totalSize {
		return nil, fmt.Errorf("read range [%d, %d) beyond dataset size %d",
			offset, offset+length, totalSize)
	}
	if length == 0 {
		return []byte{}, nil
	}

	output := make([]byte, length)
	if err := c.prefill(output, elementSize); err != nil {
		return nil, err
	}

	chunkElements := uint64(1)
	for _, d := range chunkDims {
		chunkElements *= uint64(d)
	}
	chunkSizeBytes := chunkElements * elementSize

	indexType, err := c.detectChunkIndexType()
	if err != nil {
		return nil, fmt.Errorf("detecting chunk index type: %w", err)
	}

	end := offset + length

	if indexType == "single" {
		data, err := c.readSingleChunk(totalSize)
		if err != nil {
			return nil, err
		}
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("single chunk shorter than requested range")
		}
		copy(output, data[offset:end])
		return output, nil
	}

	entries, err := c.collectEntries(indexType, dims, chunkDims, chunkSizeBytes)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !chunkIntersectsRange(entry.Offset, dims, chunkDims, elementSize, offset, end) {
			continue
		}

		chunkData, err := c.readChunkData(entry)
		if err != nil {
			return nil, fmt.Errorf("reading chunk at offset %v: %w", entry.Offset, err)
		}

		if c.pipeline != nil && !c.pipeline.Empty() {
			chunkData, err = c.pipeline.Decode(chunkData, entry.FilterMask)
			if err != nil {
				return nil, fmt.Errorf("decoding chunk at offset %v: %w", entry.Offset, err)
			}
		}

		err = c.copyChunkToRange(output, chunkData, entry.Offset, dims, chunkDims, elementSize, offset, end)
		if err != nil {
			return nil, fmt.Errorf("copying chunk at offset %v: %w", entry.Offset, err)
		}
	}

	return output, nil
}

// prefill initializes a ranged output buffer with the dataset's fill value,
// or leaves it zeroed when none is defined.
func (c *Chunked) prefill(output []byte, elementSize uint64) error {
	if c.fill == nil || !c.fill.IsDefined || len(c.fill.Value) == 0 {
		return nil
	}
	if uint64(len(c.fill.Value)) != elementSize {
		return fmt.Errorf("%w: fill %d bytes, element %d bytes",
			ErrUnsupportedFill, len(c.fill.Value), elementSize)
	}

	// The range is element aligned by contract, so the fill pattern tiles
	// from the start of the buffer.
	for pos := 0; pos < len(output); pos += int(elementSize) {
		copy(output[pos:], c.fill.Value)
	}
	return nil
}

// chunkIntersectsRange reports whether any byte of the chunk's bounding box
// can fall inside [start, end) of the flattened dataset. The test uses the
// chunk's minimum and maximum linear positions, which bound every element
// it holds.
func chunkIntersectsRange(chunkOffset, dims []uint64, chunkDims []uint32, elementSize, start, end uint64) bool {
	ndims := len(dims)

	strides := make([]uint64, ndims)
	strides[ndims-1] = 1
	for d := ndims - 2; d >= 0; d-- {
		strides[d] = strides[d+1] * dims[d+1]
	}

	var minLinear, maxLinear uint64
	for d := 0; d < ndims; d++ {
		if d >= len(chunkOffset) {
			return false
		}
		last := chunkOffset[d] + uint64(chunkDims[d]) - 1
		if last >= dims[d] {
			last = dims[d] - 1
		}
		minLinear += chunkOffset[d] * strides[d]
		maxLinear += last * strides[d]
	}

	chunkStart := minLinear * elementSize
	chunkEnd := (maxLinear + 1) * elementSize
	return chunkStart < end && chunkEnd > start
}

// copyChunkToRange copies the elements of a decoded chunk that fall inside
// [start, end) into output, where output[0] corresponds to dataset byte
// position start.
func (c *Chunked) copyChunkToRange(
	output []byte,
	chunkData []byte,
	chunkOffset []uint64,
	dims []uint64,
	chunkDims []uint32,
	elementSize uint64,
	start, end uint64,
) error {
	ndims := len(dims)

	// Clip the chunk shape at the dataset boundary.
	actualChunkDims := make([]uint64, ndims)
	for d := 0; d < ndims; d++ {
		actualChunkDims[d] = uint64(chunkDims[d])
		if chunkOffset[d]+actualChunkDims[d] > dims[d] {
			actualChunkDims[d] = dims[d] - chunkOffset[d]
		}
	}

	outputStrides := make([]uint64, ndims)
	outputStrides[ndims-1] = elementSize
	for d := ndims - 2; d >= 0; d-- {
		outputStrides[d] = outputStrides[d+1] * dims[d+1]
	}

	chunkStrides := make([]uint64, ndims)
	chunkStrides[ndims-1] = elementSize
	for d := ndims - 2; d >= 0; d-- {
		chunkStrides[d] = chunkStrides[d+1] * uint64(chunkDims[d+1])
	}

	return copyRowsInRange(output, chunkData, chunkOffset, actualChunkDims,
		outputStrides, chunkStrides, 0, 0, 0, ndims, start, end)
}

// copyRowsInRange walks the chunk's rows in row-major order and copies the
// portion of each innermost run that overlaps the window.
func copyRowsInRange(
	output []byte,
	chunkData []byte,
	chunkOffset []uint64,
	actualChunkDims []uint64,
	outputStrides []uint64,
	chunkStrides []uint64,
	outputIdx uint64,
	chunkIdx uint64,
	dim int,
	ndims int,
	start, end uint64,
) error {
	if dim == ndims-1 {
		rowBytes := actualChunkDims[dim] * outputStrides[dim]
		rowStart := outputIdx + chunkOffset[dim]*outputStrides[dim]
		rowEnd := rowStart + rowBytes

		// Intersect the row's linear span with the requested window.
		copyStart := rowStart
		if copyStart < start {
			copyStart = start
		}
		copyEnd := rowEnd
		if copyEnd > end {
			copyEnd = end
		}
		if copyStart >= copyEnd {
			return nil
		}

		srcStart := chunkIdx + (copyStart - rowStart)
		if srcStart+(copyEnd-copyStart) > uint64(len(chunkData)) {
			return fmt.Errorf("chunk data shorter than expected")
		}
		copy(output[copyStart-start:copyEnd-start], chunkData[srcStart:srcStart+(copyEnd-copyStart)])
		return nil
	}

	for i := uint64(0); i < actualChunkDims[dim]; i++ {
		newOutputIdx := outputIdx + (chunkOffset[dim]+i)*outputStrides[dim]
		newChunkIdx := chunkIdx + i*chunkStrides[dim]

		err := copyRowsInRange(output, chunkData, chunkOffset, actualChunkDims,
			outputStrides, chunkStrides, newOutputIdx, newChunkIdx, dim+1, ndims, start, end)
		if err != nil {
			return err
		}
	}

	return nil
}
