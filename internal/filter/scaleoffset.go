package filter

import (
	"encoding/binary"
	"fmt"

	"github.com/veyronix/hdf5/internal/message"
)

// scaleOffsetHeaderSize is the fixed header each encoded chunk carries:
// minbits (4), minval width (4), minval (8), padding (5).
const scaleOffsetHeaderSize = 21

// ScaleOffset implements the scale-offset filter for integer data. The
// encoder subtracts the chunk minimum from every value and stores the
// differences packed at the smallest bit width that fits; decoding unpacks
// each field and adds the minimum back. A field of all one-bits is the
// sentinel for an element that held the fill value.
//
// Client data: [0] = scale type, [1] = scale factor, [2] = elements per
// chunk, [3] = datatype class, [4] = element size in bytes, [5] = sign,
// [6] = fill value (optional, restored for sentinel fields).
type ScaleOffset struct {
	numElems int
	elemSize int
	fill     uint64
	hasFill  bool
}

// NewScaleOffset creates a scale-offset filter from its client data.
func NewScaleOffset(clientData []uint32) *ScaleOffset {
	f := &ScaleOffset{elemSize: 4}
	if len(clientData) > 2 {
		f.numElems = int(clientData[2])
	}
	if len(clientData) > 4 && clientData[4] > 0 {
		f.elemSize = int(clientData[4])
	}
	if len(clientData) > 6 {
		f.fill = uint64(clientData[6])
		f.hasFill = true
	}
	return f
}

func (f *ScaleOffset) ID() uint16 {
	return message.FilterScaleOffset
}

// Decode unpacks the minimum-relative fields and restores full values.
func (f *ScaleOffset) Decode(input []byte) ([]byte, error) {
	if len(input) < scaleOffsetHeaderSize {
		return nil, fmt.Errorf("scaleoffset: input too short for header (%d bytes)", len(input))
	}
	if f.elemSize <= 0 || f.elemSize > 8 {
		return nil, fmt.Errorf("scaleoffset: invalid element size %d", f.elemSize)
	}

	minbits := int(binary.LittleEndian.Uint32(input[0:4]))
	minvalWidth := int(binary.LittleEndian.Uint32(input[4:8]))
	if minvalWidth != 8 {
		return nil, fmt.Errorf("scaleoffset: unexpected minimum value width %d", minvalWidth)
	}
	minval := binary.LittleEndian.Uint64(input[8:16])
	packed := input[scaleOffsetHeaderSize:]

	if minbits > f.elemSize*8 {
		return nil, fmt.Errorf("scaleoffset: minbits %d exceeds element width %d bits", minbits, f.elemSize*8)
	}

	numElems := f.numElems
	if numElems == 0 && minbits > 0 {
		numElems = (len(packed) * 8) / minbits
	}

	output := make([]byte, numElems*f.elemSize)
	sentinel := uint64(0)
	if minbits > 0 && minbits < 64 {
		sentinel = (1 << minbits) - 1
	}

	br := bitReader{data: packed}
	for i := 0; i < numElems; i++ {
		var val uint64
		if minbits == 0 {
			// Every element in the chunk equals the minimum.
			val = minval
		} else {
			field := br.read(minbits)
			if f.hasFill && field == sentinel {
				val = f.fill
			} else {
				val = field + minval
			}
		}
		for j := 0; j < f.elemSize; j++ {
			output[i*f.elemSize+j] = byte(val >> (8 * j))
		}
	}

	return output, nil
}
