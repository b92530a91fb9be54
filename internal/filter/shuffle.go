package filter

import (
	"github.com/veyronix/hdf5/internal/message"
)

// Shuffle implements the byte shuffle filter. On disk a shuffled chunk
// groups byte position j of every element together (all first bytes, then
// all second bytes, ...); decoding scatters them back into whole elements.
type Shuffle struct {
	elemSize int
}

// NewShuffle creates a new shuffle filter.
// Client data: [0] = element size in bytes
func NewShuffle(clientData []uint32) *Shuffle {
	elemSize := 1
	if len(clientData) > 0 && clientData[0] > 0 {
		elemSize = int(clientData[0])
	}
	return &Shuffle{elemSize: elemSize}
}

func (f *Shuffle) ID() uint16 {
	return message.FilterShuffle
}

// Decode reverses the shuffle transformation.
func (f *Shuffle) Decode(input []byte) ([]byte, error) {
	size := f.elemSize
	if size <= 1 {
		return input, nil
	}

	numElems := len(input) / size
	if numElems == 0 {
		return input, nil
	}

	output := make([]byte, len(input))

	// Walk one byte-plane at a time; plane j holds byte j of every
	// element, so it scatters to stride positions in the output.
	for j := 0; j < size; j++ {
		plane := input[j*numElems : (j+1)*numElems]
		for i, b := range plane {
			output[i*size+j] = b
		}
	}

	// Bytes that do not form a whole element are not shuffled on write;
	// carry them through untouched.
	if tail := numElems * size; tail < len(input) {
		copy(output[tail:], input[tail:])
	}

	return output, nil
}

// SetElementSize sets the element size for the shuffle filter.
// This is used when the element size is determined after filter creation.
func (f *Shuffle) SetElementSize(size int) {
	f.elemSize = size
}
