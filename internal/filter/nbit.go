package filter

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/message"
)

// NBit implements the N-bit unpacking filter for atomic integer data.
// On write the filter strips the unused bits of each element and packs
// the significant field into a continuous bitstream; decoding expands the
// stream back to full-width elements with the field restored at its
// declared bit offset.
//
// Client data: [0] = version, [1] = element size in bytes,
// [2] = field precision in bits, [3] = field offset in bits.
type NBit struct {
	elemSize  int
	precision int
	offset    int
}

// NewNBit creates an N-bit filter from its client data.
func NewNBit(clientData []uint32) *NBit {
	f := &NBit{elemSize: 1, precision: 8, offset: 0}
	if len(clientData) > 1 && clientData[1] > 0 {
		f.elemSize = int(clientData[1])
	}
	if len(clientData) > 2 && clientData[2] > 0 {
		f.precision = int(clientData[2])
	}
	if len(clientData) > 3 {
		f.offset = int(clientData[3])
	}
	return f
}

func (f *NBit) ID() uint16 {
	return message.FilterNBit
}

// Decode unpacks the bit-aligned fields into full-width elements.
func (f *NBit) Decode(input []byte) ([]byte, error) {
	if f.elemSize <= 0 || f.elemSize > 8 {
		return nil, fmt.Errorf("nbit: invalid element size %d", f.elemSize)
	}
	if f.precision <= 0 || f.offset < 0 || f.precision+f.offset > f.elemSize*8 {
		return nil, fmt.Errorf("nbit: precision %d + offset %d exceeds element width %d bits",
			f.precision, f.offset, f.elemSize*8)
	}

	// The packed stream carries precision bits per element; everything
	// present must decode, so the element count comes from the input size.
	numElems := (len(input) * 8) / f.precision
	output := make([]byte, numElems*f.elemSize)

	br := bitReader{data: input}
	for i := 0; i < numElems; i++ {
		val := br.read(f.precision) << f.offset
		for j := 0; j < f.elemSize; j++ {
			output[i*f.elemSize+j] = byte(val >> (8 * j))
		}
	}

	return output, nil
}

// bitReader consumes a little-endian bitstream: bits fill each byte from
// the least significant position upward.
type bitReader struct {
	data []byte
	pos  int // bit position
}

func (br *bitReader) read(n int) uint64 {
	var val uint64
	for i := 0; i < n; i++ {
		byteIdx := br.pos >> 3
		bitIdx := br.pos & 7
		if byteIdx < len(br.data) && br.data[byteIdx]&(1<<bitIdx) != 0 {
			val |= 1 << i
		}
		br.pos++
	}
	return val
}
