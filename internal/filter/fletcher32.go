package filter

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/message"
)

// Fletcher32Filter verifies the Fletcher-32 checksum a writing library
// appended to the chunk. Decoding strips the trailing four checksum bytes
// after they match; a mismatch fails the chunk read.
type Fletcher32Filter struct{}

// NewFletcher32 creates a new Fletcher-32 filter.
func NewFletcher32(clientData []uint32) *Fletcher32Filter {
	return &Fletcher32Filter{}
}

func (f *Fletcher32Filter) ID() uint16 {
	return message.FilterFletcher32
}

// Decode verifies and strips the trailing checksum.
func (f *Fletcher32Filter) Decode(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("fletcher32: input too short for checksum")
	}

	payload := input[:len(input)-4]
	trailer := input[len(input)-4:]

	// The checksum trailer is little-endian regardless of the data.
	stored := uint32(trailer[0]) | uint32(trailer[1])<<8 |
		uint32(trailer[2])<<16 | uint32(trailer[3])<<24

	if computed := binpkg.Fletcher32(payload); stored != computed {
		return nil, fmt.Errorf("%w: fletcher32 (stored=0x%08x, computed=0x%08x)",
			binpkg.ErrChecksumMismatch, stored, computed)
	}

	return payload, nil
}
