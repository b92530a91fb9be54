package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// LinkInfo represents a link info message (type 0x0002).
// Groups that store their links densely (rather than as inline Link
// messages) carry one of these pointing at the fractal heap and B-tree v2
// indices that hold the actual link records.
type LinkInfo struct {
	Version                uint8
	Flags                  uint8
	MaxCreationIndex       uint64 // Present if flag bit 0 set
	FractalHeapAddr        uint64 // Always present
	NameIndexBTreeAddr     uint64 // Always present
	CreationOrderBTreeAddr uint64 // Present if flag bit 1 set
}

func (m *LinkInfo) Type() Type { return TypeLinkInfo }

// UndefinedAddress is the HDF5 undefined address value.
const UndefinedAddress = ^uint64(0)

// TracksCreationOrder reports whether the creation order of the group's
// links is tracked (flag bit 0).
func (m *LinkInfo) TracksCreationOrder() bool {
	return m.Flags&0x01 != 0
}

// HasFractalHeap reports whether this group stores its links densely.
// Dense storage is signaled by a defined fractal heap address; the flag
// bits only describe creation-order tracking.
func (m *LinkInfo) HasFractalHeap() bool {
	return m.FractalHeapAddr != UndefinedAddress && m.FractalHeapAddr != 0
}

func parseLinkInfo(data []byte, r *binpkg.Reader) (*LinkInfo, error) {
	c := newCursor(data, r)

	m := &LinkInfo{
		Version: c.u8("version"),
		Flags:   c.u8("flags"),
	}

	if m.Flags&0x01 != 0 {
		m.MaxCreationIndex = c.u64("max creation index")
	}

	m.FractalHeapAddr = c.offset("fractal heap address")
	m.NameIndexBTreeAddr = c.offset("name index B-tree address")

	// Creation-order index address is present when bit 1 (indexed) is set.
	if m.Flags&0x02 != 0 {
		m.CreationOrderBTreeAddr = c.offset("creation order B-tree address")
	}

	if c.err != nil {
		return nil, fmt.Errorf("link info message: %w", c.err)
	}
	return m, nil
}
