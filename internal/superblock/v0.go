package superblock

import (
	"fmt"
	"io"
)

// Version 0/1 layout, following the 8-byte signature:
//
//	+0   version, free-space version, root STE version, reserved
//	+4   shared header version, offset size, length size, reserved
//	+8   group leaf K (2), group internal K (2)
//	+12  file consistency flags (4)
//	     [v1 only: indexed storage K (2), reserved (2)]
//	then base address, free-space address, EOF address, driver info
//	address (offset-sized each), and the root group symbol table entry:
//	link name offset, object header address, cache type (4), reserved
//	(4), scratch pad (16).
//
// A cache type of 1 means the scratch pad caches the root group's B-tree
// and local heap addresses, saving one object header read per open.

// readV0V1 parses the version 0 and version 1 superblock layouts, which
// differ only in the two extra K-value bytes v1 inserts before the
// address block.
func readV0V1(r io.ReaderAt, offset int64, version uint8) (*Superblock, error) {
	f, err := grab(r, offset, 8, 16)
	if err != nil {
		return nil, err
	}

	sb := &Superblock{}
	f.skip(1) // version, already dispatched on
	sb.FreeSpaceManagerVersion = f.u8()
	f.skip(3) // root STE version, reserved, shared header version
	sb.OffsetSize = f.u8()
	sb.LengthSize = f.u8()
	f.skip(1) // reserved
	sb.GroupLeafNodeK = f.u16()
	sb.GroupInternalNodeK = f.u16()
	// file consistency flags (4 bytes) end the fixed header

	osize := int(sb.OffsetSize)
	if osize == 0 || osize > 8 {
		return nil, fmt.Errorf("%w: offset size %d", ErrInvalidSuperblock, osize)
	}

	body := offset + 24
	if version == 1 {
		k, err := grab(r, offset, 24, 4)
		if err != nil {
			return nil, err
		}
		sb.IndexedStorageK = k.u16()
		body += 4
	}

	// Four addresses, then the root symbol table entry.
	steLen := 2*osize + 4 + 4 + 16
	blk, err := grab(r, body, 0, 4*osize+steLen)
	if err != nil {
		return nil, err
	}

	sb.BaseAddress = blk.addr(osize)
	blk.skip(osize) // free-space info address
	sb.EOFAddress = blk.addr(osize)
	blk.skip(osize) // driver info block address

	// Root group symbol table entry.
	blk.skip(osize) // link name offset, always 0 for the root
	sb.RootGroupAddress = blk.addr(osize)
	sb.RootGroupSymbolTableAddress = uint64(body) + uint64(4*osize)

	cacheType := blk.addr(4)
	blk.skip(4) // reserved
	if cacheType == 1 {
		// Scratch pad caches the root group's own index addresses.
		sb.RootGroupBTreeAddress = blk.addr(osize)
		sb.RootGroupLocalHeapAddress = blk.addr(osize)
	}

	return sb, nil
}
