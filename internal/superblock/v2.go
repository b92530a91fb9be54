package superblock

import (
	"io"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// Version 2/3 layout, following the 8-byte signature:
//
//	+0   version, offset size, length size, file consistency flags
//	+4   base address, superblock extension address, EOF address, root
//	     group object header address (offset-sized each)
//	then a 4-byte Jenkins lookup3 checksum over everything from the
//	signature up to it. Versions 2 and 3 share the structure; v3 only
//	defines more consistency flag bits.

// readV2V3 parses the compact version 2/3 superblock and verifies its
// trailing checksum.
func readV2V3(r io.ReaderAt, offset int64) (*Superblock, error) {
	f, err := grab(r, offset, 8, 4)
	if err != nil {
		return nil, err
	}

	sb := &Superblock{}
	f.skip(1) // version, already dispatched on
	sb.OffsetSize = f.u8()
	sb.LengthSize = f.u8()
	sb.FileConsistencyFlags = f.u8()

	osize := int(sb.OffsetSize)
	if osize == 0 || osize > 8 {
		return nil, ErrInvalidSuperblock
	}

	blk, err := grab(r, offset, 12, 4*osize+4)
	if err != nil {
		return nil, err
	}
	sb.BaseAddress = blk.addr(osize)
	sb.SuperblockExtensionAddress = blk.addr(osize)
	sb.EOFAddress = blk.addr(osize)
	sb.RootGroupAddress = blk.addr(osize)

	// The checksum covers the signature through the last address.
	covered, err := grab(r, offset, 0, 12+4*osize)
	if err != nil {
		return nil, err
	}
	stored := uint32(blk.addr(4))
	if binpkg.Lookup3Checksum(covered.buf) != stored {
		return nil, ErrInvalidSuperblock
	}

	return sb, nil
}
