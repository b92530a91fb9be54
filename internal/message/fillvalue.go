package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// FillValueStatus indicates when fill values are written.
type FillValueStatus uint8

const (
	FillUndefined   FillValueStatus = 0
	FillDefault     FillValueStatus = 1
	FillUserDefined FillValueStatus = 2
)

// FillValue represents a fill value message (type 0x0005).
type FillValue struct {
	Version        uint8
	SpaceAllocTime uint8
	FillWriteTime  uint8
	IsDefined      bool
	Size           uint32
	Value          []byte
}

func (m *FillValue) Type() Type { return TypeFillValue }

func parseFillValue(data []byte, r *binpkg.Reader) (*FillValue, error) {
	c := newCursor(data, r)
	fv := &FillValue{Version: c.u8("version")}

	switch fv.Version {
	case 1, 2:
		// Explicit alloc-time / write-time / defined bytes, then an
		// optional sized value.
		fv.SpaceAllocTime = c.u8("space allocation time")
		fv.FillWriteTime = c.u8("fill write time")
		fv.IsDefined = c.u8("defined flag") != 0
		if c.err != nil {
			return nil, fmt.Errorf("fill value v%d: %w", fv.Version, c.err)
		}
		if fv.IsDefined && c.remaining() >= 4 {
			fv.Size = c.u32("fill value size")
			if c.remaining() >= int(fv.Size) {
				fv.Value = append([]byte(nil), c.take(int(fv.Size), "fill value")...)
			}
		}

	case 3:
		// Times and definedness packed into one flags byte; bit 5 says
		// whether a value follows (bit 4 set means undefined).
		flags := c.u8("flags")
		fv.SpaceAllocTime = flags & 0x03
		fv.FillWriteTime = (flags >> 2) & 0x03
		fv.IsDefined = flags&0x10 == 0
		if fv.IsDefined && flags&0x20 != 0 {
			fv.Size = c.u32("fill value size")
			fv.Value = append([]byte(nil), c.take(int(fv.Size), "fill value")...)
		}
		if c.err != nil {
			return nil, fmt.Errorf("fill value v3: %w", c.err)
		}

	default:
		return nil, fmt.Errorf("unsupported fill value version: %d", fv.Version)
	}

	return fv, nil
}
