package message

import (
	"encoding/binary"
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// cursor steps through a message body. It carries the byte order and
// offset/length widths the superblock dictates, tracks the read position,
// and latches the first fault; reads after a fault return zero values so
// a decoder checks the error once, at the end.
type cursor struct {
	buf        []byte
	pos        int
	order      binary.ByteOrder
	offsetSize int
	lengthSize int
	err        error
}

func newCursor(data []byte, r *binpkg.Reader) *cursor {
	c := &cursor{
		buf:        data,
		order:      r.ByteOrder(),
		offsetSize: r.OffsetSize(),
		lengthSize: r.LengthSize(),
	}
	if c.lengthSize == 0 {
		c.lengthSize = 8
	}
	return c
}

// fail latches the first fault, recording the position it happened at.
func (c *cursor) fail(what string) {
	if c.err == nil {
		c.err = fmt.Errorf("truncated at byte %d: %s", c.pos, what)
	}
}

// take claims n bytes, or latches a fault naming what was wanted.
func (c *cursor) take(n int, what string) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > len(c.buf) {
		c.fail(what)
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) u8(what string) uint8 {
	b := c.take(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) u16(what string) uint16 {
	b := c.take(2, what)
	if b == nil {
		return 0
	}
	return c.order.Uint16(b)
}

func (c *cursor) u32(what string) uint32 {
	b := c.take(4, what)
	if b == nil {
		return 0
	}
	return c.order.Uint32(b)
}

func (c *cursor) u64(what string) uint64 {
	b := c.take(8, what)
	if b == nil {
		return 0
	}
	return c.order.Uint64(b)
}

// uintN reads an n-byte unsigned integer for the superblock-scoped widths.
func (c *cursor) uintN(n int, what string) uint64 {
	b := c.take(n, what)
	if b == nil {
		return 0
	}
	return decodeUint(b, n, c.order)
}

// offset reads a file address at the superblock's offset width.
func (c *cursor) offset(what string) uint64 {
	return c.uintN(c.offsetSize, what)
}

// length reads a length at the superblock's length width.
func (c *cursor) length(what string) uint64 {
	return c.uintN(c.lengthSize, what)
}

// name reads n bytes holding a possibly NUL-terminated name.
func (c *cursor) name(n int, what string) string {
	b := c.take(n, what)
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// align pads the position forward to a multiple of n.
func (c *cursor) align(n int) {
	if rem := c.pos % n; rem != 0 {
		c.pos += n - rem
	}
}

func (c *cursor) skip(n int) {
	c.pos += n
}

// rest claims everything left in the buffer as a copy.
func (c *cursor) rest() []byte {
	if c.err != nil || c.pos >= len(c.buf) {
		return nil
	}
	out := make([]byte, len(c.buf)-c.pos)
	copy(out, c.buf[c.pos:])
	c.pos = len(c.buf)
	return out
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}
