package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// Attribute represents an attribute message (type 0x000C).
type Attribute struct {
	Version       uint8
	Name          string
	DatatypeSize  uint16
	DataspaceSize uint16
	Datatype      *Datatype
	Dataspace     *Dataspace
	Data          []byte
}

func (m *Attribute) Type() Type { return TypeAttribute }

func parseAttribute(data []byte, r *binpkg.Reader) (*Attribute, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("attribute message too short")
	}

	attr := &Attribute{Version: data[0]}

	// All three versions share the shape name + datatype + dataspace +
	// value; they differ in padding and in the extra charset byte v3
	// carries. Version 1 pads each section to 8 bytes, v2/v3 pack them.
	var err error
	switch attr.Version {
	case 1:
		err = attr.decode(data, r, false, true)
	case 2:
		err = attr.decode(data, r, false, false)
	case 3:
		err = attr.decode(data, r, true, false)
	default:
		return nil, fmt.Errorf("unsupported attribute version: %d", attr.Version)
	}
	if err != nil {
		return nil, err
	}
	return attr, nil
}

func (m *Attribute) decode(data []byte, r *binpkg.Reader, hasCharset, padded bool) error {
	c := newCursor(data, r)
	c.skip(2) // version + reserved/flags

	nameSize := int(c.u16("name size"))
	m.DatatypeSize = c.u16("datatype size")
	m.DataspaceSize = c.u16("dataspace size")
	if hasCharset {
		c.u8("name charset")
	}

	section := func(size int, what string) []byte {
		b := c.take(size, what)
		if padded {
			c.align(8)
		}
		return b
	}

	nameBytes := section(nameSize, "attribute name")
	for i, b := range nameBytes {
		if b == 0 {
			nameBytes = nameBytes[:i]
			break
		}
	}
	m.Name = string(nameBytes)

	if dtBytes := section(int(m.DatatypeSize), "attribute datatype"); c.err == nil {
		if dt, err := parseDatatype(dtBytes, r); err == nil {
			m.Datatype = dt
		}
	}
	if dsBytes := section(int(m.DataspaceSize), "attribute dataspace"); c.err == nil {
		if ds, err := parseDataspace(dsBytes, r); err == nil {
			m.Dataspace = ds
		}
	}

	m.Data = c.rest()

	if c.err != nil {
		return fmt.Errorf("attribute v%d: %w", m.Version, c.err)
	}
	return nil
}
