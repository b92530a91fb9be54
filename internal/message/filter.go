package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// Filter IDs
const (
	FilterDeflate     uint16 = 1 // DEFLATE (gzip)
	FilterShuffle     uint16 = 2 // Byte shuffle
	FilterFletcher32  uint16 = 3 // Fletcher32 checksum
	FilterSZIP        uint16 = 4 // SZIP compression
	FilterNBit        uint16 = 5 // N-bit packing
	FilterScaleOffset uint16 = 6 // Scale + offset
)

// FilterInfo describes a single filter in the pipeline.
type FilterInfo struct {
	ID         uint16   // Filter identifier
	Flags      uint16   // Filter flags (bit 0: optional)
	Name       string   // Filter name (optional, v1 only)
	ClientData []uint32 // Filter parameters
}

// IsOptional returns true if this filter is optional.
func (f *FilterInfo) IsOptional() bool {
	return f.Flags&0x01 != 0
}

// FilterPipeline represents a filter pipeline message (type 0x000B).
type FilterPipeline struct {
	Version uint8
	Filters []FilterInfo
}

func (m *FilterPipeline) Type() Type { return TypeFilterPipeline }

// HasFilter returns true if the pipeline contains the given filter ID.
func (m *FilterPipeline) HasFilter(id uint16) bool {
	for _, f := range m.Filters {
		if f.ID == id {
			return true
		}
	}
	return false
}

// HasCompression returns true if the pipeline has any compression filter.
func (m *FilterPipeline) HasCompression() bool {
	for _, f := range m.Filters {
		switch f.ID {
		case FilterDeflate, FilterSZIP:
			return true
		}
	}
	return false
}

func parseFilterPipeline(data []byte, r *binpkg.Reader) (*FilterPipeline, error) {
	c := newCursor(data, r)

	fp := &FilterPipeline{Version: c.u8("version")}
	count := int(c.u8("filter count"))
	if c.err != nil {
		return nil, fmt.Errorf("filter pipeline message: %w", c.err)
	}

	// Version 1 reserves six bytes before the filter descriptions.
	if fp.Version == 1 {
		c.skip(6)
	}

	fp.Filters = make([]FilterInfo, count)
	for i := range fp.Filters {
		if err := fp.Filters[i].decode(c, fp.Version); err != nil {
			return nil, fmt.Errorf("parsing filter %d: %w", i, err)
		}
	}

	return fp, nil
}

// decode reads one filter description at the cursor.
func (f *FilterInfo) decode(c *cursor, version uint8) error {
	f.ID = c.u16("filter ID")

	// The name length field exists in v1 descriptions and, in v2, only
	// for non-reserved (custom) filter IDs.
	var nameLen int
	if version == 1 || f.ID >= 256 {
		nameLen = int(c.u16("name length"))
	}

	f.Flags = c.u16("filter flags")
	numCD := int(c.u16("client data count"))

	if nameLen > 0 {
		f.Name = c.name(nameLen, "filter name")
		// v1 pads the name out to an 8-byte boundary.
		if version == 1 && nameLen%8 != 0 {
			c.skip(8 - nameLen%8)
		}
	}

	f.ClientData = make([]uint32, numCD)
	for j := 0; j < numCD && c.remaining() >= 4; j++ {
		f.ClientData[j] = c.u32("client data value")
	}

	// v1 pads an odd client data count with four bytes.
	if version == 1 && numCD%2 != 0 {
		c.skip(4)
	}

	if c.err != nil {
		return c.err
	}
	return nil
}
