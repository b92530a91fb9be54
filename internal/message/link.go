package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// LinkType represents the type of link.
type LinkType uint8

const (
	LinkTypeHard     LinkType = 0  // Hard link (object header address)
	LinkTypeSoft     LinkType = 1  // Soft link (path string)
	LinkTypeExternal LinkType = 64 // External link (file + path) - per HDF5 spec
)

// Link flag bits.
const (
	linkFlagNameLenMask  = 0x03 // log2 of the name-length field width
	linkFlagCreationOrder = 0x04
	linkFlagTypePresent  = 0x08
	linkFlagCharset      = 0x10
)

// Link represents a link message (type 0x0006).
type Link struct {
	Version       uint8
	LinkType      LinkType
	CreationOrder uint64
	Name          string
	Charset       uint8

	// Hard link
	ObjectAddress uint64

	// Soft link
	SoftLinkValue string

	// External link
	ExternalFile string
	ExternalPath string
}

func (m *Link) Type() Type { return TypeLink }

// IsHard returns true if this is a hard link.
func (m *Link) IsHard() bool {
	return m.LinkType == LinkTypeHard
}

// IsSoft returns true if this is a soft link.
func (m *Link) IsSoft() bool {
	return m.LinkType == LinkTypeSoft
}

// IsExternal returns true if this is an external link.
func (m *Link) IsExternal() bool {
	return m.LinkType == LinkTypeExternal
}

// ParseLink decodes a serialized link message outside the object header
// message stream. Dense group storage keeps each link as a fractal heap
// object holding exactly this encoding.
func ParseLink(data []byte, r *binpkg.Reader) (*Link, error) {
	return parseLink(data, r)
}

func parseLink(data []byte, r *binpkg.Reader) (*Link, error) {
	c := newCursor(data, r)

	link := &Link{Version: c.u8("version")}
	flags := c.u8("flags")

	if flags&linkFlagTypePresent != 0 {
		link.LinkType = LinkType(c.u8("link type"))
	}
	if flags&linkFlagCreationOrder != 0 {
		link.CreationOrder = c.u64("creation order")
	}
	if flags&linkFlagCharset != 0 {
		link.Charset = c.u8("charset")
	}

	nameLen := c.uintN(1<<(flags&linkFlagNameLenMask), "name length")
	link.Name = string(c.take(int(nameLen), "name"))

	switch link.LinkType {
	case LinkTypeHard:
		link.ObjectAddress = c.offset("object header address")

	case LinkTypeSoft:
		valLen := c.u16("soft link length")
		link.SoftLinkValue = string(c.take(int(valLen), "soft link value"))

	case LinkTypeExternal:
		extLen := c.u16("external link length")
		ext := c.take(int(extLen), "external link data")
		if c.err == nil {
			var err error
			link.ExternalFile, link.ExternalPath, err = splitExternalLink(ext)
			if err != nil {
				return nil, fmt.Errorf("link message: %w", err)
			}
		}
	}

	if c.err != nil {
		return nil, fmt.Errorf("link message: %w", c.err)
	}
	return link, nil
}

// splitExternalLink separates an external link value into its file name
// and object path: a version/flags byte, then two NUL-terminated strings.
func splitExternalLink(data []byte) (file, path string, err error) {
	if len(data) < 2 {
		return "", "", fmt.Errorf("external link value too short")
	}
	data = data[1:] // version/flags

	sep := len(data)
	for i, b := range data {
		if b == 0 {
			sep = i
			break
		}
	}
	file = string(data[:sep])

	if sep+1 < len(data) {
		rest := data[sep+1:]
		if n := len(rest); n > 0 && rest[n-1] == 0 {
			rest = rest[:n-1]
		}
		path = string(rest)
	}
	return file, path, nil
}
