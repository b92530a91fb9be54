package message

import (
	"fmt"

	binpkg "github.com/veyronix/hdf5/internal/binary"
)

// SymbolTable represents a symbol table message (type 0x0011).
// This message is used in version 1 object headers to point to the
// B-tree and local heap that define group membership.
type SymbolTable struct {
	BTreeAddress     uint64 // Address of B-tree for group members
	LocalHeapAddress uint64 // Address of local heap for member names
}

func (m *SymbolTable) Type() Type { return TypeSymbolTable }

func parseSymbolTable(data []byte, r *binpkg.Reader) (*SymbolTable, error) {
	c := newCursor(data, r)

	st := &SymbolTable{
		BTreeAddress:     c.offset("B-tree address"),
		LocalHeapAddress: c.offset("local heap address"),
	}
	if c.err != nil {
		return nil, fmt.Errorf("symbol table message: %w", c.err)
	}
	return st, nil
}
