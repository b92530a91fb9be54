package btree

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// ErrChecksumMismatch aliases the package-wide checksum sentinel.
var ErrChecksumMismatch = binary.ErrChecksumMismatch

// btreeV2Header represents a B-tree v2 header (BTHD).
type btreeV2Header struct {
	Version        uint8
	Type           uint8
	NodeSize       uint32
	RecordSize     uint16
	Depth          uint16
	SplitPercent   uint8
	MergePercent   uint8
	RootAddr       uint64
	NumRootRecords uint16
	TotalRecords   uint64
}

// readBTreeV2Header reads and verifies the BTHD header. The accept hook
// rejects an index of the wrong record type before the rest of the header
// is even decoded.
func readBTreeV2Header(r *binary.Reader, address uint64, accept func(uint8) error) (*btreeV2Header, error) {
	nr := r.At(int64(address))

	sig, err := nr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading signature: %w", err)
	}
	if string(sig) != "BTHD" {
		return nil, fmt.Errorf("invalid B-tree v2 signature: %q (expected BTHD)", string(sig))
	}

	header := &btreeV2Header{}
	if header.Version, err = nr.ReadUint8(); err != nil {
		return nil, err
	}
	if header.Version != 0 {
		return nil, fmt.Errorf("unsupported B-tree v2 version: %d", header.Version)
	}
	if header.Type, err = nr.ReadUint8(); err != nil {
		return nil, err
	}
	if accept != nil {
		if err := accept(header.Type); err != nil {
			return nil, err
		}
	}
	if header.NodeSize, err = nr.ReadUint32(); err != nil {
		return nil, err
	}
	if header.RecordSize, err = nr.ReadUint16(); err != nil {
		return nil, err
	}
	if header.Depth, err = nr.ReadUint16(); err != nil {
		return nil, err
	}
	if header.SplitPercent, err = nr.ReadUint8(); err != nil {
		return nil, err
	}
	if header.MergePercent, err = nr.ReadUint8(); err != nil {
		return nil, err
	}
	if header.RootAddr, err = nr.ReadOffset(); err != nil {
		return nil, err
	}
	if header.NumRootRecords, err = nr.ReadUint16(); err != nil {
		return nil, err
	}
	if header.TotalRecords, err = nr.ReadLength(); err != nil {
		return nil, err
	}

	headerLen := nr.Pos() - int64(address)
	body, err := r.At(int64(address)).ReadBytes(int(headerLen))
	if err != nil {
		return nil, fmt.Errorf("reading header body for checksum: %w", err)
	}
	stored, err := nr.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading checksum: %w", err)
	}
	if computed := binary.Lookup3Checksum(body); stored != computed {
		if r.StrictChecksums() {
			return nil, fmt.Errorf("%w: B-tree v2 header at 0x%x: stored 0x%08x, computed 0x%08x",
				ErrChecksumMismatch, address, stored, computed)
		}
		r.Logger().WithField("address", address).Warnf(
			"btree v2 header: checksum mismatch (stored 0x%08x, computed 0x%08x)", stored, computed)
	}

	return header, nil
}

// walkBTreeV2 visits every record under the header, depth first. The
// record callback is handed a reader positioned at the record and must
// consume exactly RecordSize bytes. Internal node records are visited
// only when visitInternal is set; the chunk index keeps its records in
// the leaves, while the link name index carries them at every level.
func walkBTreeV2(r *binary.Reader, header *btreeV2Header, visitInternal bool,
	record func(nr *binary.Reader) error) error {

	if header.TotalRecords == 0 {
		return nil
	}
	return walkBTreeV2Node(r, header, header.RootAddr, int(header.NumRootRecords),
		int(header.Depth), visitInternal, record)
}

func walkBTreeV2Node(r *binary.Reader, header *btreeV2Header, address uint64,
	numRecords, depth int, visitInternal bool, record func(nr *binary.Reader) error) error {

	nr := r.At(int64(address))

	kind, wantSig := "leaf", "BTLF"
	if depth > 0 {
		kind, wantSig = "internal node", "BTIN"
	}

	sig, err := nr.ReadBytes(4)
	if err != nil {
		return fmt.Errorf("reading %s signature: %w", kind, err)
	}
	if string(sig) != wantSig {
		return fmt.Errorf("invalid B-tree v2 %s signature: %q (expected %s)", kind, string(sig), wantSig)
	}

	version, err := nr.ReadUint8()
	if err != nil {
		return err
	}
	if version != 0 {
		return fmt.Errorf("unsupported B-tree v2 %s version: %d", kind, version)
	}

	typ, err := nr.ReadUint8()
	if err != nil {
		return err
	}
	if typ != header.Type {
		return fmt.Errorf("B-tree v2 node type mismatch: %d (header says %d)", typ, header.Type)
	}

	r.Logger().WithField("address", address).
		Debugf("btree v2: visiting %s node, %d records, depth %d", wantSig, numRecords, depth)

	if depth == 0 {
		for i := 0; i < numRecords; i++ {
			if err := record(nr); err != nil {
				return fmt.Errorf("reading record %d: %w", i, err)
			}
		}
		return nil
	}

	// Internal node: records interleaved with child pointers, then one
	// trailing child pointer.
	descend := func() error {
		childAddr, err := nr.ReadOffset()
		if err != nil {
			return fmt.Errorf("reading child pointer: %w", err)
		}
		childNumRecords, err := nr.ReadUint16()
		if err != nil {
			return fmt.Errorf("reading child record count: %w", err)
		}
		return walkBTreeV2Node(r, header, childAddr, int(childNumRecords),
			depth-1, visitInternal, record)
	}

	for i := 0; i < numRecords; i++ {
		if visitInternal {
			if err := record(nr); err != nil {
				return fmt.Errorf("reading record %d: %w", i, err)
			}
		} else {
			nr.Skip(int64(header.RecordSize))
		}
		if err := descend(); err != nil {
			return fmt.Errorf("reading child node %d: %w", i, err)
		}
	}
	if err := descend(); err != nil {
		return fmt.Errorf("reading last child node: %w", err)
	}

	return nil
}
