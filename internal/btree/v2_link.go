package btree

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// BTreeV2TypeLinkName is type 5: link name records for indexed group links.
// Each record carries the Jenkins hash of the link name and a fractal heap
// ID locating the serialized link message.
const BTreeV2TypeLinkName uint8 = 5

// LinkNameRecord is a single type-5 record from a group's name index.
type LinkNameRecord struct {
	Hash   uint32
	HeapID []byte
}

// ReadLinkNameRecords reads all type-5 records from a v2 B-tree. Unlike
// the chunk index, the name index carries real records at every level, so
// internal node records are collected too. The caller resolves each
// HeapID through the group's fractal heap.
func ReadLinkNameRecords(r *binary.Reader, btreeAddr uint64) ([]LinkNameRecord, error) {
	header, err := readBTreeV2Header(r, btreeAddr, func(t uint8) error {
		if t != BTreeV2TypeLinkName {
			return fmt.Errorf("unexpected B-tree v2 type: %d (expected 5 for link names)", t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if header.RecordSize < 5 {
		return nil, fmt.Errorf("link name record size too small: %d", header.RecordSize)
	}

	var records []LinkNameRecord
	err = walkBTreeV2(r, header, true, func(nr *binary.Reader) error {
		rec := LinkNameRecord{}
		var err error
		if rec.Hash, err = nr.ReadUint32(); err != nil {
			return err
		}
		if rec.HeapID, err = nr.ReadBytes(int(header.RecordSize) - 4); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
