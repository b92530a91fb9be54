package heap

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// LocalHeap is the decoded name pool of a v0/v1 group (signature "HEAP").
// The data segment is scanned once at read time: every 8-byte-aligned
// entry up to the effective free-list offset is indexed by its heap
// offset, so the common case of resolving a symbol-table entry's name is
// a map hit rather than a byte scan.
type LocalHeap struct {
	DataSize    uint64
	FreeOffset  uint64
	DataAddress uint64

	names map[uint64]string
	data  []byte
}

// ReadLocalHeap reads a local heap at the given address.
func ReadLocalHeap(r *binary.Reader, address uint64) (*LocalHeap, error) {
	hr := r.At(int64(address))

	sig, err := hr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading local heap signature: %w", err)
	}
	if string(sig) != "HEAP" {
		return nil, fmt.Errorf("invalid local heap signature: got %q, expected \"HEAP\"", string(sig))
	}

	version, err := hr.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, fmt.Errorf("unsupported local heap version: %d", version)
	}

	reserved, err := hr.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	if reserved[0] != 0 || reserved[1] != 0 || reserved[2] != 0 {
		return nil, fmt.Errorf("malformed local heap at 0x%x: nonzero reserved bytes", address)
	}

	h := &LocalHeap{}
	if h.DataSize, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if h.FreeOffset, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if h.DataAddress, err = hr.ReadOffset(); err != nil {
		return nil, err
	}

	h.data, err = r.At(int64(h.DataAddress)).ReadBytes(int(h.DataSize))
	if err != nil {
		return nil, fmt.Errorf("reading local heap data: %w", err)
	}

	h.index()

	r.Logger().WithField("address", address).WithField("size", h.DataSize).
		Debugf("local heap: indexed %d names", len(h.names))

	return h, nil
}

// index scans the data segment, mapping each 8-byte-aligned entry offset
// to its NUL-terminated string. A free-list offset of 1 means the heap
// has no free blocks and the whole segment is scanned.
func (h *LocalHeap) index() {
	limit := h.FreeOffset
	if limit == 1 || limit > h.DataSize {
		limit = h.DataSize
	}

	h.names = make(map[uint64]string)
	for off := uint64(0); off < limit; {
		s := h.stringAt(off)
		h.names[off] = s
		// Entries are padded so the next one starts on an 8-byte boundary.
		off += (uint64(len(s)) + 1 + 7) &^ 7
	}
}

// GetString returns the NUL-terminated string at a heap offset. Offsets
// the index scan did not land on (a file may interleave free blocks) fall
// back to reading the segment directly.
func (h *LocalHeap) GetString(offset uint64) string {
	if s, ok := h.names[offset]; ok {
		return s
	}
	return h.stringAt(offset)
}

func (h *LocalHeap) stringAt(offset uint64) string {
	if offset >= uint64(len(h.data)) {
		return ""
	}
	end := offset
	for end < uint64(len(h.data)) && h.data[end] != 0 {
		end++
	}
	return string(h.data[offset:end])
}
