package heap

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// FractalHeap is a read-only view of an HDF5 fractal heap (signature "FRHP").
// Dense group links and dense attributes are stored as objects in a fractal
// heap, addressed by heap IDs held in a B-tree v2 index.
//
// Supported: managed objects in direct blocks (root direct block or one
// level of root indirect block) and tiny objects stored inline in the ID.
// Huge objects and filtered heaps are rejected.
type FractalHeap struct {
	Address uint64

	HeapIDLen         uint16
	IOFiltersLen      uint16
	Flags             uint8
	MaxManagedObjSize uint32

	TableWidth         uint16
	StartingBlockSize  uint64
	MaxDirectBlockSize uint64
	MaxHeapSize        uint16
	RootBlockAddr      uint64
	CurrentRowCount    uint16

	ManagedObjCount uint64

	// Derived field widths for decoding heap IDs and block offsets.
	heapOffsetSize int
	heapLengthSize int

	reader *binary.Reader
}

// Heap ID type bits (bits 4-5 of the leading flag byte).
const (
	heapIDTypeManaged uint8 = 0x00
	heapIDTypeHuge    uint8 = 0x10
	heapIDTypeTiny    uint8 = 0x20
)

// ReadFractalHeap reads a fractal heap header at the given address.
func ReadFractalHeap(r *binary.Reader, address uint64) (*FractalHeap, error) {
	if r.IsUndefinedOffset(address) {
		return nil, fmt.Errorf("undefined fractal heap address")
	}

	hr := r.At(int64(address))

	sig, err := hr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading fractal heap signature: %w", err)
	}
	if string(sig) != "FRHP" {
		return nil, fmt.Errorf("invalid fractal heap signature: got %q, expected \"FRHP\"", string(sig))
	}

	version, err := hr.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, fmt.Errorf("unsupported fractal heap version: %d", version)
	}

	fh := &FractalHeap{
		Address: address,
		reader:  r,
	}

	if fh.HeapIDLen, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if fh.IOFiltersLen, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if fh.Flags, err = hr.ReadUint8(); err != nil {
		return nil, err
	}
	if fh.MaxManagedObjSize, err = hr.ReadUint32(); err != nil {
		return nil, err
	}

	// Next huge object ID and huge object B-tree address. Huge objects are
	// not supported; the fields are skipped but a nonzero count is caught
	// when a huge heap ID is encountered.
	if _, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if _, err = hr.ReadOffset(); err != nil {
		return nil, err
	}

	// Free space amount and free space section address.
	if _, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if _, err = hr.ReadOffset(); err != nil {
		return nil, err
	}

	// Managed object statistics: space, allocated, iterator offset, count.
	if _, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if _, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if _, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if fh.ManagedObjCount, err = hr.ReadLength(); err != nil {
		return nil, err
	}

	// Huge and tiny object statistics (size + count each).
	for i := 0; i < 4; i++ {
		if _, err = hr.ReadLength(); err != nil {
			return nil, err
		}
	}

	// Managed objects doubling table.
	if fh.TableWidth, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if fh.StartingBlockSize, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if fh.MaxDirectBlockSize, err = hr.ReadLength(); err != nil {
		return nil, err
	}
	if fh.MaxHeapSize, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	// Starting number of rows in root indirect block.
	if _, err = hr.ReadUint16(); err != nil {
		return nil, err
	}
	if fh.RootBlockAddr, err = hr.ReadOffset(); err != nil {
		return nil, err
	}
	if fh.CurrentRowCount, err = hr.ReadUint16(); err != nil {
		return nil, err
	}

	if fh.IOFiltersLen > 0 {
		return nil, fmt.Errorf("filtered fractal heap not supported (filter info length %d)", fh.IOFiltersLen)
	}

	headerLen := hr.Pos() - int64(address)
	body, err := r.At(int64(address)).ReadBytes(int(headerLen))
	if err != nil {
		return nil, fmt.Errorf("reading header body for checksum: %w", err)
	}
	stored, err := hr.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading checksum: %w", err)
	}
	if computed := binary.Lookup3Checksum(body); stored != computed {
		if r.StrictChecksums() {
			return nil, fmt.Errorf("%w: fractal heap header at 0x%x: stored 0x%08x, computed 0x%08x",
				binary.ErrChecksumMismatch, address, stored, computed)
		}
		r.Logger().WithField("address", address).Warnf(
			"fractal heap header: checksum mismatch (stored 0x%08x, computed 0x%08x)", stored, computed)
	}

	fh.heapOffsetSize = int(fh.MaxHeapSize+7) / 8
	fh.heapLengthSize = min(bytesFor(fh.MaxDirectBlockSize), bytesFor(uint64(fh.MaxManagedObjSize)))

	if fh.heapOffsetSize <= 0 || fh.heapOffsetSize > 8 {
		return nil, fmt.Errorf("invalid fractal heap offset size: %d", fh.heapOffsetSize)
	}

	return fh, nil
}

// GetObject retrieves the bytes of the object identified by heapID.
func (fh *FractalHeap) GetObject(heapID []byte) ([]byte, error) {
	if len(heapID) == 0 {
		return nil, fmt.Errorf("empty heap ID")
	}

	flags := heapID[0]
	if version := (flags & 0xC0) >> 6; version != 0 {
		return nil, fmt.Errorf("unsupported heap ID version: %d", version)
	}

	switch flags & 0x30 {
	case heapIDTypeManaged:
		return fh.getManagedObject(heapID[1:])
	case heapIDTypeTiny:
		// Tiny objects store the data inline after the flag byte, with the
		// length encoded in the low bits of the flag byte.
		n := int(flags&0x0F) + 1
		if n > len(heapID)-1 {
			n = len(heapID) - 1
		}
		data := make([]byte, n)
		copy(data, heapID[1:1+n])
		return data, nil
	case heapIDTypeHuge:
		return nil, fmt.Errorf("huge fractal heap objects not supported")
	default:
		return nil, fmt.Errorf("unknown heap ID type: 0x%02x", flags&0x30)
	}
}

// getManagedObject decodes a managed heap ID body (offset + length) and
// extracts the object from its direct block.
func (fh *FractalHeap) getManagedObject(body []byte) ([]byte, error) {
	if len(body) < fh.heapOffsetSize+fh.heapLengthSize {
		return nil, fmt.Errorf("managed heap ID too short: %d bytes (need %d)",
			len(body), fh.heapOffsetSize+fh.heapLengthSize)
	}

	offset := decodeVarUint(body[:fh.heapOffsetSize])
	length := decodeVarUint(body[fh.heapOffsetSize : fh.heapOffsetSize+fh.heapLengthSize])

	blockAddr, blockOffset, blockSize, err := fh.locateDirectBlock(offset)
	if err != nil {
		return nil, err
	}

	block, err := fh.readDirectBlock(blockAddr, blockSize)
	if err != nil {
		return nil, err
	}

	// Managed object offsets are absolute within the heap's address space,
	// which includes each direct block's own header bytes.
	if offset < blockOffset || offset-blockOffset+length > uint64(len(block)) {
		return nil, fmt.Errorf("heap object at 0x%x+%d outside direct block at 0x%x (size %d)",
			offset, length, blockOffset, len(block))
	}

	rel := offset - blockOffset
	data := make([]byte, length)
	copy(data, block[rel:rel+length])
	return data, nil
}

// locateDirectBlock maps a heap-space offset to the file address, heap
// offset, and size of the direct block containing it.
func (fh *FractalHeap) locateDirectBlock(offset uint64) (addr, blockOffset, blockSize uint64, err error) {
	if fh.CurrentRowCount == 0 {
		// Root block is a single direct block covering heap offset 0.
		return fh.RootBlockAddr, 0, fh.StartingBlockSize, nil
	}

	// Root block is an indirect block: rows of TableWidth direct blocks
	// whose sizes follow the doubling table (rows 0 and 1 use the starting
	// size, each later row doubles).
	row, col, rowStart := 0, 0, uint64(0)
	found := false
	cursor := uint64(0)
	for r := 0; r < int(fh.CurrentRowCount); r++ {
		size := fh.rowBlockSize(r)
		if size > fh.MaxDirectBlockSize {
			break // Rows past this point hold indirect blocks.
		}
		rowBytes := size * uint64(fh.TableWidth)
		if offset < cursor+rowBytes {
			row = r
			col = int((offset - cursor) / size)
			rowStart = cursor
			found = true
			break
		}
		cursor += rowBytes
	}
	if !found {
		return 0, 0, 0, fmt.Errorf("heap offset 0x%x beyond direct block rows (indirect child blocks not supported)", offset)
	}

	entry := row*int(fh.TableWidth) + col
	addr, err = fh.readIndirectEntry(entry)
	if err != nil {
		return 0, 0, 0, err
	}

	blockSize = fh.rowBlockSize(row)
	blockOffset = rowStart + uint64(col)*blockSize
	return addr, blockOffset, blockSize, nil
}

// rowBlockSize returns the direct block size for a doubling table row.
func (fh *FractalHeap) rowBlockSize(row int) uint64 {
	if row < 2 {
		return fh.StartingBlockSize
	}
	return fh.StartingBlockSize << (row - 1)
}

// readIndirectEntry reads the idx-th child block address from the root
// indirect block (signature "FHIB").
func (fh *FractalHeap) readIndirectEntry(idx int) (uint64, error) {
	ir := fh.reader.At(int64(fh.RootBlockAddr))

	sig, err := ir.ReadBytes(4)
	if err != nil {
		return 0, fmt.Errorf("reading indirect block signature: %w", err)
	}
	if string(sig) != "FHIB" {
		return 0, fmt.Errorf("invalid indirect block signature: got %q, expected \"FHIB\"", string(sig))
	}

	version, err := ir.ReadUint8()
	if err != nil {
		return 0, err
	}
	if version != 0 {
		return 0, fmt.Errorf("unsupported indirect block version: %d", version)
	}

	hdrAddr, err := ir.ReadOffset()
	if err != nil {
		return 0, err
	}
	if hdrAddr != fh.Address {
		return 0, fmt.Errorf("indirect block heap header address mismatch: 0x%x (expected 0x%x)", hdrAddr, fh.Address)
	}

	// Block offset of the indirect block itself.
	if _, err = ir.ReadUintN(fh.heapOffsetSize); err != nil {
		return 0, err
	}

	ir.Skip(int64(idx * fh.reader.OffsetSize()))
	addr, err := ir.ReadOffset()
	if err != nil {
		return 0, fmt.Errorf("reading child block address %d: %w", idx, err)
	}
	return addr, nil
}

// readDirectBlock reads an entire direct block (signature "FHDB"),
// including its header bytes, and verifies it.
func (fh *FractalHeap) readDirectBlock(address, size uint64) ([]byte, error) {
	if fh.reader.IsUndefinedOffset(address) {
		return nil, fmt.Errorf("undefined direct block address")
	}

	fh.reader.Logger().WithField("address", address).
		Debugf("fractal heap: reading %d-byte direct block", size)

	buf, err := fh.reader.At(int64(address)).ReadBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("reading direct block at 0x%x: %w", address, err)
	}

	headerLen := 4 + 1 + fh.reader.OffsetSize() + fh.heapOffsetSize
	if len(buf) < headerLen {
		return nil, fmt.Errorf("direct block too small: %d bytes", len(buf))
	}

	if string(buf[:4]) != "FHDB" {
		return nil, fmt.Errorf("invalid direct block signature: got %q, expected \"FHDB\"", string(buf[:4]))
	}
	if buf[4] != 0 {
		return nil, fmt.Errorf("unsupported direct block version: %d", buf[4])
	}

	hdrAddr := decodeVarUint(buf[5 : 5+fh.reader.OffsetSize()])
	if hdrAddr != fh.Address {
		return nil, fmt.Errorf("direct block heap header address mismatch: 0x%x (expected 0x%x)", hdrAddr, fh.Address)
	}

	// When flag bit 1 is set the header carries a checksum over the whole
	// block with the checksum field zeroed.
	if fh.Flags&0x02 != 0 {
		ckOff := headerLen
		if len(buf) < ckOff+4 {
			return nil, fmt.Errorf("direct block too small for checksum")
		}
		stored := fh.reader.ByteOrder().Uint32(buf[ckOff : ckOff+4])
		scratch := make([]byte, len(buf))
		copy(scratch, buf)
		scratch[ckOff], scratch[ckOff+1], scratch[ckOff+2], scratch[ckOff+3] = 0, 0, 0, 0
		if computed := binary.Lookup3Checksum(scratch); stored != computed {
			if fh.reader.StrictChecksums() {
				return nil, fmt.Errorf("%w: direct block at 0x%x: stored 0x%08x, computed 0x%08x",
					binary.ErrChecksumMismatch, address, stored, computed)
			}
			fh.reader.Logger().WithField("address", address).Warnf(
				"fractal heap direct block: checksum mismatch (stored 0x%08x, computed 0x%08x)", stored, computed)
		}
	}

	return buf, nil
}

// decodeVarUint decodes a variable-width little-endian unsigned integer.
// Heap IDs and block offsets use widths derived from the doubling table,
// not the superblock, so the reader's sized helpers do not apply.
func decodeVarUint(data []byte) uint64 {
	var val uint64
	for i := len(data) - 1; i >= 0; i-- {
		val = (val << 8) | uint64(data[i])
	}
	return val
}

// bytesFor returns the number of bytes needed to store a value.
func bytesFor(v uint64) int {
	n := 1
	for v > 0xFF {
		n++
		v >>= 8
	}
	return n
}
