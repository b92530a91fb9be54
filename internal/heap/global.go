package heap

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
)

// GlobalHeap is one decoded global heap collection (signature "GCOL").
// Variable-length dataset and attribute values live here, shared across
// objects and addressed by (collection address, object index) pairs.
type GlobalHeap struct {
	CollectionSize uint64
	objects        map[uint16][]byte // index -> object data
}

// GlobalHeapID represents a reference to an object in the global heap.
// This is stored in variable-length data fields.
type GlobalHeapID struct {
	CollectionAddress uint64 // Address of the global heap collection
	ObjectIndex       uint32 // Index of the object within the collection
}

// ReadGlobalHeap reads a global heap collection at the given address.
// All objects in the collection are decoded up front; a heap is read
// once and then serves every reference into it.
func ReadGlobalHeap(r *binary.Reader, address uint64) (*GlobalHeap, error) {
	if address == 0 || r.IsUndefinedOffset(address) {
		return nil, fmt.Errorf("invalid global heap address")
	}

	hr := r.At(int64(address))

	sig, err := hr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading global heap signature: %w", err)
	}
	if string(sig) != "GCOL" {
		return nil, fmt.Errorf("invalid global heap signature: %q", string(sig))
	}

	version, err := hr.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, fmt.Errorf("unsupported global heap version: %d", version)
	}

	hr.Skip(3) // reserved

	collectionSize, err := hr.ReadLength()
	if err != nil {
		return nil, err
	}

	gh := &GlobalHeap{
		CollectionSize: collectionSize,
		objects:        make(map[uint16][]byte),
	}

	// Objects follow until a zero index or the declared collection size
	// runs out. The size covers the collection header too.
	end := int64(address) + int64(collectionSize)
	for hr.Pos() < end {
		index, err := hr.ReadUint16()
		if err != nil || index == 0 {
			break
		}

		// Reference count and reserved bytes carry no meaning on read.
		hr.Skip(6)

		objectSize, err := hr.ReadLength()
		if err != nil {
			break
		}

		if objectSize > 0 {
			data, err := hr.ReadBytes(int(objectSize))
			if err != nil {
				break
			}
			gh.objects[index] = data
		}

		// Every object is padded out to an 8-byte boundary.
		hr.Align(8)
	}

	r.Logger().WithField("address", address).
		Debugf("global heap: %d objects in %d bytes", len(gh.objects), collectionSize)

	return gh, nil
}

// GetObject retrieves an object by index from the global heap.
func (h *GlobalHeap) GetObject(index uint16) ([]byte, error) {
	if h == nil {
		return nil, fmt.Errorf("nil global heap")
	}
	data, ok := h.objects[index]
	if !ok {
		return nil, fmt.Errorf("object index %d not found in global heap", index)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// GetString retrieves a NUL-terminated string from the global heap.
func (h *GlobalHeap) GetString(index uint16) (string, error) {
	data, err := h.GetObject(index)
	if err != nil {
		return "", err
	}
	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}
	return string(data), nil
}

// ParseGlobalHeapID parses a global heap ID from raw bytes.
// The format is: collection address (offset-sized) + object index (4 bytes).
func ParseGlobalHeapID(data []byte, offsetSize int) (GlobalHeapID, error) {
	switch offsetSize {
	case 2, 4, 8:
	default:
		return GlobalHeapID{}, fmt.Errorf("unsupported offset size: %d", offsetSize)
	}
	if len(data) < offsetSize+4 {
		return GlobalHeapID{}, fmt.Errorf("global heap ID too short: need %d bytes, have %d", offsetSize+4, len(data))
	}

	return GlobalHeapID{
		CollectionAddress: decodeVarUint(data[:offsetSize]),
		ObjectIndex:       uint32(decodeVarUint(data[offsetSize : offsetSize+4])),
	}, nil
}
