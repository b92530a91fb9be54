// Package heap decodes the three HDF5 heap structures the reader needs.
//
// # Local heap
//
// A [LocalHeap] (signature "HEAP") is the name pool of one v0/v1 group.
// The data segment is scanned once at read time into an offset-to-string
// index, stopping at the effective free-list offset (a free-list offset
// of 1 means the heap has no free blocks); symbol table entries then
// resolve names by map lookup, with a direct segment scan as fallback
// for offsets the scan did not land on.
//
//	h, err := heap.ReadLocalHeap(reader, address)
//	name := h.GetString(nameOffset)
//
// # Global heap
//
// A [GlobalHeap] collection (signature "GCOL") holds variable-length
// values shared across objects. Collections decode eagerly into an
// index-keyed map; variable-length fields carry a [GlobalHeapID]
// (collection address + object index) that names one object:
//
//	id, err := heap.ParseGlobalHeapID(raw, offsetSize)
//	gh, err := heap.ReadGlobalHeap(reader, id.CollectionAddress)
//	value, err := gh.GetObject(uint16(id.ObjectIndex))
//
// # Fractal heap
//
// A [FractalHeap] (signature "FRHP") stores dense group links and dense
// attributes, addressed by heap IDs held in a B-tree v2 index. Managed
// objects are located through the doubling table (root direct block or
// one level of root indirect block), tiny objects live inline in the ID,
// and huge objects and filtered heaps are rejected. Header and flagged
// direct-block checksums are verified, demotable to warnings under the
// reader's non-strict mode.
//
//	fh, err := heap.ReadFractalHeap(reader, address)
//	data, err := fh.GetObject(heapID)
package heap
