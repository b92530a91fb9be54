// Package object decodes HDF5 object headers.
//
// Every object in the file (group, dataset, committed datatype) is
// described by an object header: a typed message stream the rest of the
// decoder interrogates. [Read] sniffs the version at an address and hands
// back a [Header] holding every message from the header and all of its
// continuation blocks.
//
// # The two header generations
//
//   - Version 1 (superblock v0/v1) starts with a fixed 12-byte prefix and
//     pads each message to 8 bytes. The message count in the prefix is
//     advisory; decoding walks each area strictly by its byte budget.
//     Continuation messages name further areas, which are queued and
//     drained iteratively.
//
//   - Version 2 (signature "OHDR") packs messages without padding, selects
//     the size-field width from its flags byte, optionally carries
//     timestamps and attribute-phase thresholds, and ends every block with
//     a Jenkins lookup3 checksum. Continuation blocks are framed by an
//     "OCHK" signature and their own checksum. Checksum mismatches are
//     fatal under strict reading and demoted to warnings otherwise.
//
// # Access
//
//	header, err := object.Read(reader, address)
//	dataspace := header.Dataspace()
//	layout := header.DataLayout()
//	attrs := header.GetMessages(message.TypeAttribute)
//
// The typed accessors (Dataspace, Datatype, DataLayout, FilterPipeline,
// FillValue) return nil when the header has no such message, which is how
// callers distinguish groups from datasets.
//
// # Errors
//
//   - [ErrInvalidHeader]: neither version recognized at the address
//   - [ErrUnsupportedVersion]: version byte outside 1/2
//   - [ErrChecksumMismatch]: a v2 block failed verification (strict mode)
package object
