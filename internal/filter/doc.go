// Package filter inverts the chunk filter pipeline on read.
//
// A chunked dataset's filter pipeline message lists the transforms the
// writer applied, in application order; [Pipeline.Decode] runs them back
// to front over each chunk. A chunk's filter mask can exclude individual
// filters, and optional filters missing from this package are dropped at
// pipeline construction rather than failing every read.
//
// # Implemented filters
//
//   - [Deflate] (ID 1): one zlib stream per chunk
//   - [Shuffle] (ID 2): scatter byte planes back into whole elements;
//     trailing bytes that never formed a whole element pass through
//   - [Fletcher32Filter] (ID 3): verify and strip the 4-byte trailer,
//     wrapping the shared checksum sentinel on mismatch
//   - [NBit] (ID 5): expand bit-aligned integer fields to full width
//   - [ScaleOffset] (ID 6): unpack minimum-relative fields; an all-ones
//     field restores the fill value
//
// SZIP (ID 4) is recognized but not implemented; a dataset requiring it
// fails with [ErrUnsupported] before any chunk is read.
//
// No third-party compression library is used: nothing in the reference
// corpus carries one, and stdlib compress/zlib covers DEFLATE.
package filter
