// Package message decodes the typed messages found in object headers.
//
// A message arrives as a byte slice cut out of the header's message area,
// together with the reader whose superblock-scoped offset and length
// widths govern how addresses inside it are encoded. [Parse] dispatches on
// the message type; anything unrecognized decodes to [Unknown] so header
// scanning stays total.
//
// Decoders share one mechanism: a cursor that walks the slice, knows the
// file's field widths, and latches the first fault with the position it
// happened at. A decoder reads its fields in declaration order and checks
// the cursor once, so truncation anywhere surfaces as a single error
// naming the offending field.
//
// # Decoded types
//
//   - [Dataspace] (0x0001): rank and extents; scalar and null spaces
//   - [LinkInfo] (0x0002): fractal heap + name index addresses for
//     densely stored group links
//   - [Datatype] (0x0003): class-tagged element type, including compound
//     member lists and IEEE float layout parameters
//   - [FillValue] (0x0005): the value uncovered chunk bytes take
//   - [Link] (0x0006): hard, soft, and external links; dense storage
//     serializes this same encoding into the fractal heap, which is what
//     [ParseLink] exists for
//   - [DataLayout] (0x0008): compact, contiguous, or chunked placement
//   - [FilterPipeline] (0x000B): the ordered chunk filter list
//   - [Attribute] (0x000C): name + embedded datatype/dataspace + value
//   - [Continuation] (0x0010): further message areas
//   - [SymbolTable] (0x0011): v1 group B-tree and local heap addresses
//
// The datatype classes in scope are fixed-point, floating-point, string,
// compound, and reference; other classes decode far enough to be carried
// opaquely.
package message
