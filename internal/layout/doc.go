// Package layout resolves dataset bytes from their storage placement.
//
// The data layout message names one of three placements, each behind the
// [Layout] interface ([Compact] in-header bytes, [Contiguous] single
// block, [Chunked] indexed grid). Two operations exist: Read materializes
// the whole dataset, ReadRange materializes one byte range of the
// flattened row-major dataset.
//
// # Chunked storage
//
// The chunk index format is detected from the signature at the index
// address (v1 B-tree, v2 B-tree, fixed array, extensible array, or a
// bare single chunk) and enumeration is shared by both read paths. Each
// chunk is read, pushed through the filter pipeline in reverse, and
// copied into place row by row, clipping edge chunks at the dataset
// boundary.
//
// ReadRange touches only the chunks whose bounding boxes intersect the
// requested range. Bytes no allocated chunk covers take the dataset's
// fill value when one of element size is defined ([ErrUnsupportedFill]
// when the sizes disagree), otherwise zero.
package layout
