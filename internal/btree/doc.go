// Package btree walks the two on-disk B-tree generations.
//
// # B-tree v1 (signature "TREE")
//
// Version 1 trees index two things, discriminated by a node type byte:
// group membership (type 0, leaves point at "SNOD" symbol table nodes)
// and chunked raw data (type 1, leaf keys carry the chunk size, filter
// mask, and coordinates ahead of each chunk address). [ReadGroupEntries]
// and [ReadChunkIndex] traverse them; both keep a visited-address set,
// and a re-visited node raises [ErrMalformedTree] (demotable to a logged
// warning under the reader's non-strict mode, since real files never
// cycle).
//
// # B-tree v2 (signature "BTHD")
//
// Version 2 trees share one node walk: a checksummed header, "BTIN"
// internal nodes interleaving records with child pointers, and "BTLF"
// leaves. The record shape is the index type's business:
//
//   - [ReadChunkIndexV2] decodes type 10/11 chunk records (leaves only;
//     internal records just partition the key space)
//   - [ReadLinkNameRecords] decodes type 5 link name records (every
//     level), each a name hash plus a fractal heap ID
//
// Node visits are traced at Debug through the reader's logger.
package btree
