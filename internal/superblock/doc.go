// Package superblock locates and parses the HDF5 superblock.
//
// The superblock anchors everything else in the file. It fixes the offset
// and length widths every later decoder uses, and it names the root group:
// directly by object header address in v2/v3, through a symbol table entry
// whose scratch pad may cache the root B-tree and local heap addresses in
// v0/v1.
//
// # Locating the superblock
//
// A file is identified by the 8-byte signature 89 48 44 46 0D 0A 1A 0A.
// [Read] probes for it at every 512-byte-aligned offset (0, 512, 1024, ...)
// until the stream ends; the first match wins. The byte after the
// signature selects the version layout:
//
//   - v0/v1 carry B-tree K values and the root symbol table entry; v1
//     inserts an indexed-storage K value before the address block.
//   - v2/v3 are a compact fixed layout ending in a Jenkins lookup3
//     checksum, which is verified on read.
//
// Versions 4 and above fail with [ErrUnsupportedVersion].
//
// # Usage
//
//	sb, err := superblock.Read(file)
//	reader := binary.NewReader(file, sb.ReaderConfig())
//
// [ReadWithLogger] additionally traces each probe offset at Debug, which
// is how a slow open on a large non-HDF5 input shows up.
//
// # Errors
//
//   - [ErrNotHDF5]: no signature at any probed offset
//   - [ErrUnsupportedVersion]: superblock version above 3
//   - [ErrInvalidSuperblock]: malformed layout or checksum mismatch
package superblock
