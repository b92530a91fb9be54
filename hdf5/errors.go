// Package hdf5 provides a pure Go implementation for reading HDF5 files.
package hdf5

import (
	"errors"

	"github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/btree"
	"github.com/veyronix/hdf5/internal/dtype"
	"github.com/veyronix/hdf5/internal/filter"
	"github.com/veyronix/hdf5/internal/layout"
)

// Common errors
var (
	ErrNotHDF5     = errors.New("not an HDF5 file")
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrNotGroup    = errors.New("object is not a group")
	ErrUnsupported = errors.New("unsupported feature")
	ErrInvalidPath = errors.New("invalid path")
	ErrClosed      = errors.New("file is closed")
	ErrLinkDepth   = errors.New("maximum link depth exceeded")

	// Specific not-found errors for different object types
	ErrDatasetNotFound   = errors.New("dataset not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrMalformedTree is raised when a B-tree traversal revisits a node
	// address it has already seen in the same walk, which HDF5 never
	// produces legitimately. Demoted to a logged warning when the file is
	// opened with WithStrictChecksums(false).
	ErrMalformedTree = btree.ErrMalformedTree

	// ErrChecksumMismatch is raised when a stored Jenkins lookup3 checksum
	// (object header v2, B-tree v2, fractal heap) or Fletcher32 chunk
	// checksum does not match the computed one. Demoted to a logged
	// warning under WithStrictChecksums(false).
	ErrChecksumMismatch = binary.ErrChecksumMismatch

	// ErrDuplicateLink is raised when a group's links (compact, dense or
	// symbol table) contain two entries with the same name. Demoted to a logged warning (the
	// later entry is dropped) under WithStrictChecksums(false).
	ErrDuplicateLink = errors.New("duplicate link name")

	// ErrUnsupportedFilter is returned by the filter pipeline for a
	// recognized but unimplemented filter ID (e.g. SZIP).
	ErrUnsupportedFilter = filter.ErrUnsupported

	// ErrMisalignedRead is returned by ReadBytes when the requested byte
	// range is not a whole number of elements.
	ErrMisalignedRead = errors.New("read range not element-aligned")

	// ErrUnsupportedFill is returned when a chunked read needs a fill
	// value whose size does not match the dataset's element size.
	ErrUnsupportedFill = layout.ErrUnsupportedFill

	// ErrMalformedString is raised when string data whose datatype declares
	// a UTF-8 charset does not decode as valid UTF-8.
	ErrMalformedString = dtype.ErrMalformedString
)

// MaxLinkDepth is the maximum number of soft/external links that can be followed
// in a single path resolution. This prevents stack overflow from deeply nested links.
const MaxLinkDepth = 100
