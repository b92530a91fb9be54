// Package dtype provides HDF5 datatype handling and conversion to Go values.
//
// This package bridges HDF5's on-disk type system and Go's runtime values:
// given a parsed message.Datatype and a run of raw bytes, it decodes the
// elements into the slice or scalar the caller asked for.
//
// # Type Mapping
//
//	HDF5 Class        | Go Type
//	------------------|------------------
//	Fixed-point (int)  | int8/16/32/64 or uint8/16/32/64 based on size and signedness
//	Floating-point     | float32 (4 bytes) or float64 (8 bytes)
//	String (fixed)     | string
//	String (varlen)    | string (via global heap lookup)
//	Compound           | map[string]interface{}
//	Array              | slice of element type
//	Enum               | int32 (int64 for 8-byte enums)
//	Bitfield           | unsigned integer type
//	Opaque             | []byte
//
// # Reading Data
//
// Use [Convert] or [ConvertWithReader] to convert raw bytes to Go values:
//
//	var values []float64
//	err := dtype.Convert(datatype, rawBytes, numElements, &values)
//
// For variable-length data (like varlen strings), pass a reader to access
// the global heap:
//
//	err := dtype.ConvertWithReader(datatype, rawBytes, n, &values, reader)
//
// # Key Functions
//
//   - [Convert]: Converts HDF5 bytes to Go values
//   - [ConvertWithReader]: Converts with reader access for varlen data
//   - [ByteOrder]: Returns the binary.ByteOrder for a datatype
//   - [ElementSize]: Returns the size of a single element in bytes
//   - [IsNumeric]: Reports whether a datatype is an integer or float class
package dtype
