package hdf5

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/dtype"
	"github.com/veyronix/hdf5/internal/message"
)

// Attribute represents an HDF5 attribute attached to a dataset or group.
// The value bytes are embedded in the attribute message; decoding is
// deferred until one of the Read methods is called.
type Attribute struct {
	msg    *message.Attribute
	reader *binary.Reader // For resolving global heap references
}

// Name returns the attribute name.
func (a *Attribute) Name() string {
	return a.msg.Name
}

// Shape returns the dimensions of the attribute value, nil for scalars.
func (a *Attribute) Shape() []uint64 {
	if a.msg.Dataspace == nil || a.msg.Dataspace.IsScalar() {
		return nil
	}
	return a.msg.Dataspace.Dimensions
}

// NumElements returns the total number of elements.
func (a *Attribute) NumElements() uint64 {
	if a.msg.Dataspace == nil {
		return 1
	}
	return a.msg.Dataspace.NumElements()
}

// IsScalar returns true if the attribute is a scalar value.
func (a *Attribute) IsScalar() bool {
	return a.msg.Dataspace == nil || a.msg.Dataspace.IsScalar()
}

// DtypeClass returns the datatype class.
func (a *Attribute) DtypeClass() message.DatatypeClass {
	if a.msg.Datatype == nil {
		return 0
	}
	return a.msg.Datatype.Class
}

// IsCompound returns true if the attribute has a compound datatype.
func (a *Attribute) IsCompound() bool {
	return a.msg.Datatype != nil && a.msg.Datatype.Class == message.ClassCompound
}

// IsArray returns true if the attribute has an array datatype.
func (a *Attribute) IsArray() bool {
	return a.msg.Datatype != nil && a.msg.Datatype.Class == message.ClassArray
}

// Read reads the attribute value into dest.
// dest should be a pointer to the appropriate type.
func (a *Attribute) Read(dest interface{}) error {
	if a.msg.Datatype == nil {
		return fmt.Errorf("attribute has no datatype")
	}
	if a.msg.Data == nil {
		return fmt.Errorf("attribute has no data")
	}

	return dtype.ConvertWithReader(a.msg.Datatype, a.msg.Data, a.NumElements(), dest, a.reader)
}

// readAs decodes the attribute into a freshly allocated slice of T.
func readAs[T any](a *Attribute) ([]T, error) {
	var result []T
	err := a.Read(&result)
	return result, err
}

// ReadFloat64 reads the attribute as float64 values.
func (a *Attribute) ReadFloat64() ([]float64, error) { return readAs[float64](a) }

// ReadFloat32 reads the attribute as float32 values.
func (a *Attribute) ReadFloat32() ([]float32, error) { return readAs[float32](a) }

// ReadInt64 reads the attribute as int64 values.
func (a *Attribute) ReadInt64() ([]int64, error) { return readAs[int64](a) }

// ReadInt32 reads the attribute as int32 values.
func (a *Attribute) ReadInt32() ([]int32, error) { return readAs[int32](a) }

// ReadString reads the attribute as string values.
func (a *Attribute) ReadString() ([]string, error) { return readAs[string](a) }

// first unwraps a single-element read for the scalar accessors.
func first[T any](vals []T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(vals) == 0 {
		return zero, fmt.Errorf("no values in attribute")
	}
	return vals[0], nil
}

// ReadScalarInt64 reads a scalar int64 attribute.
func (a *Attribute) ReadScalarInt64() (int64, error) {
	return first(a.ReadInt64())
}

// ReadScalarFloat64 reads a scalar float64 attribute.
func (a *Attribute) ReadScalarFloat64() (float64, error) {
	return first(a.ReadFloat64())
}

// ReadScalarString reads a scalar string attribute.
func (a *Attribute) ReadScalarString() (string, error) {
	return first(a.ReadString())
}

// ReadCompound reads the attribute as compound type values.
// Returns a slice of map[string]interface{} with member names as keys.
func (a *Attribute) ReadCompound() ([]map[string]interface{}, error) {
	vals, err := readAs[interface{}](a)
	if err != nil {
		return nil, err
	}

	maps := make([]map[string]interface{}, len(vals))
	for i, v := range vals {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("element %d is not a map: %T", i, v)
		}
		maps[i] = m
	}
	return maps, nil
}

// ReadScalarCompound reads a scalar compound attribute.
// Returns a map[string]interface{} with member names as keys.
func (a *Attribute) ReadScalarCompound() (map[string]interface{}, error) {
	return first(a.ReadCompound())
}

// ReadArray reads the attribute value which is an array type.
// Returns the array data as interface{} (the actual type depends on the base type).
func (a *Attribute) ReadArray() (interface{}, error) {
	var result interface{}
	err := a.Read(&result)
	return result, err
}

// unwrap collapses a one-element slice for a scalar dataspace, so Value
// hands back a bare value where the file stored a single element.
func unwrap[T any](a *Attribute, vals []T) interface{} {
	if a.IsScalar() && len(vals) == 1 {
		return vals[0]
	}
	return vals
}

// Value reads the attribute and returns an auto-typed Go value.
// Returns appropriate types based on HDF5 datatype:
//   - Fixed-point (integers): int64/uint64 or slices of them
//   - Floating-point: float64 or []float64
//   - String (fixed or variable-length): string or []string
//   - Compound: map[string]interface{} or []map[string]interface{}
//   - Array: the base type as a slice
//
// For scalar attributes, returns a single value. For array dataspaces,
// returns a slice.
func (a *Attribute) Value() (interface{}, error) {
	if a.msg.Datatype == nil {
		return nil, fmt.Errorf("attribute has no datatype")
	}

	switch a.msg.Datatype.Class {
	case message.ClassFixedPoint:
		if a.msg.Datatype.Signed {
			vals, err := a.ReadInt64()
			if err != nil {
				return nil, err
			}
			return unwrap(a, vals), nil
		}
		vals, err := readAs[uint64](a)
		if err != nil {
			return nil, err
		}
		return unwrap(a, vals), nil

	case message.ClassFloatPoint:
		vals, err := a.ReadFloat64()
		if err != nil {
			return nil, err
		}
		return unwrap(a, vals), nil

	case message.ClassString:
		vals, err := a.ReadString()
		if err != nil {
			return nil, err
		}
		return unwrap(a, vals), nil

	case message.ClassVarLen:
		if a.msg.Datatype.IsVarLenString {
			vals, err := a.ReadString()
			if err != nil {
				return nil, err
			}
			return unwrap(a, vals), nil
		}
		return a.ReadArray()

	case message.ClassCompound:
		vals, err := a.ReadCompound()
		if err != nil {
			return nil, err
		}
		return unwrap(a, vals), nil

	case message.ClassEnum:
		vals, err := a.ReadInt64()
		if err != nil {
			return nil, err
		}
		return unwrap(a, vals), nil

	default:
		// Arrays and anything else: hand back whatever decoding yields.
		return a.ReadArray()
	}
}
