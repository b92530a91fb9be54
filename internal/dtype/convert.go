package dtype

// Type Conversion Strategy
//
// Raw dataset bytes become Go values in two layers. decodeScalar turns
// one element's bytes into a Go value for any fixed-size class (integer,
// float, fixed string, compound, enum, bitfield, opaque, array), and a
// single element walk applies it across the buffer, assigning into the
// caller's destination slice by reflection. Compound members and array
// elements recurse through the same scalar decoder, so nesting costs no
// extra code paths.
//
// Two classes step outside that shape:
//
//   - Strings validate their charset (UTF-8 data must decode cleanly) and
//     strip padding per the datatype's padding mode.
//   - Variable-length data holds global heap references instead of inline
//     bytes; each reference is resolved through the heap, with collections
//     cached per call.
//
// When the destination slice's element type matches the on-disk layout
// exactly (little-endian, same width, same signedness), the walk is
// replaced by one unsafe memory copy.

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/heap"
	"github.com/veyronix/hdf5/internal/message"
)

// Convert converts raw HDF5 data to Go values.
// The dest parameter should be a pointer to a slice or array of the appropriate type.
func Convert(dt *message.Datatype, data []byte, numElements uint64, dest interface{}) error {
	return ConvertWithReader(dt, data, numElements, dest, nil)
}

// ConvertWithReader converts raw HDF5 data to Go values, with access to a reader
// for resolving global heap references (needed for variable-length data).
func ConvertWithReader(dt *message.Datatype, data []byte, numElements uint64, dest interface{}, reader *binary.Reader) error {
	if dt == nil {
		return fmt.Errorf("nil datatype")
	}

	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer")
	}

	switch dt.Class {
	case message.ClassString:
		return convertString(dt, data, numElements, destVal.Elem())
	case message.ClassVarLen:
		return convertVarLen(dt, data, numElements, destVal.Elem(), reader)
	default:
		return convertFixedSize(dt, data, numElements, destVal.Elem(), reader)
	}
}

// ConvertToSlice converts raw HDF5 data to a newly allocated slice.
func ConvertToSlice[T any](dt *message.Datatype, data []byte, numElements uint64) ([]T, error) {
	result := make([]T, numElements)
	err := Convert(dt, data, numElements, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadScalar reads a single scalar value from raw data.
func ReadScalar[T any](dt *message.Datatype, data []byte) (T, error) {
	var zero T
	result := make([]T, 1)
	err := Convert(dt, data, 1, &result)
	if err != nil {
		return zero, err
	}
	return result[0], nil
}

// convertFixedSize walks fixed-size elements through decodeScalar,
// taking the direct-copy fast path when the destination layout matches
// the file layout.
func convertFixedSize(dt *message.Datatype, data []byte, n uint64, dest reflect.Value, reader *binary.Reader) error {
	size := int(dt.Size)
	if size == 0 {
		return fmt.Errorf("datatype class %d has zero size", dt.Class)
	}

	if dest.Kind() == reflect.Slice && dest.CanSet() && canDirectCopy(dt, dest.Type().Elem()) {
		return directCopy(data, n, size, dest)
	}

	growSlice(dest, n)

	for i := uint64(0); i < n; i++ {
		offset := int(i) * size
		if offset+size > len(data) {
			break
		}

		val, err := decodeScalar(dt, data[offset:offset+size], reader)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		assign(dest, int(i), val)
	}

	return nil
}

// decodeScalar decodes one element of any fixed-size class.
func decodeScalar(dt *message.Datatype, data []byte, reader *binary.Reader) (interface{}, error) {
	switch dt.Class {
	case message.ClassFixedPoint:
		return decodeInt(dt, data)

	case message.ClassFloatPoint:
		return decodeFloat(dt, data)

	case message.ClassString:
		// Fixed strings inside compounds and arrays: NUL-terminated.
		for j, b := range data {
			if b == 0 {
				return string(data[:j]), nil
			}
		}
		return string(data), nil

	case message.ClassCompound:
		return decodeCompound(dt, data, reader)

	case message.ClassEnum:
		// Enums widen to int32 (int64 for 8-byte base types).
		order := ByteOrder(dt)
		switch len(data) {
		case 1:
			return int32(int8(data[0])), nil
		case 2:
			return int32(int16(order.Uint16(data))), nil
		case 4:
			return int32(order.Uint32(data)), nil
		case 8:
			return int64(order.Uint64(data)), nil
		}
		return nil, fmt.Errorf("unsupported enum size: %d", len(data))

	case message.ClassBitfield:
		// Bitfields read as unsigned integers.
		order := ByteOrder(dt)
		switch len(data) {
		case 1:
			return data[0], nil
		case 2:
			return order.Uint16(data), nil
		case 4:
			return order.Uint32(data), nil
		case 8:
			return order.Uint64(data), nil
		}
		return nil, fmt.Errorf("unsupported bitfield size: %d", len(data))

	case message.ClassOpaque:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil

	case message.ClassArray:
		return decodeArray(dt, data, reader)
	}

	return nil, fmt.Errorf("unsupported datatype class for conversion: %d", dt.Class)
}

func decodeInt(dt *message.Datatype, data []byte) (interface{}, error) {
	order := ByteOrder(dt)
	switch len(data) {
	case 1:
		if dt.Signed {
			return int8(data[0]), nil
		}
		return data[0], nil
	case 2:
		v := order.Uint16(data)
		if dt.Signed {
			return int16(v), nil
		}
		return v, nil
	case 4:
		v := order.Uint32(data)
		if dt.Signed {
			return int32(v), nil
		}
		return v, nil
	case 8:
		v := order.Uint64(data)
		if dt.Signed {
			return int64(v), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported integer size: %d", len(data))
}

func decodeFloat(dt *message.Datatype, data []byte) (interface{}, error) {
	order := ByteOrder(dt)
	switch len(data) {
	case 4:
		return math.Float32frombits(order.Uint32(data)), nil
	case 8:
		return math.Float64frombits(order.Uint64(data)), nil
	}
	return nil, fmt.Errorf("unsupported float size: %d", len(data))
}

// decodeCompound decodes one compound element into a name-keyed map,
// member by member at the declared byte offsets.
func decodeCompound(dt *message.Datatype, data []byte, reader *binary.Reader) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(dt.Members))
	for _, member := range dt.Members {
		if member.Type == nil {
			continue
		}
		lo := int(member.ByteOffset)
		hi := lo + int(member.Type.Size)
		if hi > len(data) {
			continue
		}

		val, err := decodeScalar(member.Type, data[lo:hi], reader)
		if err != nil {
			return nil, fmt.Errorf("converting compound member %q: %w", member.Name, err)
		}
		result[member.Name] = val
	}
	return result, nil
}

// decodeArray decodes one array element into a typed slice of its base
// type, so callers see []int32 / []float64 / ... rather than generic
// interface slices.
func decodeArray(dt *message.Datatype, data []byte, reader *binary.Reader) (interface{}, error) {
	if dt.BaseType == nil || len(dt.ArrayDims) == 0 {
		return nil, fmt.Errorf("invalid array type: missing base type or dimensions")
	}

	count := 1
	for _, dim := range dt.ArrayDims {
		count *= int(dim)
	}
	baseSize := int(dt.BaseType.Size)

	elemType, err := sliceElemType(dt.BaseType)
	if err != nil {
		return nil, err
	}

	arr := reflect.MakeSlice(reflect.SliceOf(elemType), count, count)
	for j := 0; j < count; j++ {
		lo := j * baseSize
		if lo+baseSize > len(data) {
			break
		}
		val, err := decodeScalar(dt.BaseType, data[lo:lo+baseSize], reader)
		if err != nil {
			return nil, err
		}
		arr.Index(j).Set(reflect.ValueOf(val).Convert(elemType))
	}

	return arr.Interface(), nil
}

// sliceElemType picks the Go element type an array datatype decodes to.
func sliceElemType(base *message.Datatype) (reflect.Type, error) {
	switch base.Class {
	case message.ClassFixedPoint:
		switch {
		case base.Size == 4 && base.Signed:
			return reflect.TypeOf(int32(0)), nil
		case base.Size == 4:
			return reflect.TypeOf(uint32(0)), nil
		case base.Size == 8 && base.Signed:
			return reflect.TypeOf(int64(0)), nil
		case base.Size == 8:
			return reflect.TypeOf(uint64(0)), nil
		}
		return nil, fmt.Errorf("unsupported array element size: %d", base.Size)
	case message.ClassFloatPoint:
		switch base.Size {
		case 4:
			return reflect.TypeOf(float32(0)), nil
		case 8:
			return reflect.TypeOf(float64(0)), nil
		}
		return nil, fmt.Errorf("unsupported array float size: %d", base.Size)
	}
	return nil, fmt.Errorf("unsupported array base type: %d", base.Class)
}

// growSlice sizes a destination slice to hold n elements.
func growSlice(dest reflect.Value, n uint64) {
	if dest.Kind() == reflect.Slice && dest.CanSet() && dest.Len() < int(n) {
		dest.Set(reflect.MakeSlice(dest.Type(), int(n), int(n)))
	}
}

// assign stores a decoded value at index i of a slice destination, or
// into a scalar destination for the first element.
func assign(dest reflect.Value, i int, val interface{}) {
	v := reflect.ValueOf(val)

	if dest.Kind() == reflect.Slice {
		elem := dest.Index(i)
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		}
		return
	}

	if i != 0 {
		return
	}
	switch dest.Kind() {
	case reflect.Map:
		if m, ok := val.(map[string]interface{}); ok {
			for k, mv := range m {
				dest.SetMapIndex(reflect.ValueOf(k), reflect.ValueOf(mv))
			}
		}
	case reflect.Interface:
		dest.Set(v)
	default:
		if v.Type().ConvertibleTo(dest.Type()) {
			dest.Set(v.Convert(dest.Type()))
		}
	}
}

func convertString(dt *message.Datatype, data []byte, n uint64, dest reflect.Value) error {
	size := int(dt.Size)
	growSlice(dest, n)

	for i := uint64(0); i < n; i++ {
		offset := int(i) * size
		if offset+size > len(data) {
			break
		}

		strData := data[offset : offset+size]

		// Stop at the first NUL regardless of padding mode.
		end := len(strData)
		for j, b := range strData {
			if b == 0 {
				end = j
				break
			}
		}

		// Trim trailing spaces for space-padded strings
		if dt.StringPadding == message.PadSpacePad {
			for end > 0 && strData[end-1] == ' ' {
				end--
			}
		}

		// ASCII data is taken as-is; a UTF-8 charset must decode cleanly.
		if dt.CharSet == message.CharsetUTF8 {
			if _, _, err := transform.Bytes(encoding.UTF8Validator, strData[:end]); err != nil {
				return fmt.Errorf("%w: element %d: %v", ErrMalformedString, i, err)
			}
		}

		str := string(strData[:end])
		if dest.Kind() == reflect.Slice {
			dest.Index(int(i)).SetString(str)
		} else if dest.Kind() == reflect.String {
			dest.SetString(str)
		}
	}

	return nil
}

func convertVarLen(dt *message.Datatype, data []byte, n uint64, dest reflect.Value, reader *binary.Reader) error {
	// Variable-length data references the global heap
	if dt.IsVarLenString {
		return convertVarLenString(dt, data, n, dest, reader)
	}

	return fmt.Errorf("variable-length data type not fully supported (IsVarLenString=%v)", dt.IsVarLenString)
}

// convertVarLenString resolves each {length(4), heap address, index(4)}
// reference through the global heap. Collections are read once per call.
func convertVarLenString(dt *message.Datatype, data []byte, n uint64, dest reflect.Value, reader *binary.Reader) error {
	growSlice(dest, n)

	offsetSize := 8
	if reader != nil {
		offsetSize = reader.OffsetSize()
	}
	refSize := 4 + offsetSize + 4

	setString := func(i uint64, s string) {
		if dest.Kind() == reflect.Slice && dest.Type().Elem().Kind() == reflect.String {
			dest.Index(int(i)).SetString(s)
		} else if dest.Kind() == reflect.String && i == 0 {
			dest.SetString(s)
		}
	}

	collections := make(map[uint64]*heap.GlobalHeap)

	for i := uint64(0); i < n; i++ {
		offset := int(i) * refSize
		if offset+refSize > len(data) {
			break
		}

		// The leading 4 bytes carry the sequence length; the string
		// itself lives in the heap, so only the reference matters.
		heapID, err := heap.ParseGlobalHeapID(data[offset+4:offset+refSize], offsetSize)
		if err != nil {
			return fmt.Errorf("parsing global heap ID for element %d: %w", i, err)
		}

		if heapID.CollectionAddress == 0 {
			setString(i, "") // null reference
			continue
		}

		if reader == nil {
			return fmt.Errorf("variable-length string reading requires file reader (global heap at 0x%x)", heapID.CollectionAddress)
		}

		gh, ok := collections[heapID.CollectionAddress]
		if !ok {
			gh, err = heap.ReadGlobalHeap(reader, heapID.CollectionAddress)
			if err != nil {
				return fmt.Errorf("reading global heap at 0x%x: %w", heapID.CollectionAddress, err)
			}
			collections[heapID.CollectionAddress] = gh
		}

		str, err := gh.GetString(uint16(heapID.ObjectIndex))
		if err != nil {
			return fmt.Errorf("getting string from heap (index %d): %w", heapID.ObjectIndex, err)
		}
		setString(i, str)
	}

	return nil
}

// canDirectCopy checks if we can do a direct memory copy.
func canDirectCopy(dt *message.Datatype, elemType reflect.Type) bool {
	// Must be little-endian (native for most systems)
	if dt.ByteOrder != message.OrderLE {
		return false
	}
	if int(dt.Size) != int(elemType.Size()) {
		return false
	}

	switch dt.Class {
	case message.ClassFixedPoint:
		switch elemType.Kind() {
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return dt.Signed
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return !dt.Signed
		}
	case message.ClassFloatPoint:
		switch elemType.Kind() {
		case reflect.Float32, reflect.Float64:
			return true
		}
	}

	return false
}

// directCopy performs a direct memory copy for compatible types.
func directCopy(data []byte, n uint64, size int, dest reflect.Value) error {
	needed := int(n) * size
	if needed > len(data) {
		return fmt.Errorf("not enough data: need %d bytes, have %d", needed, len(data))
	}

	if dest.Len() < int(n) {
		dest.Set(reflect.MakeSlice(dest.Type(), int(n), int(n)))
	}

	sliceHeader := (*reflect.SliceHeader)(unsafe.Pointer(dest.UnsafeAddr()))
	destPtr := unsafe.Pointer(sliceHeader.Data)
	copy(unsafe.Slice((*byte)(destPtr), needed), data[:needed])

	return nil
}
