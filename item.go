package kas

import (
	"encoding/binary"
	"math"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
)

// Item is one (key, type, array) record. In read mode, Key and Array alias
// the store's backing buffer and must not be retained past Close; in write
// mode, items are tracked internally as pendingItem instead (see store.go)
// until the array layout is known, so a caller never observes an Item with
// a borrowed, unpacked array.
type Item struct {
	Key   []byte
	Type  format.Type
	Array []byte // raw little-endian element bytes

	ArrayLen   uint64
	KeyStart   uint64
	ArrayStart uint64
}

// compareKeys implements the total order of spec §4.2: lexicographic over
// the common prefix, shorter key first on a tie.
func compareKeys(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func wrongType(it format.Type) error {
	return errs.Wrap(errs.BadType, "kas: item has type "+it.String())
}

// Uint8s decodes the item's array as unsigned 8-bit elements.
func (it Item) Uint8s() ([]uint8, error) {
	if it.Type != format.Uint8 {
		return nil, wrongType(it.Type)
	}
	out := make([]uint8, len(it.Array))
	copy(out, it.Array)
	return out, nil
}

// Int8s decodes the item's array as signed 8-bit elements.
func (it Item) Int8s() ([]int8, error) {
	if it.Type != format.Int8 {
		return nil, wrongType(it.Type)
	}
	out := make([]int8, len(it.Array))
	for i, b := range it.Array {
		out[i] = int8(b) //nolint:gosec
	}
	return out, nil
}

// Uint32s decodes the item's array as little-endian unsigned 32-bit elements.
func (it Item) Uint32s() ([]uint32, error) {
	if it.Type != format.Uint32 {
		return nil, wrongType(it.Type)
	}
	out := make([]uint32, it.ArrayLen)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(it.Array[i*4:])
	}
	return out, nil
}

// Int32s decodes the item's array as little-endian signed 32-bit elements.
func (it Item) Int32s() ([]int32, error) {
	if it.Type != format.Int32 {
		return nil, wrongType(it.Type)
	}
	out := make([]int32, it.ArrayLen)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(it.Array[i*4:])) //nolint:gosec
	}
	return out, nil
}

// Uint64s decodes the item's array as little-endian unsigned 64-bit elements.
func (it Item) Uint64s() ([]uint64, error) {
	if it.Type != format.Uint64 {
		return nil, wrongType(it.Type)
	}
	out := make([]uint64, it.ArrayLen)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(it.Array[i*8:])
	}
	return out, nil
}

// Int64s decodes the item's array as little-endian signed 64-bit elements.
func (it Item) Int64s() ([]int64, error) {
	if it.Type != format.Int64 {
		return nil, wrongType(it.Type)
	}
	out := make([]int64, it.ArrayLen)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(it.Array[i*8:])) //nolint:gosec
	}
	return out, nil
}

// Float32s decodes the item's array as little-endian IEEE 754 single floats.
func (it Item) Float32s() ([]float32, error) {
	if it.Type != format.Float32 {
		return nil, wrongType(it.Type)
	}
	out := make([]float32, it.ArrayLen)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(it.Array[i*4:]))
	}
	return out, nil
}

// Float64s decodes the item's array as little-endian IEEE 754 double floats.
func (it Item) Float64s() ([]float64, error) {
	if it.Type != format.Float64 {
		return nil, wrongType(it.Type)
	}
	out := make([]float64, it.ArrayLen)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(it.Array[i*8:]))
	}
	return out, nil
}
