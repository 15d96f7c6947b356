package section

import (
	"encoding/binary"
	"math"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
)

// Descriptor is the fixed-size on-disk record for one item.
type Descriptor struct {
	Type       format.Type
	KeyStart   uint64
	KeyLen     uint64
	ArrayStart uint64
	ArrayLen   uint64
}

// Bytes serializes the descriptor into a new DescriptorSize-byte block.
func (d Descriptor) Bytes() []byte {
	b := make([]byte, DescriptorSize)
	b[0] = byte(d.Type)
	// bytes 1..8 reserved, left zero.
	binary.LittleEndian.PutUint64(b[8:16], d.KeyStart)
	binary.LittleEndian.PutUint64(b[16:24], d.KeyLen)
	binary.LittleEndian.PutUint64(b[24:32], d.ArrayStart)
	binary.LittleEndian.PutUint64(b[32:40], d.ArrayLen)
	// bytes 40..64 reserved, left zero.
	return b
}

// ParseDescriptor decodes a DescriptorSize-byte block.
//
// It validates the type tag but not offset/length bounds against a file
// size: that requires context (the file size) the codec doesn't have, and
// is performed by the reader after all descriptors are parsed.
func ParseDescriptor(data []byte) (Descriptor, error) {
	if len(data) != DescriptorSize {
		return Descriptor{}, errs.Wrap(errs.BadFileFormat, "kas: short descriptor")
	}

	tag := format.Type(data[0])
	if !format.Valid(tag) {
		return Descriptor{}, errs.Wrap(errs.BadType, "kas: invalid type tag in descriptor")
	}

	return Descriptor{
		Type:       tag,
		KeyStart:   binary.LittleEndian.Uint64(data[8:16]),
		KeyLen:     binary.LittleEndian.Uint64(data[16:24]),
		ArrayStart: binary.LittleEndian.Uint64(data[24:32]),
		ArrayLen:   binary.LittleEndian.Uint64(data[32:40]),
	}, nil
}

// ArrayByteLen returns ArrayLen * width(Type), computed in a width wide
// enough to hold a 64-bit file size, and reports whether the multiplication
// overflowed a uint64.
func (d Descriptor) ArrayByteLen() (n uint64, overflow bool) {
	width := uint64(format.Width(d.Type))
	if d.ArrayLen != 0 && width > math.MaxUint64/d.ArrayLen {
		return 0, true
	}
	return d.ArrayLen * width, false
}
