// Package pack implements the deterministic offset-assignment walk shared by
// the writer (to lay out a new file) and the reader (to verify an existing
// one): spec §4.4, "the packer walk".
package pack

import (
	"math"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
	"github.com/kasfile/kas/section"
)

// Entry is the minimal per-item information the packer needs: the byte
// length of the key and the element type/count of the array. It is a plain
// struct rather than an interface so this package never needs to import the
// root package's Item type (which itself depends on pack for Open/Close).
type Entry struct {
	KeyLen   uint64
	Type     format.Type
	ArrayLen uint64
}

// Result is the packer's output: one (KeyStart, ArrayStart) pair per input
// entry, in the same order, plus the resulting total file size.
type Result struct {
	KeyStart   []uint64
	ArrayStart []uint64
	FileSize   uint64
}

// Layout runs the four-step packer walk of spec §4.4 over entries, which
// must already be in their final (sorted) order.
func Layout(entries []Entry) (Result, error) {
	n := uint64(len(entries))

	offset, err := addUint64(section.HeaderSize, mulUint64(n, section.DescriptorSize))
	if err != nil {
		return Result{}, err
	}

	res := Result{
		KeyStart:   make([]uint64, len(entries)),
		ArrayStart: make([]uint64, len(entries)),
	}

	for i, e := range entries {
		res.KeyStart[i] = offset
		offset, err = addUint64(offset, e.KeyLen)
		if err != nil {
			return Result{}, err
		}
	}

	for i, e := range entries {
		offset = alignUp(offset, section.ArrayAlign)

		res.ArrayStart[i] = offset

		width := uint64(format.Width(e.Type))
		byteLen := mulUint64(e.ArrayLen, width)
		if e.ArrayLen != 0 && byteLen/e.ArrayLen != width {
			return Result{}, errs.Wrap(errs.BadFileFormat, "kas: array length overflow")
		}

		offset, err = addUint64(offset, byteLen)
		if err != nil {
			return Result{}, err
		}
	}

	res.FileSize = offset

	return res, nil
}

// alignUp rounds x up to the next multiple of align, which must be a power
// of two.
func alignUp(x, align uint64) uint64 {
	return (x + align - 1) &^ (align - 1)
}

func mulUint64(a, b uint64) uint64 { return a * b }

func addUint64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a || sum > math.MaxInt64 {
		return 0, errs.Wrap(errs.BadFileFormat, "kas: offset overflow")
	}
	return sum, nil
}
