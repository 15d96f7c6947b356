package kas

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
	"github.com/kasfile/kas/internal/pack"
	"github.com/kasfile/kas/section"
)

// Put stages a named array for writing. The array is borrowed, not copied:
// the caller must not mutate it before Close (spec §9). Keys need not be
// added in sorted order; Close sorts them. Put returns an error if s is not
// open for writing, key is empty, or key has already been staged.
func (s *Store) Put(key []byte, typ format.Type, array any) error {
	if s.state != stateOpenWrite {
		return errs.ErrBadMode
	}
	if len(key) == 0 {
		return errs.ErrEmptyKey
	}
	if !format.Valid(typ) {
		return errs.Wrap(errs.BadType, "kas: invalid type tag")
	}

	n, err := elementCount(typ, array)
	if err != nil {
		return err
	}

	for _, p := range s.pending {
		if compareKeys(p.key, key) == 0 {
			return errs.ErrDuplicateKey
		}
	}

	s.pending = append(s.pending, pendingItem{key: key, typ: typ, array: array, arrayLen: n})
	return nil
}

// flush sorts the staged items, runs the packer walk, and writes the
// header, descriptors, keys, and arrays to the underlying file in a single
// pass, in the exact offsets the packer assigned.
func (s *Store) flush() error {
	sort.SliceStable(s.pending, func(i, j int) bool {
		return compareKeys(s.pending[i].key, s.pending[j].key) < 0
	})

	entries := make([]pack.Entry, len(s.pending))
	for i, p := range s.pending {
		entries[i] = pack.Entry{KeyLen: uint64(len(p.key)), Type: p.typ, ArrayLen: p.arrayLen}
	}

	layout, err := pack.Layout(entries)
	if err != nil {
		return err
	}

	if len(s.pending) > uint32Max {
		return errs.Wrap(errs.BadFileFormat, "kas: too many items")
	}

	hdr := section.NewHeader(uint32(len(s.pending)), layout.FileSize)
	if _, err := s.file.Write(hdr.Bytes()); err != nil {
		return errs.Wrap(errs.IO, "kas: writing header failed: "+err.Error())
	}

	for i, p := range s.pending {
		d := section.Descriptor{
			Type:       p.typ,
			KeyStart:   layout.KeyStart[i],
			KeyLen:     uint64(len(p.key)),
			ArrayStart: layout.ArrayStart[i],
			ArrayLen:   p.arrayLen,
		}
		if _, err := s.file.Write(d.Bytes()); err != nil {
			return errs.Wrap(errs.IO, "kas: writing descriptor failed: "+err.Error())
		}
	}

	pos := uint64(section.HeaderSize) + uint64(len(s.pending))*section.DescriptorSize
	for _, p := range s.pending {
		if _, err := s.file.Write(p.key); err != nil {
			return errs.Wrap(errs.IO, "kas: writing key failed: "+err.Error())
		}
		pos += uint64(len(p.key))
	}

	for i, p := range s.pending {
		if pad := layout.ArrayStart[i] - pos; pad > 0 {
			if _, err := s.file.Write(make([]byte, pad)); err != nil {
				return errs.Wrap(errs.IO, "kas: writing alignment padding failed: "+err.Error())
			}
			pos += pad
		}

		encoded, err := encodeArray(p.typ, p.array)
		if err != nil {
			return err
		}
		if _, err := s.file.Write(encoded); err != nil {
			return errs.Wrap(errs.IO, "kas: writing array failed: "+err.Error())
		}
		pos += uint64(len(encoded))
	}

	return nil
}

const uint32Max = math.MaxUint32

// elementCount type-switches array against the 8 concrete element slice
// types and returns its length, or an error if it doesn't match typ or has
// an unrecognized Go type.
func elementCount(typ format.Type, array any) (uint64, error) {
	switch typ {
	case format.Uint8:
		v, ok := array.([]uint8)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Int8:
		v, ok := array.([]int8)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Uint32:
		v, ok := array.([]uint32)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Int32:
		v, ok := array.([]int32)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Uint64:
		v, ok := array.([]uint64)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Int64:
		v, ok := array.([]int64)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Float32:
		v, ok := array.([]float32)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	case format.Float64:
		v, ok := array.([]float64)
		if !ok {
			return 0, badArray(typ)
		}
		return uint64(len(v)), nil
	default:
		return 0, errs.Wrap(errs.BadType, "kas: invalid type tag")
	}
}

func badArray(typ format.Type) error {
	return errs.Wrap(errs.BadType, "kas: array value does not match type "+typ.String())
}

// encodeArray serializes array, which must already have been validated by
// elementCount, into its little-endian on-disk representation.
func encodeArray(typ format.Type, array any) ([]byte, error) {
	switch typ {
	case format.Uint8:
		v := array.([]uint8)
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case format.Int8:
		v := array.([]int8)
		out := make([]byte, len(v))
		for i, x := range v {
			out[i] = byte(x)
		}
		return out, nil
	case format.Uint32:
		v := array.([]uint32)
		out := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[i*4:], x)
		}
		return out, nil
	case format.Int32:
		v := array.([]int32)
		out := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
		}
		return out, nil
	case format.Uint64:
		v := array.([]uint64)
		out := make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[i*8:], x)
		}
		return out, nil
	case format.Int64:
		v := array.([]int64)
		out := make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(x))
		}
		return out, nil
	case format.Float32:
		v := array.([]float32)
		out := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out, nil
	case format.Float64:
		v := array.([]float64)
		out := make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
		}
		return out, nil
	default:
		return nil, errs.Wrap(errs.BadType, "kas: invalid type tag")
	}
}
