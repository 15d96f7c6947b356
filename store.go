package kas

import (
	"io"
	"math"
	"os"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
	"github.com/kasfile/kas/internal/backing"
	"github.com/kasfile/kas/internal/index"
	"github.com/kasfile/kas/internal/options"
	"github.com/kasfile/kas/internal/pack"
	"github.com/kasfile/kas/section"
)

// storeState tracks the Fresh -> Open(Read|Write) -> Closed lifecycle of
// spec §4.8, generalizing the opened/closed boolean pair used by
// appgate-journaldreader's SdjournalReader to the two open modes this
// format supports.
type storeState uint8

const (
	stateFresh storeState = iota
	stateOpenRead
	stateOpenWrite
	stateClosed
)

// pendingItem is a write-mode item: the array is still borrowed from the
// caller (spec §9, "borrowed array payloads on write") until flush.
type pendingItem struct {
	key      []byte
	typ      format.Type
	array    any
	arrayLen uint64
}

// Store is the in-memory representation of a keyed-array container, either
// being written or having been read. A Store is not safe for concurrent use
// from multiple goroutines.
type Store struct {
	state storeState
	path  string

	// write mode
	file    *os.File
	pending []pendingItem

	// read mode
	header section.Header
	items  []Item
	buf    backing.Buffer
	idx    *index.Index
}

// Open opens path in the given mode ("r" or "w") and, in read mode, runs the
// full read pipeline (header parse, backing buffer materialization,
// descriptor validation) before returning.
func Open(path string, mode string, opts ...OpenOption) (*Store, error) {
	switch mode {
	case "w":
		f, err := os.Create(path)
		if err != nil {
			return nil, errs.Wrap(errs.IO, "kas: create failed: "+err.Error())
		}
		return &Store{state: stateOpenWrite, path: path, file: f}, nil
	case "r":
		cfg := &openConfig{}
		if err := options.Apply(cfg, opts...); err != nil {
			return nil, err
		}
		return openRead(path, cfg)
	default:
		return nil, errs.ErrBadMode
	}
}

func openRead(path string, cfg *openConfig) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, "kas: open failed: "+err.Error())
	}

	hdr, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if hdr.VersionMajor < section.VersionMajor {
		f.Close()
		return nil, errs.ErrVersionTooOld
	}
	if hdr.VersionMajor > section.VersionMajor {
		f.Close()
		return nil, errs.ErrVersionTooNew
	}

	buf, err := backing.Open(f, hdr.FileSize, cfg.noMmap)
	f.Close() // buf now owns the bytes; the descriptor is no longer needed.
	if err != nil {
		return nil, err
	}

	items, err := parseItems(buf.Bytes(), hdr)
	if err != nil {
		buf.Close()
		return nil, err
	}

	keys := make([][]byte, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}

	return &Store{
		state:  stateOpenRead,
		path:   path,
		header: hdr,
		items:  items,
		buf:    buf,
		idx:    index.Build(keys),
	}, nil
}

// addUint64 duplicates internal/pack's overflow-checked addition (unexported
// there, so duplicated here rather than widening that package's API for a
// single caller); mulUint64, unlike pack's plain multiply, reports overflow
// itself. Both are used to bound item_count against file_size before any
// allocation sized by item_count.
func mulUint64(a, b uint64) (uint64, bool) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, true
	}
	return a * b, false
}

func addUint64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a || sum > math.MaxInt64 {
		return 0, errs.Wrap(errs.BadFileFormat, "kas: offset overflow")
	}
	return sum, nil
}

// readHeader reads and parses the fixed-size header, applying the short-read
// disambiguation rule of spec §7: a clean EOF/unexpected-EOF is a format
// error, anything else is an I/O error.
func readHeader(f *os.File) (section.Header, error) {
	buf := make([]byte, section.HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return section.Header{}, errs.Wrap(errs.BadFileFormat, "kas: file too short for header")
		}
		return section.Header{}, errs.Wrap(errs.IO, "kas: header read failed: "+err.Error())
	}
	return section.ParseHeader(buf)
}

// parseItems validates every descriptor against data and hdr, recomputes
// the packer walk, and verifies it reproduces every parsed offset exactly
// (spec §4.6 step 7).
func parseItems(data []byte, hdr section.Header) ([]Item, error) {
	n := int(hdr.ItemCount)

	descRegionSize, overflow := mulUint64(uint64(n), section.DescriptorSize)
	if overflow {
		return nil, errs.Wrap(errs.BadFileFormat, "kas: item_count overflows the descriptor region size")
	}
	descRegionEnd, err := addUint64(section.HeaderSize, descRegionSize)
	if err != nil || descRegionEnd > hdr.FileSize {
		return nil, errs.Wrap(errs.BadFileFormat, "kas: item_count implies a descriptor region larger than file_size")
	}

	descs := make([]section.Descriptor, n)
	entries := make([]pack.Entry, n)

	for i := 0; i < n; i++ {
		start := section.HeaderSize + i*section.DescriptorSize
		end := start + section.DescriptorSize
		if end > len(data) {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: descriptor region out of bounds")
		}

		d, err := section.ParseDescriptor(data[start:end])
		if err != nil {
			return nil, err
		}

		if d.KeyStart+d.KeyLen < d.KeyStart || d.KeyStart+d.KeyLen > hdr.FileSize {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: key region out of bounds")
		}

		arrByteLen, overflow := d.ArrayByteLen()
		if overflow {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: array length overflows")
		}
		if d.ArrayStart+arrByteLen < d.ArrayStart || d.ArrayStart+arrByteLen > hdr.FileSize {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: array region out of bounds")
		}

		descs[i] = d
		entries[i] = pack.Entry{KeyLen: d.KeyLen, Type: d.Type, ArrayLen: d.ArrayLen}
	}

	layout, err := pack.Layout(entries)
	if err != nil {
		return nil, err
	}
	if layout.FileSize != hdr.FileSize {
		return nil, errs.Wrap(errs.BadFileFormat, "kas: file_size does not match the packer walk")
	}

	items := make([]Item, n)
	for i, d := range descs {
		if layout.KeyStart[i] != d.KeyStart || layout.ArrayStart[i] != d.ArrayStart {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: descriptor offsets do not match the packer walk")
		}

		arrByteLen, _ := d.ArrayByteLen()
		items[i] = Item{
			Key:        data[d.KeyStart : d.KeyStart+d.KeyLen],
			Type:       d.Type,
			Array:      data[d.ArrayStart : d.ArrayStart+arrByteLen],
			ArrayLen:   d.ArrayLen,
			KeyStart:   d.KeyStart,
			ArrayStart: d.ArrayStart,
		}
	}

	for i := 1; i < len(items); i++ {
		if compareKeys(items[i-1].Key, items[i].Key) >= 0 {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: items are not strictly sorted by key")
		}
	}

	return items, nil
}

// Close flushes a write-mode store (sort, pack, emit) and always releases
// the backing buffer and file handle, reporting the first error seen.
// Closing a Fresh or already-Closed store is a no-op.
func (s *Store) Close() error {
	if s.state == stateFresh || s.state == stateClosed {
		s.state = stateClosed
		return nil
	}

	var result error
	if s.state == stateOpenWrite {
		result = s.flush()
	}

	if s.buf != nil {
		if err := s.buf.Close(); err != nil && result == nil {
			result = errs.Wrap(errs.IO, "kas: closing backing buffer failed: "+err.Error())
		}
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && result == nil {
			result = errs.Wrap(errs.IO, "kas: closing file failed: "+err.Error())
		}
	}

	s.state = stateClosed
	s.file = nil
	s.buf = nil
	s.pending = nil
	s.items = nil
	s.idx = nil

	return result
}
