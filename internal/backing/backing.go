// Package backing implements the read-mode backing buffer for an open file:
// either a read-only memory-mapped region or a heap-allocated slurp of the
// whole file, chosen per spec §4.6 step 5 and §9's "tagged variant" note.
package backing

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/kasfile/kas/errs"
)

// Buffer is the backing store for every key/array view a Store hands out in
// read mode. Closing it invalidates every view that aliases it.
type Buffer interface {
	// Bytes returns the full file contents, including the header, as a
	// single slice. Descriptor offsets index directly into it.
	Bytes() []byte
	Close() error
}

// Open materializes f's contents as a Buffer.
//
// f must be positioned anywhere; Open seeks as needed. fileSize is the
// file_size field from the already-parsed header. If noMmap is false and the
// platform supports it, Open maps the file read-only with mmap-go's RDONLY
// mode, which is a shared mapping, not a private copy-on-write one; otherwise
// it reads the whole file onto the heap. The caller owns f and should close
// it once Open returns, in either case: a successful mmap does not need the
// descriptor to remain open, and the heap path has already consumed it.
func Open(f *os.File, fileSize uint64, noMmap bool) (Buffer, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.IO, "kas: stat failed: "+err.Error())
	}
	if uint64(info.Size()) != fileSize {
		return nil, errs.Wrap(errs.BadFileFormat, "kas: on-disk size does not match header file_size")
	}

	if !noMmap {
		if m, err := mmap.Map(f, mmap.RDONLY, 0); err == nil {
			return &mmapBuffer{region: m}, nil
		}
		// mmap unsupported or refused by the platform: fall back to heap.
	}

	return readHeap(f, fileSize)
}

func readHeap(f *os.File, fileSize uint64) (Buffer, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errs.Wrap(errs.IO, "kas: seek failed: "+err.Error())
	}

	buf := make([]byte, fileSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errs.Wrap(errs.BadFileFormat, "kas: file shorter than header file_size")
		}
		return nil, errs.Wrap(errs.IO, "kas: read failed: "+err.Error())
	}

	return &heapBuffer{data: buf}, nil
}

type heapBuffer struct {
	data []byte
}

func (h *heapBuffer) Bytes() []byte { return h.data }
func (h *heapBuffer) Close() error  { h.data = nil; return nil }

type mmapBuffer struct {
	region mmap.MMap
}

func (m *mmapBuffer) Bytes() []byte { return []byte(m.region) }
func (m *mmapBuffer) Close() error  { return m.region.Unmap() }
