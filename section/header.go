package section

import (
	"encoding/binary"

	"github.com/kasfile/kas/errs"
)

// Header is the fixed-size record at the start of every file.
type Header struct {
	VersionMajor uint16
	VersionMinor uint16
	ItemCount    uint32
	FileSize     uint64
}

// NewHeader returns a header stamped with the current format version.
func NewHeader(itemCount uint32, fileSize uint64) Header {
	return Header{
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
		ItemCount:    itemCount,
		FileSize:     fileSize,
	}
}

// Bytes serializes the header into a new HeaderSize-byte little-endian block.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:8], Magic[:])
	binary.LittleEndian.PutUint16(b[8:10], h.VersionMajor)
	binary.LittleEndian.PutUint16(b[10:12], h.VersionMinor)
	binary.LittleEndian.PutUint32(b[12:16], h.ItemCount)
	binary.LittleEndian.PutUint64(b[16:24], h.FileSize)
	// bytes 24..64 reserved, left zero.
	return b
}

// ParseHeader decodes a HeaderSize-byte block.
//
// It checks the magic and that FileSize is at least HeaderSize, but leaves
// version-range checks (too old / too new) to the caller, since what counts
// as "supported" is a reader policy, not a codec concern.
func ParseHeader(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, errs.Wrap(errs.BadFileFormat, "kas: short header")
	}
	if string(data[0:8]) != string(Magic[:]) {
		return Header{}, errs.Wrap(errs.BadFileFormat, "kas: bad magic")
	}

	h := Header{
		VersionMajor: binary.LittleEndian.Uint16(data[8:10]),
		VersionMinor: binary.LittleEndian.Uint16(data[10:12]),
		ItemCount:    binary.LittleEndian.Uint32(data[12:16]),
		FileSize:     binary.LittleEndian.Uint64(data[16:24]),
	}
	if h.FileSize < HeaderSize {
		return Header{}, errs.Wrap(errs.BadFileFormat, "kas: file_size smaller than header")
	}

	return h, nil
}
