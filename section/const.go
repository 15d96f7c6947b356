// Package section implements the fixed-size, little-endian codec for the
// file header and item descriptors defined by the keyed array store format.
package section

const (
	// HeaderSize is the fixed byte size of the file header.
	HeaderSize = 64

	// DescriptorSize is the fixed byte size of one item descriptor.
	DescriptorSize = 64

	// ArrayAlign is the byte boundary every array region is padded to.
	ArrayAlign = 8

	// VersionMajor and VersionMinor are the format version this codec
	// writes and the version it natively reads. Minor differences on read
	// are accepted; major differences are rejected (too old / too new).
	VersionMajor = 1
	VersionMinor = 0
)

// Magic is the 8-byte sequence identifying the file format.
var Magic = [8]byte{'K', 'A', 'S', 'F', 'I', 'L', 'E', 0}
