package kas

import (
	"fmt"
	"io"
	"unicode"

	"github.com/kasfile/kas/errs"
)

// Dump writes a human-readable listing of every item in the store to w, one
// line per item, in sorted key order. It is meant for debugging and CLI
// tooling, not for machine parsing.
func (s *Store) Dump(w io.Writer) error {
	if s.state != stateOpenRead {
		return errs.ErrBadMode
	}

	fmt.Fprintf(w, "kas file: %s\n", s.path)
	fmt.Fprintf(w, "version: %d.%d  items: %d  size: %d bytes\n",
		s.header.VersionMajor, s.header.VersionMinor, s.header.ItemCount, s.header.FileSize)

	for _, it := range s.items {
		fmt.Fprintf(w, "  %-24s %-8s len=%d @%d\n", formatKey(it.Key), it.Type, it.ArrayLen, it.ArrayStart)
	}

	return nil
}

// formatKey renders a key as a quoted string if every byte is printable
// ASCII, or as hex otherwise.
func formatKey(k []byte) string {
	printable := true
	for _, b := range k {
		if b > unicode.MaxASCII || !unicode.IsPrint(rune(b)) {
			printable = false
			break
		}
	}
	if printable {
		return fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("% x", k)
}
