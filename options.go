package kas

import "github.com/kasfile/kas/internal/options"

// openConfig holds the resolved effect of every OpenOption.
type openConfig struct {
	noMmap bool
}

// OpenOption configures Open. The only flag defined by the format today is
// WithNoMmap; the type exists so new read-side flags can be added without
// breaking callers, matching spec §4.7's "flags ... are otherwise reserved".
type OpenOption = options.Option[*openConfig]

// WithNoMmap disables memory-mapped reads, forcing the heap-slurp backing
// path even when mmap would otherwise be attempted. Byte-for-byte Get
// results are identical with or without this option (spec §8 scenario 6).
func WithNoMmap() OpenOption {
	return options.NoError(func(c *openConfig) { c.noMmap = true })
}
