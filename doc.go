// Package kas implements a simple, portable container format for
// persisting a small collection of named, typed numeric arrays — a
// "keyed-array store" — to a single file, and for reading such files back,
// optionally via memory mapping for zero-copy access.
//
// # Core features
//
//   - Eight fixed numeric element types (unsigned/signed 8/32/64-bit
//     integers, 32/64-bit IEEE 754 floats), see the format package.
//   - A fixed-size, little-endian header and item descriptor layout that is
//     the same on every platform regardless of host byte order.
//   - A single flat, sorted item list per file: lookups are O(log N) binary
//     searches over distinct, byte-ordered keys.
//   - Optional memory-mapped reads (github.com/edsrzf/mmap-go) with an
//     identical, byte-for-byte equivalent heap-read fallback.
//
// # Basic usage
//
// Writing a store:
//
//	w, err := kas.Open("data.kas", "w")
//	if err != nil { ... }
//	if err := w.Put([]byte("temperatures"), format.Float64, []float64{20.1, 20.4, 19.9}); err != nil { ... }
//	if err := w.Close(); err != nil { ... }
//
// Reading it back:
//
//	r, err := kas.Open("data.kas", "r")
//	if err != nil { ... }
//	defer r.Close()
//
//	item, err := r.Get([]byte("temperatures"))
//	if err != nil { ... }
//	values, err := item.Float64s()
//
// # Package structure
//
// format defines the type registry; section implements the on-disk header
// and descriptor codec; internal/pack computes the deterministic offset
// layout used by both the writer and the reader's validation pass;
// internal/backing abstracts the read-mode backing buffer (mmap or heap);
// internal/index is an optional lookup accelerator. This package ties them
// together behind the five-operation Store API (Open, Close, Put, Get,
// Dump).
package kas
