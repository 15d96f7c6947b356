package kas

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasfile/kas/errs"
	"github.com/kasfile/kas/format"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data.kas")
}

func TestEmptyStoreRoundTrip(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, uint32(0), r.header.ItemCount)

	_, err = r.Get([]byte("anything"))
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestSingleUint8ArrayRoundTrip(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("abc"), format.Uint8, []uint8{1, 2, 3}))
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	defer r.Close()

	item, err := r.Get([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, format.Uint8, item.Type)

	values, err := item.Uint8s()
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 2, 3}, values)
}

func TestInsertionOrderIsNotReadOrder(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("zebra"), format.Int32, []int32{9}))
	require.NoError(t, w.Put([]byte("apple"), format.Int32, []int32{3}))
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.items, 2)
	require.Equal(t, "apple", string(r.items[0].Key))
	require.Equal(t, "zebra", string(r.items[1].Key))

	apple, err := r.Get([]byte("apple"))
	require.NoError(t, err)
	vals, err := apple.Int32s()
	require.NoError(t, err)
	require.Equal(t, []int32{3}, vals)

	zebra, err := r.Get([]byte("zebra"))
	require.NoError(t, err)
	vals, err = zebra.Int32s()
	require.NoError(t, err)
	require.Equal(t, []int32{9}, vals)
}

func TestDuplicateKeyRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("k"), format.Uint64, []uint64{1}))

	err = w.Put([]byte("k"), format.Uint64, []uint64{2})
	require.ErrorIs(t, err, errs.ErrDuplicateKey)

	require.NoError(t, w.Close())
}

func TestEmptyKeyRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)

	err = w.Put(nil, format.Uint64, []uint64{1})
	require.ErrorIs(t, err, errs.ErrEmptyKey)

	require.NoError(t, w.Close())
}

func TestWrongArrayTypeRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)

	err = w.Put([]byte("k"), format.Uint64, []uint32{1})
	require.ErrorIs(t, err, errs.ErrBadType)

	require.NoError(t, w.Close())
}

func TestMalformedFileOutOfBoundsArray(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("k"), format.Uint8, []uint8{1, 2, 3, 4}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Corrupt the single descriptor's ArrayLen (bytes 32:40) to claim a huge
	// array far beyond the file's actual size.
	for i := 0; i < 8; i++ {
		data[64+32+i] = 0xff
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path, "r")
	require.ErrorIs(t, err, errs.ErrBadFileFormat)
}

func TestNoMmapByteForByteEquivalence(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("floats"), format.Float64, []float64{1.5, -2.25, 3}))
	require.NoError(t, w.Close())

	mapped, err := Open(path, "r")
	require.NoError(t, err)
	defer mapped.Close()
	mappedItem, err := mapped.Get([]byte("floats"))
	require.NoError(t, err)

	unmapped, err := Open(path, "r", WithNoMmap())
	require.NoError(t, err)
	defer unmapped.Close()
	unmappedItem, err := unmapped.Get([]byte("floats"))
	require.NoError(t, err)

	require.True(t, bytes.Equal(mappedItem.Array, unmappedItem.Array))

	mv, err := mappedItem.Float64s()
	require.NoError(t, err)
	uv, err := unmappedItem.Float64s()
	require.NoError(t, err)
	require.Equal(t, mv, uv)
}

func TestTruncatedFileRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("k"), format.Uint8, []uint8{1, 2, 3}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o644))

	_, err = Open(path, "r")
	require.ErrorIs(t, err, errs.ErrBadFileFormat)
}

func TestBadMagicRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path, "r")
	require.ErrorIs(t, err, errs.ErrBadFileFormat)
}

func TestVersionTooNewRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[8] = 99 // VersionMajor low byte
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path, "r")
	require.ErrorIs(t, err, errs.ErrVersionTooNew)
}

func TestVersionTooOldRejected(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[8] = 0
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path, "r")
	require.ErrorIs(t, err, errs.ErrVersionTooOld)
}

func TestIdempotentClose(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}

func TestManyItemsSortedAndLookupAccelerated(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)

	keys := []string{
		"k00", "k01", "k02", "k03", "k04", "k05", "k06", "k07",
		"k08", "k09", "k10", "k11", "k12", "k13", "k14", "k15",
		"k16", "k17", "k18", "k19",
	}
	for i, k := range keys {
		require.NoError(t, w.Put([]byte(k), format.Uint32, []uint32{uint32(i)}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	defer r.Close()

	require.NotNil(t, r.idx)
	for i := 1; i < len(r.items); i++ {
		require.Negative(t, compareKeys(r.items[i-1].Key, r.items[i].Key))
	}

	for i, k := range keys {
		item, err := r.Get([]byte(k))
		require.NoError(t, err)
		vals, err := item.Uint32s()
		require.NoError(t, err)
		require.Equal(t, []uint32{uint32(i)}, vals)
	}
}

func TestDump(t *testing.T) {
	path := tempPath(t)

	w, err := Open(path, "w")
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("temperatures"), format.Float32, []float32{1, 2}))
	require.NoError(t, w.Close())

	r, err := Open(path, "r")
	require.NoError(t, err)
	defer r.Close()

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf))
	require.Contains(t, buf.String(), "temperatures")
	require.Contains(t, buf.String(), "float32")
}

func TestBadModeRejected(t *testing.T) {
	_, err := Open(tempPath(t), "x")
	require.ErrorIs(t, err, errs.ErrBadMode)
}
