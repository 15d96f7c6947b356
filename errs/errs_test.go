package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	wrapped := Wrap(KeyNotFound, "kas: key not found: \"abc\"")
	require.True(t, errors.Is(wrapped, ErrKeyNotFound))
	require.False(t, errors.Is(wrapped, ErrBadMode))
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KeyNotFound, KindOf(ErrKeyNotFound))
	require.Equal(t, Generic, KindOf(errors.New("plain")))
	require.Equal(t, BadFileFormat, KindOf(Wrap(BadFileFormat, "x")))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "key_not_found", KeyNotFound.String())
	require.Equal(t, "unknown", Kind(255).String())
}
