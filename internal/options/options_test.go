package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	noMmap bool
}

func TestApplyNoError(t *testing.T) {
	cfg := &config{}
	opt := NoError(func(c *config) { c.noMmap = true })

	require.NoError(t, Apply(cfg, opt))
	require.True(t, cfg.noMmap)
}

func TestApplyStopsOnFirstError(t *testing.T) {
	cfg := &config{}
	boom := errors.New("boom")

	calledSecond := false
	first := New(func(c *config) error { return boom })
	second := NoError(func(c *config) { calledSecond = true })

	err := Apply(cfg, first, second)
	require.ErrorIs(t, err, boom)
	require.False(t, calledSecond)
}
