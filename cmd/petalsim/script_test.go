package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

func TestParseScript(t *testing.T) {
	steps, err := parseScript("stop@1500, start@0,pause@450,PAUSE@450,")
	require.NoError(t, err)
	assert.Equal(t, []step{
		{0, sequence.Start},
		{450 * time.Millisecond, sequence.Pause},
		{450 * time.Millisecond, sequence.Pause},
		{1500 * time.Millisecond, sequence.Stop},
	}, steps)

	steps, err = parseScript("")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseScriptRejects(t *testing.T) {
	for _, in := range []string{"start", "start@soon", "start@-5", "eject@10"} {
		_, err := parseScript(in)
		assert.Error(t, err, in)
	}
	_, err := parseScript("eject@10")
	assert.True(t, errors.Is(err, sequence.ErrUnknownButton))
}
