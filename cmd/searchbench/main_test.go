package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestRunReportsEachRepeat(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	cfg := config{depth: 2, repeat: 2, hashMiB: 1, memProfile: filepath.Join(t.TempDir(), "heap.prof")}
	is.NoErr(run(cfg, &out, zerolog.Nop()))

	is.True(strings.Contains(out.String(), "iteration 1: bestmove"))
	is.True(strings.Contains(out.String(), "iteration 2: bestmove"))
	is.True(strings.Contains(out.String(), "total time:"))
}

func TestRunRejectsBadInput(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	is.True(run(config{depth: 0, repeat: 1, hashMiB: 1}, &out, zerolog.Nop()) != nil)

	err := run(config{depth: 2, repeat: 1, hashMiB: 1, fen: "not a fen"}, &out, zerolog.Nop())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "bad fen"))
	is.Equal(out.Len(), 0) // nothing searched
}
