package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"tinygoose/weights"
)

func TestRunWritesGoSource(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "weights.json")
	out := filepath.Join(dir, "packed.go")

	if err := run("", in, "", "", false, true); err != nil {
		t.Fatalf("dump defaults: %v", err)
	}

	if err := run(in, out, "evalpack", "defaultPacked", false, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"package evalpack", "var defaultPacked = [57]uint64{", "const defaultPackedTempo uint32 = 0x"} {
		if !strings.Contains(string(src), want) {
			t.Fatalf("output missing %q:\n%s", want, src)
		}
	}
}

func TestRunRejectsWrongCount(t *testing.T) {
	in := filepath.Join(t.TempDir(), "short.json")
	if err := os.WriteFile(in, []byte(`{"weights": [0.5, 1.5]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := run(in, "", "weights", "packed", false, false)
	if !errors.Is(err, weights.ErrWeightCount) {
		t.Fatalf("expected ErrWeightCount, got %v", err)
	}
}
