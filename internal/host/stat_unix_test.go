//go:build unix

package host

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFastStat verifies the raw stat binding classifies paths.
func TestFastStat(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := fastStat(file); got != 0 {
		t.Errorf("fastStat(file) = %d, want 0", got)
	}
	if got := fastStat(dir); got != 1 {
		t.Errorf("fastStat(dir) = %d, want 1", got)
	}
	if got := fastStat(filepath.Join(dir, "missing")); got >= 0 {
		t.Errorf("fastStat(missing) = %d, want negative", got)
	}
}
