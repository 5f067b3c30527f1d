package host

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/state"
)

// TestNormalizeVersion verifies Go toolchain strings become plain semver.
func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"go1.24.3", "1.24.3"},
		{"go1.21", "1.21.0"},
		{"go1.25rc1", "1.25.0"},
		{"devel go1.26-abc123 Tue Jan 1 00:00:00 2026 +0000", "1.26.0"},
		{"v2.3.4", "2.3.4"},
		{"10", "10.0.0"},
		{"", ""},
		{"devel +abcdef", ""},
		{"garbage", ""},
	}
	for _, tt := range tests {
		if got := NormalizeVersion(tt.in); got != tt.want {
			t.Errorf("NormalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSatisfies verifies range checks on runtime version strings.
func TestSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"go1.24.3", ">=1.23", true},
		{"go1.22.1", ">=1.23", false},
		{"go1.12", "<1.13", true},
		{"go1.13", "<1.13", false},
		{"go1.25rc1", ">=1.24", true},
		{"garbage", ">=1", false},
		{"go1.24", "not a range", false},
	}
	for _, tt := range tests {
		if got := Satisfies(tt.version, tt.constraint); got != tt.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.version, tt.constraint, got, tt.want)
		}
	}
}

// TestMaxSatisfying verifies the highest matching version is returned as given.
func TestMaxSatisfying(t *testing.T) {
	versions := []string{"go1.21.0", "go1.23.4", "go1.22.9", "bogus", "go1.24.1"}

	if got := MaxSatisfying(versions, "<1.24"); got != "go1.23.4" {
		t.Errorf("MaxSatisfying(<1.24) = %q, want go1.23.4", got)
	}
	if got := MaxSatisfying(versions, ">=2"); got != "" {
		t.Errorf("MaxSatisfying(>=2) = %q, want empty", got)
	}
}

// TestEncodeID verifies identifiers are made safe.
func TestEncodeID(t *testing.T) {
	if got := EncodeID("_a1-b.c"); got != "_a1_b_c" {
		t.Errorf("EncodeID() = %q, want _a1_b_c", got)
	}
}

// TestPopulate_FillsCollaborators verifies the host surface resolves probes.
func TestPopulate_FillsCollaborators(t *testing.T) {
	s := state.New(zerolog.Nop())
	Populate(s)

	if s.Module.Process.Version != runtime.Version() {
		t.Errorf("Process.Version = %q", s.Module.Process.Version)
	}
	if !s.Support.InspectProxies() {
		t.Error("InspectProxies() = false with spew inspector")
	}
	if !s.Support.InternalModuleReadFile() || !s.Support.InternalModuleReadJSON() {
		t.Error("file bindings not detected")
	}
	if !s.Support.GetProxyDetails() || !s.Support.SafeGetEnv() {
		t.Error("util bindings not detected")
	}
	if s.Support.SetHiddenValue() {
		t.Error("SetHiddenValue() = true, host provides no hidden slots")
	}
	if !s.Support.NativeProxyReceiver() {
		t.Error("NativeProxyReceiver() = false")
	}
	if got := s.UtilBinding.HiddenKeyType(); got != "symbol.ID" {
		t.Errorf("HiddenKeyType() = %q, want symbol.ID", got)
	}
	if got := s.CustomInspectKey(); got != "String" {
		t.Errorf("CustomInspectKey() = %q, want String", got)
	}
	if name := s.RuntimeName(); len(name) != 4 || !strings.HasPrefix(name, "_") {
		t.Errorf("RuntimeName() = %q", name)
	}

	wantStat := fastStat != nil
	if got := s.FastPath.Stat(); got != wantStat {
		t.Errorf("FastPath.Stat() = %v, want %v", got, wantStat)
	}
}

// TestPopulate_KeepsExisting verifies Populate never replaces collaborators.
func TestPopulate_KeepsExisting(t *testing.T) {
	s := state.New(zerolog.Nop())
	custom := &collab.Process{Cwd: func() (string, error) { return "/", nil }, Version: "go1.12"}
	s.Module.Process = custom

	Populate(s)
	Populate(s)

	if s.Module.Process != custom {
		t.Fatal("Populate replaced an installed collaborator")
	}
	if got := s.UtilBinding.HiddenKeyType(); got != "string" {
		t.Errorf("HiddenKeyType() on go1.12 = %q, want string", got)
	}
}

// TestPopulate_MemoizesSatisfies verifies range checks land in the shared cache.
func TestPopulate_MemoizesSatisfies(t *testing.T) {
	s := state.New(zerolog.Nop())
	Populate(s)

	if !s.Module.Satisfies("go1.24.0", ">=1.23") {
		t.Fatal("Satisfies(go1.24.0, >=1.23) = false")
	}
	if v, ok := s.Memoize.UtilSatisfies.Get("go1.24.0\x00>=1.23"); !ok || !v {
		t.Error("result not memoized in UtilSatisfies")
	}
	if got := s.Module.MaxSatisfying([]string{"1.0.0", "1.2.0"}, "^1"); got != "1.2.0" {
		t.Errorf("MaxSatisfying() = %q, want 1.2.0", got)
	}
	if s.Memoize.UtilMaxSatisfying.Len() != 1 {
		t.Error("MaxSatisfying result not memoized")
	}
}

// TestGetProxyDetails verifies proxy introspection through the weak cache.
func TestGetProxyDetails(t *testing.T) {
	s := state.New(zerolog.Nop())
	Populate(s)

	p := &state.Proxy{Target: "target", Handler: "handler"}
	target, handler, ok := s.Module.Binding.Util.GetProxyDetails(p)
	if !ok || target != "target" || handler != "handler" {
		t.Errorf("GetProxyDetails() = %v, %v, %v", target, handler, ok)
	}
	if !s.Memoize.UtilGetProxyDetails.Has(p) {
		t.Error("proxy details not cached")
	}
	if _, _, ok := s.Module.Binding.Util.GetProxyDetails("plain"); ok {
		t.Error("plain value reported as proxy")
	}
}

// TestReadManifest verifies the JSON fast path.
func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	withFields := filepath.Join(dir, "with.json")
	without := filepath.Join(dir, "without.json")
	if err := os.WriteFile(withFields, []byte(`{"name":"demo","main":"index.js"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(without, []byte(`{"private":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if raw, ok := readManifest(withFields); !ok || !strings.Contains(raw, "demo") {
		t.Errorf("readManifest(with) = %q, %v", raw, ok)
	}
	if _, ok := readManifest(without); ok {
		t.Error("readManifest(without) reported fields")
	}
	if _, ok := readManifest(filepath.Join(dir, "missing.json")); ok {
		t.Error("readManifest(missing) succeeded")
	}
}

// TestSafeGetenv verifies the binding reads the construction-time snapshot.
func TestSafeGetenv(t *testing.T) {
	t.Setenv("SHAREDSTATE_HOST_TEST", "snapshot")
	s := state.New(zerolog.Nop())
	Populate(s)
	t.Setenv("SHAREDSTATE_HOST_TEST", "live")

	if got := s.Module.Binding.Util.SafeGetenv("SHAREDSTATE_HOST_TEST"); got != "snapshot" {
		t.Errorf("SafeGetenv() = %q, want snapshot", got)
	}
}
