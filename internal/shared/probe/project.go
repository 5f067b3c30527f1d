// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"encoding/hex"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/modfile"

	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

// Producers for the top-level deferred values of shared state. They are not
// guarded here; callers install them through Deferred.

// ProjectRoot walks up from the working directory and returns the first
// directory containing a go.mod file, or "" when none exists.
func ProjectRoot(mod *collab.Module) string {
	dir, err := mod.Process.Cwd()
	if err != nil || dir == "" {
		return ""
	}

	for {
		if mod.FS.IsFile(join(mod, dir, "go.mod")) {
			return dir
		}

		parent := mod.Path.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ProjectModule returns the module path declared by root/go.mod.
func ProjectModule(mod *collab.Module, root string) string {
	if root == "" {
		return ""
	}
	path := join(mod, root, "go.mod")
	data, err := mod.FS.ReadFile(path)
	if err != nil {
		return ""
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil || f.Module == nil {
		return ""
	}
	return f.Module.Mod.Path
}

// CacheNames lists root/.cache/sharedstate, or nil without a project root.
func CacheNames(mod *collab.Module, root string) []string {
	if root == "" {
		return nil
	}
	return mod.FS.ReadDir(join(mod, root, ".cache", symbol.Prefix))
}

// CustomInspectKey returns the name of the custom inspection hook.
func CustomInspectKey(mod *collab.Module) string {
	if mod.InspectCustom != "" {
		return mod.InspectCustom
	}
	return "inspect"
}

// NativeFuncName returns the runtime symbol name of a marker method, or ""
// when the runtime cannot resolve it.
func NativeFuncName() string {
	fn := runtime.FuncForPC(reflect.ValueOf(marker.Mark).Pointer())
	if fn == nil {
		return ""
	}
	return fn.Name()
}

// RuntimeName derives a short per-process identifier from a hash of now.
func RuntimeName(mod *collab.Module, now time.Time) string {
	h := mod.NewHash()
	h.Write([]byte(strconv.FormatInt(now.UnixMilli(), 10)))
	sum := hex.EncodeToString(h.Sum(nil))
	return mod.EncodeID("_" + sum[:3])
}

func join(mod *collab.Module, dir string, elem ...string) string {
	sep := mod.Path.Separator
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(dir, sep))
	for _, e := range elem {
		b.WriteString(sep)
		b.WriteString(e)
	}
	return b.String()
}
