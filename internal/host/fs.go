// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/kolkov/sharedstate/internal/shared/collab"
)

// manifestFields are the top-level manifest keys the JSON fast path looks for.
var manifestFields = []string{"name", "main", "module", "exports", "type", "version"}

func newFS() *collab.FS {
	return &collab.FS{
		ReadFile: os.ReadFile,
		Stat:     os.Stat,
		ReadDir:  readDirNames,
		IsFile:   isFile,
	}
}

func newFSBinding() *collab.FSBinding {
	return &collab.FSBinding{
		InternalModuleReadFile: readFileString,
		InternalModuleReadJSON: readManifest,
		InternalModuleStat:     fastStat,
	}
}

func cwd() (string, error) {
	return os.Getwd()
}

func isFile(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.Mode().IsRegular()
}

func readDirNames(name string) []string {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readFileString(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// readManifest reads a JSON manifest and reports whether it declares any of
// manifestFields, probing keys with jsoniter.Get instead of decoding the
// whole document.
func readManifest(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, field := range manifestFields {
		if jsoniter.Get(data, field).ValueType() != jsoniter.InvalidValue {
			return string(data), true
		}
	}
	return string(data), false
}
