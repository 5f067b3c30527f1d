// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders the resolved capabilities of a shared state.
//
// Building a report resolves every capability probe of the selected
// sections. It is meant for diagnostics, never for the hot path.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/sharedstate/internal/shared/state"
)

// Section names, in output order.
const (
	SectionSupport     = "support"
	SectionFastPath    = "fastPath"
	SectionUtilBinding = "utilBinding"
	SectionValues      = "values"
	SectionSymbols     = "symbols"
)

// Sections lists every known section.
var Sections = []string{
	SectionSupport,
	SectionFastPath,
	SectionUtilBinding,
	SectionValues,
	SectionSymbols,
}

// Format is an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported encoding.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMsgpack}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Report is a flat snapshot of a shared state.
type Report struct {
	Runtime     string            `json:"runtime" yaml:"runtime" msgpack:"runtime"`
	Inited      bool              `json:"inited" yaml:"inited" msgpack:"inited"`
	Reloaded    bool              `json:"reloaded" yaml:"reloaded" msgpack:"reloaded"`
	Support     map[string]bool   `json:"support,omitempty" yaml:"support,omitempty" msgpack:"support,omitempty"`
	FastPath    map[string]bool   `json:"fastPath,omitempty" yaml:"fastPath,omitempty" msgpack:"fastPath,omitempty"`
	UtilBinding map[string]string `json:"utilBinding,omitempty" yaml:"utilBinding,omitempty" msgpack:"utilBinding,omitempty"`
	Values      map[string]any    `json:"values,omitempty" yaml:"values,omitempty" msgpack:"values,omitempty"`
	Symbols     map[string]string `json:"symbols,omitempty" yaml:"symbols,omitempty" msgpack:"symbols,omitempty"`
}

// Build resolves the requested sections of s. No sections means all of them;
// unknown names are ignored.
func Build(s *state.State, sections ...string) *Report {
	want := make(map[string]bool, len(Sections))
	if len(sections) == 0 {
		sections = Sections
	}
	for _, name := range sections {
		want[name] = true
	}

	r := &Report{
		Inited:   s.Inited(),
		Reloaded: s.Reloaded(),
	}
	if s.Module.Process != nil {
		r.Runtime = s.Module.Process.Version
	}

	if want[SectionSupport] {
		r.Support = bools(s.Support.All())
	}
	if want[SectionFastPath] {
		r.FastPath = bools(s.FastPath.All())
	}
	if want[SectionUtilBinding] {
		r.UtilBinding = make(map[string]string)
		for k, v := range s.UtilBinding.All() {
			r.UtilBinding[k] = fmt.Sprint(v)
		}
	}
	if want[SectionValues] {
		r.Values = s.Values()
	}
	if want[SectionSymbols] {
		r.Symbols = make(map[string]string)
		for name, id := range s.Symbol.All() {
			r.Symbols[name] = id.Key()
		}
	}
	return r
}

func bools(in map[string]any) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		b, _ := v.(bool)
		out[k] = b
	}
	return out
}

// Encode writes r to w in format f.
func Encode(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatText:
		return encodeText(w, r)
	case FormatJSON:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Decode reads a report encoded by Encode in a machine format.
func Decode(rd io.Reader, f Format) (*Report, error) {
	var r Report
	var err error
	switch f {
	case FormatJSON:
		err = jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(rd).Decode(&r)
	case FormatYAML:
		err = yaml.NewDecoder(rd).Decode(&r)
	case FormatMsgpack:
		err = msgpack.NewDecoder(rd).Decode(&r)
	default:
		return nil, fmt.Errorf("format %q cannot be decoded", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", f, err)
	}
	return &r, nil
}

func encodeText(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "runtime:  %s\n", r.Runtime)
	fmt.Fprintf(&b, "inited:   %v\n", r.Inited)
	fmt.Fprintf(&b, "reloaded: %v\n", r.Reloaded)

	writeSection(&b, SectionSupport, r.Support)
	writeSection(&b, SectionFastPath, r.FastPath)
	writeSection(&b, SectionUtilBinding, r.UtilBinding)
	writeSection(&b, SectionValues, r.Values)
	writeSection(&b, SectionSymbols, r.Symbols)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection[V any](b *strings.Builder, name string, m map[string]V) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "\n[%s]\n", name)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-28s %v\n", k, m[k])
	}
}
