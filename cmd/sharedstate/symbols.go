// symbols.go implements the 'sharedstate symbols' command.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/kolkov/sharedstate/internal/shared/symbol"
	"github.com/kolkov/sharedstate/shared"
)

// symbolsCommand prints the symbol table of the shared state.
func symbolsCommand(args []string) {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", args)
		os.Exit(2)
	}
	if err := writeSymbols(os.Stdout, shared.Get().Symbol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeSymbols prints one "name key" line per symbol, sorted by name.
func writeSymbols(w io.Writer, set symbol.Set) error {
	all := set.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%-18s %s\n", name, all[name].Key()); err != nil {
			return err
		}
	}
	return nil
}
