// Package main implements the sharedstate CLI tool.
//
// The sharedstate tool inspects the process-wide shared state the way a
// program linking the library sees it:
//
//  1. Constructing (or adopting) the shared state
//  2. Installing host collaborators
//  3. Resolving every capability probe
//  4. Printing the result in the requested format
//
// Usage:
//
//	sharedstate probe                  # Print every capability as text
//	sharedstate probe -format json     # Print as JSON
//	sharedstate symbols                # Print the symbol table
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/sharedstate/internal/logging"
	"github.com/kolkov/sharedstate/shared"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logging.ConfigureRuntime()

	command := os.Args[1]

	switch command {
	case "probe":
		probeCommand(os.Args[2:])
	case "symbols":
		symbolsCommand(os.Args[2:])
	case "version", "--version", "-v":
		info := shared.GetInfo()
		fmt.Printf("sharedstate version %s (%s)\n", info.Version, info.Runtime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`sharedstate - process-wide shared state inspector

USAGE:
    sharedstate <command> [arguments]

COMMANDS:
    probe      Resolve and print every capability probe
    symbols    Print the shared symbol table
    version    Show version information
    help       Show this help message

PROBE FLAGS:
    -format    Output format: text, json, yaml, msgpack (default text)
    -config    TOML configuration file
    -dir       Directory used as the working directory for project probes

EXAMPLES:
    # Print every capability
    sharedstate probe

    # Print capabilities as YAML using a config file
    sharedstate probe -config sharedstate.toml -format yaml

    # Locate the project root of another checkout
    sharedstate probe -dir ../other -format json

ENVIRONMENT:
    SHAREDSTATE_LOG_LEVEL       trace, debug, info, warn, error, off
    SHAREDSTATE_LOG_NOCOLOR     disable colored log output
    SHAREDSTATE_LOG_TIMESTAMP   include timestamps in log output

`)
}
