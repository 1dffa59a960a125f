// Command snmptree-log views and analyzes bridge event log files.
//
// Log files are created by running snmptree-bridge with the -event-log
// flag.
//
// Usage:
//
//	snmptree-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	snmptree-log view bridge.blog
//
//	# View only failures
//	snmptree-log view -failures bridge.blog
//
//	# View item errors for one quantity
//	snmptree-log view -key temperature bridge.blog
//
//	# Show statistics
//	snmptree-log stats bridge.blog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/snmptree/snmptree-go/cmd/snmptree-log/commands"
	"github.com/snmptree/snmptree-go/pkg/log"
)

const usage = `snmptree-log - Bridge Event Log Analyzer

Usage:
  snmptree-log <command> [flags] <file.blog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "snmptree-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `snmptree-log view - View log file in human-readable format

Usage:
  snmptree-log view [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}

	category := fs.String("category", "", "Filter by category (cycle, error, state, session)")
	failures := fs.Bool("failures", false, "Show only failed cycles and errors")
	key := fs.String("key", "", "Filter item errors by quantity key")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	var filter log.Filter
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}
	filter.FailuresOnly = *failures
	filter.Key = *key

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `snmptree-log stats - Show statistics about the log file

Usage:
  snmptree-log stats <file.blog>
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
