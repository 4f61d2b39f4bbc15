// Package main provides the entry point for editline.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true

	_, err := parser.Parse()
	if flags.WroteHelp(err) {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}

	// A subcommand already ran from inside Parse.
	if parser.Active != nil {
		return
	}

	if opts.Version {
		printVersion()
		return
	}

	if err := runREPL(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
