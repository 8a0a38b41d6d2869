// Command xsltdbg-tui is the interactive terminal UI binary: a Bubble Tea
// app that starts a debug session and renders the stopped frame, captured
// variables, and transform output live. Uses manual os.Args flag parsing
// rather than a cobra subtree, since it has no nested commands.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/imdj360/xsltdbg/pkg/config"
	"github.com/imdj360/xsltdbg/pkg/tui"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: xsltdbg-tui <stylesheet.xsl> <input.xml> [--output path] [--engine legacy|modern] [--stop-on-entry] [--instrument-functions]")
		os.Exit(1)
	}

	opts := &config.LaunchOptions{
		StylesheetPath: os.Args[1],
		InputPath:      os.Args[2],
		Engine:         "modern",
	}

	for i := 3; i < len(os.Args); i++ {
		arg := os.Args[i]
		switch {
		case arg == "--output" && i+1 < len(os.Args):
			i++
			opts.OutputPath = os.Args[i]
		case arg == "--engine" && i+1 < len(os.Args):
			i++
			opts.Engine = os.Args[i]
		case arg == "--stop-on-entry":
			opts.StopOnEntry = true
		case arg == "--instrument-functions":
			opts.InstrumentFunctions = true
		case strings.HasPrefix(arg, "--"):
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", arg)
			os.Exit(1)
		}
	}

	if errs := config.Validate(opts); len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		os.Exit(1)
	}

	if err := tui.Run(opts, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
