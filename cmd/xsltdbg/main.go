// Command xsltdbg is the headless/REPL CLI entry point. Grounded on
// a cobra root command: one Command var per subcommand, package flag vars
// bound in init, RunE returning a wrapped error.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imdj360/xsltdbg/pkg/backend/legacy"
	"github.com/imdj360/xsltdbg/pkg/backend/modern"
	"github.com/imdj360/xsltdbg/pkg/config"
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/replterm"
	"github.com/imdj360/xsltdbg/pkg/session"
	"github.com/imdj360/xsltdbg/pkg/tracelog"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xsltdbg",
	Short: "XSLT source-level debugger",
	Long:  "xsltdbg — a source-level step debugger for XSLT stylesheets, driven by the Debug Adapter Protocol or this CLI.",
}

// --- shared launch flags ---

var (
	launchOutput              string
	launchEngine              string
	launchStopOnEntry         bool
	launchInstrumentFunctions bool
	launchLogLevel            string
	launchTracePath           string
)

func bindLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&launchOutput, "output", "", "Path to write the transform result (defaults to <stylesheet>.out.xml)")
	cmd.Flags().StringVar(&launchEngine, "engine", "modern", "Backend engine: legacy or modern")
	cmd.Flags().BoolVar(&launchStopOnEntry, "stop-on-entry", false, "Pause at the first instrumented line")
	cmd.Flags().BoolVar(&launchInstrumentFunctions, "instrument-functions", false, "Add a dbg:break probe to each xsl:function's xsl:sequence body (modern engine only)")
	cmd.Flags().StringVar(&launchLogLevel, "log-level", "None", "Diagnostic verbosity: None, Log, Trace, or TraceAll")
	cmd.Flags().StringVar(&launchTracePath, "trace-file", "", "Write the internal JSONL diagnostic trail to this file")
}

func buildLaunchOptions(stylesheetPath, inputPath string) (*config.LaunchOptions, error) {
	opts := &config.LaunchOptions{
		StylesheetPath:      stylesheetPath,
		InputPath:           inputPath,
		OutputPath:          launchOutput,
		Engine:              launchEngine,
		StopOnEntry:         launchStopOnEntry,
		LogLevel:            config.LogLevel(launchLogLevel),
		InstrumentFunctions: launchInstrumentFunctions,
		TracePath:           launchTracePath,
	}
	if errs := config.Validate(opts); len(errs) != 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("invalid launch options: %s", strings.Join(msgs, "; "))
	}
	return opts, nil
}

func resolveBackend(name string) (dbgengine.Backend, error) {
	switch name {
	case "", "modern":
		return modern.New(), nil
	case "legacy":
		return legacy.New(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q — use \"legacy\" or \"modern\"", name)
	}
}

func openTrace(path string) (*tracelog.Writer, error) {
	if path == "" {
		return nil, nil
	}
	return tracelog.NewFileWriter(path, "cli")
}

// --- run: headless, auto-continue to completion ---

var runCmd = &cobra.Command{
	Use:   "run <stylesheet.xsl> <input.xml>",
	Short: "Run a transform headlessly, auto-continuing past every breakpoint",
	Args:  cobra.ExactArgs(2),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	opts, err := buildLaunchOptions(args[0], args[1])
	if err != nil {
		return err
	}
	backend, err := resolveBackend(opts.Engine)
	if err != nil {
		return err
	}
	trace, err := openTrace(opts.TracePath)
	if err != nil {
		return err
	}

	events := &cliEvents{headless: true}
	engine := dbgengine.New(backend, events)
	if err := engine.Start(opts.ToEngineOptions(trace)); err != nil {
		return err
	}

	// Headless mode never stops for breakpoints — continue through every
	// pause until the session terminates.
	go func() {
		for {
			switch engine.Status().Kind {
			case session.Terminated:
				return
			case session.Paused:
				_ = engine.Continue()
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	engine.Wait()
	if events.exitCode != dbgengine.ExitSuccess {
		return fmt.Errorf("transform finished with exit code %d", events.exitCode)
	}
	return nil
}

// cliEvents prints output as it arrives and remembers the final exit code.
type cliEvents struct {
	exitCode int
	headless bool
}

func (c *cliEvents) Stopped(file string, line int, reason session.Reason) {
	if c.headless {
		fmt.Printf("stopped at %s:%d (%s) — continuing (headless run)\n", file, line, reason)
		return
	}
	fmt.Printf("stopped at %s:%d (%s)\n", file, line, reason)
}
func (c *cliEvents) Output(text string)      { fmt.Println(text) }
func (c *cliEvents) Terminated(exitCode int) { c.exitCode = exitCode }
func (c *cliEvents) VariableCaptured(name, value string) {
	fmt.Printf("  %s = %q\n", name, value)
}
func (c *cliEvents) BreakpointsResolved(file string, lines []dbgengine.BreakpointStatus) {}

// --- debug: interactive REPL ---

var debugCmd = &cobra.Command{
	Use:   "debug <stylesheet.xsl> <input.xml>",
	Short: "Launch the interactive debug console for a stylesheet",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	opts, err := buildLaunchOptions(args[0], args[1])
	if err != nil {
		return err
	}
	backend, err := resolveBackend(opts.Engine)
	if err != nil {
		return err
	}
	trace, err := openTrace(opts.TracePath)
	if err != nil {
		return err
	}

	events := &cliEvents{}
	engine := dbgengine.New(backend, events)
	if err := engine.Start(opts.ToEngineOptions(trace)); err != nil {
		return err
	}

	console := replterm.New(engine, os.Stdout)
	return console.Run()
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the launch-options JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	data, err := config.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xsltdbg %s (build: %s)\n", version, commit)
	},
}

func init() {
	bindLaunchFlags(runCmd)
	bindLaunchFlags(debugCmd)

	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
