// Package replterm implements the interactive debug console: a
// chzyer/readline REPL driving a dbgengine.Engine directly, for local use
// without a DAP-speaking adapter in front of it.
//
// PrefixCompleter setup, same Fields-on-whitespace command dispatch loop,
// same io.Writer-based output so tests can swap in a bytes.Buffer.
package replterm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/watch"
)

// Console is an interactive debug console over one Engine.
type Console struct {
	engine *dbgengine.Engine
	output io.Writer
}

// New creates a Console that drives engine and writes command results to
// output. Engine events go to whatever sink engine was constructed with; the
// Console does not render them.
func New(engine *dbgengine.Engine, output io.Writer) *Console {
	return &Console{engine: engine, output: output}
}

// Run starts the interactive REPL loop. It returns when the user quits or
// the input stream hits EOF/interrupt; it never stops the engine itself.
func (c *Console) Run() error {
	commands := []string{"continue", "stepIn", "stepOver", "stepOut",
		"break", "vars", "watch", "status", "terminate", "help", "quit"}

	completer := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children, readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.buildPrompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("replterm: init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(c.output, "xsltdbg console — type 'help' for available commands\n\n")

	for {
		rl.SetPrompt(c.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := c.dispatch(strings.Fields(line)); quit {
			return nil
		}
	}
}

func (c *Console) dispatch(parts []string) (quit bool) {
	cmd := parts[0]
	switch cmd {
	case "continue", "c":
		c.report(c.engine.Continue())
	case "stepIn", "si":
		c.report(c.engine.StepIn())
	case "stepOver", "so":
		c.report(c.engine.StepOver())
	case "stepOut", "su":
		c.report(c.engine.StepOut())
	case "vars", "v":
		c.printVars()
	case "watch", "w":
		if len(parts) < 2 {
			fmt.Fprintf(c.output, "usage: watch <expression>\n")
			return false
		}
		c.evalWatch(strings.Join(parts[1:], " "))
	case "status":
		fmt.Fprintf(c.output, "%s\n", c.engine.Status().Kind)
	case "terminate":
		c.report(c.engine.Terminate())
	case "help", "?":
		fmt.Fprintf(c.output, "commands: continue stepIn stepOver stepOut vars watch <expr> status terminate quit\n")
	case "quit", "q":
		fmt.Fprintf(c.output, "exiting xsltdbg console.\n")
		return true
	default:
		fmt.Fprintf(c.output, "unknown command: %q. Type 'help' for available commands.\n", cmd)
	}
	return false
}

func (c *Console) report(err error) {
	if err != nil {
		fmt.Fprintf(c.output, "error: %v\n", err)
	}
}

func (c *Console) printVars() {
	vars := c.engine.Variables()
	if len(vars) == 0 {
		fmt.Fprintf(c.output, "no variables captured.\n")
		return
	}
	for k, v := range vars {
		fmt.Fprintf(c.output, "  %s = %q\n", k, v)
	}
}

func (c *Console) evalWatch(expression string) {
	result, err := watch.Evaluate(expression, c.engine.Variables())
	if err != nil {
		fmt.Fprintf(c.output, "watch error: %v\n", err)
		return
	}
	fmt.Fprintf(c.output, "%s\n", result)
}

func (c *Console) buildPrompt() string {
	st := c.engine.Status()
	return fmt.Sprintf("xsltdbg[%s]> ", st.Kind)
}

// Stdout is the default output for standalone binaries.
func Stdout() io.Writer { return os.Stdout }
