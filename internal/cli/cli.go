package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/nextaction/internal/config"
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/selection"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10
)

// Streams are the process endpoints a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func Run(args []string) int {
	return run(context.Background(), args, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, time.Now)
}

func run(ctx context.Context, args []string, streams Streams, now func() time.Time) int {
	a := &app{streams: streams, now: now}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var quiet quietError
	if !errors.As(err, &quiet) {
		fmt.Fprintln(streams.Err, "nextaction:", err)
	}
	return exitCode(err)
}

// usageError marks bad invocations.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// quietError carries an exit status for a failure already reported on
// stdout.
type quietError struct{ err error }

func (e quietError) Error() string { return e.err.Error() }
func (e quietError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, local.ErrInvalid):
		return ExitUsage
	case errors.Is(err, config.ErrNotFound),
		errors.Is(err, local.ErrNotFound),
		errors.Is(err, selection.ErrNoTask):
		return ExitNotFound
	case errors.Is(err, config.ErrExists),
		errors.Is(err, local.ErrOutOfRange),
		errors.Is(err, selection.ErrNotTagged):
		return ExitConflict
	}
	return ExitInternal
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nextaction",
		Short: "Show the next action from TODO.md files and Todoist",
		Long: `nextaction surfaces one next action from the nearest TODO.md (walking up
from the working directory) and one from Todoist, rendered as a status line.

Tag a task with @na to make it the next action:
  - [ ] email boss @na`,
		Args:          noArgs,
		RunE:          a.runShow,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})
	a.opts.bind(root.PersistentFlags())

	root.AddCommand(
		a.naCommand(),
		a.addCommand("aa", local.PositionBottom),
		a.addCommand("aa!", local.PositionTop),
		a.doneCommand(),
		a.skipCommand(),
		a.refreshCommand(),
		a.listCommand(),
		a.configCommand(),
		a.statuslineCommand(),
	)
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}
