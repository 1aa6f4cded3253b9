package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amirbrooks/nextaction/internal/remote"
)

const statuslineTimeout = 5 * time.Second

// statuslineInput is the JSON context an editor pipes to the status line
// command. Only the working directory is used.
type statuslineInput struct {
	Cwd       string `json:"cwd"`
	Workspace struct {
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
}

func (in statuslineInput) dir() string {
	if in.Cwd != "" {
		return in.Cwd
	}
	return in.Workspace.CurrentDir
}

func (a *app) statuslineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statusline",
		Short: "Render one status line from a JSON context on stdin",
		Long: `Reads a JSON object such as {"cwd": "/path/to/project"} from stdin and
prints one line without a trailing newline. Todoist results are cached for
refresh.todoist.interval_seconds between invocations.`,
		Args: noArgs,
		RunE: a.runStatusline,
	}
}

func (a *app) runStatusline(cmd *cobra.Command, _ []string) error {
	cfg, err := a.setup(cmd, slog.LevelWarn)
	if err != nil {
		a.log.Error("statusline config", "error", err)
		a.printf("⚠ nextaction: %v", err)
		return quietError{err: err}
	}

	input := a.readStatuslineInput()
	dir := input.dir()
	if dir == "" {
		if dir, err = a.workDir(); err != nil {
			return err
		}
	}
	sel, err := a.selector(cfg)
	if err != nil {
		a.printf("⚠ nextaction: %v", err)
		return quietError{err: err}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statuslineTimeout)
	defer cancel()
	d := sel.Next(ctx, dir, false)

	var top *remote.Task
	if t, ok := d.TopRemote(); ok {
		top = &t
	}
	a.printf("%s", a.renderer(cfg, true).Statusline(d.Local, top, a.now()))
	return nil
}

// readStatuslineInput decodes stdin. A terminal, empty input or bad JSON
// all yield the zero input.
func (a *app) readStatuslineInput() statuslineInput {
	var in statuslineInput
	if f, ok := a.streams.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return in
	}
	if a.streams.In == nil {
		return in
	}
	data, err := io.ReadAll(io.LimitReader(a.streams.In, 1<<20))
	if err != nil {
		a.log.Debug("statusline stdin unreadable", "error", err)
		return in
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return in
	}
	if err := json.Unmarshal(data, &in); err != nil {
		a.log.Debug("statusline input is not JSON", "error", err)
		return statuslineInput{}
	}
	return in
}
