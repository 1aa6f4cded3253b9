package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/nextaction/internal/config"
	"github.com/amirbrooks/nextaction/internal/fileutil"
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
	"github.com/amirbrooks/nextaction/internal/selection"
)

func (a *app) naCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "na [task...]",
		Short: "Show the next action, or add a task as the next action",
		Example: `  nextaction na
  nextaction na "Fix authentication bug"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.runShow(cmd, args)
			}
			return a.runAdd(cmd, strings.Join(args, " "), local.PositionTop, true)
		},
	}
}

func (a *app) addCommand(name string, pos local.Position) *cobra.Command {
	short := "Add a task to the bottom of the nearest task file"
	if pos == local.PositionTop {
		short = "Add a task above the first list item of the nearest task file"
	}
	return &cobra.Command{
		Use:   name + " <task...>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return usagef("usage: %s %q", cmd.CommandPath(), "task description")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd, strings.Join(args, " "), pos, false)
		},
	}
}

func (a *app) runShow(cmd *cobra.Command, _ []string) error {
	return a.show(cmd, false)
}

func (a *app) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch Todoist now, ignoring the cached snapshot",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.show(cmd, true)
		},
	}
}

func (a *app) show(cmd *cobra.Command, force bool) error {
	cfg, err := a.setup(cmd, slog.LevelInfo)
	if err != nil {
		return err
	}
	sel, err := a.selector(cfg)
	if err != nil {
		return err
	}
	dir, err := a.workDir()
	if err != nil {
		return err
	}
	if force && sel.Source == nil {
		a.log.Info("todoist disabled or token missing; showing local only")
	}

	d := sel.Next(cmd.Context(), dir, force)
	if a.opts.json {
		return a.writeJSON(d)
	}
	var top *remote.Task
	if t, ok := d.TopRemote(); ok {
		top = &t
	}
	a.printf("%s\n", a.renderer(cfg, false).Statusline(d.Local, top, a.now()))
	return nil
}

type addResult struct {
	Added    string         `json:"added"`
	Path     string         `json:"path"`
	Position local.Position `json:"position"`
	NA       bool           `json:"na"`
}

func (a *app) runAdd(cmd *cobra.Command, text string, pos local.Position, asNA bool) error {
	text = strings.TrimSpace(text)
	cfg, err := a.setup(cmd, slog.LevelInfo)
	if err != nil {
		return err
	}
	sel, err := a.selector(cfg)
	if err != nil {
		return err
	}
	dir, err := a.workDir()
	if err != nil {
		return err
	}

	path, err := sel.AddLocal(dir, text, pos, asNA)
	if err != nil {
		return err
	}
	a.log.Debug("task added", "path", path, "position", pos, "na", asNA)
	if a.opts.json {
		return a.writeJSON(addResult{Added: text, Path: path, Position: pos, NA: asNA})
	}
	switch {
	case asNA:
		a.printf("%s Added next action: %s\n", cfg.Display.Icons.Local, text)
	case pos == local.PositionTop:
		a.printf("%s Added: %s\n", cfg.Display.Icons.Local, text)
	default:
		a.printf("%s Added: %s\n", cfg.Display.Icons.Todoist, text)
	}
	a.printf("   → %s\n", path)
	return nil
}

type doneResult struct {
	Local  *local.ScanOutcome `json:"local,omitempty"`
	Remote *remote.Task       `json:"remote,omitempty"`
}

func (a *app) doneCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "done [local|todoist]",
		Short:     "Complete the current task",
		Long:      "Complete the current local task and, when Todoist is enabled, the current Todoist task. Name a side to complete only that one.",
		ValidArgs: []string{"local", "todoist"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 || (len(args) == 1 && args[0] != "local" && args[0] != "todoist") {
				return usagef("usage: %s [local|todoist]", cmd.CommandPath())
			}
			return nil
		},
		RunE: a.runDone,
	}
}

func (a *app) runDone(cmd *cobra.Command, args []string) error {
	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	cfg, err := a.setup(cmd, slog.LevelInfo)
	if err != nil {
		return err
	}
	sel, err := a.selector(cfg)
	if err != nil {
		return err
	}
	dir, err := a.workDir()
	if err != nil {
		return err
	}

	var res doneResult
	if target == "" || target == "local" {
		out, err := sel.CompleteLocal(dir)
		switch {
		case err == nil:
			res.Local = &out
			if !a.opts.json {
				a.printf("✅ Completed: %s\n", out.Task)
			}
		case errors.Is(err, selection.ErrNoTask) && target == "":
			if !a.opts.json {
				a.printf("No local task to complete\n")
			}
		default:
			return err
		}
	}
	if target == "todoist" || (target == "" && sel.Source != nil) {
		task, err := sel.CompleteRemote(cmd.Context())
		switch {
		case err == nil:
			res.Remote = &task
			if !a.opts.json {
				a.printf("✅ Completed (Todoist): %s\n", task.Content)
			}
		case errors.Is(err, selection.ErrNoTask) && target == "":
		default:
			return err
		}
	}
	if a.opts.json {
		return a.writeJSON(res)
	}
	return nil
}

type skipResult struct {
	Skipped local.ScanOutcome `json:"skipped"`
	Next    local.ScanOutcome `json:"next"`
}

func (a *app) skipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Remove the tag from the current local task and show the next one",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.setup(cmd, slog.LevelInfo)
			if err != nil {
				return err
			}
			sel, err := a.selector(cfg)
			if err != nil {
				return err
			}
			dir, err := a.workDir()
			if err != nil {
				return err
			}

			out, err := sel.SkipLocal(dir)
			if err != nil {
				return err
			}
			next := sel.Local(dir)
			if a.opts.json {
				return a.writeJSON(skipResult{Skipped: out, Next: next})
			}
			a.printf("⏭ Skipped: %s\n", out.Task)
			if next.Found {
				a.printf("%s Next: %s\n", cfg.Display.Icons.Local, next.Task)
			}
			return nil
		},
	}
}

type listResult struct {
	Source     string            `json:"source"`
	Path       string            `json:"path"`
	Candidates []local.Candidate `json:"candidates"`
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every open task of the nearest task file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.setup(cmd, slog.LevelInfo)
			if err != nil {
				return err
			}
			sel, err := a.selector(cfg)
			if err != nil {
				return err
			}
			dir, err := a.workDir()
			if err != nil {
				return err
			}

			path := sel.Local(dir).AbsolutePath
			if path == "" {
				path = sel.Scanner.FindOrCreateTodoPath(dir)
				if !fileutil.Exists(path) {
					return fmt.Errorf("%w: no %s above %s", local.ErrNotFound, strings.Join(cfg.Local.Filenames, " or "), dir)
				}
			}
			res := sel.Scanner.Parser().ParseFile(path)
			source, err := filepath.Rel(dir, path)
			if err != nil {
				source = path
			}
			if a.opts.json {
				candidates := res.Candidates
				if candidates == nil {
					candidates = []local.Candidate{}
				}
				return a.writeJSON(listResult{Source: source, Path: path, Candidates: candidates})
			}
			a.printf("%s", a.renderer(cfg, false).List(source, res))
			return nil
		},
	}
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
		Args:  noArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config as YAML",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := a.setup(cmd, slog.LevelInfo)
				if err != nil {
					return err
				}
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = a.streams.Out.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use and the search order",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, ok, err := config.Resolve(a.opts.configPath)
				if err != nil {
					return err
				}
				if a.opts.json {
					return a.writeJSON(map[string]any{"path": path, "found": ok, "search": config.Paths()})
				}
				if ok {
					a.printf("%s\n", path)
				} else {
					a.printf("(defaults, no config file found)\n")
				}
				a.printf("search order:\n")
				for _, p := range config.Paths() {
					mark := " "
					if ok && p == path {
						mark = "*"
					}
					a.printf(" %s %s\n", mark, p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default config to the first search path (or --config)",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				target := fileutil.ExpandHome(a.opts.configPath)
				if target == "" {
					paths := config.Paths()
					if len(paths) == 0 {
						return usagef("no home directory; pass --config")
					}
					target = paths[0]
				}
				if err := config.WriteDefault(target); err != nil {
					return err
				}
				a.printf("Wrote %s\n", target)
				return nil
			},
		},
	)
	return cmd
}
