package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amirbrooks/nextaction/internal/config"
	"github.com/amirbrooks/nextaction/internal/fileutil"
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
	"github.com/amirbrooks/nextaction/internal/render"
	"github.com/amirbrooks/nextaction/internal/selection"
)

// options are the global flags shared by every command.
type options struct {
	configPath string
	cwd        string
	verbose    bool
	json       bool
	maxDepth   int
	noTodoist  bool
	color      string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "config file (default: $"+config.EnvConfig+" or ~/.config/nextaction/config.yaml)")
	fs.StringVarP(&o.cwd, "cwd", "C", "", "start the search in this directory instead of the working directory")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging on stderr")
	fs.BoolVar(&o.json, "json", false, "JSON output")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "directories to examine, the start included (overrides config)")
	fs.BoolVar(&o.noTodoist, "no-todoist", false, "skip Todoist for this run")
	fs.StringVar(&o.color, "color", "", "auto, always or never (overrides config)")
}

// apply lays explicitly set flags over the loaded config.
func (o *options) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("max-depth") {
		cfg.Local.Recursion.MaxDepth = o.maxDepth
	}
	if fs.Changed("color") {
		cfg.Display.Color = config.ColorMode(o.color)
	}
	if o.noTodoist {
		cfg.Todoist.Enabled = false
	}
}

type app struct {
	streams Streams
	now     func() time.Time
	opts    options
	log     *slog.Logger
}

// setup builds the logger and loads the config for one command.
func (a *app) setup(cmd *cobra.Command, level slog.Level) (config.Config, error) {
	if a.opts.verbose {
		level = slog.LevelDebug
	}
	a.log = newLogger(a.streams.Err, level).With("command", cmd.Name())

	cfg, path, err := config.Load(a.opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	a.opts.apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if path == "" {
		path = "(defaults)"
	}
	a.log.Debug("config loaded", "path", path)
	return cfg, nil
}

func (a *app) workDir() (string, error) {
	if a.opts.cwd != "" {
		dir := fileutil.ExpandHome(a.opts.cwd)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !fileutil.Exists(dir) {
			return "", usagef("--cwd %s does not exist", dir)
		}
		return dir, nil
	}
	return os.Getwd()
}

func (a *app) selector(cfg config.Config) (*selection.Selector, error) {
	scanner, err := local.NewScanner(cfg.Local, nil)
	if err != nil {
		return nil, err
	}
	mutator, err := local.NewMutator(cfg.Local.Parsing, nil)
	if err != nil {
		return nil, err
	}
	sel := &selection.Selector{
		Scanner: scanner,
		Mutator: mutator,
		Filter:  cfg.Todoist.Filter,
		Sort:    cfg.Todoist.Sort,
		TTL:     cfg.Refresh.Todoist.TTL(),
		Now:     a.now,
		Logger:  a.log,
	}
	if !cfg.Todoist.Enabled {
		return sel, nil
	}
	token := cfg.Todoist.Token()
	if token == "" {
		a.log.Debug("todoist token not set", "env", cfg.Todoist.APITokenEnv)
		return sel, nil
	}
	sel.Source = remote.NewClient(token, cfg.Todoist.BaseURL)
	sel.Store = &remote.SnapshotStore{Path: cfg.Refresh.Todoist.CachePath()}
	return sel, nil
}

// renderer styles for stdout. tty forces the terminal decision, for
// consumers that interpret escapes without being a terminal.
func (a *app) renderer(cfg config.Config, tty bool) *render.Renderer {
	tty = tty || isTerminal(a.streams.Out)
	return render.New(a.streams.Out, cfg.Display, render.Profile(cfg.Display.Color, tty))
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.streams.Out, format, args...)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.streams.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
