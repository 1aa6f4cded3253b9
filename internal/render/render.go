// Package render formats next actions for the status line and the CLI.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/amirbrooks/nextaction/internal/config"
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
)

const emptyState = "✓ No pending actions"

// Profile picks the color profile for a color mode. tty reports whether
// the consumer interprets escape sequences.
func Profile(mode config.ColorMode, tty bool) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		return termenv.ANSI256
	case config.ColorNever:
		return termenv.Ascii
	}
	if tty {
		return termenv.ANSI256
	}
	return termenv.Ascii
}

type Renderer struct {
	cfg  config.DisplayConfig
	dim  lipgloss.Style
	bold lipgloss.Style
}

func New(w io.Writer, cfg config.DisplayConfig, profile termenv.Profile) *Renderer {
	lr := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	lr.SetColorProfile(profile)
	return &Renderer{
		cfg:  cfg,
		dim:  lr.NewStyle().Faint(true),
		bold: lr.NewStyle().Bold(true),
	}
}

// Truncate shortens text to the configured display width, ending with an
// ellipsis when cut.
func (r *Renderer) Truncate(text string) string {
	limit := r.cfg.MaxTaskLength
	if limit < 1 || ansi.StringWidth(text) <= limit {
		return text
	}
	return ansi.Truncate(text, limit, "…")
}

// ShortSource replaces a leading parent step with an arrow.
func ShortSource(source string) string {
	parent := ".." + string(filepath.Separator)
	if strings.HasPrefix(source, parent) {
		return "↑" + strings.TrimPrefix(source, parent)
	}
	return source
}

// Local renders the local part, or "" when nothing was found.
func (r *Renderer) Local(out local.ScanOutcome) string {
	if !out.Found || out.Task == "" {
		return ""
	}
	text := r.Truncate(out.Task)
	if r.cfg.ShowRemainingCount && out.Remaining > 0 {
		text += fmt.Sprintf(" +%d", out.Remaining)
	}
	if r.cfg.ShowSource && out.Source != "" {
		text += " " + r.dim.Render("["+ShortSource(out.Source)+"]")
	}
	return r.cfg.Icons.Local + " " + text
}

// Remote renders one remote task with its priority and due date.
func (r *Renderer) Remote(task remote.Task, now time.Time) string {
	text := r.Truncate(task.Content)
	var meta []string
	if task.Priority > 1 {
		meta = append(meta, fmt.Sprintf("p%d", 5-task.Priority))
	}
	if due := FormatDue(task.Due, now); due != "" {
		meta = append(meta, due)
	}
	if len(meta) > 0 {
		text += " " + r.dim.Render("["+strings.Join(meta, "·")+"]")
	}
	return r.cfg.Icons.Todoist + " " + text
}

// Statusline joins the local and remote parts in display priority order.
func (r *Renderer) Statusline(out local.ScanOutcome, task *remote.Task, now time.Time) string {
	var parts []string
	if s := r.Local(out); s != "" {
		parts = append(parts, s)
	}
	if task != nil {
		parts = append(parts, r.Remote(*task, now))
	}
	if len(parts) == 0 {
		return r.dim.Render(emptyState)
	}
	if r.cfg.Priority == config.PriorityTodoist && len(parts) == 2 {
		parts[0], parts[1] = parts[1], parts[0]
	}
	return strings.Join(parts, r.cfg.Separator)
}

// List renders every candidate of one task file, primary first.
func (r *Renderer) List(source string, res local.ParseResult) string {
	var b strings.Builder
	b.WriteString(r.cfg.Icons.Local + " " + r.bold.Render(source) + "\n")
	if len(res.Candidates) == 0 {
		b.WriteString("  " + r.dim.Render("no open tasks") + "\n")
		return b.String()
	}
	for i, c := range res.Candidates {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, r.Truncate(c.Text), r.dim.Render(fmt.Sprintf("(%s, line %d)", c.Kind, c.Line)))
	}
	return b.String()
}

// FormatDue describes a due date relative to now: "yesterday", "3d ago",
// "today", a time of day, "tomorrow", a weekday within the week, else
// "Jan 2".
func FormatDue(due *remote.Due, now time.Time) string {
	if due == nil {
		return ""
	}
	loc := now.Location()
	day, ok := due.Day(loc)
	if !ok {
		return due.String
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := daysBetween(today, day)
	switch {
	case days == -1:
		return "yesterday"
	case days < 0:
		return fmt.Sprintf("%dd ago", -days)
	case days == 0:
		if due.HasTime() {
			if at, ok := due.Instant(loc); ok {
				return at.In(loc).Format("3:04 PM")
			}
		}
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 7:
		return day.Format("Mon")
	}
	return day.Format("Jan 2")
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
