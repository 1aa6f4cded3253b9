package remote

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// descriptionPatterns caches the compiled marker pattern per prefix.
var descriptionPatterns sync.Map

func descriptionPattern(prefix string) *regexp.Regexp {
	if re, ok := descriptionPatterns.Load(prefix); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(regexp.QuoteMeta(prefix) + `(\d{4}-\d{2}-\d{2})\]`)
	actual, _ := descriptionPatterns.LoadOrStore(prefix, re)
	return actual.(*regexp.Regexp)
}

// DeferDate returns the first start date found by the configured sources.
// A source whose date does not parse is skipped.
func DeferDate(task Task, cfg DeferDetectionConfig, loc *time.Location) (time.Time, bool) {
	if !cfg.Enabled {
		return time.Time{}, false
	}
	for _, src := range cfg.Sources {
		if src.Prefix == "" {
			continue
		}
		switch src.Type {
		case DeferLabelPrefix:
			for _, label := range task.Labels {
				if !strings.HasPrefix(label, src.Prefix) {
					continue
				}
				if d, err := parseDate(strings.TrimPrefix(label, src.Prefix), loc); err == nil {
					return d, true
				}
				break
			}
		case DeferDescriptionPrefix:
			if task.Description == "" {
				continue
			}
			if m := descriptionPattern(src.Prefix).FindStringSubmatch(task.Description); m != nil {
				if d, err := parseDate(m[1], loc); err == nil {
					return d, true
				}
			}
		}
	}
	return time.Time{}, false
}

// IsActionable applies the actionable date rules at now. Deferred tasks
// are held back only when RespectStartDate is set.
func IsActionable(task Task, cfg DateFilterConfig, now time.Time) bool {
	loc := now.Location()
	if cfg.RespectStartDate {
		if start, ok := DeferDate(task, cfg.DeferDetection, loc); ok && start.After(now) {
			return false
		}
	}
	if task.Due == nil {
		return cfg.IncludeNoDate
	}
	due, ok := task.Due.Instant(loc)
	if !ok {
		return cfg.IncludeNoDate
	}
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	if due.Before(today) {
		return cfg.IncludeOverdue
	}
	if !due.Before(tomorrow) {
		return false
	}
	if task.Due.HasTime() && cfg.RespectDueTime {
		return !due.After(now)
	}
	return true
}

// Include decides whether task survives cfg at now. Rules short-circuit in
// order: excluded labels, included labels, excluded projects, included
// projects, then the date mode.
func Include(task Task, cfg FilterConfig, now time.Time) bool {
	for _, l := range cfg.ExcludeLabels {
		if task.HasLabel(l) {
			return false
		}
	}
	if len(cfg.IncludeLabels) > 0 {
		if cfg.RequireAllIncludeLabels {
			for _, l := range cfg.IncludeLabels {
				if !task.HasLabel(l) {
					return false
				}
			}
		} else {
			matched := false
			for _, l := range cfg.IncludeLabels {
				if task.HasLabel(l) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	if task.ProjectName != "" && containsString(cfg.ExcludeProjects, task.ProjectName) {
		return false
	}
	if len(cfg.IncludeProjects) > 0 && !containsString(cfg.IncludeProjects, task.ProjectName) {
		return false
	}

	loc := now.Location()
	switch cfg.DateFilter.Mode {
	case ModeActionable:
		return IsActionable(task, cfg.DateFilter, now)
	case ModeOverdue:
		due, ok := task.Due.Instant(loc)
		return ok && due.Before(now)
	case ModeDueToday:
		day, ok := task.Due.Day(loc)
		if !ok {
			return false
		}
		today := startOfDay(now)
		return !day.Before(today) && day.Before(today.AddDate(0, 0, 1))
	default:
		return true
	}
}

// Filter returns the tasks that pass Include, in input order.
func Filter(tasks []Task, cfg FilterConfig, now time.Time) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if Include(t, cfg, now) {
			out = append(out, t)
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
