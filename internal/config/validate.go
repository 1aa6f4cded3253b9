package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amirbrooks/nextaction/internal/remote"
)

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if len(c.Local.Filenames) == 0 {
		return fmt.Errorf("%w: local.filenames is empty", ErrInvalid)
	}
	for _, name := range c.Local.Filenames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: local.filenames has a blank entry", ErrInvalid)
		}
	}
	if strings.TrimSpace(c.Local.Parsing.NATag) == "" {
		return fmt.Errorf("%w: local.parsing.na_tag is empty", ErrInvalid)
	}
	if _, err := regexp.Compile(c.Local.Parsing.BareItemPattern); err != nil {
		return fmt.Errorf("%w: local.parsing.bare_item_pattern: %v", ErrInvalid, err)
	}
	if c.Local.Recursion.MaxDepth < 0 {
		return fmt.Errorf("%w: local.recursion.max_depth must be >= 0", ErrInvalid)
	}

	df := c.Todoist.Filter.DateFilter
	switch df.Mode {
	case remote.ModeAll, remote.ModeDueToday, remote.ModeOverdue, remote.ModeActionable:
	default:
		return fmt.Errorf("%w: todoist.filter.date_filter.mode %q", ErrInvalid, df.Mode)
	}
	for i, src := range df.DeferDetection.Sources {
		switch src.Type {
		case remote.DeferLabelPrefix, remote.DeferDescriptionPrefix:
		default:
			return fmt.Errorf("%w: defer_detection.sources[%d].type %q", ErrInvalid, i, src.Type)
		}
		if src.Prefix == "" {
			return fmt.Errorf("%w: defer_detection.sources[%d].prefix is empty", ErrInvalid, i)
		}
	}
	for i, key := range c.Todoist.Sort {
		switch key.Field {
		case remote.SortPriority, remote.SortDueDate, remote.SortCreatedAt:
		default:
			return fmt.Errorf("%w: todoist.sort[%d].field %q", ErrInvalid, i, key.Field)
		}
		switch key.Order {
		case remote.Asc, remote.Desc:
		default:
			return fmt.Errorf("%w: todoist.sort[%d].order %q", ErrInvalid, i, key.Order)
		}
		switch key.Nulls {
		case "", remote.NullsFirst, remote.NullsLast:
		default:
			return fmt.Errorf("%w: todoist.sort[%d].nulls %q", ErrInvalid, i, key.Nulls)
		}
	}
	if c.Todoist.Enabled && strings.TrimSpace(c.Todoist.APITokenEnv) == "" {
		return fmt.Errorf("%w: todoist.api_token_env is empty", ErrInvalid)
	}

	if c.Refresh.Todoist.IntervalSeconds < 0 {
		return fmt.Errorf("%w: refresh.todoist.interval_seconds must be >= 0", ErrInvalid)
	}

	if c.Display.MaxTaskLength < 1 {
		return fmt.Errorf("%w: display.max_task_length must be >= 1", ErrInvalid)
	}
	switch c.Display.Priority {
	case PriorityLocal, PriorityTodoist:
	default:
		return fmt.Errorf("%w: display.priority %q", ErrInvalid, c.Display.Priority)
	}
	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: display.color %q", ErrInvalid, c.Display.Color)
	}
	return nil
}
