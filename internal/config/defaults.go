package config

import (
	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
)

const appName = "nextaction"

func Default() Config {
	return Config{
		Local: local.DefaultConfig(),
		Todoist: TodoistConfig{
			Enabled:     true,
			APITokenEnv: "TODOIST_API_TOKEN",
			BaseURL:     remote.DefaultBaseURL,
			Filter:      remote.DefaultFilterConfig(),
			Sort:        remote.DefaultSort(),
		},
		Refresh: RefreshConfig{
			Todoist: TodoistRefreshConfig{IntervalSeconds: 600},
		},
		Display: DisplayConfig{
			MaxTaskLength:      50,
			ShowRemainingCount: true,
			ShowSource:         true,
			Icons: Icons{
				Local:   "📍",
				Todoist: "📋",
			},
			Separator: " │ ",
			Priority:  PriorityLocal,
			Color:     ColorAuto,
		},
	}
}
