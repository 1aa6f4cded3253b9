package remote

type DateMode string

const (
	ModeAll        DateMode = "all"
	ModeDueToday   DateMode = "due_today"
	ModeOverdue    DateMode = "overdue"
	ModeActionable DateMode = "actionable"
)

type DeferSourceType string

const (
	DeferLabelPrefix       DeferSourceType = "label_prefix"
	DeferDescriptionPrefix DeferSourceType = "description_prefix"
)

type FilterConfig struct {
	ExcludeLabels           []string         `yaml:"exclude_labels" mapstructure:"exclude_labels"`
	IncludeLabels           []string         `yaml:"include_labels" mapstructure:"include_labels"`
	RequireAllIncludeLabels bool             `yaml:"require_all_include_labels" mapstructure:"require_all_include_labels"`
	IncludeProjects         []string         `yaml:"include_projects" mapstructure:"include_projects"`
	ExcludeProjects         []string         `yaml:"exclude_projects" mapstructure:"exclude_projects"`
	DateFilter              DateFilterConfig `yaml:"date_filter" mapstructure:"date_filter"`
}

type DateFilterConfig struct {
	Mode             DateMode             `yaml:"mode" mapstructure:"mode"`
	RespectDueTime   bool                 `yaml:"respect_due_time" mapstructure:"respect_due_time"`
	RespectStartDate bool                 `yaml:"respect_start_date" mapstructure:"respect_start_date"`
	IncludeNoDate    bool                 `yaml:"include_no_date" mapstructure:"include_no_date"`
	IncludeOverdue   bool                 `yaml:"include_overdue" mapstructure:"include_overdue"`
	DeferDetection   DeferDetectionConfig `yaml:"defer_detection" mapstructure:"defer_detection"`
}

// DeferDetectionConfig lists where a start date may be written on a task.
// Sources are tried in order.
type DeferDetectionConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Sources []DeferSource `yaml:"sources" mapstructure:"sources"`
}

type DeferSource struct {
	Type   DeferSourceType `yaml:"type" mapstructure:"type"`
	Prefix string          `yaml:"prefix" mapstructure:"prefix"`
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ExcludeLabels:   []string{"noapi", "someday", "waiting"},
		IncludeLabels:   []string{},
		IncludeProjects: []string{},
		ExcludeProjects: []string{"Someday/Maybe"},
		DateFilter: DateFilterConfig{
			Mode:             ModeActionable,
			RespectDueTime:   true,
			RespectStartDate: true,
			IncludeNoDate:    true,
			IncludeOverdue:   true,
			DeferDetection: DeferDetectionConfig{
				Enabled: true,
				Sources: []DeferSource{
					{Type: DeferLabelPrefix, Prefix: "defer:"},
					{Type: DeferDescriptionPrefix, Prefix: "[START:"},
				},
			},
		},
	}
}

func DefaultSort() []SortKey {
	return []SortKey{
		{Field: SortPriority, Order: Desc},
		{Field: SortDueDate, Order: Asc, Nulls: NullsLast},
		{Field: SortCreatedAt, Order: Asc},
	}
}
