package local

// ParsingConfig controls how lines of a task file are recognized.
type ParsingConfig struct {
	// NATag marks a line as the designated next action.
	NATag string `yaml:"na_tag" mapstructure:"na_tag"`
	// CheckboxPattern is the literal prefix written for new tasks.
	CheckboxPattern string `yaml:"checkbox_pattern" mapstructure:"checkbox_pattern"`
	// BareItemPattern is a regular expression matching a list-item prefix.
	BareItemPattern string `yaml:"bare_item_pattern" mapstructure:"bare_item_pattern"`
}

// RecursionConfig bounds the upward directory walk.
type RecursionConfig struct {
	StopAtHome    bool `yaml:"stop_at_home" mapstructure:"stop_at_home"`
	StopAtGitRoot bool `yaml:"stop_at_git_root" mapstructure:"stop_at_git_root"`
	// MaxDepth is the number of directories examined, the start directory
	// included.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

type Config struct {
	Filenames []string        `yaml:"filenames" mapstructure:"filenames"`
	Parsing   ParsingConfig   `yaml:"parsing" mapstructure:"parsing"`
	Recursion RecursionConfig `yaml:"recursion" mapstructure:"recursion"`
}

const (
	DefaultNATag           = "@na"
	DefaultCheckbox        = "- [ ]"
	DefaultBareItemPattern = `^\s*-\s+`
)

func DefaultConfig() Config {
	return Config{
		Filenames: []string{"TODO.md", "TASKS.md"},
		Parsing: ParsingConfig{
			NATag:           DefaultNATag,
			CheckboxPattern: DefaultCheckbox,
			BareItemPattern: DefaultBareItemPattern,
		},
		Recursion: RecursionConfig{
			StopAtHome:    true,
			StopAtGitRoot: false,
			MaxDepth:      20,
		},
	}
}
