package local

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	checkedRe   = regexp.MustCompile(`^\s*-\s*\[[xX]\]`)
	uncheckedRe = regexp.MustCompile(`^(\s*)-\s*\[\s*\]\s*(.+)$`)
	// uncheckedPrefixRe matches the box alone, for rewriting it in place.
	uncheckedPrefixRe = regexp.MustCompile(`^(\s*)-\s*\[\s*\]`)
)

// Candidate is one actionable line of a task file.
type Candidate struct {
	Text string `json:"text"`
	Line int    `json:"line"`
	Kind Kind   `json:"type"`
}

func (c Candidate) Precedence() int { return c.Kind.Precedence() }

// ParseResult is the outcome of parsing a single file. Remaining counts every
// other candidate in the file, whatever its precedence.
type ParseResult struct {
	Primary    *Candidate  `json:"primary"`
	Remaining  int         `json:"remaining"`
	File       string      `json:"file"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// lineRules holds the compiled form of a ParsingConfig. Parser and Mutator
// share it so both agree on what a list item and a tag look like.
type lineRules struct {
	tag      string
	checkbox string
	listItem *regexp.Regexp
}

func newLineRules(cfg ParsingConfig) (lineRules, error) {
	tag := cfg.NATag
	if strings.TrimSpace(tag) == "" {
		tag = DefaultNATag
	}
	checkbox := strings.TrimSpace(cfg.CheckboxPattern)
	if checkbox == "" {
		checkbox = DefaultCheckbox
	}
	pattern := cfg.BareItemPattern
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultBareItemPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return lineRules{}, fmt.Errorf("%w: bare item pattern %q: %v", ErrInvalid, pattern, err)
	}
	return lineRules{tag: tag, checkbox: checkbox, listItem: re}, nil
}

func (r lineRules) stripTag(s string) string {
	return strings.ReplaceAll(s, r.tag, "")
}

// bareText returns the text after a list-item prefix, or false when the line
// is not a list item or is shaped like a checkbox.
func (r lineRules) bareText(line string) (string, bool) {
	loc := r.listItem.FindStringIndex(line)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	rest := line[loc[1]:]
	for _, box := range []string{"[ ]", "[x]", "[X]"} {
		if strings.HasPrefix(rest, box) {
			return "", false
		}
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Parser extracts candidates from task files and ranks them.
type Parser struct {
	rules lineRules
	fs    FileSystem
}

func NewParser(cfg ParsingConfig, fsys FileSystem) (*Parser, error) {
	rules, err := newLineRules(cfg)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Parser{rules: rules, fs: fsys}, nil
}

// ParseFile reads and parses path. A missing or unreadable file parses to
// an empty result.
func (p *Parser) ParseFile(path string) ParseResult {
	b, err := p.fs.ReadFile(path)
	if err != nil {
		return ParseResult{File: path}
	}
	return p.ParseText(string(b), path)
}

// ParseText ranks the candidates in content. A line that looks like both a
// checkbox and a list item is always read as a checkbox.
func (p *Parser) ParseText(content, source string) ParseResult {
	var tasks []Candidate
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		hasTag := strings.Contains(line, p.rules.tag)

		if checkedRe.MatchString(line) {
			continue
		}
		if m := uncheckedRe.FindStringSubmatch(line); m != nil {
			kind := KindCheckbox
			if hasTag {
				kind = KindCheckboxTagged
			}
			tasks = append(tasks, Candidate{
				Text: strings.TrimSpace(p.rules.stripTag(m[2])),
				Line: i + 1,
				Kind: kind,
			})
			continue
		}
		if !hasTag {
			continue
		}
		if rest, ok := p.rules.bareText(line); ok {
			tasks = append(tasks, Candidate{
				Text: strings.TrimSpace(p.rules.stripTag(rest)),
				Line: i + 1,
				Kind: KindBareTagged,
			})
		}
	}
	if len(tasks) == 0 {
		return ParseResult{File: source}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Precedence() < tasks[j].Precedence()
	})
	primary := tasks[0]
	return ParseResult{
		Primary:    &primary,
		Remaining:  len(tasks) - 1,
		File:       source,
		Candidates: tasks,
	}
}
