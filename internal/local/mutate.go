package local

import (
	"fmt"
	"strings"
	"unicode"
)

type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// Mutator edits task files in place. Each call reads the whole file,
// changes it in memory and writes it back; concurrent external edits in
// that window are lost.
type Mutator struct {
	rules lineRules
	fs    FileSystem
}

func NewMutator(cfg ParsingConfig, fsys FileSystem) (*Mutator, error) {
	rules, err := newLineRules(cfg)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Mutator{rules: rules, fs: fsys}, nil
}

// FormatTask returns the line AppendTask writes for text.
func (m *Mutator) FormatTask(text string, asNA bool) string {
	line := m.rules.checkbox + " " + strings.TrimSpace(text)
	if asNA {
		line += " " + m.rules.tag
	}
	return line
}

// AppendTask adds an unchecked task to path, creating the file when it does
// not exist. PositionTop inserts before the first list item (or at the end
// when there is none); PositionBottom appends after trimming trailing blank
// lines.
func (m *Mutator) AppendTask(path, text string, pos Position, asNA bool) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: task text is required", ErrInvalid)
	}
	var lines []string
	if m.fs.Exists(path) {
		b, err := m.fs.ReadFile(path)
		if err != nil {
			return err
		}
		content := strings.TrimSuffix(string(b), "\n")
		if content != "" {
			lines = strings.Split(content, "\n")
		}
	}
	newLine := m.FormatTask(text, asNA)

	switch pos {
	case PositionTop:
		insertAt := len(lines)
		for i, line := range lines {
			if m.rules.listItem.MatchString(line) {
				insertAt = i
				break
			}
		}
		lines = append(lines, "")
		copy(lines[insertAt+1:], lines[insertAt:])
		lines[insertAt] = newLine
	case PositionBottom, "":
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, newLine)
	default:
		return fmt.Errorf("%w: unknown position %q", ErrInvalid, pos)
	}
	return m.fs.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"))
}

// CompleteTask checks the box on line (1-based), drops the tag and trims
// trailing whitespace. Completing an already checked line changes nothing.
func (m *Mutator) CompleteTask(path string, line int) error {
	return m.editLine(path, line, func(s string) string {
		s = uncheckedPrefixRe.ReplaceAllString(s, "${1}- [x]")
		return strings.TrimRightFunc(m.rules.stripTag(s), unicode.IsSpace)
	})
}

// SkipTask drops the tag from line (1-based) without touching the checkbox.
func (m *Mutator) SkipTask(path string, line int) error {
	return m.editLine(path, line, func(s string) string {
		return strings.TrimRightFunc(m.rules.stripTag(s), unicode.IsSpace)
	})
}

func (m *Mutator) editLine(path string, line int, edit func(string) string) error {
	b, err := m.fs.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(b), "\n")
	if line < 1 || line > len(lines) {
		return fmt.Errorf("%w: line %d of %d in %s", ErrOutOfRange, line, len(lines), path)
	}
	lines[line-1] = edit(lines[line-1])
	return m.fs.WriteFile(path, []byte(strings.Join(lines, "\n")))
}
