package local

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScanOutcome is the winning file and task of a directory walk. The zero
// value means nothing actionable was found.
type ScanOutcome struct {
	Task         string `json:"task"`
	Found        bool   `json:"found"`
	Source       string `json:"source"`
	AbsolutePath string `json:"absolute_path"`
	Line         int    `json:"line"`
	Remaining    int    `json:"remaining"`
	Kind         Kind   `json:"type"`
}

// Scanner walks from a directory up through its ancestors looking for the
// first task file with an actionable candidate.
type Scanner struct {
	filenames []string
	recursion RecursionConfig
	parser    *Parser
	fs        FileSystem
	home      string
}

func NewScanner(cfg Config, fsys FileSystem) (*Scanner, error) {
	if len(cfg.Filenames) == 0 {
		return nil, fmt.Errorf("%w: no task filenames configured", ErrInvalid)
	}
	if cfg.Recursion.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max depth %d", ErrInvalid, cfg.Recursion.MaxDepth)
	}
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	parser, err := NewParser(cfg.Parsing, fsys)
	if err != nil {
		return nil, err
	}
	home, _ := os.UserHomeDir()
	return &Scanner{
		filenames: append([]string(nil), cfg.Filenames...),
		recursion: cfg.Recursion,
		parser:    parser,
		fs:        fsys,
		home:      cleanOrEmpty(home),
	}, nil
}

// WithHome returns a copy of the scanner that treats dir as the home
// directory for the stop-at-home rule.
func (s *Scanner) WithHome(dir string) *Scanner {
	c := *s
	c.home = cleanOrEmpty(dir)
	return &c
}

func (s *Scanner) Parser() *Parser { return s.parser }

// Scan returns the highest-precedence task of the nearest task file that
// has one. Files without candidates do not end the walk.
func (s *Scanner) Scan(startDir string) ScanOutcome {
	start := resolveDir(startDir)
	var out ScanOutcome
	s.walk(start, func(dir string) bool {
		for _, name := range s.filenames {
			path := filepath.Join(dir, name)
			if !s.fs.Exists(path) {
				continue
			}
			res := s.parser.ParseFile(path)
			if res.Primary == nil {
				continue
			}
			source, err := filepath.Rel(start, path)
			if err != nil || source == "" {
				source = name
			}
			out = ScanOutcome{
				Task:         res.Primary.Text,
				Found:        true,
				Source:       source,
				AbsolutePath: path,
				Line:         res.Primary.Line,
				Remaining:    res.Remaining,
				Kind:         res.Primary.Kind,
			}
			return true
		}
		return false
	})
	return out
}

// FindOrCreateTodoPath returns the nearest existing task file, whatever its
// content. When none exists it returns the first configured filename in the
// start directory; the caller creates it.
func (s *Scanner) FindOrCreateTodoPath(startDir string) string {
	start := resolveDir(startDir)
	found := ""
	s.walk(start, func(dir string) bool {
		for _, name := range s.filenames {
			path := filepath.Join(dir, name)
			if s.fs.Exists(path) {
				found = path
				return true
			}
		}
		return false
	})
	if found != "" {
		return found
	}
	return filepath.Join(start, s.filenames[0])
}

// walk visits start and its ancestors until visit returns true, a stop
// condition holds, or MaxDepth directories have been visited.
func (s *Scanner) walk(start string, visit func(dir string) bool) {
	dir := start
	for depth := 0; depth < s.recursion.MaxDepth; depth++ {
		if visit(dir) {
			return
		}
		if s.recursion.StopAtHome && s.home != "" && dir == s.home {
			return
		}
		if s.recursion.StopAtGitRoot && s.fs.Exists(filepath.Join(dir, ".git")) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func resolveDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

func cleanOrEmpty(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Clean(dir)
}
