// Package diagnostics defines the structured diagnostics produced while
// building a docset and the per-file store that accumulates them.
package diagnostics

import (
	"fmt"
	"strings"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelSuggestion
	LevelInfo
)

var levelNames = [...]string{"error", "warning", "suggestion", "info"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range levelNames {
		if n == name {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic level %q", string(b))
}

// Source locates a diagnostic. Lines and columns are 1-based; zero means unknown.
type Source struct {
	File      string `json:"file"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`
}

// At returns a point source on line:col of file.
func At(file string, line, col int) Source {
	return Source{File: file, Line: line, Column: col, EndLine: line, EndColumn: col}
}

func (s Source) String() string {
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s(%d,%d)", s.File, s.Line, s.Column)
}

// Diagnostic is a single reportable condition attributed to one file.
type Diagnostic struct {
	Code    string `json:"code"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Source  Source `json:"source"`
}

// New builds a diagnostic with a formatted message.
func New(code string, level Level, src Source, format string, args ...any) Diagnostic {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Diagnostic{Code: code, Level: level, Message: msg, Source: src}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Source, d.Level, d.Code, d.Message)
}

// Sink receives diagnostics as they are raised.
type Sink interface {
	Add(d Diagnostic)
}

// SliceSink collects diagnostics in memory. Not safe for concurrent use.
type SliceSink []Diagnostic

// Add appends d.
func (s *SliceSink) Add(d Diagnostic) { *s = append(*s, d) }

// HasError reports whether any collected diagnostic is error level.
func HasError(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
