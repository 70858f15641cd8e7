// Package chartfile reads .chart documents into the chart model.
package chartfile

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/QEStudios/ChartScaler/chart"
	"github.com/QEStudios/ChartScaler/parser/combinator"
)

// ParseError describes where a document stopped matching the grammar.
type ParseError struct {
	Line     int    // 1-based line of the failure.
	Column   int    // 1-based column, counted in characters.
	Section  string // The section header the failure is inside, if any.
	Expected string // What the grammar expected at that point.
	Near     string // The offending line from the failure onwards.
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("line %d, column %d: in [%s]: expected %s near %q", e.Line, e.Column, e.Section, e.Expected, e.Near)
	}
	return fmt.Sprintf("line %d, column %d: expected %s near %q", e.Line, e.Column, e.Expected, e.Near)
}

func newParseError(text string, err *combinator.Error) *ParseError {
	remaining := strings.TrimLeft(err.Remaining, " \t\r\n")
	offset := len(text) - len(remaining)
	before := text[:offset]

	lineStart := strings.LastIndexByte(before, '\n') + 1
	_, near, _ := combinator.NotLineEnding()(remaining)

	// A failure on a header belongs to the section the grammar was looking for.
	section := enclosingSection(before)
	if section == "" || strings.HasPrefix(remaining, "[") {
		section = err.Context
	}

	return &ParseError{
		Line:     strings.Count(before, "\n") + 1,
		Column:   utf8.RuneCountInString(before[lineStart:]) + 1,
		Section:  section,
		Expected: err.Expected,
		Near:     near,
	}
}

// enclosingSection returns the name of the last section header that starts a line in text.
func enclosingSection(text string) string {
	for {
		idx := strings.LastIndex(text, "[")
		if idx == -1 {
			return ""
		}
		if idx == 0 || text[idx-1] == '\n' {
			line := text[idx+1:]
			if end := strings.IndexAny(line, "]\n"); end != -1 && line[end] == ']' {
				return line[:end]
			}
		}
		text = text[:idx]
	}
}

// Parse parses the full text of a .chart file.
//
// Grammar failures are returned as *ParseError. A [Song] section without a usable Resolution
// fails with an error wrapping chart.ErrMissingResolution or chart.ErrInvalidResolution.
func Parse(text string) (*chart.Chart, error) {
	_, c, err := document(text)
	if err != nil {
		var ce *combinator.Error
		if errors.As(err, &ce) {
			return nil, newParseError(text, ce)
		}
		return nil, err
	}
	return c, nil
}

// Parser reads a single chart document from a reader.
type Parser struct {
	r      io.Reader
	logger *log.Logger

	// Whether or not the parser has already been used.
	// A parser should only be used once.
	used bool
}

// NewParser returns a Parser reading from r. A nil logger falls back to log.Default().
func NewParser(r io.Reader, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{
		r:      r,
		logger: logger,
	}
}

// Parse reads all of the input and parses it.
func (p *Parser) Parse() (*chart.Chart, error) {
	if p.used {
		return nil, fmt.Errorf("parser already used")
	}
	p.used = true

	data, err := io.ReadAll(p.r)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}

	c, err := Parse(string(data))
	if err != nil {
		return nil, err
	}

	p.logger.Printf("Parsed chart with resolution %d: %d sync events, %d global events, %d tracks",
		c.Song.Resolution, len(c.SyncTrack), len(c.Events), len(c.Tracks))
	return c, nil
}
