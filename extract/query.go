package extract

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ge0mant1s/soacframe-community/model"
)

const (
	// QueryMarker introduces a technique declaration in a query file comment.
	QueryMarker = "MITRE:"
	// QueryDelimiter separates the identifier from a trailing description.
	QueryDelimiter = "-"

	maxQueryLine = 1024 * 1024
)

// QueryExtractor scans free-text query files line by line. A line declares a
// technique when it contains Marker. The value is the text after the first
// Marker, up to the next Marker, cut at the first Delimiter and trimmed. Every such line yields
// exactly one value; duplicates are kept.
type QueryExtractor struct {
	Marker    string
	Delimiter string
}

// NewQueryExtractor returns a scanner using QueryMarker and QueryDelimiter.
func NewQueryExtractor() QueryExtractor {
	return QueryExtractor{Marker: QueryMarker, Delimiter: QueryDelimiter}
}

// Scan returns one match per marker line, in file order.
func (q QueryExtractor) Scan(content []byte) ([]model.TechniqueMatch, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxQueryLine)

	var matches []model.TechniqueMatch
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		_, value, found := strings.Cut(line, q.Marker)
		if !found {
			continue
		}
		value, _, _ = strings.Cut(value, q.Marker)
		value, _, _ = strings.Cut(value, q.Delimiter)
		matches = append(matches, model.TechniqueMatch{
			Line:      lineNo,
			Technique: strings.TrimSpace(value),
			Raw:       line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Extract implements Extractor. Values that do not look like technique IDs
// are kept and also listed in Suspect.
func (q QueryExtractor) Extract(path string, content []byte) (model.DetectionRule, error) {
	matches, err := q.Scan(content)
	if err != nil {
		return model.DetectionRule{}, &model.ParseError{Path: path, Err: err}
	}

	rule := model.DetectionRule{
		Path:       path,
		Name:       filepath.Base(path),
		Format:     model.FormatQuery,
		Techniques: make([]string, 0, len(matches)),
	}
	for _, m := range matches {
		rule.Techniques = append(rule.Techniques, m.Technique)
		if !IsTechniqueID(m.Technique) {
			rule.Suspect = append(rule.Suspect, m)
		}
	}
	return rule, nil
}

// HasMarker reports whether content contains the marker anywhere.
func (q QueryExtractor) HasMarker(content []byte) bool {
	return bytes.Contains(content, []byte(q.Marker))
}
