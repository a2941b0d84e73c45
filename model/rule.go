package model

import "strings"

// RuleFormat identifies how a rule artifact declares its techniques.
type RuleFormat string

const (
	// FormatUnknown is returned for files that are neither query nor structured rules.
	FormatUnknown RuleFormat = "unknown"
	// FormatQuery is a free-text query file carrying comment tags (KQL, SPL, ...).
	FormatQuery RuleFormat = "query"
	// FormatStructured is a key/value rule document (Sigma style YAML or JSON).
	FormatStructured RuleFormat = "structured"
)

// TechniqueMatch is one marker line found in a query file.
type TechniqueMatch struct {
	Line      int    `json:"line" csv:"line"`
	Technique string `json:"technique" csv:"technique"` // value before the delimiter, trimmed
	Raw       string `json:"raw" csv:"raw"`             // full line as read
}

// DetectionRule is the extraction result for a single rule file.
type DetectionRule struct {
	Path       string           `json:"path"`
	Name       string           `json:"name"` // base name, used in reports
	Format     RuleFormat       `json:"format"`
	Techniques []string         `json:"techniques"`
	Suspect    []TechniqueMatch `json:"suspect,omitempty"`
	ParseError string           `json:"parse_error,omitempty"`
}

// RuleDocument is a parsed structured rule. Fields keeps every top-level key
// that was present in the document, including keys with null values.
type RuleDocument struct {
	Path   string
	Fields map[string]any
}

// Has reports whether field was present in the document.
func (d RuleDocument) Has(field string) bool {
	_, ok := d.Fields[field]
	return ok
}

// Tags returns the string entries of the tags sequence. Non-string entries are
// skipped. A missing or non-sequence tags field yields nil.
func (d RuleDocument) Tags() []string {
	raw, ok := d.Fields["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// Title returns the title field as a trimmed string, or "" when absent.
func (d RuleDocument) Title() string {
	s, _ := d.Fields["title"].(string)
	return strings.TrimSpace(s)
}

// Campaign names a threat campaign and the tag substring that links rules to it.
type Campaign struct {
	Name string `json:"name" yaml:"name"` // Salt Typhoon
	Tag  string `json:"tag" yaml:"tag"`   // salt_typhoon
}
