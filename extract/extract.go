// Package extract reads technique identifiers out of detection rule artifacts.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ge0mant1s/soacframe-community/model"
)

var techniqueIDPattern = regexp.MustCompile(`^T\d{4}(\.\d{3})?$`)

// Extractor yields the techniques declared by a single rule artifact.
type Extractor interface {
	Extract(path string, content []byte) (model.DetectionRule, error)
}

// For returns the extractor for a rule format.
func For(format model.RuleFormat) (Extractor, error) {
	switch format {
	case model.FormatQuery:
		return NewQueryExtractor(), nil
	case model.FormatStructured:
		return DocumentExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported rule format: %s", format)
	}
}

// Extract runs the extractor for format over content. On failure the returned
// rule still carries its path and name, with ParseError set and no techniques.
func Extract(path string, content []byte, format model.RuleFormat) (model.DetectionRule, error) {
	ex, err := For(format)
	if err != nil {
		return failed(path, format, err), err
	}
	rule, err := ex.Extract(path, content)
	if err != nil {
		return failed(path, format, err), err
	}
	return rule, nil
}

func failed(path string, format model.RuleFormat, err error) model.DetectionRule {
	return model.DetectionRule{
		Path:       path,
		Name:       filepath.Base(path),
		Format:     format,
		ParseError: err.Error(),
	}
}

// NormalizeTechnique returns the canonical form used for comparison.
func NormalizeTechnique(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsTechniqueID reports whether s looks like T1234 or T1234.001 once normalized.
func IsTechniqueID(s string) bool {
	return techniqueIDPattern.MatchString(NormalizeTechnique(s))
}
