package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ge0mant1s/soacframe-community/model"
)

const (
	// TechniqueNamespace is the Sigma tag namespace for ATT&CK tags.
	TechniqueNamespace = "attack."
	// TechniqueTagPrefix marks a technique tag (attack.t1190) as opposed to a
	// tactic tag (attack.initial_access). Matched case-insensitively.
	TechniqueTagPrefix = TechniqueNamespace + "t"
)

var errEmptyDocument = errors.New("empty document")

// ParseDocument decodes a structured rule. Files ending in .json are read as
// JSON, everything else as YAML. The top level must be a mapping.
func ParseDocument(path string, content []byte) (model.RuleDocument, error) {
	var fields map[string]any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &fields)
	} else {
		err = yaml.Unmarshal(content, &fields)
	}
	if err != nil {
		return model.RuleDocument{}, &model.ParseError{Path: path, Err: err}
	}
	if fields == nil {
		return model.RuleDocument{}, &model.ParseError{Path: path, Err: errEmptyDocument}
	}
	return model.RuleDocument{Path: path, Fields: fields}, nil
}

// IsTechniqueTag reports whether tag is an ATT&CK technique tag.
func IsTechniqueTag(tag string) bool {
	return strings.HasPrefix(strings.ToLower(tag), TechniqueTagPrefix)
}

// FromDocument returns the canonical technique IDs declared in the tags field,
// in tag order. A missing or null tags field declares nothing.
func FromDocument(doc model.RuleDocument) ([]string, error) {
	raw, present := doc.Fields["tags"]
	if !present || raw == nil {
		return nil, nil
	}
	if _, ok := raw.([]any); !ok {
		return nil, &model.ParseError{Path: doc.Path, Err: fmt.Errorf("tags must be a sequence, got %T", raw)}
	}

	var techniques []string
	for _, tag := range doc.Tags() {
		if IsTechniqueTag(tag) {
			techniques = append(techniques, strings.ToUpper(tag[len(TechniqueNamespace):]))
		}
	}
	return techniques, nil
}

// DocumentExtractor extracts techniques from structured rule documents.
type DocumentExtractor struct{}

// Extract implements Extractor.
func (DocumentExtractor) Extract(path string, content []byte) (model.DetectionRule, error) {
	doc, err := ParseDocument(path, content)
	if err != nil {
		return model.DetectionRule{}, err
	}
	techniques, err := FromDocument(doc)
	if err != nil {
		return model.DetectionRule{}, err
	}
	return model.DetectionRule{
		Path:       path,
		Name:       filepath.Base(path),
		Format:     model.FormatStructured,
		Techniques: techniques,
	}, nil
}
