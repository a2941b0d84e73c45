// Package validate checks structured detection rules for required fields and
// ATT&CK / campaign tagging.
package validate

import (
	"fmt"
	"strings"

	"github.com/ge0mant1s/soacframe-community/catalog"
	"github.com/ge0mant1s/soacframe-community/extract"
	"github.com/ge0mant1s/soacframe-community/model"
)

// RequiredFields returns the top-level fields every rule must carry, in check
// order. Each call returns a fresh slice.
func RequiredFields() []string {
	return []string{"title", "id", "description", "tags", "logsource", "detection"}
}

// Schema is the set of structural checks applied to one rule document.
type Schema struct {
	RequiredFields []string
	Campaign       model.Campaign
}

// DefaultSchema checks the standard Sigma fields and the Salt Typhoon campaign tag.
func DefaultSchema() Schema {
	return Schema{
		RequiredFields: RequiredFields(),
		Campaign:       catalog.SaltTyphoon(),
	}
}

// Validate returns the structural errors of doc in check order: missing
// required fields, then missing technique tag, then missing campaign tag.
// The tag checks only run when tags is present. Tags that are present but not
// a sequence count as carrying no tags.
func (s Schema) Validate(doc model.RuleDocument) model.ValidationResult {
	result := model.ValidationResult{Path: doc.Path, Title: doc.Title(), Errors: []string{}}

	for _, field := range s.RequiredFields {
		if !doc.Has(field) {
			result.Errors = append(result.Errors, "Missing required field: "+field)
		}
	}

	if !doc.Has("tags") {
		return result
	}
	tags := doc.Tags()

	if !anyTag(tags, extract.IsTechniqueTag) {
		result.Errors = append(result.Errors, "No ATT&CK technique tags found")
	}

	needle := strings.ToLower(s.Campaign.Tag)
	if !anyTag(tags, func(t string) bool { return strings.Contains(strings.ToLower(t), needle) }) {
		result.Errors = append(result.Errors, fmt.Sprintf("No %s campaign tag found", s.Campaign.Name))
	}

	return result
}

// Rule validates doc against DefaultSchema.
func Rule(doc model.RuleDocument) model.ValidationResult {
	return DefaultSchema().Validate(doc)
}

func anyTag(tags []string, match func(string) bool) bool {
	for _, t := range tags {
		if match(t) {
			return true
		}
	}
	return false
}
