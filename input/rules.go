package input

import (
	"os"
	"path/filepath"

	"github.com/ge0mant1s/soacframe-community/extract"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

// LoadRules reads and extracts every path. A file that cannot be read or
// parsed is kept as a rule with ParseError set so the rest of the run goes on.
// Rule names are relative to root when root is a directory containing them.
// onFile, when set, is called once per file.
func LoadRules(root string, paths []string, onFile func(path string, err error)) []model.DetectionRule {
	rules := make([]model.DetectionRule, 0, len(paths))
	for _, path := range paths {
		rule, err := loadRule(path)
		rule.Name = ruleName(root, path)
		if err != nil {
			util.Warn("Skipping %s: %v", path, err)
		} else {
			util.Debug("Loaded %s: %d techniques", path, len(rule.Techniques))
		}
		if onFile != nil {
			onFile(path, err)
		}
		rules = append(rules, rule)
	}
	return rules
}

func loadRule(path string) (model.DetectionRule, error) {
	format := DetectRuleFormat(path)
	content, err := os.ReadFile(path)
	if err != nil {
		perr := &model.ParseError{Path: path, Err: err}
		return model.DetectionRule{Path: path, Format: format, ParseError: perr.Error()}, perr
	}
	return extract.Extract(path, content, format)
}

// LoadRuleDocuments parses every path as a structured rule. Files that cannot
// be read or parsed come back as failed validation results instead.
func LoadRuleDocuments(paths []string) ([]model.RuleDocument, []model.ValidationResult) {
	var docs []model.RuleDocument
	var failures []model.ValidationResult
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err == nil {
			var doc model.RuleDocument
			doc, err = extract.ParseDocument(path, content)
			if err == nil {
				docs = append(docs, doc)
				continue
			}
		}
		util.Warn("Could not parse %s: %v", path, err)
		failures = append(failures, model.ValidationResult{
			Path:   path,
			Errors: []string{"Unparsable document: " + err.Error()},
		})
	}
	return docs, failures
}

// MissingMarker returns the query files that do not mention the technique
// marker at all. Unreadable files are reported as missing.
func MissingMarker(paths []string) []string {
	q := extract.NewQueryExtractor()
	missing := []string{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			util.Warn("Could not read %s: %v", path, err)
		}
		if err != nil || !q.HasMarker(content) {
			missing = append(missing, filepath.Base(path))
		}
	}
	return missing
}

func ruleName(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && rel != "." && !startsWithParent(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(path)
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}
