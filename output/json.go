package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ge0mant1s/soacframe-community/aggregate"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
)

type verdictJSON struct {
	Policy    string  `json:"policy"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
	ExitCode  int     `json:"exit_code"`
}

type coverageJSON struct {
	model.CoverageReport
	ByRule  map[string][]string `json:"by_rule"`
	Verdict verdictJSON         `json:"verdict"`
}

type validationJSON struct {
	Checked int                      `json:"checked"`
	Failed  []model.ValidationResult `json:"failed"`
}

type headersJSON struct {
	Missing []string `json:"missing"`
	Passed  bool     `json:"passed"`
}

type exposureJSON struct {
	Title    string                  `json:"title,omitempty"`
	Analyzed int                     `json:"analyzed"`
	Summary  map[string]int          `json:"summary"`
	Findings []model.ExposureFinding `json:"findings"`
	Playbook string                  `json:"playbook,omitempty"`
}

type documentJSON struct {
	Meta       model.Meta      `json:"meta"`
	Coverage   *coverageJSON   `json:"coverage,omitempty"`
	Validation *validationJSON `json:"validation,omitempty"`
	Headers    *headersJSON    `json:"headers,omitempty"`
	Exposure   *exposureJSON   `json:"exposure,omitempty"`
}

// JSONWriter implements the Writer interface for JSON output. Results are
// collected and the document is written on Close.
type JSONWriter struct {
	filePath string
	doc      documentJSON
	mu       sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(filePath string, meta model.Meta) (*JSONWriter, error) {
	if filePath == "" {
		return nil, fmt.Errorf("JSON output requires a file path")
	}
	return &JSONWriter{filePath: filePath, doc: documentJSON{Meta: meta}}, nil
}

func (w *JSONWriter) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc.Coverage = &coverageJSON{
		CoverageReport: report,
		ByRule:         aggregate.TechniqueRules(report),
		Verdict: verdictJSON{
			Policy:    verdict.Policy.Name,
			Threshold: verdict.Policy.Threshold,
			Passed:    verdict.Passed,
			ExitCode:  verdict.ExitCode,
		},
	}
	return nil
}

func (w *JSONWriter) WriteValidation(results []model.ValidationResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	failed := aggregate.Failures(results)
	if failed == nil {
		failed = []model.ValidationResult{}
	}
	w.doc.Validation = &validationJSON{Checked: len(results), Failed: failed}
	return nil
}

func (w *JSONWriter) WriteHeaders(missing []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if missing == nil {
		missing = []string{}
	}
	w.doc.Headers = &headersJSON{Missing: missing, Passed: len(missing) == 0}
	return nil
}

func (w *JSONWriter) WriteExposure(report ExposureReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := report.Assessment
	summary := make(map[string]int, len(model.Tiers))
	for _, t := range model.Tiers {
		summary[t.String()] = a.Count(t)
	}
	findings := a.Findings
	if findings == nil {
		findings = []model.ExposureFinding{}
	}
	w.doc.Exposure = &exposureJSON{
		Title:    report.Title,
		Analyzed: a.Analyzed,
		Summary:  summary,
		Findings: findings,
		Playbook: report.Playbook,
	}
	return nil
}

// Close writes the collected document to the output file.
func (w *JSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON output file %s: %w", w.filePath, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(w.doc)
}
