package model

// TechniqueCoverage is the coverage state of one reference technique.
type TechniqueCoverage struct {
	ID      string   `json:"id" csv:"technique"`
	Name    string   `json:"name" csv:"name"`
	Covered bool     `json:"covered" csv:"covered"`
	Rules   []string `json:"rules" csv:"rules"` // contributing rule names, sorted
}

// SuspectMatch is a free-text extraction whose value does not look like a technique ID.
type SuspectMatch struct {
	Rule  string `json:"rule"`
	Line  int    `json:"line"`
	Value string `json:"value"`
}

// FileError records a rule file that could not be parsed.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// CoverageReport is the result of measuring a rule set against a ReferenceSet.
type CoverageReport struct {
	Reference    string              `json:"reference"`
	Total        int                 `json:"total"`
	Covered      int                 `json:"covered"`
	Percentage   float64             `json:"percentage"` // one decimal place
	RulesScanned int                 `json:"rules_scanned"`
	Techniques   []TechniqueCoverage `json:"techniques"` // sorted by ID
	Unmapped     []string            `json:"unmapped,omitempty"`
	Extra        []string            `json:"extra,omitempty"`
	Suspect      []SuspectMatch      `json:"suspect,omitempty"`
	ParseErrors  []FileError         `json:"parse_errors,omitempty"`
}

// Uncovered returns the reference techniques with no contributing rule.
func (r CoverageReport) Uncovered() []TechniqueCoverage {
	var out []TechniqueCoverage
	for _, t := range r.Techniques {
		if !t.Covered {
			out = append(out, t)
		}
	}
	return out
}

// ValidationResult holds the structural errors of one rule. No errors means valid.
type ValidationResult struct {
	Path   string   `json:"path" csv:"path"`
	Title  string   `json:"title,omitempty" csv:"title"`
	Errors []string `json:"errors" csv:"errors"`
}

// Valid reports whether the rule passed every check.
func (v ValidationResult) Valid() bool {
	return len(v.Errors) == 0
}
